package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateRequest holds the input for placing an order.
type CreateRequest struct {
	TableID     string
	Items       []LineItem
	TotalAmount decimal.Decimal
	PaymentMode string
}

// Service owns the order state machine and the policy of which storage tier
// each transition reads and writes. It keeps no order state in process
// memory; every call re-fetches from a tier, so replicas cannot drift.
type Service struct {
	active  ActiveStore
	archive Archive
}

// NewService creates an order Service over the two storage tiers.
func NewService(active ActiveStore, archive Archive) *Service {
	return &Service{
		active:  active,
		archive: archive,
	}
}

// Create validates the request, assigns a new identifier, and writes the
// pending snapshot to the volatile tier. Creation is fail-closed: if the
// write cannot be confirmed the order is not placed and the caller gets a
// StoreUnavailableError. An order the kitchen cannot see must not be
// reported as placed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	o := &Order{
		ID:          uuid.New().String(),
		TableID:     req.TableID,
		Items:       req.Items,
		TotalAmount: req.TotalAmount,
		PaymentMode: req.PaymentMode,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.active.Put(ctx, o); err != nil {
		return nil, &StoreUnavailableError{Err: err}
	}

	return o, nil
}

// ListActive returns every order currently in the volatile tier. The read
// path is fail-open: a tier failure is logged and yields an empty listing
// rather than an error, so the kitchen dashboard keeps rendering.
func (s *Service) ListActive(ctx context.Context) ([]Order, error) {
	orders, err := s.active.ListAll(ctx)
	if err != nil {
		zctx.From(ctx).Warn("Active order listing failed, returning empty set",
			zap.Error(err))
		return []Order{}, nil
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// UpdateStatus applies a lifecycle transition. Non-terminal transitions
// overwrite the volatile snapshot. The transition to served is the sole
// durable-persistence point: the snapshot is archived once, then removed
// from the volatile tier. For an order that is already archived, "served"
// is re-applied idempotently and any other status is a conflict.
func (s *Service) UpdateStatus(ctx context.Context, id, rawStatus string) (*Order, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.active.Get(ctx, id)
	switch {
	case err == nil:
		return s.updateActive(ctx, current, status)
	case errors.Is(err, ErrNotActive):
		// Confirmed miss: the order may already be finalized.
	default:
		// A failed volatile read is treated as a miss so a finalized order
		// can still be confirmed while the tier is down. Creation is the
		// only fail-closed path.
		zctx.From(ctx).Warn("Active store read failed, falling back to archive",
			zap.String("order_id", id), zap.Error(err))
	}

	return s.updateArchived(ctx, id, status)
}

// updateActive handles transitions for an order still in the volatile tier.
func (s *Service) updateActive(ctx context.Context, o *Order, status Status) (*Order, error) {
	o.Status = status

	if !status.Terminal() {
		if err := s.active.Put(ctx, o); err != nil {
			// Best-effort overwrite: the tier is authoritative again on the
			// next read, and swallowing here matches the degraded-read policy.
			zctx.From(ctx).Warn("Active snapshot overwrite failed",
				zap.String("order_id", o.ID), zap.String("status", string(status)), zap.Error(err))
		}
		return o, nil
	}

	// Finalization: archive first, delete the snapshot only after the durable
	// write is confirmed. A failed insert keeps the volatile entry so the
	// order is not lost and the caller may retry.
	if err := s.archive.Insert(ctx, o); err != nil {
		return nil, &PersistError{ID: o.ID, Err: err}
	}
	if err := s.active.Delete(ctx, o.ID); err != nil {
		zctx.From(ctx).Warn("Active snapshot delete after finalization failed",
			zap.String("order_id", o.ID), zap.Error(err))
	}
	return o, nil
}

// updateArchived handles transitions for an order absent from the volatile
// tier, which may already have been finalized.
func (s *Service) updateArchived(ctx context.Context, id string, status Status) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		// The archive keys orders by UUID; anything else cannot exist there.
		return nil, ErrNotFound
	}

	archived, err := s.archive.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find archived order %s", id)
	}

	if status.Terminal() {
		// Duplicate "mark served" requests are tolerated: re-applying the
		// terminal status returns the same durable record.
		updated, err := s.archive.UpdateStatus(ctx, id, StatusServed)
		if err != nil {
			return nil, &PersistError{ID: id, Err: err}
		}
		return updated, nil
	}

	return nil, &AlreadyCompletedError{ID: id, Status: archived.Status}
}

func validateCreate(req CreateRequest) error {
	if req.TableID == "" {
		return ErrTableRequired
	}
	if len(req.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return &InvalidQuantityError{Name: item.Name}
		}
		if !item.Price.IsPositive() {
			return &InvalidPriceError{Name: item.Name}
		}
	}
	if !req.TotalAmount.IsPositive() {
		return ErrInvalidTotal
	}
	if req.PaymentMode == "" {
		return ErrPaymentModeRequired
	}
	return nil
}
