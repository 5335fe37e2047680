package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablepay/tablepay/internal/domain/menu"
	"github.com/tablepay/tablepay/internal/domain/order"
	"github.com/tablepay/tablepay/internal/domain/user"
)

type fakeActiveStore struct {
	orders  map[string]*order.Order
	putErr  error
	listErr error
}

func newFakeActiveStore() *fakeActiveStore {
	return &fakeActiveStore{orders: make(map[string]*order.Order)}
}

func (s *fakeActiveStore) Put(_ context.Context, o *order.Order) error {
	if s.putErr != nil {
		return s.putErr
	}
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeActiveStore) Get(_ context.Context, id string) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotActive
	}
	cp := *o
	return &cp, nil
}

func (s *fakeActiveStore) Delete(_ context.Context, id string) error {
	delete(s.orders, id)
	return nil
}

func (s *fakeActiveStore) ListAll(_ context.Context) ([]order.Order, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

type fakeArchive struct {
	orders    map[string]*order.Order
	insertErr error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{orders: make(map[string]*order.Order)}
}

func (a *fakeArchive) Insert(_ context.Context, o *order.Order) error {
	if a.insertErr != nil {
		return a.insertErr
	}
	cp := *o
	a.orders[o.ID] = &cp
	return nil
}

func (a *fakeArchive) FindByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := a.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (a *fakeArchive) UpdateStatus(_ context.Context, id string, status order.Status) (*order.Order, error) {
	o, ok := a.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

type stubMenuRepo struct{}

func (stubMenuRepo) List(context.Context) ([]menu.Item, error) { return nil, nil }
func (stubMenuRepo) Create(context.Context, *menu.Item) error  { return nil }
func (stubMenuRepo) Update(context.Context, *menu.Item) error  { return nil }
func (stubMenuRepo) Delete(context.Context, string) error      { return nil }

type stubMenuCache struct{}

func (stubMenuCache) Get(context.Context) ([]menu.Item, error) { return nil, menu.ErrNotCached }
func (stubMenuCache) Set(context.Context, []menu.Item) error   { return nil }
func (stubMenuCache) Invalidate(context.Context) error         { return nil }

type stubUserRepo struct{}

func (stubUserRepo) FindByEmail(context.Context, string, string) (*user.User, error) {
	return nil, user.ErrNotFound
}

type testEnv struct {
	server  *httptest.Server
	active  *fakeActiveStore
	archive *fakeArchive
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	active := newFakeActiveStore()
	archive := newFakeArchive()

	h := New(
		order.NewService(active, archive),
		menu.NewService(stubMenuRepo{}, stubMenuCache{}),
		user.NewService(stubUserRepo{}),
	)
	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, active: active, archive: archive}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func validOrderBody() completeOrderRequest {
	return completeOrderRequest{
		TableID: "T1",
		Items: []lineItemDTO{
			{Name: "Tea", Price: 10, Quantity: 2},
		},
		TotalAmount: 20,
		PaymentMode: "cash",
	}
}

func TestCompleteOrder(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/order/complete", validOrderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[completeOrderResponse](t, resp)
	assert.Equal(t, "Order placed successfully", body.Message)
	assert.InDelta(t, 20, body.TotalAmount, 0.001)

	_, err := uuid.Parse(body.OrderID)
	require.NoError(t, err)

	stored, ok := env.active.orders[body.OrderID]
	require.True(t, ok)
	assert.Equal(t, order.StatusPending, stored.Status)

	resp = env.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listed := decodeBody[[]orderDTO](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, body.OrderID, listed[0].ID)
	assert.Equal(t, "pending", listed[0].Status)
	assert.Equal(t, "T1", listed[0].TableID)
	require.Len(t, listed[0].Items, 1)
	assert.Equal(t, "Tea", listed[0].Items[0].Name)
	assert.Equal(t, 2, listed[0].Items[0].Quantity)
}

func TestCompleteOrder_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(*completeOrderRequest)
	}{
		{"missing table", func(r *completeOrderRequest) { r.TableID = "" }},
		{"no items", func(r *completeOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *completeOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *completeOrderRequest) { r.Items[0].Price = -1 }},
		{"zero total", func(r *completeOrderRequest) { r.TotalAmount = 0 }},
		{"missing payment mode", func(r *completeOrderRequest) { r.PaymentMode = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validOrderBody()
			tt.mutate(&body)

			resp := env.do(t, http.MethodPost, "/api/order/complete", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCompleteOrder_StoreDown(t *testing.T) {
	env := newTestEnv(t)
	env.active.putErr = context.DeadlineExceeded

	resp := env.do(t, http.MethodPost, "/api/order/complete", validOrderBody())
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, body.Code)
	assert.Empty(t, env.active.orders)
}

func TestListOrders_Empty(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	orders := decodeBody[[]orderDTO](t, resp)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrders_StoreDownReturnsEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.active.listErr = context.DeadlineExceeded

	resp := env.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]orderDTO](t, resp))
}

func TestUpdateOrderStatus_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	created := decodeBody[completeOrderResponse](t,
		env.do(t, http.MethodPost, "/api/order/complete", validOrderBody()))
	path := "/api/orders/" + created.OrderID + "/status"

	// Walk the order through the kitchen and confirm each transition.
	for _, status := range []string{"preparing", "ready"} {
		resp := env.do(t, http.MethodPut, path, updateStatusRequest{Status: status})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[orderDTO](t, resp)
		assert.Equal(t, status, body.Status)
		assert.Contains(t, env.active.orders, created.OrderID)
		assert.Empty(t, env.archive.orders)
	}

	// Serving finalizes: the order moves from the volatile tier to the archive.
	resp := env.do(t, http.MethodPut, path, updateStatusRequest{Status: "served"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "served", decodeBody[orderDTO](t, resp).Status)
	assert.NotContains(t, env.active.orders, created.OrderID)
	assert.Contains(t, env.archive.orders, created.OrderID)

	// Serving again is idempotent.
	resp = env.do(t, http.MethodPut, path, updateStatusRequest{Status: "served"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Reopening a completed order conflicts.
	resp = env.do(t, http.MethodPut, path, updateStatusRequest{Status: "preparing"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	created := decodeBody[completeOrderResponse](t,
		env.do(t, http.MethodPost, "/api/order/complete", validOrderBody()))

	resp := env.do(t, http.MethodPut, "/api/orders/"+created.OrderID+"/status",
		updateStatusRequest{Status: "burnt"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPut, "/api/orders/"+uuid.New().String()+"/status",
		updateStatusRequest{Status: "preparing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateOrderStatus_ArchiveFailure(t *testing.T) {
	env := newTestEnv(t)
	env.archive.insertErr = context.DeadlineExceeded

	created := decodeBody[completeOrderResponse](t,
		env.do(t, http.MethodPost, "/api/order/complete", validOrderBody()))

	resp := env.do(t, http.MethodPut, "/api/orders/"+created.OrderID+"/status",
		updateStatusRequest{Status: "served"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// The volatile snapshot survives a failed finalization.
	assert.Contains(t, env.active.orders, created.OrderID)
}
