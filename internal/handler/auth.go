package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/tablepay/tablepay/internal/domain/user"
)

type loginRequest struct {
	Portal   string `json:"portal"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Portal  string `json:"portal"`
	Name    string `json:"name"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Portal == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "portal, email and password are required")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Portal, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		UserID:  u.ID,
		Portal:  u.Portal,
		Name:    u.Name,
	})
}
