package http

import (
	"encoding/json"
	"net/http"

	"filevault/pkg/auth"
	"filevault/pkg/store/metadata"
)

type newUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// postUsers handles POST /users: account creation.
func (h *handlers) postUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A malformed body leaves both fields empty and the field checks
	// below produce the precise message, so the decode error itself is
	// irrelevant.
	var req newUserRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Email == "" {
		writeError(w, metadata.ErrMissingEmail)
		return
	}
	if req.Password == "" {
		writeError(w, metadata.ErrMissingPassword)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.reg.Metadata().CreateUser(ctx, req.Email, hash)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userBody{ID: user.ID.Hex(), Email: user.Email})
}

// getMe handles GET /users/me: the account behind the token.
func (h *handlers) getMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := h.gate.Authenticate(ctx, r.Header.Get(tokenHeader))
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.reg.Metadata().FindUserByID(ctx, userID)
	if err != nil {
		// The session outlived the account; the token is no longer a
		// usable credential.
		if metadata.IsNotFound(err) {
			writeError(w, auth.ErrUnauthorized)
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userBody{ID: user.ID.Hex(), Email: user.Email})
}
