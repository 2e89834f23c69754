package http

import (
	"net/http"

	"filevault/pkg/auth"
	"filevault/pkg/store/metadata"
)

// tokenHeader carries the session token on every authenticated request.
const tokenHeader = "X-Token"

type tokenBody struct {
	Token string `json:"token"`
}

// getConnect handles GET /connect: Basic credentials in, token out.
// Every failure mode collapses into the same 401 so probing cannot
// tell a missing account from a wrong password.
func (h *handlers) getConnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, password, ok := r.BasicAuth()
	if !ok || email == "" || password == "" {
		writeError(w, auth.ErrUnauthorized)
		return
	}

	user, err := h.reg.Metadata().FindUserByEmail(ctx, email)
	if err != nil {
		if metadata.IsNotFound(err) {
			writeError(w, auth.ErrUnauthorized)
			return
		}
		writeError(w, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		writeError(w, auth.ErrUnauthorized)
		return
	}

	token, err := h.gate.Login(ctx, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenBody{Token: token})
}

// getDisconnect handles GET /disconnect: revokes the session behind
// the token header.
func (h *handlers) getDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context(), r.Header.Get(tokenHeader)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
