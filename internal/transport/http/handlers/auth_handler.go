package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	"github.com/yogaheristya/ruas-console/internal/transport/http/dto"
	httperrors "github.com/yogaheristya/ruas-console/internal/transport/http/errors"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

const maxCredentialFormSize = 1 << 20

type AuthHandler struct {
	upstream *upstream.Client
	sessions *sessionsvc.Manager
	log      *zap.Logger
}

func NewAuthHandler(up *upstream.Client, sessions *sessionsvc.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{upstream: up, sessions: sessions, log: log}
}

// Login exchanges submitted credentials for an upstream token and stores
// it in the session cookie. Failures stay deliberately generic so the
// response never reveals which credential was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.upstream == nil {
		writeInternal(w, "UPSTREAM_UNAVAILABLE", "upstream client is unavailable")
		return
	}

	if err := r.ParseMultipartForm(maxCredentialFormSize); err != nil {
		httperrors.WriteMessage(w, http.StatusBadRequest, "invalid login form")
		return
	}

	res, err := h.upstream.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, upstream.ErrBadPayload) {
			httperrors.WriteMessage(w, http.StatusInternalServerError, "invalid response from backend")
			return
		}
		h.log.Error("login upstream call failed", zap.Error(err))
		httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !res.OK {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "username or password is invalid")
		return
	}

	h.sessions.Set(w, res.AccessToken, time.Duration(res.ExpiresIn)*time.Second)
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "login successful"})
}

// Logout clears the cookie unconditionally; there is no upstream call to
// make since the token simply stops being presented.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Clear(w)
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "logout successful"})
}
