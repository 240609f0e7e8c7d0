package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	mapviewsvc "github.com/yogaheristya/ruas-console/internal/services/mapview"
	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	httperrors "github.com/yogaheristya/ruas-console/internal/transport/http/errors"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

// MapHandler serves the assembled map render plan for the dashboard.
type MapHandler struct {
	service  *mapviewsvc.Service
	sessions *sessionsvc.Manager
	log      *zap.Logger
}

func NewMapHandler(service *mapviewsvc.Service, sessions *sessionsvc.Manager, log *zap.Logger) *MapHandler {
	return &MapHandler{service: service, sessions: sessions, log: log}
}

func (h *MapHandler) Features(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionsvc.TokenFromContext(r.Context())
	if !ok {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.service == nil {
		writeInternal(w, "MAP_SERVICE_UNAVAILABLE", "map service is unavailable")
		return
	}

	plan, err := h.service.Assemble(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrUnauthorized):
			h.sessions.Clear(w)
			httperrors.WriteMessage(w, http.StatusUnauthorized, "session expired")
		case errors.Is(err, upstream.ErrBadPayload):
			httperrors.WriteMessage(w, http.StatusInternalServerError, "invalid response from backend")
		default:
			h.log.Error("assemble map features failed", zap.Error(err))
			httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, plan)
}
