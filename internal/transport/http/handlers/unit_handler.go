package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/domain/model"
	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	"github.com/yogaheristya/ruas-console/internal/transport/http/dto"
	httperrors "github.com/yogaheristya/ruas-console/internal/transport/http/errors"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

// UnitHandler proxies the read-only unit reference listing.
type UnitHandler struct {
	upstream *upstream.Client
	sessions *sessionsvc.Manager
	log      *zap.Logger
}

func NewUnitHandler(up *upstream.Client, sessions *sessionsvc.Manager, log *zap.Logger) *UnitHandler {
	return &UnitHandler{upstream: up, sessions: sessions, log: log}
}

func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionsvc.TokenFromContext(r.Context())
	if !ok {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := h.upstream.ListUnits(r.Context(), token)
	if err != nil {
		h.log.Error("list units upstream call failed", zap.Error(err))
		httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if res.Unauthorized() {
		h.sessions.Clear(w)
		httperrors.WriteMessage(w, http.StatusUnauthorized, "session expired")
		return
	}

	if !res.OK() {
		httperrors.Write(w, res.StatusCode, httperrors.ProxyError{
			Message:         "failed to fetch units",
			BackendStatus:   res.StatusCode,
			BackendResponse: string(res.Body),
		})
		return
	}

	if len(res.Body) == 0 {
		httperrors.Write(w, http.StatusOK, dto.UnitListResponse{Data: []model.Unit{}})
		return
	}

	if !json.Valid(res.Body) {
		httperrors.WriteMessage(w, http.StatusInternalServerError, "invalid response from backend")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}
