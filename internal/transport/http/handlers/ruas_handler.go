package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
	"github.com/yogaheristya/ruas-console/internal/domain/model"
	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	"github.com/yogaheristya/ruas-console/internal/transport/http/dto"
	httperrors "github.com/yogaheristya/ruas-console/internal/transport/http/errors"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

const maxRuasFormSize = 8 << 20

// RuasHandler proxies the ruas collection to the upstream API. The
// bearer token is read from the request context (put there by the
// session middleware); a stale token detected upstream clears the
// cookie so the browser re-authenticates.
type RuasHandler struct {
	upstream *upstream.Client
	sessions *sessionsvc.Manager
	listing  config.ListingConfig
	log      *zap.Logger
}

func NewRuasHandler(up *upstream.Client, sessions *sessionsvc.Manager, listing config.ListingConfig, log *zap.Logger) *RuasHandler {
	return &RuasHandler{upstream: up, sessions: sessions, listing: listing, log: log}
}

func (h *RuasHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionsvc.TokenFromContext(r.Context())
	if !ok {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", h.listing.DefaultPerPage)
	show := r.URL.Query().Get("show")

	listing, err := h.upstream.ListRuas(r.Context(), token, page, perPage, show)
	if err != nil {
		h.writeListingError(w, listing, err)
		return
	}

	resp := dto.RuasListResponse{Data: listing.Data}
	if listing.Kind == upstream.ListingPaginated {
		resp.CurrentPage = &listing.CurrentPage
		resp.LastPage = &listing.LastPage
		resp.PerPage = &listing.PerPage
		resp.Total = &listing.Total
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *RuasHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionsvc.TokenFromContext(r.Context())
	if !ok {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	form, err := formFromRequest(r)
	if err != nil {
		httperrors.WriteMessage(w, http.StatusBadRequest, "invalid form data")
		return
	}

	res, err := h.upstream.CreateRuas(r.Context(), token, form)
	if err != nil {
		h.log.Error("create ruas upstream call failed", zap.Error(err))
		httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.passthrough(w, res, "failed to create ruas")
}

func (h *RuasHandler) Detail(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionsvc.TokenFromContext(r.Context())
	if !ok {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.upstream.GetRuas(r.Context(), token, id)
	if err != nil {
		h.log.Error("get ruas upstream call failed", zap.Error(err))
		httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.passthrough(w, res, "failed to fetch ruas detail")
}

func (h *RuasHandler) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionsvc.TokenFromContext(r.Context())
	if !ok {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	form, err := formFromRequest(r)
	if err != nil {
		httperrors.WriteMessage(w, http.StatusBadRequest, "invalid form data")
		return
	}

	res, err := h.upstream.UpdateRuas(r.Context(), token, id, form)
	if err != nil {
		h.log.Error("update ruas upstream call failed", zap.Error(err))
		httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.passthrough(w, res, "failed to update ruas")
}

func (h *RuasHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionsvc.TokenFromContext(r.Context())
	if !ok {
		httperrors.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.upstream.DeleteRuas(r.Context(), token, id)
	if err != nil {
		h.log.Error("delete ruas upstream call failed", zap.Error(err))
		httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.passthrough(w, res, "failed to delete ruas")
}

// passthrough forwards the upstream reply: auth failures invalidate the
// session, unparsable bodies become a distinct 500 and everything else
// keeps the upstream status.
func (h *RuasHandler) passthrough(w http.ResponseWriter, res upstream.Response, failMessage string) {
	if res.Unauthorized() {
		h.sessions.Clear(w)
		httperrors.WriteMessage(w, http.StatusUnauthorized, "session expired")
		return
	}

	if !res.OK() {
		httperrors.Write(w, res.StatusCode, httperrors.ProxyError{
			Message:         failMessage,
			BackendStatus:   res.StatusCode,
			BackendResponse: string(res.Body),
		})
		return
	}

	if len(res.Body) == 0 {
		httperrors.Write(w, http.StatusOK, dto.RuasListResponse{Data: []model.Ruas{}})
		return
	}

	if !json.Valid(res.Body) {
		httperrors.WriteMessage(w, http.StatusInternalServerError, "invalid response from backend")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}

func (h *RuasHandler) writeListingError(w http.ResponseWriter, listing upstream.Listing, err error) {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		h.sessions.Clear(w)
		httperrors.WriteMessage(w, http.StatusUnauthorized, "session expired")
	case errors.Is(err, upstream.ErrBadPayload):
		httperrors.WriteMessage(w, http.StatusInternalServerError, "invalid response from backend")
	case listing.Kind == upstream.ListingError && listing.StatusCode != 0:
		httperrors.Write(w, listing.StatusCode, httperrors.ProxyError{
			Message:         "backend error",
			BackendStatus:   listing.StatusCode,
			BackendResponse: string(listing.Raw),
		})
	default:
		h.log.Error("list ruas upstream call failed", zap.Error(err))
		httperrors.WriteMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func formFromRequest(r *http.Request) (*upstream.Form, error) {
	if err := r.ParseMultipartForm(maxRuasFormSize); err != nil {
		return nil, err
	}

	form := upstream.NewForm()
	for name, values := range r.MultipartForm.Value {
		for _, v := range values {
			form.Add(name, v)
		}
	}
	return form, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid ruas id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
