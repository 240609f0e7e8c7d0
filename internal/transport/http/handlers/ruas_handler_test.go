package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

func newRuasHandler(t *testing.T, backend http.HandlerFunc) *RuasHandler {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	up := upstream.NewClient(srv.URL, &http.Client{Timeout: 5 * time.Second})
	sessions := sessionsvc.NewManager("access_token", false)
	return NewRuasHandler(up, sessions, config.ListingConfig{DefaultPerPage: 5, MapPerPage: 100}, zap.NewNop())
}

func authedRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(sessionsvc.WithToken(req.Context(), token))
}

func withPathID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestListWithoutContextTokenIs401AndSkipsUpstream(t *testing.T) {
	h := newRuasHandler(t, func(http.ResponseWriter, *http.Request) {
		t.Error("upstream must not be called without a token")
	})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/ruas", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestListForwardsPaginationAndBearer(t *testing.T) {
	h := newRuasHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("page") != "3" || q.Get("per_page") != "7" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":1,"ruas_name":"Jalan A","unit_id":2,"status":"1"}],"current_page":3,"last_page":4,"per_page":7,"total":22}`))
	})

	rr := httptest.NewRecorder()
	h.List(rr, authedRequest(http.MethodGet, "/api/ruas?page=3&per_page=7", "tok-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data        []json.RawMessage `json:"data"`
		CurrentPage *int              `json:"current_page"`
		LastPage    *int              `json:"last_page"`
		Total       *int              `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("data length = %d", len(resp.Data))
	}
	if resp.CurrentPage == nil || *resp.CurrentPage != 3 {
		t.Fatalf("current_page = %v", resp.CurrentPage)
	}
	if resp.LastPage == nil || *resp.LastPage != 4 {
		t.Fatalf("last_page = %v", resp.LastPage)
	}
	if resp.Total == nil || *resp.Total != 22 {
		t.Fatalf("total = %v", resp.Total)
	}
}

func TestListBareArrayOmitsPagination(t *testing.T) {
	h := newRuasHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":9,"ruas_name":"Jalan B"}]}`))
	})

	rr := httptest.NewRecorder()
	h.List(rr, authedRequest(http.MethodGet, "/api/ruas", "tok-1"))

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := resp["current_page"]; ok {
		t.Fatal("bare listing must not carry pagination fields")
	}
}

func TestListUpstream401ClearsCookie(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		h := newRuasHandler(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})

		rr := httptest.NewRecorder()
		h.List(rr, authedRequest(http.MethodGet, "/api/ruas", "stale"))

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("upstream %d: status = %d, want 401", status, rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("upstream %d: decode: %v", status, err)
		}
		if resp["message"] != "session expired" {
			t.Fatalf("upstream %d: message = %q", status, resp["message"])
		}

		cleared := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == "access_token" && c.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Fatalf("upstream %d: cookie not cleared", status)
		}
	}
}

func TestListUnparsableBodyIs500(t *testing.T) {
	h := newRuasHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	rr := httptest.NewRecorder()
	h.List(rr, authedRequest(http.MethodGet, "/api/ruas", "tok-1"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestListBackendErrorPassesStatusThrough(t *testing.T) {
	h := newRuasHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"db down"}`))
	})

	rr := httptest.NewRecorder()
	h.List(rr, authedRequest(http.MethodGet, "/api/ruas", "tok-1"))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	var resp struct {
		BackendStatus   int    `json:"backendStatus"`
		BackendResponse string `json:"backendResponse"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BackendStatus != http.StatusBadGateway || resp.BackendResponse == "" {
		t.Fatalf("proxy error = %+v", resp)
	}
}

func TestDetailEmptyBodySynthesizesEmptyData(t *testing.T) {
	h := newRuasHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := withPathID(authedRequest(http.MethodGet, "/api/ruas/5", "tok-1"), "5")
	h.Detail(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Fatalf("data = %v, want empty array", resp.Data)
	}
}

func TestDetailInvalidIDIs400(t *testing.T) {
	h := newRuasHandler(t, func(http.ResponseWriter, *http.Request) {
		t.Error("upstream must not be called for a bad id")
	})

	rr := httptest.NewRecorder()
	req := withPathID(authedRequest(http.MethodGet, "/api/ruas/abc", "tok-1"), "abc")
	h.Detail(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestDeletePassesUpstreamBodyThrough(t *testing.T) {
	h := newRuasHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"status":true,"message":"deleted"}`))
	})

	rr := httptest.NewRecorder()
	req := withPathID(authedRequest(http.MethodDelete, "/api/ruas/5", "tok-1"), "5")
	h.Delete(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Body.String(); got != `{"status":true,"message":"deleted"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestDeleteUpstream403ClearsCookie(t *testing.T) {
	h := newRuasHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	rr := httptest.NewRecorder()
	req := withPathID(authedRequest(http.MethodDelete, "/api/ruas/5", "stale"), "5")
	h.Delete(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
