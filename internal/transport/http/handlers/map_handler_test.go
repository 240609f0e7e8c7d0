package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
	"github.com/yogaheristya/ruas-console/internal/domain/model"
	mapviewsvc "github.com/yogaheristya/ruas-console/internal/services/mapview"
	sessionsvc "github.com/yogaheristya/ruas-console/internal/services/session"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

type fakeLister struct {
	listing upstream.Listing
	err     error
}

func (f fakeLister) ListRuas(context.Context, string, int, int, string) (upstream.Listing, error) {
	return f.listing, f.err
}

func newMapHandler(lister mapviewsvc.SegmentLister) *MapHandler {
	svc := mapviewsvc.NewService(lister, nil, config.MapConfig{
		UnitColors:   map[int64]string{1: "#2563eb"},
		DefaultColor: "#0f172a",
	}, 100, zap.NewNop())
	return NewMapHandler(svc, sessionsvc.NewManager("access_token", false), zap.NewNop())
}

func TestMapFeaturesReturnsPlan(t *testing.T) {
	h := newMapHandler(fakeLister{listing: upstream.Listing{
		Kind: upstream.ListingPaginated,
		Data: []model.Ruas{{
			ID:       1,
			RuasName: "Jalan A",
			UnitID:   1,
			Coordinates: []model.Coordinate{
				{Ordering: 0, Coordinates: "-6.2,106.8"},
				{Ordering: 1, Coordinates: "-6.3,106.9"},
			},
		}},
	}})

	rr := httptest.NewRecorder()
	h.Features(rr, authedRequest(http.MethodGet, "/api/map/features", "tok-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var plan struct {
		Segments []struct {
			Color   string `json:"color"`
			Snapped bool   `json:"snapped"`
		} `json:"segments"`
		Markers []struct {
			Label string `json:"label"`
		} `json:"markers"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plan.Segments) != 1 || plan.Segments[0].Color != "#2563eb" || plan.Segments[0].Snapped {
		t.Fatalf("segments = %+v", plan.Segments)
	}
	if len(plan.Markers) != 2 || plan.Markers[0].Label != "Titik ke-1" {
		t.Fatalf("markers = %+v", plan.Markers)
	}
}

func TestMapFeaturesUpstreamRejectionClearsCookie(t *testing.T) {
	h := newMapHandler(fakeLister{err: upstream.ErrUnauthorized})

	rr := httptest.NewRecorder()
	h.Features(rr, authedRequest(http.MethodGet, "/api/map/features", "stale"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "access_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("cookie not cleared")
	}
}

func TestMapFeaturesWithoutTokenIs401(t *testing.T) {
	h := newMapHandler(fakeLister{})

	rr := httptest.NewRecorder()
	h.Features(rr, httptest.NewRequest(http.MethodGet, "/api/map/features", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
