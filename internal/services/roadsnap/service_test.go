package roadsnap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
	"github.com/yogaheristya/ruas-console/internal/infra/httpclient"
	redrepo "github.com/yogaheristya/ruas-console/internal/repo/redis"
)

func TestSnapConvertsCoordinateOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/route/v1/driving/") {
			t.Fatalf("unexpected routing path: %s", r.URL.Path)
		}
		// OSRM receives lng,lat pairs.
		if !strings.Contains(r.URL.Path, "106.8,-6.2;106.9,-6.3") {
			t.Fatalf("unexpected coordinate path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("geometries") != "geojson" {
			t.Fatalf("unexpected geometries param: %s", r.URL.Query().Get("geometries"))
		}
		_, _ = w.Write([]byte(`{"routes":[{"geometry":{"coordinates":[[106.8,-6.2],[106.85,-6.25],[106.9,-6.3]]}}]}`))
	}))
	defer ts.Close()

	svc := NewService(config.RoutingConfig{BaseURL: ts.URL, Profile: "driving"}, httpclient.New(time.Second), nil, zap.NewNop())

	path, err := svc.Snap(context.Background(), [][2]float64{{-6.2, 106.8}, {-6.3, 106.9}})
	if err != nil {
		t.Fatalf("snap: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("unexpected path length: %d", len(path))
	}
	if path[1] != [2]float64{-6.25, 106.85} {
		t.Fatalf("expected lat,lng order in result, got %v", path[1])
	}
}

func TestSnapNoRouteReturnsNil(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{name: "empty routes", code: http.StatusOK, body: `{"routes":[]}`},
		{name: "no route status", code: http.StatusBadRequest, body: `{"code":"NoRoute"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			svc := NewService(config.RoutingConfig{BaseURL: ts.URL}, httpclient.New(time.Second), nil, zap.NewNop())
			path, err := svc.Snap(context.Background(), [][2]float64{{-6.2, 106.8}, {-6.3, 106.9}})
			if err != nil {
				t.Fatalf("snap: %v", err)
			}
			if path != nil {
				t.Fatalf("expected nil path for no-route, got %v", path)
			}
		})
	}
}

func TestSnapSkipsSinglePoint(t *testing.T) {
	svc := NewService(config.RoutingConfig{BaseURL: "http://unused.invalid"}, httpclient.New(time.Second), nil, zap.NewNop())

	path, err := svc.Snap(context.Background(), [][2]float64{{-6.2, 106.8}})
	if err != nil || path != nil {
		t.Fatalf("single point must snap to nothing, got %v / %v", path, err)
	}
}

func TestSnapUsesCacheOnSecondCall(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"routes":[{"geometry":{"coordinates":[[106.8,-6.2],[106.9,-6.3]]}}]}`))
	}))
	defer ts.Close()

	svc := NewService(config.RoutingConfig{
		BaseURL:  ts.URL,
		Profile:  "driving",
		CacheTTL: time.Hour,
	}, httpclient.New(time.Second), redrepo.NewRouteCacheRepo(client), zap.NewNop())

	points := [][2]float64{{-6.2, 106.8}, {-6.3, 106.9}}

	first, err := svc.Snap(context.Background(), points)
	if err != nil {
		t.Fatalf("first snap: %v", err)
	}
	second, err := svc.Snap(context.Background(), points)
	if err != nil {
		t.Fatalf("second snap: %v", err)
	}

	if calls.Load() != 1 {
		t.Fatalf("expected one routing call, got %d", calls.Load())
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Fatalf("cache returned different path: %v vs %v", first, second)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := svc.Snap(context.Background(), points); err != nil {
		t.Fatalf("snap after ttl: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected cache expiry to trigger a second routing call, got %d", calls.Load())
	}
}
