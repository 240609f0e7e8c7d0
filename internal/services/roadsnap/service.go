package roadsnap

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
)

// RouteCache is the snapped-path cache. A nil-safe implementation backs
// it with Redis; cache faults degrade to a miss, never to a failed snap.
type RouteCache interface {
	Get(ctx context.Context, key string) ([][2]float64, bool, error)
	Set(ctx context.Context, key string, path [][2]float64, ttl time.Duration) error
}

// Service snaps an ordered point list onto road geometry through an
// OSRM-compatible routing endpoint. Points are [lat,lng] pairs; the wire
// format is lng,lat per the OSRM convention.
type Service struct {
	baseURL  string
	profile  string
	http     *http.Client
	cache    RouteCache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewService(cfg config.RoutingConfig, httpClient *http.Client, cache RouteCache, log *zap.Logger) *Service {
	profile := cfg.Profile
	if profile == "" {
		profile = "driving"
	}

	return &Service{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		profile:  profile,
		http:     httpClient,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		log:      log,
	}
}

// Snap returns the road-snapped path through the given points, or nil
// when the routing service finds no route. Transport and decode faults
// surface as errors; the caller falls back to the raw points either way.
func (s *Service) Snap(ctx context.Context, points [][2]float64) ([][2]float64, error) {
	if len(points) < 2 {
		return nil, nil
	}

	coords := coordPath(points)
	key := cacheKey(s.profile, coords)

	if s.cache != nil {
		if path, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			return path, nil
		} else if err != nil && s.log != nil {
			s.log.Debug("route cache read failed", zap.Error(err))
		}
	}

	target := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson", s.baseURL, s.profile, coords)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build routing request: %w", err)
	}

	res, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call routing service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, nil
	}

	var body struct {
		Routes []struct {
			Geometry struct {
				Coordinates [][2]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}
	if len(body.Routes) == 0 || len(body.Routes[0].Geometry.Coordinates) == 0 {
		return nil, nil
	}

	path := make([][2]float64, 0, len(body.Routes[0].Geometry.Coordinates))
	for _, lngLat := range body.Routes[0].Geometry.Coordinates {
		path = append(path, [2]float64{lngLat[1], lngLat[0]})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, path, s.cacheTTL); err != nil && s.log != nil {
			s.log.Debug("route cache write failed", zap.Error(err))
		}
	}

	return path, nil
}

func coordPath(points [][2]float64) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		lng := strconv.FormatFloat(p[1], 'f', -1, 64)
		lat := strconv.FormatFloat(p[0], 'f', -1, 64)
		parts = append(parts, lng+","+lat)
	}
	return strings.Join(parts, ";")
}

func cacheKey(profile, coords string) string {
	sum := sha256.Sum256([]byte(profile + ":" + coords))
	return hex.EncodeToString(sum[:])
}
