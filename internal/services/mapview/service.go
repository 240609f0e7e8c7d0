package mapview

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/yogaheristya/ruas-console/internal/config"
	"github.com/yogaheristya/ruas-console/internal/domain/model"
	"github.com/yogaheristya/ruas-console/internal/pkg/validate"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

// Render constants match the console's line styling.
const (
	segmentWeight  = 4
	segmentOpacity = 0.9
	hoverWeight    = 7
	hoverColor     = "#f59e0b"
)

// SegmentLister supplies the active segments to draw; satisfied by the
// upstream client.
type SegmentLister interface {
	ListRuas(ctx context.Context, token string, page, perPage int, show string) (upstream.Listing, error)
}

// RoadSnapper turns an ordered point list into road geometry, or nil
// when no route exists. Points are [lat,lng].
type RoadSnapper interface {
	Snap(ctx context.Context, points [][2]float64) ([][2]float64, error)
}

// Plan is everything a map client needs to draw one view: styled
// segment paths, per-point markers and the viewport bounds.
type Plan struct {
	Segments []Segment `json:"segments"`
	Markers  []Marker  `json:"markers"`
	Bounds   *Bounds   `json:"bounds,omitempty"`
}

type Segment struct {
	RuasID      int64        `json:"ruas_id"`
	RuasName    string       `json:"ruas_name"`
	UnitID      int64        `json:"unit_id"`
	Color       string       `json:"color"`
	Weight      int          `json:"weight"`
	Opacity     float64      `json:"opacity"`
	HoverColor  string       `json:"hover_color"`
	HoverWeight int          `json:"hover_weight"`
	Snapped     bool         `json:"snapped"`
	Path        [][2]float64 `json:"path"`
	Popup       SegmentPopup `json:"popup"`
}

type SegmentPopup struct {
	RuasName string `json:"ruas_name"`
	UnitID   int64  `json:"unit_id"`
	LongKM   string `json:"long_km"`
	KmAwal   string `json:"km_awal"`
	KmAkhir  string `json:"km_akhir"`
}

type Marker struct {
	RuasName string  `json:"ruas_name"`
	Label    string  `json:"label"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Color    string  `json:"color"`
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Service assembles the map render plan. Snapping happens sequentially
// per segment; one view is rendered per navigation, so there is nothing
// to limit.
type Service struct {
	lister        SegmentLister
	snapper       RoadSnapper
	colors        map[int64]string
	fallbackColor string
	perPage       int
	log           *zap.Logger
}

func NewService(lister SegmentLister, snapper RoadSnapper, mapCfg config.MapConfig, perPage int, log *zap.Logger) *Service {
	if perPage <= 0 {
		perPage = 100
	}
	return &Service{
		lister:        lister,
		snapper:       snapper,
		colors:        mapCfg.UnitColors,
		fallbackColor: mapCfg.DefaultColor,
		perPage:       perPage,
		log:           log,
	}
}

// Assemble lists the active segments and builds the render plan. Any
// snap failure degrades that segment to the straight-line path through
// its raw ordering-sorted points.
func (s *Service) Assemble(ctx context.Context, token string) (Plan, error) {
	listing, err := s.lister.ListRuas(ctx, token, 1, s.perPage, "active_only")
	if err != nil {
		return Plan{}, fmt.Errorf("list segments: %w", err)
	}

	plan := Plan{Segments: []Segment{}, Markers: []Marker{}}
	var bounds *Bounds

	for _, ruas := range listing.Data {
		if len(ruas.Coordinates) < 2 {
			continue
		}

		points, labels := orderedPoints(ruas.Coordinates)
		if len(points) < 2 {
			continue
		}

		color := s.colorFor(ruas.UnitID)

		path, snapped := s.snapOrFallback(ctx, ruas.RuasName, points)

		plan.Segments = append(plan.Segments, Segment{
			RuasID:      ruas.ID,
			RuasName:    ruas.RuasName,
			UnitID:      ruas.UnitID,
			Color:       color,
			Weight:      segmentWeight,
			Opacity:     segmentOpacity,
			HoverColor:  hoverColor,
			HoverWeight: hoverWeight,
			Snapped:     snapped,
			Path:        path,
			Popup: SegmentPopup{
				RuasName: ruas.RuasName,
				UnitID:   ruas.UnitID,
				LongKM:   ruas.Long.String(),
				KmAwal:   ruas.KmAwal,
				KmAkhir:  ruas.KmAkhir,
			},
		})

		for i, p := range points {
			plan.Markers = append(plan.Markers, Marker{
				RuasName: ruas.RuasName,
				Label:    labels[i],
				Lat:      p[0],
				Lng:      p[1],
				Color:    color,
			})
		}

		bounds = extendBounds(bounds, path)
		bounds = extendBounds(bounds, points)
	}

	plan.Bounds = bounds
	return plan, nil
}

func (s *Service) snapOrFallback(ctx context.Context, name string, points [][2]float64) ([][2]float64, bool) {
	if s.snapper == nil {
		return points, false
	}

	path, err := s.snapper.Snap(ctx, points)
	if err != nil {
		if s.log != nil {
			s.log.Warn("road snap failed, using raw path", zap.String("ruas", name), zap.Error(err))
		}
		return points, false
	}
	if len(path) == 0 {
		return points, false
	}
	return path, true
}

// orderedPoints sorts by ordering ascending and drops points whose
// coordinate string does not parse.
func orderedPoints(coords []model.Coordinate) ([][2]float64, []string) {
	sorted := make([]model.Coordinate, len(coords))
	copy(sorted, coords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ordering < sorted[j].Ordering
	})

	points := make([][2]float64, 0, len(sorted))
	labels := make([]string, 0, len(sorted))
	for _, c := range sorted {
		lat, lng, err := validate.CoordinatePair(c.Coordinates)
		if err != nil {
			continue
		}
		points = append(points, [2]float64{lat, lng})
		labels = append(labels, fmt.Sprintf("Titik ke-%d", c.Ordering+1))
	}

	return points, labels
}

func (s *Service) colorFor(unitID int64) string {
	if color, ok := s.colors[unitID]; ok {
		return color
	}
	return s.fallbackColor
}

func extendBounds(b *Bounds, points [][2]float64) *Bounds {
	for _, p := range points {
		if b == nil {
			b = &Bounds{MinLat: p[0], MaxLat: p[0], MinLng: p[1], MaxLng: p[1]}
			continue
		}
		if p[0] < b.MinLat {
			b.MinLat = p[0]
		}
		if p[0] > b.MaxLat {
			b.MaxLat = p[0]
		}
		if p[1] < b.MinLng {
			b.MinLng = p[1]
		}
		if p[1] > b.MaxLng {
			b.MaxLng = p[1]
		}
	}
	return b
}
