package validate

import (
	"fmt"
	"strconv"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// CoordinatePair parses a "lat,lng" decimal pair as entered in the
// coordinates control and stored by the upstream.
func CoordinatePair(value string) (lat, lng float64, err error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("coordinate %q: want lat,lng", value)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("coordinate %q latitude: %w", value, err)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("coordinate %q longitude: %w", value, err)
	}

	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("coordinate %q: latitude out of range", value)
	}
	if lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("coordinate %q: longitude out of range", value)
	}

	return lat, lng, nil
}
