package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ruas is a road segment owned by the upstream API. The gateway never
// persists these; each instance is a transient view of upstream state.
type Ruas struct {
	ID          int64        `json:"id"`
	RuasName    string       `json:"ruas_name"`
	UnitID      int64        `json:"unit_id"`
	UnitName    string       `json:"unit_kerja_name,omitempty"`
	Long        Scalar       `json:"long,omitempty"`
	KmAwal      string       `json:"km_awal,omitempty"`
	KmAkhir     string       `json:"km_akhir,omitempty"`
	Status      Scalar       `json:"status"`
	Coordinates []Coordinate `json:"coordinates,omitempty"`
}

// Coordinate is one point on a segment path. Coordinates holds a
// "lat,lng" decimal pair; Ordering ascending defines the path.
type Coordinate struct {
	Ordering    int    `json:"ordering"`
	Coordinates string `json:"coordinates"`
}

// Scalar tolerates upstream fields that arrive either as a JSON string
// or a JSON number ("12.5" vs 12.5). It round-trips as a string.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scalar field: %w", err)
	}
	*s = Scalar(n.String())
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s Scalar) String() string { return string(s) }

// RuasForm carries the fields submitted by the create/edit modal. The
// upstream expects them as multipart form fields.
type RuasForm struct {
	UnitID      string
	RuasName    string
	Long        string
	KmAwal      string
	KmAkhir     string
	Status      string
	Coordinates []string
}
