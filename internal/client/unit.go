package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yogaheristya/ruas-console/internal/domain/model"
)

type UnitsResult struct {
	Success bool         `json:"success"`
	Data    []model.Unit `json:"data"`
}

// ListUnits fetches the unit reference data for the selection control.
func (c *Client) ListUnits(ctx context.Context) (UnitsResult, error) {
	res, err := c.get(ctx, c.baseURL+"/api/unit")
	if err != nil {
		return UnitsResult{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return UnitsResult{Success: false, Data: []model.Unit{}}, nil
	}

	var body struct {
		Data []model.Unit `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return UnitsResult{}, fmt.Errorf("decode unit listing: %w", err)
	}
	if body.Data == nil {
		body.Data = []model.Unit{}
	}

	return UnitsResult{Success: true, Data: body.Data}, nil
}
