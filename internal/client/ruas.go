package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yogaheristya/ruas-console/internal/domain/model"
	"github.com/yogaheristya/ruas-console/internal/upstream"
)

// ListResult is the normalized listing shape the table consumes.
type ListResult struct {
	Success     bool         `json:"success"`
	Status      int          `json:"status"`
	Message     string       `json:"message,omitempty"`
	Data        []model.Ruas `json:"data"`
	CurrentPage int          `json:"current_page"`
	LastPage    int          `json:"last_page"`
}

// RuasDetail is the edit-form shape: scalar fields as strings and the
// nested coordinate objects flattened to their "lat,lng" values.
type RuasDetail struct {
	ID          int64    `json:"id"`
	UnitID      int64    `json:"unit_id"`
	RuasName    string   `json:"ruas_name"`
	Long        string   `json:"long"`
	KmAwal      string   `json:"km_awal"`
	KmAkhir     string   `json:"km_akhir"`
	Status      string   `json:"status"`
	Coordinates []string `json:"coordinates"`
}

type DetailResult struct {
	Success bool       `json:"success"`
	Status  int        `json:"status"`
	Message string     `json:"message,omitempty"`
	Data    RuasDetail `json:"data"`
}

// Result covers mutations that only need a status outcome.
type Result struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

func (c *Client) ListRuas(ctx context.Context, page, perPage int) (ListResult, error) {
	target := fmt.Sprintf("%s/api/ruas?page=%d&per_page=%d", c.baseURL, page, perPage)

	res, err := c.get(ctx, target)
	if err != nil {
		return ListResult{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return ListResult{
			Success: false, Status: res.StatusCode, Message: "session expired",
			Data: []model.Ruas{}, CurrentPage: page, LastPage: page,
		}, nil
	}
	if res.StatusCode != http.StatusOK {
		return ListResult{
			Success: false, Status: res.StatusCode, Message: "failed to fetch ruas",
			Data: []model.Ruas{}, CurrentPage: page, LastPage: page,
		}, nil
	}

	var body struct {
		Data        []model.Ruas `json:"data"`
		CurrentPage *int         `json:"current_page"`
		LastPage    *int         `json:"last_page"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return ListResult{}, fmt.Errorf("decode ruas listing: %w", err)
	}

	result := ListResult{
		Success:     true,
		Status:      http.StatusOK,
		Data:        body.Data,
		CurrentPage: page,
		LastPage:    page,
	}
	if result.Data == nil {
		result.Data = []model.Ruas{}
	}
	if body.CurrentPage != nil {
		result.CurrentPage = *body.CurrentPage
	}
	if body.LastPage != nil {
		result.LastPage = *body.LastPage
	}

	return result, nil
}

func (c *Client) GetRuasDetail(ctx context.Context, id int64) (DetailResult, error) {
	res, err := c.get(ctx, c.baseURL+"/api/ruas/"+strconv.FormatInt(id, 10))
	if err != nil {
		return DetailResult{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return DetailResult{Success: false, Status: res.StatusCode, Message: "session expired"}, nil
	}
	if res.StatusCode != http.StatusOK {
		return DetailResult{Success: false, Status: res.StatusCode, Message: "failed to fetch ruas detail"}, nil
	}

	var body struct {
		Data model.Ruas `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return DetailResult{}, fmt.Errorf("decode ruas detail: %w", err)
	}

	coords := make([]string, 0, len(body.Data.Coordinates))
	for _, c := range body.Data.Coordinates {
		coords = append(coords, c.Coordinates)
	}

	return DetailResult{
		Success: true,
		Status:  http.StatusOK,
		Data: RuasDetail{
			ID:          body.Data.ID,
			UnitID:      body.Data.UnitID,
			RuasName:    body.Data.RuasName,
			Long:        body.Data.Long.String(),
			KmAwal:      body.Data.KmAwal,
			KmAkhir:     body.Data.KmAkhir,
			Status:      body.Data.Status.String(),
			Coordinates: coords,
		},
	}, nil
}

// SaveRuas creates (id == 0) or edits a segment. Edits go out as PUT;
// the gateway translates that into the upstream's POST override.
func (c *Client) SaveRuas(ctx context.Context, id int64, form model.RuasForm) (Result, error) {
	method := http.MethodPost
	target := c.baseURL + "/api/ruas"
	if id > 0 {
		method = http.MethodPut
		target = c.baseURL + "/api/ruas/" + strconv.FormatInt(id, 10)
	}

	upForm := upstream.NewForm()
	upForm.Set("unit_id", form.UnitID)
	upForm.Set("ruas_name", form.RuasName)
	upForm.Set("long", form.Long)
	upForm.Set("km_awal", form.KmAwal)
	upForm.Set("km_akhir", form.KmAkhir)
	upForm.Set("status", form.Status)
	for _, coord := range form.Coordinates {
		if coord == "" {
			continue
		}
		upForm.Add("coordinates[]", coord)
	}

	body, contentType, err := upForm.Encode()
	if err != nil {
		return Result{}, fmt.Errorf("encode ruas form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("save ruas: %w", err)
	}
	defer res.Body.Close()

	return mutationResult(res.StatusCode, "failed to save ruas"), nil
}

func (c *Client) DeleteRuas(ctx context.Context, id int64) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/ruas/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build delete request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("delete ruas: %w", err)
	}
	defer res.Body.Close()

	return mutationResult(res.StatusCode, "failed to delete ruas"), nil
}

func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gateway: %w", err)
	}
	return res, nil
}

func mutationResult(status int, failMessage string) Result {
	switch {
	case status >= 200 && status < 300:
		return Result{Success: true, Status: status}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Result{Success: false, Status: status, Message: "session expired"}
	default:
		return Result{Success: false, Status: status, Message: failMessage}
	}
}
