package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yogaheristya/ruas-console/internal/domain/model"
)

// ListingKind tags the normalized shape of an upstream listing reply.
// The upstream answers with a paginator envelope, a bare list, or an
// empty body depending on the endpoint and filter; everything downstream
// sees one tagged type instead of re-inferring the shape ad hoc.
type ListingKind string

const (
	ListingPaginated ListingKind = "paginated"
	ListingBare      ListingKind = "list"
	ListingEmpty     ListingKind = "empty"
	ListingError     ListingKind = "error"
)

type Listing struct {
	Kind        ListingKind
	Data        []model.Ruas
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int

	// StatusCode and Raw carry the upstream reply for error passthrough.
	StatusCode int
	Raw        []byte
}

type LoginResult struct {
	OK          bool
	AccessToken string
	ExpiresIn   int64
}

func decodeListing(res Response) (Listing, error) {
	if res.Unauthorized() {
		return Listing{Kind: ListingError, StatusCode: res.StatusCode, Raw: res.Body}, ErrUnauthorized
	}
	if !res.OK() {
		return Listing{Kind: ListingError, StatusCode: res.StatusCode, Raw: res.Body},
			fmt.Errorf("upstream status %d", res.StatusCode)
	}

	if len(bytes.TrimSpace(res.Body)) == 0 {
		return Listing{Kind: ListingEmpty, Data: []model.Ruas{}, StatusCode: res.StatusCode}, nil
	}

	var probe struct {
		Data        []model.Ruas `json:"data"`
		CurrentPage *int         `json:"current_page"`
		LastPage    int          `json:"last_page"`
		PerPage     int          `json:"per_page"`
		Total       int          `json:"total"`
	}
	if err := json.Unmarshal(res.Body, &probe); err != nil {
		return Listing{Kind: ListingError, StatusCode: res.StatusCode, Raw: res.Body},
			fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	data := probe.Data
	if data == nil {
		data = []model.Ruas{}
	}

	if probe.CurrentPage != nil {
		return Listing{
			Kind:        ListingPaginated,
			Data:        data,
			CurrentPage: *probe.CurrentPage,
			LastPage:    probe.LastPage,
			PerPage:     probe.PerPage,
			Total:       probe.Total,
			StatusCode:  res.StatusCode,
		}, nil
	}

	return Listing{Kind: ListingBare, Data: data, StatusCode: res.StatusCode}, nil
}

func decodeLogin(res Response) (LoginResult, error) {
	var body struct {
		Status      json.RawMessage `json:"status"`
		AccessToken string          `json:"access_token"`
		ExpiresIn   int64           `json:"expires_in"`
	}

	if len(bytes.TrimSpace(res.Body)) > 0 {
		if err := json.Unmarshal(res.Body, &body); err != nil {
			return LoginResult{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}

	if !res.OK() || !truthy(body.Status) {
		return LoginResult{OK: false}, nil
	}

	return LoginResult{
		OK:          true,
		AccessToken: body.AccessToken,
		ExpiresIn:   body.ExpiresIn,
	}, nil
}

// truthy mirrors the loose status flag the upstream sends: absent,
// null, false, 0 and "" all mean failure.
func truthy(raw json.RawMessage) bool {
	v := string(bytes.TrimSpace(raw))
	switch v {
	case "", "null", "false", "0", `""`, `"0"`, `"false"`:
		return false
	}
	return true
}
