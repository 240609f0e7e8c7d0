package dto

import "github.com/yogaheristya/ruas-console/internal/domain/model"

// RuasListResponse is the gateway's normalized listing shape. Pagination
// metadata is present only when the upstream answered with its paginator
// envelope; bare and empty listings carry just data.
type RuasListResponse struct {
	Data        []model.Ruas `json:"data"`
	CurrentPage *int         `json:"current_page,omitempty"`
	LastPage    *int         `json:"last_page,omitempty"`
	PerPage     *int         `json:"per_page,omitempty"`
	Total       *int         `json:"total,omitempty"`
}
