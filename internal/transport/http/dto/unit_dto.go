package dto

import "github.com/yogaheristya/ruas-console/internal/domain/model"

type UnitListResponse struct {
	Data []model.Unit `json:"data"`
}
