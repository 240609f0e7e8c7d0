package model

// Unit is the organizational owner of ruas records. Read-only reference
// data, used for the selection control and the map palette.
type Unit struct {
	ID   int64  `json:"id"`
	Name string `json:"unit"`
}
