package dto

// ExportRequest bounds are YYYY-MM-DD and inclusive; either may be empty.
type ExportRequest struct {
	Entity string `json:"entity" validate:"required,oneof=therapists patients leads all"`
	From   string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

type ExportFile struct {
	Filename string
	Content  []byte
}
