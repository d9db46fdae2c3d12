package models

// Requests for the screening HTTP endpoints. Defined in domain for consistency and reuse.

// StockInput identifies one candidate to screen; history is fetched server-side.
type StockInput struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Industry string `json:"industry"`
}

type StartScreeningRequest struct {
	Stocks         []StockInput `json:"stocks" validate:"required,min=1,max=500,dive"`
	FilterCriteria string       `json:"filter_criteria" validate:"required,min=2,max=500"`
	ForceStart     bool         `json:"force_start" default:"false"`
}
