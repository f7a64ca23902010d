package models

// Requests for the stability HTTP endpoints.

type StabilityRequest struct {
	Closes []float64 `json:"closes" validate:"required,min=1"`
	Window int       `json:"window,omitempty" validate:"omitempty,gte=1,lte=100000"`
}

type StabilityResponse struct {
	Window    int     `json:"window"`
	Stability float64 `json:"stability"`
}

type DecideRequest struct {
	Stability  float64 `json:"stability"`
	Open       float64 `json:"open"`
	TradeClose float64 `json:"trade_close"`
	EndClose   float64 `json:"end_close"`
}

type EvaluateRequest struct {
	Date   string `json:"date" validate:"required,day"`
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars" validate:"required,min=1"`
}

type EvaluateResponse struct {
	Record  DayRecord    `json:"record"`
	Outcome YieldOutcome `json:"outcome"`
}
