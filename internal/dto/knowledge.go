package dto

type SkippedDimensionResponse struct {
	Dimension string `json:"dimension"`
	Reason    string `json:"reason"`
}

type HealthResponse struct {
	Status            string                     `json:"status"`
	KBVersion         string                     `json:"kb_version"`
	Source            string                     `json:"source"`
	BuiltAt           string                     `json:"built_at"`
	TotalTransactions int                        `json:"total_transactions"`
	SkippedDimensions []SkippedDimensionResponse `json:"skipped_dimensions"`
}

type AggregateResponse struct {
	Dimension    string   `json:"dimension"`
	Value        string   `json:"value"`
	Count        int      `json:"count"`
	TotalVolume  float64  `json:"total_volume"`
	Avg          float64  `json:"avg"`
	Median       *float64 `json:"median,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	FraudCount   int      `json:"fraud_count"`
	FraudRatePct float64  `json:"fraud_rate_pct"`
	FailRatePct  float64  `json:"fail_rate_pct"`
}
