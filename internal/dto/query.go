package dto

import "insightx/internal/models"

type QueryRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

// QueryResponse is a generated answer plus the classification behind it.
// Stats serializes as a JSON object that keeps insertion order.
type QueryResponse struct {
	Intent         string       `json:"intent"`
	Answer         string       `json:"answer"`
	Stats          models.Stats `json:"stats" swaggertype:"object,string"`
	Pattern        string       `json:"pattern"`
	Recommendation string       `json:"recommendation"`
	Confidence     int          `json:"confidence"`
	EntitiesUsed   []string     `json:"entities_used"`
	ChartType      string       `json:"chart_type,omitempty"`
	Intents        []string     `json:"detected_intents"`
	KBVersion      string       `json:"kb_version"`
}

func NewQueryResponse(resp models.Response, intents []string, version string) *QueryResponse {
	return &QueryResponse{
		Intent:         resp.Intent,
		Answer:         resp.Answer,
		Stats:          resp.Stats,
		Pattern:        resp.Pattern,
		Recommendation: resp.Recommendation,
		Confidence:     resp.Confidence,
		EntitiesUsed:   resp.EntitiesUsed,
		ChartType:      resp.ChartType,
		Intents:        intents,
		KBVersion:      version,
	}
}

type IntentCatalogResponse struct {
	Intents []string `json:"intents"`
}
