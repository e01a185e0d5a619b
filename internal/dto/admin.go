package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type RebuildResponse struct {
	KBVersion         string                     `json:"kb_version"`
	Source            string                     `json:"source"`
	Rows              int                        `json:"rows"`
	RejectedRows      int                        `json:"rejected_rows"`
	SkippedDimensions []SkippedDimensionResponse `json:"skipped_dimensions"`
}
