package http

// ClassifyRequest is the body of POST /classify-email. Fields are pointers
// so that absent keys can be told apart from zero values.
type ClassifyRequest struct {
	ID        *int64  `json:"id"`
	Subject   *string `json:"subject"`
	EmailText *string `json:"email_text"`
	Date      *string `json:"date"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
