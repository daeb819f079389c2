package dto

// ChatRequest and ChatResponse are the analysis endpoint's wire format.
type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type ChatErrorResponse struct {
	Error string `json:"error"`
}
