package model

// RunRequestBody is the POST /runs payload. A nil Channel accepts
// every midi channel; 0 selects channel 0.
type RunRequestBody struct {
	File    string `json:"file"`
	Tracks  []int  `json:"tracks"`
	Channel *int   `json:"channel,omitempty"`
}

type RunResponse struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Detail string  `json:"detail,omitempty"`
	Result *Result `json:"result,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
