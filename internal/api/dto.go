package api

import (
	"nyaysetu/backend/internal/ipc"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse carries one chatbot reply. Confidence is always null.
type ChatResponse struct {
	Reply      string   `json:"reply"`
	SessionID  string   `json:"session_id"`
	Confidence *float64 `json:"confidence"`
}

// PredictRequest is the body of POST /ipc/predict.
type PredictRequest struct {
	Text *string `json:"text"`
}

// PredictResponse mirrors ipc.Result on the wire.
type PredictResponse struct {
	Prediction  *PredictionDTO `json:"prediction"`
	Explanation string         `json:"explanation,omitempty"`
	Why         string         `json:"why,omitempty"`
	Suggestion  string         `json:"suggestion,omitempty"`
	Disclaimer  string         `json:"disclaimer"`
	Message     string         `json:"message,omitempty"`
	SectionText string         `json:"section_text,omitempty"`
}

// PredictionDTO is the predicted section.
type PredictionDTO struct {
	IPCSection string `json:"ipc_section"`
	Title      string `json:"title"`
	Confidence int    `json:"confidence"`
}

// PredictFromResult converts a service result to its response body.
func PredictFromResult(result *ipc.Result) PredictResponse {
	resp := PredictResponse{
		Explanation: result.Explanation,
		Why:         result.Why,
		Suggestion:  result.Suggestion,
		Disclaimer:  result.Disclaimer,
		Message:     result.Message,
		SectionText: result.SectionText,
	}
	if p := result.Prediction; p != nil {
		resp.Prediction = &PredictionDTO{
			IPCSection: p.IPCSection,
			Title:      p.Title,
			Confidence: p.Confidence,
		}
	}
	return resp
}

// ServiceInfo is returned by GET /.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}
