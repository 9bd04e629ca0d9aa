package handler

import "github.com/dansever/estait-app-sub000/internal/interfaces/http/dto"

// Envelope types below only describe dto.Response to swag. Handlers write
// dto.Response directly.

// APIResponse is the success envelope around a typed payload
// @Description Success envelope; meta is set on paginated lists
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope
// @Description Failure envelope carrying an ERR_* or context code such as LEASE_OVERLAP
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
