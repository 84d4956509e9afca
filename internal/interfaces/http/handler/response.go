package handler

import "github.com/wms/backend/internal/interfaces/http/dto"

// The types below exist for the OpenAPI generator. Handlers respond
// with dto.Response at runtime; swag needs concrete generic
// instantiations to document the payload shapes.

// APIResponse is the documented success envelope.
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the documented failure envelope.
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse documents operations that return no data.
// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// CountData documents endpoints that return a bare count.
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}
