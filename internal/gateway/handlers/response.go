// Package handlers exposes the guest ordering API over HTTP.
package handlers

import (
	"errors"
	"net/http"

	"tably-system/internal/upstream"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

// upstreamStatus maps an upstream failure onto the status the guest
// sees: API errors keep their status and message, anything else is a
// bad gateway.
func upstreamStatus(err error, fallbackMessage string) (int, APIResponse) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, errorResponse(apiErr.Error())
	}
	return http.StatusBadGateway, errorResponse(fallbackMessage)
}
