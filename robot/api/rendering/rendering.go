// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rendering writes API responses and the typed errors of the
// service's failure classification.
package rendering

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/strider-labs/striderd/robot/api/model"
)

const (
	// ErrorTypeUnavailable error type for queries while a subsystem is down
	ErrorTypeUnavailable = "Unavailable"
	// ErrorTypeResourceExhausted error type for a busy actuator bus
	ErrorTypeResourceExhausted = "ResourceExhausted"
	// ErrorTypeInternalServerError error type for internal server error
	ErrorTypeInternalServerError = "InternalServerError"
	// ErrorTypeInvalidRequest error type for undecodable request payloads
	ErrorTypeInvalidRequest = "InvalidRequest"
)

// RenderJSON writes v as the response body with the given status code.
func RenderJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// RenderUnavailable renders the subsystem-down error response.
func RenderUnavailable(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	RenderJSON(w, r, http.StatusServiceUnavailable, &model.ErrorResponse{
		ErrorType:    ErrorTypeUnavailable,
		ErrorMessage: fmt.Sprintf(format, args...),
	})
}

// RenderResourceExhausted renders the busy-bus error response.
func RenderResourceExhausted(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	RenderJSON(w, r, http.StatusTooManyRequests, &model.ErrorResponse{
		ErrorType:    ErrorTypeResourceExhausted,
		ErrorMessage: fmt.Sprintf(format, args...),
	})
}

// RenderInvalidRequest renders the undecodable-payload error response.
func RenderInvalidRequest(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	RenderJSON(w, r, http.StatusBadRequest, &model.ErrorResponse{
		ErrorType:    ErrorTypeInvalidRequest,
		ErrorMessage: fmt.Sprintf(format, args...),
	})
}

// RenderInternalServerError method for rendering error response
func RenderInternalServerError(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusInternalServerError, &model.ErrorResponse{
		ErrorType:    ErrorTypeInternalServerError,
		ErrorMessage: "Internal Server Error",
	})
}
