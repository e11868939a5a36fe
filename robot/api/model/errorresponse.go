// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package model defines the request and response payloads of the control
// API.
package model

// ErrorResponse is the single error payload shape of the API, providing
// information about the error.
type ErrorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}
