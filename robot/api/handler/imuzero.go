// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
)

type imuZeroHandler struct{}

func (h *imuZeroHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	// The fused orientation is already absolute, so there is no offset to
	// capture. The operation succeeds so callers can issue it unconditionally
	// on rigs whose sensors do need it.
	rendering.RenderJSON(writer, request, http.StatusOK, &model.ActionResponse{Success: true})
}

// NewIMUZeroHandler returns the handler for POST /imu/zero.
func NewIMUZeroHandler() http.Handler {
	return &imuZeroHandler{}
}
