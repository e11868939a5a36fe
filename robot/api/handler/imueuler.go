// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
)

type imuEulerHandler struct {
	source IMUSource
}

func (h *imuEulerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	state, ok := snapshotIMU(h.source, writer, request)
	if !ok {
		return
	}

	roll, pitch, yaw := state.Euler()
	rendering.RenderJSON(writer, request, http.StatusOK, &model.EulerAnglesResponse{
		Roll:  roll,
		Pitch: pitch,
		Yaw:   yaw,
	})
}

// NewIMUEulerHandler returns the handler for GET /imu/euler.
func NewIMUEulerHandler(source IMUSource) http.Handler {
	return &imuEulerHandler{source: source}
}
