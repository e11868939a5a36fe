// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
)

type imuQuaternionHandler struct {
	source IMUSource
}

func (h *imuQuaternionHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	state, ok := snapshotIMU(h.source, writer, request)
	if !ok {
		return
	}

	rendering.RenderJSON(writer, request, http.StatusOK, &model.QuaternionResponse{
		W: state.Quat[0],
		X: state.Quat[1],
		Y: state.Quat[2],
		Z: state.Quat[3],
	})
}

// NewIMUQuaternionHandler returns the handler for GET /imu/quaternion.
func NewIMUQuaternionHandler(source IMUSource) http.Handler {
	return &imuQuaternionHandler{source: source}
}
