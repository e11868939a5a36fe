// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
)

type imuCalibrationHandler struct {
	source IMUSource
}

func (h *imuCalibrationHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	state, ok := snapshotIMU(h.source, writer, request)
	if !ok {
		return
	}

	rendering.RenderJSON(writer, request, http.StatusOK, &model.CalibrationStateResponse{
		State: map[string]int{
			"sys":   state.Calib[0],
			"gyro":  state.Calib[1],
			"accel": state.Calib[2],
			"mag":   state.Calib[3],
		},
	})
}

// NewIMUCalibrationHandler returns the handler for GET /imu/calibration.
func NewIMUCalibrationHandler(source IMUSource) http.Handler {
	return &imuCalibrationHandler{source: source}
}
