// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
)

type imuValuesHandler struct {
	source IMUSource
}

func (h *imuValuesHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	state, ok := snapshotIMU(h.source, writer, request)
	if !ok {
		return
	}

	rendering.RenderJSON(writer, request, http.StatusOK, &model.IMUValuesResponse{
		AccelX: state.Accel[0],
		AccelY: state.Accel[1],
		AccelZ: state.Accel[2],
		GyroX:  state.Gyro[0],
		GyroY:  state.Gyro[1],
		GyroZ:  state.Gyro[2],
		MagX:   state.Mag[0],
		MagY:   state.Mag[1],
		MagZ:   state.Mag[2],
	})
}

// NewIMUValuesHandler returns the handler for GET /imu/values.
func NewIMUValuesHandler(source IMUSource) http.Handler {
	return &imuValuesHandler{source: source}
}
