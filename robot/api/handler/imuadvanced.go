// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
)

type imuAdvancedHandler struct {
	source IMUSource
}

func (h *imuAdvancedHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	state, ok := snapshotIMU(h.source, writer, request)
	if !ok {
		return
	}

	lin := state.LinearAccel()
	grav := state.Gravity()
	rendering.RenderJSON(writer, request, http.StatusOK, &model.AdvancedValuesResponse{
		LinAccX: lin[0],
		LinAccY: lin[1],
		LinAccZ: lin[2],
		GravX:   grav[0],
		GravY:   grav[1],
		GravZ:   grav[2],
	})
}

// NewIMUAdvancedHandler returns the handler for GET /imu/advanced.
func NewIMUAdvancedHandler(source IMUSource) http.Handler {
	return &imuAdvancedHandler{source: source}
}
