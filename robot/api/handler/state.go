// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"
	"strconv"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
	"github.com/strider-labs/striderd/robot/servo"
)

type actuatorStateHandler struct {
	controller servo.Controller
}

func (h *actuatorStateHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	ids, err := parseIDList(request)
	if err != nil {
		rendering.RenderInvalidRequest(writer, request, "%s", err)
		return
	}
	if ids == nil {
		ids = h.controller.IDs()
	}

	// Every requested ID gets an entry. Unregistered ones come back offline
	// with zero readings so callers can keep indexing by their own ID list.
	states := make([]model.ActuatorState, 0, len(ids))
	for _, id := range ids {
		if !h.controller.Known(id) {
			states = append(states, model.ActuatorState{
				ActuatorID: id,
				Faults:     []string{servo.ErrNotRegistered.Error()},
			})
			continue
		}

		st, _ := h.controller.State(id)
		entry := model.ActuatorState{
			ActuatorID: id,
			Position:   st.Position,
			Velocity:   st.Velocity,
			Online:     h.controller.TorqueEnabled(id),
		}
		if rec, ok := h.controller.Faults(id); ok {
			entry.Faults = []string{
				rec.LastMessage,
				strconv.Itoa(rec.Total),
				strconv.FormatInt(rec.LastTime.Unix(), 10),
			}
		}
		states = append(states, entry)
	}

	rendering.RenderJSON(writer, request, http.StatusOK, &model.ActuatorStateResponse{States: states})
}

// NewActuatorStateHandler returns the handler for GET /actuator/state.
func NewActuatorStateHandler(controller servo.Controller) http.Handler {
	return &actuatorStateHandler{controller: controller}
}
