// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/strider-labs/striderd/robot/api/middleware"
	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
	"github.com/strider-labs/striderd/robot/servo"
)

type commandActuatorsHandler struct {
	controller servo.Controller
}

func (h *commandActuatorsHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	req := model.CommandRequest{}
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		rendering.RenderInvalidRequest(writer, request, "invalid command request: %s", err)
		return
	}

	// Targets for unregistered IDs are dropped, not rejected: gait engines
	// broadcast full-body frames and expect partial rigs to move what they have.
	targets := make(map[int]float64, len(req.Commands))
	for _, cmd := range req.Commands {
		if !h.controller.Known(cmd.ActuatorID) {
			continue
		}
		targets[cmd.ActuatorID] = cmd.Position
	}
	if dropped := len(req.Commands) - len(targets); dropped > 0 {
		log.WithField("command_id", middleware.CommandID(request)).
			Debugf("Dropped %d command(s) for unregistered actuators", dropped)
	}

	if len(targets) > 0 {
		err := h.controller.SetPositions(targets)
		switch {
		case err == nil:
		case errors.Is(err, servo.ErrOperationInProgress):
			rendering.RenderResourceExhausted(writer, request, "%s", err)
			return
		default:
			log.WithField("command_id", middleware.CommandID(request)).
				WithError(err).Error("Failed to command actuators")
			rendering.RenderInternalServerError(writer, request)
			return
		}
	}

	rendering.RenderJSON(writer, request, http.StatusOK, &model.CommandResponse{})
}

// NewCommandActuatorsHandler returns the handler for POST /actuator/command.
func NewCommandActuatorsHandler(controller servo.Controller) http.Handler {
	return &commandActuatorsHandler{controller: controller}
}
