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

type configureActuatorHandler struct {
	controller servo.Controller
}

func (h *configureActuatorHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	req := model.ConfigureRequest{}
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		rendering.RenderInvalidRequest(writer, request, "invalid configure request: %s", err)
		return
	}

	err := h.controller.Configure(req.ActuatorID, servo.Config{
		TorqueEnabled: req.TorqueEnabled,
		ZeroPosition:  req.ZeroPosition,
		KP:            req.KP,
		KD:            req.KD,
		KI:            req.KI,
		MaxTorque:     req.MaxTorque,
		Acceleration:  req.Acceleration,
		NewID:         req.NewActuatorID,
	})
	switch {
	case err == nil:
		rendering.RenderJSON(writer, request, http.StatusOK, &model.ActionResponse{Success: true})
	case errors.Is(err, servo.ErrNotRegistered) || errors.Is(err, servo.ErrInvalidConfig):
		// The request reached the bus and the servo said no. That is an
		// outcome, not a transport failure.
		log.WithField("command_id", middleware.CommandID(request)).
			WithField("actuator_id", req.ActuatorID).
			WithError(err).Warn("Actuator configuration rejected")
		rendering.RenderJSON(writer, request, http.StatusOK, &model.ActionResponse{Success: false})
	case errors.Is(err, servo.ErrOperationInProgress):
		rendering.RenderResourceExhausted(writer, request, "%s", err)
	default:
		log.WithField("command_id", middleware.CommandID(request)).
			WithError(err).Error("Failed to configure actuator")
		rendering.RenderInternalServerError(writer, request)
	}
}

// NewConfigureActuatorHandler returns the handler for POST /actuator/configure.
func NewConfigureActuatorHandler(controller servo.Controller) http.Handler {
	return &configureActuatorHandler{controller: controller}
}
