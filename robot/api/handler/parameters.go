// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/strider-labs/striderd/robot/api/model"
	"github.com/strider-labs/striderd/robot/api/rendering"
	"github.com/strider-labs/striderd/robot/servo"
)

type parameterDumpHandler struct {
	controller servo.Controller
}

func (h *parameterDumpHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	ids, err := parseIDList(request)
	if err != nil {
		rendering.RenderInvalidRequest(writer, request, "%s", err)
		return
	}
	if ids == nil {
		ids = h.controller.IDs()
	}

	// Servos that cannot be read are skipped, not fatal: a dump taken while
	// one servo is rebooting should still describe the rest of the bus.
	entries := make([]model.ParameterDumpEntry, 0, len(ids))
	for _, id := range ids {
		params, err := h.controller.Params(id)
		if err != nil {
			log.WithField("actuator_id", id).WithError(err).
				Warn("Skipping actuator in parameter dump")
			continue
		}
		entries = append(entries, model.ParameterDumpEntry{
			ActuatorID: id,
			Parameters: params,
		})
	}

	rendering.RenderJSON(writer, request, http.StatusOK, &model.ParameterDumpResponse{Entries: entries})
}

// NewParameterDumpHandler returns the handler for GET /actuator/parameters.
func NewParameterDumpHandler(controller servo.Controller) http.Handler {
	return &parameterDumpHandler{controller: controller}
}
