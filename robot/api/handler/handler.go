// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package handler implements the control API operations, one handler per
// route.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/strider-labs/striderd/robot/api/rendering"
	"github.com/strider-labs/striderd/robot/imu"
)

// IMUSource supplies consistent snapshots of the latest inertial state.
type IMUSource interface {
	Snapshot() (imu.State, error)
}

// snapshotIMU fetches the latest inertial state, rendering the error response
// itself when the pipeline cannot serve one.
func snapshotIMU(source IMUSource, writer http.ResponseWriter, request *http.Request) (imu.State, bool) {
	state, err := source.Snapshot()
	if err == nil {
		return state, true
	}
	if errors.Is(err, imu.ErrNotRunning) {
		rendering.RenderUnavailable(writer, request, "%s", err)
	} else {
		log.WithError(err).Error("Failed to read inertial state")
		rendering.RenderInternalServerError(writer, request)
	}
	return imu.State{}, false
}

// parseIDList parses the comma separated "ids" query parameter. Empty input
// yields nil, which callers treat as "all registered".
func parseIDList(r *http.Request) ([]int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid actuator id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
