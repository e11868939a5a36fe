// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strider-labs/striderd/robot/servo"
)

func postJSON(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	responseRecorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", target, strings.NewReader(body))
	h.ServeHTTP(responseRecorder, request)
	return responseRecorder
}

func TestConfigureActuatorSuccess(t *testing.T) {
	controller := newFakeController(11)
	handler := NewConfigureActuatorHandler(controller)

	rec := postJSON(t, handler, "/actuator/configure",
		`{"actuator_id": 11, "torque_enabled": true, "kp": 48, "max_torque": 80}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success": true}`, rec.Body.String())

	cfg, ok := controller.configured[11]
	require.True(t, ok, "configuration never reached the bus")
	require.NotNil(t, cfg.TorqueEnabled)
	require.True(t, *cfg.TorqueEnabled)
	require.NotNil(t, cfg.KP)
	require.Equal(t, 48, *cfg.KP)
	require.NotNil(t, cfg.MaxTorque)
	require.Equal(t, 80.0, *cfg.MaxTorque)
	require.Nil(t, cfg.KD, "absent fields must stay nil")
	require.Nil(t, cfg.NewID)
}

func TestConfigureActuatorRejectionIsNotAnError(t *testing.T) {
	for name, busErr := range map[string]error{
		"unregistered":  servo.ErrNotRegistered,
		"invalid value": fmt.Errorf("%w: kp 300 out of range", servo.ErrInvalidConfig),
	} {
		t.Run(name, func(t *testing.T) {
			controller := newFakeController(11)
			controller.configureErr = busErr
			handler := NewConfigureActuatorHandler(controller)

			rec := postJSON(t, handler, "/actuator/configure", `{"actuator_id": 11, "kp": 300}`)

			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, `{"success": false}`, rec.Body.String())
		})
	}
}

func TestConfigureActuatorBusyBus(t *testing.T) {
	controller := newFakeController(11)
	controller.configureErr = servo.ErrOperationInProgress
	handler := NewConfigureActuatorHandler(controller)

	rec := postJSON(t, handler, "/actuator/configure", `{"actuator_id": 11, "torque_enabled": true}`)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.JSONEq(t,
		`{"error_type": "ResourceExhausted", "error_message": "another control operation is in progress"}`,
		rec.Body.String())
}

func TestConfigureActuatorBadPayload(t *testing.T) {
	controller := newFakeController(11)
	handler := NewConfigureActuatorHandler(controller)

	rec := postJSON(t, handler, "/actuator/configure", `{"actuator_id": `)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"error_type":"InvalidRequest"`)
	require.Empty(t, controller.configured, "undecodable request must not reach the bus")
}

func TestConfigureActuatorInternalError(t *testing.T) {
	controller := newFakeController(11)
	controller.configureErr = errors.New("bus fd closed")
	handler := NewConfigureActuatorHandler(controller)

	rec := postJSON(t, handler, "/actuator/configure", `{"actuator_id": 11}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t,
		`{"error_type": "InternalServerError", "error_message": "Internal Server Error"}`,
		rec.Body.String())
}
