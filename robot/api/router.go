// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package api implements the robot control HTTP API.
package api

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/strider-labs/striderd/robot/api/handler"
	"github.com/strider-labs/striderd/robot/api/middleware"
	"github.com/strider-labs/striderd/robot/core"
	"github.com/strider-labs/striderd/robot/servo"
)

// NewRouter returns a new instance of chi router implementing
// the control API.
//
// Mutating actuator routes share the command gate: they carry a correlation
// ID and run strictly one at a time, so no two clients interleave on the
// bus. Queries bypass the gate and stay responsive while a command runs.
func NewRouter(controller servo.Controller, source handler.IMUSource, gate *core.CommandGate) http.Handler {

	router := chi.NewRouter()
	router.Use(middleware.AccessLogMiddleware())

	// To respect Hyrum's Law, keeping /ping API even though
	// we no longer use it ourselves.
	// http://www.hyrumslaw.com/
	router.Get("/ping", handler.NewPingHandler().ServeHTTP)

	router.Group(func(commands chi.Router) {
		commands.Use(middleware.CommandIDMiddleware())
		commands.Use(middleware.ExclusiveCommandMiddleware(gate))

		commands.Post("/actuator/configure", handler.NewConfigureActuatorHandler(controller).ServeHTTP)
		commands.Post("/actuator/command", handler.NewCommandActuatorsHandler(controller).ServeHTTP)
	})

	router.Get("/actuator/parameters", handler.NewParameterDumpHandler(controller).ServeHTTP)
	router.Get("/actuator/state", handler.NewActuatorStateHandler(controller).ServeHTTP)

	router.Get("/imu/values", handler.NewIMUValuesHandler(source).ServeHTTP)
	router.Get("/imu/quaternion", handler.NewIMUQuaternionHandler(source).ServeHTTP)
	router.Get("/imu/euler", handler.NewIMUEulerHandler(source).ServeHTTP)
	router.Get("/imu/advanced", handler.NewIMUAdvancedHandler(source).ServeHTTP)
	router.Get("/imu/calibration", handler.NewIMUCalibrationHandler(source).ServeHTTP)
	router.Post("/imu/zero", handler.NewIMUZeroHandler().ServeHTTP)

	return router
}
