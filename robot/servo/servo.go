// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package servo defines the actuator-bus capability consumed by the API
// layer, and the in-memory bus used on development hosts.
package servo

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOperationInProgress reports that the bus rejected a control
	// operation because another one is still running.
	ErrOperationInProgress = errors.New("another control operation is in progress")

	// ErrNotRegistered reports an ID with no servo behind it.
	ErrNotRegistered = errors.New("servo not registered")

	// ErrInvalidConfig wraps configuration values a servo cannot accept.
	ErrInvalidConfig = errors.New("invalid servo configuration")
)

// Config carries the settings of one configure request. Nil fields leave the
// servo's current setting untouched.
type Config struct {
	TorqueEnabled *bool
	ZeroPosition  *bool
	KP            *int
	KD            *int
	KI            *int
	MaxTorque     *float64 // percent of stall torque, 0..100
	Acceleration  *float64 // deg/s^2
	NewID         *int
}

// State is an instantaneous reading: degrees and degrees per second.
type State struct {
	Position float64
	Velocity float64
}

// FaultRecord summarizes the fault history of one servo.
type FaultRecord struct {
	LastMessage string
	Total       int
	LastTime    time.Time
}

// Parameter is one control-table entry: current value plus its register
// address on the bus.
type Parameter struct {
	Value any `json:"value"`
	Addr  int `json:"addr"`
}

// Controller is the bus capability. Implementations own whatever wire
// protocol sits underneath; callers only see IDs and engineering units.
//
// Mutating calls may fail with ErrOperationInProgress when the bus tracks
// its own exclusivity; callers are expected to serialize above it.
type Controller interface {
	// IDs returns the registered servo IDs in ascending order.
	IDs() []int
	Known(id int) bool
	Configure(id int, cfg Config) error
	// SetPositions queues one position target per ID, applied together on
	// the next bus cycle.
	SetPositions(targets map[int]float64) error
	State(id int) (State, bool)
	TorqueEnabled(id int) bool
	// Faults reports the fault history of id, if any was recorded.
	Faults(id int) (FaultRecord, bool)
	// Params dumps the servo's control table.
	Params(id int) (map[string]Parameter, error)
}

// Open returns the named bus driver for the given registry.
func Open(driver string, ids []int, slewDegPerSec float64) (Controller, error) {
	switch driver {
	case "", "sim":
		return NewSim(ids, slewDegPerSec), nil
	default:
		return nil, fmt.Errorf("unknown servo driver %q", driver)
	}
}
