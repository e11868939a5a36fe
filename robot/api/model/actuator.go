// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import "github.com/strider-labs/striderd/robot/servo"

// ConfigureRequest selects one servo and the settings to change. Absent
// fields leave the corresponding setting untouched.
type ConfigureRequest struct {
	ActuatorID    int      `json:"actuator_id"`
	TorqueEnabled *bool    `json:"torque_enabled,omitempty"`
	ZeroPosition  *bool    `json:"zero_position,omitempty"`
	KP            *int     `json:"kp,omitempty"`
	KD            *int     `json:"kd,omitempty"`
	KI            *int     `json:"ki,omitempty"`
	MaxTorque     *float64 `json:"max_torque,omitempty"`
	Acceleration  *float64 `json:"acceleration,omitempty"`
	NewActuatorID *int     `json:"new_actuator_id,omitempty"`
}

// ActionResponse reports whether a request took effect.
type ActionResponse struct {
	Success bool `json:"success"`
}

// PositionCommand is one element of a batch command, degrees.
type PositionCommand struct {
	ActuatorID int     `json:"actuator_id"`
	Position   float64 `json:"position"`
}

// CommandRequest moves several servos in one bus transaction.
type CommandRequest struct {
	Commands []PositionCommand `json:"commands"`
}

// CommandResponse acknowledges a position command.
type CommandResponse struct{}

// ParameterDumpEntry carries the control table of one servo.
type ParameterDumpEntry struct {
	ActuatorID int                        `json:"actuator_id"`
	Parameters map[string]servo.Parameter `json:"parameters"`
}

// ParameterDumpResponse lists one entry per readable servo.
type ParameterDumpResponse struct {
	Entries []ParameterDumpEntry `json:"entries"`
}

// ActuatorState describes one servo at query time. Offline entries carry
// zero position and velocity plus an explanatory fault.
type ActuatorState struct {
	ActuatorID int      `json:"actuator_id"`
	Position   float64  `json:"position"`
	Velocity   float64  `json:"velocity"`
	Online     bool     `json:"online"`
	Faults     []string `json:"faults,omitempty"`
}

// ActuatorStateResponse lists one entry per requested servo.
type ActuatorStateResponse struct {
	States []ActuatorState `json:"states"`
}
