// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package imu

import (
	"fmt"
	"math"
	"time"
)

// OpenSensor returns the named sensor driver. An empty name selects the
// simulator.
func OpenSensor(driver string) (Sensor, error) {
	switch driver {
	case "", "sim":
		return NewSimSensor(), nil
	default:
		return nil, fmt.Errorf("unknown imu driver %q", driver)
	}
}

// SimSensor synthesizes a slowly tumbling body for development hosts without
// the sensor attached: a gentle roll oscillation on top of a constant yaw
// spin, with acceleration, magnetometer and quaternion kept consistent.
type SimSensor struct {
	start time.Time
}

func NewSimSensor() *SimSensor {
	return &SimSensor{start: time.Now()}
}

const (
	simRollAmplitude = 0.2              // rad
	simRollRate      = 2 * math.Pi / 10 // rad/s, one oscillation per 10s
	simYawRate       = 2 * math.Pi / 60 // rad/s, one revolution per minute
	simFieldStrength = 45.0             // uT
)

func (s *SimSensor) Read() (Sample, error) {
	t := time.Since(s.start).Seconds()

	roll := simRollAmplitude * math.Sin(simRollRate*t)
	yaw := simYawRate * t

	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)

	// Quaternion for yaw about z followed by roll about x.
	w := cy * cr
	x := cy * sr
	y := sy * sr
	z := sy * cr

	state := State{Quat: [4]float64{w, x, y, z}}
	grav := state.Gravity()

	// North in the body frame, ignoring inclination.
	mx := simFieldStrength * math.Cos(yaw)
	my := -simFieldStrength * math.Sin(yaw) * math.Cos(roll)
	mz := simFieldStrength * math.Sin(yaw) * math.Sin(roll)

	rollDot := simRollAmplitude * simRollRate * math.Cos(simRollRate*t)

	return Sample{
		Accel: vec3(grav[0], grav[1], grav[2]),
		Gyro:  vec3(rollDot, 0, simYawRate),
		Mag:   vec3(mx, my, mz),
		Quat:  vec4(w, x, y, z),
		Calib: calib4(3, 3, 3, 3),
	}, nil
}
