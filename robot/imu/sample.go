// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package imu owns the inertial sampling pipeline: a fixed-rate sampler
// feeding a capacity-one mailbox, an aggregator that folds samples into the
// latest-state buffer, and the lifecycle around both.
package imu

import "math"

const gravityMagnitude = 9.80665 // m/s^2

// Sample is one raw read from the sensor. Every element is independently
// nullable: a nil entry marks a value the sensor could not produce on that
// pass. Samples are never mutated after creation.
type Sample struct {
	Accel [3]*float64 `json:"accel"` // m/s^2
	Gyro  [3]*float64 `json:"gyro"`  // rad/s
	Mag   [3]*float64 `json:"mag"`   // uT
	Quat  [4]*float64 `json:"quat"`  // w, x, y, z
	Calib [4]*int     `json:"calib"` // sys, gyro, accel, mag, each 0..3
}

// State holds the last fully valid reading per slot. Zero values stand in
// until the first valid sample of each kind arrives.
type State struct {
	Accel [3]float64
	Gyro  [3]float64
	Mag   [3]float64
	Quat  [4]float64
	Calib [4]int
}

// Euler converts the quaternion slot to roll, pitch and yaw in degrees.
func (s State) Euler() (roll, pitch, yaw float64) {
	w, x, y, z := s.Quat[0], s.Quat[1], s.Quat[2], s.Quat[3]

	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sinp := 2 * (w*y - z*x)
	if sinp > 1 {
		sinp = 1
	} else if sinp < -1 {
		sinp = -1
	}
	pitch = math.Asin(sinp)

	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))

	const toDeg = 180 / math.Pi
	return roll * toDeg, pitch * toDeg, yaw * toDeg
}

// Gravity returns the gravity vector expressed in the sensor frame, m/s^2.
// Before the first orientation fix the quaternion slot is all zeros; in that
// case the raw acceleration is returned as the best available estimate.
func (s State) Gravity() [3]float64 {
	w, x, y, z := s.Quat[0], s.Quat[1], s.Quat[2], s.Quat[3]

	norm := w*w + x*x + y*y + z*z
	if norm < 1e-9 {
		return s.Accel
	}
	scale := gravityMagnitude / norm

	return [3]float64{
		2 * (x*z - w*y) * scale,
		2 * (y*z + w*x) * scale,
		(w*w - x*x - y*y + z*z) * scale,
	}
}

// LinearAccel returns acceleration with gravity removed, m/s^2.
func (s State) LinearAccel() [3]float64 {
	g := s.Gravity()
	return [3]float64{
		s.Accel[0] - g[0],
		s.Accel[1] - g[1],
		s.Accel[2] - g[2],
	}
}

// flat3 flattens a nullable triple, reporting whether every element is set.
func flat3(t [3]*float64) ([3]float64, bool) {
	var out [3]float64
	for i, v := range t {
		if v == nil {
			return out, false
		}
		out[i] = *v
	}
	return out, true
}

func flat4(t [4]*float64) ([4]float64, bool) {
	var out [4]float64
	for i, v := range t {
		if v == nil {
			return out, false
		}
		out[i] = *v
	}
	return out, true
}

func flatCalib(t [4]*int) ([4]int, bool) {
	var out [4]int
	for i, v := range t {
		if v == nil {
			return out, false
		}
		out[i] = *v
	}
	return out, true
}

func vec3(x, y, z float64) [3]*float64 {
	return [3]*float64{&x, &y, &z}
}

func vec4(w, x, y, z float64) [4]*float64 {
	return [4]*float64{&w, &x, &y, &z}
}

func calib4(sys, gyro, accel, mag int) [4]*int {
	return [4]*int{&sys, &gyro, &accel, &mag}
}
