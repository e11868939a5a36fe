// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

// IMUValuesResponse carries the primary inertial reading: acceleration in
// m/s^2, angular rate in rad/s, magnetic field in uT.
type IMUValuesResponse struct {
	AccelX float64 `json:"accel_x"`
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`
	GyroX  float64 `json:"gyro_x"`
	GyroY  float64 `json:"gyro_y"`
	GyroZ  float64 `json:"gyro_z"`
	MagX   float64 `json:"mag_x"`
	MagY   float64 `json:"mag_y"`
	MagZ   float64 `json:"mag_z"`
}

// QuaternionResponse is the orientation estimate, w first.
type QuaternionResponse struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// EulerAnglesResponse is the orientation as roll, pitch and yaw in degrees.
type EulerAnglesResponse struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// AdvancedValuesResponse carries derived readings: acceleration with gravity
// removed and the gravity vector itself, both m/s^2 in the sensor frame.
type AdvancedValuesResponse struct {
	LinAccX float64 `json:"lin_acc_x"`
	LinAccY float64 `json:"lin_acc_y"`
	LinAccZ float64 `json:"lin_acc_z"`
	GravX   float64 `json:"grav_x"`
	GravY   float64 `json:"grav_y"`
	GravZ   float64 `json:"grav_z"`
}

// CalibrationStateResponse reports per-subsystem calibration levels, each
// 0 (uncalibrated) through 3 (fully calibrated).
type CalibrationStateResponse struct {
	State map[string]int `json:"state"`
}
