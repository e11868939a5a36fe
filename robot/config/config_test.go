// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strider-labs/striderd/robot/singleton"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "striderd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "servo:\n  ids: [1, 2]\n"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 50051, cfg.Server.Port)
	assert.Equal(t, 100, cfg.IMU.RateHz)
	assert.Equal(t, "sim", cfg.IMU.Driver)
	assert.False(t, cfg.IMU.InProcess)
	assert.Equal(t, "sim", cfg.Servo.Driver)
	assert.Equal(t, []int{1, 2}, cfg.Servo.IDs)
	assert.Equal(t, float64(360), cfg.Servo.SlewDegPerSec)
	assert.Equal(t, singleton.DefaultPath, cfg.Singleton.PIDFile)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  host: 127.0.0.1
  port: 8080
imu:
  rate_hz: 50
  in_process: true
servo:
  ids: [11, 12, 13]
  slew_deg_per_sec: 120
singleton:
  pidfile: /run/striderd.pid
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.IMU.RateHz)
	assert.True(t, cfg.IMU.InProcess)
	assert.Equal(t, []int{11, 12, 13}, cfg.Servo.IDs)
	assert.Equal(t, float64(120), cfg.Servo.SlewDegPerSec)
	assert.Equal(t, "/run/striderd.pid", cfg.Singleton.PIDFile)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "imu:\n  rate_hz: 2000\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "servo:\n  ids: [0]\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  port: 70000\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
