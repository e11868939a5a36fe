// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the daemon configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strider-labs/striderd/robot/singleton"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	IMU       IMUConfig       `yaml:"imu"`
	Servo     ServoConfig     `yaml:"servo"`
	Singleton SingletonConfig `yaml:"singleton"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type IMUConfig struct {
	RateHz int    `yaml:"rate_hz"`
	Driver string `yaml:"driver"`
	// InProcess runs the sampler on a goroutine instead of a child
	// process. Only safe when the driver is known to be thread safe.
	InProcess  bool   `yaml:"in_process"`
	FeedBinary string `yaml:"feed_binary"`
}

type ServoConfig struct {
	Driver        string  `yaml:"driver"`
	IDs           []int   `yaml:"ids"`
	SlewDegPerSec float64 `yaml:"slew_deg_per_sec"`
}

type SingletonConfig struct {
	PIDFile string `yaml:"pidfile"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 50051
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("server.port must be in [0, 65535]")
	}

	if cfg.IMU.RateHz == 0 {
		cfg.IMU.RateHz = 100
	}
	if cfg.IMU.RateHz < 0 || cfg.IMU.RateHz > 1000 {
		return Config{}, fmt.Errorf("imu.rate_hz must be in (0, 1000]")
	}
	if cfg.IMU.Driver == "" {
		cfg.IMU.Driver = "sim"
	}

	if cfg.Servo.Driver == "" {
		cfg.Servo.Driver = "sim"
	}
	for _, id := range cfg.Servo.IDs {
		if id < 1 || id > 253 {
			return Config{}, fmt.Errorf("servo.ids entries must be in [1, 253], got %d", id)
		}
	}
	if cfg.Servo.SlewDegPerSec <= 0 {
		cfg.Servo.SlewDegPerSec = 360
	}

	if cfg.Singleton.PIDFile == "" {
		cfg.Singleton.PIDFile = singleton.DefaultPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}
