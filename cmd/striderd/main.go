// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	log "github.com/sirupsen/logrus"

	"github.com/strider-labs/striderd/robot/api"
	"github.com/strider-labs/striderd/robot/config"
	"github.com/strider-labs/striderd/robot/core"
	"github.com/strider-labs/striderd/robot/imu"
	"github.com/strider-labs/striderd/robot/logging"
	"github.com/strider-labs/striderd/robot/servo"
	"github.com/strider-labs/striderd/robot/singleton"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	ConfigFile string `long:"config" default:"striderd.yaml" description:"path to the service configuration file"`
	LogLevel   string `long:"log-level" description:"log level, overrides the configuration file"`

	// Feed flags are internal: the daemon passes them when re-executing
	// itself as the isolated sensor feed child.
	IMUFeed   bool   `long:"imu-feed" hidden:"true" description:"run as the sensor feed child"`
	IMURate   int    `long:"imu-rate" hidden:"true" default:"100" description:"feed sampling rate in Hz"`
	IMUDriver string `long:"imu-driver" hidden:"true" default:"sim" description:"feed sensor driver"`
}

func main() {
	opts := getCLIArgs()

	if opts.IMUFeed {
		runIMUFeed(opts)
		return
	}

	if err := runDaemon(opts); err != nil {
		log.WithError(err).Fatal("Daemon exited with error")
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(os.Args[1:])

	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}

	return opts
}

// runIMUFeed is the child side of the isolated sensor pipeline: it owns the
// sensor and streams samples over stdout until the pipe breaks. Stdout
// carries samples only, so all logging is pinned to stderr, which the parent
// forwards.
func runIMUFeed(opts options) {
	logging.SetOutput(os.Stderr)
	level := opts.LogLevel
	if level == "" {
		level = "info"
	}
	logging.SetLevel(level)

	sensor, err := imu.OpenSensor(opts.IMUDriver)
	if err != nil {
		log.WithError(err).Fatal("Failed to open sensor")
	}

	if err := imu.ServeFeed(context.Background(), os.Stdout, sensor, opts.IMURate); err != nil {
		log.WithError(err).Fatal("Sensor feed terminated")
	}
}

func runDaemon(opts options) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logging.SetLevel(level)

	guard, err := singleton.Acquire(cfg.Singleton.PIDFile, confirmTakeover)
	if errors.Is(err, singleton.ErrDeclined) {
		// Declining is still a failed start: the exit status has to say
		// this process never became the daemon.
		log.Info("Leaving the running instance in place")
		return err
	}
	if err != nil {
		return err
	}
	defer guard.Release()

	if len(cfg.Servo.IDs) == 0 {
		log.Fatal("No actuators configured, exiting")
	}
	controller, err := servo.Open(cfg.Servo.Driver, cfg.Servo.IDs, cfg.Servo.SlewDegPerSec)
	if err != nil {
		return err
	}

	manager := imu.NewManager(imu.Config{
		RateHz:     cfg.IMU.RateHz,
		Driver:     cfg.IMU.Driver,
		InProcess:  cfg.IMU.InProcess,
		FeedBinary: cfg.IMU.FeedBinary,
	})
	if err := manager.Start(); err != nil {
		return err
	}
	defer manager.Stop()

	server := api.NewServer(cfg.Server.Host, cfg.Server.Port,
		api.NewRouter(controller, manager, core.NewCommandGate()))
	if err := server.Listen(); err != nil {
		return err
	}

	log.WithField("host", server.Host()).WithField("port", server.Port()).
		Info("Control API listening")

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	// Serve is not tied to the signal context: on a signal the watcher
	// drains in-flight requests with a bounded Shutdown, which ends Serve
	// through the closed listener.
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.Serve(context.Background()); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return err
	}
	log.Info("Shutdown complete")
	return nil
}

// confirmTakeover asks the operator whether to terminate the instance that
// already holds the singleton lock. Runs on the startup path only, before
// any subsystem is up.
func confirmTakeover(pid int) bool {
	fmt.Fprintf(os.Stderr, "striderd is already running (pid %d). Terminate it and take over? [y/N] ", pid)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
