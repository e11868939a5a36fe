// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package singleton enforces the one-daemon-per-host rule with an advisory
// lock on a well-known pidfile. The lock lives on an open descriptor, so it
// vanishes with the process no matter how it dies.
package singleton

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	// DefaultPath is the conventional pidfile location.
	DefaultPath = "/tmp/striderd.pid"

	terminatePollInterval = 500 * time.Millisecond
	terminatePollAttempts = 10
)

// ErrDeclined is returned when the operator keeps the running instance.
var ErrDeclined = errors.New("startup declined, another instance is running")

// Guard holds the instance lock. Keep it for the process lifetime and
// Release it on the way out.
type Guard struct {
	path string
	file *os.File
}

// Acquire takes the instance lock at path. When another live instance holds
// it, confirm decides whether that instance is sent SIGTERM and the lock
// retried once it exits. A pidfile naming a dead or unparseable owner is
// reset and acquired.
func Acquire(path string, confirm func(pid int) bool) (*Guard, error) {
	guard, err := tryLock(path)
	if err == nil {
		return guard, nil
	}
	if !errors.Is(err, unix.EWOULDBLOCK) {
		return nil, err
	}

	pid, perr := owner(path)
	if perr != nil || pid <= 0 || !alive(pid) {
		log.WithField("path", path).Warn("Removing stale instance lock")
		if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
			return nil, fmt.Errorf("remove stale lock %s: %w", path, rerr)
		}
		return tryLock(path)
	}

	if confirm == nil || !confirm(pid) {
		return nil, ErrDeclined
	}

	log.Infof("Sending SIGTERM to running instance %d", pid)
	if kerr := unix.Kill(pid, unix.SIGTERM); kerr != nil && !errors.Is(kerr, unix.ESRCH) {
		return nil, fmt.Errorf("terminate instance %d: %w", pid, kerr)
	}

	for i := 0; i < terminatePollAttempts; i++ {
		if !alive(pid) {
			guard, err = tryLock(path)
			if err != nil {
				return nil, fmt.Errorf("lock %s still held after takeover: %w", path, err)
			}
			return guard, nil
		}
		time.Sleep(terminatePollInterval)
	}
	return nil, fmt.Errorf("instance %d did not exit after SIGTERM", pid)
}

// tryLock opens the pidfile and takes a non-blocking exclusive lock,
// recording our pid on success.
func tryLock(path string) (*Guard, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	if err := file.Truncate(0); err != nil {
		file.Close()
		return nil, fmt.Errorf("truncate %s: %w", path, err)
	}
	if _, err := file.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("write pid to %s: %w", path, err)
	}

	return &Guard{path: path, file: file}, nil
}

func owner(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// alive reports whether pid names a live process. EPERM still means alive,
// just not ours to signal.
func alive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// Path returns the pidfile location backing the guard.
func (g *Guard) Path() string {
	return g.path
}

// Release clears the pidfile and drops the lock. Safe to call twice.
func (g *Guard) Release() error {
	if g.file == nil {
		return nil
	}
	if err := g.file.Truncate(0); err != nil {
		log.WithError(err).Debug("Failed to clear pidfile")
	}
	err := g.file.Close()
	g.file = nil
	return err
}
