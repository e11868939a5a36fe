// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package imu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultRateHz is the sampling rate used when none is configured.
	DefaultRateHz = 100

	// mailboxPollTimeout bounds each aggregator wait so stop requests are
	// honored even when the sampler goes quiet.
	mailboxPollTimeout = 100 * time.Millisecond

	feedKillTimeout = 2 * time.Second
)

// ErrNotRunning is returned for state queries while the pipeline is down.
var ErrNotRunning = errors.New("imu manager not running")

// Config selects the sampling source.
type Config struct {
	RateHz int
	Driver string
	// InProcess runs the sampler on a goroutine instead of an isolated
	// child process. Only for drivers known to be thread safe, and for
	// tests.
	InProcess bool
	// FeedBinary overrides the executable spawned for the feed child.
	// Defaults to the current executable.
	FeedBinary string
}

// Manager owns the sampling pipeline: sampler, mailbox, aggregator and the
// latest-state buffer. Start and Stop are idempotent and safe in any order.
type Manager struct {
	cfg     Config
	mailbox *Mailbox

	mu          sync.Mutex // lifecycle state below
	feed        *feed
	cancel      context.CancelFunc
	samplerDone chan struct{}
	readerStop  chan struct{}
	readerDone  chan struct{}

	bufMu sync.RWMutex
	state State
}

func NewManager(cfg Config) *Manager {
	if cfg.RateHz <= 0 {
		cfg.RateHz = DefaultRateHz
	}
	return &Manager{cfg: cfg, mailbox: NewMailbox()}
}

// Start launches the sampler and the aggregator. Starting a running manager
// logs a warning and succeeds without side effects.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runningLocked() {
		log.Warn("Sensor pipeline already running")
		return nil
	}

	if m.cfg.InProcess {
		if err := m.startSamplerLocked(); err != nil {
			return err
		}
	} else {
		if err := m.startFeedLocked(); err != nil {
			return err
		}
	}

	m.readerStop = make(chan struct{})
	m.readerDone = make(chan struct{})
	go m.aggregate(m.readerStop, m.readerDone)

	log.WithFields(log.Fields{
		"rate_hz":  m.cfg.RateHz,
		"driver":   m.cfg.Driver,
		"isolated": !m.cfg.InProcess,
	}).Info("Sensor pipeline started")
	return nil
}

func (m *Manager) startSamplerLocked() error {
	sensor, err := OpenSensor(m.cfg.Driver)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sampler := NewSampler(sensor, m.cfg.RateHz, m.mailbox.Put)
	go func() {
		defer close(done)
		sampler.Run(ctx)
	}()

	m.cancel = cancel
	m.samplerDone = done
	return nil
}

func (m *Manager) startFeedLocked() error {
	binary := m.cfg.FeedBinary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate feed binary: %w", err)
		}
		binary = exe
	}

	args := []string{
		"--imu-feed",
		fmt.Sprintf("--imu-rate=%d", m.cfg.RateHz),
		fmt.Sprintf("--imu-driver=%s", m.cfg.Driver),
	}
	f, err := startFeed(binary, args, m.mailbox)
	if err != nil {
		return fmt.Errorf("start sensor feed: %w", err)
	}
	m.feed = f
	return nil
}

// Stop tears the pipeline down: the sampler first, then the aggregator, each
// joined before return. Stopping a stopped or never-started manager is a
// no-op.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.runningLocked() {
		log.Debug("Sensor pipeline already stopped")
		return nil
	}

	var err error
	if m.feed != nil {
		err = m.feed.kill(feedKillTimeout)
		m.feed = nil
		log.Info("Sensor feed process stopped")
	}
	if m.cancel != nil {
		m.cancel()
		<-m.samplerDone
		m.cancel = nil
		m.samplerDone = nil
		log.Info("Sampler stopped")
	}

	close(m.readerStop)
	<-m.readerDone
	m.readerStop = nil
	m.readerDone = nil
	log.Info("Reader stopped")

	return err
}

// Running reports whether the sampling pipeline is up.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runningLocked()
}

func (m *Manager) runningLocked() bool {
	return m.feed != nil || m.cancel != nil
}

// aggregate drains the mailbox into the state buffer until stop closes.
func (m *Manager) aggregate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		sample, ok := m.mailbox.Get(mailboxPollTimeout)
		if !ok {
			continue
		}
		m.merge(sample)
	}
}

// merge folds one sample into the buffer. Only tuples with every element
// present overwrite their slot; anything else leaves the previous value.
func (m *Manager) merge(sample Sample) {
	m.bufMu.Lock()
	defer m.bufMu.Unlock()

	if v, ok := flat3(sample.Accel); ok {
		m.state.Accel = v
	}
	if v, ok := flat3(sample.Gyro); ok {
		m.state.Gyro = v
	}
	if v, ok := flat3(sample.Mag); ok {
		m.state.Mag = v
	}
	if v, ok := flat4(sample.Quat); ok {
		m.state.Quat = v
	}
	if v, ok := flatCalib(sample.Calib); ok {
		m.state.Calib = v
	}
}

// Snapshot returns a copy of all five buffer slots taken under one lock
// acquisition, so the slots are mutually consistent. It fails while the
// pipeline is down.
func (m *Manager) Snapshot() (State, error) {
	if !m.Running() {
		return State{}, ErrNotRunning
	}

	m.bufMu.RLock()
	defer m.bufMu.RUnlock()
	return m.state, nil
}
