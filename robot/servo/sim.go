// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package servo

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eapache/queue"
	log "github.com/sirupsen/logrus"
)

const (
	defaultKP           = 32
	defaultKD           = 32
	defaultKI           = 0
	defaultMaxTorque    = 100.0
	defaultAcceleration = 500.0
)

// Sim is an in-memory bus for development hosts. It mimics the observable
// behavior of the real serial bus: position writes are queued and take
// effect on the next bus cycle in arrival order, positions slew toward their
// targets at a bounded rate, and the bus tracks its own exclusivity.
type Sim struct {
	slewDegPerSec float64
	// opDelay stretches each control transaction, standing in for serial
	// latency. Zero keeps the sim instant.
	opDelay time.Duration

	mu      sync.Mutex
	servos  map[int]*simServo
	pending *queue.Queue // batches of map[int]float64 awaiting a bus cycle
	busy    bool
	last    time.Time
}

type simServo struct {
	position float64
	velocity float64
	target   float64
	torque   bool

	kp, kd, ki   int
	maxTorque    float64
	acceleration float64

	fault *FaultRecord
}

func NewSim(ids []int, slewDegPerSec float64) *Sim {
	if slewDegPerSec <= 0 {
		slewDegPerSec = 360
	}

	servos := make(map[int]*simServo, len(ids))
	for _, id := range ids {
		servos[id] = &simServo{
			kp:           defaultKP,
			kd:           defaultKD,
			ki:           defaultKI,
			maxTorque:    defaultMaxTorque,
			acceleration: defaultAcceleration,
		}
	}

	return &Sim{
		slewDegPerSec: slewDegPerSec,
		servos:        servos,
		pending:       queue.New(),
		last:          time.Now(),
	}
}

func (s *Sim) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.servos))
	for id := range s.servos {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Sim) Known(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.servos[id]
	return ok
}

// beginOp claims the bus for one control transaction.
func (s *Sim) beginOp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrOperationInProgress
	}
	s.busy = true
	return nil
}

func (s *Sim) endOp() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Sim) Configure(id int, cfg Config) error {
	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()
	time.Sleep(s.opDelay)

	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.servos[id]
	if !ok {
		return ErrNotRegistered
	}

	if err := validateConfig(cfg); err != nil {
		s.recordFaultLocked(id, sv, err.Error())
		return err
	}
	if cfg.NewID != nil && *cfg.NewID != id {
		if _, taken := s.servos[*cfg.NewID]; taken {
			err := fmt.Errorf("%w: id %d already in use", ErrInvalidConfig, *cfg.NewID)
			s.recordFaultLocked(id, sv, err.Error())
			return err
		}
	}

	if cfg.TorqueEnabled != nil {
		sv.torque = *cfg.TorqueEnabled
		if !sv.torque {
			sv.velocity = 0
		}
	}
	if cfg.ZeroPosition != nil && *cfg.ZeroPosition {
		// The current pose becomes the new zero reference.
		sv.position = 0
		sv.target = 0
		sv.velocity = 0
	}
	if cfg.KP != nil {
		sv.kp = *cfg.KP
	}
	if cfg.KD != nil {
		sv.kd = *cfg.KD
	}
	if cfg.KI != nil {
		sv.ki = *cfg.KI
	}
	if cfg.MaxTorque != nil {
		sv.maxTorque = *cfg.MaxTorque
	}
	if cfg.Acceleration != nil {
		sv.acceleration = *cfg.Acceleration
	}
	if cfg.NewID != nil && *cfg.NewID != id {
		delete(s.servos, id)
		s.servos[*cfg.NewID] = sv
	}

	return nil
}

func validateConfig(cfg Config) error {
	for name, v := range map[string]*int{"kp": cfg.KP, "kd": cfg.KD, "ki": cfg.KI} {
		if v != nil && (*v < 0 || *v > 255) {
			return fmt.Errorf("%w: %s %d out of range [0, 255]", ErrInvalidConfig, name, *v)
		}
	}
	if cfg.MaxTorque != nil && (*cfg.MaxTorque < 0 || *cfg.MaxTorque > 100) {
		return fmt.Errorf("%w: max torque %.1f out of range [0, 100]", ErrInvalidConfig, *cfg.MaxTorque)
	}
	if cfg.Acceleration != nil && *cfg.Acceleration < 0 {
		return fmt.Errorf("%w: acceleration %.1f must be non-negative", ErrInvalidConfig, *cfg.Acceleration)
	}
	if cfg.NewID != nil && (*cfg.NewID < 1 || *cfg.NewID > 253) {
		return fmt.Errorf("%w: id %d out of range [1, 253]", ErrInvalidConfig, *cfg.NewID)
	}
	return nil
}

func (s *Sim) SetPositions(targets map[int]float64) error {
	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()
	time.Sleep(s.opDelay)

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[int]float64, len(targets))
	for id, deg := range targets {
		batch[id] = deg
	}
	s.pending.Add(batch)
	return nil
}

// advance runs the bus forward to now: queued batches land first, then every
// torqued servo slews toward its target. Callers hold s.mu.
func (s *Sim) advance() {
	now := time.Now()
	dt := now.Sub(s.last).Seconds()
	s.last = now

	for s.pending.Length() > 0 {
		batch := s.pending.Remove().(map[int]float64)
		for id, deg := range batch {
			if sv, ok := s.servos[id]; ok {
				sv.target = deg
			}
		}
	}

	if dt <= 0 {
		return
	}
	maxStep := s.slewDegPerSec * dt
	for _, sv := range s.servos {
		if !sv.torque {
			sv.velocity = 0
			continue
		}
		delta := sv.target - sv.position
		step := delta
		if step > maxStep {
			step = maxStep
		} else if step < -maxStep {
			step = -maxStep
		}
		sv.position += step
		sv.velocity = step / dt
	}
}

func (s *Sim) State(id int) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()
	sv, ok := s.servos[id]
	if !ok {
		return State{}, false
	}
	return State{Position: sv.position, Velocity: sv.velocity}, true
}

func (s *Sim) TorqueEnabled(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.servos[id]
	return ok && sv.torque
}

func (s *Sim) Faults(id int) (FaultRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.servos[id]
	if !ok || sv.fault == nil {
		return FaultRecord{}, false
	}
	return *sv.fault, true
}

func (s *Sim) Params(id int) (map[string]Parameter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()
	sv, ok := s.servos[id]
	if !ok {
		return nil, ErrNotRegistered
	}

	return map[string]Parameter{
		"id":               {Value: id, Addr: 5},
		"max_torque":       {Value: sv.maxTorque, Addr: 16},
		"kp":               {Value: sv.kp, Addr: 21},
		"kd":               {Value: sv.kd, Addr: 22},
		"ki":               {Value: sv.ki, Addr: 23},
		"torque_enable":    {Value: sv.torque, Addr: 40},
		"acceleration":     {Value: sv.acceleration, Addr: 41},
		"goal_position":    {Value: sv.target, Addr: 42},
		"present_position": {Value: sv.position, Addr: 56},
		"present_velocity": {Value: sv.velocity, Addr: 58},
	}, nil
}

func (s *Sim) recordFaultLocked(id int, sv *simServo, msg string) {
	total := 1
	if sv.fault != nil {
		total = sv.fault.Total + 1
	}
	sv.fault = &FaultRecord{LastMessage: msg, Total: total, LastTime: time.Now()}
	log.WithField("servo", id).Warn(msg)
}
