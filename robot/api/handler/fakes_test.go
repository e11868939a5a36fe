// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"sort"

	"github.com/strider-labs/striderd/robot/imu"
	"github.com/strider-labs/striderd/robot/servo"
)

// fakeController scripts bus behavior per test: fixed registry, canned
// readings, and injectable errors. It records every mutating call.
type fakeController struct {
	ids []int

	configured   map[int]servo.Config
	configureErr error

	setTargets []map[int]float64
	setErr     error

	states map[int]servo.State
	torque map[int]bool
	faults map[int]servo.FaultRecord

	params    map[int]map[string]servo.Parameter
	paramsErr map[int]error
}

func newFakeController(ids ...int) *fakeController {
	return &fakeController{
		ids:        ids,
		configured: make(map[int]servo.Config),
		states:     make(map[int]servo.State),
		torque:     make(map[int]bool),
		faults:     make(map[int]servo.FaultRecord),
		params:     make(map[int]map[string]servo.Parameter),
		paramsErr:  make(map[int]error),
	}
}

func (f *fakeController) IDs() []int {
	out := append([]int(nil), f.ids...)
	sort.Ints(out)
	return out
}

func (f *fakeController) Known(id int) bool {
	for _, known := range f.ids {
		if known == id {
			return true
		}
	}
	return false
}

func (f *fakeController) Configure(id int, cfg servo.Config) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configured[id] = cfg
	return nil
}

func (f *fakeController) SetPositions(targets map[int]float64) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setTargets = append(f.setTargets, targets)
	return nil
}

func (f *fakeController) State(id int) (servo.State, bool) {
	st, ok := f.states[id]
	return st, ok
}

func (f *fakeController) TorqueEnabled(id int) bool {
	return f.torque[id]
}

func (f *fakeController) Faults(id int) (servo.FaultRecord, bool) {
	rec, ok := f.faults[id]
	return rec, ok
}

func (f *fakeController) Params(id int) (map[string]servo.Parameter, error) {
	if err := f.paramsErr[id]; err != nil {
		return nil, err
	}
	return f.params[id], nil
}

// fakeIMU serves one canned state, or one canned error.
type fakeIMU struct {
	state imu.State
	err   error
}

func (f *fakeIMU) Snapshot() (imu.State, error) {
	return f.state, f.err
}
