// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core holds the shared concurrency primitives of the service.
package core

import "sync"

// CommandGate serializes mutating actuator operations. Holders keep the gate
// for the full request, decode through response, so two mutating commands
// can never interleave on the bus. Read-only paths never touch it.
type CommandGate struct {
	mu sync.Mutex
}

func NewCommandGate() *CommandGate {
	return &CommandGate{}
}

// Acquire blocks until the gate is free. There is no timeout; waiters
// proceed one at a time.
func (g *CommandGate) Acquire() {
	g.mu.Lock()
}

// Release frees the gate. Callers release exactly once per Acquire.
func (g *CommandGate) Release() {
	g.mu.Unlock()
}
