// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package imu

import "time"

// Mailbox is the capacity-one handoff between the sampler and the
// aggregator. A fresh sample displaces an uncollected one, so the consumer
// always sees the newest sample or nothing. Put never blocks; stale data has
// no value at sampling rates.
type Mailbox struct {
	ch chan Sample
}

func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Sample, 1)}
}

// Put deposits s, displacing an undelivered sample if one is present.
func (m *Mailbox) Put(s Sample) {
	select {
	case m.ch <- s:
		return
	default:
	}

	// Slot is occupied: drain the stale sample, then retry once. Losing
	// either race to the consumer is harmless, the slot holds a sample at
	// least as new as ours.
	select {
	case <-m.ch:
	default:
	}
	select {
	case m.ch <- s:
	default:
	}
}

// Get waits up to timeout for a sample.
func (m *Mailbox) Get(timeout time.Duration) (Sample, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s := <-m.ch:
		return s, true
	case <-timer.C:
		return Sample{}, false
	}
}
