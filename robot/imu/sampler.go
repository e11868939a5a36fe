// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package imu

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sensor produces raw inertial samples. Implementations wrap one concrete
// device protocol and may return partially populated samples.
type Sensor interface {
	Read() (Sample, error)
}

// Sampler reads a Sensor on a fixed-period deadline schedule and hands each
// sample to a sink.
type Sampler struct {
	sensor Sensor
	period time.Duration
	sink   func(Sample)
}

func NewSampler(sensor Sensor, rateHz int, sink func(Sample)) *Sampler {
	// The feed child takes its rate straight from argv, so it arrives here
	// unvalidated.
	if rateHz <= 0 {
		rateHz = DefaultRateHz
	}
	return &Sampler{
		sensor: sensor,
		period: time.Second / time.Duration(rateHz),
		sink:   sink,
	}
}

// Run loops until ctx is canceled. When a read overruns its deadline the
// schedule restarts from now, so the next deadline lands one full period
// after the overrun instead of bursting to catch up. A failed read skips the
// tick and keeps the cadence.
func (s *Sampler) Run(ctx context.Context) {
	next := time.Now()

	for {
		now := time.Now()
		if now.After(next) {
			log.Debugf("Sampler overran schedule by %v, resyncing", now.Sub(next))
			next = now
		}
		next = next.Add(s.period)

		sample, err := s.sensor.Read()
		if err != nil {
			log.WithError(err).Warn("Failed to read sensor values")
		} else {
			s.sink(sample)
		}

		if d := time.Until(next); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return
		}
	}
}
