// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package imu

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"
)

// The sampler runs in a child process so a wedged or crashing sensor driver
// never takes the daemon down, and so stopping it can be a hard kill. The
// child writes one JSON sample per line on stdout; stderr passes through for
// its logs.

// ServeFeed is the body of the feed child: sample the sensor at rateHz and
// stream JSON lines to w until ctx is canceled or the stream closes. A write
// failure means the parent is gone, which terminates the loop.
func ServeFeed(ctx context.Context, w io.Writer, sensor Sensor, rateHz int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var streamErr error
	enc := json.NewEncoder(w)
	sampler := NewSampler(sensor, rateHz, func(s Sample) {
		if err := enc.Encode(s); err != nil {
			streamErr = err
			cancel()
		}
	})
	sampler.Run(ctx)

	if streamErr != nil {
		return fmt.Errorf("sample stream closed: %w", streamErr)
	}
	return nil
}

// feed supervises one sampler child process and decodes its output into the
// mailbox.
type feed struct {
	cmd         *exec.Cmd
	pid         int
	termination chan struct{}
}

func startFeed(binary string, args []string, mailbox *Mailbox) (*feed, error) {
	cmd := exec.Command(binary, args...)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	f := &feed{
		cmd:         cmd,
		pid:         cmd.Process.Pid,
		termination: make(chan struct{}),
	}
	log.WithField("pid", f.pid).Info("Sensor feed process started")

	go func() {
		// The pipe reaches EOF when the child dies, so decode first and
		// reap after. Closing termination unblocks whoever is waiting in
		// kill.
		decodeFeed(stdout, mailbox)
		if err := cmd.Wait(); err != nil {
			log.WithError(err).Debug("Sensor feed process exited")
		}
		close(f.termination)
	}()

	return f, nil
}

func decodeFeed(r io.Reader, mailbox *Mailbox) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var sample Sample
		if err := json.Unmarshal(line, &sample); err != nil {
			log.WithError(err).Warn("Discarding malformed sample line")
			continue
		}
		mailbox.Put(sample)
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Debug("Sensor feed stream closed")
	}
}

// kill force-terminates the child and blocks until it is reaped. It reports
// success if the process terminated on its own beforehand.
func (f *feed) kill(timeout time.Duration) error {
	select {
	case <-f.termination:
		log.Debugf("Sensor feed process %d already terminated", f.pid)
		return nil
	default:
		log.Infof("Sending SIGKILL to sensor feed process %d", f.pid)
	}

	if err := f.cmd.Process.Kill(); err != nil {
		log.WithError(err).Debug("Kill failed, process may already be gone")
	}

	select {
	case <-f.termination:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timed out waiting for feed process %d to exit", f.pid)
	}
}
