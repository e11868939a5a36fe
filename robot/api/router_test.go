// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/strider-labs/striderd/robot/core"
	"github.com/strider-labs/striderd/robot/imu"
	"github.com/strider-labs/striderd/robot/servo"
)

// busRecorder implements servo.Controller and records the wall-clock
// interval of every SetPositions call. hold stretches the call so overlap,
// if the router allowed any, would be visible.
type busRecorder struct {
	ids  []int
	hold time.Duration

	// entered/release, when set, turn SetPositions into a barrier the test
	// controls explicitly.
	entered chan struct{}
	release chan struct{}

	mu        sync.Mutex
	intervals [][2]time.Time
}

func (b *busRecorder) IDs() []int { return append([]int(nil), b.ids...) }

func (b *busRecorder) Known(id int) bool {
	for _, known := range b.ids {
		if known == id {
			return true
		}
	}
	return false
}

func (b *busRecorder) Configure(id int, cfg servo.Config) error { return nil }

func (b *busRecorder) SetPositions(targets map[int]float64) error {
	start := time.Now()
	if b.entered != nil {
		b.entered <- struct{}{}
		<-b.release
	}
	time.Sleep(b.hold)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.intervals = append(b.intervals, [2]time.Time{start, time.Now()})
	return nil
}

func (b *busRecorder) State(id int) (servo.State, bool) { return servo.State{}, b.Known(id) }

func (b *busRecorder) TorqueEnabled(id int) bool { return b.Known(id) }

func (b *busRecorder) Faults(id int) (servo.FaultRecord, bool) { return servo.FaultRecord{}, false }

func (b *busRecorder) Params(id int) (map[string]servo.Parameter, error) {
	return map[string]servo.Parameter{}, nil
}

type stubIMU struct {
	state imu.State
	err   error
}

func (s *stubIMU) Snapshot() (imu.State, error) { return s.state, s.err }

func newTestServer(t *testing.T, controller servo.Controller, source *stubIMU) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(controller, source, core.NewCommandGate()))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterPing(t *testing.T) {
	srv := newTestServer(t, &busRecorder{ids: []int{11}}, &stubIMU{})

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "pong", string(body))
}

func TestRouterSerializesMutatingCommands(t *testing.T) {
	bus := &busRecorder{ids: []int{11}, hold: 30 * time.Millisecond}
	srv := newTestServer(t, bus, &stubIMU{})

	const clients = 4
	commandIDs := make([]string, clients)

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"commands": [{"actuator_id": 11, "position": %d}]}`, i)
			resp, err := http.Post(srv.URL+"/actuator/command", "application/json", strings.NewReader(body))
			if err != nil {
				t.Error(err)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("unexpected status %d", resp.StatusCode)
			}
			commandIDs[i] = resp.Header.Get("X-Command-Id")
		}(i)
	}
	wg.Wait()

	require.Len(t, bus.intervals, clients)

	// No two bus transactions may overlap, no matter how the requests raced.
	sort.Slice(bus.intervals, func(i, j int) bool {
		return bus.intervals[i][0].Before(bus.intervals[j][0])
	})
	for i := 1; i < len(bus.intervals); i++ {
		require.False(t, bus.intervals[i][0].Before(bus.intervals[i-1][1]),
			"bus transactions %d and %d overlapped", i-1, i)
	}

	seen := make(map[string]bool)
	for _, id := range commandIDs {
		require.NotEmpty(t, id, "mutating response must carry a command ID")
		seen[id] = true
	}
	require.Len(t, seen, clients, "command IDs must be unique per request")
}

func TestRouterQueriesBypassCommandGate(t *testing.T) {
	bus := &busRecorder{
		ids:     []int{11},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	srv := newTestServer(t, bus, &stubIMU{})

	commandDone := make(chan error, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/actuator/command", "application/json",
			strings.NewReader(`{"commands": [{"actuator_id": 11, "position": 10}]}`))
		if err == nil {
			resp.Body.Close()
		}
		commandDone <- err
	}()

	// Wait until the command holds the gate, then query while it is blocked.
	<-bus.entered

	resp, err := http.Get(srv.URL + "/actuator/state?ids=11")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	close(bus.release)
	require.NoError(t, <-commandDone)
}

func TestRouterUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &busRecorder{ids: []int{11}}, &stubIMU{})

	resp, err := http.Get(srv.URL + "/actuator/torque")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouterMethodMismatch(t *testing.T) {
	srv := newTestServer(t, &busRecorder{ids: []int{11}}, &stubIMU{})

	resp, err := http.Get(srv.URL + "/actuator/configure")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouterIMURoutes(t *testing.T) {
	source := &stubIMU{state: imu.State{Quat: [4]float64{1, 0, 0, 0}}}
	srv := newTestServer(t, &busRecorder{ids: []int{11}}, source)

	for _, endpoint := range []string{
		"/imu/values", "/imu/quaternion", "/imu/euler", "/imu/advanced", "/imu/calibration",
	} {
		resp, err := http.Get(srv.URL + endpoint)
		require.NoError(t, err, endpoint)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, endpoint)
	}

	resp, err := http.Post(srv.URL+"/imu/zero", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
