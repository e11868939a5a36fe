// Copyright Strider Labs, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/strider-labs/striderd/robot/core"
)

// CommandIDHeader echoes the correlation ID of a mutating request.
const CommandIDHeader = "X-Command-Id"

type commandIDKeyType struct{}

var commandIDKey = commandIDKeyType{}

// AccessLogMiddleware writes api access log.
func AccessLogMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			log.Debug("API request - ", r.Method, " ", r.URL)
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// CommandIDMiddleware assigns every mutating request a correlation ID,
// available to handlers via CommandID and echoed in the response headers.
func CommandIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := uuid.New().String()
			w.Header().Set(CommandIDHeader, id)
			r = r.WithContext(context.WithValue(r.Context(), commandIDKey, id))
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// CommandID returns the correlation ID assigned by CommandIDMiddleware, or
// empty outside of it.
func CommandID(r *http.Request) string {
	id, _ := r.Context().Value(commandIDKey).(string)
	return id
}

// ExclusiveCommandMiddleware holds the command gate for the whole request,
// decode through response, so mutating commands reach the bus strictly one
// at a time. The deferred release runs on every exit path, panics included.
func ExclusiveCommandMiddleware(gate *core.CommandGate) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			gate.Acquire()
			defer gate.Release()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
