// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package capture

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ffutop/optolink-gateway/optolink/frame"
	"github.com/ffutop/optolink-gateway/transport"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Recorder wraps a transport.Link and writes every exchanged frame to a
// capture file. It is safe for concurrent use.
type Recorder struct {
	link     transport.Link
	resolver frame.Resolver
	session  string

	mu      sync.Mutex
	closer  io.Closer
	encoder *cbor.Encoder
	closed  bool
}

// NewRecorder appends captured frames of link to the file at path.
// resolver is used to name commands and may be nil.
func NewRecorder(link transport.Link, resolver frame.Resolver, path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return newRecorder(link, resolver, f), nil
}

func newRecorder(link transport.Link, resolver frame.Resolver, w io.WriteCloser) *Recorder {
	return &Recorder{
		link:     link,
		resolver: resolver,
		session:  uuid.New().String(),
		closer:   w,
		encoder:  newEncoder(w),
	}
}

// SessionID returns the UUID stamped on every event of this recorder.
func (r *Recorder) SessionID() string {
	return r.session
}

func (r *Recorder) Connect(ctx context.Context) error {
	return r.link.Connect(ctx)
}

// Exchange forwards to the wrapped link and records both directions.
func (r *Recorder) Exchange(ctx context.Context, request []byte, responseLength int) ([]byte, error) {
	command := r.commandName(request)
	r.record(Event{Direction: DirectionOut, Command: command, Frame: request})

	resp, err := r.link.Exchange(ctx, request, responseLength)
	in := Event{Direction: DirectionIn, Command: command, Frame: resp}
	if err != nil {
		in.Error = err.Error()
	}
	r.record(in)
	return resp, err
}

// Close closes the wrapped link and the capture file.
func (r *Recorder) Close() error {
	err := r.link.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return err
	}
	r.closed = true
	if cerr := r.closer.Close(); err == nil {
		err = cerr
	}
	return err
}

func (r *Recorder) commandName(request []byte) string {
	if r.resolver == nil {
		return ""
	}
	def, err := r.resolver.ResolveByAddress(request)
	if err != nil {
		return ""
	}
	return def.Name
}

func (r *Recorder) record(event Event) {
	event.Timestamp = time.Now()
	event.SessionID = r.session

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if err := r.encoder.Encode(event); err != nil {
		slog.Warn("Failed to write capture event", "err", err)
	}
}
