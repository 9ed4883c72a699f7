// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package capture

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ffutop/optolink-gateway/optolink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoLink struct {
	err error
}

func (l *echoLink) Connect(ctx context.Context) error { return nil }
func (l *echoLink) Close() error                      { return nil }
func (l *echoLink) Exchange(ctx context.Context, request []byte, responseLength int) ([]byte, error) {
	if l.err != nil {
		return nil, l.err
	}
	resp := make([]byte, responseLength)
	copy(resp, request)
	return resp, nil
}

func testRegistry(t *testing.T) *optolink.Registry {
	t.Helper()
	r, err := optolink.NewRegistry(optolink.Catalog{
		Model:   "test",
		Entries: []optolink.Entry{{Name: "Aussentemperatur", Address: "0101", Length: 2, Unit: "IS10"}},
	})
	require.NoError(t, err)
	return r
}

func readAll(t *testing.T, path string) []Event {
	t.Helper()
	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func TestRecorder_RecordsBothDirections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.cbor")
	rec, err := NewRecorder(&echoLink{}, testRegistry(t), path)
	require.NoError(t, err)

	resp, err := rec.Exchange(context.Background(), []byte{0x01, 0x01, 0x02}, 5)
	require.NoError(t, err)
	assert.Len(t, resp, 5)
	require.NoError(t, rec.Close())

	events := readAll(t, path)
	require.Len(t, events, 2)

	assert.Equal(t, DirectionOut, events[0].Direction)
	assert.Equal(t, []byte{0x01, 0x01, 0x02}, events[0].Frame)
	assert.Equal(t, "Aussentemperatur", events[0].Command)

	assert.Equal(t, DirectionIn, events[1].Direction)
	assert.Equal(t, []byte{0x01, 0x01, 0x02, 0x00, 0x00}, events[1].Frame)
	assert.Equal(t, rec.SessionID(), events[1].SessionID)
	assert.False(t, events[1].Timestamp.Before(events[0].Timestamp))
}

func TestRecorder_RecordsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.cbor")
	rec, err := NewRecorder(&echoLink{err: errors.New("timeout")}, nil, path)
	require.NoError(t, err)

	_, err = rec.Exchange(context.Background(), []byte{0x99, 0x99, 0x01}, 4)
	assert.Error(t, err)
	require.NoError(t, rec.Close())

	events := readAll(t, path)
	require.Len(t, events, 2)
	assert.Empty(t, events[0].Command)
	assert.Equal(t, "timeout", events[1].Error)
	assert.Nil(t, events[1].Frame)
}

func TestRecorder_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.cbor")
	rec, err := NewRecorder(&echoLink{}, nil, path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				rec.Exchange(context.Background(), []byte{0x01, 0x01, 0x02}, 5)
			}
		}()
	}
	wg.Wait()
	require.NoError(t, rec.Close())
	assert.NoError(t, rec.Close())

	assert.Len(t, readAll(t, path), 160)
}

func TestEventEncoding(t *testing.T) {
	data, err := EncodeEvent(Event{Direction: DirectionOut, Frame: []byte{0xB0, 0x00, 0x01, 0x02}})
	require.NoError(t, err)
	ev, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, DirectionOut, ev.Direction)
	assert.Equal(t, "OUT", ev.Direction.String())
	assert.Equal(t, []byte{0xB0, 0x00, 0x01, 0x02}, ev.Frame)
}

func TestDecodeEvent_RejectsForeignEncoding(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		// {_ 4: "A"}
		{"indefinite length map", []byte{0xBF, 0x04, 0x61, 0x41, 0xFF}},
		// {4: "A", 4: "B"}
		{"duplicate key", []byte{0xA2, 0x04, 0x61, 0x41, 0x04, 0x61, 0x42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent(tt.data)
			require.Error(t, err)
		})
	}

	event, err := DecodeEvent([]byte{0xA1, 0x04, 0x61, 0x41})
	require.NoError(t, err)
	assert.Equal(t, "A", event.Command)
}
