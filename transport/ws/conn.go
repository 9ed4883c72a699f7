// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package ws

import (
	"errors"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when reading from a failed WebSocket connection.
var ErrConnectionClosed = errors.New("websocket connection closed")

// stream turns a message oriented WebSocket into a byte stream.
// Bridges may split one response over several binary messages.
type stream struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool
}

func (s *stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrConnectionClosed
	}

	if s.bufOffset < len(s.buf) {
		n := copy(p, s.buf[s.bufOffset:])
		s.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.closed = true
			return 0, err
		}
		// Only binary messages carry frames.
		if messageType != websocket.BinaryMessage {
			continue
		}

		s.buf = data
		s.bufOffset = 0
		n := copy(p, s.buf)
		s.bufOffset = n
		return n, nil
	}
}

// discard drops buffered bytes left over from an earlier message and
// returns how many there were.
func (s *stream) discard() int {
	n := len(s.buf) - s.bufOffset
	s.buf = nil
	s.bufOffset = 0
	return n
}

func (s *stream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *stream) Close() error {
	return s.conn.Close()
}
