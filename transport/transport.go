// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package transport

import (
	"context"
)

// Link is a point-to-point byte link to the controller (serial port, serial
// bridge over TCP or WebSocket, or the simulator).
//
// Exchange writes one request frame and reads exactly responseLength bytes.
// Implementations allow a single exchange in flight at a time.
type Link interface {
	Connect(ctx context.Context) error
	Exchange(ctx context.Context, request []byte, responseLength int) ([]byte, error)
	Close() error
}

// Function codes of the gateway upstream protocol. They follow the
// virtual read/write and remote procedure call services of the controller.
const (
	FuncRead  byte = 0x01
	FuncWrite byte = 0x02
	FuncCall  byte = 0x07

	ExceptionFlag byte = 0x80
)

// Exception codes carried in a failed upstream response.
const (
	ExceptionIllegalFunction    byte = 0x01
	ExceptionUnresolvedAddress  byte = 0x02
	ExceptionIllegalValueLength byte = 0x03
	ExceptionTargetFailed       byte = 0x0B
)

// Request is one upstream request: a function code followed by the request
// frame (header, plus value bytes for writes).
type Request struct {
	Function byte
	Frame    []byte
}

// Response is what the gateway sends back for a Request.
// For exceptions Function has ExceptionFlag set and Frame holds the code.
type Response struct {
	Function byte
	Frame    []byte
}

// RequestHandler handles one upstream request.
type RequestHandler func(ctx context.Context, req Request) (Response, error)

// Upstream represents a source of requests (a client connected to us).
type Upstream interface {
	// Start starts the server and blocks. It should be called in a goroutine.
	Start(ctx context.Context, handler RequestHandler) error
	Close() error
}

// Exception builds an exception response for fn.
func Exception(fn, code byte) Response {
	return Response{Function: fn | ExceptionFlag, Frame: []byte{code}}
}
