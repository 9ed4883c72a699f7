// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package tcp

import (
	"fmt"
	"io"

	"github.com/ffutop/optolink-gateway/optolink/frame"
	"github.com/ffutop/optolink-gateway/transport"
)

const (
	// function code + frame header
	requestMinSize = 1 + frame.HeaderSize
	// function code + frame header + largest value
	responseMaxSize = 1 + frame.HeaderSize + frame.MaxValueLength
)

// ReadRequest reads one upstream request from r.
// Write requests carry the value announced by the header length byte.
func ReadRequest(r io.Reader) (transport.Request, error) {
	head := make([]byte, requestMinSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return transport.Request{}, err
	}
	req := transport.Request{Function: head[0], Frame: head[1:]}
	if req.Function != transport.FuncWrite {
		return req, nil
	}

	value := make([]byte, int(head[3]))
	if _, err := io.ReadFull(r, value); err != nil {
		return transport.Request{}, fmt.Errorf("%w: write value: %v", frame.ErrTruncatedFrame, err)
	}
	req.Frame = append(req.Frame, value...)
	return req, nil
}

// EncodeRequest returns the wire form of req.
func EncodeRequest(req transport.Request) []byte {
	raw := make([]byte, 0, 1+len(req.Frame))
	raw = append(raw, req.Function)
	return append(raw, req.Frame...)
}

// EncodeResponse returns the wire form of resp.
func EncodeResponse(resp transport.Response) ([]byte, error) {
	length := 1 + len(resp.Frame)
	if length > responseMaxSize {
		return nil, fmt.Errorf("optolink: response length '%v' must not be bigger than '%v'", length, responseMaxSize)
	}
	raw := make([]byte, 0, length)
	raw = append(raw, resp.Function)
	return append(raw, resp.Frame...), nil
}

// ReadResponse reads the answer to a request with function code fn whose
// successful frame is frameLength bytes long.
func ReadResponse(r io.Reader, fn byte, frameLength int) (transport.Response, error) {
	head := make([]byte, 1)
	if _, err := io.ReadFull(r, head); err != nil {
		return transport.Response{}, err
	}
	resp := transport.Response{Function: head[0]}
	switch resp.Function {
	case fn:
	case fn | transport.ExceptionFlag:
		frameLength = 1
	default:
		return transport.Response{}, fmt.Errorf("optolink: response function '%#02x' does not match request '%#02x'", resp.Function, fn)
	}

	data, err := frame.ReadResponse(r, frameLength)
	if err != nil {
		return transport.Response{}, err
	}
	resp.Frame = data
	return resp, nil
}
