// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.
package tcp

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ffutop/optolink-gateway/transport"
)

func startServer(t *testing.T, handler transport.RequestHandler) (*Server, context.CancelFunc) {
	t.Helper()
	s := NewServer("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	go s.Start(ctx, handler)

	for i := 0; i < 50 && s.Addr() == nil; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Addr() == nil {
		cancel()
		t.Fatal("server did not start")
	}
	return s, cancel
}

func TestServer_Start_And_Handle(t *testing.T) {
	handler := func(ctx context.Context, req transport.Request) (transport.Response, error) {
		switch req.Function {
		case transport.FuncRead:
			resp := append([]byte(nil), req.Frame...)
			return transport.Response{Function: req.Function, Frame: append(resp, 0xC8, 0x00)}, nil
		case transport.FuncWrite:
			return transport.Response{Function: req.Function, Frame: req.Frame[:3]}, nil
		}
		return transport.Exception(req.Function, transport.ExceptionIllegalFunction), nil
	}
	s, cancel := startServer(t, handler)
	defer cancel()

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	// Read
	conn.Write(EncodeRequest(transport.Request{Function: transport.FuncRead, Frame: []byte{0x01, 0x01, 0x02}}))
	resp, err := ReadResponse(conn, transport.FuncRead, 5)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if !bytes.Equal(resp.Frame, []byte{0x01, 0x01, 0x02, 0xC8, 0x00}) {
		t.Errorf("Read frame mismatch: %X", resp.Frame)
	}

	// Write carries its value
	conn.Write(EncodeRequest(transport.Request{Function: transport.FuncWrite, Frame: []byte{0xB0, 0x00, 0x01, 0x02}}))
	resp, err = ReadResponse(conn, transport.FuncWrite, 3)
	if err != nil {
		t.Fatalf("write response: %v", err)
	}
	if !bytes.Equal(resp.Frame, []byte{0xB0, 0x00, 0x01}) {
		t.Errorf("Write frame mismatch: %X", resp.Frame)
	}

	// Unknown function
	conn.Write([]byte{0x42, 0x00, 0x00, 0x00})
	resp, err = ReadResponse(conn, 0x42, 3)
	if err != nil {
		t.Fatalf("exception response: %v", err)
	}
	if resp.Function != 0x42|transport.ExceptionFlag || resp.Frame[0] != transport.ExceptionIllegalFunction {
		t.Errorf("Unexpected exception: %02X %X", resp.Function, resp.Frame)
	}
}

func TestServer_HandlerError(t *testing.T) {
	s, cancel := startServer(t, func(ctx context.Context, req transport.Request) (transport.Response, error) {
		return transport.Response{}, errors.New("link down")
	})
	defer cancel()

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	conn.Write([]byte{transport.FuncRead, 0x01, 0x01, 0x02})
	resp, err := ReadResponse(conn, transport.FuncRead, 5)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.Frame[0] != transport.ExceptionTargetFailed {
		t.Errorf("Expected target failed exception, got %X", resp.Frame)
	}
}

func TestServer_LifeCycle(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx, func(ctx context.Context, req transport.Request) (transport.Response, error) {
			return transport.Response{}, nil
		})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(time.Second):
		t.Error("server did not shut down")
	}
}

func TestReadRequest(t *testing.T) {
	req, err := ReadRequest(bytes.NewReader([]byte{transport.FuncWrite, 0xB0, 0x00, 0x01, 0x02, 0xFF}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(req.Frame, []byte{0xB0, 0x00, 0x01, 0x02}) {
		t.Errorf("Frame mismatch: %X", req.Frame)
	}

	if _, err := ReadRequest(bytes.NewReader([]byte{transport.FuncWrite, 0xB0, 0x00, 0x02, 0x02})); err == nil {
		t.Error("Expected error for short write value")
	}
}

func TestServer_CloseDropsClients(t *testing.T) {
	handler := func(ctx context.Context, req transport.Request) (transport.Response, error) {
		return transport.Response{Function: req.Function, Frame: append(append([]byte(nil), req.Frame...), 0x00, 0x00)}, nil
	}
	s, cancel := startServer(t, handler)
	defer cancel()

	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	conn.Write(EncodeRequest(transport.Request{Function: transport.FuncRead, Frame: []byte{0x01, 0x01, 0x02}}))
	if _, err := ReadResponse(conn, transport.FuncRead, 5); err != nil {
		t.Fatalf("read response: %v", err)
	}

	cancel()
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	var netErr net.Error
	if err == nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		t.Fatalf("Expected connection to be closed by server, got %v", err)
	}
}
