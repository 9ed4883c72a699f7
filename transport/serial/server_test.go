// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.
package serial

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/ffutop/optolink-gateway/internal/config"
	"github.com/ffutop/optolink-gateway/transport"
	"github.com/ffutop/optolink-gateway/transport/tcp"
	gxserial "github.com/grid-x/serial"
)

// startPipeServer runs a Server whose serial line is one end of a pipe.
func startPipeServer(t *testing.T, handler transport.RequestHandler) (net.Conn, context.CancelFunc, <-chan error) {
	t.Helper()
	line, peer := net.Pipe()

	server := NewServer(config.SerialConfig{Device: "/dev/ttyS1", BaudRate: 4800})
	server.open = func(*gxserial.Config) (io.ReadWriteCloser, error) {
		return line, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx, handler) }()
	t.Cleanup(func() {
		cancel()
		peer.Close()
	})
	return peer, cancel, done
}

func TestServer_Request(t *testing.T) {
	response := []byte{0x01, 0x01, 0x02, 0xC8, 0x00}
	var got transport.Request
	peer, cancel, done := startPipeServer(t, func(ctx context.Context, req transport.Request) (transport.Response, error) {
		got = req
		return transport.Response{Function: req.Function, Frame: response}, nil
	})

	request := transport.Request{Function: transport.FuncRead, Frame: []byte{0x01, 0x01, 0x02}}
	peer.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := peer.Write(tcp.EncodeRequest(request)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	resp, err := tcp.ReadResponse(peer, transport.FuncRead, len(response))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if !bytes.Equal(resp.Frame, response) {
		t.Errorf("Response mismatch.\nWant: %X\nGot:  %X", response, resp.Frame)
	}
	if got.Function != transport.FuncRead || !bytes.Equal(got.Frame, request.Frame) {
		t.Errorf("Handler got %+v", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Server did not stop after cancel")
	}
}

func TestServer_WriteRequest(t *testing.T) {
	var got transport.Request
	peer, _, _ := startPipeServer(t, func(ctx context.Context, req transport.Request) (transport.Response, error) {
		got = req
		return transport.Response{Function: req.Function, Frame: req.Frame[:3]}, nil
	})

	request := transport.Request{Function: transport.FuncWrite, Frame: []byte{0xB0, 0x00, 0x01, 0x03}}
	peer.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := peer.Write(tcp.EncodeRequest(request)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	resp, err := tcp.ReadResponse(peer, transport.FuncWrite, 3)
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if !bytes.Equal(resp.Frame, []byte{0xB0, 0x00, 0x01}) {
		t.Errorf("Unexpected echo %X", resp.Frame)
	}
	if !bytes.Equal(got.Frame, request.Frame) {
		t.Errorf("Handler got frame %X, want %X", got.Frame, request.Frame)
	}
}

func TestServer_HandlerError(t *testing.T) {
	peer, _, _ := startPipeServer(t, func(ctx context.Context, req transport.Request) (transport.Response, error) {
		return transport.Response{}, errors.New("link down")
	})

	peer.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := peer.Write([]byte{transport.FuncRead, 0x01, 0x01, 0x02}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	resp, err := tcp.ReadResponse(peer, transport.FuncRead, 5)
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if resp.Function != transport.FuncRead|transport.ExceptionFlag || !bytes.Equal(resp.Frame, []byte{transport.ExceptionTargetFailed}) {
		t.Errorf("Expected target failed exception, got %+v", resp)
	}
}

func TestServer_OpenError(t *testing.T) {
	var opened *gxserial.Config
	server := NewServer(config.SerialConfig{Device: "/dev/missing", BaudRate: 4800, Parity: "E"})
	server.open = func(c *gxserial.Config) (io.ReadWriteCloser, error) {
		opened = c
		return nil, errors.New("no such device")
	}
	if err := server.Start(context.Background(), nil); err == nil {
		t.Fatal("Expected open error")
	}
	if opened.Address != "/dev/missing" || opened.BaudRate != 4800 || opened.Parity != "E" {
		t.Errorf("Unexpected serial config: %+v", opened)
	}
	if opened.Timeout != serialTimeout {
		t.Errorf("Expected default timeout %v, got %v", serialTimeout, opened.Timeout)
	}
}
