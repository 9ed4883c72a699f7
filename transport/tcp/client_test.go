// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.
package tcp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/ffutop/optolink-gateway/optolink/frame"
)

func TestClient_Exchange(t *testing.T) {
	// 1. Setup mock bridge answering every 3 byte read request
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 3)
				for {
					if _, err := io.ReadFull(c, buf); err != nil {
						return
					}
					resp := append([]byte(nil), buf...)
					resp = append(resp, bytes.Repeat([]byte{0xAA}, int(buf[2]))...)
					c.Write(resp)
				}
			}(conn)
		}
	}()

	// 2. Setup Client
	client := NewClient(listener.Addr().String())
	client.Timeout = 1 * time.Second
	defer client.Close()

	// 3. Two exchanges share one connection
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		resp, err := client.Exchange(ctx, []byte{0x01, 0x01, 0x02}, 5)
		if err != nil {
			t.Fatalf("Exchange %d failed: %v", i, err)
		}
		if !bytes.Equal(resp, []byte{0x01, 0x01, 0x02, 0xAA, 0xAA}) {
			t.Errorf("Response mismatch: %X", resp)
		}
	}
}

func TestClient_Timeout(t *testing.T) {
	// 1. Setup Hanging Server
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()

	go func() {
		conn, _ := listener.Accept()
		if conn != nil {
			// Read but never write back
			buf := make([]byte, 10)
			conn.Read(buf)
			time.Sleep(2 * time.Second) // Wait longer than client timeout
			conn.Close()
		}
	}()

	client := NewClient(listener.Addr().String())
	client.Timeout = 200 * time.Millisecond // Short timeout
	defer client.Close()

	_, err = client.Exchange(context.Background(), []byte{0x01, 0x01, 0x02}, 5)
	if err == nil {
		t.Error("Expected timeout error, got nil")
	}
	if client.conn != nil {
		t.Error("Expected connection to be reset after timeout")
	}
}

func TestClient_TruncatedResponse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()

	go func() {
		conn, _ := listener.Accept()
		if conn != nil {
			buf := make([]byte, 3)
			io.ReadFull(conn, buf)
			conn.Write([]byte{0x01, 0x01}) // Too short
			conn.Close()
		}
	}()

	client := NewClient(listener.Addr().String())
	client.Timeout = 1 * time.Second
	defer client.Close()

	_, err = client.Exchange(context.Background(), []byte{0x01, 0x01, 0x02}, 5)
	if !errors.Is(err, frame.ErrTruncatedFrame) {
		t.Errorf("Expected ErrTruncatedFrame, got %v", err)
	}
}

func TestClient_ConnectRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := listener.Addr().String()
	listener.Close()

	client := NewClient(addr)
	client.Timeout = 200 * time.Millisecond
	if _, err := client.Exchange(context.Background(), []byte{0x01, 0x01, 0x02}, 5); err == nil {
		t.Error("Expected connect error, got nil")
	}
}
