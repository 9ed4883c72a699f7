// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package tcp

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/ffutop/optolink-gateway/transport"
)

// Server accepts gateway clients over TCP.
type Server struct {
	Address string
	Handler transport.RequestHandler

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
}

// NewServer creates a new TCP Server.
func NewServer(address string) *Server {
	return &Server{
		Address: address,
	}
}

// Start starts the TCP server.
func (s *Server) Start(ctx context.Context, handler transport.RequestHandler) error {
	s.Handler = handler
	listener, err := net.Listen("tcp", s.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Address, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.conns = make(map[net.Conn]struct{})
	s.mu.Unlock()
	slog.Info("Optolink TCP gateway listening", "addr", listener.Addr())

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("Failed to accept connection", "err", err)
			continue
		}
		if !s.track(conn) {
			conn.Close()
			return nil
		}
		go s.handleConnection(ctx, conn)
	}
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close closes the listener and every client connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = nil
	return err
}

// track registers conn for Close. It reports false once the server is closed.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.untrack(conn)
	defer conn.Close()
	slog.Info("New TCP client connected", "addr", conn.RemoteAddr())

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, err := ReadRequest(conn)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			if errors.Is(err, io.EOF) {
				slog.Info("TCP client disconnected gracefully", "addr", conn.RemoteAddr())
			} else {
				slog.Error("Failed to read request", "addr", conn.RemoteAddr(), "err", err)
			}
			return
		}
		slog.Debug("recv from tcp client", "addr", conn.RemoteAddr(), "function", req.Function, "frame", hex.EncodeToString(req.Frame))

		if s.Handler == nil {
			slog.Error("No handler defined for TCP server")
			return
		}

		resp, err := s.Handler(ctx, req)
		if err != nil {
			slog.Error("Handler failed", "err", err)
			resp = transport.Exception(req.Function, transport.ExceptionTargetFailed)
		}

		raw, err := EncodeResponse(resp)
		if err != nil {
			slog.Error("Failed to encode TCP response", "err", err)
			raw, _ = EncodeResponse(transport.Exception(req.Function, transport.ExceptionTargetFailed))
		}

		if _, err := conn.Write(raw); err != nil {
			slog.Error("Failed to write response to connection", "err", err)
			return
		}
	}
}
