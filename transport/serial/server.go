// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package serial

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ffutop/optolink-gateway/internal/config"
	"github.com/ffutop/optolink-gateway/transport"
	"github.com/ffutop/optolink-gateway/transport/tcp"
	gxserial "github.com/grid-x/serial"
)

// Server answers gateway requests arriving on a serial line (Upstream).
// The line carries the same fc-prefixed messages as the TCP gateway.
type Server struct {
	Config config.SerialConfig

	open func(*gxserial.Config) (io.ReadWriteCloser, error)

	mu  sync.Mutex
	rwc io.ReadWriteCloser
}

// NewServer creates a new serial Server.
func NewServer(cfg config.SerialConfig) *Server {
	return &Server{
		Config: cfg,
		open: func(c *gxserial.Config) (io.ReadWriteCloser, error) {
			return gxserial.Open(c)
		},
	}
}

// Start opens the serial line and serves requests until ctx is done.
func (s *Server) Start(ctx context.Context, handler transport.RequestHandler) error {
	timeout := s.Config.Timeout
	if timeout <= 0 {
		timeout = serialTimeout
	}
	rwc, err := s.open(&gxserial.Config{
		Address:  s.Config.Device,
		BaudRate: s.Config.BaudRate,
		DataBits: s.Config.DataBits,
		StopBits: s.Config.StopBits,
		Parity:   s.Config.Parity,
		Timeout:  timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.Config.Device, err)
	}
	s.mu.Lock()
	s.rwc = rwc
	s.mu.Unlock()
	defer s.Close()
	slog.Info("Optolink serial gateway listening", "device", s.Config.Device)

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	return s.serve(ctx, rwc, handler)
}

// serve handles one request at a time; the line is half duplex.
func (s *Server) serve(ctx context.Context, rwc io.ReadWriter, handler transport.RequestHandler) error {
	for {
		req, err := tcp.ReadRequest(rwc)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.ErrClosedPipe) || s.closed() {
				return nil
			}
			// Read timeout or a torn frame: drop it and wait for the next one.
			slog.Debug("discarding serial request", "device", s.Config.Device, "err", err)
			continue
		}
		slog.Debug("recv from serial line", "device", s.Config.Device, "function", req.Function, "frame", hex.EncodeToString(req.Frame))

		resp, err := handler(ctx, req)
		if err != nil {
			slog.Error("Handler failed", "err", err)
			resp = transport.Exception(req.Function, transport.ExceptionTargetFailed)
		}
		raw, err := tcp.EncodeResponse(resp)
		if err != nil {
			slog.Error("Failed to encode serial response", "err", err)
			raw, _ = tcp.EncodeResponse(transport.Exception(req.Function, transport.ExceptionTargetFailed))
		}
		if _, err := rwc.Write(raw); err != nil {
			if ctx.Err() != nil || s.closed() {
				return nil
			}
			return fmt.Errorf("failed to write to %s: %w", s.Config.Device, err)
		}
	}
}

func (s *Server) closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rwc == nil
}

// Close closes the serial line.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rwc == nil {
		return nil
	}
	err := s.rwc.Close()
	s.rwc = nil
	return err
}
