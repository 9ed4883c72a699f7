// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package serial

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/ffutop/optolink-gateway/internal/config"
	"github.com/ffutop/optolink-gateway/optolink/frame"
)

// Client implements transport.Link over the optical serial adapter.
type Client struct {
	port

	// RqstPause is the minimum gap between two requests.
	RqstPause   time.Duration
	lastRequest time.Time
}

// NewClient allocates and initializes a serial Client.
func NewClient(cfg config.SerialConfig) *Client {
	client := &Client{}

	client.port.Config.Address = cfg.Device
	client.port.Config.BaudRate = cfg.BaudRate
	client.port.Config.DataBits = cfg.DataBits
	client.port.Config.StopBits = cfg.StopBits
	client.port.Config.Parity = cfg.Parity
	client.port.Config.Timeout = cfg.Timeout
	if client.port.Config.Timeout <= 0 {
		client.port.Config.Timeout = serialTimeout
	}

	client.IdleTimeout = cfg.IdleTimeout
	if client.IdleTimeout <= 0 {
		client.IdleTimeout = serialIdleTimeout
	}
	client.RqstPause = cfg.RqstPause
	return client
}

// Exchange writes request and reads exactly responseLength bytes back.
func (c *Client) Exchange(ctx context.Context, request []byte, responseLength int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	c.lastActivity = time.Now()
	c.startCloseTimer()

	if wait := time.Until(c.lastRequest.Add(c.RqstPause)); wait > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	defer func() { c.lastRequest = time.Now() }()

	slog.Debug("send to serial port", "device", c.Config.Address, "request", hex.EncodeToString(request))
	if _, err := c.rwc.Write(request); err != nil {
		c.close()
		return nil, fmt.Errorf("failed to write to %s: %w", c.Config.Address, err)
	}

	data, err := frame.ReadResponse(c.rwc, responseLength)
	if err != nil {
		// Drop the port so stale bytes do not shift the next response.
		c.close()
		return nil, fmt.Errorf("failed to read from %s: %w", c.Config.Address, err)
	}
	slog.Debug("recv from serial port", "device", c.Config.Address, "response", hex.EncodeToString(data))
	return data, nil
}
