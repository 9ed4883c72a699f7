// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package tcp

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/ffutop/optolink-gateway/optolink/frame"
)

const (
	tcpTimeout = 10 * time.Second
)

// Client implements transport.Link over a raw TCP serial bridge (ser2net
// or a network attached optical adapter). Frames pass through unchanged.
type Client struct {
	Address string
	Timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	dialer net.Dialer
}

// NewClient allocates and initializes a TCP Client.
func NewClient(address string) *Client {
	return &Client{
		Address: address,
		Timeout: tcpTimeout,
	}
}

// Exchange writes request and reads exactly responseLength bytes back.
func (c *Client) Exchange(ctx context.Context, request []byte, responseLength int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Ensure connection is open
	if err := c.connect(ctx); err != nil {
		return nil, fmt.Errorf("optolink: failed to connect to %s: %w", c.Address, err)
	}

	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.close()
		return nil, err
	}

	slog.Debug("send to tcp bridge", "addr", c.Address, "request", hex.EncodeToString(request))
	if _, err := c.conn.Write(request); err != nil {
		c.close() // Close connection on write failure to force reconnect next time
		return nil, fmt.Errorf("failed to write to connection: %w", err)
	}

	data, err := frame.ReadResponse(c.conn, responseLength)
	if err != nil {
		// The stream is out of step once a read fails.
		c.close()
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	slog.Debug("recv from tcp bridge", "addr", c.Address, "response", hex.EncodeToString(data))
	return data, nil
}

// Connect dials the bridge unless a connection is already open.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connect(ctx)
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
	return nil
}

// connect ensures there is an active connection. Caller must hold the mutex.
func (c *Client) connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	c.dialer.Timeout = c.Timeout
	conn, err := c.dialer.DialContext(ctx, "tcp", c.Address)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

// close closes the connection and resets the state. Caller must hold the mutex.
func (c *Client) close() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
