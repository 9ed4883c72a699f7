// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package ws

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ffutop/optolink-gateway/internal/config"
	"github.com/ffutop/optolink-gateway/optolink/frame"
	"github.com/gorilla/websocket"
)

const wsTimeout = 10 * time.Second

// Client implements transport.Link over a WebSocket serial bridge.
// Every request is sent as one binary message.
type Client struct {
	URL      string
	Username string
	Password string
	Insecure bool
	Timeout  time.Duration

	mu     sync.Mutex
	stream *stream
}

func NewClient(cfg config.WsConfig) *Client {
	c := &Client{
		URL:      cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
		Insecure: cfg.Insecure,
		Timeout:  cfg.Timeout,
	}
	if c.Timeout <= 0 {
		c.Timeout = wsTimeout
	}
	return c
}

// Connect opens the WebSocket unless it is already open.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connect(ctx)
}

// Close closes the WebSocket.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

// Exchange writes request and reads exactly responseLength bytes back.
func (c *Client) Exchange(ctx context.Context, request []byte, responseLength int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.stream.conn.SetWriteDeadline(deadline)
	c.stream.conn.SetReadDeadline(deadline)

	if n := c.stream.discard(); n > 0 {
		slog.Warn("discarding unexpected bytes from websocket bridge", "url", c.URL, "count", n)
	}

	slog.Debug("send to websocket bridge", "url", c.URL, "request", hex.EncodeToString(request))
	if _, err := c.stream.Write(request); err != nil {
		c.close()
		return nil, fmt.Errorf("failed to write message: %w", err)
	}

	data, err := frame.ReadResponse(c.stream, responseLength)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	slog.Debug("recv from websocket bridge", "url", c.URL, "response", hex.EncodeToString(data))
	return data, nil
}

// connect dials the bridge. Caller must hold the mutex.
func (c *Client) connect(ctx context.Context) error {
	if c.stream != nil {
		return nil
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.Timeout,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: c.Insecure,
		}
	}

	headers := http.Header{}
	if c.Username != "" && c.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	conn, resp, err := dialer.DialContext(ctx, c.URL, headers)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket connection failed: %w", err)
	}
	c.stream = &stream{conn: conn}
	return nil
}

// close drops the connection. Caller must hold the mutex.
func (c *Client) close() error {
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}
