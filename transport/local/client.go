// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ffutop/optolink-gateway/internal/config"
	"github.com/ffutop/optolink-gateway/internal/simulator"
	"github.com/ffutop/optolink-gateway/internal/simulator/persistence"
	"github.com/ffutop/optolink-gateway/optolink"
)

// Client implements transport.Link for the in-process device simulator.
type Client struct {
	device  *simulator.Device
	storage persistence.Storage
}

// NewClient creates a new Local Client. When cfg.Seed is set and registry is
// not nil, every command of the registry gets a pattern value.
func NewClient(cfg config.LocalConfig, registry *optolink.Registry) *Client {
	var storage persistence.Storage
	switch cfg.Persistence.Type {
	case "file":
		slog.Info("Initializing simulator with file persistence", "path", cfg.Persistence.Path)
		storage = persistence.NewFileStorage(cfg.Persistence.Path)
	case "mmap":
		slog.Info("Initializing simulator with MMAP persistence", "path", cfg.Persistence.Path)
		storage = persistence.NewMmapStorage(cfg.Persistence.Path)
	default:
		slog.Info("Initializing simulator with memory storage (non-persistent)")
		storage = persistence.NewMemoryStorage()
	}

	m, err := storage.Load()
	if err != nil {
		slog.Error("Failed to load persistence data, falling back to MemoryStorage", "err", err)
		storage = persistence.NewMemoryStorage()
		m, _ = storage.Load()
	}

	if cfg.Seed && registry != nil {
		n := simulator.Seed(m, registry)
		if err := storage.Save(m); err != nil {
			slog.Error("Failed to save seeded memory", "err", err)
		}
		slog.Info("Seeded simulator memory", "model", registry.Model(), "commands", n)
	}

	return &Client{
		device:  simulator.NewDevice(m, storage),
		storage: storage,
	}
}

// Exchange processes the request locally.
func (c *Client) Exchange(ctx context.Context, request []byte, responseLength int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.device.Process(request)
	if err != nil {
		return nil, err
	}
	if len(resp) != responseLength {
		return nil, fmt.Errorf("simulator answered %d bytes, expected %d", len(resp), responseLength)
	}
	return resp, nil
}

// Connect is a no-op for the simulator.
func (c *Client) Connect(ctx context.Context) error {
	return nil
}

// Close closes the storage.
func (c *Client) Close() error {
	if closer, ok := c.storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
