// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package transport

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ffutop/optolink-gateway/optolink"
	"github.com/ffutop/optolink-gateway/optolink/frame"
)

var (
	ErrNotWritable      = errors.New("optolink: command is not writable")
	ErrNotCallable      = errors.New("optolink: command is not a function call")
	ErrValueLength      = errors.New("optolink: value length does not match command")
	ErrResponseMismatch = errors.New("optolink: response does not match request")
)

// Result is the outcome of a read or call: the command and its raw value.
// Converting the value by Definition.Unit is left to the caller.
type Result struct {
	Definition optolink.Definition
	Payload    []byte
}

// Client executes named commands over a Link.
type Client struct {
	link     Link
	registry *optolink.Registry
}

func NewClient(link Link, registry *optolink.Registry) *Client {
	return &Client{
		link:     link,
		registry: registry,
	}
}

// Registry returns the catalog the client resolves names against.
func (c *Client) Registry() *optolink.Registry {
	return c.registry
}

func (c *Client) Connect(ctx context.Context) error {
	return c.link.Connect(ctx)
}

func (c *Client) Close() error {
	return c.link.Close()
}

// Read reads the current value of a command.
func (c *Client) Read(ctx context.Context, name string) (Result, error) {
	def, err := c.registry.ResolveByName(name)
	if err != nil {
		return Result{}, err
	}
	return c.execute(ctx, def, optolink.ModeRead, nil)
}

// Call executes a function-call command.
func (c *Client) Call(ctx context.Context, name string) (Result, error) {
	def, err := c.registry.ResolveByName(name)
	if err != nil {
		return Result{}, err
	}
	if def.AccessMode() != optolink.ModeCall {
		return Result{}, fmt.Errorf("%w: %s is %s", ErrNotCallable, def.Name, def.AccessMode())
	}
	return c.execute(ctx, def, optolink.ModeCall, nil)
}

// Write writes a raw value. value must hold exactly Definition.Length bytes.
// Bounds are not checked here; callers holding a physical value run
// Definition.CheckValue before scaling it to raw bytes.
func (c *Client) Write(ctx context.Context, name string, value []byte) error {
	def, err := c.registry.ResolveByName(name)
	if err != nil {
		return err
	}
	if def.AccessMode() != optolink.ModeWrite {
		return fmt.Errorf("%w: %s is %s", ErrNotWritable, def.Name, def.AccessMode())
	}
	if len(value) != def.Length {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrValueLength, def.Name, def.Length, len(value))
	}
	_, err = c.execute(ctx, def, optolink.ModeWrite, value)
	return err
}

func (c *Client) execute(ctx context.Context, def optolink.Definition, mode optolink.AccessMode, value []byte) (Result, error) {
	request, err := frame.EncodeRequest(def)
	if err != nil {
		return Result{}, err
	}
	request = append(request, value...)
	expected := frame.ResponseLength(def, mode)

	slog.Debug("send to controller", "command", def.Name, "mode", mode, "request", hex.EncodeToString(request))
	response, err := c.link.Exchange(ctx, request, expected)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", mode, def.Name, err)
	}
	slog.Debug("recv from controller", "command", def.Name, "response", hex.EncodeToString(response))

	if err := verify(request, response, expected); err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", mode, def.Name, err)
	}

	got, payload, err := frame.DecodeResponseHeader(c.registry, response)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", mode, def.Name, err)
	}
	if got.Name != def.Name {
		slog.Warn("address shared by several commands in catalog", "address", def.Address, "requested", def.Name, "resolved", got.Name)
	}
	return Result{Definition: def, Payload: payload}, nil
}

// verify checks the response echoes the request header and has the expected size.
func verify(request, response []byte, expected int) error {
	if len(response) != expected {
		return fmt.Errorf("%w: length %d, want %d", ErrResponseMismatch, len(response), expected)
	}
	req, err := frame.ParseHeader(request)
	if err != nil {
		return err
	}
	resp, err := frame.ParseHeader(response)
	if err != nil {
		return err
	}
	if req.Address != resp.Address {
		return fmt.Errorf("%w: address %s, want %s", ErrResponseMismatch, resp.Address, req.Address)
	}
	if req.Length != resp.Length {
		return fmt.Errorf("%w: value length %d, want %d", ErrResponseMismatch, resp.Length, req.Length)
	}
	return nil
}
