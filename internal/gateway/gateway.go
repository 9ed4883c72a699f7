// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package gateway

import (
	"context"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/ffutop/optolink-gateway/optolink"
	"github.com/ffutop/optolink-gateway/optolink/frame"
	"github.com/ffutop/optolink-gateway/transport"
)

const (
	defaultRequestTimeout = 5 * time.Second
	queueSize             = 100
)

type queuedRequest struct {
	ctx            context.Context
	frame          []byte
	responseLength int
	response       chan<- queuedResponse
}

type queuedResponse struct {
	frame []byte
	err   error
}

// Gateway exposes a single controller link to many upstream clients.
// Requests are checked against the registry and executed one at a time.
type Gateway struct {
	Name           string
	Upstreams      []transport.Upstream
	Link           transport.Link
	Registry       *optolink.Registry
	RequestTimeout time.Duration

	requestChan chan *queuedRequest
}

// NewGateway creates a new Gateway instance
func NewGateway(name string, upstreams []transport.Upstream, link transport.Link, registry *optolink.Registry) *Gateway {
	return &Gateway{
		Name:           name,
		Upstreams:      upstreams,
		Link:           link,
		Registry:       registry,
		RequestTimeout: defaultRequestTimeout,
		requestChan:    make(chan *queuedRequest, queueSize),
	}
}

// Start starts all upstream servers and the link worker. It blocks until ctx is done.
func (g *Gateway) Start(ctx context.Context) error {
	if err := g.Link.Connect(ctx); err != nil {
		// The link reconnects on the next exchange.
		slog.Error("Failed to connect link", "gateway", g.Name, "err", err)
	}

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		g.linkWorker(ctx)
	}()

	var wg sync.WaitGroup
	for i, us := range g.Upstreams {
		wg.Add(1)
		go func(ups transport.Upstream, idx int) {
			defer wg.Done()
			slog.Info("Starting upstream", "gateway", g.Name, "index", idx)
			if err := ups.Start(ctx, g.handleRequest); err != nil {
				slog.Error("Upstream stopped with error", "gateway", g.Name, "index", idx, "err", err)
			}
		}(us, i)
	}

	<-ctx.Done()

	// Graceful shutdown
	for _, us := range g.Upstreams {
		us.Close()
	}
	wg.Wait()
	<-workerDone
	g.Link.Close()
	return nil
}

// handleRequest validates an upstream request and queues it for the link.
func (g *Gateway) handleRequest(ctx context.Context, req transport.Request) (transport.Response, error) {
	var mode optolink.AccessMode
	switch req.Function {
	case transport.FuncRead:
		mode = optolink.ModeRead
	case transport.FuncWrite:
		mode = optolink.ModeWrite
	case transport.FuncCall:
		mode = optolink.ModeCall
	default:
		return transport.Exception(req.Function, transport.ExceptionIllegalFunction), nil
	}

	h, err := frame.ParseHeader(req.Frame)
	if err != nil {
		return transport.Exception(req.Function, transport.ExceptionIllegalValueLength), nil
	}
	def, err := g.Registry.ResolveByAddress(req.Frame)
	if err != nil {
		slog.Warn("Rejecting request for unknown address", "gateway", g.Name, "address", h.Address)
		return transport.Exception(req.Function, transport.ExceptionUnresolvedAddress), nil
	}

	switch {
	case mode == optolink.ModeWrite && def.AccessMode() != optolink.ModeWrite:
		slog.Warn("Rejecting write to read-only command", "gateway", g.Name, "command", def.Name)
		return transport.Exception(req.Function, transport.ExceptionIllegalFunction), nil
	case mode == optolink.ModeCall && def.AccessMode() != optolink.ModeCall:
		slog.Warn("Rejecting call of non-function command", "gateway", g.Name, "command", def.Name)
		return transport.Exception(req.Function, transport.ExceptionIllegalFunction), nil
	}

	if int(h.Length) != def.Length {
		return transport.Exception(req.Function, transport.ExceptionIllegalValueLength), nil
	}
	want := frame.HeaderSize
	if mode == optolink.ModeWrite {
		want += def.Length
	}
	if len(req.Frame) != want {
		return transport.Exception(req.Function, transport.ExceptionIllegalValueLength), nil
	}

	timeout := g.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout) // Safety timeout
	defer cancel()

	responseChan := make(chan queuedResponse, 1)
	select {
	case g.requestChan <- &queuedRequest{ctx: ctx, frame: req.Frame, responseLength: frame.ResponseLength(def, mode), response: responseChan}:
	case <-ctx.Done():
		return transport.Exception(req.Function, transport.ExceptionTargetFailed), nil
	}

	var result queuedResponse
	select {
	case result = <-responseChan:
	case <-ctx.Done():
		result.err = ctx.Err()
	}
	if result.err != nil {
		slog.Error("Link request failed, preparing exception response", "gateway", g.Name, "command", def.Name, "err", result.err)
		return transport.Exception(req.Function, transport.ExceptionTargetFailed), nil
	}
	return transport.Response{Function: req.Function, Frame: result.frame}, nil
}

// linkWorker processes queued requests serially until ctx is done.
func (g *Gateway) linkWorker(ctx context.Context) {
	slog.Debug("Link worker started", "gateway", g.Name)
	defer slog.Debug("Link worker stopped", "gateway", g.Name)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-g.requestChan:
			if err := req.ctx.Err(); err != nil {
				req.response <- queuedResponse{err: err}
				continue
			}
			resp, err := g.Link.Exchange(req.ctx, req.frame, req.responseLength)
			if err == nil {
				slog.Debug("Link response received", "gateway", g.Name, "response", hex.EncodeToString(resp))
			}
			req.response <- queuedResponse{frame: resp, err: err}
		}
	}
}
