// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package simulator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ffutop/optolink-gateway/internal/simulator/model"
	"github.com/ffutop/optolink-gateway/internal/simulator/persistence"
	"github.com/ffutop/optolink-gateway/optolink"
	"github.com/ffutop/optolink-gateway/optolink/frame"
)

var (
	ErrMalformedRequest = errors.New("simulator: malformed request")
	ErrAddressRange     = model.ErrAddressRange
)

// Device answers request frames the way the controller does, on top of a Memory.
// A bare header is a read. A header followed by exactly length value bytes is a write.
type Device struct {
	mu      sync.Mutex
	memory  *model.Memory
	storage persistence.Storage
}

// NewDevice creates a new Device. storage may be nil.
func NewDevice(m *model.Memory, storage persistence.Storage) *Device {
	if storage == nil {
		storage = persistence.NewMemoryStorage()
	}
	return &Device{memory: m, storage: storage}
}

// Memory returns the backing memory.
func (d *Device) Memory() *model.Memory {
	return d.memory
}

// Process executes one request frame against the memory.
func (d *Device) Process(request []byte) ([]byte, error) {
	h, err := frame.ParseHeader(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	length := int(h.Length)
	addr := uint16(h.Address)

	switch len(request) {
	case frame.HeaderSize:
		return d.handleRead(request, addr, length)
	case frame.HeaderSize + length:
		return d.handleWrite(request, addr, length)
	default:
		return nil, fmt.Errorf("%w: %d bytes for value length %d", ErrMalformedRequest, len(request), length)
	}
}

func (d *Device) handleRead(request []byte, addr uint16, length int) ([]byte, error) {
	value, err := d.memory.Read(addr, length)
	if err != nil {
		return nil, err
	}
	resp := make([]byte, 0, frame.HeaderSize+length)
	resp = append(resp, request[:frame.HeaderSize]...)
	return append(resp, value...), nil
}

func (d *Device) handleWrite(request []byte, addr uint16, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.memory.Write(addr, request[frame.HeaderSize:]); err != nil {
		return nil, err
	}
	d.storage.OnWrite(addr, length)

	// Echo header
	return append([]byte(nil), request[:frame.HeaderSize]...), nil
}

// Seed fills the value of every command in r with a recognizable pattern:
// each byte holds the low byte of its own address, so overlapping commands
// agree. Commands running past the end of the address space are skipped.
func Seed(m *model.Memory, r *optolink.Registry) int {
	seeded := 0
	for _, def := range r.Definitions() {
		value := make([]byte, def.Length)
		for i := range value {
			value[i] = byte(def.Address) + byte(i)
		}
		if err := m.Write(uint16(def.Address), value); err != nil {
			continue
		}
		seeded++
	}
	return seeded
}
