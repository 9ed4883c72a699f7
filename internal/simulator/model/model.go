// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package model

import (
	"errors"
	"fmt"
	"sync"
)

const (
	MaxAddress = 0xFFFF
	Size       = MaxAddress + 1
)

var ErrAddressRange = errors.New("simulator: address range out of bounds")

// Memory holds the controller data points.
// It uses a simple flat memory model covering the full 16-bit address space.
// Multi-byte values are kept in the byte order they were written.
type Memory struct {
	mu   sync.RWMutex
	Data []byte
}

// NewMemory creates a new memory initialized to zero.
func NewMemory() *Memory {
	return &Memory{Data: make([]byte, Size)}
}

// Read returns a copy of length bytes starting at address.
func (m *Memory) Read(address uint16, length int) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := validateRange(address, length); err != nil {
		return nil, err
	}
	result := make([]byte, length)
	copy(result, m.Data[int(address):])
	return result, nil
}

// Write stores value starting at address.
func (m *Memory) Write(address uint16, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateRange(address, len(value)); err != nil {
		return err
	}
	copy(m.Data[int(address):], value)
	return nil
}

func validateRange(address uint16, length int) error {
	if length < 0 {
		return fmt.Errorf("%w: negative length %d", ErrAddressRange, length)
	}
	if int(address)+length > Size {
		return fmt.Errorf("%w: %04X+%d", ErrAddressRange, address, length)
	}
	return nil
}
