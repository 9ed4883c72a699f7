// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.
package model

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemory_ReadWrite(t *testing.T) {
	m := NewMemory()
	if err := m.Write(0x0101, []byte{0xC8, 0x00}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := m.Read(0x0101, 2)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0xC8, 0x00}) {
		t.Errorf("Read mismatch: %X", got)
	}

	// Returned slice is a copy
	got[0] = 0xFF
	again, _ := m.Read(0x0101, 1)
	if again[0] != 0xC8 {
		t.Error("Read must not alias memory")
	}
}

func TestMemory_Bounds(t *testing.T) {
	m := NewMemory()
	if _, err := m.Read(0xFFFF, 1); err != nil {
		t.Errorf("Last byte should be readable: %v", err)
	}
	if _, err := m.Read(0xFFFF, 2); !errors.Is(err, ErrAddressRange) {
		t.Errorf("Expected ErrAddressRange, got %v", err)
	}
	if err := m.Write(0xFFFE, []byte{1, 2, 3}); !errors.Is(err, ErrAddressRange) {
		t.Errorf("Expected ErrAddressRange, got %v", err)
	}
}
