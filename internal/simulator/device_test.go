// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package simulator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ffutop/optolink-gateway/internal/simulator/model"
	"github.com/ffutop/optolink-gateway/optolink"
)

type countingStorage struct {
	writes int
}

func (c *countingStorage) Load() (*model.Memory, error)       { return model.NewMemory(), nil }
func (c *countingStorage) Save(m *model.Memory) error         { return nil }
func (c *countingStorage) OnWrite(address uint16, length int) { c.writes++ }

func TestDevice_ReadWrite(t *testing.T) {
	storage := &countingStorage{}
	d := NewDevice(model.NewMemory(), storage)

	// Write 1 byte to B000
	resp, err := d.Process([]byte{0xB0, 0x00, 0x01, 0x02})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !bytes.Equal(resp, []byte{0xB0, 0x00, 0x01}) {
		t.Errorf("write response mismatch: %X", resp)
	}
	if storage.writes != 1 {
		t.Errorf("expected 1 OnWrite, got %d", storage.writes)
	}

	// Read it back
	resp, err = d.Process([]byte{0xB0, 0x00, 0x01})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(resp, []byte{0xB0, 0x00, 0x01, 0x02}) {
		t.Errorf("read response mismatch: %X", resp)
	}
}

func TestDevice_Errors(t *testing.T) {
	d := NewDevice(model.NewMemory(), nil)

	tests := []struct {
		name    string
		request []byte
		wantErr error
	}{
		{"Short", []byte{0x01, 0x01}, ErrMalformedRequest},
		{"ValueTooShort", []byte{0xB0, 0x00, 0x02, 0x01}, ErrMalformedRequest},
		{"ValueTooLong", []byte{0xB0, 0x00, 0x01, 0x01, 0x02}, ErrMalformedRequest},
		{"ReadPastEnd", []byte{0xFF, 0xFF, 0x02}, ErrAddressRange},
		{"WritePastEnd", []byte{0xFF, 0xFF, 0x02, 0x01, 0x02}, ErrAddressRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Process(tt.request); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	r, err := optolink.NewRegistry(optolink.Catalog{
		Model: "test",
		Entries: []optolink.Entry{
			{Name: "Aussentemperatur", Address: "0101", Length: 2},
			{Name: "Energiebilanz", Address: "B800", Length: 4, AccessMode: "call"},
			{Name: "Edge", Address: "FFFF", Length: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	m := model.NewMemory()
	if n := Seed(m, r); n != 2 {
		t.Errorf("expected 2 seeded commands, got %d", n)
	}
	got, _ := m.Read(0x0101, 2)
	if !bytes.Equal(got, []byte{0x01, 0x02}) {
		t.Errorf("seed pattern mismatch: %X", got)
	}
	got, _ = m.Read(0xB800, 4)
	if !bytes.Equal(got, []byte{0x00, 0x01, 0x02, 0x03}) {
		t.Errorf("seed pattern mismatch: %X", got)
	}
}
