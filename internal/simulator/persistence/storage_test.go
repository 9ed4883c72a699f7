// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type closer interface {
	Storage
	Close() error
}

func TestStorage_SurvivesReload(t *testing.T) {
	tests := []struct {
		name string
		open func(path string) closer
	}{
		{"file", func(path string) closer { return NewFileStorage(path) }},
		{"mmap", func(path string) closer { return NewMmapStorage(path) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "memory.bin")

			s := tt.open(path)
			m, err := s.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(m.Data) != totalSize {
				t.Fatalf("Expected %d bytes, got %d", totalSize, len(m.Data))
			}
			if err := m.Write(0xB000, []byte{0x02}); err != nil {
				t.Fatal(err)
			}
			s.OnWrite(0xB000, 1)
			if err := s.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			s = tt.open(path)
			defer s.Close()
			m, err = s.Load()
			if err != nil {
				t.Fatalf("Reload failed: %v", err)
			}
			got, _ := m.Read(0xB000, 1)
			if !bytes.Equal(got, []byte{0x02}) {
				t.Errorf("Value lost across reload: %X", got)
			}
		})
	}
}

func TestMemoryStorage_Load(t *testing.T) {
	m, err := NewMemoryStorage().Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Data) != totalSize {
		t.Errorf("Expected %d bytes, got %d", totalSize, len(m.Data))
	}
}

func TestStorage_RefusesForeignImage(t *testing.T) {
	tests := []struct {
		name string
		open func(path string) closer
	}{
		{"file", func(path string) closer { return NewFileStorage(path) }},
		{"mmap", func(path string) closer { return NewMmapStorage(path) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "memory.bin")
			foreign := []byte("not a memory image")
			if err := os.WriteFile(path, foreign, 0644); err != nil {
				t.Fatal(err)
			}

			s := tt.open(path)
			defer s.Close()
			if _, err := s.Load(); !errors.Is(err, ErrImageSize) {
				t.Fatalf("Expected ErrImageSize, got %v", err)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, foreign) {
				t.Errorf("Foreign file was modified: %q", got)
			}
		})
	}
}
