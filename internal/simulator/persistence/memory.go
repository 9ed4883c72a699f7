// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import "github.com/ffutop/optolink-gateway/internal/simulator/model"

// MemoryStorage keeps nothing; the image is lost when the simulator stops.
type MemoryStorage struct{}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (*MemoryStorage) Load() (*model.Memory, error) { return model.NewMemory(), nil }

func (*MemoryStorage) Save(*model.Memory) error { return nil }

func (*MemoryStorage) OnWrite(uint16, int) {}
