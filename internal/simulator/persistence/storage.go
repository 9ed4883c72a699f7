// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"github.com/ffutop/optolink-gateway/internal/simulator/model"
)

// Storage keeps the simulator memory across restarts.
type Storage interface {
	// Load returns the memory image, zeroed when nothing was stored yet.
	Load() (*model.Memory, error)

	// Save stores the whole image.
	Save(m *model.Memory) error

	// OnWrite is called after the device wrote length bytes at address.
	OnWrite(address uint16, length int)
}
