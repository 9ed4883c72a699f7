// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/ffutop/optolink-gateway/internal/simulator/model"
)

// MmapStorage maps the simulator image into memory. Device writes land in
// the mapping itself; OnWrite only pushes them to disk.
type MmapStorage struct {
	path  string
	file  *os.File
	image mmap.MMap
}

// NewMmapStorage creates a new MmapStorage.
func NewMmapStorage(path string) *MmapStorage {
	return &MmapStorage{path: path}
}

// Load maps the image at path, creating a zeroed one if needed.
func (ms *MmapStorage) Load() (*model.Memory, error) {
	if ms.image != nil {
		return mapBytesToModel(ms.image), nil
	}
	f, err := openImage(ms.path)
	if err != nil {
		return nil, err
	}
	image, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map simulator image %s: %w", ms.path, err)
	}
	ms.file = f
	ms.image = image
	slog.Debug("mapped simulator image", "path", ms.path, "size", len(image))
	return mapBytesToModel(image), nil
}

// Save flushes the mapping to disk. m shares the mapping and is not copied.
func (ms *MmapStorage) Save(m *model.Memory) error {
	if ms.image == nil {
		return errors.New("simulator image not mapped")
	}
	return ms.image.Flush()
}

// OnWrite flushes the mapping after a device write.
func (ms *MmapStorage) OnWrite(address uint16, length int) {
	if ms.image == nil {
		return
	}
	if _, _, ok := dirty(address, length); !ok {
		return
	}
	if err := ms.image.Flush(); err != nil {
		slog.Error("Failed to flush simulator image", "path", ms.path, "address", fmt.Sprintf("%04X", address), "err", err)
	}
}

// Close unmaps the image and closes the file.
func (ms *MmapStorage) Close() error {
	var errs []error
	if ms.image != nil {
		errs = append(errs, ms.image.Unmap())
		ms.image = nil
	}
	if ms.file != nil {
		errs = append(errs, ms.file.Close())
		ms.file = nil
	}
	return errors.Join(errs...)
}
