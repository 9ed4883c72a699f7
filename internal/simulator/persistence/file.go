// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ffutop/optolink-gateway/internal/simulator/model"
)

// FileStorage implements persistence using file operations.
// The file is 65536 bytes, one per data point address.
type FileStorage struct {
	path string
	file *os.File
	data []byte
}

// NewFileStorage creates a new FileStorage.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{
		path: path,
	}
}

// Load reads the memory image from file.
func (fs *FileStorage) Load() (*model.Memory, error) {
	f, err := openImage(fs.path)
	if err != nil {
		return nil, err
	}
	fs.file = f

	data, err := io.ReadAll(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) < totalSize {
		f.Close()
		return nil, fmt.Errorf("short memory image: %d bytes", len(data))
	}
	fs.data = data

	return mapBytesToModel(data), nil
}

// Save writes the whole image and flushes it to disk.
func (fs *FileStorage) Save(m *model.Memory) error {
	if fs.data == nil || fs.file == nil {
		return nil
	}
	if _, err := fs.file.WriteAt(fs.data, 0); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return fs.sync()
}

// OnWrite writes the modified range back and syncs.
func (fs *FileStorage) OnWrite(address uint16, length int) {
	if fs.data == nil || fs.file == nil {
		return
	}
	start, end, ok := dirty(address, length)
	if !ok {
		return
	}
	if _, err := fs.file.WriteAt(fs.data[start:end], int64(start)); err != nil {
		slog.Error("Failed to write file", "err", err)
		return
	}
	if err := fs.sync(); err != nil {
		slog.Error("Failed to sync file", "err", err)
	}
}

func (fs *FileStorage) sync() error {
	if err := fs.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file to disk: %w", err)
	}
	return nil
}

// Close the file.
func (fs *FileStorage) Close() error {
	if fs.file == nil {
		return nil
	}
	err := fs.file.Close()
	fs.file = nil
	return err
}
