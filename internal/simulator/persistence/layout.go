// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"errors"
	"fmt"
	"os"

	"github.com/ffutop/optolink-gateway/internal/simulator/model"
)

// On disk the memory is stored as is: byte N of the file is address N.
const totalSize = model.Size

// ErrImageSize is returned when an existing file is not a memory image.
var ErrImageSize = errors.New("simulator image has wrong size")

// openImage opens the image at path. A missing or empty file becomes a
// zeroed image; any other size is refused rather than truncated.
func openImage(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open simulator image: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	switch fi.Size() {
	case int64(totalSize):
	case 0:
		if err := f.Truncate(int64(totalSize)); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create simulator image: %w", err)
		}
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", ErrImageSize, path, fi.Size(), totalSize)
	}
	return f, nil
}

// mapBytesToModel constructs a Memory backed by the provided data slice.
func mapBytesToModel(data []byte) *model.Memory {
	return &model.Memory{Data: data[:totalSize]}
}

// dirty clamps a written range to the image.
func dirty(address uint16, length int) (start, end int, ok bool) {
	start = int(address)
	end = start + length
	if length <= 0 {
		return 0, 0, false
	}
	if end > totalSize {
		end = totalSize
	}
	return start, end, true
}
