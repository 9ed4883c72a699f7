// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package optolink

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// AccessMode describes how a command is executed on the device.
type AccessMode string

const (
	ModeRead  AccessMode = "read"
	ModeWrite AccessMode = "write"
	ModeCall  AccessMode = "call" // function call, multi-value result
)

// ParseAccessMode parses an access mode from catalog data. An empty string
// means read.
func ParseAccessMode(s string) (AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "read":
		return ModeRead, nil
	case "write":
		return ModeWrite, nil
	case "call":
		return ModeCall, nil
	}
	return "", fmt.Errorf("%w: unknown access mode %q", ErrInvalidCatalog, s)
}

// Address is a 2-byte register address.
type Address uint16

// ParseAddress parses a fixed-width hexadecimal address such as "010d" or
// "0x010D".
func ParseAddress(s string) (Address, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	if len(h) != 4 {
		return 0, fmt.Errorf("%w: address %q must be 4 hex digits", ErrInvalidCatalog, s)
	}
	v, err := strconv.ParseUint(h, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: address %q: %v", ErrInvalidCatalog, s, err)
	}
	return Address(v), nil
}

// AddressFromBytes reads a big-endian address from the first two bytes of b.
// b must hold at least two bytes.
func AddressFromBytes(b []byte) Address {
	return Address(binary.BigEndian.Uint16(b))
}

// Bytes returns the wire form of the address.
func (a Address) Bytes() [2]byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(a))
	return b
}

// String returns the canonical uppercase form, e.g. "010D".
func (a Address) String() string {
	return fmt.Sprintf("%04X", uint16(a))
}

// Entry is one raw row of a device table.
type Entry struct {
	Name        string   `yaml:"name"`
	Address     string   `yaml:"address"`
	Length      int      `yaml:"length"`
	Unit        string   `yaml:"unit"`
	AccessMode  string   `yaml:"access_mode,omitempty"`
	Min         *float64 `yaml:"min_value,omitempty"`
	Max         *float64 `yaml:"max_value,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Catalog is the static command table of one device model.
type Catalog struct {
	Model   string  `yaml:"model"`
	Entries []Entry `yaml:"commands"`
}

type bound struct {
	value float64
	ok    bool
}

func newBound(p *float64) bound {
	if p == nil {
		return bound{}
	}
	return bound{value: *p, ok: true}
}

// Definition is the resolved metadata of a single command.
type Definition struct {
	Name        string
	Address     Address
	Length      int    // value length in bytes
	Unit        string // opaque scaling code, e.g. "IS10"
	Mode        AccessMode
	Description string

	min bound
	max bound
}

// AccessMode returns the access mode, defaulting to read.
func (d Definition) AccessMode() AccessMode {
	if d.Mode == "" {
		return ModeRead
	}
	return d.Mode
}

// MinValue returns the lower bound for written values, if any.
func (d Definition) MinValue() (float64, bool) {
	return d.min.value, d.min.ok
}

// MaxValue returns the upper bound for written values, if any.
func (d Definition) MaxValue() (float64, bool) {
	return d.max.value, d.max.ok
}

// CheckValue reports whether v lies within the command's bounds.
func (d Definition) CheckValue(v float64) error {
	if d.min.ok && v < d.min.value {
		return fmt.Errorf("%w: %s=%v below minimum %v", ErrOutOfRange, d.Name, v, d.min.value)
	}
	if d.max.ok && v > d.max.value {
		return fmt.Errorf("%w: %s=%v above maximum %v", ErrOutOfRange, d.Name, v, d.max.value)
	}
	return nil
}
