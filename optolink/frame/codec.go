// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ffutop/optolink-gateway/optolink"
)

const (
	// HeaderSize is address (2 bytes) + value length (1 byte).
	HeaderSize = 3

	MaxValueLength = 255
)

var (
	ErrTruncatedFrame = errors.New("optolink: truncated frame")
	ErrInvalidLength  = errors.New("optolink: invalid value length")
)

type InvalidLengthError struct {
	Command string
	Length  int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("optolink: invalid value length %d for %q (must be 0..%d)", e.Length, e.Command, MaxValueLength)
}

func (e *InvalidLengthError) Is(target error) bool {
	return target == ErrInvalidLength
}

// Resolver maps a received address back to its command.
type Resolver interface {
	ResolveByAddress(b []byte) (optolink.Definition, error)
}

// Header is the fixed part of every frame.
type Header struct {
	Address optolink.Address
	Length  byte
}

// ParseHeader reads the header from the first HeaderSize bytes of raw.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, need %d", ErrTruncatedFrame, len(raw), HeaderSize)
	}
	return Header{
		Address: optolink.AddressFromBytes(raw),
		Length:  raw[2],
	}, nil
}

// EncodeRequest encodes a request frame:
//
//	Address : 2 bytes, big endian
//	Length  : 1 byte
//
// The value of a write is never part of the request; the session appends it.
func EncodeRequest(def optolink.Definition) ([]byte, error) {
	if def.Length < 0 || def.Length > MaxValueLength {
		return nil, &InvalidLengthError{Command: def.Name, Length: def.Length}
	}
	raw := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(raw, uint16(def.Address))
	raw[2] = byte(def.Length)
	return raw, nil
}

// ResponseLength returns the number of bytes a complete response holds when
// def is executed in the given mode.
func ResponseLength(def optolink.Definition, mode optolink.AccessMode) int {
	switch optolink.AccessMode(strings.ToLower(string(mode))) {
	case optolink.ModeRead:
		return HeaderSize + def.Length
	case optolink.ModeWrite:
		// written values are not echoed
		return HeaderSize
	case optolink.ModeCall:
		// Not characterized against device captures; assumed to echo a flat
		// block like a read.
		return HeaderSize + def.Length
	default:
		return HeaderSize + def.Length
	}
}

// DecodeResponseHeader identifies the command a response belongs to and
// returns everything after the header as the payload.
func DecodeResponseHeader(r Resolver, raw []byte) (optolink.Definition, []byte, error) {
	if len(raw) < HeaderSize {
		return optolink.Definition{}, nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTruncatedFrame, len(raw), HeaderSize)
	}
	def, err := r.ResolveByAddress(raw[:2])
	if err != nil {
		return optolink.Definition{}, nil, err
	}
	return def, raw[HeaderSize:], nil
}

// ReadResponse reads exactly length bytes from r. A peer that stops early
// yields ErrTruncatedFrame.
func ReadResponse(r io.Reader, length int) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("reader is nil")
	}
	data := make([]byte, length)
	n, err := io.ReadFull(r, data)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read %d of %d bytes", ErrTruncatedFrame, n, length)
		}
		return nil, err
	}
	return data, nil
}
