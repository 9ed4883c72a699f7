// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package capture

import "time"

// Event is one captured frame. CBOR encoding uses integer keys for compactness.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the recorder instance (UUID).
	SessionID string    `cbor:"2,keyasint"`
	Direction Direction `cbor:"3,keyasint"`

	// Command is the catalog name of the addressed command, if known.
	Command string `cbor:"4,keyasint,omitempty"`
	Frame   []byte `cbor:"5,keyasint,omitempty"`
	Error   string `cbor:"6,keyasint,omitempty"`
}

// Direction indicates frame flow as seen from the gateway.
type Direction uint8

const (
	// DirectionIn is a frame received from the controller.
	DirectionIn Direction = 0
	// DirectionOut is a frame sent to the controller.
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}
