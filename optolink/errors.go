// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package optolink

import "errors"

var (
	ErrUnknownCommand    = errors.New("optolink: unknown command")
	ErrUnresolvedAddress = errors.New("optolink: no command matching address")
	ErrInvalidCatalog    = errors.New("optolink: invalid catalog")
	ErrOutOfRange        = errors.New("optolink: value out of range")
)
