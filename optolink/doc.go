// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package optolink holds the command registry for register-addressed
// Vitotronic style controllers.
//
// Every readable or writable quantity is a named command with a 2-byte
// register address, a value length, an opaque unit code and an access mode.
// A Registry is built once from a device Catalog and is read-only afterwards.
package optolink
