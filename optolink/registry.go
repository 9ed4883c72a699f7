// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package optolink

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Conflict records a catalog entry whose address is already taken by an
// earlier entry. Reverse lookups never return the shadowed command.
type Conflict struct {
	Address  Address
	Kept     string
	Shadowed string
}

// Registry is the immutable, queryable form of a Catalog.
// It is safe for concurrent use.
type Registry struct {
	model     string
	defs      []Definition
	byName    map[string]int
	byAddress map[Address]int
	conflicts []Conflict
}

// NewRegistry validates the catalog, normalizes its addresses and builds the
// name and address indexes.
func NewRegistry(c Catalog) (*Registry, error) {
	r := &Registry{
		model:     c.Model,
		defs:      make([]Definition, 0, len(c.Entries)),
		byName:    make(map[string]int, len(c.Entries)),
		byAddress: make(map[Address]int, len(c.Entries)),
	}

	for i, e := range c.Entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidCatalog, i)
		}
		if _, ok := r.byName[e.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate command %q", ErrInvalidCatalog, e.Name)
		}
		addr, err := ParseAddress(e.Address)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", e.Name, err)
		}
		mode, err := ParseAccessMode(e.AccessMode)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", e.Name, err)
		}

		idx := len(r.defs)
		r.defs = append(r.defs, Definition{
			Name:        e.Name,
			Address:     addr,
			Length:      e.Length,
			Unit:        e.Unit,
			Mode:        mode,
			Description: e.Description,
			min:         newBound(e.Min),
			max:         newBound(e.Max),
		})
		r.byName[e.Name] = idx

		if first, ok := r.byAddress[addr]; ok {
			r.conflicts = append(r.conflicts, Conflict{
				Address:  addr,
				Kept:     r.defs[first].Name,
				Shadowed: e.Name,
			})
			continue
		}
		r.byAddress[addr] = idx
	}
	return r, nil
}

// Model returns the device model the catalog was built for.
func (r *Registry) Model() string {
	return r.model
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Definitions returns all commands in catalog order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Conflicts returns the entries shadowed by an earlier entry with the same
// address.
func (r *Registry) Conflicts() []Conflict {
	out := make([]Conflict, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

// ResolveByName looks up a command by its exact name.
func (r *Registry) ResolveByName(name string) (Definition, error) {
	idx, ok := r.byName[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return r.defs[idx], nil
}

// ResolveByAddress looks up a command by the address in the first two bytes
// of b. When several commands share an address, the first one in catalog
// order is returned.
func (r *Registry) ResolveByAddress(b []byte) (Definition, error) {
	if len(b) < 2 {
		return Definition{}, fmt.Errorf("%w: short address %q", ErrUnresolvedAddress, hex.EncodeToString(b))
	}
	addr := AddressFromBytes(b)
	idx, ok := r.byAddress[addr]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnresolvedAddress, addr)
	}
	return r.defs[idx], nil
}
