// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package catalog provides device command tables, either built in or loaded
// from YAML files.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ffutop/optolink-gateway/optolink"
	"gopkg.in/yaml.v3"
)

var ErrUnknownModel = errors.New("catalog: unknown device model")

var builtin = map[string]optolink.Catalog{
	Vitocal300G.Model: Vitocal300G,
	VitocalWO1C.Model: VitocalWO1C,
}

// Models returns the names of the built-in catalogs.
func Models() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the built-in catalog for model. Matching ignores case.
func Lookup(model string) (optolink.Catalog, error) {
	c, ok := builtin[strings.ToLower(strings.TrimSpace(model))]
	if !ok {
		return optolink.Catalog{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownModel, model, strings.Join(Models(), ", "))
	}
	return c, nil
}

// Parse decodes a YAML catalog:
//
//	model: vitocal300g
//	commands:
//	  - name: Aussentemperatur
//	    address: "0101"
//	    length: 2
//	    unit: IS10
//	  - name: SolltempWarmwasser
//	    address: "6000"
//	    length: 2
//	    unit: IS10
//	    access_mode: write
//	    min_value: 10
//	    max_value: 60
//
// Command order is kept as written.
func Parse(data []byte) (optolink.Catalog, error) {
	var c optolink.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return optolink.Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Entries) == 0 {
		return optolink.Catalog{}, fmt.Errorf("%w: no commands", optolink.ErrInvalidCatalog)
	}
	return c, nil
}

// LoadFile reads and parses a YAML catalog file.
func LoadFile(path string) (optolink.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return optolink.Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return optolink.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Open returns the registry for either a catalog file or a built-in model.
// A file takes precedence. A file without a model name takes the given model.
func Open(model, file string) (*optolink.Registry, error) {
	var (
		c   optolink.Catalog
		err error
	)
	if file != "" {
		c, err = LoadFile(file)
		if err == nil && c.Model == "" {
			c.Model = model
		}
	} else {
		c, err = Lookup(model)
	}
	if err != nil {
		return nil, err
	}
	return optolink.NewRegistry(c)
}
