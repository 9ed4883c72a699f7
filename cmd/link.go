// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ffutop/optolink-gateway/internal/capture"
	"github.com/ffutop/optolink-gateway/internal/config"
	"github.com/ffutop/optolink-gateway/optolink"
	"github.com/ffutop/optolink-gateway/transport"
	"github.com/ffutop/optolink-gateway/transport/local"
	"github.com/ffutop/optolink-gateway/transport/serial"
	"github.com/ffutop/optolink-gateway/transport/tcp"
	"github.com/ffutop/optolink-gateway/transport/ws"
	"golang.org/x/term"
)

// openLink creates the configured link, wrapped in a capture recorder when
// a capture file is set.
func openLink(cfg *config.Config, registry *optolink.Registry) (transport.Link, error) {
	var link transport.Link
	switch cfg.Link.Type {
	case "serial":
		s := cfg.Link.Serial
		slog.Info("init serial link", "device", s.Device, "baudRate", s.BaudRate, "dataBits", s.DataBits, "parity", s.Parity, "stopBits", s.StopBits, "timeout", s.Timeout)
		link = serial.NewClient(s)
	case "tcp":
		if cfg.Link.Tcp.Address == "" {
			return nil, fmt.Errorf("tcp link needs an address (--address)")
		}
		c := tcp.NewClient(cfg.Link.Tcp.Address)
		c.Timeout = cfg.Link.Tcp.Timeout
		link = c
	case "ws":
		if cfg.Link.Ws.URL == "" {
			return nil, fmt.Errorf("ws link needs a URL (--url)")
		}
		wsCfg := cfg.Link.Ws
		if wsCfg.Username != "" && wsCfg.Password == "" {
			pw, err := readPassword()
			if err != nil {
				return nil, err
			}
			wsCfg.Password = pw
		}
		link = ws.NewClient(wsCfg)
	case "local":
		link = local.NewClient(cfg.Link.Local, registry)
	default:
		return nil, fmt.Errorf("unknown link type %q (serial, tcp, ws, local)", cfg.Link.Type)
	}

	if cfg.Capture.File == "" {
		return link, nil
	}
	rec, err := capture.NewRecorder(link, registry, cfg.Capture.File)
	if err != nil {
		link.Close()
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	slog.Info("Recording frames", "file", cfg.Capture.File, "session", rec.SessionID())
	return rec, nil
}

// readPassword prompts for the WebSocket password without echo.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	defer fmt.Fprintln(os.Stderr)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	// Fallback to regular input if stdin is not a terminal
	pw, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(pw), nil
}
