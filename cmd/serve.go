// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/ffutop/optolink-gateway/internal/gateway"
	"github.com/ffutop/optolink-gateway/transport"
	"github.com/ffutop/optolink-gateway/transport/serial"
	"github.com/ffutop/optolink-gateway/transport/tcp"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Share the controller link with TCP clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := openLink(a.cfg, a.registry)
			if err != nil {
				return err
			}

			upstreams := []transport.Upstream{tcp.NewServer(a.cfg.Gateway.Listen)}
			if a.cfg.Gateway.Serial.Device != "" {
				upstreams = append(upstreams, serial.NewServer(a.cfg.Gateway.Serial))
			}
			gw := gateway.NewGateway(a.registry.Model(), upstreams, link, a.registry)
			gw.RequestTimeout = a.cfg.Gateway.RequestTimeout

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("Starting Optolink Gateway...", "model", a.registry.Model(), "link", a.cfg.Link.Type, "listen", a.cfg.Gateway.Listen, "serial", a.cfg.Gateway.Serial.Device)
			err = gw.Start(ctx)
			slog.Info("Goodbye.")
			return err
		},
	}
	cmd.Flags().String("listen", "", "Listen address of the gateway")
	cmd.Flags().String("serial-listen", "", "Serial device to also serve gateway requests on")
	return cmd
}

