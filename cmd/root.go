// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package cmd

import (
	"fmt"

	"github.com/ffutop/optolink-gateway/catalog"
	"github.com/ffutop/optolink-gateway/internal/config"
	"github.com/ffutop/optolink-gateway/optolink"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	configFile string

	v        *viper.Viper
	cfg      *config.Config
	registry *optolink.Registry
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level": "log.level",
	"model":     "device.model",
	"catalog":   "device.catalog_file",
	"link":      "link.type",
	"device":    "link.serial.device",
	"address":   "link.tcp.address",
	"url":       "link.ws.url",
	"username":  "link.ws.username",
	"insecure":  "link.ws.insecure",
	"seed":      "link.local.seed",
	"capture":   "capture.file",
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "optolink",
		Short: "Optolink heating controller client and gateway",
		Long: `optolink talks to Viessmann heating controllers over the Optolink interface.

Commands are addressed by the names of a model catalog. The controller is reached
through one of several links:
  Serial:    --link serial --device /dev/ttyUSB0
  TCP:       --link tcp --address host:port   (ser2net style bridge)
  WebSocket: --link ws --url ws://host/path [--username user]
  Simulator: --link local [--seed]

For WebSocket authentication the password is read from OPTOLINK_LINK_WS_PASSWORD,
or prompted interactively if not set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to config file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.StringP("model", "m", "", "Built-in catalog model")
	flags.String("catalog", "", "YAML catalog file, overrides --model")
	flags.StringP("link", "l", "", "Link type (serial, tcp, ws, local)")
	flags.StringP("device", "d", "", "Serial device of the optical adapter")
	flags.StringP("address", "a", "", "Address of a TCP serial bridge")
	flags.StringP("url", "u", "", "WebSocket URL (ws:// or wss://)")
	flags.String("username", "", "Username for HTTP Basic auth")
	flags.Bool("insecure", false, "Skip TLS certificate verification (wss:// only)")
	flags.Bool("seed", false, "Pre-fill simulator memory (local link only)")
	flags.String("capture", "", "Record exchanged frames to a CBOR capture file")

	root.AddCommand(
		newListCmd(a),
		newReadCmd(a),
		newWriteCmd(a),
		newCallCmd(a),
		newServeCmd(a),
		newInspectCmd(a),
	)
	return root
}

// load reads the configuration with flags bound over it and opens the catalog.
func (a *app) load(cmd *cobra.Command) error {
	a.v = config.New(a.configFile)
	for name, key := range flagKeys {
		if err := a.v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	for name, key := range map[string]string{"listen": "gateway.listen", "serial-listen": "gateway.serial.device"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	setupLogger(cfg.Log)

	reg, err := catalog.Open(cfg.Device.Model, cfg.Device.CatalogFile)
	if err != nil {
		return err
	}
	if len(reg.Conflicts()) > 0 {
		logConflicts(reg)
	}
	a.registry = reg
	return nil
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}
