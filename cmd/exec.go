// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ffutop/optolink-gateway/transport"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

// withClient runs fn with a connected session client and closes it afterwards.
func (a *app) withClient(cmd *cobra.Command, fn func(ctx context.Context, c *transport.Client) error) error {
	link, err := openLink(a.cfg, a.registry)
	if err != nil {
		return err
	}
	c := transport.NewClient(link, a.registry)
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return fn(ctx, c)
}

func printResult(w io.Writer, res transport.Result) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Definition.Name, res.Definition.Address, hex.EncodeToString(res.Payload), res.Definition.Unit)
}

func newReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <name>...",
		Short: "Read the raw value of one or more commands",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c *transport.Client) error {
				for _, name := range args {
					res, err := c.Read(ctx, name)
					if err != nil {
						return err
					}
					printResult(cmd.OutOrStdout(), res)
				}
				return nil
			})
		},
	}
}

func newCallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call <name>",
		Short: "Execute a function call command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c *transport.Client) error {
				res, err := c.Call(ctx, args[0])
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

func newWriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write <name> <hex>",
		Short: "Write a raw value given as hex bytes",
		Example: `  optolink write Betriebsmodus 02
  optolink write SolltempWarmwasser 0x01F4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseHex(args[1])
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, c *transport.Client) error {
				if err := c.Write(ctx, args[0], value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tOK\n", args[0])
				return nil
			})
		},
	}
}

// parseHex accepts "01F4", "0x01F4" and "01 F4".
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.ReplaceAll(s, " ", "")
	value, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex value %q: %w", s, err)
	}
	return value, nil
}
