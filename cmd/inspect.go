// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ffutop/optolink-gateway/internal/capture"
	"github.com/ffutop/optolink-gateway/optolink"
	"github.com/ffutop/optolink-gateway/optolink/frame"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <capture-file>",
		Short: "Check a frame capture against the catalog",
		Long: `Print every frame of a capture file and resolve it against the catalog.

Received frames are checked for the length the catalog expects, which helps to
validate catalog entries (for example function call lengths) against a real device.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := capture.NewReader(args[0])
			if err != nil {
				return err
			}
			defer r.Close()
			return inspect(cmd.OutOrStdout(), r, a.registry)
		},
	}
}

type eventSource interface {
	Next() (capture.Event, error)
}

func inspect(w io.Writer, src eventSource, registry *optolink.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tDIR\tADDRESS\tCOMMAND\tFRAME\tNOTE")

	var total, problems int
	var lastMode optolink.AccessMode
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		total++

		address, name := "", ""
		var notes []string
		h, herr := frame.ParseHeader(ev.Frame)
		def, rerr := registry.ResolveByAddress(ev.Frame)
		switch {
		case ev.Error != "":
			notes = append(notes, "error: "+ev.Error)
		case herr != nil:
			notes = append(notes, "malformed frame")
		case rerr != nil:
			address = h.Address.String()
			notes = append(notes, "unresolved address")
		default:
			address = h.Address.String()
			name = def.Name
			if ev.Command != "" && ev.Command != def.Name {
				notes = append(notes, fmt.Sprintf("recorded as %s", ev.Command))
			}
			if int(h.Length) != def.Length {
				notes = append(notes, fmt.Sprintf("length byte %d, catalog says %d", h.Length, def.Length))
			}
			if ev.Direction == capture.DirectionOut {
				lastMode = optolink.ModeRead
				if len(ev.Frame) == frame.HeaderSize+def.Length && def.Length > 0 {
					lastMode = optolink.ModeWrite
				} else if def.AccessMode() == optolink.ModeCall {
					lastMode = optolink.ModeCall
				}
			} else if want := frame.ResponseLength(def, lastMode); len(ev.Frame) != want {
				notes = append(notes, fmt.Sprintf("%d bytes, catalog expects %d for %s", len(ev.Frame), want, lastMode))
			}
		}
		if len(notes) > 0 {
			problems++
		}
		note := strings.Join(notes, "; ")

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", ev.Timestamp.Format(time.RFC3339Nano), ev.Direction, address, name, hex.EncodeToString(ev.Frame), note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d frames, %d with findings\n", total, problems)
	return nil
}
