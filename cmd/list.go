// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the commands of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model: %s (%d commands)\n\n", a.registry.Model(), a.registry.Len())

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tADDRESS\tLENGTH\tUNIT\tMODE\tRANGE")
			for _, def := range a.registry.Definitions() {
				rng := ""
				lo, hasMin := def.MinValue()
				hi, hasMax := def.MaxValue()
				if hasMin || hasMax {
					rng = fmt.Sprintf("%v..%v", bound(lo, hasMin), bound(hi, hasMax))
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", def.Name, def.Address, def.Length, def.Unit, def.AccessMode(), rng)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if conflicts := a.registry.Conflicts(); len(conflicts) > 0 {
				fmt.Fprintf(out, "\nAddress conflicts (first entry wins):\n")
				for _, c := range conflicts {
					fmt.Fprintf(out, "  %s: %s shadows %s\n", c.Address, c.Kept, c.Shadowed)
				}
			}
			return nil
		},
	}
}

func bound(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("%g", v)
}
