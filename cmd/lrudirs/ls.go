package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Lists directories from the least to the most recently used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}

		unit := "entries"
		if c.ByteMode() {
			unit = "bytes"
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tPATH")
		for _, d := range c.Entries() {
			fmt.Fprintf(w, "%s\t%d\t%s\n", d.Name, d.Size, d.Path)
		}
		fmt.Fprintf(w, "total\t%d/%d %s\t\n", c.Size(), c.Capacity(), unit)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
