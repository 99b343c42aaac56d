package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Evicts directories until every capacity policy is satisfied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		if err := c.Trim(); err != nil {
			return err
		}
		slog.Info("Trimmed cache", "root", c.Root(), "count", c.Len(), "size", c.Size())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trimCmd)
}
