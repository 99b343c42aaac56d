package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Creates or promotes directories, evicting old ones if needed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		for _, name := range args {
			d, err := c.Add(name)
			if err != nil {
				return fmt.Errorf("failed to add %s: %w", name, err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), d.Path); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
