package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure <name>...",
	Short: "Returns directories, creating the missing ones",
	Long: `ensure prints the path of each directory. Registered directories are returned
as they are; missing ones are created like with add.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		for _, name := range args {
			d, err := c.GetOrAdd(name)
			if err != nil {
				return fmt.Errorf("failed to ensure %s: %w", name, err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), d.Path); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureCmd)
}
