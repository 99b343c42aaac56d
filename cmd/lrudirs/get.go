package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Prints the path of a registered directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		d, ok := c.Get(args[0])
		if !ok {
			return fmt.Errorf("%s is not registered in %s", args[0], c.Root())
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), d.Path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
