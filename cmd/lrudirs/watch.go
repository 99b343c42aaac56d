package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Trims the cache periodically until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := viper.GetDuration("interval")
		if interval <= 0 {
			return fmt.Errorf("invalid interval %s: must be positive", interval)
		}

		c, err := openCache()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("Watching cache", "root", c.Root(), "interval", interval)
		return c.Run(ctx, interval)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("interval", time.Minute, "Interval between trims")
	mustBindPFlag("interval", watchCmd.Flags().Lookup("interval"))
}
