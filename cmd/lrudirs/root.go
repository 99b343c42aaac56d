package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lucasew/lrudirs"
	"github.com/lucasew/lrudirs/internal/app"
	"github.com/lucasew/lrudirs/internal/errutil"
	"github.com/lucasew/lrudirs/internal/eviction"
)

var rootCmd = &cobra.Command{
	Use:   "lrudirs",
	Short: "Keeps a bounded set of directories, deleting the least recently used",
	Long: `lrudirs manages the subdirectories of a root path as an LRU cache.
When the number of directories (or their total size with --byte-mode) exceeds
the capacity, the least recently used ones are deleted from disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.SetupLogging(viper.GetString("log-level"), os.Stderr)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if _, printErr := fmt.Fprintln(os.Stderr, err); printErr != nil {
			errutil.ReportError(printErr, "Failed to print error to stderr")
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("root", "./cache", "Directory holding the cached directories")
	flags.Int64("capacity", 16, "Maximum number of directories, or bytes with --byte-mode")
	flags.Bool("byte-mode", false, "Account directories by their size in bytes instead of counting them")
	flags.Bool("include-hidden", false, "Register dot-prefixed directories found at startup")
	flags.Bool("promote-on-hit", true, "Mark an existing directory as recently used when ensured")
	flags.Bool("touch", true, "Update directory modification times so the order survives restarts")
	flags.Int64("min-free-space", 0, "Min free disk space in bytes to keep (byte mode only)")
	flags.String("strategy", eviction.DefaultStrategy, fmt.Sprintf("Eviction strategy to use (%s)", strings.Join(eviction.Strategies(), ", ")))
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")

	flags.VisitAll(func(f *pflag.Flag) {
		mustBindPFlag(f.Name, f)
	})
}

func initConfig() {
	viper.SetEnvPrefix("LRUDIRS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
	}
}

func loadConfig() app.Config {
	return app.Config{
		Root:          viper.GetString("root"),
		Capacity:      viper.GetInt64("capacity"),
		ByteMode:      viper.GetBool("byte-mode"),
		IncludeHidden: viper.GetBool("include-hidden"),
		PromoteOnHit:  viper.GetBool("promote-on-hit"),
		Touch:         viper.GetBool("touch"),
		MinFreeSpace:  viper.GetInt64("min-free-space"),
		Strategy:      viper.GetString("strategy"),
	}
}

func openCache() (*lrudirs.Cache, error) {
	return app.Open(loadConfig())
}
