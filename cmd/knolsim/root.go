package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knolsim/internal/config"
)

// rootFlagKeys maps persistent flags to config keys.
var rootFlagKeys = map[string]string{
	"log-level": "log.level",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "knolsim",
		Short:         "Flashcard review scheduler and simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	def := config.Default()
	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().String("log-level", def.Log.Level, "Log level: debug, info, warn or error")

	root.AddCommand(newSimulateCmd())
	root.AddCommand(newReviewCmd())
	return root
}

// loadConfig reads the config for cmd, letting its flags listed in keys
// override the file and environment.
func loadConfig(cmd *cobra.Command, keys map[string]string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	all := make(map[string]string, len(rootFlagKeys)+len(keys))
	for name, key := range rootFlagKeys {
		all[name] = key
	}
	for name, key := range keys {
		all[name] = key
	}
	return config.Load(path, cmd.Flags(), all)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
}
