package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "enrich-cli",
	Short: "Multi-provider contact and company enrichment",
	Long:  "Fans enrichment lookups out across data providers (BigDataCorp, Wiza, Surfe, People Data Labs), merges the responses into one record with per-field provenance, and scores completeness.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// requireValidConfig validates the loaded config for each mode a command
// is about to use, so a bad config fails before any provider or store is
// touched.
func requireValidConfig(modes ...string) error {
	for _, mode := range modes {
		if err := cfg.Validate(mode); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
