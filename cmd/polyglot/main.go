// Command polyglot analyzes selected text with local language
// capabilities: translation, summaries, vocabulary extraction, and
// grammar analysis backed by an Ollama daemon.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"polyglot_reader/internal/config"
	"polyglot_reader/internal/logging"
	"polyglot_reader/internal/workspace"

	"go.uber.org/zap"
)

var (
	flagConfig   string
	flagLogLevel string

	cfg config.Config
	log *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:          "polyglot",
		Short:        "Language-learning analysis for selected text",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			log, err = logging.New(cfg.LogLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath(), "path to config file")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log level")

	root.AddCommand(newAnalyzeCmd(), newVocabCmd(), newDiagnoseCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	return workspace.DefaultConfigPath()
}
