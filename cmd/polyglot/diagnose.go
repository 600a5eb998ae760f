package main

import (
	"github.com/spf13/cobra"

	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/workspace"
)

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Report capability availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := workspace.EnsureDefault()
			if err != nil {
				return err
			}
			reg := newRegistry()
			status := reg.Status(cmd.Context())
			cmd.Printf("workspace: %s\n", dir)
			cmd.Printf("database:  %s\n", cfg.DBPath)
			cmd.Printf("daemon:    %s (model %s)\n\n", cfg.OllamaURL, cfg.OllamaModel)
			for _, kind := range capability.Kinds {
				cmd.Printf("%-18s %s\n", kind, status[kind])
			}
			return nil
		},
	}
}
