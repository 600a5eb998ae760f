package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polyglot_reader/internal/export"
	"polyglot_reader/internal/store"
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage saved vocabulary",
	}
	cmd.AddCommand(newVocabListCmd(), newVocabExportCmd())
	return cmd
}

func newVocabListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved words",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			words, err := st.SavedWords()
			if err != nil {
				return err
			}
			if len(words) == 0 {
				cmd.Println("No saved words yet.")
				return nil
			}
			for _, w := range words {
				line := w.Word
				if w.POS != "" {
					line += " (" + w.POS + ")"
				}
				if w.Definition != "" {
					line += ": " + w.Definition
				}
				cmd.Println(line)
			}
			return nil
		},
	}
}

func newVocabExportCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved words as flashcards",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			words, err := st.SavedWords()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return export.WriteCSV(w, words)
			case "tsv":
				return export.WriteTSV(w, words)
			default:
				return fmt.Errorf("unknown format %q: use csv or tsv", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv or tsv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
