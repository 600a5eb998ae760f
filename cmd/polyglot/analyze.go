package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"polyglot_reader/internal/analyze"
	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/config"
	"polyglot_reader/internal/ingest"
	"polyglot_reader/internal/provider/ollama"
	"polyglot_reader/internal/reader"
	"polyglot_reader/internal/store"
	"polyglot_reader/internal/vocab"
)

// stdoutCanvas prints the final panel to stdout; intermediate patches go
// to stderr only when streaming output is requested.
type stdoutCanvas struct {
	cmd    *cobra.Command
	stream bool
}

func (c *stdoutCanvas) Render(html string) { c.cmd.Println(html) }
func (c *stdoutCanvas) Patch(html string) {
	if c.stream {
		c.cmd.PrintErrln(html)
	}
}
func (c *stdoutCanvas) Clear() {}

// newRegistry wires the Ollama surfaces from config.
func newRegistry() *capability.Registry {
	client := ollama.NewClient(ollama.Config{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
		Timeout: 2 * time.Minute,
	}, log)
	return capability.NewRegistry(log, ollama.Surfaces(client)...)
}

func newReader(cmd *cobra.Command, settings config.Settings, st *store.Store, stream bool) *reader.Reader {
	reg := newRegistry()
	engine := vocab.NewEngine(analyze.RegistryGenerator(reg), log, vocab.Options{
		MaxItems:    settings.VocabEnrichMaxItems,
		Concurrency: settings.VocabEnrichConcurrency,
		MaxChars:    settings.MaxVocabularyChars,
	})
	analyzer := analyze.New(reg, engine, log)
	canvas := &stdoutCanvas{cmd: cmd, stream: stream}
	return reader.New(analyzer, reg, st, canvas, settings, log, reader.Options{})
}

func newAnalyzeCmd() *cobra.Command {
	var (
		mode    string
		target  string
		file    string
		excerpt int
		stream  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze a text selection",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if file != "" {
				doc, err := ingest.ParseFile(file)
				if err != nil {
					return err
				}
				text = doc.Excerpt(excerpt)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no text given: pass it as arguments or with --file")
			}

			settings := cfg.Settings
			if mode != "" {
				if _, err := analyze.ParseMode(mode); err != nil {
					return err
				}
				settings.LearningFocus = mode
			}
			if target != "" {
				settings.DefaultLanguage = strings.ToLower(target)
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				log.Warn("store unavailable, settings will not persist")
			} else {
				defer st.Close()
			}

			r := newReader(cmd, settings, st, stream)
			r.Warmup(cmd.Context())
			r.TestSelection(text)
			r.Wait()
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "analysis mode: translate, summary, vocabulary, grammar, verbs")
	cmd.Flags().StringVarP(&target, "target", "t", "", "target language code")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the selection from a pdf, docx, txt, or md file")
	cmd.Flags().IntVar(&excerpt, "excerpt", 500, "max characters taken from --file")
	cmd.Flags().BoolVar(&stream, "stream", false, "print intermediate updates to stderr")
	return cmd
}
