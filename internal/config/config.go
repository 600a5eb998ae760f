// Package config loads application configuration from an optional TOML
// file with environment overrides, and defines the persisted user
// settings with their defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"polyglot_reader/internal/workspace"
)

// Config is the process-level configuration.
type Config struct {
	OllamaURL   string   `toml:"ollama_url"`
	OllamaModel string   `toml:"ollama_model"`
	DBPath      string   `toml:"db_path"`
	LogLevel    string   `toml:"log_level"`
	Settings    Settings `toml:"settings"`
}

func Default() Config {
	return Config{
		OllamaURL:   "http://127.0.0.1:11434",
		OllamaModel: "llama3.1:8b",
		DBPath:      workspace.DefaultDBPath(),
		LogLevel:    "info",
		Settings:    DefaultSettings(),
	}
}

// Load reads path over the defaults. A missing file is not an error;
// environment variables win over both.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.OllamaModel = v
	}
	if v := os.Getenv("POLYGLOT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("POLYGLOT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.Settings.Normalize()
	return cfg, nil
}

// Settings are the user preferences that persist across sessions.
type Settings struct {
	DefaultLanguage        string `toml:"default_language"`
	LearningFocus          string `toml:"learning_focus"`
	AutoDetectLanguage     bool   `toml:"auto_detect_language"`
	ShowPronunciation      bool   `toml:"show_pronunciation"`
	VocabStrategy          string `toml:"vocab_strategy"`
	VocabEnrichMaxItems    int    `toml:"vocab_enrich_max_items"`
	VocabEnrichConcurrency int    `toml:"vocab_enrich_concurrency"`
	MaxVocabularyChars     int    `toml:"max_vocabulary_chars"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultLanguage:        "en",
		LearningFocus:          "translate",
		AutoDetectLanguage:     true,
		ShowPronunciation:      true,
		VocabStrategy:          "adaptive",
		VocabEnrichMaxItems:    12,
		VocabEnrichConcurrency: 3,
		MaxVocabularyChars:     400,
	}
}

// Normalize clamps out-of-range values back to usable ones.
func (s *Settings) Normalize() {
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = "en"
	}
	if s.LearningFocus == "" {
		s.LearningFocus = "translate"
	}
	if s.VocabStrategy == "" {
		s.VocabStrategy = "adaptive"
	}
	if s.VocabEnrichMaxItems < 1 || s.VocabEnrichMaxItems > 12 {
		s.VocabEnrichMaxItems = 12
	}
	if s.VocabEnrichConcurrency < 1 || s.VocabEnrichConcurrency > 6 {
		s.VocabEnrichConcurrency = 3
	}
	if s.MaxVocabularyChars < 100 {
		s.MaxVocabularyChars = 400
	}
}

// ToMap flattens settings into the key/value rows the store persists.
func (s Settings) ToMap() map[string]string {
	return map[string]string{
		"defaultLanguage":        s.DefaultLanguage,
		"learningFocus":          s.LearningFocus,
		"autoDetectLanguage":     strconv.FormatBool(s.AutoDetectLanguage),
		"showPronunciation":      strconv.FormatBool(s.ShowPronunciation),
		"vocabStrategy":          s.VocabStrategy,
		"vocabEnrichMaxItems":    strconv.Itoa(s.VocabEnrichMaxItems),
		"vocabEnrichConcurrency": strconv.Itoa(s.VocabEnrichConcurrency),
		"maxVocabularyChars":     strconv.Itoa(s.MaxVocabularyChars),
	}
}

// SettingsFromMap applies stored rows over the defaults; unknown keys are
// ignored and malformed values keep their default.
func SettingsFromMap(values map[string]string) Settings {
	s := DefaultSettings()
	if v, ok := values["defaultLanguage"]; ok && v != "" {
		s.DefaultLanguage = strings.ToLower(v)
	}
	if v, ok := values["learningFocus"]; ok && v != "" {
		s.LearningFocus = v
	}
	if v, ok := values["autoDetectLanguage"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.AutoDetectLanguage = b
		}
	}
	if v, ok := values["showPronunciation"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.ShowPronunciation = b
		}
	}
	if v, ok := values["vocabStrategy"]; ok && v != "" {
		s.VocabStrategy = v
	}
	if v, ok := values["vocabEnrichMaxItems"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.VocabEnrichMaxItems = n
		}
	}
	if v, ok := values["vocabEnrichConcurrency"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.VocabEnrichConcurrency = n
		}
	}
	if v, ok := values["maxVocabularyChars"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.MaxVocabularyChars = n
		}
	}
	s.Normalize()
	return s
}
