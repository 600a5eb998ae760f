package store

import (
	"database/sql"
	"fmt"

	"polyglot_reader/internal/vocab"
)

// Store wraps the SQLite connection. Safe for concurrent use; SQLite
// serializes writers internally.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Settings returns every stored settings key. Missing keys fall back to
// defaults at the config layer.
func (s *Store) Settings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// PutSettings upserts the given keys, leaving others untouched.
func (s *Store) PutSettings(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for k, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings(key, value) VALUES(?,?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, k, v); err != nil {
			return fmt.Errorf("upsert setting %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveWord stores one card, deduplicated on (word, pos). Returns false
// when the word was already saved.
func (s *Store) SaveWord(c vocab.Card, sourceLang string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO saved_words(word, pos, definition, example, example_translation, pronunciation, source_lang)
		 VALUES(?,?,?,?,?,?,?)`,
		c.Word, c.POS, c.Definition, c.Example, c.ExampleTranslation, c.Pronunciation, sourceLang)
	if err != nil {
		return false, fmt.Errorf("insert saved word: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SavedWords lists every saved card, oldest first.
func (s *Store) SavedWords() ([]vocab.Card, error) {
	rows, err := s.db.Query(
		`SELECT word, pos, definition, example, example_translation, pronunciation
		 FROM saved_words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query saved words: %w", err)
	}
	defer rows.Close()

	var cards []vocab.Card
	for rows.Next() {
		var c vocab.Card
		if err := rows.Scan(&c.Word, &c.POS, &c.Definition, &c.Example, &c.ExampleTranslation, &c.Pronunciation); err != nil {
			return nil, fmt.Errorf("scan saved word: %w", err)
		}
		c.Index = len(cards)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DeleteWord removes one saved card.
func (s *Store) DeleteWord(word, pos string) error {
	if _, err := s.db.Exec(`DELETE FROM saved_words WHERE word=? AND pos=?`, word, pos); err != nil {
		return fmt.Errorf("delete saved word: %w", err)
	}
	return nil
}
