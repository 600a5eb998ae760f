// Package export writes saved vocabulary in flashcard-friendly formats:
// CSV for spreadsheet import and TSV for Anki.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"polyglot_reader/internal/vocab"
)

var csvHeader = []string{"word", "pos", "definition", "example"}

// WriteCSV writes cards with a header row. Quoting is handled by the
// encoder so round-tripping through ReadCSV is lossless.
func WriteCSV(w io.Writer, cards []vocab.Card) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range cards {
		if err := cw.Write([]string{c.Word, c.POS, c.Definition, c.Example}); err != nil {
			return fmt.Errorf("writing card %q: %w", c.Word, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV. The header row is required.
func ReadCSV(r io.Reader) ([]vocab.Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(header[i], want) {
			return nil, fmt.Errorf("unexpected header column %d: %q", i, header[i])
		}
	}
	var cards []vocab.Card
	for i := 0; ; i++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", i+2, err)
		}
		cards = append(cards, vocab.Card{
			Index:      i,
			Word:       rec[0],
			POS:        rec[1],
			Definition: rec[2],
			Example:    rec[3],
		})
	}
	return cards, nil
}

// WriteTSV writes the Anki layout: word, definition with part of speech,
// example. Tabs and newlines inside fields collapse to spaces.
func WriteTSV(w io.Writer, cards []vocab.Card) error {
	for _, c := range cards {
		def := c.Definition
		if c.POS != "" {
			def = fmt.Sprintf("%s (%s)", c.Definition, c.POS)
		}
		line := strings.Join([]string{
			flatten(c.Word), flatten(def), flatten(c.Example),
		}, "\t")
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("writing card %q: %w", c.Word, err)
		}
	}
	return nil
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(s)
}
