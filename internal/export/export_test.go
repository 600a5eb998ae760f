package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyglot_reader/internal/vocab"
)

func TestCSVRoundTrip(t *testing.T) {
	cards := []vocab.Card{
		{Word: "perro", POS: "noun", Definition: "dog", Example: "El perro corre."},
		{Word: "decir", POS: "verb", Definition: `to say, "to tell"`, Example: "Dice la verdad,\nsiempre."},
		{Word: "猫", POS: "noun", Definition: "cat", Example: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cards))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(cards))
	for i, c := range cards {
		assert.Equal(t, c.Word, got[i].Word)
		assert.Equal(t, c.POS, got[i].POS)
		assert.Equal(t, c.Definition, got[i].Definition)
		assert.Equal(t, c.Example, got[i].Example)
		assert.Equal(t, i, got[i].Index)
	}
}

func TestReadCSVRejectsWrongHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("foo,bar,baz,qux\n"))
	assert.Error(t, err)
}

func TestWriteTSVFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, []vocab.Card{
		{Word: "perro", POS: "noun", Definition: "dog", Example: "El perro\tcorre."},
		{Word: "ser", Definition: "to be", Example: "line one\nline two"},
	}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "perro\tdog (noun)\tEl perro corre.", lines[0])
	assert.Equal(t, "ser\tto be\tline one line two", lines[1])
}
