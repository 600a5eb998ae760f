package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeedsDedupAndCap(t *testing.T) {
	raw := `Here are the words:
[{"word": "Perro", "pos": "NOUN"},
 {"word": "perro", "pos": "noun"},
 {"word": "  ", "pos": "noun"},
 {"word": "gato", "pos": "noun"},
 {"word": "correr", "pos": "verb"}]`

	seeds, err := parseSeeds(raw, 2)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "Perro", seeds[0].Word)
	assert.Equal(t, "noun", seeds[0].POS)
	assert.Equal(t, "gato", seeds[1].Word)
}

func TestParseSeedsRejectsNonJSON(t *testing.T) {
	_, err := parseSeeds("no words found, sorry", 12)
	assert.Error(t, err)
}

func TestApplyDetailJSONFlexibleLists(t *testing.T) {
	var c Card
	err := applyDetailJSON(&c, `{
		"def": "dog",
		"example": "El perro corre.",
		"cefr": "a1",
		"synonyms": "can, chucho",
		"antonyms": ["gato"]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "dog", c.Definition)
	assert.Equal(t, "A1", c.CEFR)
	assert.Equal(t, []string{"can", "chucho"}, []string(c.Synonyms))
	assert.Equal(t, []string{"gato"}, []string(c.Antonyms))
}

func TestApplyDetailProse(t *testing.T) {
	var c Card
	err := applyDetailProse(&c, `
**Definition:** a domestic dog
Example: El perro corre por el parque.
Example translation (English): The dog runs through the park.
Pronunciation: PEH-rroh
CEFR: A1
Synonyms: can, chucho
Nonsense label: ignored
`)
	require.NoError(t, err)
	assert.Equal(t, "a domestic dog", c.Definition)
	assert.Equal(t, "El perro corre por el parque.", c.Example)
	assert.Equal(t, "The dog runs through the park.", c.ExampleTranslation)
	assert.Equal(t, "A1", c.CEFR)
	assert.Equal(t, []string{"can", "chucho"}, c.Synonyms)
}

func TestApplyDetailProseNothingRecognized(t *testing.T) {
	var c Card
	assert.Error(t, applyDetailProse(&c, "I have no idea about this word."))
}
