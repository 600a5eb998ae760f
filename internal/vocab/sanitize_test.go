package vocab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePronunciation(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		source string
		want   string
	}{
		{
			name:   "label matched for source language",
			raw:    "English: foo\nJapanese: ばか (baka)",
			source: "ja",
			want:   "ばか (baka)",
		},
		{
			name:   "unlabeled line wins over labels",
			raw:    "neh-KOH\nSpanish: otra cosa",
			source: "es",
			want:   "neh-KOH",
		},
		{
			name:   "european and other labels are skipped",
			raw:    "European Portuguese: A\nOther: B\nPortuguese: C",
			source: "pt",
			want:   "C",
		},
		{
			name:   "fallback to first line with label stripped",
			raw:    "French: bon-ZHOOR\nItalian: altro",
			source: "ja",
			want:   "bon-ZHOOR",
		},
		{
			name:   "single plain value",
			raw:    "  PEH-rroh  ",
			source: "es",
			want:   "PEH-rroh",
		},
		{
			name:   "empty input",
			raw:    "\n  \n",
			source: "es",
			want:   "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizePronunciation(tc.raw, tc.source))
		})
	}
}

func TestTruncateExample(t *testing.T) {
	short := "El perro corre."
	assert.Equal(t, short, TruncateExample(short, 120))

	twoSentences := "Primera frase corta. " + strings.Repeat("x", 150)
	got := TruncateExample(twoSentences, 120)
	assert.Equal(t, "Primera frase corta.…", got)

	sentenceLate := strings.Repeat("palabra ", 12) + "final." + strings.Repeat("y", 100)
	got = TruncateExample(sentenceLate, 120)
	assert.True(t, strings.HasSuffix(got, "final."), "got %q", got)

	noBoundary := strings.Repeat("a", 200)
	got = TruncateExample(noBoundary, 120)
	assert.Equal(t, strings.Repeat("a", 120)+"…", got)
}

func TestTruncateSample(t *testing.T) {
	s, truncated := truncateSample("short text", 400)
	assert.False(t, truncated)
	assert.Equal(t, "short text", s)

	long := strings.Repeat("palabra ", 100)
	s, truncated = truncateSample(long, 400)
	assert.True(t, truncated)
	assert.LessOrEqual(t, len([]rune(s)), 400)
	assert.False(t, strings.HasSuffix(s, " "))
}
