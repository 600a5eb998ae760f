package ingest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilePlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Hola   mundo.\n\n¿Cómo estás?  \n"), 0o644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", doc.Title)
	assert.Equal(t, "Hola mundo.\n¿Cómo estás?", doc.Text)
}

func TestParseFileDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.docx")
	require.NoError(t, os.WriteFile(path, buildDOCX(t,
		`<w:document><w:body><w:p><w:r><w:t>Chapter 1</w:t></w:r></w:p><w:p><w:r><w:t>Hello world.</w:t></w:r></w:p></w:body></w:document>`), 0o644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1\nHello world.", doc.Text)
}

func TestParseFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.exe")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := ParseFile(path)
	assert.Error(t, err)
}

func TestExcerptCutsAtWordBoundary(t *testing.T) {
	doc := &Document{Text: "El perro corre por la calle todos los días sin descanso"}
	got := doc.Excerpt(20)
	assert.Equal(t, "El perro corre por", got)

	short := &Document{Text: "corto"}
	assert.Equal(t, "corto", short.Excerpt(20))
}

func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	xml := `<?xml version="1.0" encoding="UTF-8"?>` + bodyXML
	_, err = f.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return b.Bytes()
}
