package export

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	r := NewPDFRenderer(Options{LinesPerPage: 25})
	err := r.Render(&buf, Document{
		Title:       "Shopping list",
		GeneratedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Lines:       []string{"flour — g — 500", "milk — ml — 250"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestRenderEmptyListing(t *testing.T) {
	var buf bytes.Buffer
	err := NewPDFRenderer(Options{}).Render(&buf, Document{Title: "Shopping list", GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

var streamPattern = regexp.MustCompile(`(?s)stream\n(.*?)\nendstream`)

// pageText returns the decompressed content of every zlib stream in a PDF.
func pageText(t *testing.T, pdf []byte) []byte {
	t.Helper()
	var out []byte
	for _, m := range streamPattern.FindAllSubmatch(pdf, -1) {
		zr, err := zlib.NewReader(bytes.NewReader(m[1]))
		if err != nil {
			continue
		}
		data, _ := io.ReadAll(zr)
		out = append(out, data...)
	}
	return out
}

func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return b
}

func TestRenderKeepsCyrillicByDefault(t *testing.T) {
	var buf bytes.Buffer
	err := NewPDFRenderer(Options{}).Render(&buf, Document{
		Title:       "Список покупок",
		GeneratedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Lines:       []string{"мука — г — 500"},
	})
	require.NoError(t, err)

	text := pageText(t, buf.Bytes())
	assert.True(t, bytes.Contains(text, utf16BE("мука — г — 500")), "listing line must keep its glyphs")
	assert.True(t, bytes.Contains(text, utf16BE("Список покупок")))
	assert.False(t, bytes.Contains(text, []byte("(....")))
}

func TestRenderMissingFontFails(t *testing.T) {
	var buf bytes.Buffer
	r := NewPDFRenderer(Options{FontPath: "/nonexistent/font.ttf"})
	err := r.Render(&buf, Document{Title: "x", GeneratedAt: time.Now(), Lines: []string{"a"}})
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	lines := make([]string, 60)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	pages := paginate(lines, 25)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 25)
	assert.Len(t, pages[2], 10)
	assert.Equal(t, "line 59", pages[2][9])

	assert.Len(t, paginate(nil, 25), 1)
}
