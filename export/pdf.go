// Package export renders plain line listings as paginated PDF documents.
package export

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily   = "listing"
	marginLeft   = 15.0
	marginRight  = 195.0
	lineHeight   = 8.0
	headingSize  = 16
	bodySize     = 12
	footerOffset = -15.0
)

//go:embed fonts/DejaVuSansCondensed.ttf
var defaultFont []byte

type Document struct {
	Title       string
	GeneratedAt time.Time
	Lines       []string
}

type Options struct {
	// FontPath points at a TTF font with the glyphs the lines need. Without
	// it the embedded DejaVu Sans Condensed is used, which covers Cyrillic.
	FontPath     string
	LinesPerPage int
}

// PDFRenderer writes documents as A4 PDFs with a fixed number of lines per
// page.
type PDFRenderer struct {
	opts Options
}

func NewPDFRenderer(opts Options) *PDFRenderer {
	if opts.LinesPerPage <= 0 {
		opts.LinesPerPage = 25
	}
	return &PDFRenderer{opts: opts}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(w io.Writer, doc Document) error {
	font := defaultFont
	if r.opts.FontPath != "" {
		var err error
		if font, err = os.ReadFile(r.opts.FontPath); err != nil {
			return fmt.Errorf("read font: %w", err)
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	subject := "Generated " + doc.GeneratedAt.Format("2006-01-02 15:04")
	pdf.SetTitle(subject, true)
	pdf.SetSubject(doc.Title, true)
	pdf.SetCreator("foodgram", true)
	pdf.SetCreationDate(doc.GeneratedAt)

	family := fontFamily
	pdf.AddUTF8FontFromBytes(family, "", font)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(footerOffset)
		pdf.SetFont(family, "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pages := paginate(doc.Lines, r.opts.LinesPerPage)
	for i, lines := range pages {
		pdf.AddPage()
		if i == 0 {
			pdf.SetFont(family, "", headingSize)
			pdf.SetTextColor(40, 40, 40)
			pdf.CellFormat(0, 12, doc.Title, "", 1, "C", false, 0, "")
			pdf.SetFont(family, "", 9)
			pdf.SetTextColor(128, 128, 128)
			pdf.CellFormat(0, 6, subject, "", 1, "C", false, 0, "")
			y := pdf.GetY() + 2
			pdf.Line(marginLeft, y, marginRight, y)
			pdf.SetY(y + 4)
		}
		pdf.SetFont(family, "", bodySize)
		pdf.SetTextColor(0, 0, 0)
		for _, line := range lines {
			pdf.CellFormat(0, lineHeight, line, "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

// paginate splits lines into pages of at most perPage lines. An empty
// listing still yields one page.
func paginate(lines []string, perPage int) [][]string {
	if len(lines) == 0 {
		return [][]string{nil}
	}
	var pages [][]string
	for start := 0; start < len(lines); start += perPage {
		end := start + perPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	return pages
}
