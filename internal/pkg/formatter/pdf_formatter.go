package formatter

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"unicode"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	pdfFontName = "ResultFont"
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	defaultFontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	defaultFontBold []byte
)

// PDFFormatter renders results with a UTF-8 TrueType font. Results holding
// characters the font cannot draw are refused with ErrUnsupportedFormat.
type PDFFormatter struct {
	regular []byte
	bold    []byte
	covers  func(r rune) bool
}

// NewPDFFormatter uses the bundled DejaVu Sans font. It covers Latin, Greek
// and Cyrillic scripts but no CJK ideographs, kana or Hangul.
func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{
		regular: defaultFontRegular,
		bold:    defaultFontBold,
		covers:  defaultFontCovers,
	}
}

// LoadPDFFormatter uses the TrueType font at path for every style, e.g.
// NotoSansKR-Regular.ttf for Korean results.
func LoadPDFFormatter(path string) (*PDFFormatter, error) {
	ttf, err := gofpdf.TtfParse(path)
	if err != nil {
		return nil, fmt.Errorf("parse pdf font %s: %w", path, err)
	}
	if !ttf.Embeddable {
		return nil, fmt.Errorf("pdf font %s does not allow embedding", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf font %s: %w", path, err)
	}

	return &PDFFormatter{
		regular: data,
		bold:    data,
		covers:  cmapCovers(ttf.Chars),
	}, nil
}

func defaultFontCovers(r rune) bool {
	return !unicode.In(r, unicode.Han, unicode.Hangul, unicode.Hiragana, unicode.Katakana)
}

func cmapCovers(chars map[uint16]uint16) func(rune) bool {
	return func(r rune) bool {
		if r > 0xFFFF {
			return false
		}
		_, ok := chars[uint16(r)]
		return ok
	}
}

func (mf *PDFFormatter) Format(result *entity.SimulationResult) ([]byte, error) {
	if r, ok := mf.missingGlyph(result); ok {
		return nil, fmt.Errorf("%w: pdf font has no glyph for %q (U+%04X)", entity.ErrUnsupportedFormat, r, r)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFontName, "", mf.regular)
	pdf.AddUTF8FontFromBytes(pdfFontName, "B", mf.bold)
	pdf.AddPage()

	pdf.SetFont(pdfFontName, "B", 20)
	pdf.Cell(0, 10, baseTitle)
	pdf.Ln(14)

	for _, item := range result.Timeline {
		pdf.SetFont(pdfFontName, "B", 14)
		pdf.MultiCell(0, 8, heading(item), "", "", false)
		pdf.Ln(2)

		pdf.SetFont(pdfFontName, "", 12)
		_, lineHeight := pdf.GetFontSize()
		pdf.MultiCell(0, lineHeight*1.5, item.Contents, "", "", false)
		pdf.Ln(6)
	}

	pdf.SetFont(pdfFontName, "B", 12)
	_, lineHeight := pdf.GetFontSize()
	pdf.MultiCell(0, lineHeight*1.5, result.LastMessage, "T", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) missingGlyph(result *entity.SimulationResult) (rune, bool) {
	texts := make([]string, 0, 2*len(result.Timeline)+2)
	texts = append(texts, baseTitle, result.LastMessage)
	for _, item := range result.Timeline {
		texts = append(texts, heading(item), item.Contents)
	}

	for _, text := range texts {
		for _, r := range text {
			if unicode.IsSpace(r) || unicode.IsControl(r) {
				continue
			}
			if !mf.covers(r) {
				return r, true
			}
		}
	}
	return 0, false
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
