package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/parallel-universe/internal/entity"
)

const baseTitle = "Parallel Universe"

// Formatter renders a simulation result as a downloadable document.
type Formatter interface {
	Format(result *entity.SimulationResult) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	pdf  *PDFFormatter
	docx bool
}

type FactoryOption func(*Factory)

// WithPDFFormatter replaces the PDF formatter built on the bundled font.
func WithPDFFormatter(pdf *PDFFormatter) FactoryOption {
	return func(f *Factory) {
		f.pdf = pdf
	}
}

// WithDOCX enables DOCX output. Call ActivateDOCXLicense first.
func WithDOCX() FactoryOption {
	return func(f *Factory) {
		f.docx = true
	}
}

func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{pdf: NewPDFFormatter()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	case entity.FormatDOCX:
		if !f.docx {
			return nil, fmt.Errorf("%w: docx export needs a license key", entity.ErrUnsupportedFormat)
		}
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return f.pdf, nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// heading prefixes the item title with its year unless the title already starts with it.
func heading(item entity.TimelineItem) string {
	year := item.Year()
	if strings.HasPrefix(item.Title, year) {
		return item.Title
	}
	return year + " · " + item.Title
}
