package entity

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatJSON     ResultFormat = "json"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}
