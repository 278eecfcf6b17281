package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/parallel-universe/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(result *entity.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)

	for _, item := range result.Timeline {
		fmt.Fprintf(&buf, "## %s\n\n%s\n\n", heading(item), strings.TrimSpace(item.Contents))
	}

	fmt.Fprintf(&buf, "---\n\n> %s\n", strings.ReplaceAll(strings.TrimSpace(result.LastMessage), "\n", "\n> "))
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
