package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

// ActivateDOCXLicense registers a metered unioffice key. Documents cannot be
// saved until a key is active.
func ActivateDOCXLicense(key string) error {
	if key == "" {
		return fmt.Errorf("docx license key is empty")
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("activate docx license: %w", err)
	}
	return nil
}

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(result *entity.SimulationResult) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Title")
	titlePar.AddRun().AddText(baseTitle)

	for _, item := range result.Timeline {
		headingPar := doc.AddParagraph()
		headingPar.SetStyle("Heading1")
		headingPar.AddRun().AddText(heading(item))

		doc.AddParagraph().AddRun().AddText(item.Contents)
	}

	doc.AddParagraph()

	closingRun := doc.AddParagraph().AddRun()
	closingRun.Properties().SetItalic(true)
	closingRun.AddText(result.LastMessage)

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
