package formatter

import (
	"github.com/futig/parallel-universe/internal/entity"
	json "github.com/goccy/go-json"
)

const (
	jsonContentType   = "application/json"
	jsonFileExtension = ".json"
)

// JSONFormatter writes the result in the same shape the extractor reads.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (jf *JSONFormatter) Format(result *entity.SimulationResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func (jf *JSONFormatter) ContentType() string {
	return jsonContentType
}

func (jf *JSONFormatter) FileExtension() string {
	return jsonFileExtension
}
