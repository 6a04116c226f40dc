package render

import (
	"fmt"

	"github.com/s-oshima-kops/automakedoc/internal/apperr"
)

// Format selects the output encoding. It is caller-supplied; a schema's
// output_format is only an advisory hint for the selection UI.
type Format string

const (
	FormatText Format = "text" // headed plain text
	FormatCSV  Format = "csv"  // one row per leaf value
	FormatXLSX Format = "xlsx" // single-sheet workbook
	FormatDocx Format = "docx" // word-processor document
)

// ParseFormat validates a caller-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatCSV, FormatXLSX, FormatDocx:
		return Format(s), nil
	}
	return "", fmt.Errorf("render: output format %q: %w", s, apperr.ErrInvalidArgument)
}

// Extension returns the suggested file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatDocx:
		return "docx"
	}
	return "bin"
}
