package report

import (
	"strings"

	apperrors "troskovi/internal/errors"
)

// Format identifies an export document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported export format.
var Formats = []Format{FormatPDF, FormatDOCX, FormatXLSX}

// ParseFormat accepts a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", apperrors.WithMessage(apperrors.ErrUnsupportedFormat, "unsupported export format: "+s)
}

// Extension is the file extension without the dot.
func (f Format) Extension() string { return string(f) }

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}
