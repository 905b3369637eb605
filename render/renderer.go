// Package render turns assessment reports into downloadable documents.
package render

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"loan-risk/domain"
)

// Renderer writes a report in one document format. Layout is entirely the
// renderer's concern; the report only supplies sanitized text and fields.
type Renderer interface {
	Render(w io.Writer, report domain.Report) error
	ContentType() string
	Extension() string
}

const (
	FormatText = "text"
	FormatXLSX = "xlsx"
)

// ForFormat returns the renderer for format.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText, "txt":
		return NewTextRenderer(), nil
	case FormatXLSX:
		return NewXLSXRenderer(), nil
	default:
		return nil, eris.Errorf("render: unsupported format %q", format)
	}
}

// FileName is the suggested download name for report.
func FileName(r Renderer, report domain.Report) string {
	return "loan_report_" + shortID(report.ID) + "." + r.Extension()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "report"
	}
	return id
}
