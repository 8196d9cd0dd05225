// Package export renders a Minutes of Meeting text into downloadable documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Format is a downloadable output format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

const baseFileName = "Minutes_of_Meeting"

// ErrUnknownFormat is returned for output formats other than docx and pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Document is an in-memory export buffer ready for download.
type Document struct {
	Format      Format
	FileName    string
	ContentType string
	Body        *bytes.Reader
}

// Size returns the total size of the serialized document.
func (d Document) Size() int64 {
	if d.Body == nil {
		return 0
	}
	return d.Body.Size()
}

// ParseFormat accepts "docx" or "pdf", case-insensitively, with or without a leading dot.
func ParseFormat(raw string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".") {
	case "docx", "word":
		return FormatDOCX, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// FileName is the download name offered for the format.
func (f Format) FileName() string {
	return baseFileName + "." + string(f)
}

// ContentType is the media type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Render dispatches to the exporter for f.
func Render(f Format, text string) (Document, error) {
	switch f {
	case FormatDOCX:
		return DOCX(text)
	case FormatPDF:
		return PDF(text)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Lines splits text on newline boundaries. Empty lines are kept.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

func newDocument(f Format, data []byte) Document {
	return Document{
		Format:      f,
		FileName:    f.FileName(),
		ContentType: f.ContentType(),
		Body:        bytes.NewReader(data),
	}
}
