package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimeText = "text/plain"
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
)

// Kind is a supported transcript source format.
type Kind string

const (
	KindText Kind = "txt"
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

var (
	// ErrUnsupported marks an upload whose content is none of the supported formats.
	// Callers treat it as an absent transcript rather than a failure.
	ErrUnsupported = errors.New("unsupported transcript format")
	// ErrFormatMismatch is returned when an explicitly selected format disagrees with the content.
	ErrFormatMismatch = errors.New("selected source format does not match file content")
	// ErrInvalidEncoding is returned for plain text that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("transcript is not valid UTF-8")
)

// Upload is a single uploaded transcript file.
type Upload struct {
	FileName     string
	DeclaredType string
	Data         []byte
	// Format is an optional user-selected source format. Empty means sniff only.
	Format Kind
}

// Result is the outcome of a successful extraction.
type Result struct {
	Text         string
	Kind         Kind
	DetectedType string
	// DeclaredMismatch reports that the client's declared media type named a different format.
	DeclaredMismatch bool
}

// MimeType returns the canonical media type of the kind.
func (k Kind) MimeType() string {
	switch k {
	case KindText:
		return mimeText
	case KindPDF:
		return mimePDF
	case KindDOCX:
		return mimeDOCX
	default:
		return ""
	}
}

// ParseKind accepts extensions ("txt", ".pdf") and media types. Empty input yields "".
func ParseKind(raw string) (Kind, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
	clean = strings.TrimPrefix(clean, ".")
	switch clean {
	case "":
		return "", nil
	case "txt", "text", mimeText:
		return KindText, nil
	case "pdf", mimePDF:
		return KindPDF, nil
	case "docx", mimeDOCX:
		return KindDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, clean)
	}
}

// Extract sniffs the upload's content and pulls plain text out of it.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Extract(ctx context.Context, up Upload) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	kind, detected := Detect(up.Data)
	declared := declaredKind(up.DeclaredType, up.FileName, up.Data)
	// Signatures like "BM" or "MZ" are also ordinary speaker initials. Text
	// the client called text stays text unless it sniffs as PDF or DOCX.
	if kind == "" && (declared == KindText || up.Format == KindText) && utf8.Valid(up.Data) {
		kind = KindText
	}
	res := Result{Kind: kind, DetectedType: detected}
	if declared != "" && kind != "" && declared != kind {
		res.DeclaredMismatch = true
	}

	if up.Format != "" && up.Format != kind {
		return res, fmt.Errorf("%w: selected %s, content is %s", ErrFormatMismatch, up.Format, detected)
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindText:
		text, err = extractText(up.Data)
	case KindPDF:
		text, err = extractPDF(up.Data)
	case KindDOCX:
		text, err = extractDOCX(up.Data)
	default:
		return res, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}
	if err != nil {
		return res, fmt.Errorf("extract %s file=%s: %w", kind, up.FileName, err)
	}
	res.Text = text
	return res, nil
}

// Detect classifies data by content. Text-derived types (CSV, HTML, subtitles) count as text.
func Detect(data []byte) (Kind, string) {
	if len(data) == 0 {
		return KindText, mimeText
	}
	m := mimetype.Detect(data)
	detected := m.String()
	for mt := m; mt != nil; mt = mt.Parent() {
		switch {
		case mt.Is(mimePDF):
			return KindPDF, detected
		case mt.Is(mimeDOCX):
			return KindDOCX, detected
		case mt.Is(mimeText):
			return KindText, detected
		case mt.Is(mimeZip):
			if mapOOXMLFromZip(data) == mimeDOCX {
				return KindDOCX, mimeDOCX
			}
			return "", detected
		}
	}
	return "", detected
}

func declaredKind(declared, fileName string, data []byte) Kind {
	kind, err := ParseKind(normalizeMimeType(declared, fileName, data))
	if err != nil {
		return ""
	}
	return kind
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}
	return string(data), nil
}

func extractPDF(data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		buf.WriteString(pageText)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent())
}

// stripDocxXML keeps the visible run text of document.xml. Paragraph ends and
// breaks become newlines, tabs become \t.
func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		buf    strings.Builder
		inText bool
		inTabs int
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tabs":
				inTabs++
			case "tab":
				if inTabs == 0 {
					buf.WriteString("\t")
				}
			case "br", "cr":
				buf.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabs--
			case "p":
				buf.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != mimeZip && clean != "application/octet-stream" && clean != "" {
		return clean
	}

	if clean == mimeZip {
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return mimeDOCX
	case ".pdf":
		return mimePDF
	case ".txt":
		return mimeText
	default:
		return clean
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		switch name {
		case "word/document.xml":
			return mimeDOCX
		case "xl/workbook.xml":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "ppt/presentation.xml":
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	}
	return ""
}
