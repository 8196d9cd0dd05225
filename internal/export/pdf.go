package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Normal paragraph style: Helvetica 10pt on 12pt leading, A4 with one-inch margins.
const (
	pdfFont     = "Helvetica"
	pdfFontSize = 10
	pdfLeading  = 12
	pdfMargin   = 72
)

// pdfEpoch pins document metadata so identical text renders identical bytes.
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// PDF lays out each line of text as a paragraph with automatic page breaks.
// Text is drawn literally; there is no markup layer to escape.
func PDF(text string) (Document, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)
	doc.SetCreationDate(pdfEpoch)
	doc.SetModificationDate(pdfEpoch)
	doc.SetTitle(baseFileName, true)
	doc.SetFont(pdfFont, "", pdfFontSize)
	doc.AddPage()

	// Core fonts are cp1252; runes outside it are transliterated.
	translate := doc.UnicodeTranslatorFromDescriptor("")
	for _, line := range Lines(text) {
		if line == "" {
			doc.Ln(pdfLeading)
			continue
		}
		doc.MultiCell(0, pdfLeading, translate(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("write pdf: %w", err)
	}
	return newDocument(FormatPDF, buf.Bytes()), nil
}
