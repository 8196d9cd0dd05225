package export

import (
	"bytes"
	"fmt"

	"github.com/gomutex/godocx"
)

// DOCX writes each line of text as one paragraph of a new Word document.
func DOCX(text string) (Document, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return Document{}, fmt.Errorf("new docx: %w", err)
	}

	for _, line := range Lines(text) {
		doc.AddParagraph(line)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return Document{}, fmt.Errorf("write docx: %w", err)
	}
	return newDocument(FormatDOCX, buf.Bytes()), nil
}
