package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/gomutex/godocx"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, doc Document) []byte {
	t.Helper()
	data, err := io.ReadAll(doc.Body)
	require.NoError(t, err)
	return data
}

func documentXML(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return body
	}
	t.Fatalf("word/document.xml not found")
	return nil
}

func countParagraphs(t *testing.T, docXML []byte) int {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(docXML))
	count := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return count
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "p" {
			count++
		}
	}
}

func baselineParagraphs(t *testing.T) int {
	t.Helper()
	doc, err := godocx.NewDocument()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	return countParagraphs(t, documentXML(t, buf.Bytes()))
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"docx": FormatDOCX, ".PDF": FormatPDF, " pdf ": FormatPDF, "word": FormatDOCX}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("odt")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFileNames(t *testing.T) {
	require.Equal(t, "Minutes_of_Meeting.docx", FormatDOCX.FileName())
	require.Equal(t, "Minutes_of_Meeting.pdf", FormatPDF.FileName())
	require.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestDOCXParagraphPerLine(t *testing.T) {
	base := baselineParagraphs(t)
	inputs := []string{
		"single line",
		"first\n\nthird",
		"trailing newline\n",
		"",
	}
	for _, in := range inputs {
		doc, err := DOCX(in)
		require.NoError(t, err)
		require.Equal(t, "Minutes_of_Meeting.docx", doc.FileName)

		data := readAll(t, doc)
		require.NotEmpty(t, data)
		got := countParagraphs(t, documentXML(t, data)) - base
		require.Equal(t, strings.Count(in, "\n")+1, got, "input %q", in)
	}
}

func TestDOCXKeepsLineText(t *testing.T) {
	doc, err := DOCX("Agenda:\nBudget & <plans>")
	require.NoError(t, err)
	dec := xml.NewDecoder(bytes.NewReader(documentXML(t, readAll(t, doc))))
	var runs []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if cd, ok := tok.(xml.CharData); ok && strings.TrimSpace(string(cd)) != "" {
			runs = append(runs, string(cd))
		}
	}
	require.Contains(t, runs, "Agenda:")
	require.Contains(t, runs, "Budget & <plans>")
}

func TestPDFRendersReadableText(t *testing.T) {
	doc, err := PDF("Discussion Summary:\nWe discussed Q3 budget.")
	require.NoError(t, err)
	require.Equal(t, "application/pdf", doc.ContentType)

	data := readAll(t, doc)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, 1, r.NumPage())
	text, err := r.Page(1).GetPlainText(nil)
	require.NoError(t, err)
	require.Contains(t, text, "We discussed Q3 budget.")
}

func TestPDFBreaksLongInputAcrossPages(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "line of minutes"
	}
	doc, err := PDF(strings.Join(lines, "\n"))
	require.NoError(t, err)

	data := readAll(t, doc)
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Greater(t, r.NumPage(), 1)
}

func TestPDFMarkupCharactersAreLiteral(t *testing.T) {
	doc, err := PDF("<b>bold?</b> & 5 < 6\nnon-latin: 会议 ✓")
	require.NoError(t, err)
	require.Positive(t, doc.Size())
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(Format("odt"), "x")
	require.ErrorIs(t, err, ErrUnknownFormat)
}
