package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// docxText opens the DOCX container and flattens word/document.xml to
// plain text, one line per paragraph.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	doc, err := zr.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("docx has no document part: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	dec := xml.NewDecoder(doc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Truncated XML still yields whatever came before it.
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "p":
			b.WriteByte('\n')
		case "t":
			var run struct {
				Text string `xml:",chardata"`
			}
			if err := dec.DecodeElement(&run, &start); err == nil {
				b.WriteString(run.Text)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// xlsxText renders every sheet as tab-separated rows. Empty rows are
// dropped so sparse spreadsheets do not produce walls of blank lines.
func xlsxText(data []byte) (string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer book.Close()

	var b strings.Builder
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			line := strings.Join(row, "\t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String()), nil
}
