package extract

import (
	"fmt"
	"io"
	"strings"
)

// Extract reads r and returns a text representation of the content.
// Returns ("", nil) for unsupported content types; the body is read
// only when a converter for the type exists.
func Extract(contentType string, r io.Reader) (string, error) {
	mime := strings.SplitN(contentType, ";", 2)[0]
	mime = strings.TrimSpace(strings.ToLower(mime))

	var convert func([]byte) (string, error)
	switch {
	case mime == "text/html":
		convert = htmlText
	case strings.HasPrefix(mime, "text/"):
		convert = func(data []byte) (string, error) {
			return strings.TrimSpace(string(data)), nil
		}
	case mime == "application/pdf":
		convert = pdfText
	case mime == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		convert = docxText
	case mime == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		convert = xlsxText
	default:
		return "", nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return convert(data)
}

// Preview returns the first n characters of text, cut at a rune
// boundary, with an ellipsis when truncated.
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// Chunk splits text into overlapping pieces for downstream indexing.
// size is the maximum chunk length in runes; overlap is how much of the
// previous chunk's tail each chunk repeats.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
