package extract_test

import (
	"strings"
	"testing"

	"github.com/agentboard/agentboard/internal/extract"
)

func TestExtractPlainText(t *testing.T) {
	text, err := extract.Extract("text/plain", strings.NewReader("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world" {
		t.Errorf("want %q got %q", "hello world", text)
	}
}

func TestExtractCSV(t *testing.T) {
	text, err := extract.Extract("text/csv", strings.NewReader("a,b,c"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "a,b,c" {
		t.Errorf("want %q got %q", "a,b,c", text)
	}
}

func TestExtractHTML(t *testing.T) {
	page := `<html><head><title>skip</title><script>var x = 1;</script></head>
<body><h1>Heading</h1><p>First para.</p><p>Second para.</p></body></html>`
	text, err := extract.Extract("text/html", strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(text, "var x") {
		t.Errorf("script content should be stripped, got %q", text)
	}
	if !strings.Contains(text, "Heading") || !strings.Contains(text, "First para.") {
		t.Errorf("body text missing, got %q", text)
	}
}

func TestExtractUnknownType(t *testing.T) {
	text, err := extract.Extract("application/octet-stream", strings.NewReader("binary"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("unknown content type should return empty string, got %q", text)
	}
}

func TestExtractContentTypeParameters(t *testing.T) {
	text, err := extract.Extract("text/plain; charset=utf-8", strings.NewReader("body"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "body" {
		t.Errorf("content type parameters should be ignored, got %q", text)
	}
}

func TestPreview(t *testing.T) {
	if got := extract.Preview("short", 10); got != "short" {
		t.Errorf("short text should pass through, got %q", got)
	}
	if got := extract.Preview("abcdefghij", 4); got != "abcd..." {
		t.Errorf("want %q, got %q", "abcd...", got)
	}
	if got := extract.Preview("anything", 0); got != "" {
		t.Errorf("zero budget should return empty, got %q", got)
	}
}

func TestChunk(t *testing.T) {
	text := strings.Repeat("a", 10)

	chunks := extract.Chunk(text, 4, 1)
	// step of 3: [0:4] [3:7] [6:10]
	if len(chunks) != 3 {
		t.Fatalf("want 3 chunks, got %d: %v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if len(c) != 4 {
			t.Errorf("chunk %d has length %d, want 4", i, len(c))
		}
	}

	if chunks := extract.Chunk("", 4, 1); chunks != nil {
		t.Errorf("empty text should yield no chunks, got %v", chunks)
	}
	if chunks := extract.Chunk("abc", 10, 2); len(chunks) != 1 || chunks[0] != "abc" {
		t.Errorf("text shorter than size should be a single chunk, got %v", chunks)
	}
}

func TestChunkInvalidOverlap(t *testing.T) {
	// overlap >= size falls back to no overlap instead of looping.
	chunks := extract.Chunk(strings.Repeat("x", 6), 3, 5)
	if len(chunks) != 2 {
		t.Fatalf("want 2 chunks, got %d", len(chunks))
	}
}
