package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// skipTags are HTML elements whose text content should be excluded.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
}

// htmlText walks an HTML token stream and returns the readable body
// text with tags removed.
func htmlText(data []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(data))
	var (
		text        strings.Builder
		skipDepth   int
		lastWasText bool
	)

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			// Treat parse errors as end-of-input; return what we have.
			return strings.TrimSpace(text.String()), nil

		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if skipTags[tag] {
				skipDepth++
			}
			if isBlockTag(tag) && lastWasText {
				text.WriteString("\n")
				lastWasText = false
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if skipTags[string(tn)] && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			content := strings.TrimSpace(string(tokenizer.Text()))
			if content == "" {
				continue
			}
			if skipDepth == 0 {
				if lastWasText {
					text.WriteString(" ")
				}
				text.WriteString(content)
				lastWasText = true
			}
		}
	}
}

func isBlockTag(tag string) bool {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6",
		"li", "br", "hr", "blockquote", "pre", "article",
		"section", "header", "footer", "nav", "main", "tr":
		return true
	}
	return false
}
