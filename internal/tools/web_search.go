package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/agentboard/agentboard/internal/workflow"
)

// defaultSearchEndpoint is the HTML search frontend scraped by
// web_search. Overridable so tests can point at a local server.
const defaultSearchEndpoint = "https://html.duckduckgo.com/html/"

func webSearchDefinition() workflow.Tool {
	return workflow.Tool{
		Name:         "web_search",
		FunctionName: "web_search",
		Description:  "Search the web and return result titles, links, and snippets.",
		Parameters: map[string]workflow.ParameterSpec{
			"query": {
				Type:        workflow.TypeString,
				Description: "Search query",
				Required:    true,
			},
			"max_results": {
				Type:        workflow.TypeInteger,
				Description: "Maximum number of results to return",
				Default:     5,
			},
		},
		AlwaysAvailable: true,
	}
}

// WebSearchTool scrapes an HTML search frontend for result links.
type WebSearchTool struct {
	Endpoint string
	Client   *http.Client
}

func NewWebSearchTool() *WebSearchTool {
	return &WebSearchTool{
		Endpoint: defaultSearchEndpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *WebSearchTool) Handle(ctx context.Context, params map[string]any) (any, error) {
	query, _ := params["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	maxResults := 5
	if v, ok := params["max_results"].(int64); ok && v > 0 {
		maxResults = int(v)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(reqCtx, "POST", w.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Agentboard/1.0 (web search)")

	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var results []map[string]any
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		anchor := s.Find(".result__a").First()
		link, _ := anchor.Attr("href")
		title := strings.TrimSpace(anchor.Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		if title == "" || link == "" {
			return true
		}
		results = append(results, map[string]any{
			"title":   title,
			"link":    link,
			"snippet": snippet,
		})
		return len(results) < maxResults
	})

	return map[string]any{
		"query":        query,
		"results":      results,
		"result_count": len(results),
	}, nil
}
