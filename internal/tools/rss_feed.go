package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agentboard/agentboard/internal/workflow"
	"github.com/mmcdole/gofeed"
)

func fetchRSSDefinition() workflow.Tool {
	return workflow.Tool{
		Name:         "fetch_rss",
		FunctionName: "fetch_rss",
		Description:  "Fetch and parse an RSS, Atom, or JSON feed. Returns structured items with title, link, published date, summary, and author.",
		Parameters: map[string]workflow.ParameterSpec{
			"url": {
				Type:        workflow.TypeString,
				Description: "URL of the RSS/Atom/JSON feed to fetch",
				Required:    true,
			},
			"max_items": {
				Type:        workflow.TypeInteger,
				Description: "Maximum number of items to return",
				Default:     10,
			},
			"since_date": {
				Type:        workflow.TypeString,
				Description: "Only return items published after this ISO 8601 date (e.g. 2026-02-20T00:00:00Z)",
			},
		},
		AlwaysAvailable: true,
	}
}

func fetchRSSHandler(ctx context.Context, params map[string]any) (any, error) {
	url, _ := params["url"].(string)

	maxItems := 0
	if v, ok := params["max_items"].(int64); ok && v > 0 {
		maxItems = int(v)
	}

	var sinceDate time.Time
	if v, ok := params["since_date"].(string); ok && v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid since_date format (use RFC3339): %w", err)
		}
		sinceDate = parsed
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: 30 * time.Second}

	feed, err := fp.ParseURLWithContext(url, reqCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch/parse feed: %w", err)
	}

	var items []map[string]any
	for _, item := range feed.Items {
		// When since_date is set, exclude items with no parseable date
		// and items older than the cutoff.
		if !sinceDate.IsZero() && (item.PublishedParsed == nil || item.PublishedParsed.Before(sinceDate)) {
			continue
		}

		published := ""
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC3339)
		} else if item.Published != "" {
			published = item.Published
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		items = append(items, map[string]any{
			"title":     item.Title,
			"link":      item.Link,
			"published": published,
			"summary":   item.Description,
			"author":    author,
		})

		if maxItems > 0 && len(items) >= maxItems {
			break
		}
	}

	return map[string]any{
		"items":      items,
		"feed_title": feed.Title,
		"feed_url":   feed.Link,
		"item_count": len(items),
	}, nil
}
