package searchconsole

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/searchconsole/v1"
)

const scopeReadonly = "https://www.googleapis.com/auth/webmasters.readonly"

// Query is one search query the site appeared for, with its aggregates.
type Query struct {
	Query       string
	Clicks      float64
	Impressions float64
	CTR         float64
	Position    float64
}

// PagePerformance is one indexed page and how it ranks.
type PagePerformance struct {
	Page        string
	Clicks      float64
	Impressions float64
	Position    float64
}

// Context is the bundle of search signals idea generation can condition on.
type Context struct {
	TopQueries           []Query
	UnderperformingPages []PagePerformance
}

// Client reads performance data for one verified property.
type Client struct {
	svc     *searchconsole.Service
	siteURL string
	days    int
}

// New builds a client from a service-account credentials file. The account
// must be added as a user on the Search Console property.
func New(ctx context.Context, credentialsFile, siteURL string, days int) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(data, scopeReadonly)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := searchconsole.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("search console service: %w", err)
	}
	if days <= 0 {
		days = 28
	}
	return &Client{svc: svc, siteURL: siteURL, days: days}, nil
}

func (c *Client) window() (string, string) {
	// Search Console data lags a couple of days behind.
	end := time.Now().UTC().AddDate(0, 0, -2)
	start := end.AddDate(0, 0, -c.days)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}

// Fetch gathers both signal sets in one call.
func (c *Client) Fetch(ctx context.Context, limit int) (*Context, error) {
	queries, err := c.TopQueries(ctx, limit)
	if err != nil {
		return nil, err
	}
	pages, err := c.UnderperformingPages(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &Context{TopQueries: queries, UnderperformingPages: pages}, nil
}

// TopQueries returns the site's best-performing search queries by clicks.
func (c *Client) TopQueries(ctx context.Context, limit int) ([]Query, error) {
	start, end := c.window()
	resp, err := c.svc.Searchanalytics.Query(c.siteURL, &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  start,
		EndDate:    end,
		Dimensions: []string{"query"},
		RowLimit:   int64(limit),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("query search analytics: %w", err)
	}

	out := make([]Query, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.Keys) == 0 {
			continue
		}
		out = append(out, Query{
			Query:       row.Keys[0],
			Clicks:      row.Clicks,
			Impressions: row.Impressions,
			CTR:         row.Ctr,
			Position:    row.Position,
		})
	}
	return out, nil
}

// UnderperformingPages returns pages with impressions but a weak average
// position, the ones a refreshed post could lift.
func (c *Client) UnderperformingPages(ctx context.Context, limit int) ([]PagePerformance, error) {
	start, end := c.window()
	resp, err := c.svc.Searchanalytics.Query(c.siteURL, &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  start,
		EndDate:    end,
		Dimensions: []string{"page"},
		RowLimit:   250,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("query search analytics: %w", err)
	}

	var out []PagePerformance
	for _, row := range resp.Rows {
		if len(row.Keys) == 0 {
			continue
		}
		// Page 2 and beyond with real impressions is the sweet spot.
		if row.Position > 10 && row.Impressions >= 10 {
			out = append(out, PagePerformance{
				Page:        row.Keys[0],
				Clicks:      row.Clicks,
				Impressions: row.Impressions,
				Position:    row.Position,
			})
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
