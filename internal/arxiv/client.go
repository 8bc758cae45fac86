// Package arxiv is a thin client for the arXiv query API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the arXiv query API endpoint.
	BaseURL = "https://export.arxiv.org/api/query"

	// DefaultTimeout is the HTTP request timeout for a single query.
	DefaultTimeout = 30 * time.Second

	// DefaultDelay is the pause arXiv asks clients to keep between calls.
	DefaultDelay = 3 * time.Second

	DefaultMaxResults = 20
	MaxResultsLimit   = 100
)

// DefaultCategories is searched when neither a query nor categories are given.
var DefaultCategories = []string{"cs.AI", "cs.LG", "cs.CL", "cs.CV"}

// Sort modes accepted by SearchParams.SortBy
const (
	SortRelevance = "relevance"
	SortDate      = "date"
	SortUpdated   = "updated"
)

// SearchParams describes one search against arXiv.
type SearchParams struct {
	Query      string
	Categories []string
	DateFrom   string // YYYY-MM-DD, inclusive
	DateTo     string // YYYY-MM-DD, inclusive
	SortBy     string
	Start      int
	MaxResults int
	IDs        []string
}

// Paper is the uniform record built from an arXiv entry.
type Paper struct {
	ID            string   `json:"id"`
	ArxivID       string   `json:"arxiv_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract"`
	Categories    []string `json:"categories"`
	PublishedDate string   `json:"published_date"`
	PDFURL        string   `json:"pdf_url"`
	SourceURL     string   `json:"source_url"`
}

// Client queries arXiv. Failures never reach the caller: they are logged and
// an empty result is returned.
type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithDelay sets the pause taken after every call.
func WithDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.delay = d
	}
}

// NewClient creates a new arXiv client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
		delay:      DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Concurrent requests share one slot per delay; a sequential caller is
	// already paced by the post-call sleep and never waits here.
	limit := rate.Inf
	if c.delay > 0 {
		limit = rate.Every(c.delay)
	}
	c.limiter = rate.NewLimiter(limit, 1)

	return c
}

// Search runs one query and returns the matching papers.
func (c *Client) Search(ctx context.Context, params SearchParams) []Paper {
	if err := c.limiter.Wait(ctx); err != nil {
		log.Printf("Error fetching papers from arXiv: %v", err)
		return []Paper{}
	}
	defer c.pause(ctx)

	papers, err := c.fetch(ctx, params)
	if err != nil {
		log.Printf("Error fetching papers from arXiv: %v", err)
		return []Paper{}
	}
	return filterByDate(papers, params.DateFrom, params.DateTo)
}

// GetPaper returns a single paper by its arXiv id, or nil if none matched.
func (c *Client) GetPaper(ctx context.Context, id string) *Paper {
	papers := c.Search(ctx, SearchParams{IDs: []string{id}, MaxResults: 1})
	if len(papers) == 0 {
		return nil
	}
	return &papers[0]
}

func (c *Client) fetch(ctx context.Context, params SearchParams) ([]Paper, error) {
	reqURL := c.baseURL + "?" + buildQuery(params).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, parseAtomEntry(entry))
	}
	return papers, nil
}

// pause sleeps for the configured delay unless ctx ends first.
func (c *Client) pause(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// buildQuery turns params into arXiv API query parameters.
func buildQuery(params SearchParams) url.Values {
	values := url.Values{}

	if len(params.IDs) > 0 {
		values.Set("id_list", strings.Join(params.IDs, ","))
	} else {
		values.Set("search_query", searchQuery(params.Query, params.Categories))
	}

	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}
	start := params.Start
	if start < 0 {
		start = 0
	}

	values.Set("start", strconv.Itoa(start))
	values.Set("max_results", strconv.Itoa(maxResults))
	values.Set("sortBy", sortParam(params.SortBy))
	values.Set("sortOrder", "descending")
	return values
}

func searchQuery(query string, categories []string) string {
	var terms []string

	if query = strings.TrimSpace(query); query != "" {
		terms = append(terms, fmt.Sprintf(`all:"%s"`, query))
	}

	if len(categories) > 0 {
		terms = append(terms, categoryClause(categories))
	}

	if len(terms) == 0 {
		terms = append(terms, categoryClause(DefaultCategories))
	}

	return strings.Join(terms, " AND ")
}

func categoryClause(categories []string) string {
	parts := make([]string, 0, len(categories))
	for _, cat := range categories {
		parts = append(parts, "cat:"+cat)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func sortParam(sortBy string) string {
	switch sortBy {
	case SortDate:
		return "submittedDate"
	case SortUpdated:
		return "lastUpdatedDate"
	default:
		return "relevance"
	}
}

// filterByDate drops papers published outside [from, to]. Papers whose date
// cannot be parsed are kept.
func filterByDate(papers []Paper, from, to string) []Paper {
	if from == "" && to == "" {
		return papers
	}

	var fromDate, toDate time.Time
	var err error
	if from != "" {
		if fromDate, err = time.Parse("2006-01-02", from); err != nil {
			return papers
		}
	}
	if to != "" {
		if toDate, err = time.Parse("2006-01-02", to); err != nil {
			return papers
		}
	}

	filtered := make([]Paper, 0, len(papers))
	for _, p := range papers {
		if len(p.PublishedDate) < 10 {
			filtered = append(filtered, p)
			continue
		}
		published, err := time.Parse("2006-01-02", p.PublishedDate[:10])
		if err != nil {
			filtered = append(filtered, p)
			continue
		}
		if from != "" && published.Before(fromDate) {
			continue
		}
		if to != "" && published.After(toDate) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
