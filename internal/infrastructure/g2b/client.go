package g2b

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bidwatch/backend/internal/domain"
)

const (
	// pageSize is fixed by the upstream API contract
	pageSize = 100

	// maxPages bounds pagination against API misbehavior: at most 1000
	// records per endpoint per run
	maxPages = 10
)

// Client handles communication with the nara G2B bid notice list API
type Client struct {
	httpClient  *http.Client
	serviceKey  string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new bid notice API client
func NewClient(serviceKey, baseURL string) *Client {
	// data.go.kr enforces a daily quota per service key; 5 req/s with a
	// small burst keeps a full run well under it
	limiter := rate.NewLimiter(rate.Limit(5), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		serviceKey:  serviceKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles per-page request logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// FetchEndpoint retrieves every raw record one category endpoint has for the
// [start, end] window, following pagination up to the page cap. On a
// transport or decode failure it returns the pages accumulated so far along
// with a wrapped ErrEndpointFetch; the caller decides whether that is fatal.
func (c *Client) FetchEndpoint(ctx context.Context, ep domain.Endpoint, start, end time.Time) ([]domain.RawRecord, error) {
	var records []domain.RawRecord

	for page := 1; page <= maxPages; page++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return records, fmt.Errorf("%w: %s: rate limiter: %v", domain.ErrEndpointFetch, ep.Name, err)
		}

		reqURL := c.pageURL(ep, page, start, end)
		c.debugLog("GET %s page %d", ep.Name, page)

		items, err := c.fetchPage(ctx, reqURL)
		if err != nil {
			return records, fmt.Errorf("%w: %s page %d: %v", domain.ErrEndpointFetch, ep.Name, page, err)
		}

		// The natural key is endpoint-scoped, so tag before handing off
		for _, item := range items {
			item["endpoint"] = ep.Name
			records = append(records, item)
		}

		// A short page means the listing is exhausted
		if len(items) < pageSize {
			break
		}
	}

	return records, nil
}

// pageURL builds the request URL for one page of one endpoint. The window is
// sent as inclusive start-of-day/end-of-day timestamps in the API's
// YYYYMMDDHHmm format.
func (c *Client) pageURL(ep domain.Endpoint, page int, start, end time.Time) string {
	params := url.Values{}
	params.Add("serviceKey", c.serviceKey)
	params.Add("type", "json")
	params.Add("pageNo", fmt.Sprintf("%d", page))
	params.Add("numOfRows", fmt.Sprintf("%d", pageSize))
	params.Add("inqryDiv", "1")
	params.Add("inqryBgnDt", start.Format("20060102")+"0000")
	params.Add("inqryEndDt", end.Format("20060102")+"2359")

	return fmt.Sprintf("%s%s?%s", c.baseURL, ep.Path, params.Encode())
}

// fetchPage executes one page request and normalizes the envelope to a flat
// item list
func (c *Client) fetchPage(ctx context.Context, reqURL string) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}

	return extractItems(body), nil
}

// debugLog logs a message only when debug mode is enabled
func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		log.Printf("[G2B] "+format, args...)
	}
}
