// Package brapi is a client for the brapi.dev quote API, which covers instruments listed
// on B3 and their dividend history.
package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
)

// DefaultBaseURL is the public brapi.dev endpoint.
const DefaultBaseURL = "https://brapi.dev"

const moduleDividends = "dividendsData"

// Client fetches quotes and dividend history. Responses are cached for a short time,
// keyed by symbols and modules; the token is not part of the key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	cache      *cache.Cache
}

// NewClient creates a brapi client. A zero cacheTTL disables response caching.
func NewClient(baseURL, token string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
	if cacheTTL > 0 {
		c.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return c
}

// Quotes fetches the latest quote for each symbol.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]Quote, error) {
	return c.query(ctx, symbols, "")
}

// DividendHistory fetches quotes including their cash dividend history.
func (c *Client) DividendHistory(ctx context.Context, symbols []string) ([]Quote, error) {
	return c.query(ctx, symbols, moduleDividends)
}

func (c *Client) query(ctx context.Context, symbols []string, module string) ([]Quote, error) {
	if len(symbols) == 0 {
		return []Quote{}, nil
	}

	params := url.Values{}
	if module != "" {
		params.Set("modules", module)
	}
	endpoint := fmt.Sprintf("%s/api/quote/%s", c.baseURL, url.PathEscape(strings.Join(symbols, ",")))
	cacheKey := endpoint + "?" + params.Encode()

	if c.cache != nil {
		if cached, found := c.cache.Get(cacheKey); found {
			return cached.([]Quote), nil
		}
	}

	if c.token != "" {
		params.Set("token", c.token)
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: brapi returned status %d", apperrors.ErrFeedUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFeedUnavailable, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidFeedPayload, err)
	}
	if response.Results == nil {
		return nil, fmt.Errorf("%w: missing results", apperrors.ErrInvalidFeedPayload)
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, response.Results, cache.DefaultExpiration)
	}
	return response.Results, nil
}
