package fakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"storemirror/internal/logger"
)

const (
	defaultBaseURL = "https://fakestoreapi.com"
	requestTimeout = 10 * time.Second

	// The upstream is a public service with no documented rate limits;
	// 5 req/s keeps a full sync polite.
	requestsPerSecond = 5
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

func NewClient(logger *logger.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:  logger,
	}
}

// Categories fetches the list of category names from the external API.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Products fetches up to limit products from the external API.
func (c *Client) Products(ctx context.Context, limit int) ([]Product, error) {
	path := fmt.Sprintf("/products?limit=%d", limit)

	var products []Product
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductByID fetches a single product. It returns (nil, nil) when the
// product does not exist upstream.
func (c *Client) ProductByID(ctx context.Context, id int64) (*Product, error) {
	path := fmt.Sprintf("/products/%d", id)

	var product Product
	err := c.getJSON(ctx, path, &product)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	// The upstream answers missing ids with an empty body instead of a 404.
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

// ProductsByCategory fetches all products belonging to a category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	path := "/products/category/" + url.PathEscape(category)

	var products []Product
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.code, e.body)
}

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &statusError{code: resp.StatusCode, body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("GET %s: %d bytes", path, len(body))
	return nil
}
