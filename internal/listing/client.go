package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/simp-lee/catalog/internal/domain"
)

// ProductsPath is the listing service route serving the whole collection.
const ProductsPath = "/api/products"

// failedFetchMessage is shown to the user whatever the underlying cause.
const failedFetchMessage = "Failed to fetch products"

// Client fetches the product collection from a running listing service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the service at baseURL. A nil httpClient
// uses a client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// FetchProducts issues one GET for the collection. The request is bound to
// ctx; cancelling ctx aborts it. Non-2xx responses and transport failures are
// reported as domain.CodeUnavailable errors.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ProductsPath, nil)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUnavailable, failedFetchMessage, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUnavailable, failedFetchMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewAppError(domain.CodeUnavailable, failedFetchMessage,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, domain.NewAppError(domain.CodeUnavailable, failedFetchMessage,
			fmt.Errorf("decode response: %w", err))
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
