// Package cartclient talks to the remote cart service. Calls are not
// retried; transient failure handling is the submitter's concern.
package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Item is one cart-addressable id with a quantity.
type Item struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Cart is the subset of the cart service's read payload the configurator
// consumes.
type Cart struct {
	ItemCount int `json:"item_count"`
}

// Client defines the behaviour required to push selections into the cart.
type Client interface {
	AddItems(ctx context.Context, items []Item) error
	GetCart(ctx context.Context) (Cart, error)
}

// AddError is a non-2xx response from the add-items endpoint. Description
// carries the service's human-readable failure text when present.
type AddError struct {
	Status      int
	Description string
}

// Error implements the error interface.
func (e *AddError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("cart add failed (%d): %s", e.Status, e.Description)
	}
	return fmt.Sprintf("cart add failed (%d)", e.Status)
}

var stockPhrases = []string{"out of stock", "not available", "inventory"}

// OutOfStock reports whether the failure text indicates an availability
// rejection rather than a generic service error.
func (e *AddError) OutOfStock() bool {
	desc := strings.ToLower(e.Description)
	for _, phrase := range stockPhrases {
		if strings.Contains(desc, phrase) {
			return true
		}
	}
	return false
}

// HTTPClient implements Client against the cart service's JSON endpoints.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func (c *HTTPClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// AddItems posts the whole batch in a single request.
func (c *HTTPClient) AddItems(ctx context.Context, items []Item) error {
	payload, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/cart/add.js"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("cart add: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &AddError{Status: resp.StatusCode, Description: readDescription(resp.Body)}
}

// GetCart fetches the current cart state.
func (c *HTTPClient) GetCart(ctx context.Context) (Cart, error) {
	url := strings.TrimRight(c.BaseURL, "/") + "/cart.js"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Cart{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Cart{}, fmt.Errorf("cart read: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Cart{}, fmt.Errorf("cart read: unexpected status %d", resp.StatusCode)
	}
	var cart Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return Cart{}, fmt.Errorf("cart read: decode: %w", err)
	}
	return cart, nil
}

// readDescription extracts the failure text the service attaches to a
// rejected add. The field name varies between deployments.
func readDescription(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 8<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Description string `json:"description"`
		Message     string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	if payload.Description != "" {
		return payload.Description
	}
	return payload.Message
}
