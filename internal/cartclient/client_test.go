package cartclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddItemsPostsOneBatch(t *testing.T) {
	var got struct {
		Items []Item `json:"items"`
	}
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cart/add.js", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	err := c.AddItems(context.Background(), []Item{
		{ID: "v1", Quantity: 1},
		{ID: "v2", Quantity: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Len(t, got.Items, 2)
	require.Equal(t, "v2", got.Items[1].ID)
	require.Equal(t, 2, got.Items[1].Quantity)
}

func TestAddItemsNonSuccessBecomesAddError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"description":"Ring Mount is out of stock"}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	err := c.AddItems(context.Background(), []Item{{ID: "v1", Quantity: 1}})
	require.Error(t, err)

	var addErr *AddError
	require.True(t, errors.As(err, &addErr))
	require.Equal(t, http.StatusUnprocessableEntity, addErr.Status)
	require.Equal(t, "Ring Mount is out of stock", addErr.Description)
	require.True(t, addErr.OutOfStock())
}

func TestAddErrorDescriptionFallsBackToMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"quantity must be positive"}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	err := c.AddItems(context.Background(), []Item{{ID: "v1", Quantity: 1}})

	var addErr *AddError
	require.True(t, errors.As(err, &addErr))
	require.Equal(t, "quantity must be positive", addErr.Description)
	require.False(t, addErr.OutOfStock())
}

func TestOutOfStockMatchesKnownPhrases(t *testing.T) {
	cases := map[string]bool{
		"Sold OUT OF STOCK everywhere": true,
		"item not available":           true,
		"insufficient inventory":       true,
		"internal server error":        false,
		"":                             false,
	}
	for desc, want := range cases {
		e := &AddError{Status: 422, Description: desc}
		require.Equal(t, want, e.OutOfStock(), "description %q", desc)
	}
}

func TestGetCartDecodesItemCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/cart.js", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"item_count":7,"total_price":12345}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL + "/"}
	cart, err := c.GetCart(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, cart.ItemCount)
}

func TestGetCartRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	_, err := c.GetCart(context.Background())
	require.ErrorContains(t, err, "unexpected status 502")
}
