package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/suggest"
)

func TestCategorize(t *testing.T) {
	var got suggest.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/categorize-expense", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictedCategory": "Groceries",
			"confidence":        0.82,
			"reason":            "matched keyword: market",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	out, err := client.Categorize(context.Background(), suggest.Request{
		Description: "weekly market run",
		Amount:      85,
		Categories:  []model.CategoryKeywords{{Name: "Groceries", Keywords: []string{"market"}}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Groceries", out.Name)
	assert.InDelta(t, 0.82, out.Confidence, 0.001)
	assert.Equal(t, "weekly market run", got.Description)
	require.Len(t, got.Categories, 1)
}

func TestCategorizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Categorize(context.Background(), suggest.Request{Description: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCategorizeMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Categorize(context.Background(), suggest.Request{Description: "abc"})
	require.Error(t, err)
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").baseURL)
	assert.Equal(t, "http://svc:9000", NewClient("http://svc:9000/").baseURL)
}
