package serper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"policy-crew/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig("serper-key")
	cfg.BaseURL = server.URL
	return NewClient(cfg)
}

func TestSearch_ParsesOrganicAnswerAndKnowledgeGraph(t *testing.T) {
	var got searchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "serper-key", r.Header.Get("X-API-KEY"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"answerBox": {"answer": "A framework for AI risk"},
			"knowledgeGraph": {"title": "NIST", "type": "Agency", "description": "US standards body"},
			"organic": [
				{"title": "AI RMF", "link": "https://nist.gov/ai", "snippet": "Risk management", "position": 1},
				{"title": "OMB memo", "link": "https://whitehouse.gov/omb", "snippet": "Federal guidance"}
			]
		}`))
	})

	resp, err := client.Search(context.Background(), entity.SearchQuery{Query: "  AI governance  ", Num: 5})
	require.NoError(t, err)

	assert.Equal(t, "AI governance", got.Q)
	assert.Equal(t, 5, got.Num)

	assert.Equal(t, "AI governance", resp.Query)
	assert.Equal(t, "A framework for AI risk", resp.Answer)
	assert.Equal(t, "NIST (Agency): US standards body", resp.KnowledgeGraph)
	require.Len(t, resp.Hits, 2)
	assert.Equal(t, 1, resp.Hits[0].Position)
	assert.Equal(t, 2, resp.Hits[1].Position)
	assert.Equal(t, "https://whitehouse.gov/omb", resp.Hits[1].Link)
}

func TestSearch_ClampsResultCount(t *testing.T) {
	var got searchRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"organic": []}`))
	})

	_, err := client.Search(context.Background(), entity.SearchQuery{Query: "q", Num: 500})
	require.NoError(t, err)
	assert.Equal(t, maxResults, got.Num)

	_, err = client.Search(context.Background(), entity.SearchQuery{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, DefaultResults, got.Num)
}

func TestSearch_EmptyQueryIsNotAnExternalFailure(t *testing.T) {
	client := NewClient(DefaultConfig("k"))

	_, err := client.Search(context.Background(), entity.SearchQuery{Query: "   "})
	require.Error(t, err)

	var extErr *entity.ExternalCallError
	assert.False(t, errors.As(err, &extErr))
}

func TestSearch_HTTPErrorIsExternal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Unauthorized."}`))
	})

	_, err := client.Search(context.Background(), entity.SearchQuery{Query: "q"})
	require.Error(t, err)

	var extErr *entity.ExternalCallError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "search API", extErr.Service)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Unauthorized.")
}

func TestSearch_MalformedBodyIsExternal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Search(context.Background(), entity.SearchQuery{Query: "q"})
	var extErr *entity.ExternalCallError
	require.True(t, errors.As(err, &extErr))
	assert.Contains(t, err.Error(), "decode search response")
}
