package elasticsearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/vectorstore"
	"github.com/tangerg/codewiki/internal/vectorstore/elasticsearch"
)

func TestSearchAppliesWeightedFusionBoostToTextAndKNNClauses(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.Equal(t, "/docs/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 1},
				"hits": [{"_id": "1", "_source": {"title_tks": "alpha"}}]
			}
		}`))
	}))
	defer server.Close()

	store := elasticsearch.New(elasticsearch.Config{BaseURL: server.URL})

	req := vectorstore.NewSearchRequest().
		WithMatchText(vectorstore.MatchTextExpr{Fields: []string{"title_tks"}, Text: "alpha", TopN: 10}).
		WithMatchDense(vectorstore.MatchDenseExpr{Column: "embedding", Vector: []float64{1, 0}, TopN: 10}).
		WithFusion(vectorstore.FusionExpr{Method: vectorstore.FusionWeightedSum, Weights: "0.3,0.7"})

	res, err := store.Search(context.Background(), []string{"docs"}, req)
	require.NoError(t, err)
	require.Equal(t, 1, vectorstore.GetTotal(res))
	require.Equal(t, []string{"1"}, vectorstore.GetChunkIDs(res))

	knn, ok := captured["knn"].(map[string]any)
	require.True(t, ok, "search body must carry a sibling knn clause")
	assert.InDelta(t, 0.7, knn["boost"], 1e-9)

	query, ok := captured["query"].(map[string]any)
	require.True(t, ok)
	boolQuery, ok := query["bool"].(map[string]any)
	require.True(t, ok)
	should, ok := boolQuery["should"].([]any)
	require.True(t, ok)
	require.Len(t, should, 1)
	multiMatch := should[0].(map[string]any)["multi_match"].(map[string]any)
	assert.InDelta(t, 0.3, multiMatch["boost"], 1e-9)
}

func TestSearchRejectsFusionWithoutBothMatchKinds(t *testing.T) {
	store := elasticsearch.New(elasticsearch.Config{BaseURL: "http://unused.invalid"})
	req := vectorstore.NewSearchRequest().
		WithMatchText(vectorstore.MatchTextExpr{Fields: []string{"title"}, Text: "alpha"}).
		WithFusion(vectorstore.FusionExpr{Method: vectorstore.FusionWeightedSum, Weights: "0.5,0.5"})

	_, err := store.Search(context.Background(), []string{"docs"}, req)
	require.Error(t, err)
}

func TestCreateSpaceToleratesAlreadyExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"}}`))
	}))
	defer server.Close()

	store := elasticsearch.New(elasticsearch.Config{BaseURL: server.URL})
	err := store.CreateSpace(context.Background(), "docs", 384)
	require.NoError(t, err)
}
