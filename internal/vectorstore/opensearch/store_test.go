package opensearch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/vectorstore"
	"github.com/tangerg/codewiki/internal/vectorstore/opensearch"
)

func TestSearchReplacesQueryWithKNNObjectAndFoldsTextIntoShould(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
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

	store := opensearch.New(opensearch.Config{BaseURL: server.URL})

	req := vectorstore.NewSearchRequest().
		WithMatchText(vectorstore.MatchTextExpr{Fields: []string{"title_tks"}, Text: "alpha", TopN: 10}).
		WithMatchDense(vectorstore.MatchDenseExpr{Column: "embedding", Vector: []float64{1, 0}, TopN: 10}).
		WithFusion(vectorstore.FusionExpr{Method: vectorstore.FusionWeightedSum, Weights: "0.3,0.7"})

	res, err := store.Search(context.Background(), []string{"docs"}, req)
	require.NoError(t, err)
	assert.Equal(t, 1, vectorstore.GetTotal(res))

	query, ok := captured["query"].(map[string]any)
	require.True(t, ok)
	_, hasKNNAtTop := query["knn"]
	boolQuery, hasBool := query["bool"].(map[string]any)
	require.True(t, hasBool, "text+dense combination folds into a bool wrapper, not a bare knn object")
	assert.False(t, hasKNNAtTop)
	should, ok := boolQuery["should"].([]any)
	require.True(t, ok)
	require.Len(t, should, 2)
}

func TestSearchUsesBareKNNObjectWithNoTextMatch(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	}))
	defer server.Close()

	store := opensearch.New(opensearch.Config{BaseURL: server.URL})
	req := vectorstore.NewSearchRequest().
		WithMatchDense(vectorstore.MatchDenseExpr{Column: "embedding", Vector: []float64{1, 0}, TopN: 10})

	_, err := store.Search(context.Background(), []string{"docs"}, req)
	require.NoError(t, err)

	query := captured["query"].(map[string]any)
	knn, ok := query["knn"].(map[string]any)
	require.True(t, ok)
	field, ok := knn["embedding"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), field["k"])
}
