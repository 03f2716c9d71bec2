package vectorstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/vectorstore"
)

func rawResult(hits ...map[string]any) *vectorstore.SearchResult {
	list := make([]any, len(hits))
	for i, h := range hits {
		list[i] = h
	}
	return &vectorstore.SearchResult{
		Raw: map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": float64(len(hits))},
				"hits":  list,
			},
		},
	}
}

func TestGetTotalAndChunkIDs(t *testing.T) {
	res := rawResult(
		map[string]any{"_id": "1", "_source": map[string]any{"title": "alpha"}},
		map[string]any{"_id": "2", "_source": map[string]any{"title": "beta"}},
	)
	assert.Equal(t, 2, vectorstore.GetTotal(res))
	assert.Equal(t, []string{"1", "2"}, vectorstore.GetChunkIDs(res))
}

func TestGetFieldsAndGetSource(t *testing.T) {
	res := rawResult(
		map[string]any{"_id": "1", "_source": map[string]any{"title": "alpha"}},
	)
	require.Equal(t, "alpha", vectorstore.GetFields(res, "1")["title"])
	assert.Equal(t, []map[string]any{{"title": "alpha"}}, vectorstore.GetSource(res))
}

func TestGetHighlightUsesBackendSnippetsWhenPresent(t *testing.T) {
	res := rawResult(map[string]any{
		"_id":       "1",
		"_source":   map[string]any{"body": "alpha beta"},
		"highlight": map[string]any{"body": []any{"<em>alpha</em> beta"}},
	})
	assert.Equal(t, []string{"<em>alpha</em> beta"}, vectorstore.GetHighlight(res, "body", "alpha"))
}

func TestGetHighlightComputesFallbackWhenBackendOmitsSnippets(t *testing.T) {
	res := rawResult(map[string]any{
		"_id":     "1",
		"_source": map[string]any{"body": "This has alpha in it. This does not."},
	})
	highlights := vectorstore.GetHighlight(res, "body", "alpha")
	require.Len(t, highlights, 1)
	assert.Contains(t, highlights[0], "<em>alpha</em>")
}

func TestGetAggregationExtractsBuckets(t *testing.T) {
	res := &vectorstore.SearchResult{
		Raw: map[string]any{
			"aggregations": map[string]any{
				"by_tag": map[string]any{
					"buckets": []any{
						map[string]any{"key": "go", "doc_count": float64(3)},
					},
				},
			},
		},
	}
	buckets := vectorstore.GetAggregation(res, "by_tag")
	require.Len(t, buckets, 1)
	assert.Equal(t, "go", buckets[0]["key"])
}
