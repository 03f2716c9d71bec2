package vectorstore

import (
	"regexp"
	"strings"
)

// GetTotal extracts the total hit count a backend response reports under
// hits.total.value (Elasticsearch/OpenSearch share this shape).
func GetTotal(res *SearchResult) int {
	if res == nil {
		return 0
	}
	hits, _ := res.Raw["hits"].(map[string]any)
	total, _ := hits["total"].(map[string]any)
	value, _ := total["value"].(float64)
	return int(value)
}

// GetChunkIDs extracts every hit's _id, in the order the backend returned
// them.
func GetChunkIDs(res *SearchResult) []string {
	var ids []string
	for _, hit := range hitList(res) {
		if id, ok := hit["_id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// GetFields extracts one hit's _source field map by id.
func GetFields(res *SearchResult, id string) map[string]any {
	for _, hit := range hitList(res) {
		if hitID, _ := hit["_id"].(string); hitID == id {
			src, _ := hit["_source"].(map[string]any)
			return src
		}
	}
	return nil
}

// GetSource extracts every hit's _source, in hit order.
func GetSource(res *SearchResult) []map[string]any {
	var out []map[string]any
	for _, hit := range hitList(res) {
		src, _ := hit["_source"].(map[string]any)
		out = append(out, src)
	}
	return out
}

// GetHighlight extracts the backend's per-hit highlight snippets, falling
// back to a local sentence-split + <em>-wrap computation for any hit whose
// highlight the backend left empty, per spec's "compute highlight when the
// backend produced no snippets" rule.
func GetHighlight(res *SearchResult, field, keyword string) []string {
	var out []string
	for _, hit := range hitList(res) {
		if hl, ok := hit["highlight"].(map[string]any); ok {
			if snippets, ok := hl[field].([]any); ok && len(snippets) > 0 {
				for _, s := range snippets {
					if str, ok := s.(string); ok {
						out = append(out, str)
					}
				}
				continue
			}
		}
		src, _ := hit["_source"].(map[string]any)
		text, _ := src[field].(string)
		out = append(out, computeHighlight(text, keyword)...)
	}
	return out
}

// GetAggregation extracts one named aggregation bucket list.
func GetAggregation(res *SearchResult, name string) []map[string]any {
	if res == nil {
		return nil
	}
	aggs, _ := res.Raw["aggregations"].(map[string]any)
	agg, _ := aggs[name].(map[string]any)
	buckets, _ := agg["buckets"].([]any)
	out := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		if m, ok := b.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func hitList(res *SearchResult) []map[string]any {
	if res == nil {
		return nil
	}
	hits, _ := res.Raw["hits"].(map[string]any)
	list, _ := hits["hits"].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, h := range list {
		if m, ok := h.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// sentenceSplit is a plain-English sentence boundary: '.', '!', or '?'
// followed by whitespace.
var sentenceSplit = regexp.MustCompile(`(?:[.!?])\s+`)

// computeHighlight sentence-splits text and wraps every case-insensitive
// occurrence of keyword in <em>, returning one entry per sentence that
// contains a match.
func computeHighlight(text, keyword string) []string {
	if text == "" || keyword == "" {
		return nil
	}
	lowerKeyword := strings.ToLower(keyword)
	var out []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		if sentence == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(sentence), lowerKeyword) {
			continue
		}
		out = append(out, wrapKeyword(sentence, keyword))
	}
	return out
}

func wrapKeyword(sentence, keyword string) string {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword))
	return pattern.ReplaceAllString(sentence, "<em>$0</em>")
}
