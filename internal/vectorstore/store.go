// Package vectorstore unifies Elasticsearch and OpenSearch behind one
// Store interface for semantic search over generated wiki content and
// ingested source files. The query model
// (MatchTextExpr/MatchDenseExpr/MatchSparseExpr/MatchTensorExpr/FusionExpr/
// SortField/SearchRequest) is a typed, builder-constructed object in the
// same shape as the teacher's own ai/vectorstore.SearchRequest, generalized
// from a single-vector-DB filter AST to the richer text+dense+sparse+
// fusion query this package's two backends need to express.
package vectorstore

import "context"

// Record is one document stored in a space: a string id plus arbitrary
// fields (content, embeddings, metadata).
type Record struct {
	ID     string
	Fields map[string]any
}

// Condition selects records for update or delete, mirroring the handful
// of query shapes the original update/delete operations support: match by
// id, by term/terms, or by field existence.
type Condition struct {
	IDs       []string
	Term      map[string]any
	Terms     map[string][]any
	Exists    []string
	NotExists []string
}

// Store is the unified port both backends implement.
type Store interface {
	CreateSpace(ctx context.Context, name string, vectorSize int) error
	DeleteSpace(ctx context.Context, name string) error
	SpaceExists(ctx context.Context, name string) (bool, error)

	InsertRecords(ctx context.Context, space string, records []Record) error
	// UpdateRecords applies newValue to every record condition selects,
	// then removes fieldsToRemove.
	UpdateRecords(ctx context.Context, space string, condition Condition, newValue map[string]any, fieldsToRemove []string) error
	DeleteRecords(ctx context.Context, space string, condition Condition) (int, error)
	GetRecord(ctx context.Context, spaces []string, id string) (*Record, error)

	Search(ctx context.Context, spaces []string, req *SearchRequest) (*SearchResult, error)
}

// SearchResult wraps one backend's raw response alongside the fields the
// result-helper functions extract from it.
type SearchResult struct {
	Raw map[string]any
}
