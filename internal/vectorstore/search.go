package vectorstore

import "github.com/tangerg/codewiki/internal/codewikierr"

// MatchTextExpr is a multi-field boolean text match.
type MatchTextExpr struct {
	Fields []string
	Text   string
	TopN   int
	// MinimumShouldMatch mirrors extra.minimum_should_match, e.g. "30%".
	MinimumShouldMatch string
}

// DistanceType selects the KNN distance metric a dense match uses.
type DistanceType string

const (
	DistanceCosine DistanceType = "cosine"
	DistanceDot    DistanceType = "dot_product"
	DistanceL2     DistanceType = "l2_norm"
)

// MatchDenseExpr is a KNN clause over a dense_vector field.
type MatchDenseExpr struct {
	Column       string
	Vector       []float64
	DistanceType DistanceType
	TopN         int
	// Similarity mirrors extra.similarity, a minimum-score floor applied
	// alongside the KNN clause.
	Similarity float64
}

// MatchSparseExpr and MatchTensorExpr are reserved query shapes: spec names
// them as pass-through to the backend when supported, with neither ES nor
// OS backend here implementing sparse or tensor search, so both are kept
// as typed placeholders a caller can construct and a future backend can
// read off SearchRequest.
type MatchSparseExpr struct {
	Column string
	Vector map[string]float64
	TopN   int
}

type MatchTensorExpr struct {
	Column string
	Vector [][]float64
	TopN   int
}

// FusionMethod names a score-combination strategy. weighted_sum is the
// only one spec defines.
type FusionMethod string

const FusionWeightedSum FusionMethod = "weighted_sum"

// FusionExpr combines a text match and a dense match's scores when both
// are present in the same request.
type FusionExpr struct {
	Method FusionMethod
	TopN   int
	// Weights is spec's literal "text,dense" comma-joined pair, e.g.
	// "0.3,0.7" for a 30% text / 70% dense blend.
	Weights string
}

// TextWeight and DenseWeight split Weights into its two components, falling
// back to an even 0.5/0.5 split when Weights is malformed.
func (f FusionExpr) TextWeight() float64  { w, _ := f.parseWeights(); return w }
func (f FusionExpr) DenseWeight() float64 { _, w := f.parseWeights(); return w }

func (f FusionExpr) parseWeights() (text, dense float64) {
	text, dense = 0.5, 0.5
	parts := splitWeights(f.Weights)
	if len(parts) != 2 {
		return text, dense
	}
	t, tok1 := parseFloat(parts[0])
	d, tok2 := parseFloat(parts[1])
	if !tok1 || !tok2 {
		return text, dense
	}
	return t, d
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortMode aggregates a multi-valued field for sorting purposes.
type SortMode string

const (
	SortModeMin    SortMode = "min"
	SortModeMax    SortMode = "max"
	SortModeAvg    SortMode = "avg"
	SortModeSum    SortMode = "sum"
	SortModeMedian SortMode = "median"
)

// SortField is one entry in a SearchRequest's order_by list.
type SortField struct {
	Field         string
	Order         SortOrder
	Mode          SortMode
	UnmappedType  string
	NumericType   string
}

// SearchRequest carries everything spec's `search(spaces, SearchRequest)`
// operation needs: field selection, highlighting, a condition, match
// expressions (text/dense/sparse/tensor/fusion), sort order, and paging.
// Constructed through NewSearchRequest + With* chaining, matching the
// teacher's own RetrievalRequest builder shape.
type SearchRequest struct {
	SelectFields    []string
	HighlightFields []string
	Condition       *Condition
	MatchTexts      []MatchTextExpr
	MatchDenses     []MatchDenseExpr
	MatchSparses    []MatchSparseExpr
	MatchTensors    []MatchTensorExpr
	Fusion          *FusionExpr
	OrderBy         []SortField
	Offset          int
	Limit           int
	AggFields       []string
	RankFeature     string
}

// NewSearchRequest returns a SearchRequest defaulting to Limit=DefaultTopK.
func NewSearchRequest() *SearchRequest {
	return &SearchRequest{Limit: DefaultTopK}
}

// DefaultTopK mirrors the teacher's vectorstore.DefaultTopK default result
// size when a request does not set one explicitly.
const DefaultTopK = 5

func (r *SearchRequest) WithSelectFields(fields ...string) *SearchRequest {
	r.SelectFields = fields
	return r
}

func (r *SearchRequest) WithHighlightFields(fields ...string) *SearchRequest {
	r.HighlightFields = fields
	return r
}

func (r *SearchRequest) WithCondition(c Condition) *SearchRequest {
	r.Condition = &c
	return r
}

func (r *SearchRequest) WithMatchText(m MatchTextExpr) *SearchRequest {
	r.MatchTexts = append(r.MatchTexts, m)
	return r
}

func (r *SearchRequest) WithMatchDense(m MatchDenseExpr) *SearchRequest {
	r.MatchDenses = append(r.MatchDenses, m)
	return r
}

func (r *SearchRequest) WithFusion(f FusionExpr) *SearchRequest {
	r.Fusion = &f
	return r
}

func (r *SearchRequest) WithOrderBy(fields ...SortField) *SearchRequest {
	r.OrderBy = fields
	return r
}

func (r *SearchRequest) WithPaging(offset, limit int) *SearchRequest {
	if limit > 0 {
		r.Offset = offset
		r.Limit = limit
	}
	return r
}

// Validate checks the invariants a backend relies on: a fusion expression
// only makes sense once both a text and a dense match are present.
func (r *SearchRequest) Validate() error {
	if r == nil {
		return codewikierr.New(codewikierr.KindValidation, "search request is nil")
	}
	if r.Fusion != nil && (len(r.MatchTexts) == 0 || len(r.MatchDenses) == 0) {
		return codewikierr.New(codewikierr.KindValidation, "fusion expression requires both a text match and a dense match")
	}
	if r.Limit < 0 || r.Offset < 0 {
		return codewikierr.New(codewikierr.KindValidation, "search request offset and limit must be non-negative")
	}
	return nil
}
