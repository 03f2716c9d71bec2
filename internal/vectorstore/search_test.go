package vectorstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/vectorstore"
)

func TestFusionWeightsParseTextAndDenseShares(t *testing.T) {
	f := vectorstore.FusionExpr{Weights: "0.3, 0.7"}
	assert.InDelta(t, 0.3, f.TextWeight(), 1e-9)
	assert.InDelta(t, 0.7, f.DenseWeight(), 1e-9)
}

func TestFusionWeightsFallBackToEvenSplitWhenMalformed(t *testing.T) {
	f := vectorstore.FusionExpr{Weights: "not-a-number"}
	assert.InDelta(t, 0.5, f.TextWeight(), 1e-9)
	assert.InDelta(t, 0.5, f.DenseWeight(), 1e-9)
}

func TestNewSearchRequestDefaultsToDefaultTopK(t *testing.T) {
	req := vectorstore.NewSearchRequest()
	assert.Equal(t, vectorstore.DefaultTopK, req.Limit)
}

func TestValidateRejectsFusionWithOnlyOneMatchKind(t *testing.T) {
	req := vectorstore.NewSearchRequest().
		WithMatchText(vectorstore.MatchTextExpr{Fields: []string{"title"}, Text: "alpha"}).
		WithFusion(vectorstore.FusionExpr{Method: vectorstore.FusionWeightedSum, Weights: "0.5,0.5"})

	err := req.Validate()
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindValidation))
}

func TestValidateAcceptsFusionWithBothMatchKinds(t *testing.T) {
	req := vectorstore.NewSearchRequest().
		WithMatchText(vectorstore.MatchTextExpr{Fields: []string{"title"}, Text: "alpha"}).
		WithMatchDense(vectorstore.MatchDenseExpr{Column: "embedding", Vector: []float64{1, 0}}).
		WithFusion(vectorstore.FusionExpr{Method: vectorstore.FusionWeightedSum, Weights: "0.5,0.5"})

	assert.NoError(t, req.Validate())
}

func TestValidateRejectsNegativePaging(t *testing.T) {
	req := vectorstore.NewSearchRequest().WithPaging(-1, 5)
	err := req.Validate()
	require.Error(t, err)
	assert.True(t, codewikierr.Is(err, codewikierr.KindValidation))
}

func TestWithPagingIgnoresNonPositiveLimit(t *testing.T) {
	req := vectorstore.NewSearchRequest().WithPaging(3, 0)
	assert.Equal(t, 0, req.Offset)
	assert.Equal(t, vectorstore.DefaultTopK, req.Limit)
}
