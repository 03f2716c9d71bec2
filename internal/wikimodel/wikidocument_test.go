package wikimodel_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/wikimodel"
)

func TestNewWikiDocumentDefaultsLanguage(t *testing.T) {
	doc, err := wikimodel.NewWikiDocument(uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, wikimodel.StatusPending, doc.Status)
}

func TestNewWikiDocumentRejectsNilRepository(t *testing.T) {
	_, err := wikimodel.NewWikiDocument(uuid.Nil, "en")
	require.Error(t, err)
}

func TestWikiDocumentTransitionMonotonic(t *testing.T) {
	doc, err := wikimodel.NewWikiDocument(uuid.New(), "en")
	require.NoError(t, err)

	require.NoError(t, doc.Transition(wikimodel.StatusProcessing))
	require.NoError(t, doc.Transition(wikimodel.StatusCompleted))

	err = doc.Transition(wikimodel.StatusProcessing)
	assert.Error(t, err, "terminal status must never transition onward")
}

func TestWikiDocumentTransitionRejectsSkip(t *testing.T) {
	doc, err := wikimodel.NewWikiDocument(uuid.New(), "en")
	require.NoError(t, err)

	err = doc.Transition(wikimodel.StatusCompleted)
	assert.Error(t, err, "pending must go through processing before completing")
}

func TestMarkEmbeddedRequiresCompleted(t *testing.T) {
	doc, err := wikimodel.NewWikiDocument(uuid.New(), "en")
	require.NoError(t, err)

	err = doc.MarkEmbedded()
	assert.Error(t, err)

	require.NoError(t, doc.Transition(wikimodel.StatusProcessing))
	require.NoError(t, doc.Transition(wikimodel.StatusCompleted))
	require.NoError(t, doc.MarkEmbedded())
	assert.True(t, doc.IsEmbedded)
}

func TestFailSetsErrorMessage(t *testing.T) {
	doc, err := wikimodel.NewWikiDocument(uuid.New(), "en")
	require.NoError(t, err)
	require.NoError(t, doc.Transition(wikimodel.StatusProcessing))

	require.NoError(t, doc.Fail("llm timeout"))
	assert.Equal(t, wikimodel.StatusFailed, doc.Status)
	assert.Equal(t, "llm timeout", doc.ErrorMessage)
}
