package wikimodel_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/wikimodel"
)

func TestNewCatalogRoot(t *testing.T) {
	docID := uuid.New()
	catalog, err := wikimodel.NewCatalog(docID, nil, "Architecture", "architecture.md", "module layout overview", 0, "cover the module layout")
	require.NoError(t, err)
	assert.True(t, catalog.IsRoot())
	assert.Equal(t, "architecture.md", catalog.URL)
	assert.Equal(t, "module layout overview", catalog.Description)
	assert.Equal(t, "cover the module layout", catalog.PromptHint)
	assert.False(t, catalog.IsCompleted)
	assert.False(t, catalog.IsDeleted)
}

func TestNewCatalogChild(t *testing.T) {
	docID := uuid.New()
	parentID := uuid.New()
	catalog, err := wikimodel.NewCatalog(docID, &parentID, "Scanner", "internal/scanner", "", 1, "")
	require.NoError(t, err)
	assert.False(t, catalog.IsRoot())
}

func TestNewCatalogRejectsNegativeOrder(t *testing.T) {
	_, err := wikimodel.NewCatalog(uuid.New(), nil, "Architecture", "", "", -1, "")
	assert.Error(t, err)
}

func TestNewCatalogRejectsEmptyTitle(t *testing.T) {
	_, err := wikimodel.NewCatalog(uuid.New(), nil, "", "", "", 0, "")
	assert.Error(t, err)
}

func TestCatalogReorder(t *testing.T) {
	catalog, err := wikimodel.NewCatalog(uuid.New(), nil, "Architecture", "", "", 0, "")
	require.NoError(t, err)
	require.NoError(t, catalog.Reorder(3))
	assert.Equal(t, 3, catalog.Order)
	assert.Error(t, catalog.Reorder(-1))
}

func TestCatalogCompleteMarksCompleted(t *testing.T) {
	catalog, err := wikimodel.NewCatalog(uuid.New(), nil, "Architecture", "", "", 0, "")
	require.NoError(t, err)
	catalog.Complete()
	assert.True(t, catalog.IsCompleted)
}

func TestCatalogSoftDeleteSetsDeletedAt(t *testing.T) {
	catalog, err := wikimodel.NewCatalog(uuid.New(), nil, "Architecture", "", "", 0, "")
	require.NoError(t, err)
	require.Nil(t, catalog.DeletedAt)
	catalog.SoftDelete()
	assert.True(t, catalog.IsDeleted)
	require.NotNil(t, catalog.DeletedAt)
}
