package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/wikimodel"
	"github.com/tangerg/codewiki/internal/wikistore/memstore"
)

func TestRepositoryCreateRejectsDuplicateTuple(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	repo, err := wikimodel.NewRepository(uuid.New(), "github", "tangerg", "codewiki", "main", "")
	require.NoError(t, err)
	require.NoError(t, store.CreateRepository(ctx, repo))

	dup, err := wikimodel.NewRepository(repo.UserID, repo.Provider, repo.Organization, repo.Name, "dev", "")
	require.NoError(t, err)
	assert.Error(t, store.CreateRepository(ctx, dup))
}

func TestOverviewPutIsDeleteThenInsert(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	docID := uuid.New()

	first, err := wikimodel.NewOverview(docID, "v1", "first body")
	require.NoError(t, err)
	require.NoError(t, store.PutOverview(ctx, first))

	second, err := wikimodel.NewOverview(docID, "v2", "second body")
	require.NoError(t, err)
	require.NoError(t, store.PutOverview(ctx, second))

	got, err := store.GetOverview(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title, "second write must fully replace the first")
}

func TestCatalogTreeReplaceCascadesContent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	docID := uuid.New()

	leaf, err := wikimodel.NewCatalog(docID, nil, "Scanner", "", "", 0, "")
	require.NoError(t, err)
	require.NoError(t, store.PutTree(ctx, docID, []*wikimodel.Catalog{leaf}))

	content, err := wikimodel.NewContent(leaf.ID, "Scanner", "", "article body", nil)
	require.NoError(t, err)
	require.NoError(t, store.PutContent(ctx, content))

	replacement, err := wikimodel.NewCatalog(docID, nil, "Compressor", "", "", 0, "")
	require.NoError(t, err)
	require.NoError(t, store.PutTree(ctx, docID, []*wikimodel.Catalog{replacement}))

	_, err = store.GetContent(ctx, leaf.ID)
	assert.Error(t, err, "content for the deleted catalog node must cascade away")

	tree, err := store.ListTree(ctx, docID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Compressor", tree[0].Title)
}

func TestContentPutRequiresKnownCatalog(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	content, err := wikimodel.NewContent(uuid.New(), "Orphan", "", "orphan", nil)
	require.NoError(t, err)
	assert.Error(t, store.PutContent(ctx, content))
}

func TestDocumentDeleteCascadesEverything(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	doc, err := wikimodel.NewWikiDocument(uuid.New(), "en")
	require.NoError(t, err)
	require.NoError(t, store.CreateDocument(ctx, doc))

	overview, err := wikimodel.NewOverview(doc.ID, "title", "body")
	require.NoError(t, err)
	require.NoError(t, store.PutOverview(ctx, overview))

	leaf, err := wikimodel.NewCatalog(doc.ID, nil, "Scanner", "", "", 0, "")
	require.NoError(t, err)
	require.NoError(t, store.PutTree(ctx, doc.ID, []*wikimodel.Catalog{leaf}))

	content, err := wikimodel.NewContent(leaf.ID, "Scanner", "", "article body", nil)
	require.NoError(t, err)
	require.NoError(t, store.PutContent(ctx, content))

	require.NoError(t, store.DeleteDocument(ctx, doc.ID))

	_, err = store.GetDocument(ctx, doc.ID)
	assert.Error(t, err)
	_, err = store.GetOverview(ctx, doc.ID)
	assert.Error(t, err)
	_, err = store.GetContent(ctx, leaf.ID)
	assert.Error(t, err)
}

func TestCommitsPutReplacesSet(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	docID := uuid.New()

	first, err := wikimodel.NewCommitRecord(docID, "abc123", time.Now(), "initial commit", "")
	require.NoError(t, err)
	require.NoError(t, store.PutCommits(ctx, docID, []*wikimodel.CommitRecord{first}))

	second, err := wikimodel.NewCommitRecord(docID, "def456", time.Now(), "second commit", "")
	require.NoError(t, err)
	require.NoError(t, store.PutCommits(ctx, docID, []*wikimodel.CommitRecord{second}))

	records, err := store.ListCommits(ctx, docID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "def456", records[0].CommitSHA)
}
