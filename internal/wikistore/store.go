// Package wikistore defines the persistence ports the pipeline writes
// through: one store per owned entity, each enforcing the delete-then-
// insert, single-transaction write discipline spec'd for every stage.
// internal/wikistore/memstore provides the in-memory reference
// implementation; a SQL-backed implementation would satisfy the same
// interfaces.
package wikistore

import (
	"context"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/wikimodel"
)

// RepositoryStore persists Repository rows, enforcing the
// (UserID, Provider, Organization, Name) uniqueness tuple.
type RepositoryStore interface {
	CreateRepository(ctx context.Context, repo *wikimodel.Repository) error
	GetRepository(ctx context.Context, id uuid.UUID) (*wikimodel.Repository, error)
	FindRepositoryByTuple(ctx context.Context, userID uuid.UUID, provider, organization, name string) (*wikimodel.Repository, error)
	UpdateRepository(ctx context.Context, repo *wikimodel.Repository) error
}

// DocumentStore persists WikiDocument rows and cascades deletes to every
// entity a WikiDocument owns.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *wikimodel.WikiDocument) error
	GetDocument(ctx context.Context, id uuid.UUID) (*wikimodel.WikiDocument, error)
	UpdateDocument(ctx context.Context, doc *wikimodel.WikiDocument) error
	// DeleteDocument removes the document and, transactionally, every
	// Overview, Catalog (with its Content and ContentSources), MiniMap, and
	// CommitRecord it owns.
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// OverviewStore persists the single Overview owned by a WikiDocument.
// PutOverview is delete-then-insert: it deletes any existing overview for
// the document before inserting the new one, in one transaction.
type OverviewStore interface {
	PutOverview(ctx context.Context, overview *wikimodel.Overview) error
	GetOverview(ctx context.Context, wikiDocumentID uuid.UUID) (*wikimodel.Overview, error)
}

// CatalogStore persists the Catalog forest owned by a WikiDocument. It is
// the layer that sees the whole tree at once, so it is responsible for the
// forest-shaped, no-cycle, unique-sibling-order invariants that span nodes.
type CatalogStore interface {
	// PutTree deletes every existing catalog row for wikiDocumentID
	// (cascading to their Content and ContentSources) and inserts nodes in
	// one transaction, assigning order indices by traversal order.
	PutTree(ctx context.Context, wikiDocumentID uuid.UUID, nodes []*wikimodel.Catalog) error
	ListTree(ctx context.Context, wikiDocumentID uuid.UUID) ([]*wikimodel.Catalog, error)
	GetCatalog(ctx context.Context, id uuid.UUID) (*wikimodel.Catalog, error)
}

// ContentStore persists per-leaf-catalog Content, insert-or-update keyed by
// catalog id, replacing all ContentSource rows on every write.
type ContentStore interface {
	PutContent(ctx context.Context, content *wikimodel.Content) error
	GetContent(ctx context.Context, catalogID uuid.UUID) (*wikimodel.Content, error)
	ListContentByDocument(ctx context.Context, wikiDocumentID uuid.UUID, catalogIDs []uuid.UUID) ([]*wikimodel.Content, error)
}

// MiniMapStore persists the zero-or-one MiniMap owned by a WikiDocument.
// PutMiniMap is delete-then-insert.
type MiniMapStore interface {
	PutMiniMap(ctx context.Context, miniMap *wikimodel.MiniMap) error
	GetMiniMap(ctx context.Context, wikiDocumentID uuid.UUID) (*wikimodel.MiniMap, error)
}

// CommitStore persists the CommitRecord set owned by a WikiDocument.
// PutCommits deletes prior records for the document before inserting the
// new set, in one transaction.
type CommitStore interface {
	PutCommits(ctx context.Context, wikiDocumentID uuid.UUID, records []*wikimodel.CommitRecord) error
	ListCommits(ctx context.Context, wikiDocumentID uuid.UUID) ([]*wikimodel.CommitRecord, error)
}

// Store aggregates every port the pipeline writes through, so a stage that
// needs more than one entity type can take a single dependency.
type Store interface {
	RepositoryStore
	DocumentStore
	OverviewStore
	CatalogStore
	ContentStore
	MiniMapStore
	CommitStore
}
