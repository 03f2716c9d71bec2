// Package memstore is an in-memory wikistore.Store, used by tests and by
// the CLI's local-only mode. It enforces the same transactional,
// delete-then-insert write discipline as a SQL-backed store would, guarded
// by a single mutex rather than a database transaction.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/wikimodel"
	"github.com/tangerg/codewiki/internal/wikistore"
)

// Store is a mutex-guarded in-memory implementation of wikistore.Store.
type Store struct {
	mu sync.RWMutex

	repositories map[uuid.UUID]*wikimodel.Repository
	documents    map[uuid.UUID]*wikimodel.WikiDocument
	overviews    map[uuid.UUID]*wikimodel.Overview  // keyed by WikiDocumentID
	catalogs     map[uuid.UUID][]*wikimodel.Catalog // keyed by WikiDocumentID
	catalogByID  map[uuid.UUID]*wikimodel.Catalog
	contents     map[uuid.UUID]*wikimodel.Content // keyed by CatalogID
	minimaps     map[uuid.UUID]*wikimodel.MiniMap // keyed by WikiDocumentID
	commits      map[uuid.UUID][]*wikimodel.CommitRecord
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		repositories: make(map[uuid.UUID]*wikimodel.Repository),
		documents:    make(map[uuid.UUID]*wikimodel.WikiDocument),
		overviews:    make(map[uuid.UUID]*wikimodel.Overview),
		catalogs:     make(map[uuid.UUID][]*wikimodel.Catalog),
		catalogByID:  make(map[uuid.UUID]*wikimodel.Catalog),
		contents:     make(map[uuid.UUID]*wikimodel.Content),
		minimaps:     make(map[uuid.UUID]*wikimodel.MiniMap),
		commits:      make(map[uuid.UUID][]*wikimodel.CommitRecord),
	}
}

var _ wikistore.Store = (*Store)(nil)

// CreateRepository stores a new Repository, rejecting a duplicate
// (UserID, Provider, Organization, Name) tuple.
func (s *Store) CreateRepository(ctx context.Context, repo *wikimodel.Repository) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.repositories {
		if existing.UserID == repo.UserID && existing.Provider == repo.Provider &&
			existing.Organization == repo.Organization && existing.Name == repo.Name {
			return codewikierr.New(codewikierr.KindConflict, "repository already registered")
		}
	}
	s.repositories[repo.ID] = repo
	return nil
}

func (s *Store) GetRepository(ctx context.Context, id uuid.UUID) (*wikimodel.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	repo, ok := s.repositories[id]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindNotFound, "repository not found")
	}
	return repo, nil
}

func (s *Store) FindRepositoryByTuple(ctx context.Context, userID uuid.UUID, provider, organization, name string) (*wikimodel.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, repo := range s.repositories {
		if repo.UserID == userID && repo.Provider == provider && repo.Organization == organization && repo.Name == name {
			return repo, nil
		}
	}
	return nil, codewikierr.New(codewikierr.KindNotFound, "repository not found")
}

func (s *Store) UpdateRepository(ctx context.Context, repo *wikimodel.Repository) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repositories[repo.ID]; !ok {
		return codewikierr.New(codewikierr.KindNotFound, "repository not found")
	}
	s.repositories[repo.ID] = repo
	return nil
}

func (s *Store) CreateDocument(ctx context.Context, doc *wikimodel.WikiDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; ok {
		return codewikierr.New(codewikierr.KindConflict, "wiki document already exists")
	}
	s.documents[doc.ID] = doc
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*wikimodel.WikiDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindNotFound, "wiki document not found")
	}
	return doc, nil
}

func (s *Store) UpdateDocument(ctx context.Context, doc *wikimodel.WikiDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		return codewikierr.New(codewikierr.KindNotFound, "wiki document not found")
	}
	s.documents[doc.ID] = doc
	return nil
}

// DeleteDocument removes the document and cascades to every entity it owns.
func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return codewikierr.New(codewikierr.KindNotFound, "wiki document not found")
	}
	delete(s.documents, id)
	delete(s.overviews, id)
	delete(s.minimaps, id)
	delete(s.commits, id)
	for _, catalog := range s.catalogs[id] {
		delete(s.contents, catalog.ID)
		delete(s.catalogByID, catalog.ID)
	}
	delete(s.catalogs, id)
	return nil
}

// PutOverview deletes any existing overview for the document and inserts
// the new one.
func (s *Store) PutOverview(ctx context.Context, overview *wikimodel.Overview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overviews[overview.WikiDocumentID] = overview
	return nil
}

func (s *Store) GetOverview(ctx context.Context, wikiDocumentID uuid.UUID) (*wikimodel.Overview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	overview, ok := s.overviews[wikiDocumentID]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindNotFound, "overview not found")
	}
	return overview, nil
}

// PutTree deletes every existing catalog row for wikiDocumentID, cascading
// to their Content and ContentSources, then inserts nodes as the new tree.
// The nodes are stored as given: PutTree does not assign Order and does not
// check the forest, no-cycle or unique-sibling-order invariants.
func (s *Store) PutTree(ctx context.Context, wikiDocumentID uuid.UUID, nodes []*wikimodel.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, catalog := range s.catalogs[wikiDocumentID] {
		delete(s.contents, catalog.ID)
		delete(s.catalogByID, catalog.ID)
	}
	cloned := make([]*wikimodel.Catalog, len(nodes))
	copy(cloned, nodes)
	s.catalogs[wikiDocumentID] = cloned
	for _, catalog := range cloned {
		s.catalogByID[catalog.ID] = catalog
	}
	return nil
}

func (s *Store) ListTree(ctx context.Context, wikiDocumentID uuid.UUID) ([]*wikimodel.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogs[wikiDocumentID], nil
}

func (s *Store) GetCatalog(ctx context.Context, id uuid.UUID) (*wikimodel.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	catalog, ok := s.catalogByID[id]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindNotFound, "catalog not found")
	}
	return catalog, nil
}

// PutContent inserts or updates content keyed by catalog id, replacing all
// ContentSource rows. Size and Sources are already normalized by
// wikimodel.NewContent/Update before this is called.
func (s *Store) PutContent(ctx context.Context, content *wikimodel.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalogByID[content.CatalogID]; !ok {
		return codewikierr.New(codewikierr.KindNotFound, "catalog not found for content")
	}
	s.contents[content.CatalogID] = content
	return nil
}

func (s *Store) GetContent(ctx context.Context, catalogID uuid.UUID) (*wikimodel.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[catalogID]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindNotFound, "content not found")
	}
	return content, nil
}

func (s *Store) ListContentByDocument(ctx context.Context, wikiDocumentID uuid.UUID, catalogIDs []uuid.UUID) ([]*wikimodel.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*wikimodel.Content, 0, len(catalogIDs))
	for _, id := range catalogIDs {
		if content, ok := s.contents[id]; ok {
			result = append(result, content)
		}
	}
	return result, nil
}

// PutMiniMap deletes any prior row for the document and inserts the new
// JSON-serialized value.
func (s *Store) PutMiniMap(ctx context.Context, miniMap *wikimodel.MiniMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minimaps[miniMap.WikiDocumentID] = miniMap
	return nil
}

func (s *Store) GetMiniMap(ctx context.Context, wikiDocumentID uuid.UUID) (*wikimodel.MiniMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	miniMap, ok := s.minimaps[wikiDocumentID]
	if !ok {
		return nil, codewikierr.New(codewikierr.KindNotFound, "minimap not found")
	}
	return miniMap, nil
}

// PutCommits deletes prior records for the document and inserts the new set.
func (s *Store) PutCommits(ctx context.Context, wikiDocumentID uuid.UUID, records []*wikimodel.CommitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := make([]*wikimodel.CommitRecord, len(records))
	copy(cloned, records)
	s.commits[wikiDocumentID] = cloned
	return nil
}

func (s *Store) ListCommits(ctx context.Context, wikiDocumentID uuid.UUID) ([]*wikimodel.CommitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits[wikiDocumentID], nil
}
