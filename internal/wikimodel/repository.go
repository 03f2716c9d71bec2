// Package wikimodel defines the entities the pipeline reads and writes:
// Repository, WikiDocument, Overview, Catalog, Content, ContentSource,
// MiniMap, and CommitRecord. Every invariant is enforced at construction
// time so a caller never holds an invalid zero value.
package wikimodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// Repository represents one source tree on disk.
type Repository struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Provider       string
	RemoteURL      *string
	Organization   string
	Name           string
	Branch         string
	LocalPath      string
	IsCloned       bool
	LastSyncTime   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRepository constructs a Repository, enforcing that the
// (UserID, Provider, Organization, Name) tuple fields are all non-empty —
// the uniqueness itself is a store-level invariant, checked by
// wikistore.RepositoryStore.CreateRepository.
func NewRepository(userID uuid.UUID, provider, organization, name, branch, localPath string) (*Repository, error) {
	if userID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "repository user id is required")
	}
	if provider == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "repository provider is required")
	}
	if organization == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "repository organization is required")
	}
	if name == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "repository name is required")
	}
	now := time.Now()
	return &Repository{
		ID:           uuid.New(),
		UserID:       userID,
		Provider:     provider,
		Organization: organization,
		Name:         name,
		Branch:       branch,
		LocalPath:    localPath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// MarkCloned records that an external collaborator has materialized the
// repository to LocalPath. It is the only mutation allowed after creation,
// besides MarkSynced.
func (r *Repository) MarkCloned(localPath string) {
	r.LocalPath = localPath
	r.IsCloned = true
	r.UpdatedAt = time.Now()
}

// MarkSynced records the last time an external collaborator refreshed the
// working tree.
func (r *Repository) MarkSynced() {
	now := time.Now()
	r.LastSyncTime = &now
	r.UpdatedAt = now
}
