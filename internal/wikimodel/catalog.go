package wikimodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// Catalog is one node in the hierarchical table of contents for a
// WikiDocument. The forest-shaped, no-cycle, unique-sibling-order
// invariants span the whole tree and are left to wikistore.CatalogStore
// (the in-memory store does not check them); a single Catalog's own field
// invariants are enforced here.
type Catalog struct {
	ID             uuid.UUID
	WikiDocumentID uuid.UUID
	ParentID       *uuid.UUID
	Title          string
	// URL is the slug or repository-relative path this node's heading
	// pointed at, parsed out of the planning stage's minimap output.
	URL string
	// Description summarizes what this node covers, shown alongside Title
	// in a rendered table of contents.
	Description string
	Order       int
	// PromptHint carries the short description the planning stage produced
	// for this node, fed back into the per-article generation prompt so the
	// article stays scoped to what the catalog entry promised.
	PromptHint string
	// IsCompleted is set once this node's Content has been generated.
	IsCompleted bool
	// IsDeleted marks this node as soft-deleted; DeletedAt records when.
	// Soft-deleted nodes remain in storage but are excluded from a
	// rendered table of contents.
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCatalog constructs a Catalog node. parentID is nil for a root entry.
func NewCatalog(wikiDocumentID uuid.UUID, parentID *uuid.UUID, title, url, description string, order int, promptHint string) (*Catalog, error) {
	if wikiDocumentID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "catalog wiki document id is required")
	}
	if title == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "catalog title is required")
	}
	if order < 0 {
		return nil, codewikierr.New(codewikierr.KindValidation, "catalog order must be non-negative")
	}
	if parentID != nil && *parentID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "catalog parent id cannot be the nil uuid")
	}
	now := time.Now()
	return &Catalog{
		ID:             uuid.New(),
		WikiDocumentID: wikiDocumentID,
		ParentID:       parentID,
		Title:          title,
		URL:            url,
		Description:    description,
		Order:          order,
		PromptHint:     promptHint,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsRoot reports whether this Catalog has no parent.
func (c *Catalog) IsRoot() bool { return c.ParentID == nil }

// Reorder changes the node's sibling order. Uniqueness among siblings is
// enforced by the store, which sees the whole sibling set.
func (c *Catalog) Reorder(order int) error {
	if order < 0 {
		return codewikierr.New(codewikierr.KindValidation, "catalog order must be non-negative")
	}
	c.Order = order
	c.UpdatedAt = time.Now()
	return nil
}

// Complete marks this node's Content as generated.
func (c *Catalog) Complete() {
	c.IsCompleted = true
	c.UpdatedAt = time.Now()
}

// SoftDelete marks this node as deleted without removing it from storage.
func (c *Catalog) SoftDelete() {
	if c.IsDeleted {
		return
	}
	now := time.Now()
	c.IsDeleted = true
	c.DeletedAt = &now
	c.UpdatedAt = now
}
