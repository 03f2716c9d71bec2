package wikimodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// MiniMapNode is one node of the recursive knowledge mind-map. It mirrors
// the Markdown heading structure it was parsed from: heading depth drives
// nesting, and a trailing ": path" on the heading line becomes URL.
type MiniMapNode struct {
	Title string         `json:"title"`
	URL   string         `json:"url,omitempty"`
	Nodes []*MiniMapNode `json:"nodes,omitempty"`
}

// MiniMap is the zero-or-one-per-WikiDocument knowledge mind-map, stored as
// one JSON-serialized root node.
type MiniMap struct {
	ID             uuid.UUID
	WikiDocumentID uuid.UUID
	Root           *MiniMapNode
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewMiniMap constructs a MiniMap for wikiDocumentID.
func NewMiniMap(wikiDocumentID uuid.UUID, root *MiniMapNode) (*MiniMap, error) {
	if wikiDocumentID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "minimap wiki document id is required")
	}
	if root == nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "minimap root node is required")
	}
	now := time.Now()
	return &MiniMap{
		ID:             uuid.New(),
		WikiDocumentID: wikiDocumentID,
		Root:           root,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Replace swaps in a newly parsed root, matching the store's delete-then-
// insert write semantics for stage 4.
func (m *MiniMap) Replace(root *MiniMapNode) error {
	if root == nil {
		return codewikierr.New(codewikierr.KindValidation, "minimap root node is required")
	}
	m.Root = root
	m.UpdatedAt = time.Now()
	return nil
}
