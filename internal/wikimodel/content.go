package wikimodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// ContentSource records one source file an article's Content was grounded
// on, so a reader can trace a generated claim back to the file it came
// from and render a "Referenced files" footer.
type ContentSource struct {
	ID         uuid.UUID
	ContentID  uuid.UUID
	SourcePath string
	// SourceName is the display name shown in a rendered footer; usually
	// the file's base name, kept distinct from SourcePath so a footer
	// doesn't have to re-derive it.
	SourceName string
}

// NewContentSource constructs a ContentSource for contentID.
func NewContentSource(contentID uuid.UUID, sourcePath, sourceName string) (*ContentSource, error) {
	if contentID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "content source content id is required")
	}
	if sourcePath == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "content source path is required")
	}
	return &ContentSource{
		ID:         uuid.New(),
		ContentID:  contentID,
		SourcePath: sourcePath,
		SourceName: sourceName,
	}, nil
}

// Content is one generated article, owned by a Catalog entry.
type Content struct {
	ID          uuid.UUID
	CatalogID   uuid.UUID
	Title       string
	Description string
	Body        string
	// Size is always byteLength(Body); never set independently, only
	// recomputed by NewContent and Update.
	Size      int
	Sources   []*ContentSource
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewContent constructs a Content article for catalogID, deriving Size from
// body.
func NewContent(catalogID uuid.UUID, title, description, body string, sources []*ContentSource) (*Content, error) {
	if catalogID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "content catalog id is required")
	}
	now := time.Now()
	return &Content{
		ID:          uuid.New(),
		CatalogID:   catalogID,
		Title:       title,
		Description: description,
		Body:        body,
		Size:        len(body),
		Sources:     sources,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the article body, recomputing Size.
func (c *Content) Update(body string, sources []*ContentSource) {
	c.Body = body
	c.Size = len(body)
	c.Sources = sources
	c.UpdatedAt = time.Now()
}
