package wikimodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// Overview is the single top-of-wiki summary document, owned one-to-one by
// a WikiDocument.
type Overview struct {
	ID             uuid.UUID
	WikiDocumentID uuid.UUID
	Title          string
	Body           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOverview constructs an Overview for wikiDocumentID.
func NewOverview(wikiDocumentID uuid.UUID, title, body string) (*Overview, error) {
	if wikiDocumentID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "overview wiki document id is required")
	}
	if title == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "overview title is required")
	}
	now := time.Now()
	return &Overview{
		ID:             uuid.New(),
		WikiDocumentID: wikiDocumentID,
		Title:          title,
		Body:           body,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Update replaces the overview's title and body, advancing UpdatedAt.
func (o *Overview) Update(title, body string) error {
	if title == "" {
		return codewikierr.New(codewikierr.KindValidation, "overview title is required")
	}
	o.Title = title
	o.Body = body
	o.UpdatedAt = time.Now()
	return nil
}
