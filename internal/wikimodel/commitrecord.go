package wikimodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// CommitRecord is one changelog entry summarized by the LLM from commit
// history. CommitSHA is a supplemented field: the original implementation
// keys each summarized entry to the commit it was generated from so a
// regenerated changelog can skip commits it has already summarized, which
// the distilled spec's {date, title, description} triple omitted.
type CommitRecord struct {
	ID             uuid.UUID
	WikiDocumentID uuid.UUID
	CommitSHA      string
	Date           time.Time
	Title          string
	Description    string
	CreatedAt      time.Time
}

// NewCommitRecord constructs a CommitRecord for wikiDocumentID.
func NewCommitRecord(wikiDocumentID uuid.UUID, commitSHA string, date time.Time, title, description string) (*CommitRecord, error) {
	if wikiDocumentID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "commit record wiki document id is required")
	}
	if commitSHA == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "commit record sha is required")
	}
	if title == "" {
		return nil, codewikierr.New(codewikierr.KindValidation, "commit record title is required")
	}
	return &CommitRecord{
		ID:             uuid.New(),
		WikiDocumentID: wikiDocumentID,
		CommitSHA:      commitSHA,
		Date:           date,
		Title:          title,
		Description:    description,
		CreatedAt:      time.Now(),
	}, nil
}
