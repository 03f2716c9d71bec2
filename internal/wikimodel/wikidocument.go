package wikimodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// DocumentStatus tracks a WikiDocument through the pipeline. Transitions are
// monotonic: Pending -> Processing -> {Completed, Failed, Canceled}. No
// terminal status ever transitions onward.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "Pending"
	StatusProcessing DocumentStatus = "Processing"
	StatusCompleted  DocumentStatus = "Completed"
	StatusCanceled   DocumentStatus = "Canceled"
	StatusFailed     DocumentStatus = "Failed"
)

func (s DocumentStatus) terminal() bool {
	switch s {
	case StatusCompleted, StatusCanceled, StatusFailed:
		return true
	default:
		return false
	}
}

// WikiDocument is the root record of one generation run over one Repository.
// Language is a supplemented field: the original Python implementation
// stores the detected/requested wiki language alongside the document so
// prompts and rendered output agree (app/models/code_wiki.py), which the
// distilled spec omitted.
type WikiDocument struct {
	ID           uuid.UUID
	RepositoryID uuid.UUID
	Status       DocumentStatus
	Language     string
	IsEmbedded   bool
	ErrorMessage string
	// Progress is the 0-100 completion percentage, advanced by the
	// orchestrator at each stage boundary.
	Progress int
	// Readme, CatalogueText, and ClassifyName hold stages 1-3's outputs,
	// carried on the document itself so later stages (and a re-entrant
	// run resuming after a crash) can read them back without re-deriving.
	Readme        string
	CatalogueText string
	ClassifyName  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewWikiDocument constructs a WikiDocument in StatusPending for repositoryID.
func NewWikiDocument(repositoryID uuid.UUID, language string) (*WikiDocument, error) {
	if repositoryID == uuid.Nil {
		return nil, codewikierr.New(codewikierr.KindValidation, "wiki document repository id is required")
	}
	if language == "" {
		language = "en"
	}
	now := time.Now()
	return &WikiDocument{
		ID:           uuid.New(),
		RepositoryID: repositoryID,
		Status:       StatusPending,
		Language:     language,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Transition moves the document to next, rejecting any transition out of a
// terminal status and any non-adjacent jump.
func (d *WikiDocument) Transition(next DocumentStatus) error {
	if d.Status.terminal() {
		return codewikierr.New(codewikierr.KindConflict, "wiki document status is terminal, cannot transition from "+string(d.Status))
	}
	switch d.Status {
	case StatusPending:
		if next != StatusProcessing && next != StatusCanceled {
			return codewikierr.New(codewikierr.KindConflict, "invalid transition from Pending to "+string(next))
		}
	case StatusProcessing:
		if next != StatusCompleted && next != StatusFailed && next != StatusCanceled {
			return codewikierr.New(codewikierr.KindConflict, "invalid transition from Processing to "+string(next))
		}
	default:
		return codewikierr.New(codewikierr.KindConflict, "invalid transition from "+string(d.Status))
	}
	d.Status = next
	d.UpdatedAt = time.Now()
	return nil
}

// Fail transitions the document to Failed, recording the failure reason.
// Progress is left at the last successfully completed stage's value, per
// spec's "progress left at the last successful stage's value" rule.
func (d *WikiDocument) Fail(reason string) error {
	if err := d.Transition(StatusFailed); err != nil {
		return err
	}
	d.ErrorMessage = reason
	return nil
}

// AdvanceProgress records a stage's completion percentage. It never moves
// progress backward, so a retried stage that ultimately succeeds cannot
// regress a value a later, already-committed stage had already reported.
func (d *WikiDocument) AdvanceProgress(percent int) {
	if percent > d.Progress {
		d.Progress = percent
	}
	d.UpdatedAt = time.Now()
}

// MarkEmbedded sets IsEmbedded, enforcing that a document can only be
// embedded once it has reached Completed — is_embedded=true implies
// status=Completed is an invariant of the data model, not a settable pair
// of independent fields.
func (d *WikiDocument) MarkEmbedded() error {
	if d.Status != StatusCompleted {
		return codewikierr.New(codewikierr.KindConflict, "wiki document must be completed before it can be marked embedded")
	}
	d.IsEmbedded = true
	d.UpdatedAt = time.Now()
	return nil
}
