// Package pipeline drives one WikiDocument through the eight generation
// stages, persisting progress and status through wikistore at every
// boundary and retrying a stage's body on a retryable failure before
// giving up and marking the document Failed.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/flow"
	"github.com/tangerg/codewiki/internal/llm/kernel"
	"github.com/tangerg/codewiki/internal/pkgutil"
	"github.com/tangerg/codewiki/internal/scanner"
	"github.com/tangerg/codewiki/internal/wikimodel"
	"github.com/tangerg/codewiki/internal/wikistore"
)

// Dependencies are the externally-provided collaborators one Pipeline
// invocation needs. Which provider backs Kernel, and whether its native
// function registry already carries FileFunction/GitFunction/RagFunction
// tools scoped to a given repository, is a wiring concern upstream of
// this package (the CLI's kernel factory).
type Dependencies struct {
	Store wikistore.Store
	Kernel *kernel.Kernel
	// Pool bounds stage 7's concurrent per-leaf-catalog generation.
	// Defaults to pkgutil.DefaultPool() when nil.
	Pool pkgutil.Pool
	// EnableSmartFilter mirrors code_wiki_gen.enable_smart_filter: when
	// true and the scan has more than SmartFilterThreshold entries, stage
	// 2 delegates directory reduction to the LLM instead of using the
	// raw encoded listing directly.
	EnableSmartFilter bool
	// SmartFilterThreshold defaults to 800.
	SmartFilterThreshold int
	// CatalogueFormat selects one of scanner's four encodings. Defaults
	// to FormatCompact.
	CatalogueFormat scanner.Format
	// Language is the wiki's output language. Defaults to "en". No stage
	// reads it; the truncation-notice locale is set per provider.
	Language string
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Pool == nil {
		d.Pool = pkgutil.DefaultPool()
	}
	if d.SmartFilterThreshold <= 0 {
		d.SmartFilterThreshold = 800
	}
	if d.CatalogueFormat == "" {
		d.CatalogueFormat = scanner.FormatCompact
	}
	if d.Language == "" {
		d.Language = "en"
	}
	return d
}

// Pipeline generates one WikiDocument's wiki.
type Pipeline struct {
	deps Dependencies
}

// New builds a Pipeline over deps, filling in defaults for anything left
// unset.
func New(deps Dependencies) *Pipeline {
	return &Pipeline{deps: deps.withDefaults()}
}

// stageDef names one pipeline stage, the progress value it reports on
// success, its retry policy, and the function that runs it.
type stageDef struct {
	name        string
	progress    int
	maxAttempts int
	run         func(ctx context.Context, p *Pipeline, rs *runState) error
}

// maxAttemptsDefault is spec §7's "3 elsewhere" stage retry bound.
const maxAttemptsDefault = 3

// maxAttemptsDirectorySimplifier is spec §7's stage-2-specific bound for
// the directory-simplification LLM call.
const maxAttemptsDirectorySimplifier = 5

func (p *Pipeline) stages() []stageDef {
	return []stageDef{
		{name: "readme", progress: 10, maxAttempts: maxAttemptsDefault, run: (*Pipeline).runReadmeStage},
		{name: "catalogue", progress: 25, maxAttempts: maxAttemptsDirectorySimplifier, run: (*Pipeline).runCatalogueStage},
		{name: "classify", progress: 35, maxAttempts: maxAttemptsDefault, run: (*Pipeline).runClassifyStage},
		{name: "minimap", progress: 45, maxAttempts: maxAttemptsDefault, run: (*Pipeline).runMiniMapStage},
		{name: "overview", progress: 60, maxAttempts: maxAttemptsDefault, run: (*Pipeline).runOverviewStage},
		{name: "wiki_catalogue", progress: 75, maxAttempts: maxAttemptsDefault, run: (*Pipeline).runWikiCatalogueStage},
		{name: "wiki_content", progress: 95, maxAttempts: maxAttemptsDefault, run: (*Pipeline).runWikiContentStage},
		{name: "changelog", progress: 100, maxAttempts: maxAttemptsDefault, run: (*Pipeline).runChangelogStage},
	}
}

// Run drives documentID's WikiDocument from Pending through every stage
// to Completed, or to Failed/Canceled on an unrecoverable error.
func (p *Pipeline) Run(ctx context.Context, documentID uuid.UUID) error {
	doc, err := p.deps.Store.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	repo, err := p.deps.Store.GetRepository(ctx, doc.RepositoryID)
	if err != nil {
		return err
	}

	if err := doc.Transition(wikimodel.StatusProcessing); err != nil {
		return err
	}
	if err := p.deps.Store.UpdateDocument(ctx, doc); err != nil {
		return err
	}

	rs := &runState{doc: doc, repo: repo}
	f := p.buildFlow()

	_, runErr := f.Run(ctx, rs)
	if runErr != nil {
		if codewikierr.Is(runErr, codewikierr.KindCancelled) {
			_ = doc.Transition(wikimodel.StatusCanceled)
		} else {
			_ = doc.Fail(runErr.Error())
		}
		_ = p.deps.Store.UpdateDocument(ctx, doc)
		return runErr
	}

	if err := doc.Transition(wikimodel.StatusCompleted); err != nil {
		return err
	}
	return p.deps.Store.UpdateDocument(ctx, doc)
}

// buildFlow composes the eight stages into one flow.Flow. Retrying a
// stage's body on a retryable failure happens inside runStage, not via
// flow.Loop (see SPEC_FULL.md's note on why Loop can't express this).
func (p *Pipeline) buildFlow() *flow.Flow {
	f := flow.NewFlow()
	for _, sd := range p.stages() {
		sd := sd
		f = f.Step(flow.AsProcessor(func(ctx context.Context, input any) (any, error) {
			rs := input.(*runState)
			if err := p.runStage(ctx, sd, rs); err != nil {
				return nil, err
			}
			return rs, nil
		}))
	}
	return f
}

// runStage runs sd's body up to sd.maxAttempts times (an IOError at most
// twice), waiting 5*(attempt+1) seconds linearly between retryable
// failures, recording duration/failure metrics, and persisting the
// document with its advanced progress once the stage succeeds. The stored
// document is current when a stage starts: Run persists the Processing
// status before the first stage, and each stage persists on success.
func (p *Pipeline) runStage(ctx context.Context, sd stageDef, rs *runState) error {
	start := time.Now()
	var err error
	for attempt := 0; attempt < sd.maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return codewikierr.Wrap(codewikierr.KindCancelled, "pipeline canceled", ctxErr)
		}

		err = sd.run(p, ctx, rs)
		if err == nil {
			break
		}

		kind, _ := codewikierr.Of(err)
		if !codewikierr.Retryable(kind) {
			break
		}
		// IOError gets a single retry; other retryable kinds use the
		// stage's full attempt budget.
		if kind == codewikierr.KindIO && attempt >= 1 {
			break
		}
		if attempt == sd.maxAttempts-1 {
			break
		}

		wait := time.Duration(5*(attempt+1)) * time.Second
		select {
		case <-ctx.Done():
			return codewikierr.Wrap(codewikierr.KindCancelled, "pipeline canceled", ctx.Err())
		case <-time.After(wait):
		}
	}

	recordStageDuration(sd.name, time.Since(start).Seconds())
	if err != nil {
		recordStageFailure(sd.name)
		return err
	}

	rs.doc.AdvanceProgress(sd.progress)
	recordProgress(rs.doc.ID.String(), rs.doc.Progress)
	return p.deps.Store.UpdateDocument(ctx, rs.doc)
}
