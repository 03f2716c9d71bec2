// Package docctx carries a per-pipeline-execution, mutable record of the
// files and issues an LLM referenced while generating a document, threaded
// through a context.Context value rather than a goroutine-local singleton.
package docctx

import (
	"context"
	"sync"
	"time"
)

type contextKey struct{}

// GitIssue is one issue or PR surfaced by a native function search, kept
// alongside the context so the persistence layer can cite it as a
// ContentSource.
type GitIssue struct {
	Title     string
	URL       string
	HTMLURL   string
	Content   string
	Author    string
	State     string
	Number    int
	CreatedAt time.Time
}

// Context is the mutable, task-scoped accumulator. Safe for concurrent use
// by the parallel stages of one pipeline execution.
type Context struct {
	mu        sync.Mutex
	files     []string
	seenFiles map[string]bool
	gitIssues []GitIssue
	metadata  map[string]any
}

// New returns an empty Context.
func New() *Context {
	return &Context{
		seenFiles: map[string]bool{},
		metadata:  map[string]any{},
	}
}

// With attaches c to ctx, returning a derived context a callee can read
// it back from via From.
func With(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// From retrieves the Context attached by With. Returns nil, false if ctx
// carries none — callers needing one unconditionally should use FromOrNew.
func From(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok
}

// FromOrNew retrieves the Context attached by With, or a fresh detached
// one if ctx carries none. The fresh instance is not attached back to ctx;
// callers that need attachment should do so explicitly via With.
func FromOrNew(ctx context.Context) *Context {
	if c, ok := From(ctx); ok {
		return c
	}
	return New()
}

// AddFile records a referenced file path, deduplicating repeats.
func (c *Context) AddFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seenFiles[path] {
		return
	}
	c.seenFiles[path] = true
	c.files = append(c.files, path)
}

// Files returns a snapshot of the referenced file paths in first-seen
// order.
func (c *Context) Files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// AddGitIssue records an issue or PR surfaced by a search.
func (c *Context) AddGitIssue(issue GitIssue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gitIssues = append(c.gitIssues, issue)
}

// GitIssues returns a snapshot of the recorded issues in recorded order.
func (c *Context) GitIssues() []GitIssue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]GitIssue, len(c.gitIssues))
	copy(out, c.gitIssues)
	return out
}

// SetMetadata stores an arbitrary key/value pair.
func (c *Context) SetMetadata(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[key] = value
}

// Metadata retrieves a previously stored value.
func (c *Context) Metadata(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.metadata[key]
	return v, ok
}
