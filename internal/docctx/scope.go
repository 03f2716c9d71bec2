package docctx

import "context"

// Scope runs fn with a fresh Context attached to ctx and returns fn's
// error. Scope keeps no reference to the Context after fn returns; only a
// reference fn itself retains outlives the call. Use this when
// a caller wants the With/From pairing without manually threading a
// Context value through its own scope.
func Scope(ctx context.Context, fn func(ctx context.Context, docCtx *Context) error) error {
	docCtx := New()
	scoped := With(ctx, docCtx)
	return fn(scoped, docCtx)
}
