// Package flow provides a composable pipeline framework: nodes that transform
// typed input to typed output, chained sequentially or wrapped in branch,
// loop, batch, parallel, and async nodes.
package flow

import (
	"context"
	"errors"
)

// Processor represents a function that transforms input data into output data.
// It is the fundamental building block for data transformation in the flow
// framework: defining processing logic as a first-class type enables flexible
// composition and reuse.
//
// Example:
//
//	uppercase := Processor[string, string](func(ctx context.Context, input string) (string, error) {
//		return strings.ToUpper(input), nil
//	})
type Processor[I any, O any] func(context.Context, I) (O, error)

// AsProcessor converts a regular function to a Processor type.
func AsProcessor[I any, O any](fn func(context.Context, I) (O, error)) Processor[I, O] {
	return fn
}

// Run implements Node for Processor, so any Processor can be used wherever a
// Node is expected.
func (p Processor[I, O]) Run(ctx context.Context, input I) (O, error) {
	return p(ctx, input)
}

// checkContextCancellation returns ctx.Err() if the context has already been
// canceled, nil otherwise. Batch nodes call this before segmenting (so a
// canceled context short-circuits instead of fanning out) and before
// aggregating; Parallel nodes call it before aggregating.
func (p Processor[I, O]) checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// validateProcessor reports whether a processor is usable.
func validateProcessor[I any, O any](p Processor[I, O]) error {
	if p == nil {
		return errors.New("processor is required")
	}
	return nil
}

// processorFromNode adapts a Node into a Processor so batch, parallel, and
// async configuration (which accept Nodes for a uniform builder API) can
// reuse the Processor-based runtime logic underneath.
func processorFromNode[I any, O any](node Node[I, O]) Processor[I, O] {
	return func(ctx context.Context, input I) (O, error) {
		return node.Run(ctx, input)
	}
}

// ProcessorMiddleware wraps a processor with additional behavior: logging,
// metrics, retries, or anything else that should run before or after the
// wrapped processing logic.
//
// Example:
//
//	logged := flow.ProcessorMiddleware[any, any](func(p flow.Processor[any, any]) flow.Processor[any, any] {
//		return func(ctx context.Context, input any) (any, error) {
//			output, err := p(ctx, input)
//			return output, err
//		}
//	})
type ProcessorMiddleware[I any, O any] func(processor Processor[I, O]) Processor[I, O]
