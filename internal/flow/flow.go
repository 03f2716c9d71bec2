package flow

import (
	"context"
	"errors"
)

// Flow is a sequential chain of nodes. Each node's output becomes the next
// node's input; the final node's output is the Flow's output.
type Flow struct {
	nodes []Node[any, any]
}

// NewFlow creates a Flow from an ordered list of nodes.
func NewFlow(nodes ...Node[any, any]) *Flow {
	return &Flow{nodes: nodes}
}

// Then appends a node to the chain. Nil nodes are ignored.
func (f *Flow) Then(node Node[any, any]) *Flow {
	if node != nil {
		f.nodes = append(f.nodes, node)
	}
	return f
}

// Step appends a processor, wrapped as a Node, to the chain.
func (f *Flow) Step(processor Processor[any, any]) *Flow {
	if processor != nil {
		f.nodes = append(f.nodes, processor)
	}
	return f
}

// Run executes every node in order, feeding each output into the next input.
func (f *Flow) Run(ctx context.Context, input any) (any, error) {
	if len(f.nodes) == 0 {
		return nil, errors.New("flow has no nodes to run")
	}
	var (
		output any = input
		err    error
	)
	for _, node := range f.nodes {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		output, err = node.Run(ctx, output)
		if err != nil {
			return nil, err
		}
	}
	return output, nil
}

// Join combines multiple nodes into a single sequential Node.
func Join(nodes ...Node[any, any]) (Node[any, any], error) {
	if len(nodes) == 0 {
		return nil, errors.New("at least one node is required")
	}
	return NewFlow(nodes...), nil
}

// OfNode wraps an existing node in a new Flow, ready for further chaining.
func OfNode(node Node[any, any]) *Flow { return NewFlow().Then(node) }

// OfProcessor wraps a processor function in a new Flow.
func OfProcessor(processor Processor[any, any]) *Flow { return NewFlow().Step(processor) }
