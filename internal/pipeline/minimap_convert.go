package pipeline

import (
	"github.com/tangerg/codewiki/internal/structuredoutput"
	"github.com/tangerg/codewiki/internal/wikimodel"
)

// convertMiniMapNode adapts structuredoutput's parse-time MiniMapNode
// (the Markdown-heading parser's own output shape) into wikimodel's
// persistence-time MiniMapNode. The two types are structurally identical
// but live in different packages: one belongs to the parser, the other
// to the stored entity, and nothing should couple the two beyond this
// conversion.
func convertMiniMapNode(n *structuredoutput.MiniMapNode) *wikimodel.MiniMapNode {
	if n == nil {
		return nil
	}
	out := &wikimodel.MiniMapNode{Title: n.Title, URL: n.URL}
	for _, child := range n.Nodes {
		out.Nodes = append(out.Nodes, convertMiniMapNode(child))
	}
	return out
}
