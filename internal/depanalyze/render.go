package depanalyze

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderASCII draws tree using the classic box-drawing connectors, with a
// "(cycle)" suffix on nodes that close a cycle.
func RenderASCII(tree *TreeNode) string {
	var b strings.Builder
	b.WriteString(tree.Path)
	if tree.IsCyclic {
		b.WriteString(" (cycle)")
	}
	b.WriteByte('\n')
	renderASCIIChildren(&b, tree.Children, "")
	return strings.TrimRight(b.String(), "\n")
}

func renderASCIIChildren(b *strings.Builder, children []*TreeNode, prefix string) {
	for i, child := range children {
		last := i == len(children)-1
		connector := "├── "
		nextPrefix := prefix + "│   "
		if last {
			connector = "└── "
			nextPrefix = prefix + "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.Path)
		if child.IsCyclic {
			b.WriteString(" (cycle)")
		}
		b.WriteByte('\n')
		if !child.IsCyclic {
			renderASCIIChildren(b, child.Children, nextPrefix)
		}
	}
}

// RenderDOT renders tree as a Graphviz DOT digraph. File nodes are blue,
// function nodes (when fns is supplied) are green, and cyclic nodes are
// salmon.
func RenderDOT(tree *TreeNode, fns map[string][]FunctionInfo) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	seen := map[string]bool{}
	writeDOTNodes(&b, tree, seen)
	writeDOTEdges(&b, tree, map[string]bool{})
	if fns != nil {
		writeDOTFunctions(&b, fns)
	}
	b.WriteString("}\n")
	return b.String()
}

func writeDOTNodes(b *strings.Builder, node *TreeNode, seen map[string]bool) {
	id := dotID(node.Path)
	if !seen[id] {
		seen[id] = true
		color := "lightblue"
		if node.IsCyclic {
			color = "salmon"
		}
		fmt.Fprintf(b, "  %s [label=%s fillcolor=%s style=filled];\n", id, strconv.Quote(node.Path), color)
	}
	if node.IsCyclic {
		return
	}
	for _, child := range node.Children {
		writeDOTNodes(b, child, seen)
	}
}

func writeDOTEdges(b *strings.Builder, node *TreeNode, seen map[string]bool) {
	fromID := dotID(node.Path)
	for _, child := range node.Children {
		toID := dotID(child.Path)
		edge := fromID + "->" + toID
		if !seen[edge] {
			seen[edge] = true
			fmt.Fprintf(b, "  %s -> %s;\n", fromID, toID)
		}
		if !child.IsCyclic {
			writeDOTEdges(b, child, seen)
		}
	}
}

func writeDOTFunctions(b *strings.Builder, fns map[string][]FunctionInfo) {
	for _, file := range sortedFnKeys(fns) {
		fileID := dotID(file)
		for _, fn := range fns[file] {
			fnID := dotID(file + "#" + fn.FullName)
			fmt.Fprintf(b, "  %s [label=%s fillcolor=lightgreen style=filled];\n", fnID, strconv.Quote(fn.Name))
			fmt.Fprintf(b, "  %s -> %s;\n", fileID, fnID)
		}
	}
}

func sortedFnKeys(fns map[string][]FunctionInfo) []string {
	keys := make([]string, 0, len(fns))
	for k := range fns {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func dotID(path string) string {
	replacer := strings.NewReplacer("/", "_", ".", "_", "-", "_", "#", "_", " ", "_")
	return "n_" + replacer.Replace(path)
}
