package depanalyze

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// goSemanticAnalyzer parses Go source with Tree-sitter and extracts
// imports, top-level function/method declarations, and the calls made
// from inside each.
type goSemanticAnalyzer struct{}

func (goSemanticAnalyzer) Language() string { return "go" }

func (a goSemanticAnalyzer) Analyze(path string, content []byte) (*Index, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	idx := newIndex()
	ctx := &goWalkContext{path: path, content: content, index: idx}
	a.walk(tree.RootNode(), ctx)
	return idx, nil
}

type goWalkContext struct {
	path      string
	content   []byte
	index     *Index
	curFunc   *FunctionInfo
	pkgImport string
}

func (a goSemanticAnalyzer) walk(n *sitter.Node, ctx *goWalkContext) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_spec":
		a.extractImport(n, ctx)
	case "function_declaration", "method_declaration":
		a.extractFunction(n, ctx)
		return
	case "call_expression":
		a.extractCall(n, ctx)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		a.walk(n.Child(i), ctx)
	}
}

func (a goSemanticAnalyzer) extractImport(n *sitter.Node, ctx *goWalkContext) {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		return
	}
	importPath := strings.Trim(a.text(pathNode, ctx.content), "\"")
	ctx.index.addDep(ctx.path, importPath)
}

func (a goSemanticAnalyzer) extractFunction(n *sitter.Node, ctx *goWalkContext) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := a.text(nameNode, ctx.content)
	fullName := name
	if recv := n.ChildByFieldName("receiver"); recv != nil {
		if recvType := a.receiverTypeName(recv, ctx.content); recvType != "" {
			fullName = recvType + "." + name
		}
	}
	fn := FunctionInfo{
		Name:       name,
		FullName:   fullName,
		FilePath:   ctx.path,
		LineNumber: int(n.StartPoint().Row) + 1,
		Body:       a.text(n, ctx.content),
	}
	inner := &goWalkContext{path: ctx.path, content: ctx.content, index: ctx.index, curFunc: &fn}
	if body := n.ChildByFieldName("body"); body != nil {
		a.walk(body, inner)
	}
	fn.Calls = inner.curFunc.Calls
	ctx.index.addFunction(fn)
}

func (a goSemanticAnalyzer) extractCall(n *sitter.Node, ctx *goWalkContext) {
	if ctx.curFunc == nil {
		return
	}
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil {
		return
	}
	callee := a.text(fnNode, ctx.content)
	if idx := strings.LastIndex(callee, "."); idx >= 0 {
		callee = callee[idx+1:]
	}
	ctx.curFunc.Calls = append(ctx.curFunc.Calls, callee)
}

// receiverTypeName pulls the bare type name out of a method receiver
// parameter list, stripping the pointer star and generic parameters.
func (a goSemanticAnalyzer) receiverTypeName(recv *sitter.Node, content []byte) string {
	for i := 0; i < int(recv.ChildCount()); i++ {
		child := recv.Child(i)
		if child.Type() != "parameter_declaration" {
			continue
		}
		typeNode := child.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		name := a.text(typeNode, content)
		name = strings.TrimPrefix(name, "*")
		if idx := strings.IndexByte(name, '['); idx >= 0 {
			name = name[:idx]
		}
		return name
	}
	return ""
}

func (a goSemanticAnalyzer) text(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}
