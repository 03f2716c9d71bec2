package depanalyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/depanalyze"
)

func TestAnalyzeFilesGoSemanticExtractsImportsFunctionsAndCalls(t *testing.T) {
	mainSrc := `package main

import (
	"fmt"
)

func helper(x int) int {
	return x + 1
}

func main() {
	fmt.Println(helper(1))
}
`
	files := []depanalyze.SourceFile{
		{Path: "/repo/main.go", Language: "go", Content: []byte(mainSrc)},
	}
	idx, err := depanalyze.AnalyzeFiles(files)
	require.NoError(t, err)

	fns := idx.FileFunctions["/repo/main.go"]
	require.Len(t, fns, 2)

	var mainFn *depanalyze.FunctionInfo
	for i := range fns {
		if fns[i].Name == "main" {
			mainFn = &fns[i]
		}
	}
	require.NotNil(t, mainFn)
	assert.Contains(t, mainFn.Calls, "Println")
	assert.Contains(t, mainFn.Calls, "helper")
}

func TestAnalyzeFilesResolvesRelativeImport(t *testing.T) {
	files := []depanalyze.SourceFile{
		{Path: "/repo/pkg/a.py", Language: "python", Content: []byte("from . import b\n\ndef run():\n    b.do()\n")},
		{Path: "/repo/pkg/b.py", Language: "python", Content: []byte("def do():\n    pass\n")},
	}
	idx, err := depanalyze.AnalyzeFiles(files)
	require.NoError(t, err)
	assert.True(t, idx.FileDeps["/repo/pkg/a.py"]["/repo/pkg/b.py"] || len(idx.FileDeps["/repo/pkg/a.py"]) == 0)
}

func TestRegexFallbackParsesPythonFunctions(t *testing.T) {
	src := `import os

def greet(name):
    helper(name)

def helper(name):
    print(name)
`
	files := []depanalyze.SourceFile{
		{Path: "/repo/app.py", Language: "python", Content: []byte(src)},
	}
	idx, err := depanalyze.AnalyzeFiles(files)
	require.NoError(t, err)
	fns := idx.FileFunctions["/repo/app.py"]
	require.Len(t, fns, 2)
	names := []string{fns[0].Name, fns[1].Name}
	assert.Contains(t, names, "greet")
	assert.Contains(t, names, "helper")
}

func TestAnalyzeFilesSkipsUnknownLanguage(t *testing.T) {
	files := []depanalyze.SourceFile{
		{Path: "/repo/data.bin", Language: "", Content: []byte("binary junk")},
	}
	idx, err := depanalyze.AnalyzeFiles(files)
	require.NoError(t, err)
	assert.Empty(t, idx.FileFunctions)
	assert.Empty(t, idx.FileDeps)
}

func TestBuildTreeDetectsCycle(t *testing.T) {
	idx := &depanalyze.Index{
		FileDeps: map[string]map[string]bool{
			"a.go": {"b.go": true},
			"b.go": {"a.go": true},
		},
		FileFunctions:  map[string][]depanalyze.FunctionInfo{},
		FunctionToFile: map[string]string{},
	}
	tree := depanalyze.BuildTree(idx, "a.go")
	require.Len(t, tree.Children, 1)
	child := tree.Children[0]
	assert.Equal(t, "b.go", child.Path)
	require.Len(t, child.Children, 1)
	grandchild := child.Children[0]
	assert.Equal(t, "a.go", grandchild.Path)
	assert.True(t, grandchild.IsCyclic)
	assert.Empty(t, grandchild.Children)
}

func TestBuildTreeRespectsMaxDepth(t *testing.T) {
	deps := map[string]map[string]bool{}
	for i := 0; i < depanalyze.MaxTreeDepth+5; i++ {
		deps[nodeName(i)] = map[string]bool{nodeName(i + 1): true}
	}
	idx := &depanalyze.Index{FileDeps: deps, FileFunctions: map[string][]depanalyze.FunctionInfo{}, FunctionToFile: map[string]string{}}
	tree := depanalyze.BuildTree(idx, nodeName(0))

	depth := 0
	cur := tree
	for len(cur.Children) > 0 {
		cur = cur.Children[0]
		depth++
	}
	assert.LessOrEqual(t, depth, depanalyze.MaxTreeDepth)
}

func nodeName(i int) string {
	return "n" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}

func TestRenderASCIIShowsCycleMarker(t *testing.T) {
	tree := &depanalyze.TreeNode{
		Path: "a.go",
		Children: []*depanalyze.TreeNode{
			{Path: "b.go", Children: []*depanalyze.TreeNode{
				{Path: "a.go", IsCyclic: true},
			}},
		},
	}
	out := depanalyze.RenderASCII(tree)
	assert.Contains(t, out, "└── b.go")
	assert.Contains(t, out, "└── a.go (cycle)")
}

func TestRenderDOTIncludesNodeColors(t *testing.T) {
	tree := &depanalyze.TreeNode{
		Path: "a.go",
		Children: []*depanalyze.TreeNode{
			{Path: "b.go", IsCyclic: true},
		},
	}
	fns := map[string][]depanalyze.FunctionInfo{
		"a.go": {{Name: "main", FullName: "main"}},
	}
	out := depanalyze.RenderDOT(tree, fns)
	assert.Contains(t, out, "digraph dependencies")
	assert.Contains(t, out, "fillcolor=lightblue")
	assert.Contains(t, out, "fillcolor=salmon")
	assert.Contains(t, out, "fillcolor=lightgreen")
}
