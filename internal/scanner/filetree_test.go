package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/scanner"
)

func buildSampleTree(t *testing.T) *scanner.FileTree {
	t.Helper()
	infos := []scanner.PathInfo{
		{AbsolutePath: "/repo/cmd", IsDirectory: true, BaseName: "cmd"},
		{AbsolutePath: "/repo/cmd/main.go", IsDirectory: false, BaseName: "main.go", SizeBytes: 120},
		{AbsolutePath: "/repo/internal", IsDirectory: true, BaseName: "internal"},
		{AbsolutePath: "/repo/internal/app", IsDirectory: true, BaseName: "app"},
		{AbsolutePath: "/repo/internal/app/app.go", IsDirectory: false, BaseName: "app.go", SizeBytes: 200},
		{AbsolutePath: "/repo/README.md", IsDirectory: false, BaseName: "README.md", SizeBytes: 50},
	}
	tree, err := scanner.BuildFileTree("/repo", infos)
	require.NoError(t, err)
	return tree
}

func TestEncodeCompactOrdersDirsBeforeFiles(t *testing.T) {
	tree := buildSampleTree(t)
	out, err := scanner.Encode(tree, scanner.FormatCompact, scanner.DefaultEncodeOptions())
	require.NoError(t, err)
	assert.Equal(t, "cmd/D\n  main.go/F\ninternal/D\n  app/D\n    app.go/F\nREADME.md/F\n", out)
}

func TestEncodeJSONIsCompactNoWhitespace(t *testing.T) {
	tree := buildSampleTree(t)
	out, err := scanner.Encode(tree, scanner.FormatJSON, scanner.DefaultEncodeOptions())
	require.NoError(t, err)
	assert.NotContains(t, out, " ")
	assert.Equal(t, `{"cmd":{"main.go":"F"},"internal":{"app":{"app.go":"F"}},"README.md":"F"}`, out)
}

func TestEncodePathListCollapsesSingleChildDirs(t *testing.T) {
	tree := buildSampleTree(t)
	out, err := scanner.Encode(tree, scanner.FormatPathList, scanner.DefaultEncodeOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "cmd/main.go")
	assert.Contains(t, out, "internal/app/app.go")
	assert.NotContains(t, out, "internal/\n")
}

func TestEncodePathListWithoutCollapse(t *testing.T) {
	tree := buildSampleTree(t)
	out, err := scanner.Encode(tree, scanner.FormatPathList, scanner.EncodeOptions{CollapseSingleChild: false})
	require.NoError(t, err)
	assert.Contains(t, out, "internal/\n")
	assert.Contains(t, out, "internal/app/\n")
}

func TestEncodeUnixUsesBoxDrawing(t *testing.T) {
	tree := buildSampleTree(t)
	out, err := scanner.Encode(tree, scanner.FormatUnix, scanner.DefaultEncodeOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "├── cmd/")
	assert.Contains(t, out, "└── README.md")
}

func TestEncodeIsDeterministic(t *testing.T) {
	tree := buildSampleTree(t)
	first, err := scanner.Encode(tree, scanner.FormatCompact, scanner.DefaultEncodeOptions())
	require.NoError(t, err)
	second, err := scanner.Encode(tree, scanner.FormatCompact, scanner.DefaultEncodeOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	tree := buildSampleTree(t)
	_, err := scanner.Encode(tree, scanner.Format("xml"), scanner.DefaultEncodeOptions())
	assert.Error(t, err)
}
