package structuredoutput_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangerg/codewiki/internal/structuredoutput"
)

func TestExtractReadmePrefersTag(t *testing.T) {
	text := "intro\n<readme># Title\nbody</readme>\ntrailer"
	got := structuredoutput.ExtractReadme(text)
	assert.Equal(t, "# Title\nbody", got)
}

func TestExtractReadmeFallsBackToFencedMarkdown(t *testing.T) {
	text := "Here you go:\n```markdown\n# Title\nbody\n```\nthanks"
	got := structuredoutput.ExtractReadme(text)
	assert.Equal(t, "# Title\nbody", got)
}

func TestExtractReadmeFallsBackToRawText(t *testing.T) {
	text := "  just plain text  "
	got := structuredoutput.ExtractReadme(text)
	assert.Equal(t, "just plain text", got)
}

func TestExtractResponseFilePrefersTag(t *testing.T) {
	text := "<response_file>{\"path\":\"a.go\"}</response_file>"
	got := structuredoutput.ExtractResponseFile(text)
	assert.Equal(t, `{"path":"a.go"}`, got)
}

func TestExtractResponseFileFallsBackToFencedJSON(t *testing.T) {
	text := "```json\n{\"path\":\"a.go\"}\n```"
	got := structuredoutput.ExtractResponseFile(text)
	assert.Equal(t, `{"path":"a.go"}`, got)
}

func TestExtractBlogPrefersTag(t *testing.T) {
	text := "<blog>## Post</blog>"
	got := structuredoutput.ExtractBlog(text)
	assert.Equal(t, "## Post", got)
}

func TestExtractChangelogPrefersTag(t *testing.T) {
	text := "<changelog>- fixed bug</changelog>"
	got := structuredoutput.ExtractChangelog(text)
	assert.Equal(t, "- fixed bug", got)
}

func TestExtractClassifyMatchesAllowedValueCaseInsensitively(t *testing.T) {
	text := "<classify>classifyName: Backend</classify>"
	got := structuredoutput.ExtractClassify(text, []string{"frontend", "backend"})
	assert.Equal(t, "backend", got)
}

func TestExtractClassifyFallsBackToFencedJSONBody(t *testing.T) {
	text := "```json\nfrontend\n```"
	got := structuredoutput.ExtractClassify(text, []string{"frontend", "backend"})
	assert.Equal(t, "frontend", got)
}

func TestExtractClassifyReturnsEmptyWhenNotAllowed(t *testing.T) {
	text := "<classify>classifyName: mobile</classify>"
	got := structuredoutput.ExtractClassify(text, []string{"frontend", "backend"})
	assert.Equal(t, "", got)
}

func TestExtractClassifyReturnsEmptyOnMalformedInput(t *testing.T) {
	got := structuredoutput.ExtractClassify("no classification markers here", []string{"frontend", "backend"})
	assert.Equal(t, "", got)
}

func TestParseMiniMapBuildsNestedTreeByHeadingLevel(t *testing.T) {
	text := "# Root: root/path\n" +
		"## Child A: a/path\n" +
		"### Grandchild: a/b/path\n" +
		"## Child B: b/path\n"

	root := structuredoutput.ParseMiniMap(text)
	if assert.Len(t, root.Nodes, 1) {
		top := root.Nodes[0]
		assert.Equal(t, "Root", top.Title)
		assert.Equal(t, "root/path", top.URL)
		if assert.Len(t, top.Nodes, 2) {
			assert.Equal(t, "Child A", top.Nodes[0].Title)
			assert.Equal(t, "a/path", top.Nodes[0].URL)
			if assert.Len(t, top.Nodes[0].Nodes, 1) {
				assert.Equal(t, "Grandchild", top.Nodes[0].Nodes[0].Title)
				assert.Equal(t, "a/b/path", top.Nodes[0].Nodes[0].URL)
			}
			assert.Equal(t, "Child B", top.Nodes[1].Title)
			assert.Equal(t, "b/path", top.Nodes[1].URL)
		}
	}
}

func TestParseMiniMapHeadingWithoutColonHasNoURL(t *testing.T) {
	root := structuredoutput.ParseMiniMap("# Just A Title\n")
	if assert.Len(t, root.Nodes, 1) {
		assert.Equal(t, "Just A Title", root.Nodes[0].Title)
		assert.Equal(t, "", root.Nodes[0].URL)
	}
}

func TestParseMiniMapUsesLastColonForURLSplit(t *testing.T) {
	root := structuredoutput.ParseMiniMap("# Note: see http://example.com: final/path\n")
	if assert.Len(t, root.Nodes, 1) {
		assert.Equal(t, "Note: see http://example.com", root.Nodes[0].Title)
		assert.Equal(t, "final/path", root.Nodes[0].URL)
	}
}

func TestParseMiniMapSkipsProseLinesBetweenHeadings(t *testing.T) {
	text := "# A: a\n" +
		"some prose that is not a heading\n" +
		"## B: b\n" +
		"more prose\n" +
		"# C: c\n"

	root := structuredoutput.ParseMiniMap(text)
	if assert.Len(t, root.Nodes, 2) {
		assert.Equal(t, "A", root.Nodes[0].Title)
		if assert.Len(t, root.Nodes[0].Nodes, 1) {
			assert.Equal(t, "B", root.Nodes[0].Nodes[0].Title)
		}
		assert.Equal(t, "C", root.Nodes[1].Title)
	}
}

func TestParseMiniMapDoesNotSkipSiblingAfterDeeperSubtree(t *testing.T) {
	// Regression guard for the double-increment bug: a sibling at the
	// same level as an earlier heading, appearing right after a deeper
	// subtree closes, must still be captured.
	text := "# A: a\n" +
		"## A1: a1\n" +
		"### A1a: a1a\n" +
		"## A2: a2\n" +
		"# B: b\n"

	root := structuredoutput.ParseMiniMap(text)
	if assert.Len(t, root.Nodes, 2) {
		a := root.Nodes[0]
		if assert.Len(t, a.Nodes, 2) {
			assert.Equal(t, "A1", a.Nodes[0].Title)
			assert.Len(t, a.Nodes[0].Nodes, 1)
			assert.Equal(t, "A2", a.Nodes[1].Title)
		}
		assert.Equal(t, "B", root.Nodes[1].Title)
	}
}

func TestParseMiniMapEmptyInputProducesNoNodes(t *testing.T) {
	root := structuredoutput.ParseMiniMap("")
	assert.Empty(t, root.Nodes)
}
