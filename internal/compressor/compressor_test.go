package compressor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tangerg/codewiki/internal/compressor"
)

func TestDetectLanguageByExtension(t *testing.T) {
	assert.Equal(t, "go", compressor.DetectLanguage("internal/app/main.go"))
	assert.Equal(t, "python", compressor.DetectLanguage("scripts/run.py"))
	assert.Equal(t, "markdown", compressor.DetectLanguage("README.md"))
}

func TestDetectLanguageByNameOnly(t *testing.T) {
	assert.Equal(t, "bash", compressor.DetectLanguage("Dockerfile"))
	assert.Equal(t, "ruby", compressor.DetectLanguage("Rakefile"))
}

func TestDetectLanguageUnknownReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", compressor.DetectLanguage("data.bin"))
}

func TestGoCompressorEmptiesFunctionBodies(t *testing.T) {
	src := `package main

import "fmt"

func main() {
	x := 1
	fmt.Println(x)
}
`
	out := compressor.Compress("go", src)
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, `import "fmt"`)
	assert.Contains(t, out, "func main() { }")
	assert.NotContains(t, out, "fmt.Println")
	assert.NotContains(t, out, "\n\n", "blank lines must be removed")
}

func TestPythonCompressorEmitsPassAfterDef(t *testing.T) {
	src := `import os

def greet(name):
    message = "hello " + name
    print(message)

class Greeter:
    def __init__(self):
        self.count = 0
`
	out := compressor.Compress("python", src)
	assert.Contains(t, out, "def greet(name):")
	assert.Contains(t, out, "    pass")
	assert.NotContains(t, out, "print(message)")
}

func TestCFamilyCompressorTruncatesInitializers(t *testing.T) {
	src := `public class Counter {
    private int value = 0;

    public int increment() {
        value = value + 1;
        return value;
    }
}
`
	out := compressor.Compress("java", src)
	assert.Contains(t, out, "public class Counter {")
	assert.Contains(t, out, "private int value;")
	assert.Contains(t, out, "public int increment() { }")
	assert.NotContains(t, out, "value + 1")
}

func TestMarkdownCompressorReplacesListContent(t *testing.T) {
	src := `# Title

- first item with a lot of detail
- second item

Some prose paragraph that should be dropped.

` + "```go\ncode stays\n```"
	out := compressor.Compress("markdown", src)
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "- …")
	assert.NotContains(t, out, "prose paragraph")
	assert.Contains(t, out, "code stays")
}

func TestJSONCompressorStripsLeafValues(t *testing.T) {
	src := `{"name":"codewiki","count":3,"tags":["a","b"]}`
	out := compressor.Compress("json", src)
	assert.Contains(t, out, `"name":null`)
	assert.Contains(t, out, `"count":null`)
	assert.True(t, strings.HasPrefix(out, "{"))
}

func TestJSONCompressorFallsBackOnParseFailure(t *testing.T) {
	out := compressor.Compress("json", "not json at all")
	assert.Equal(t, "not json at all", out)
}

func TestYAMLCompressorKeepsFirstSequenceElement(t *testing.T) {
	src := "name: codewiki\nitems:\n  - one\n  - two\n  - three\n"
	out := compressor.Compress("yaml", src)
	assert.Contains(t, out, "name: null")
	assert.Contains(t, out, "- null")
	assert.NotContains(t, out, "two")
}

func TestGenericCompressorDropsBlankLinesOnly(t *testing.T) {
	src := "line one\n\nline two\n\n\n"
	out := compressor.Compress("unknown-language", src)
	assert.Equal(t, "line one\nline two", out)
}
