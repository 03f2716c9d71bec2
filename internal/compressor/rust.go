package compressor

import (
	"regexp"
	"strings"
)

func init() {
	register([]string{"rust"}, rustCompressor)
}

var (
	rustDecl = regexp.MustCompile(
		`^\s*(pub(\(\w+\))?\s+)?(use|mod|extern|crate|struct|enum|trait|impl|type|const|static|macro_rules!)\b`)
	rustControl = regexp.MustCompile(`^\s*(if|else|for|while|loop|match)\b`)
	rustFn      = regexp.MustCompile(`^\s*(pub(\(\w+\))?\s+)?(async\s+)?(unsafe\s+)?fn\s`)
)

// rustCompressor implements the §4.3 Rust rules: preserve use/mod/extern/
// crate, visibility modifiers, fn/struct/enum/trait/impl/type/const/
// static/macro_rules!, control keywords; empty function bodies.
var rustCompressor = Func(func(text string) string {
	lines := splitLines(text)
	var out []string
	skipDepth := 0
	inBlockComment := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if inBlockComment {
			out = append(out, line)
			if strings.Contains(line, "*/") {
				inBlockComment = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "/*") {
			out = append(out, line)
			if !strings.Contains(trimmed, "*/") {
				inBlockComment = true
			}
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			out = append(out, line)
			continue
		}

		if skipDepth > 0 {
			skipDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if skipDepth <= 0 {
				skipDepth = 0
			}
			continue
		}

		if trimmed == "{" || trimmed == "}" {
			out = append(out, line)
			continue
		}

		switch {
		case rustFn.MatchString(line):
			idx := strings.LastIndex(line, ")")
			if idx == -1 {
				out = append(out, line)
				continue
			}
			out = append(out, line[:idx+1]+" { }")
			if strings.HasSuffix(trimmed, "{") {
				skipDepth = 1
			}
		case rustDecl.MatchString(line), rustControl.MatchString(line):
			out = append(out, line)
		default:
			// implementation line: dropped.
		}
	}
	return strings.Join(out, "\n")
})
