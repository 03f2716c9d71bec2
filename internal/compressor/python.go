package compressor

import (
	"regexp"
	"strings"
)

func init() {
	register([]string{"python"}, pythonCompressor)
}

var (
	pythonImportOrDef = regexp.MustCompile(`^\s*(import\s|from\s.+\simport\b|def\s|class\s|@|if\s+__name__\s*==\s*["']__main__["'])`)
	pythonControl     = regexp.MustCompile(`^\s*(if|elif|else|for|while|try|except|finally|with)\b.*:\s*$`)
)

// pythonCompressor implements the §4.3 Python rules: keep imports, def,
// class, decorators, top-level control keywords, and the __main__ guard;
// after each def/class header emit "pass" at one additional indent level
// instead of the body, so the result stays syntactically valid.
var pythonCompressor = Func(func(text string) string {
	var out []string
	skipIndent := -1

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := leadingWhitespace(line)

		if skipIndent >= 0 {
			if len(indent) > skipIndent {
				continue // swallow the body we already replaced with pass
			}
			skipIndent = -1
		}

		if strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}

		if pythonImportOrDef.MatchString(line) {
			out = append(out, line)
			if strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "class ") {
				out = append(out, indent+"    pass")
				skipIndent = len(indent)
			}
			continue
		}

		if pythonControl.MatchString(line) {
			out = append(out, line)
			continue
		}
		// implementation line: dropped.
	}
	return strings.Join(out, "\n")
})

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}
