package compressor

import (
	"regexp"
	"strings"
)

func init() {
	register([]string{
		"csharp", "javascript", "typescript", "java", "kotlin", "scala",
		"c", "cpp", "swift", "php",
	}, cFamilyCompressor)
}

var (
	cFamilyDeclKeyword = regexp.MustCompile(
		`^\s*(package|namespace|import|using|class|interface|struct|enum|trait|` +
			`public|private|protected|internal|static|final|abstract|virtual|override|` +
			`readonly|const|async|export|default|func|function|fn)\b`)
	cFamilySignature  = regexp.MustCompile(`\([^)]*\)\s*(\{)?\s*$`)
	cFamilyBlockStart = regexp.MustCompile(`^\s*(class|interface|struct|enum|namespace|trait)\b`)
	cFamilyPreproc    = regexp.MustCompile(`^\s*#`)
	cFamilyAttribute  = regexp.MustCompile(`^\s*(@\w|\[[A-Z]\w*(\(.*\))?\])`)
)

// cFamilyCompressor implements the C-family rules from §4.3: class-like
// declarations keep their bodies (recursed into), method/function bodies
// collapse to "{ }", initializers truncate at "=", comments pass through
// verbatim, blank lines are dropped.
var cFamilyCompressor = Func(func(text string) string {
	lines := splitLines(text)
	var out []string
	inBlockComment := false
	skipDepth := 0 // >0 while inside a collapsed method body

	for _, raw := range lines {
		line := raw
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
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
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

		if cFamilyPreproc.MatchString(line) || cFamilyAttribute.MatchString(line) {
			out = append(out, line)
			continue
		}

		isDecl := cFamilyDeclKeyword.MatchString(line)
		isBlockStart := cFamilyBlockStart.MatchString(line) || strings.Contains(line, "class ") ||
			strings.Contains(line, "interface ") || strings.Contains(line, "struct ") || strings.Contains(line, "enum ")
		isSignature := cFamilySignature.MatchString(line) && strings.Contains(line, "(")

		switch {
		case isSignature && !isBlockStart:
			idx := strings.LastIndex(line, ")")
			head := line[:idx+1]
			out = append(out, head+" { }")
			if strings.HasSuffix(trimmed, "{") {
				skipDepth = 1
			} else if strings.HasSuffix(trimmed, "}") {
				// single-line body already closed, nothing to skip
			} else {
				skipDepth = 1
			}
			continue
		case isDecl || isBlockStart:
			out = append(out, truncateInitializer(line))
			continue
		default:
			// implementation line inside an uncollapsed scope (rare once
			// method bodies are collapsed above): dropped.
		}
	}
	return strings.Join(out, "\n")
})

// truncateInitializer drops everything from the first top-level "=" to the
// statement terminator, keeping the terminator itself.
func truncateInitializer(line string) string {
	idx := strings.Index(line, "=")
	if idx == -1 || strings.Contains(line[:idx], "==") {
		return line
	}
	rest := line[idx+1:]
	term := ";"
	if !strings.Contains(rest, ";") {
		return line
	}
	return strings.TrimRight(line[:idx], " \t") + term
}
