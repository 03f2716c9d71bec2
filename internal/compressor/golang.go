package compressor

import (
	"regexp"
	"strings"
)

func init() {
	register([]string{"go"}, goCompressor)
}

var (
	goDecl      = regexp.MustCompile(`^\s*(package\s|import\s|type\s|var\s|const\s)`)
	goFuncOrIf  = regexp.MustCompile(`^\s*(func\s|if\s|else\b|for\s|switch\s|case\s|select\s|default\s*:)`)
	goInterface = regexp.MustCompile(`^\s*(interface|struct)\s*\{`)
)

// goCompressor implements the §4.3 Go rules: preserve package/import,
// type/func/var/const, interface/struct, control keywords, and braces;
// function bodies empty.
var goCompressor = Func(func(text string) string {
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

		if trimmed == "{" || trimmed == "}" || trimmed == ")" {
			out = append(out, line)
			continue
		}

		isFuncSig := strings.HasPrefix(trimmed, "func ") || strings.HasPrefix(trimmed, "func(")
		switch {
		case isFuncSig:
			idx := strings.LastIndex(line, ")")
			if idx == -1 {
				out = append(out, line)
				continue
			}
			out = append(out, line[:idx+1]+" { }")
			if strings.HasSuffix(trimmed, "{") {
				skipDepth = 1
			}
		case goInterface.MatchString(line), goDecl.MatchString(line), goFuncOrIf.MatchString(line):
			out = append(out, line)
		default:
			// implementation line: dropped.
		}
	}
	return strings.Join(out, "\n")
})
