package depanalyze

import (
	"regexp"
	"strings"
)

// regexParser is the fallback analyzer used for every language without a
// semantic analyzer registered. The table also carries a Go entry, which
// AnalyzeFiles never selects because Go has a semantic analyzer. It
// locates function headers and import-like statements
// with regular expressions rather than a real parse, and estimates a
// function's body by brace or indentation span.
type regexParser struct {
	language    string
	importRe    *regexp.Regexp
	funcRe      *regexp.Regexp
	callRe      *regexp.Regexp
	braceBodied bool
}

var regexParsers = map[string]*regexParser{
	"go": {
		language:    "go",
		importRe:    regexp.MustCompile(`^\s*"([^"]+)"\s*$`),
		funcRe:      regexp.MustCompile(`^\s*func\s*(?:\([^)]*\)\s*)?(\w+)\s*\(`),
		callRe:      regexp.MustCompile(`(\w+)\s*\(`),
		braceBodied: true,
	},
	"python": {
		language:    "python",
		importRe:    regexp.MustCompile(`^\s*(?:import|from)\s+([\w.]+)`),
		funcRe:      regexp.MustCompile(`^\s*def\s+(\w+)\s*\(`),
		callRe:      regexp.MustCompile(`(\w+)\s*\(`),
		braceBodied: false,
	},
	"javascript": {
		language:    "javascript",
		importRe:    regexp.MustCompile(`^\s*import\s+.*from\s+['"]([^'"]+)['"]|require\(['"]([^'"]+)['"]\)`),
		funcRe:      regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(`),
		callRe:      regexp.MustCompile(`(\w+)\s*\(`),
		braceBodied: true,
	},
	"java": {
		language:    "java",
		importRe:    regexp.MustCompile(`^\s*import\s+([\w.]+)\s*;`),
		funcRe:      regexp.MustCompile(`^\s*(?:public|private|protected|static|final|\s)*\w[\w<>\[\]]*\s+(\w+)\s*\([^;{]*\)\s*\{`),
		callRe:      regexp.MustCompile(`(\w+)\s*\(`),
		braceBodied: true,
	},
	"c": {
		language:    "c",
		importRe:    regexp.MustCompile(`^\s*#include\s*[<"]([^>"]+)[>"]`),
		funcRe:      regexp.MustCompile(`^\s*\w[\w\s*]*\b(\w+)\s*\([^;{]*\)\s*\{`),
		callRe:      regexp.MustCompile(`(\w+)\s*\(`),
		braceBodied: true,
	},
	"cpp": {
		language:    "cpp",
		importRe:    regexp.MustCompile(`^\s*#include\s*[<"]([^>"]+)[>"]`),
		funcRe:      regexp.MustCompile(`^\s*\w[\w\s*&:<>,]*\b(\w+)\s*\([^;{]*\)\s*\{`),
		callRe:      regexp.MustCompile(`(\w+)\s*\(`),
		braceBodied: true,
	},
}

// goKeywords excludes Go control-flow keywords from being mistaken for
// function calls by callRe.
var goKeywords = map[string]bool{
	"if": true, "for": true, "switch": true, "select": true, "return": true,
	"go": true, "defer": true, "func": true, "range": true, "var": true,
	"const": true, "type": true, "package": true, "import": true,
}

func (p *regexParser) Language() string { return p.language }

func (p *regexParser) Analyze(path string, content []byte) (*Index, error) {
	idx := newIndex()
	lines := strings.Split(string(content), "\n")
	var cur *FunctionInfo
	var bodyLines []string
	braceDepth := 0
	baseIndent := -1

	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.Join(bodyLines, "\n")
		cur.Calls = p.findCalls(cur.Body)
		idx.addFunction(*cur)
		cur = nil
		bodyLines = nil
		baseIndent = -1
	}

	for i, line := range lines {
		if m := p.importRe.FindStringSubmatch(line); m != nil && cur == nil {
			for _, g := range m[1:] {
				if g != "" {
					idx.addDep(path, g)
					break
				}
			}
			continue
		}
		if m := p.funcRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &FunctionInfo{
				Name:       m[1],
				FullName:   m[1],
				FilePath:   path,
				LineNumber: i + 1,
			}
			bodyLines = []string{line}
			if p.braceBodied {
				braceDepth = strings.Count(line, "{") - strings.Count(line, "}")
				if braceDepth <= 0 {
					flush()
				}
			} else {
				baseIndent = len(leadingWhitespace(line))
			}
			continue
		}
		if cur == nil {
			continue
		}
		if p.braceBodied {
			bodyLines = append(bodyLines, line)
			braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if braceDepth <= 0 {
				flush()
			}
			continue
		}
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			bodyLines = append(bodyLines, line)
			continue
		}
		if len(leadingWhitespace(line)) <= baseIndent {
			flush()
			if m := p.funcRe.FindStringSubmatch(line); m != nil {
				cur = &FunctionInfo{Name: m[1], FullName: m[1], FilePath: path, LineNumber: i + 1}
				bodyLines = []string{line}
				baseIndent = len(leadingWhitespace(line))
			}
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	flush()
	return idx, nil
}

func (p *regexParser) findCalls(body string) []string {
	var calls []string
	seen := map[string]bool{}
	for _, m := range p.callRe.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if p.language == "go" && goKeywords[name] {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		calls = append(calls, name)
	}
	return calls
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}
