package depanalyze

// fileAnalyzer is implemented by both the Tree-sitter semantic analyzer
// and the regex fallback parsers.
type fileAnalyzer interface {
	Language() string
	Analyze(path string, content []byte) (*Index, error)
}

// semanticAnalyzers holds the analyzers that own a language's full parse
// instead of falling back to regex. Only Go has one: the rest of the
// languages spec.md lists a regex fallback for.
var semanticAnalyzers = map[string]fileAnalyzer{
	"go": goSemanticAnalyzer{},
}

// SourceFile is one file to analyze, tagged with its detected language.
type SourceFile struct {
	Path     string
	Language string
	Content  []byte
}

// AnalyzeFiles runs the registered semantic analyzer for each file's
// language when one exists, and the regex fallback otherwise. Files in an
// unrecognized language are skipped; they contribute neither dependency
// edges nor functions.
func AnalyzeFiles(files []SourceFile) (*Index, error) {
	idx := newIndex()
	for _, f := range files {
		analyzer := pickAnalyzer(f.Language)
		if analyzer == nil {
			continue
		}
		fileIdx, err := analyzer.Analyze(f.Path, f.Content)
		if err != nil {
			continue
		}
		idx.merge(fileIdx)
	}
	resolveImports(idx, files)
	return idx, nil
}

func pickAnalyzer(language string) fileAnalyzer {
	if a, ok := semanticAnalyzers[language]; ok {
		return a
	}
	if a, ok := regexParsers[language]; ok {
		return a
	}
	return nil
}
