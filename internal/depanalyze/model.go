// Package depanalyze builds file-to-file dependency and function-level
// call-graph indices over a set of source files: a semantic analyzer
// (currently Go, via Tree-sitter) owns the full parse where one is
// registered, and a per-language regex parser covers the rest.
package depanalyze

// FunctionInfo describes one function or method found in a source file.
type FunctionInfo struct {
	Name      string
	FullName  string
	FilePath  string
	LineNumber int
	Body      string
	Calls     []string
}

// Index is the two-index output of an analysis pass over a file set.
type Index struct {
	// FileDeps maps a file path to the set of file paths it imports,
	// resolved where possible.
	FileDeps map[string]map[string]bool
	// FileFunctions maps a file path to the functions declared in it.
	FileFunctions map[string][]FunctionInfo
	// FunctionToFile maps a function's full name to the file that declares
	// it.
	FunctionToFile map[string]string
}

func newIndex() *Index {
	return &Index{
		FileDeps:       map[string]map[string]bool{},
		FileFunctions:  map[string][]FunctionInfo{},
		FunctionToFile: map[string]string{},
	}
}

func (idx *Index) addDep(from, to string) {
	if idx.FileDeps[from] == nil {
		idx.FileDeps[from] = map[string]bool{}
	}
	idx.FileDeps[from][to] = true
}

func (idx *Index) addFunction(fn FunctionInfo) {
	idx.FileFunctions[fn.FilePath] = append(idx.FileFunctions[fn.FilePath], fn)
	idx.FunctionToFile[fn.FullName] = fn.FilePath
}

// merge folds other into idx, used to combine the semantic analyzer's
// output with the regex fallback's output across a mixed-language file set.
func (idx *Index) merge(other *Index) {
	for from, tos := range other.FileDeps {
		for to := range tos {
			idx.addDep(from, to)
		}
	}
	for path, fns := range other.FileFunctions {
		idx.FileFunctions[path] = append(idx.FileFunctions[path], fns...)
	}
	for name, path := range other.FunctionToFile {
		idx.FunctionToFile[name] = path
	}
}
