package depanalyze

import (
	"path/filepath"
	"strings"
)

// projectMarkers name the files that identify a project root, searched
// for while walking upward from an importing file looking for a bare
// import's target.
var projectMarkers = []string{
	"go.mod", "pyproject.toml", "setup.py", "package.json", "Cargo.toml",
}

// sourceExts are tried, in order, when resolving an import string that
// has no extension of its own.
var sourceExts = []string{"", ".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".c", ".h", ".cpp", ".hpp"}

// resolveImports rewrites idx.FileDeps in place, replacing each raw
// import string with the known file path it refers to. Relative imports
// resolve against the importing file's directory; bare imports resolve by
// walking up to the enclosing project root and searching within it.
// Imports that cannot be matched to a known file are dropped silently.
func resolveImports(idx *Index, files []SourceFile) {
	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f.Path] = true
	}

	resolved := make(map[string]map[string]bool, len(idx.FileDeps))
	for from, tos := range idx.FileDeps {
		for to := range tos {
			target := resolveOne(from, to, known)
			if target == "" {
				continue
			}
			if resolved[from] == nil {
				resolved[from] = map[string]bool{}
			}
			resolved[from][target] = true
		}
	}
	idx.FileDeps = resolved
}

func resolveOne(from, importPath string, known map[string]bool) string {
	if importPath == "" {
		return ""
	}
	if isRelativeImport(importPath) {
		return resolveRelative(from, importPath, known)
	}
	return resolveBare(from, importPath, known)
}

func isRelativeImport(importPath string) bool {
	return strings.HasPrefix(importPath, ".") || strings.HasPrefix(importPath, "/")
}

func resolveRelative(from, importPath string, known map[string]bool) string {
	dir := filepath.Dir(from)
	base := filepath.Join(dir, importPath)
	return matchCandidate(base, known)
}

// resolveBare walks up from the importing file's directory to find a
// project root marker, then searches known files under that root whose
// path ends with the import's trailing segments.
func resolveBare(from, importPath string, known map[string]bool) string {
	root := findProjectRoot(from, known)
	segments := strings.Split(strings.Trim(importPath, "/"), "/")
	for n := len(segments); n >= 1; n-- {
		suffix := filepath.Join(segments[len(segments)-n:]...)
		var match string
		matches := 0
		for path := range known {
			if root != "" && !strings.HasPrefix(path, root) {
				continue
			}
			if hasPathSuffix(path, suffix) {
				match = path
				matches++
			}
		}
		if matches == 1 {
			return match
		}
	}
	return ""
}

func findProjectRoot(from string, known map[string]bool) string {
	dir := filepath.Dir(from)
	for {
		for _, marker := range projectMarkers {
			if known[filepath.Join(dir, marker)] {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func matchCandidate(base string, known map[string]bool) string {
	for _, ext := range sourceExts {
		candidate := base + ext
		if known[candidate] {
			return candidate
		}
	}
	for _, indexName := range []string{"index.js", "index.ts", "__init__.py"} {
		candidate := filepath.Join(base, indexName)
		if known[candidate] {
			return candidate
		}
	}
	return ""
}

func hasPathSuffix(path, suffix string) bool {
	for _, ext := range sourceExts {
		if strings.HasSuffix(path, suffix+ext) {
			return true
		}
	}
	return false
}
