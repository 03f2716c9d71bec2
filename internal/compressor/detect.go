package compressor

import (
	"path/filepath"
	"strings"
)

// extensionTags maps a lowercased file extension (with leading dot) to a
// language tag.
var extensionTags = map[string]string{
	".cs":     "csharp",
	".js":     "javascript",
	".jsx":    "javascript",
	".mjs":    "javascript",
	".ts":     "typescript",
	".tsx":    "typescript",
	".py":     "python",
	".java":   "java",
	".kt":     "kotlin",
	".kts":    "kotlin",
	".scala":  "scala",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".cxx":    "cpp",
	".hpp":    "cpp",
	".go":     "go",
	".rs":     "rust",
	".php":    "php",
	".rb":     "ruby",
	".swift":  "swift",
	".sh":     "bash",
	".bash":   "bash",
	".zsh":    "zsh",
	".fish":   "fish",
	".ps1":    "powershell",
	".sql":    "sql",
	".html":   "html",
	".htm":    "html",
	".css":    "css",
	".scss":   "scss",
	".sass":   "sass",
	".less":   "less",
	".json":   "json",
	".xml":    "xml",
	".yaml":   "yaml",
	".yml":    "yml",
	".md":     "markdown",
	".markdown": "markdown",
}

// nameOnlyTags recognizes well-known extensionless files by base name.
var nameOnlyTags = map[string]string{
	"dockerfile": "bash",
	"makefile":   "bash",
	"rakefile":   "ruby",
	"gemfile":    "ruby",
}

// DetectLanguage maps a file path to a language tag, using the name-only
// table first and the extension table second. Returns "" when nothing
// matches, signaling the generic compressor.
func DetectLanguage(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if tag, ok := nameOnlyTags[base]; ok {
		return tag
	}
	ext := strings.ToLower(filepath.Ext(path))
	if tag, ok := extensionTags[ext]; ok {
		return tag
	}
	return ""
}

// CompressFile detects path's language and compresses text accordingly.
func CompressFile(path, text string) string {
	return Compress(DetectLanguage(path), text)
}
