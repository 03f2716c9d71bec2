// Package scanner walks a repository on disk into a flat PathInfo list,
// respecting .gitignore and the size/dotfile skip rules, then builds a
// FileTree from that list and encodes it in one of four prompt-ready
// formats.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// maxFileSize is the per-file skip threshold: files at or above this size
// are never returned by Scan.
const maxFileSize = 1 << 20 // 1 MiB

// PathInfo describes one file or directory discovered under a scan root.
type PathInfo struct {
	AbsolutePath string
	BaseName     string
	IsDirectory  bool
	SizeBytes    int64
}

// Scan walks root and returns a flat PathInfo list for every directory and
// file that survives, in this order of precedence: dot-prefixed
// directories are skipped entirely (not descended into); files at or above
// 1 MiB are skipped; everything else is filtered against root's
// .gitignore, matched case-insensitively.
func Scan(root string) ([]PathInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindIO, "stat scan root", err)
	}
	if !info.IsDir() {
		return nil, codewikierr.New(codewikierr.KindValidation, "scan root must be a directory")
	}

	matcher, err := loadGitignore(root)
	if err != nil {
		return nil, err
	}

	var results []PathInfo
	err = filepath.Walk(root, func(path string, entry os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return codewikierr.Wrap(codewikierr.KindIO, "walk "+path, walkErr)
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return codewikierr.Wrap(codewikierr.KindIO, "relativize "+path, err)
		}
		base := entry.Name()

		if entry.IsDir() {
			if strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			if matcher.MatchesPath(toGitignorePath(rel) + "/") {
				return filepath.SkipDir
			}
			results = append(results, PathInfo{
				AbsolutePath: path,
				BaseName:     base,
				IsDirectory:  true,
			})
			return nil
		}

		if entry.Size() >= maxFileSize {
			return nil
		}
		if matcher.MatchesPath(toGitignorePath(rel)) {
			return nil
		}
		results = append(results, PathInfo{
			AbsolutePath: path,
			BaseName:     base,
			IsDirectory:  false,
			SizeBytes:    entry.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].AbsolutePath < results[j].AbsolutePath
	})
	return results, nil
}

// toGitignorePath normalizes a filepath.Rel result to forward-slash,
// lowercased form, matching .gitignore's case-insensitive, '/'-separated
// pattern semantics regardless of host OS.
func toGitignorePath(rel string) string {
	return strings.ToLower(filepath.ToSlash(rel))
}

// loadGitignore parses root's .gitignore if present; a missing file yields
// a matcher that matches nothing.
func loadGitignore(root string) (*gitignore.GitIgnore, error) {
	path := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return gitignore.CompileIgnoreLines(), nil
		}
		return nil, codewikierr.Wrap(codewikierr.KindIO, "read .gitignore", err)
	}
	lines := strings.Split(strings.ToLower(string(data)), "\n")
	return gitignore.CompileIgnoreLines(lines...), nil
}

