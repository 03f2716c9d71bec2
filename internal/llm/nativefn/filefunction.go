// Package nativefn implements the native (non-LLM) functions a kernel
// offers to a model's tool-calling loop: confined filesystem access, an
// optional RAG forward, and GitHub/Gitee issue search.
package nativefn

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/docctx"
	"github.com/tangerg/codewiki/internal/llm"
	"github.com/tangerg/codewiki/internal/scanner"
)

// FileFunction exposes read/list/search access confined to Root. Any
// resolved path outside Root is rejected rather than served, mirroring
// the original_source ai_kernel functions' working-directory confinement.
type FileFunction struct {
	Root string
}

// resolve joins Root with rel and confirms the result still lives under
// Root, rejecting `../` escapes and absolute overrides alike.
func (f FileFunction) resolve(rel string) (string, error) {
	root, err := filepath.Abs(f.Root)
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "resolve working directory", err)
	}
	joined := filepath.Join(root, rel)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "resolve path", err)
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", codewikierr.New(codewikierr.KindValidation, "path escapes working directory: "+rel)
	}
	return abs, nil
}

type readFileArgs struct {
	Path string `json:"path"`
}

// ReadFunction reads one file's contents, rejecting paths outside Root.
type ReadFunction struct{ FileFunction }

func (r ReadFunction) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "ReadFile",
		Description: "Reads the contents of one file, given a path relative to the repository root.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string", "description": "file path relative to the repository root"},
			},
			"required": []string{"path"},
		},
	}
}

func (r ReadFunction) Call(ctx context.Context, argsJSON string) (string, error) {
	var args readFileArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", codewikierr.Wrap(codewikierr.KindParse, "ReadFile arguments are not valid JSON", err)
	}
	abs, err := r.resolve(args.Path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "read file: "+args.Path, err)
	}
	if docCtx, ok := docctx.From(ctx); ok {
		docCtx.AddFile(args.Path)
	}
	return string(data), nil
}

type listFilesArgs struct {
	Path string `json:"path"`
}

// ListFunction lists files and directories under a path relative to Root.
// It surfaces directory structure, not file content, so it does not record
// entries to docctx: a listing doesn't ground an article the way a read or
// a matched search result does.
type ListFunction struct{ FileFunction }

func (l ListFunction) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "ListFiles",
		Description: "Lists files and directories under a path relative to the repository root.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string", "description": "directory path relative to the repository root; empty for the root itself"},
			},
		},
	}
}

func (l ListFunction) Call(ctx context.Context, argsJSON string) (string, error) {
	var args listFilesArgs
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return "", codewikierr.Wrap(codewikierr.KindParse, "ListFiles arguments are not valid JSON", err)
		}
	}
	abs, err := l.resolve(args.Path)
	if err != nil {
		return "", err
	}
	entries, err := scanner.Scan(abs)
	if err != nil {
		return "", err
	}
	root, _ := filepath.Abs(l.Root)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.AbsolutePath)
		if err != nil {
			continue
		}
		names = append(names, rel)
	}
	out, err := json.Marshal(names)
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "encode file list", err)
	}
	return string(out), nil
}

type searchFilesArgs struct {
	Query string `json:"query"`
}

// SearchFunction finds files whose relative path contains Query,
// case-insensitively.
type SearchFunction struct{ FileFunction }

func (s SearchFunction) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "SearchFiles",
		Description: "Finds files under the repository whose path contains the given query, case-insensitively.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "substring to search for in file paths"},
			},
			"required": []string{"query"},
		},
	}
}

func (s SearchFunction) Call(ctx context.Context, argsJSON string) (string, error) {
	var args searchFilesArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", codewikierr.Wrap(codewikierr.KindParse, "SearchFiles arguments are not valid JSON", err)
	}
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "resolve working directory", err)
	}
	entries, err := scanner.Scan(root)
	if err != nil {
		return "", err
	}
	query := strings.ToLower(args.Query)
	var matches []string
	for _, e := range entries {
		if e.IsDirectory {
			continue
		}
		rel, err := filepath.Rel(root, e.AbsolutePath)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(rel), query) {
			matches = append(matches, rel)
		}
	}
	if docCtx, ok := docctx.From(ctx); ok {
		for _, rel := range matches {
			docCtx.AddFile(rel)
		}
	}
	out, err := json.Marshal(matches)
	if err != nil {
		return "", codewikierr.Wrap(codewikierr.KindIO, "encode search results", err)
	}
	return string(out), nil
}
