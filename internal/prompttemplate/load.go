package prompttemplate

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// Template is a loaded, not-yet-rendered prompt, bound to the path it was
// read from.
type Template struct {
	Path string
	Body string
}

// Store resolves named templates under a fixed root directory.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// Load resolves <root>/<subpath>/<name>.md and reads it. Any failure —
// missing file, unreadable path — surfaces as a single "template not
// found or invalid" error naming the path; callers treat this as fatal,
// with no retry.
func (s *Store) Load(subpath, name string) (*Template, error) {
	path := filepath.Join(s.Root, subpath, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindNotFound, "template not found or invalid: "+path, err)
	}
	return &Template{Path: path, Body: string(data)}, nil
}

// Render renders t against params, coercing loosely-typed values through
// spf13/cast so callers can pass ints, strings, or stringers
// interchangeably for the same template slot.
func (t *Template) Render(params map[string]any) (string, error) {
	coerced := make(map[string]any, len(params))
	for k, v := range params {
		coerced[k] = coerceParam(v)
	}
	return Render(t.Body, coerced)
}

// coerceParam normalizes a loosely-typed parameter to the string or
// primitive form templates most commonly expect, falling back to the
// original value when coercion isn't meaningful (maps, slices, structs).
func coerceParam(v any) any {
	switch v.(type) {
	case string, bool, int, int64, float64:
		return v
	default:
		if s, err := cast.ToStringE(v); err == nil {
			return s
		}
		return v
	}
}
