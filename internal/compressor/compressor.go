// Package compressor reduces a source file to a compact structural outline
// for inlining into LLM prompts: declarations, comments, and control-flow
// keywords are kept; expression bodies and initializers are dropped or
// replaced with a placeholder.
package compressor

import "strings"

// Compressor reduces text to its structural outline. Compression is lossy
// but must never reorder top-level declarations.
type Compressor interface {
	Compress(text string) string
}

// Func adapts a plain function into a Compressor.
type Func func(text string) string

func (f Func) Compress(text string) string { return f(text) }

// registry maps a language tag to the Compressor that handles it. Built by
// init() in each per-language file via register.
var registry = map[string]Compressor{}

func register(tags []string, c Compressor) {
	for _, tag := range tags {
		registry[tag] = c
	}
}

// For returns the Compressor registered for tag, or the generic fallback
// compressor if tag is unrecognized.
func For(tag string) Compressor {
	if c, ok := registry[strings.ToLower(tag)]; ok {
		return c
	}
	return genericCompressor
}

// Compress is a convenience wrapper: For(tag).Compress(text).
func Compress(tag, text string) string {
	return For(tag).Compress(text)
}

// splitLines splits on \n without dropping a trailing empty line's
// significance, since callers rejoin with \n and care about exact shape.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
