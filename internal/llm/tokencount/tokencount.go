// Package tokencount estimates token counts for text against a named
// tiktoken encoding, used wherever the pipeline needs to budget prompt
// size before calling a provider.
package tokencount

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the encoding used when a caller has no
// model-specific reason to pick another.
const DefaultEncoding = tiktoken.MODEL_CL100K_BASE

// Counter estimates token counts using a cached tiktoken encoding.
type Counter struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

// New returns a Counter with an empty encoding cache; encodings are
// loaded lazily on first use of a given name.
func New() *Counter {
	return &Counter{encodings: map[string]*tiktoken.Tiktoken{}}
}

func (c *Counter) encoding(name string) (*tiktoken.Tiktoken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodings[name]; ok {
		return enc, nil
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	c.encodings[name] = enc
	return enc, nil
}

// Count returns the number of tokens text encodes to under encoding
// name. An empty name falls back to DefaultEncoding.
func (c *Counter) Count(text, name string) (int, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := c.encoding(name)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountDefault is Count against DefaultEncoding.
func (c *Counter) CountDefault(text string) (int, error) {
	return c.Count(text, DefaultEncoding)
}
