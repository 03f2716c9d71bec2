// Package kernel wires a chat Provider, a registry of native functions,
// and a set of loaded semantic (prompt-template) plugins behind one
// cached, per-configuration entry point — the Go equivalent of Semantic
// Kernel's Kernel object, scoped to one (provider config, working
// directory, analysis mode) combination.
package kernel

import (
	"context"
	"fmt"
	"sync"

	"github.com/tangerg/codewiki/internal/llm"
)

// Config identifies one distinct kernel instance. Two calls to
// Manager.Get with an equal Config receive the same cached Kernel.
type Config struct {
	BaseURL      string
	APIKey       string
	WorkingDir   string
	Model        string
	AnalysisMode string
}

func (c Config) cacheKey() string {
	return fmt.Sprintf("%s_%s_%s_%s_%s", c.BaseURL, c.APIKey, c.WorkingDir, c.Model, c.AnalysisMode)
}

// NativeFunction is one callable tool a Kernel can offer a Provider's
// tool-calling loop. ctx carries the ambient docctx.Context, when one of
// its callers attached one, and bounds outbound requests (e.g.
// GitFunction's REST calls).
type NativeFunction interface {
	Spec() llm.ToolSpec
	Call(ctx context.Context, argsJSON string) (string, error)
}

// Kernel bundles a Provider with the native functions and semantic
// plugins registered against it.
type Kernel struct {
	Provider llm.Provider

	mu        sync.RWMutex
	natives   map[string]NativeFunction
	semantics map[string]*Plugin
}

// New wraps provider in a Kernel with empty function/plugin registries.
func New(provider llm.Provider) *Kernel {
	return &Kernel{
		Provider:  provider,
		natives:   map[string]NativeFunction{},
		semantics: map[string]*Plugin{},
	}
}

// AddNativeFunction registers fn under name, overwriting any previous
// registration of the same name — mirrors add_plugin's replace-on-reload
// behavior.
func (k *Kernel) AddNativeFunction(name string, fn NativeFunction) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.natives[name] = fn
}

// NativeFunction looks up a previously registered function by name.
func (k *Kernel) NativeFunction(name string) (NativeFunction, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	fn, ok := k.natives[name]
	return fn, ok
}

// ToolSpecs returns the llm.ToolSpec for every registered native
// function, in no particular order — callers needing determinism should
// sort the result.
func (k *Kernel) ToolSpecs() []llm.ToolSpec {
	k.mu.RLock()
	defer k.mu.RUnlock()
	specs := make([]llm.ToolSpec, 0, len(k.natives))
	for _, fn := range k.natives {
		specs = append(specs, fn.Spec())
	}
	return specs
}

// AddSemanticPlugin registers a loaded Plugin under name.
func (k *Kernel) AddSemanticPlugin(name string, plugin *Plugin) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.semantics[name] = plugin
}

// SemanticPlugin looks up a previously registered plugin by name.
func (k *Kernel) SemanticPlugin(name string) (*Plugin, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	p, ok := k.semantics[name]
	return p, ok
}

// Manager caches Kernels by Config so repeated requests for the same
// (provider, working directory, model, analysis mode) combination reuse
// one instance instead of rebuilding its plugin registry each time.
type Manager struct {
	mu      sync.Mutex
	cache   map[string]*Kernel
	factory func(Config) (*Kernel, error)
}

// NewManager returns a Manager that builds cache misses via factory.
func NewManager(factory func(Config) (*Kernel, error)) *Manager {
	return &Manager{
		cache:   map[string]*Kernel{},
		factory: factory,
	}
}

// Get returns the cached Kernel for cfg, building and caching one via the
// Manager's factory on a miss.
func (m *Manager) Get(cfg Config) (*Kernel, error) {
	key := cfg.cacheKey()

	m.mu.Lock()
	defer m.mu.Unlock()
	if k, ok := m.cache[key]; ok {
		return k, nil
	}
	k, err := m.factory(cfg)
	if err != nil {
		return nil, err
	}
	m.cache[key] = k
	return k, nil
}
