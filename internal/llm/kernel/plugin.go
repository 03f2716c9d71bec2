package kernel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/prompttemplate"
)

// FunctionConfig is config.json's shape: a function's description and
// declared input variables, each with an optional default.
type FunctionConfig struct {
	Description string          `json:"description"`
	Input       FunctionInput   `json:"input"`
	Execution   json.RawMessage `json:"execution_settings,omitempty"`
}

// FunctionInput lists the named parameters a semantic function's prompt
// template expects.
type FunctionInput struct {
	Parameters []FunctionParameter `json:"parameters"`
}

// FunctionParameter is one declared prompt variable.
type FunctionParameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     string `json:"defaultValue"`
}

// Function is one loaded semantic function: its declared config plus the
// skprompt.txt body it renders.
type Function struct {
	Name   string
	Config FunctionConfig
	Prompt *prompttemplate.Template
}

// Plugin is a named collection of semantic Functions loaded from a
// directory tree, one subdirectory per function.
type Plugin struct {
	Name      string
	Functions map[string]*Function
}

// Function looks up one of the plugin's functions by name.
func (p *Plugin) Function(name string) (*Function, bool) {
	f, ok := p.Functions[name]
	return f, ok
}

// Names returns the plugin's function names, sorted.
func (p *Plugin) Names() []string {
	names := make([]string, 0, len(p.Functions))
	for name := range p.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPlugin loads every subdirectory of dir containing both config.json
// and skprompt.txt as a semantic function, the on-disk convention
// config.json + skprompt.txt per directory. Subdirectories missing either
// file are skipped rather than treated as an error, since a plugin
// directory may mix function directories with incidental files.
func LoadPlugin(name, dir string) (*Plugin, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindNotFound, "semantic plugin directory not found: "+dir, err)
	}

	plugin := &Plugin{Name: name, Functions: map[string]*Function{}}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fnDir := filepath.Join(dir, entry.Name())
		configPath := filepath.Join(fnDir, "config.json")
		promptPath := filepath.Join(fnDir, "skprompt.txt")

		if !fileExists(configPath) || !fileExists(promptPath) {
			continue
		}

		fn, err := loadFunction(entry.Name(), configPath, promptPath)
		if err != nil {
			return nil, err
		}
		plugin.Functions[entry.Name()] = fn
	}
	return plugin, nil
}

func loadFunction(name, configPath, promptPath string) (*Function, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindNotFound, "semantic function config not found: "+configPath, err)
	}
	var cfg FunctionConfig
	if err := json.Unmarshal(configData, &cfg); err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindParse, "semantic function config is not valid JSON: "+configPath, err)
	}

	promptBody, err := os.ReadFile(promptPath)
	if err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindNotFound, "semantic function prompt not found: "+promptPath, err)
	}

	return &Function{
		Name:   name,
		Config: cfg,
		Prompt: &prompttemplate.Template{Path: promptPath, Body: string(promptBody)},
	}, nil
}

// Render fills the function's prompt template with args, falling back to
// each declared parameter's default for any name args omits.
func (f *Function) Render(args map[string]any) (string, error) {
	merged := make(map[string]any, len(f.Config.Input.Parameters)+len(args))
	for _, p := range f.Config.Input.Parameters {
		if p.Default != "" {
			merged[p.Name] = p.Default
		}
	}
	for k, v := range args {
		merged[k] = v
	}
	return f.Prompt.Render(merged)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
