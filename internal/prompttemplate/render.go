// Package prompttemplate loads and renders named prompt templates from
// disk, keyed by a (subpath, name) pair, using Go's text/template engine
// as the idiomatic equivalent of Jinja's {{ var }} substitution and
// {% if %} conditionals.
package prompttemplate

import (
	"strings"
	"text/template"
)

// Renderer is a fluent, cached text/template wrapper. Not safe for
// concurrent use from multiple goroutines against the same instance.
type Renderer struct {
	templateString string
	variables      map[string]any
	leftDelimiter  string
	rightDelimiter string
	changed        bool
	rendered       string
}

// NewRenderer returns a Renderer using the default {{ }} delimiters.
func NewRenderer() *Renderer {
	r := &Renderer{}
	r.reset()
	return r
}

func (r *Renderer) reset() {
	r.templateString = ""
	r.variables = map[string]any{}
	r.leftDelimiter = "{{"
	r.rightDelimiter = "}}"
	r.changed = false
	r.rendered = ""
}

func (r *Renderer) markChanged() {
	r.changed = true
	r.rendered = ""
}

func (r *Renderer) WithTemplate(templateString string) *Renderer {
	r.templateString = templateString
	r.markChanged()
	return r
}

func (r *Renderer) WithVariables(vars map[string]any) *Renderer {
	clear(r.variables)
	for k, v := range vars {
		r.variables[k] = v
	}
	r.markChanged()
	return r
}

func (r *Renderer) WithDelimiters(left, right string) *Renderer {
	if left != "" {
		r.leftDelimiter = left
	}
	if right != "" {
		r.rightDelimiter = right
	}
	r.markChanged()
	return r
}

func (r *Renderer) render() (string, error) {
	tmpl, err := template.New("prompt").Delims(r.leftDelimiter, r.rightDelimiter).Parse(r.templateString)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, r.variables); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Render renders the configured template against the configured
// variables, caching the result until the template or variables change
// again.
func (r *Renderer) Render() (string, error) {
	if r.templateString == "" {
		return "", nil
	}
	if r.changed {
		out, err := r.render()
		if err != nil {
			return "", err
		}
		r.rendered = out
		r.changed = false
	}
	return r.rendered, nil
}

// Render is a one-shot convenience equivalent to
// NewRenderer().WithTemplate(s).WithVariables(vars).Render().
func Render(templateString string, vars map[string]any) (string, error) {
	return NewRenderer().WithTemplate(templateString).WithVariables(vars).Render()
}
