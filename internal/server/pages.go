package server

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/claude/routinetimer/internal/routine"
)

// pages holds one template set per page, each a clone of the shared layout
// so {{define "content"}} blocks don't collide.
type pages struct {
	byName map[string]*template.Template
}

func loadPages(webFS fs.FS, assetVer string) (*pages, error) {
	funcMap := template.FuncMap{
		// Cache-busting version string for static assets
		"assetVer":       func() string { return assetVer },
		"formatDuration": routine.FormatSeconds,
	}

	base, err := template.New("base").Funcs(funcMap).ParseFS(webFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	files, err := fs.Glob(webFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("globbing templates: %w", err)
	}

	p := &pages{byName: map[string]*template.Template{}}
	for _, f := range files {
		name := path.Base(f)
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(webFS, f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		p.byName[name] = clone
	}
	return p, nil
}

// execute renders the named page into memory so a template error never
// leaves a half-written response.
func (p *pages) execute(name string, data any) ([]byte, error) {
	t, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
