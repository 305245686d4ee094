// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and executes them with
// the per-request flash, CSRF token and admin user.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	csrf "filippo.io/csrf/gorilla"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/auth"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// blankLinesRegex collapses runs of blank lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n\s*){2,}`)

const baseLayout = "layouts/base.html"

// Template sections and the layouts they are wrapped in.
var sections = []struct {
	dir     string
	layouts []string
}{
	{dir: "public", layouts: []string{baseLayout}},
	{dir: "auth", layouts: []string{baseLayout}},
	{dir: "admin", layouts: []string{baseLayout, "layouts/admin.html"}},
}

// FlashSource pops the pending notification of a request.
type FlashSource interface {
	Pop(ctx context.Context) (message, kind string)
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates   map[string]*template.Template
	flashes     FlashSource
	countryCode string
	isDev       bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Flashes     FlashSource
	// CountryCode is prepended to lead phone numbers in reply links.
	CountryCode string
	IsDev       bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:   make(map[string]*template.Template),
		flashes:     cfg.Flashes,
		countryCode: cfg.CountryCode,
		isDev:       cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all templates from the filesystem.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, section := range sections {
		pages, err := getTemplateFiles(templatesFS, section.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", section.dir, err)
		}

		for _, page := range pages {
			name := section.dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			// Parse in order: layouts, partials, page template
			files := append([]string{}, section.layouts...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	if len(r.templates) == 0 {
		return fmt.Errorf("no templates found")
	}
	return nil
}

// getTemplateFiles returns all .html files in a directory.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Sections are optional.
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// Has reports whether a template is registered under name.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	CSRFToken   string
	CurrentPath string
	User        *model.User
	IsDev       bool
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.CurrentPath = req.URL.Path
	data.CSRFToken = csrf.Token(req)
	data.IsDev = r.isDev
	if data.User == nil {
		if user, ok := auth.UserFromContext(req.Context()); ok {
			data.User = user
		}
	}

	// A flash set explicitly by the handler wins over the stored one.
	if data.Flash == "" && r.flashes != nil {
		data.Flash, data.FlashType = r.flashes.Pop(req.Context())
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return nil
}
