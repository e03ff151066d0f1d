// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded admin templates and renders pages with
// session flash messages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/shopadmin/internal/menutree"
	"github.com/olegiv/shopadmin/internal/model"
	"github.com/olegiv/shopadmin/internal/store"
)

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashType = "flash_type"
)

// Renderer holds the parsed page templates.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	now            func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// New parses every page template in cfg.TemplatesFS.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		now:            time.Now,
	}
	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates builds one template set per page: admin pages get the base
// and admin layouts, auth pages only the base layout.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	groups := []struct {
		dir     string
		layouts []string
	}{
		{"admin", []string{"layouts/base.html", "layouts/admin.html"}},
		{"auth", []string{"layouts/base.html"}},
	}

	for _, g := range groups {
		pages, err := templateFiles(templatesFS, g.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", g.dir, err)
		}
		for _, page := range pages {
			name := g.dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{}, g.layouts...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}
	return nil
}

func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"locationLabel": func(loc string) string {
			if loc == "" {
				return "Unassigned"
			}
			return model.Location(loc).Label()
		},
		"locations": func() []model.Location {
			return model.Locations
		},
		"add": func(a, b int) int {
			return a + b
		},
		"subtree": func(menuID, parentID int64, nodes []*menutree.Node) TreeView {
			return TreeView{MenuID: menuID, ParentID: parentID, Nodes: nodes}
		},
		"itemForm": func(key string, item *menutree.Item, parents []ParentOption) ItemForm {
			return ItemForm{Key: key, Item: item, Parents: parents}
		},
	}
}

// TreeView is one level of the nested item list in the menu editor.
type TreeView struct {
	MenuID   int64
	ParentID int64
	Nodes    []*menutree.Node
}

// ParentOption is an entry of the parent selector, indented by depth.
type ParentOption struct {
	ID    int64
	Label string
}

// ItemForm feeds the shared item field set. Item is nil on the add form.
type ItemForm struct {
	Key     string
	Item    *menutree.Item
	Parents []ParentOption
}

// ParentOptions lists every node depth first with its label indented by depth.
func ParentOptions(roots []*menutree.Node) []ParentOption {
	var out []ParentOption
	var walk func(nodes []*menutree.Node, depth int)
	walk = func(nodes []*menutree.Node, depth int) {
		for _, n := range nodes {
			out = append(out, ParentOption{ID: n.ID, Label: strings.Repeat("\u2014 ", depth) + n.Label})
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	return out
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Errors      map[string]string
	Flash       string
	FlashType   string
	CurrentYear int
	User        *store.User
	Stores      []store.Storefront
	StoreID     int64
}

// Has reports whether a template with name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes the page name into w, consuming any pending flash message.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = r.now().Year()
	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), sessionKeyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), sessionKeyFlashType)
			if data.FlashType == "" {
				data.FlashType = FlashInfo
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash stores a one-shot message for the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), sessionKeyFlash, message)
		r.sessionManager.Put(req.Context(), sessionKeyFlashType, flashType)
	}
}
