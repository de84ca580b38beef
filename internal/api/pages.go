// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home.html", "login.html", "register.html", "chat.html"}

// pageSet holds one template per page, each parsed with the shared layout.
type pageSet struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"deref": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%g", *v)
	},
	"rid": func(i int, c models.Candidate) string {
		return c.Key(i)
	},
	"km": func(c models.Candidate) string {
		if c.DistanceKM == nil {
			return ""
		}
		return fmt.Sprintf("%.1f km", *c.DistanceKM)
	},
}

func loadPages() (*pageSet, error) {
	ps := &pageSet{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		ps.pages[name] = t
	}
	return ps, nil
}

// render buffers the page so a template error never yields a half page.
func (ps *pageSet) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	t, ok := ps.pages[name]
	if !ok {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("Template render failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
