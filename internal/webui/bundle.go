// Package webui embeds the console's page templates and static assets.
package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"auction-console/internal/timing"
)

//go:embed templates/*.html static/*
var content embed.FS

// Bundle exposes the parsed templates and the static file system.
type Bundle struct {
	Templates *template.Template // Every page, keyed by file name.
	StaticFS  http.FileSystem    // Served under /static.
}

// Load parses the embedded templates. loc is the display zone used by the
// localtime helper.
func Load(loc *time.Location) (Bundle, error) {
	if loc == nil {
		loc = time.UTC
	}
	tmpl, errParse := template.New("").Funcs(Funcs(loc)).ParseFS(content, "templates/*.html")
	if errParse != nil {
		return Bundle{}, errParse
	}
	staticFS, errSub := fs.Sub(content, "static")
	if errSub != nil {
		return Bundle{}, errSub
	}
	return Bundle{
		Templates: tmpl,
		StaticFS:  http.FS(staticFS),
	}, nil
}

// Funcs are the helpers available to every template
func Funcs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"localtime": func(t time.Time) string {
			if t.IsZero() {
				return "not scheduled"
			}
			return t.In(loc).Format("2006-01-02 15:04 MST")
		},
		"datetimeLocal": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("2006-01-02T15:04")
		},
		"label": func(s timing.Status) string { return s.Label() },
		"zone":  func() string { return loc.String() },
	}
}
