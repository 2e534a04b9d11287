package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/ops"
	"github.com/hpungsan/lagna/internal/profile"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
}

// ListPageData is the template data for the chart list page.
type ListPageData struct {
	PageData
	Items      []profile.Summary
	Pagination ops.Pagination
	Owner      string
}

// ReportPageData is the template data for a rendered Markdown report.
type ReportPageData struct {
	PageData
	RenderedHTML template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · Lagna</title>
</head>
<body>
<header><a href="/charts?format=html">Lagna</a></header>
<main>{{template "content" .}}</main>
<footer>lagna {{.Version}}</footer>
</body>
</html>{{end}}`

var pageTemplates = map[string]string{
	"list": `{{define "content"}}<h1>Charts for {{.Owner}}</h1>
<table>
<thead><tr><th>Name</th><th>Lagna</th><th>Moon</th><th>Nakshatra</th><th>Ayanamsa</th><th>Updated</th></tr></thead>
<tbody>
{{range .Items}}<tr>
<td><a href="/charts/{{.ID}}?format=html">{{if hasValue .Name}}{{deref .Name}}{{else}}{{.ID}}{{end}}</a>{{if .Degraded}} *{{end}}</td>
<td>{{.Lagna}}</td><td>{{.MoonSign}}</td><td>{{.MoonNakshatra}}</td><td>{{.Ayanamsa}}</td><td>{{formatTime .UpdatedAt}}</td>
</tr>{{else}}<tr><td colspan="6">No charts</td></tr>{{end}}
</tbody>
</table>
<p>{{.Pagination.Total}} total{{if .Pagination.HasMore}} · <a href="/charts?format=html&owner={{.Owner}}&offset={{add .Pagination.Offset .Pagination.Limit}}">next</a>{{end}}</p>{{end}}`,
	"report": `{{define "content"}}<article>{{.RenderedHTML}}</article>{{end}}`,
	"error":  `{{define "content"}}<h1>Error {{.StatusCode}}</h1><p class="error-message">{{.Message}}</p>{{end}}`,
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       logrus.FieldLogger
}

// NewRenderer parses the page templates.
func NewRenderer(version string, log logrus.FieldLogger) *Renderer {
	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"formatTime": formatTime,
		"deref":      deref,
		"hasValue":   hasValue,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).Parse(layoutHTML))

	templates := make(map[string]*template.Template, len(pageTemplates))
	for name, src := range pageTemplates {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.Parse(src))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.WithField("template", name).Error("template not found")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.WithError(err).WithField("template", name).Error("template execution failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderReport converts a Markdown report to HTML and renders it in the layout.
func (r *Renderer) renderReport(w http.ResponseWriter, req *http.Request, title, md string) {
	r.renderPage(w, req, "report", ReportPageData{
		PageData:     PageData{Title: title, Version: r.version},
		RenderedHTML: renderMarkdown(md),
	})
}

// renderError renders an error response. HTML clients get a page or
// fragment; everyone else gets the JSON error envelope.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	lErr, ok := errors.As(err)
	if !ok {
		lErr = errors.NewInternal(err)
	}

	status := lErr.Status
	message := lErr.Message
	if lErr.Code == errors.ErrInternal {
		r.log.WithError(err).WithField("path", req.URL.Path).Error("internal error")
	} else if prefix := strings.TrimSuffix(err.Error(), lErr.Error()); prefix != "" {
		message = prefix + message
	}

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsHTML(req) {
		r.renderPageStatus(w, req, status, "error", ErrorPageData{
			PageData: PageData{
				Title:   fmt.Sprintf("Error %d", status),
				Version: r.version,
			},
			StatusCode: status,
			Message:    message,
		})
		return
	}

	errorObj := map[string]any{
		"code":    string(lErr.Code),
		"message": message,
		"status":  status,
	}
	if lErr.Code != errors.ErrInternal && lErr.Details != nil {
		errorObj["details"] = lErr.Details
	}
	renderJSON(w, status, map[string]any{"error": errorObj})
}

// wantsHTML reports whether the client asked for an HTML rendering.
func wantsHTML(req *http.Request) bool {
	if req.URL.Query().Get("format") == "html" {
		return true
	}
	accept := req.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" UTC.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

// deref dereferences a pointer, returning the zero value if nil.
func deref(v any) any {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(rv.Type().Elem()).Interface()
		}
		return rv.Elem().Interface()
	}
	return v
}

// hasValue checks if a pointer value is non-nil.
func hasValue(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return !rv.IsNil()
	}
	return true
}
