// Package renderer renders feature tables as markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var files embed.FS

// templates holds the markdown templates, without their folder prefix.
var templates, _ = fs.Sub(files, "templates")

var funcs = template.FuncMap{
	"join": strings.Join,
}

// RenderReport renders a full report to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_title": "report_title.md",
		"section":      "section.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// RenderSection renders a single section to a markdown string.
func RenderSection(s *Section) string {
	return renderTemplate("section", "section.md", nil, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
