// Package templates renders the landing page and the lead form partial.
package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var files embed.FS

var pages = template.Must(template.New("").ParseFS(files, "html/*.html"))

// Landing renders the full page
func Landing(v LandingView) templ.Component {
	return templ.FromGoHTML(pages.Lookup("landing"), v)
}

// LeadForm renders the form alone, the target of HTMX swaps
func LeadForm(v LeadFormView) templ.Component {
	return templ.FromGoHTML(pages.Lookup("lead_form"), v)
}
