package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"time"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	// Execute the "base" template which includes the page content
	return tmpl.ExecuteTemplate(w, "base", data)
}

// load parses all templates from the filesystem.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	// Common files to include with every page
	commonFiles := append(layouts, partials...)

	for _, page := range pages {
		name := filepath.Base(page)
		name = name[:len(name)-len(".html")]

		files := append([]string{page}, commonFiles...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		t.templates[name] = tmpl
	}

	return nil
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// formatDate formats a time as "Jan 2, 2006"
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},

		"marketName": marketName,
	}
}

// marketName returns a human label for a market code, as used in messages.
func marketName(code string) string {
	switch code {
	case "JP":
		return "Spotify Japan"
	case "US":
		return "Spotify US"
	case "GB":
		return "Spotify UK"
	default:
		return "Spotify " + code
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	CurrentPath string
}

// HomePageData contains data for the home page template.
type HomePageData struct {
	PageData
	Market      string
	SavedArtist *SavedArtist
}
