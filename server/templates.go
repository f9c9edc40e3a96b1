package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/jonwraymond/snipfmt/observe"
	"github.com/jonwraymond/snipfmt/snippet"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var assetFS embed.FS

const (
	pageIndex     = "index.html"
	pageCategory  = "category.html"
	pageFormatter = "formatter.html"
	pageView      = "view.html"
	pageSearch    = "search.html"
	pageUpload    = "upload.html"
	pageError     = "error.html"
)

var pageNames = []string{
	pageIndex, pageCategory, pageFormatter, pageView, pageSearch, pageUpload, pageError,
}

var templateFuncs = template.FuncMap{
	"bytes": func(n int64) string {
		if n < 0 {
			return ""
		}
		return humanize.IBytes(uint64(n))
	},
}

// pageData is the model for every page.
type pageData struct {
	Title     string
	Nav       snippet.Catalog
	RequestID string

	Cards    []snippet.Card
	Snippets []snippet.Snippet
	Snippet  snippet.Snippet

	Query    string
	Searched bool
	Results  []snippet.Result

	Message     string
	Error       string
	Status      int
	UploadTitle string
	UploadText  string
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("server: parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func staticFS() fs.FS {
	sub, err := fs.Sub(assetFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// render executes a page into a buffer so a template failure can still
// become a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	data.Nav = s.opts.Catalog
	data.RequestID = RequestIDFromContext(r.Context())

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error(r.Context(), "render failed",
			observe.F("page", name),
			observe.F("error", err.Error()),
		)
		if name != pageError {
			s.serverError(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) errorPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.render(w, r, status, pageError, pageData{
		Title:  http.StatusText(status),
		Status: status,
		Error:  msg,
	})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request) {
	s.errorPage(w, r, http.StatusInternalServerError, "Something went wrong on our side.")
}
