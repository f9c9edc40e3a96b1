package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonwraymond/snipfmt/auth"
	"github.com/jonwraymond/snipfmt/observe"
	"github.com/jonwraymond/snipfmt/snippet"
)

const (
	uploadTitleField = "snippetTitle"
	uploadTextField  = "snippetText"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cards, err := snippet.Cards(r.Context(), s.opts.Store)
	if err != nil {
		s.log.Error(r.Context(), "list snippets", observe.F("error", err.Error()))
		s.serverError(w, r)
		return
	}
	s.render(w, r, http.StatusOK, pageIndex, pageData{Title: "Snippets", Cards: cards})
}

func (s *Server) handleCategory(cat snippet.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snippets, err := cat.Load(r.Context(), s.opts.Store)
		if err != nil {
			s.log.Error(r.Context(), "load category",
				observe.F("category", cat.Slug),
				observe.F("error", err.Error()),
			)
			s.serverError(w, r)
			return
		}
		s.render(w, r, http.StatusOK, pageCategory, pageData{Title: cat.Title, Snippets: snippets})
	}
}

func (s *Server) handleFormatter(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageFormatter, pageData{Title: "YAML / JSON Formatter"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sn, err := snippet.Load(r.Context(), s.opts.Store, r.PathValue("filename"))
	if err != nil {
		s.log.Error(r.Context(), "load snippet", observe.F("error", err.Error()))
		s.serverError(w, r)
		return
	}
	status := http.StatusOK
	if !sn.Found {
		status = http.StatusNotFound
	}
	s.render(w, r, status, pageView, pageData{Title: sn.Title, Snippet: sn})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if r.Method == http.MethodPost {
		query = r.PostFormValue("query")
	}

	data := pageData{Title: "Search", Query: query}
	if strings.TrimSpace(query) != "" {
		results, cached, err := s.opts.Searcher.Search(r.Context(), query)
		if err != nil {
			s.log.Error(r.Context(), "search", observe.F("error", err.Error()))
			s.serverError(w, r)
			return
		}
		if cached {
			w.Header().Set("X-Cache", "HIT")
		}
		data.Searched = true
		data.Results = results
	}
	s.render(w, r, http.StatusOK, pageSearch, data)
}

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageUpload, pageData{Title: "Upload Snippet"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorPage(w, r, http.StatusRequestEntityTooLarge, "The snippet is too large.")
			return
		}
		s.errorPage(w, r, http.StatusBadRequest, "The upload form could not be read.")
		return
	}

	title := r.PostFormValue(uploadTitleField)
	text := r.PostFormValue(uploadTextField)
	data := pageData{Title: "Upload Snippet", UploadTitle: title, UploadText: text}

	name, err := s.opts.Store.Save(r.Context(), title, text)
	if errors.Is(err, snippet.ErrEmptyTitle) {
		data.Error = "Please give the snippet a title made of letters or digits."
		s.render(w, r, http.StatusBadRequest, pageUpload, data)
		return
	}
	if err != nil {
		s.log.Error(r.Context(), "save snippet", observe.F("error", err.Error()))
		s.serverError(w, r)
		return
	}

	s.log.Info(r.Context(), "snippet uploaded",
		observe.F("name", name),
		observe.F("principal", auth.PrincipalFromContext(r.Context())),
	)
	s.render(w, r, http.StatusOK, pageUpload, pageData{
		Title:   "Upload Snippet",
		Message: fmt.Sprintf("Snippet '%s' uploaded successfully!", title),
	})
}

// guardUpload applies the per-client rate limit and then authentication.
func (s *Server) guardUpload(next http.Handler) http.Handler {
	authed := auth.Middleware(auth.MiddlewareConfig{
		Authenticator: s.opts.UploadAuth,
		RequiredRole:  s.opts.UploadRole,
		OnFailure:     s.authFailure,
	}, next)

	limiter := s.opts.UploadLimiter
	if limiter == nil {
		return authed
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "60")
			s.errorPage(w, r, http.StatusTooManyRequests, "Too many uploads. Please wait a moment and try again.")
			return
		}
		authed.ServeHTTP(w, r)
	})
}

func (s *Server) authFailure(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Warn(r.Context(), "upload rejected",
		observe.F("status", status),
		observe.F("error", fmt.Sprint(err)),
	)
	switch status {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", `Bearer realm="snipfmt"`)
		s.errorPage(w, r, status, "Uploading requires valid credentials.")
	case http.StatusForbidden:
		s.errorPage(w, r, status, "You are not allowed to upload snippets.")
	default:
		s.serverError(w, r)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.errorPage(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}
