package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/jonwraymond/snipfmt/convert"
	"github.com/jonwraymond/snipfmt/observe"
)

const inputField = "input"

type apiError struct {
	Error string `json:"error"`
}

type apiRequest struct {
	Input string `json:"input"`
}

// handleAPI answers one conversion operation. Every outcome is a 200.
func (s *Server) handleAPI(op convert.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

		input, err := readInput(r)
		if err != nil {
			writeJSON(w, http.StatusOK, apiError{Error: err.Error()})
			return
		}

		res, err := s.opts.Converter.Do(r.Context(), op, input)
		if err != nil {
			s.log.Debug(r.Context(), "conversion failed",
				observe.F("operation", string(op)),
				observe.F("error", err.Error()),
			)
			writeJSON(w, http.StatusOK, apiError{Error: err.Error()})
			return
		}

		if res.Cached {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// readInput extracts the input field from a JSON, multipart or urlencoded
// body. A missing field reads as empty.
func readInput(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		var req apiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return "", errors.New("invalid JSON request body: " + err.Error())
		}
		return req.Input, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return "", errors.New("invalid form body: " + err.Error())
		}
		return r.FormValue(inputField), nil
	default:
		if err := r.ParseForm(); err != nil {
			return "", errors.New("invalid form body: " + err.Error())
		}
		return r.PostFormValue(inputField), nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
