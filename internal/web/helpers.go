package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/shared/middleware"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

// maxBodyBytes bounds form and JSON request bodies.
const maxBodyBytes = 1 << 20

// readValues reads a form or JSON object body into url.Values. Nested JSON
// objects are flattened with dotted keys, e.g. attributes.headline.
func readValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form data: %w", err)
		}
		return r.Form, nil
	}

	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	values := url.Values{}
	flatten(values, "", body)
	for k, v := range r.URL.Query() {
		if _, ok := values[k]; !ok {
			values[k] = v
		}
	}
	return values, nil
}

func flatten(dst url.Values, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case nil:
		case map[string]any:
			flatten(dst, key, val)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			dst.Set(key, strings.Join(parts, ","))
		default:
			dst.Set(key, fmt.Sprint(val))
		}
	}
}

// formValues parses typed fields and collects per-field errors.
type formValues struct {
	v      url.Values
	fields map[string]string
}

func newFormValues(v url.Values) *formValues {
	return &formValues{v: v}
}

func (f *formValues) fail(key, msg string) {
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	f.fields[key] = msg
}

func (f *formValues) str(key string) string {
	return strings.TrimSpace(f.v.Get(key))
}

func (f *formValues) float(key string) float64 {
	s := f.str(key)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		f.fail(key, "must be a number")
		return 0
	}
	return n
}

func (f *formValues) int(key string) int64 {
	s := f.str(key)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f.fail(key, "must be a whole number")
	}
	return n
}

// date parses YYYY-MM-DD or RFC3339. Empty yields nil.
func (f *formValues) date(key string) *time.Time {
	s := f.str(key)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			f.fail(key, "must be a date (YYYY-MM-DD)")
			return nil
		}
	}
	t = t.UTC()
	return &t
}

func (f *formValues) bool(key string) bool {
	b, _ := strconv.ParseBool(f.str(key))
	return b
}

// prefixed returns the values under prefix., keyed without the prefix.
func (f *formValues) prefixed(prefix string) map[string]string {
	out := make(map[string]string)
	for k := range f.v {
		if name, ok := strings.CutPrefix(k, prefix+"."); ok {
			out[name] = f.str(k)
		}
	}
	return out
}

func (f *formValues) err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: f.fields}
}

// writeJSON encodes before writing the status so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError maps domain errors to status codes. HTMX requests get an HTML
// fragment, everything else a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCounts):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTestEnded):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	if middleware.IsHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if verr != nil {
			_ = templates.FormErrors(verr.Fields).Render(r.Context(), w)
			return
		}
		_ = templates.Message("error", errorMessage(status, err)).Render(r.Context(), w)
		return
	}

	body := map[string]any{"error": errorMessage(status, err)}
	if verr != nil {
		body["fields"] = verr.Fields
	}
	writeJSON(w, status, body)
}

func errorMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// render writes a full page or fragment.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		s.logger.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// created answers a successful create or update. HTMX forms follow redirect,
// API clients get the record as JSON.
func (s *Server) created(w http.ResponseWriter, r *http.Request, status int, redirect string, v any) {
	if middleware.IsHTMX(r) {
		middleware.Redirect(w, redirect)
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, status, v)
}

// deleted answers a successful delete. HTMX row deletions swap in the empty
// body; a non-empty redirect navigates away instead.
func (s *Server) deleted(w http.ResponseWriter, r *http.Request, redirect string) {
	if middleware.IsHTMX(r) {
		if redirect != "" {
			middleware.Redirect(w, redirect)
		}
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func limitParam(r *http.Request, def int) int {
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		return l
	}
	return def
}
