package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/unicorn-chess/internal/adapter/presenter"
	"github.com/park285/unicorn-chess/pkg/gamedto"
)

const (
	internalErrorJSON = `{"status":500,"body":{"code":"internal","message":"internal error","retryable":true}}`
	maxBodyBytes      = 64 << 10
)

var errMalformedJSON = errors.New("malformed json")

func writeJSON(w http.ResponseWriter, status int, body any) {
	raw, err := json.Marshal(gamedto.Envelope[any]{Status: status, Body: body})
	if err != nil {
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, internalErrorJSON)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	de, status := presenter.ToDomainError(err, s.catalog, s.locale(r))
	if status >= http.StatusInternalServerError {
		s.logger.Error("http_error", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Debug("http_rejected", zap.String("path", r.URL.Path), zap.String("code", de.Code), zap.Error(err))
	}
	writeJSON(w, status, de)
}

func badRequest(msg string) gamedto.DomainError {
	return gamedto.DomainError{Code: gamedto.CodeBadRequest, Message: msg}
}

// decodeJSON reads a small JSON body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest(fmt.Sprintf("%s: %v", errMalformedJSON, err))
	}
	return nil
}

// locale picks ?locale= first and Accept-Language second.
func (s *Server) locale(r *http.Request) string {
	if q := strings.TrimSpace(r.URL.Query().Get("locale")); q != "" {
		return s.catalog.Match(q)
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		return s.catalog.Match(h)
	}
	return s.catalog.Default()
}

func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
