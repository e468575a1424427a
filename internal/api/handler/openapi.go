package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/autocatalog/autocatalog/internal/api/middleware"
	"github.com/autocatalog/autocatalog/internal/api/response"
)

// OpenAPIHandler serves the embedded OpenAPI document as JSON. The document is
// rendered once and served with a content-derived ETag so clients can revalidate
// with If-None-Match.
type OpenAPIHandler struct {
	source []byte

	once sync.Once
	body []byte
	etag string
	err  error
}

// NewOpenAPIHandler creates a handler for the given YAML document.
func NewOpenAPIHandler(doc []byte) *OpenAPIHandler {
	return &OpenAPIHandler{source: doc}
}

func (h *OpenAPIHandler) render() {
	h.body, h.err = yaml.YAMLToJSON(h.source)
	if h.err != nil {
		return
	}
	sum := sha256.Sum256(h.body)
	h.etag = `"` + hex.EncodeToString(sum[:16]) + `"`
}

func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.render)

	if h.err != nil {
		slog.Error("failed to render OpenAPI document", "error", h.err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to render API description", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("ETag", h.etag)
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), h.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.body); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}

// etagMatches applies the weak comparison If-None-Match uses.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
