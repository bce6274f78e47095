package swagger

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SpecPath is where the UI fetches the document from.
const SpecPath = "/openapi.yml"

// Spec is a loaded and validated OpenAPI document.
type Spec struct {
	doc *openapi3.T
	raw []byte
}

// Load reads the document at path and refuses to serve an invalid one.
func Load(ctx context.Context, path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi document: %w", err)
	}
	return Parse(ctx, raw)
}

func Parse(ctx context.Context, raw []byte) (*Spec, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return &Spec{doc: doc, raw: raw}, nil
}

func (s *Spec) Doc() *openapi3.T {
	return s.doc
}

func (s *Spec) Version() string {
	if s.doc.Info == nil {
		return ""
	}
	return s.doc.Info.Version
}

// HasOperation reports whether the document declares method on path.
func (s *Spec) HasOperation(method, path string) bool {
	if s.doc.Paths == nil {
		return false
	}
	item := s.doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

// ServeHTTP serves the raw document.
func (s *Spec) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.raw)
}

// Handler serves the Swagger UI pointed at SpecPath.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecPath),
	)
}
