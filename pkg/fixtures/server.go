// Package fixtures serves generated values over HTTP. A Server turns type
// expressions into JSON fixtures; the adapters subpackage mounts it on gin,
// echo or fiber.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/pkg/descriptor"
	"github.com/toyz/synth/pkg/synth"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// MaxCount caps the number of fixtures rendered by one request
const MaxCount = 100

// Query holds the options of a fixture request
type Query struct {
	Count int     `schema:"count" validate:"omitempty,min=1,max=100"`
	Seed  *uint64 `schema:"seed"`
}

// WebServer mounts fixture routes on a web framework
type WebServer interface {
	// Mount registers GET <prefix> (catalog listing) and GET <prefix>/:type
	Mount(prefix string, s *Server)
	Start(addr string) error
	Stop(ctx context.Context) error
	Name() string
}

// Server renders fixtures for the types of a catalog
type Server struct {
	gen     *synth.Generator
	catalog *descriptor.Catalog
}

// NewServer creates a fixture server. A nil catalog means descriptor.NewCatalog().
func NewServer(g *synth.Generator, c *descriptor.Catalog) *Server {
	if c == nil {
		c = descriptor.NewCatalog()
	}
	return &Server{gen: g, catalog: c}
}

// Types lists every type name the server can render
func (s *Server) Types() []string {
	return s.catalog.Names()
}

// DecodeQuery decodes and validates request options
func DecodeQuery(values url.Values) (Query, error) {
	var q Query
	if err := schemaDecoder.Decode(&q, values); err != nil {
		return Query{}, &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf("failed to decode query: %v", err), Err: err}
	}
	if err := validate.Struct(q); err != nil {
		return Query{}, &Error{Status: http.StatusBadRequest, Message: validationMessage(err), Err: err}
	}
	return q, nil
}

// Render generates the fixture for the type expression name. With a count
// the result is a list of that many fixtures; with a seed the result is
// reproducible.
func (s *Server) Render(name string, values url.Values) (any, error) {
	t, err := descriptor.Parse(name, s.catalog)
	if err != nil {
		var syntaxErr *synerr.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &Error{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
		}
		return nil, &Error{Status: http.StatusNotFound, Message: err.Error(), Err: err}
	}

	q, err := DecodeQuery(values)
	if err != nil {
		return nil, err
	}

	g := s.gen
	if q.Seed != nil {
		g = g.Fork(*q.Seed)
	}

	if q.Count == 0 {
		return s.generate(g, t)
	}

	out := make([]any, 0, q.Count)
	for i := 0; i < q.Count; i++ {
		v, err := s.generate(g, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Server) generate(g *synth.Generator, t descriptor.Type) (any, error) {
	v, err := g.Generate(t)
	if err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
	return v, nil
}

// Error is a failed fixture request
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Body is the JSON error payload
func (e *Error) Body() map[string]any {
	return map[string]any{"error": e.Message, "status": e.Status}
}

// StatusOf maps an error returned by Render to an HTTP status
func StatusOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Status
	}
	return http.StatusInternalServerError
}

// AsError converts any error into an *Error
func AsError(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

func validationMessage(err error) string {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err.Error()
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, strings.ToLower(ve.Field())+": "+formatValidationError(ve))
	}
	return strings.Join(messages, "; ")
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
