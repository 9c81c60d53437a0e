package fixtures

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synth/pkg/descriptor"
	"github.com/toyz/synth/pkg/synth"
)

type order struct {
	ID    string
	Items []string
}

type store interface {
	Get(id string) string
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c := descriptor.NewCatalog()
	require.NoError(t, descriptor.AddType[order](c))
	require.NoError(t, c.Add(reflect.TypeOf((*store)(nil)).Elem()))

	g, err := synth.New(synth.WithArraySize(2, 2))
	require.NoError(t, err)
	return NewServer(g, c)
}

func TestServer_Render(t *testing.T) {
	s := newTestServer(t)

	v, err := s.Render("fixtures.order", nil)
	require.NoError(t, err)
	o, ok := v.(order)
	require.True(t, ok, "got %T", v)
	assert.NotEmpty(t, o.ID)
	assert.Len(t, o.Items, 2)

	v, err = s.Render("[]int", url.Values{"count": {"3"}})
	require.NoError(t, err)
	list, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, list, 3)
	for _, item := range list {
		assert.Len(t, item, 2)
	}
}

func TestServer_RenderSeeded(t *testing.T) {
	s := newTestServer(t)
	q := url.Values{"seed": {"99"}, "count": {"2"}}

	a, err := s.Render("fixtures.order", q)
	require.NoError(t, err)
	b, err := s.Render("fixtures.order", q)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := s.Render("fixtures.order", url.Values{"seed": {"100"}, "count": {"2"}})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestServer_RenderErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		expr   string
		query  url.Values
		status int
	}{
		{"unknown type", "fixtures.missing", nil, http.StatusNotFound},
		{"syntax", "map[", nil, http.StatusBadRequest},
		{"count too large", "int", url.Values{"count": {"101"}}, http.StatusBadRequest},
		{"negative count", "int", url.Values{"count": {"-1"}}, http.StatusBadRequest},
		{"count not a number", "int", url.Values{"count": {"many"}}, http.StatusBadRequest},
		{"bad seed", "int", url.Values{"seed": {"x"}}, http.StatusBadRequest},
		{"generation failure", "fixtures.store", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Render(tt.expr, tt.query)
			require.Error(t, err)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Equal(t, tt.status, AsError(err).Body()["status"])
		})
	}
}

func TestDecodeQuery(t *testing.T) {
	q, err := DecodeQuery(url.Values{"count": {"5"}, "seed": {"7"}, "other": {"ignored"}})
	require.NoError(t, err)
	assert.Equal(t, 5, q.Count)
	require.NotNil(t, q.Seed)
	assert.Equal(t, uint64(7), *q.Seed)

	q, err = DecodeQuery(url.Values{})
	require.NoError(t, err)
	assert.Zero(t, q.Count)
	assert.Nil(t, q.Seed)

	_, err = DecodeQuery(url.Values{"count": {"0"}})
	assert.NoError(t, err)

	_, err = DecodeQuery(url.Values{"count": {"500"}})
	assert.EqualError(t, err, "count: must be at most 100")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, http.StatusTeapot, StatusOf(&Error{Status: http.StatusTeapot}))

	fe := AsError(errors.New("boom"))
	assert.Equal(t, "boom", fe.Error())
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
}

func TestServer_Types(t *testing.T) {
	s := newTestServer(t)
	assert.Contains(t, s.Types(), "fixtures.order")
	assert.Contains(t, s.Types(), "int")
}
