package descriptor

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synerr "github.com/toyz/synth/internal/errors"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	require.NoError(t, AddType[user](c))
	require.NoError(t, AddType[box[int]](c))
	return c
}

func TestParse(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		expr string
		want Type
	}{
		{"int", For[int]()},
		{"byte", For[uint8]()},
		{"any", For[any]()},
		{"interface{}", For[any]()},
		{"struct {}", For[struct{}]()},
		{"error", For[error]()},
		{"time.Time", For[time.Time]()},
		{"time.Duration", For[time.Duration]()},
		{"uuid.UUID", For[uuid.UUID]()},
		{"github.com/google/uuid.UUID", For[uuid.UUID]()},
		{"descriptor.user", For[user]()},
		{"*descriptor.user", For[*user]()},
		{"[]string", For[[]string]()},
		{"[4]byte", For[[4]byte]()},
		{"[][]int", For[[][]int]()},
		{"map[string][]int", For[map[string][]int]()},
		{"map[uuid.UUID]*descriptor.user", For[map[uuid.UUID]*user]()},
		{"chan int", For[chan int]()},
		{"<-chan string", For[<-chan string]()},
		{"chan<- bool", For[chan<- bool]()},
		{"func()", For[func()]()},
		{"func() int", For[func() int]()},
		{"func(int, string) (bool, error)", For[func(int, string) (bool, error)]()},
		{"descriptor.box[int]", For[box[int]]()},
		{"  map[ string ]  int ", For[map[string]int]()},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr, c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unbound(t *testing.T) {
	got, err := Parse("?T", NewCatalog())
	require.NoError(t, err)
	assert.Equal(t, Var("T"), got)

	_, err = Parse("[]?T", NewCatalog())
	assert.Error(t, err, "variables are only allowed at the top level")
}

func TestParse_SyntaxErrors(t *testing.T) {
	c := NewCatalog()

	for _, expr := range []string{"", "[]", "map[string]", "func(", "*", "int]", "[x]int"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr, c)
			require.Error(t, err)

			var syntaxErr *synerr.SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %v", err)
			assert.Equal(t, expr, syntaxErr.Expr)
			assert.GreaterOrEqual(t, syntaxErr.Offset, 0)
		})
	}
}

func TestParse_ResolutionErrors(t *testing.T) {
	c := NewCatalog()

	tests := []string{
		"unknown.Type",
		"map[[]int]string",
		"descriptor.box[string]",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr, c)
			require.Error(t, err)

			var syntaxErr *synerr.SyntaxError
			assert.False(t, errors.As(err, &syntaxErr), "resolution failures are not syntax errors")
		})
	}
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, For[[]int](), MustParse("[]int", NewCatalog()))
	assert.Panics(t, func() { MustParse("nope", NewCatalog()) })
}
