package descriptor

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	Name string
}

type box[T any] struct {
	Value T
}

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		kind Kind
	}{
		{"int", For[int](), Named},
		{"struct", For[user](), Named},
		{"interface", For[error](), Named},
		{"time", For[time.Time](), Named},
		{"slice", For[[]int](), ArrayOf},
		{"array", For[[3]string](), ArrayOf},
		{"bytes", For[[]byte](), ArrayOf},
		{"map", For[map[string]int](), Parameterized},
		{"pointer", For[*user](), Parameterized},
		{"chan", For[<-chan int](), Parameterized},
		{"func", For[func() int](), Parameterized},
		{"generic", For[box[int]](), Parameterized},
		{"unbound", Var("T"), Unbound},
		{"zero", Type{}, Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.typ.Kind())
		})
	}
}

func TestEquality(t *testing.T) {
	assert.Equal(t, For[map[string][]int](), For[map[string][]int]())
	assert.True(t, For[user]() == Of(reflect.TypeOf(user{})))
	assert.False(t, For[int]() == For[int64]())
	assert.True(t, Var("T") == Var("T"))
	assert.False(t, Var("T") == Var("U"))

	seen := map[Type]bool{For[int](): true}
	assert.True(t, seen[For[int]()])
}

func TestPredicates(t *testing.T) {
	assert.True(t, For[error]().IsInterface())
	assert.True(t, For[any]().IsInterface())
	assert.False(t, For[user]().IsInterface())

	assert.True(t, For[user]().IsStruct())
	assert.False(t, For[*user]().IsStruct())

	assert.True(t, For[uint8]().IsPrimitive())
	assert.True(t, For[string]().IsPrimitive())
	assert.False(t, For[time.Time]().IsPrimitive())
	assert.False(t, Var("T").IsPrimitive())

	assert.True(t, Var("T").IsUnbound())
	assert.True(t, Type{}.IsZero())
	assert.Nil(t, Var("T").Reflect())
	assert.True(t, Of(nil).IsZero())
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []Type{For[string](), For[int]()}, For[map[string]int]().Args())
	assert.Equal(t, []Type{For[user]()}, For[*user]().Args())
	assert.Equal(t, []Type{For[int]()}, For[[]int]().Args())
	assert.Equal(t, []Type{For[bool]()}, For[chan bool]().Args())
	assert.Equal(t, []Type{For[int](), For[string](), For[error]()}, For[func(int) (string, error)]().Args())
	assert.Nil(t, For[user]().Args())
	assert.Nil(t, Var("T").Args())

	assert.Equal(t, For[int](), For[[]int]().Elem())
	assert.Equal(t, For[string](), For[map[string]int]().Key())
	assert.True(t, For[int]().Elem().IsZero())
	assert.True(t, For[[]int]().Key().IsZero())
}

func TestTypeArgs(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, AddType[user](c))

	args, err := For[box[int]]().TypeArgs(c)
	require.NoError(t, err)
	assert.Equal(t, []Type{For[int]()}, args)

	args, err = For[box[map[string]user]]().TypeArgs(c)
	require.NoError(t, err)
	assert.Equal(t, []Type{For[map[string]user]()}, args)

	args, err = For[[]int]().TypeArgs(c)
	require.NoError(t, err)
	assert.Equal(t, []Type{For[int]()}, args)

	_, err = For[box[box[int]]]().TypeArgs(c)
	assert.Error(t, err, "box[int] is not in the catalog")
}

func TestNames(t *testing.T) {
	assert.Equal(t, "user", For[user]().Name())
	assert.Equal(t, "descriptor.user", For[user]().String())
	assert.Equal(t, "github.com/toyz/synth/pkg/descriptor.user", For[user]().Qualified())
	assert.Equal(t, "[]int", For[[]int]().Name())

	assert.Equal(t, "T", Var("T").Name())
	assert.Equal(t, "?T", Var("T").String())
	assert.Equal(t, "?T", Var("T").Qualified())
	assert.Equal(t, "<invalid>", Type{}.String())

	assert.Equal(t, "map[string]*github.com/google/uuid.UUID", For[map[string]*uuid.UUID]().Qualified())
	assert.Equal(t, "func(int, string) (bool, error)", For[func(int, string) (bool, error)]().Qualified())
	assert.Equal(t, "<-chan [2]int", For[<-chan [2]int]().Qualified())
	assert.Equal(t, "descriptor.Parameterized(map[string]int)", For[map[string]int]().GoString())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Named", Named.String())
	assert.Equal(t, "Parameterized", Parameterized.String())
	assert.Equal(t, "ArrayOf", ArrayOf.String())
	assert.Equal(t, "Unbound", Unbound.String())
	assert.Equal(t, "Invalid", Invalid.String())
}
