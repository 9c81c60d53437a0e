package synth

import (
	"errors"
	"iter"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synth/pkg/descriptor"
)

type color string

const (
	red   color = "red"
	green color = "green"
	blue  color = "blue"
)

func TestStructural_SliceBounds(t *testing.T) {
	g := MustNew(WithArraySize(3, 3))
	assert.Len(t, MustMake[[]int](g), 3)

	g = MustNew(WithArraySize(2, 6))
	for i := 0; i < 20; i++ {
		n := len(MustMake[[]string](g))
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 6)
	}
}

func TestStructural_EmptyBounds(t *testing.T) {
	g := MustNew(WithArraySize(0, 0), WithMapSize(0, 0), WithCollectionSize(0, 0))

	xs := MustMake[[]int](g)
	assert.NotNil(t, xs)
	assert.Empty(t, xs)
	assert.Empty(t, MustMake[map[string]int](g))

	ch := MustMake[chan int](g)
	_, open := <-ch
	assert.False(t, open)
}

func TestStructural_FixedArray(t *testing.T) {
	g := MustNew(WithArraySize(0, 0), WithBindings(BindType(descriptor.For[int](), Const(1))))

	assert.Equal(t, [4]int{1, 1, 1, 1}, MustMake[[4]int](g))
}

func TestStructural_MapDistinctKeys(t *testing.T) {
	g := MustNew(WithMapSize(4, 4))
	assert.Len(t, MustMake[map[int]string](g), 4)

	g = MustNew(WithMapSize(3, 3))
	_, err := Make[map[bool]int](g)
	var unresolvable *UnresolvableTypeError
	require.True(t, errors.As(err, &unresolvable), "got %v", err)
	assert.Contains(t, unresolvable.Reason, "distinct keys")
}

func TestStructural_Channels(t *testing.T) {
	g := MustNew(WithCollectionSize(2, 2))

	var got []int
	for v := range MustMake[<-chan int](g) {
		got = append(got, v)
	}
	assert.Len(t, got, 2)

	ch := MustMake[chan string](g)
	assert.Equal(t, 2, len(ch))
	assert.Equal(t, 2, cap(ch))
}

func TestStructural_Pointers(t *testing.T) {
	g := MustNew()

	p := MustMake[*point](g)
	require.NotNil(t, p)

	pp := MustMake[**int](g)
	require.NotNil(t, pp)
	require.NotNil(t, *pp)
}

func TestStructural_Futures(t *testing.T) {
	g := MustNew(WithBindings(BindType(descriptor.For[int](), Const(5))))

	f := MustMake[func() int](g)
	require.NotNil(t, f)
	assert.Equal(t, 5, f())
	assert.Equal(t, 5, f())

	fe := MustMake[func() (string, error)](g)
	s, err := fe()
	require.NoError(t, err)
	assert.NotEmpty(t, s)
}

func TestStructural_FutureReportsFailure(t *testing.T) {
	g := MustNew()

	f := MustMake[func() (interface{ Get() string }, error)](g)
	v, err := f()
	assert.Nil(t, v)
	var unresolvable *UnresolvableTypeError
	assert.True(t, errors.As(err, &unresolvable), "got %v", err)
}

func TestStructural_Streams(t *testing.T) {
	g := MustNew(WithCollectionSize(3, 3))

	seq := MustMake[iter.Seq[int]](g)
	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 3, count)

	seq2 := MustMake[iter.Seq2[string, int]](g)
	keys := 0
	for k := range seq2 {
		assert.NotEmpty(t, k)
		keys++
	}
	assert.Equal(t, 3, keys)

	seen := 0
	for range seq {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestStructural_StreamsAreRepeatable(t *testing.T) {
	g := MustNew(WithCollectionSize(4, 4))
	seq := MustMake[iter.Seq[string]](g)

	var first, second []string
	for v := range seq {
		first = append(first, v)
	}
	for v := range seq {
		second = append(second, v)
	}
	assert.Equal(t, first, second)
}

func TestStructural_Enum(t *testing.T) {
	g := MustNew(WithEnum(red, green, blue))

	for i := 0; i < 30; i++ {
		assert.Contains(t, []color{red, green, blue}, MustMake[color](g))
	}

	type palette struct {
		Primary color
		Accents []color
	}
	p := MustMake[palette](g)
	assert.Contains(t, []color{red, green, blue}, p.Primary)
	for _, c := range p.Accents {
		assert.Contains(t, []color{red, green, blue}, c)
	}
}

func TestStructural_EnumValidation(t *testing.T) {
	_, err := New(WithEnum[color]())
	assert.Error(t, err)

	_, err = New(WithEnum(red), WithEnum(blue))
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "enum", cfgErr.Component)
}

func TestStructural_EnumValues(t *testing.T) {
	typ := descriptor.For[color]()
	g := MustNew(WithEnumValues(typ, reflect.ValueOf(green)))
	assert.Equal(t, green, MustMake[color](g))

	_, err := New(WithEnum(red), WithEnumValues(typ, reflect.ValueOf(blue)))
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Contains(t, err.Error(), "already registered")

	_, err = New(WithEnumValues(typ, reflect.ValueOf(42)))
	assert.ErrorContains(t, err, "value #0")

	_, err = New(WithEnumValues(descriptor.Var("T"), reflect.ValueOf(1)))
	assert.ErrorContains(t, err, "unbound")
}
