package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synth/pkg/descriptor"
)

func TestNew_RejectsInvalidBounds(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		key  string
	}{
		{"negative array min", WithArraySize(-1, 3), "array size"},
		{"inverted array", WithArraySize(4, 2), "array size"},
		{"negative collection max", WithCollectionSize(0, -1), "collection size"},
		{"inverted map", WithMapSize(5, 2), "map size"},
		{"inverted string", WithStringSize(9, 1), "string size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, "bounds", cfgErr.Component)
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestNew_AcceptsZeroBounds(t *testing.T) {
	_, err := New(WithArraySize(0, 0), WithCollectionSize(0, 0), WithMapSize(0, 0), WithStringSize(0, 0))
	assert.NoError(t, err)
}

func TestNew_ReportsEveryProblem(t *testing.T) {
	_, err := New(
		WithArraySize(-1, 1),
		WithMapSize(3, 1),
		WithBindings(BindName("x", Const(1)), BindName("x", Const(2))),
		WithProvider(nil),
		WithTerminators(),
	)

	var multi *MultipleErrors
	require.True(t, errors.As(err, &multi), "got %v", err)
	assert.Equal(t, 5, multi.Count())
}

func TestNew_RejectsNilSource(t *testing.T) {
	_, err := New(WithSource(nil))
	assert.Error(t, err)
}

func TestWithSource(t *testing.T) {
	a := MustNew(WithSource(rand.NewPCG(1, 2)))
	b := MustNew(WithSource(rand.NewPCG(1, 2)))

	assert.Equal(t, MustMake[[]string](a), MustMake[[]string](b))
}

func TestWithStringSize(t *testing.T) {
	g := MustNew(WithStringSize(6, 6))

	for i := 0; i < 10; i++ {
		assert.Len(t, MustMake[string](g), 6)
	}
}

func TestWithLogger(t *testing.T) {
	log := &recordingLogger{}
	g := MustNew(WithLogger(log))

	MustMake[linkedNode](g)
	MustMake[guarded](g)

	assert.Contains(t, log.debug, "cycle on synth.linkedNode: synth.linkedNode -> *synth.linkedNode -> synth.linkedNode")
	assert.Contains(t, log.debug, "setter synth.guarded.SetCode failed: rejected")
}

type recordingLogger struct {
	debug []string
	warn  []string
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) {
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warn = append(l.warn, fmt.Sprintf(format, args...))
}

func TestLeafProviders(t *testing.T) {
	g := MustNew(WithSeed(1), WithStringSize(3, 3))

	type age uint16
	type label string

	assert.Len(t, string(MustMake[label](g)), 3)
	assert.Less(t, int(MustMake[age](g)), 10000)

	f := MustMake[float32](g)
	assert.GreaterOrEqual(t, f, float32(-1000))
	assert.LessOrEqual(t, f, float32(1000))

	d := MustMake[time.Duration](g)
	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.Less(t, d, 24*time.Hour)

	ts := MustMake[time.Time](g)
	assert.Equal(t, time.UTC, ts.Location())
	assert.True(t, ts.Year() >= 2000 && ts.Year() < 2030, "got %v", ts)

	id := MustMake[uuid.UUID](g)
	assert.Equal(t, uuid.Version(4), id.Version())

	c := MustMake[complex128](g)
	assert.LessOrEqual(t, real(c), 1000.0)
}

func TestLeafProviders_DurationIsNotAnInt(t *testing.T) {
	assert.False(t, Ints().Recognizes(descriptor.For[time.Duration]()))
	assert.True(t, Durations().Recognizes(descriptor.For[time.Duration]()))
	assert.True(t, Bytes().Recognizes(descriptor.For[[]byte]()))
	assert.False(t, arrayProvider{}.Recognizes(descriptor.For[[]byte]()))
	assert.False(t, arrayProvider{}.Recognizes(descriptor.For[uuid.UUID]()))
}

func TestProviders_Helpers(t *testing.T) {
	calls := 0
	g := MustNew(
		WithProvider(
			SupplyFunc(func(s *Session) (int, error) {
				calls++
				return 40 + calls, nil
			}),
			Match(
				func(t descriptor.Type) bool { return t == descriptor.For[string]() },
				func(t descriptor.Type, s *Session) (reflect.Value, error) { return reflect.ValueOf("matched"), nil },
			),
		),
	)

	assert.Equal(t, 41, MustMake[int](g))
	assert.Equal(t, 42, MustMake[int](g))
	assert.Equal(t, "matched", MustMake[string](g))

	failing := MustNew(WithProvider(SupplyFunc(func(*Session) (bool, error) { return false, errors.New("no") })))
	_, err := Make[bool](failing)
	assert.EqualError(t, err, "no")
}

func TestZeroLeaf(t *testing.T) {
	assert.Equal(t, rune(0), zeroLeaf(reflect.TypeOf(rune(0))).Interface())
	assert.Equal(t, "", zeroLeaf(reflect.TypeOf("")).Interface())
	assert.True(t, epoch.Equal(zeroLeaf(reflect.TypeOf(time.Time{})).Interface().(time.Time)))

	b := zeroLeaf(reflect.TypeOf([]byte(nil))).Interface().([]byte)
	assert.NotNil(t, b)
	assert.Empty(t, b)
}
