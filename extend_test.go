package extend_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-extend/extend"
)

type document struct {
	extend.ExtensionStore

	body string
}

// Zero always produces zero
var zeroCalls atomic.Int32

type Zero struct{}

func (Zero) Eval(d *document) (int, bool) {
	zeroCalls.Add(1)
	return 0, true
}

// Never never produces a value
var neverCalls atomic.Int32

type Never struct{}

func (Never) Eval(d *document) (int, bool) {
	neverCalls.Add(1)
	return 0, false
}

// One, Two and Three produce their values, used to check entries do
// not interfere with each other
type One struct{}

func (One) Eval(d *document) (int, bool) { return 1, true }

type Two struct{}

func (Two) Eval(d *document) (int, bool) { return 2, true }

type Three struct{}

func (Three) Eval(d *document) (int, bool) { return 3, true }

// Alpha and Beta are structurally identical markers with different
// type identities
type Alpha struct{}

func (Alpha) Eval(d *document) (string, bool) { return "alpha", true }

type Beta struct{}

func (Beta) Eval(d *document) (string, bool) { return "beta", true }

// Length produces the length of the document body
var lengthCalls atomic.Int32

type Length struct{}

func (Length) Eval(d *document) (int, bool) {
	lengthCalls.Add(1)
	return len(d.body), true
}

// Validate produces an interface typed value, nil when the document
// body is present
var validateCalls atomic.Int32

type Validate struct{}

func (Validate) Eval(d *document) (error, bool) {
	validateCalls.Add(1)

	if d.body == "" {
		return errors.New("document has no body"), true
	}

	return nil, true
}

// Boom panics on its first evaluation and succeeds afterwards
var boomCalls atomic.Int32

type Boom struct{}

func (Boom) Eval(d *document) (int, bool) {
	if boomCalls.Add(1) == 1 {
		panic("malformed host state")
	}

	return 42, true
}

// Slow takes long enough to evaluate that concurrent first queries
// overlap
var slowCalls atomic.Int32

type Slow struct{}

func (Slow) Eval(d *document) (int, bool) {
	slowCalls.Add(1)
	time.Sleep(10 * time.Millisecond)
	return 7, true
}

func TestGetReturnsValue(t *testing.T) {
	d := &document{}

	v, ok := extend.Get[One](d)
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = extend.Get[Two](d)
	require.True(t, ok)
	require.Equal(t, 2, v)

	v, ok = extend.Get[Three](d)
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestGetEvaluatesOnlyOnce(t *testing.T) {
	d := &document{}
	start := zeroCalls.Load()

	for i := 0; i < 5; i++ {
		v, ok := extend.Get[Zero](d)
		require.True(t, ok)
		require.Equal(t, 0, v)
	}

	require.Equal(t, start+1, zeroCalls.Load())
}

func TestGetCachesEmptyResult(t *testing.T) {
	d := &document{}
	start := neverCalls.Load()

	for i := 0; i < 5; i++ {
		_, ok := extend.Get[Never](d)
		require.False(t, ok)
	}

	require.Equal(t, start+1, neverCalls.Load())
}

func TestGetUsesHostState(t *testing.T) {
	d := &document{body: "lazy plugins"}

	v, ok := extend.Get[Length](d)
	require.True(t, ok)
	require.Equal(t, 12, v)
}

func TestEntriesAreIndependent(t *testing.T) {
	d := &document{}

	_, _ = extend.Get[One](d)
	require.True(t, extend.Has[One](d))
	require.False(t, extend.Has[Two](d))

	v, ok := extend.Get[Two](d)
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestInstancesAreIndependent(t *testing.T) {
	d1 := &document{body: "first"}
	d2 := &document{body: "second host"}
	start := lengthCalls.Load()

	v1, ok := extend.Get[Length](d1)
	require.True(t, ok)
	require.Equal(t, 5, v1)
	require.False(t, extend.Has[Length](d2))

	v2, ok := extend.Get[Length](d2)
	require.True(t, ok)
	require.Equal(t, 11, v2)

	require.Equal(t, start+2, lengthCalls.Load())
}

func TestIdenticalMarkersDoNotAlias(t *testing.T) {
	d := &document{}

	a, ok := extend.Get[Alpha](d)
	require.True(t, ok)
	require.Equal(t, "alpha", a)

	b, ok := extend.Get[Beta](d)
	require.True(t, ok)
	require.Equal(t, "beta", b)
}

func TestHasDoesNotEvaluate(t *testing.T) {
	d := &document{}
	start := zeroCalls.Load()

	require.False(t, extend.Has[Zero](d))
	require.Equal(t, start, zeroCalls.Load())
}

func TestComputeBypassesTheCache(t *testing.T) {
	d := &document{}
	start := zeroCalls.Load()

	v, ok := extend.Compute[Zero](d)
	require.True(t, ok)
	require.Equal(t, 0, v)
	require.False(t, extend.Has[Zero](d))

	_, _ = extend.Compute[Zero](d)
	require.Equal(t, start+2, zeroCalls.Load())
}

func TestGetReturnsInterfaceValue(t *testing.T) {
	d := &document{}

	v, ok := extend.Get[Validate](d)
	require.True(t, ok)
	require.EqualError(t, v, "document has no body")
}

func TestGetCachesNilInterfaceValueAsPresent(t *testing.T) {
	d := &document{body: "all good"}
	start := validateCalls.Load()

	v, ok := extend.Get[Validate](d)
	require.True(t, ok)
	require.Nil(t, v)
	require.True(t, extend.Has[Validate](d))

	// the nil value is a cached result, not absence, so Eval does not
	// run again
	v, ok = extend.Get[Validate](d)
	require.True(t, ok)
	require.Nil(t, v)
	require.Equal(t, start+1, validateCalls.Load())
}

func TestPanicLeavesEntryUnpopulated(t *testing.T) {
	d := &document{}
	start := boomCalls.Load()

	require.Panics(t, func() {
		extend.Get[Boom](d)
	})
	require.False(t, extend.Has[Boom](d))

	v, ok := extend.Get[Boom](d)
	require.True(t, ok)
	require.Equal(t, 42, v)
	require.Equal(t, start+2, boomCalls.Load())
}

func TestConcurrentFirstQueriesEvaluateOnce(t *testing.T) {
	d := &document{}
	start := slowCalls.Load()

	count := 20
	values := make([]int, count)
	oks := make([]bool, count)

	wg := sync.WaitGroup{}
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			values[i], oks[i] = extend.Get[Slow](d)
		}(i)
	}
	wg.Wait()

	for i := 0; i < count; i++ {
		require.True(t, oks[i])
		require.Equal(t, 7, values[i])
	}

	require.Equal(t, start+1, slowCalls.Load())
}
