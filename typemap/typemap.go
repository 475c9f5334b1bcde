// Package typemap implements a heterogeneous map keyed by type
// identity. Each entry's key is the reflect.Type of a marker type, so
// two structurally identical marker types defined in different
// packages never share an entry.
package typemap

import (
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Key identifies a single entry in a Map. Distinct types are always
// distinct keys.
type Key = reflect.Type

// KeyOf returns the Key for the type T.
func KeyOf[T any]() Key {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// flightKeys assigns each key a process-unique flight token. Distinct
// types can share a qualified name (function local and anonymous
// markers all reflect as pkg.marker), so the name alone must not
// arbitrate the flight: two plugins would join one evaluation and one
// caller would observe the other plugin's entry.
var flightKeys sync.Map // Key -> string
var flightSeq atomic.Uint64

func flightKeyOf(k Key) string {
	if n, ok := flightKeys.Load(k); ok {
		return n.(string)
	}

	n := k.String()
	if pkg := k.PkgPath(); pkg != "" {
		n = pkg + "." + k.Name()
	}
	n += "#" + strconv.FormatUint(flightSeq.Add(1), 10)

	actual, _ := flightKeys.LoadOrStore(k, n)
	return actual.(string)
}

// entry is the stored state for a single key. ok is false when the
// evaluation function produced no value; the entry still counts as
// populated and the function is not run again.
type entry struct {
	value any
	ok    bool
}

// Map is an append-only lazy map from a type identity to a value of
// the type associated with that identity. The zero value is ready to
// use.
//
// Entries are written at most once: the first LoadOrEval for a key
// runs the supplied function, every later call returns the stored
// result. Reads for different keys never contend, and concurrent first
// reads for the same key are collapsed so the function runs exactly
// once.
type Map struct {
	entries sync.Map // Key -> *entry
	flight  singleflight.Group
}

// LoadOrEval returns the value stored for key, running fn to produce
// it when the entry is unpopulated. A false result from fn records an
// empty entry which is returned, without re-running fn, by every
// subsequent call. A panic in fn propagates to every waiting caller
// and leaves the entry unpopulated, so a later call runs fn again.
func (m *Map) LoadOrEval(key Key, fn func() (any, bool)) (any, bool) {
	if e, ok := m.entries.Load(key); ok {
		en := e.(*entry)
		return en.value, en.ok
	}

	// singleflight arbitrates concurrent first loads, fn runs once and
	// every caller that arrived while it ran receives the one result
	v, _, _ := m.flight.Do(flightKeyOf(key), func() (any, error) {
		if e, ok := m.entries.Load(key); ok {
			return e.(*entry), nil
		}

		value, ok := fn()
		en := &entry{value: value, ok: ok}
		m.entries.Store(key, en)

		return en, nil
	})

	en := v.(*entry)
	return en.value, en.ok
}

// Load returns the value stored for key. The second return is false
// when the entry is unpopulated or was populated without a value.
func (m *Map) Load(key Key) (any, bool) {
	if e, ok := m.entries.Load(key); ok {
		en := e.(*entry)
		return en.value, en.ok
	}

	return nil, false
}

// Populated reports whether the entry for key has been written,
// whether or not evaluation produced a value.
func (m *Map) Populated(key Key) bool {
	_, ok := m.entries.Load(key)
	return ok
}

// Len returns the number of populated entries.
func (m *Map) Len() int {
	count := 0
	m.entries.Range(func(any, any) bool {
		count++
		return true
	})

	return count
}
