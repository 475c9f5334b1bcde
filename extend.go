// Package extend provides lazily evaluated, order independent plugins
// for extensible types.
//
// A plugin is a marker type that implements Plugin for a host type.
// The first query for a plugin on a host runs its Eval function and
// stores the result in the host's extension store, every later query
// for the same plugin on the same host is a lookup. Plugins are keyed
// by their own type identity rather than by name, so plugins defined
// in unrelated packages never collide even when they share a name.
package extend

import (
	"github.com/go-extend/extend/typemap"
)

// Plugin computes a value of type V from a host of type E.
//
// Implementers are normally empty marker structs, the type itself is
// the cache key. Because a type can carry only one Eval method, a
// plugin type binds exactly one output type. Eval's second return is
// false when no value can be derived from the host; that empty result
// is cached exactly like a value and Eval is not retried.
//
// Results are cached for the lifetime of the host, so Eval must be a
// pure function of the host's observable state. A non-deterministic
// Eval yields a stale cached value; that is the caller's obligation,
// not something this package guards against. Eval must not query the
// same plugin on the same host, directly or indirectly, as the
// reentrant query blocks on the evaluation already in flight.
type Plugin[E, V any] interface {
	Eval(host E) (V, bool)
}

// Extensible is implemented by host types that can be queried for
// plugin values. Embed an ExtensionStore to satisfy it.
type Extensible interface {
	Extensions() *typemap.Map
}

// ExtensionStore is an embeddable extension cache. The zero value is
// ready to use and each value owns an independent cache, created empty
// and living as long as its host.
type ExtensionStore struct {
	m typemap.Map
}

// Extensions returns the store's type map.
func (s *ExtensionStore) Extensions() *typemap.Map {
	return &s.m
}

// Get returns the value plugin P produces for host, evaluating it on
// first use and answering from the host's extension store afterwards.
// The second return is false when P produced no value; the empty
// result is cached too, so Eval runs at most once per host whatever
// it returned.
//
// A panic during evaluation reaches the caller and leaves the entry
// unpopulated, so a later Get evaluates again.
func Get[P Plugin[E, V], E Extensible, V any](host E) (V, bool) {
	raw, ok := host.Extensions().LoadOrEval(typemap.KeyOf[P](), func() (any, bool) {
		var p P
		return p.Eval(host)
	})

	if !ok {
		var zero V
		return zero, false
	}

	// the stored value was produced as a V, the assertion only fails
	// when V is an interface type and Eval produced a nil value, which
	// is still a value
	v, _ := raw.(V)
	return v, true
}

// Has reports whether plugin P has been evaluated on host, with or
// without a value, without evaluating it.
func Has[P Plugin[E, V], E Extensible, V any](host E) bool {
	return host.Extensions().Populated(typemap.KeyOf[P]())
}

// Compute evaluates plugin P on host without consulting or writing
// the extension store.
func Compute[P Plugin[E, V], E Extensible, V any](host E) (V, bool) {
	var p P
	return p.Eval(host)
}
