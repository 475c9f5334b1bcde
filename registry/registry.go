// Package registry provides a runtime checked alternative to the
// static generic query for callers that cannot name a plugin type at
// compile time. Registrations are added at startup and the registry is
// then frozen and treated as read only; queries through the registry
// use the same per host lazy cache as the static path, with the stored
// value checked against the registered output type on retrieval.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/hashicorp/errwrap"

	"github.com/go-extend/extend"
	"github.com/go-extend/extend/errors"
	"github.com/go-extend/extend/logger"
	"github.com/go-extend/extend/typemap"
)

// EvalFunc computes a plugin value from a host. The second return is
// false when no value can be derived.
type EvalFunc func(host any) (any, bool)

// Registration binds a plugin identifier type to its output type and
// evaluation function.
type Registration struct {
	// Identifier is the plugin's marker type, used as the cache key
	Identifier reflect.Type
	// Output is the type every value produced by Eval must have
	Output reflect.Type
	// Eval computes the plugin's value from a host
	Eval EvalFunc
}

// Options configures a Registry
type Options struct {
	// Logger receives registration and lookup events, nil disables
	// logging
	Logger logger.Logger
}

// DefaultOptions returns an Options object with logging disabled
func DefaultOptions() *Options {
	return &Options{}
}

// Registry maps plugin identifier types to their registrations.
// Register every plugin at startup, call Freeze, then treat the
// registry as read only.
type Registry struct {
	mu      sync.RWMutex
	frozen  bool
	entries map[reflect.Type]Registration
	log     logger.Logger
}

// New creates a new registry with the given options, if options are
// nil default options are used
func New(options *Options) *Registry {
	o := options
	if o == nil {
		o = DefaultOptions()
	}

	return &Registry{entries: map[reflect.Type]Registration{}, log: o.Logger}
}

// Register adds a registration, failing fast when the identifier is
// already registered or the registry is frozen. A plugin identifier
// resolves to exactly one output type for the life of the process.
func (r *Registry) Register(reg Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := nameOf(reg.Identifier)

	if r.frozen {
		return errors.NewFrozenRegistryError(name)
	}

	if existing, ok := r.entries[reg.Identifier]; ok {
		if r.log != nil {
			r.log.Error("duplicate plugin registration", "plugin", name)
		}

		return errors.NewDuplicateRegistrationError(name, existing.Output.String(), reg.Output.String())
	}

	r.entries[reg.Identifier] = reg

	if r.log != nil {
		r.log.Debug("registered plugin", "plugin", name, "output", reg.Output.String())
	}

	return nil
}

// RegisterAll registers every registration in the list, collecting
// failures into a single error rather than stopping at the first.
func (r *Registry) RegisterAll(regs []Registration) error {
	re := errors.NewRegistrationError()

	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			re.Append(errwrap.Wrapf(fmt.Sprintf("failed to register %s: {{err}}", nameOf(reg.Identifier)), err))
		}
	}

	if len(re.Errors) > 0 {
		return re
	}

	return nil
}

// Freeze marks the registry read only, any further Register call
// returns a FrozenRegistryError
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true

	if r.log != nil {
		r.log.Debug("registry frozen", "plugins", len(r.entries))
	}
}

// Lookup returns the registration for the given identifier
func (r *Registry) Lookup(identifier reflect.Type) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[identifier]
	return reg, ok
}

// Get returns the value the registered plugin produces for host,
// evaluating on first use and answering from the host's extension
// store afterwards, exactly like the static query. The stored value is
// checked against the registered output type before it is returned.
//
// The second return is false when the plugin produced no value; that
// empty result is cached and the evaluation function is not retried.
func (r *Registry) Get(host extend.Extensible, identifier reflect.Type) (any, bool, error) {
	reg, ok := r.Lookup(identifier)
	if !ok {
		if r.log != nil {
			r.log.Warn("query for unregistered plugin", "plugin", nameOf(identifier))
		}

		return nil, false, errors.NewNotRegisteredError(nameOf(identifier))
	}

	value, ok := host.Extensions().LoadOrEval(identifier, func() (any, bool) {
		return reg.Eval(host)
	})

	if !ok {
		return nil, false, nil
	}

	got := reflect.TypeOf(value)
	if got == nil || !got.AssignableTo(reg.Output) {
		gotName := "nil"
		if got != nil {
			gotName = got.String()
		}

		return nil, false, errors.NewOutputMismatchError(nameOf(identifier), reg.Output.String(), gotName)
	}

	return value, true, nil
}

// Add registers plugin P with output V for hosts of type E, deriving
// the identifier and output types from the type arguments. Querying a
// host that is not of type E produces no value.
func Add[P extend.Plugin[E, V], E extend.Extensible, V any](r *Registry) error {
	return r.Register(Registration{
		Identifier: typemap.KeyOf[P](),
		Output:     typemap.KeyOf[V](),
		Eval: func(host any) (any, bool) {
			e, ok := host.(E)
			if !ok {
				return nil, false
			}

			var p P
			return p.Eval(e)
		},
	})
}

func nameOf(t reflect.Type) string {
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}

	return t.String()
}
