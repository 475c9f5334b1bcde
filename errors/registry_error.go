package errors

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// NotRegisteredError is returned when a plugin identifier has no
// registration in the registry that was asked for it.
type NotRegisteredError struct {
	Identifier string
}

func NewNotRegisteredError(identifier string) *NotRegisteredError {
	return &NotRegisteredError{Identifier: identifier}
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("plugin %s, not registered", e.Identifier)
}

// DuplicateRegistrationError is returned when a plugin identifier is
// registered a second time. A plugin identifier resolves to exactly
// one output type for the life of the process, so a second
// registration is always a programming error.
type DuplicateRegistrationError struct {
	Identifier string
	Existing   string
	New        string
}

func NewDuplicateRegistrationError(identifier, existing, new string) *DuplicateRegistrationError {
	return &DuplicateRegistrationError{Identifier: identifier, Existing: existing, New: new}
}

func (e *DuplicateRegistrationError) Error() string {
	if e.Existing != e.New {
		return fmt.Sprintf(
			"plugin %s already registered with output %s, can not re-register with output %s",
			e.Identifier, e.Existing, e.New,
		)
	}

	return fmt.Sprintf("plugin %s already registered", e.Identifier)
}

// FrozenRegistryError is returned when a registration is attempted
// after the registry has been frozen.
type FrozenRegistryError struct {
	Identifier string
}

func NewFrozenRegistryError(identifier string) *FrozenRegistryError {
	return &FrozenRegistryError{Identifier: identifier}
}

func (e *FrozenRegistryError) Error() string {
	return fmt.Sprintf("can not register plugin %s, registry is frozen", e.Identifier)
}

// OutputMismatchError is returned when the value cached for a plugin
// does not have the output type its registration declared.
type OutputMismatchError struct {
	Identifier string
	Want       string
	Got        string
}

func NewOutputMismatchError(identifier, want, got string) *OutputMismatchError {
	return &OutputMismatchError{Identifier: identifier, Want: want, Got: got}
}

func (e *OutputMismatchError) Error() string {
	return fmt.Sprintf("plugin %s produced %s, registered output type is %s", e.Identifier, e.Got, e.Want)
}

// RegistrationError collects the errors encountered while registering
// a batch of plugins
type RegistrationError struct {
	Errors []error
}

func NewRegistrationError() *RegistrationError {
	return &RegistrationError{Errors: []error{}}
}

// Append adds a new error to the list of registration errors
func (r *RegistrationError) Append(err error) {
	r.Errors = append(r.Errors, err)
}

// Error pretty prints the collected errors as a single string, each
// message wrapped at 80 columns
func (r *RegistrationError) Error() string {
	err := strings.Builder{}

	for _, e := range r.Errors {
		err.WriteString(wordwrap.WrapString(e.Error(), 80) + "\n")
	}

	return strings.TrimSuffix(err.String(), "\n")
}
