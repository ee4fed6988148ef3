package dialect

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned when an operation has no binding in a dialect chain.
	ErrUnsupported = errors.New("unsupported spatial operation")

	// ErrUnknownAttribute is returned when an operation name cannot be dispatched.
	ErrUnknownAttribute = errors.New("unknown spatial attribute")

	// ErrArity is returned when an operation receives the wrong number of operands.
	ErrArity = errors.New("wrong number of operands")

	// ErrDialectRequired is returned when a dialect is required but not provided.
	ErrDialectRequired = errors.New("dialect is required")
)

// UnsupportedError reports an operation that the dialect chain does not bind.
type UnsupportedError struct {
	Dialect string
	Op      Operation
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("operation %q is not supported by dialect %s", e.Op, e.Dialect)
}

// Is makes errors.Is(err, ErrUnsupported) match.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// AttributeError reports an operation name that neither the dialect nor the
// shared base set can dispatch.
type AttributeError struct {
	Dialect string
	Name    string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("dialect %s has no spatial operation %q", e.Dialect, e.Name)
}

// Is makes errors.Is(err, ErrUnknownAttribute) match.
func (e *AttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute
}

// IsUnsupported reports whether err resulted from an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsUnknownAttribute reports whether err resulted from an unknown operation name.
func IsUnknownAttribute(err error) bool {
	return errors.Is(err, ErrUnknownAttribute)
}

func arityError(op Operation, want, got int) error {
	return fmt.Errorf("%s expects %d operands, got %d: %w", op, want, got, ErrArity)
}
