package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/renzocastillo/WSLScriptRunner/internal/protocol"
)

// ErrUnknownMethod is matched by errors returned for unregistered method names.
var ErrUnknownMethod = errors.New("unknown method")

// UnknownMethodError carries the method name that failed to resolve.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method %q", e.Method)
}

// Is reports whether target is ErrUnknownMethod.
func (e *UnknownMethodError) Is(target error) bool {
	return target == ErrUnknownMethod
}

// Unlimited disables the upper arity bound of an Operation.
const Unlimited = -1

// HandlerFunc performs an operation. Failures are reported as result rows, never returned.
type HandlerFunc func(ctx context.Context, params Params) []protocol.Result

// Operation declares a named, invocable operation and its accepted arity.
type Operation struct {
	Name    string
	MinArgs int
	MaxArgs int
	Handler HandlerFunc
}

func (op Operation) acceptsArgs(n int) bool {
	if n < op.MinArgs {
		return false
	}
	return op.MaxArgs == Unlimited || n <= op.MaxArgs
}

// Registry holds operations indexed by method name.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Operation),
	}
}

// Register adds an operation. Names must be unique and handlers non-nil.
func (r *Registry) Register(op Operation) error {
	name := strings.TrimSpace(op.Name)
	if name == "" {
		return fmt.Errorf("operation name is empty")
	}
	if op.Handler == nil {
		return fmt.Errorf("operation %q has no handler", name)
	}
	if op.MinArgs < 0 || (op.MaxArgs != Unlimited && op.MaxArgs < op.MinArgs) {
		return fmt.Errorf("operation %q has invalid arity [%d, %d]", name, op.MinArgs, op.MaxArgs)
	}
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %q already registered", name)
	}
	op.Name = name
	r.ops[name] = op
	return nil
}

// Get retrieves an operation by method name.
func (r *Registry) Get(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Resolve is like Get but returns an *UnknownMethodError when the name is not registered.
func (r *Registry) Resolve(name string) (Operation, error) {
	op, ok := r.ops[name]
	if !ok {
		return Operation{}, &UnknownMethodError{Method: name}
	}
	return op, nil
}

// Names returns the registered method names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params are the positional arguments an operation was invoked with.
type Params struct {
	args []json.RawMessage
}

// NewParams builds Params from raw JSON arguments.
func NewParams(args ...json.RawMessage) Params {
	return Params{args: args}
}

// Len returns the number of arguments.
func (p Params) Len() int { return len(p.args) }

// Raw returns argument i, or nil when out of range.
func (p Params) Raw(i int) json.RawMessage {
	if i < 0 || i >= len(p.args) {
		return nil
	}
	return p.args[i]
}

// StringOr returns argument i as a string.
// Missing or null arguments yield def; non-string JSON values yield their literal text.
func (p Params) StringOr(i int, def string) string {
	raw := p.Raw(i)
	if len(raw) == 0 || string(raw) == "null" {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Decode unmarshals argument i into v. A missing argument is an error.
func (p Params) Decode(i int, v any) error {
	raw := p.Raw(i)
	if raw == nil {
		return fmt.Errorf("argument %d not supplied", i)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode argument %d: %w", i, err)
	}
	return nil
}
