// Package schema checks user input against the constraints in schema.cue
// before it reaches the store.
//
// The store trusts its caller; every write path in the CLI validates first.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/stockroom/internal/model"
)

//go:embed schema.cue
var source string

// ValidationError is one violated constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the list of violations found in one value.
type Errors []ValidationError

// Error implements the error interface.
func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Fields returns the names of the offending fields.
func (es Errors) Fields() []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Field)
	}
	return out
}

// Validator holds the compiled schema.
//
// Thread-safety: safe for concurrent use. A cue.Context is not, so calls are
// serialized.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	product cue.Value
	order   cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(source, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v := &Validator{ctx: ctx}
	for name, dst := range map[string]*cue.Value{"#Product": &v.product, "#Order": &v.order} {
		def := root.LookupPath(cue.ParsePath(name))
		if !def.Exists() {
			return nil, fmt.Errorf("schema: definition %s not found", name)
		}
		*dst = def
	}
	return v, nil
}

// MustNew is like New but panics on error. The schema is embedded, so a
// failure is a programming error.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Product validates the fields of a new or edited product.
// Returns nil or an Errors value.
func (v *Validator) Product(f model.ProductFields) error {
	return v.check(v.product, f)
}

// Order validates the fields of a new or edited order.
// Returns nil or an Errors value.
func (v *Validator) Order(f model.OrderFields) error {
	return v.check(v.order, f)
}

// Quantity validates a stock quantity on its own.
func (v *Validator) Quantity(q int64) error {
	return v.check(v.product.LookupPath(cue.ParsePath("quantity")), q)
}

func (v *Validator) check(def cue.Value, x any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	val := v.ctx.Encode(x)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	err := def.Unify(val).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	return toErrors(err)
}

// toErrors flattens a CUE error list, one entry per field.
func toErrors(err error) Errors {
	var out Errors
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		field := fieldName(e.Path())
		if seen[field] {
			continue
		}
		seen[field] = true
		format, args := e.Msg()
		out = append(out, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	return out
}

// fieldName drops definition selectors from a CUE path.
func fieldName(path []string) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if strings.HasPrefix(p, "#") {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}
