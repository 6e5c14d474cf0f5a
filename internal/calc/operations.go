package calc

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/agbru/polycalc/internal/errors"
)

// Job is one input case: the operand polynomials (or points) in the order
// the operation reads them, plus the scalar parameters.
type Job struct {
	// Operands holds the coefficient blocks, lowest degree first.
	Operands [][]int64
	// Precision is the series length t. Zero or negative means the length
	// of the first operand.
	Precision int
	// Exponent is k for pow.
	Exponent uint64
}

// PrecisionOrDefault returns Precision, falling back to the length of the
// first operand.
func (j Job) PrecisionOrDefault() int {
	if j.Precision > 0 {
		return j.Precision
	}
	if len(j.Operands) == 0 {
		return 0
	}
	return len(j.Operands[0])
}

// Operation is a named engine call.
type Operation struct {
	// Name is the identifier used on the command line.
	Name string
	// Arity is the number of operand blocks a job must carry.
	Arity int
	// Description is a one-line summary for help output.
	Description string
	// Exec performs the call. Each returned slice is one output line.
	Exec func(e Engine, j Job) ([][]uint64, error)
}

// Run checks the operand count and executes the operation.
func (o Operation) Run(e Engine, j Job) ([][]uint64, error) {
	if len(j.Operands) != o.Arity {
		return nil, apperrors.ValidationError{
			Field:   "operands",
			Message: fmt.Sprintf("%s takes %d operand(s), got %d", o.Name, o.Arity, len(j.Operands)),
		}
	}
	return o.Exec(e, j)
}

// Registry holds the available operations. It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry returns a registry with the built-in operations.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]Operation)}
	for _, op := range builtinOperations() {
		r.ops[op.Name] = op
	}
	return r
}

// Register adds an operation. Names must be unique.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" || op.Exec == nil || op.Arity < 1 {
		return fmt.Errorf("invalid operation %q", op.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("operation %q already registered", op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// Get returns the operation registered under name.
func (r *Registry) Get(name string) (Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	if !ok {
		return Operation{}, apperrors.NewConfigError("unknown operation %q", name)
	}
	return op, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns the registered operations sorted by name.
func (r *Registry) GetAll() []Operation {
	names := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := make([]Operation, len(names))
	for i, name := range names {
		ops[i] = r.ops[name]
	}
	return ops
}

func line(v []uint64, err error) ([][]uint64, error) {
	if err != nil {
		return nil, err
	}
	return [][]uint64{v}, nil
}

func builtinOperations() []Operation {
	return []Operation{
		{Name: "mul", Arity: 2, Description: "product a*b",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.Mul(j.Operands[0], j.Operands[1]))
			}},
		{Name: "inv", Arity: 1, Description: "series inverse 1/a mod x^t",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.Inv(j.Operands[0], j.PrecisionOrDefault()))
			}},
		{Name: "deriv", Arity: 1, Description: "formal derivative a'",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return [][]uint64{e.Derivative(j.Operands[0])}, nil
			}},
		{Name: "integ", Arity: 1, Description: "antiderivative with zero constant term",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.Integral(j.Operands[0]))
			}},
		{Name: "log", Arity: 1, Description: "series logarithm mod x^t (a[0] = 1)",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.Log(j.Operands[0], j.PrecisionOrDefault()))
			}},
		{Name: "exp", Arity: 1, Description: "series exponential mod x^t (a[0] = 0)",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.Exp(j.Operands[0], j.PrecisionOrDefault()))
			}},
		{Name: "pow", Arity: 1, Description: "series power a^k mod x^t",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.Pow(j.Operands[0], j.Exponent, j.PrecisionOrDefault()))
			}},
		{Name: "div", Arity: 2, Description: "quotient of a by b",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				q, _, err := e.DivMod(j.Operands[0], j.Operands[1])
				return line(q, err)
			}},
		{Name: "rem", Arity: 2, Description: "remainder of a by b",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.Rem(j.Operands[0], j.Operands[1]))
			}},
		{Name: "divmod", Arity: 2, Description: "quotient and remainder of a by b (two lines)",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				q, r, err := e.DivMod(j.Operands[0], j.Operands[1])
				if err != nil {
					return nil, err
				}
				return [][]uint64{q, r}, nil
			}},
		{Name: "eval", Arity: 2, Description: "values of a at the points b",
			Exec: func(e Engine, j Job) ([][]uint64, error) {
				return line(e.MultiEval(j.Operands[0], j.Operands[1]))
			}},
	}
}
