package calc

import (
	"errors"
	"slices"
	"testing"

	apperrors "github.com/agbru/polycalc/internal/errors"
)

func TestRegistryList(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	want := []string{"deriv", "div", "divmod", "eval", "exp", "integ", "inv", "log", "mul", "pow", "rem"}
	if got := r.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	all := r.GetAll()
	if len(all) != len(want) || all[0].Name != "deriv" {
		t.Errorf("GetAll() returned %d operations, first %q", len(all), all[0].Name)
	}
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	op, err := r.Get("divmod")
	if err != nil || op.Arity != 2 {
		t.Errorf("Get(divmod) = %+v, %v", op, err)
	}
	_, err = r.Get("sqrt")
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	square := Operation{Name: "square", Arity: 1, Description: "a*a",
		Exec: func(e Engine, j Job) ([][]uint64, error) {
			return line(e.Mul(j.Operands[0], j.Operands[0]))
		}}
	if err := r.Register(square); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(square); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := r.Register(Operation{Name: "broken", Arity: 1}); err == nil {
		t.Error("operation without Exec should be rejected")
	}

	e, err := NewEngine(998244353)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	op, _ := r.Get("square")
	out, err := op.Run(e, Job{Operands: [][]int64{{1, 2}}})
	if err != nil || !slices.Equal(out[0], []uint64{1, 4, 4}) {
		t.Errorf("square = %v, %v", out, err)
	}
}

func TestOperationRun(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(998244353)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	r := NewRegistry()

	tests := []struct {
		op   string
		job  Job
		want [][]uint64
	}{
		{"exp", Job{Operands: [][]int64{{0, 0, 0}}}, [][]uint64{{1, 0, 0}}},
		{"exp", Job{Operands: [][]int64{{0}}, Precision: 2}, [][]uint64{{1, 0}}},
		{"pow", Job{Operands: [][]int64{{1, 1}}, Exponent: 2, Precision: 3}, [][]uint64{{1, 2, 1}}},
		{"mul", Job{Operands: [][]int64{{1, 2}, {3}}}, [][]uint64{{3, 6}}},
		{"div", Job{Operands: [][]int64{{-1, 0, 1}, {1, 1}}}, [][]uint64{{998244352, 1}}},
		{"divmod", Job{Operands: [][]int64{{1, 0, 1}, {-1, 1}}}, [][]uint64{{1, 1}, {2}}},
		{"eval", Job{Operands: [][]int64{{1, 0, 1}, {0, 1, 2}}}, [][]uint64{{1, 2, 5}}},
		{"deriv", Job{Operands: [][]int64{{7}}}, [][]uint64{{}}},
		{"integ", Job{Operands: [][]int64{{2}}}, [][]uint64{{0, 2}}},
		{"inv", Job{Operands: [][]int64{{1, 1}}}, [][]uint64{{1, 998244352}}},
		{"log", Job{Operands: [][]int64{{1}}, Precision: 1}, [][]uint64{{0}}},
		{"rem", Job{Operands: [][]int64{{5}, {1, 1}}}, [][]uint64{{5}}},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			t.Parallel()
			op, err := r.Get(tt.op)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			got, err := op.Run(e, tt.job)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("line %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOperationRunArity(t *testing.T) {
	t.Parallel()
	e, _ := NewEngine(998244353)
	op, _ := NewRegistry().Get("mul")
	_, err := op.Run(e, Job{Operands: [][]int64{{1}}})
	var ve apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestPrecisionOrDefault(t *testing.T) {
	t.Parallel()
	if got := (Job{Operands: [][]int64{{1, 2, 3}}}).PrecisionOrDefault(); got != 3 {
		t.Errorf("default precision = %d, want 3", got)
	}
	if got := (Job{Operands: [][]int64{{1}}, Precision: 8}).PrecisionOrDefault(); got != 8 {
		t.Errorf("explicit precision = %d, want 8", got)
	}
	if got := (Job{}).PrecisionOrDefault(); got != 0 {
		t.Errorf("empty job precision = %d", got)
	}
}
