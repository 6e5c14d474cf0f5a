package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/polycalc/internal/calc"
)

func runREPL(t *testing.T, script string) string {
	t.Helper()
	noColor(t)
	r, err := NewREPL(calc.NewRegistry(), REPLConfig{Modulus: 998244353, Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("NewREPL: %v", err)
	}
	var out bytes.Buffer
	r.SetInput(strings.NewReader(script))
	r.SetOutput(&out)
	r.Start()
	return out.String()
}

func TestREPLEvaluatesAndBindsResult(t *testing.T) {
	out := runREPL(t, "set f 1 0 1\nset p 0 1 2\neval f p\nshow _\nexit\n")
	if !strings.Contains(out, "_ = 1 2 5") {
		t.Errorf("eval output missing:\n%s", out)
	}
	if strings.Count(out, "_ = 1 2 5") != 2 {
		t.Errorf("show _ should print the bound result:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Error("exit should say goodbye")
	}
}

func TestREPLSettings(t *testing.T) {
	out := runREPL(t, "set f 0 1\nexp f t=4\nt 3\nset g 1 1\npow g k=2\n")
	// exp(x) mod x^4 = 1 + x + x^2/2 + x^3/6
	if !strings.Contains(out, "_ = 1 1 499122177 166374059") {
		t.Errorf("exp output missing:\n%s", out)
	}
	// (1+x)^2 mod x^3
	if !strings.Contains(out, "_ = 1 2 1") {
		t.Errorf("pow output missing:\n%s", out)
	}
}

func TestREPLDivModBindsTwoLines(t *testing.T) {
	out := runREPL(t, "set a 1 2 1\nset b 1 1\ndivmod a b\n")
	if !strings.Contains(out, "_ = 1 1") || !strings.Contains(out, "_1 = ") {
		t.Errorf("divmod output:\n%s", out)
	}
}

func TestREPLErrors(t *testing.T) {
	out := runREPL(t, strings.Join([]string{
		"frobnicate",
		"show nothing",
		"exp nothing",
		"set z 0 1",
		"log z",
		"mod 12",
		"mod abc",
		"exp z t=x",
		"exp z w=3",
	}, "\n"))
	for _, want := range []string{
		`unknown command "frobnicate"`,
		"nothing is not bound",
		"precondition violated",
		"unsupported modulus",
		`invalid modulus "abc"`,
		`invalid value in "t=x"`,
		`unknown setting "w"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPLModulusSwitch(t *testing.T) {
	out := runREPL(t, "mod 7340033\nset a 7340034\nmul a a\n")
	if !strings.Contains(out, "modulus is now 7340033") {
		t.Errorf("mod switch missing:\n%s", out)
	}
	if !strings.Contains(out, "_ = 1") {
		t.Errorf("product should be reduced modulo 7340033:\n%s", out)
	}
}

func TestREPLListAndHelp(t *testing.T) {
	out := runREPL(t, "list\nhelp\nmoduli\nvars\n")
	for _, want := range []string{"divmod", "values of a at the points b", "set <name>", "998244353"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestNewREPLRejectsModulus(t *testing.T) {
	t.Parallel()
	if _, err := NewREPL(calc.NewRegistry(), REPLConfig{Modulus: 10}); err == nil {
		t.Error("expected an error for an unsupported modulus")
	}
}
