package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/polycalc/internal/calc"
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/format"
	"github.com/agbru/polycalc/internal/poly"
	"github.com/agbru/polycalc/internal/ui"
)

// ResultVar is the name the last result is bound to. A second output line
// (the remainder of divmod) is bound to ResultVar+"1".
const ResultVar = "_"

// REPLConfig holds the session settings.
type REPLConfig struct {
	Modulus   uint64
	Precision int
	Exponent  uint64
	// Timeout bounds each command.
	Timeout time.Duration
	// EngineOptions are passed to every engine the session creates.
	EngineOptions []poly.Option
}

// REPL is an interactive session over named polynomials.
type REPL struct {
	config   REPLConfig
	registry *calc.Registry
	engine   calc.Engine
	vars     map[string][]int64
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a session working modulo config.Modulus.
func NewREPL(registry *calc.Registry, config REPLConfig) (*REPL, error) {
	engine, err := calc.NewEngine(config.Modulus, config.EngineOptions...)
	if err != nil {
		return nil, apperrors.NewConfigError("unsupported modulus %d (see -list-moduli)", config.Modulus)
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	return &REPL{
		config:   config,
		registry: registry,
		engine:   engine,
		vars:     make(map[string][]int64),
		in:       os.Stdin,
		out:      os.Stdout,
	}, nil
}

// SetInput replaces stdin.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput replaces stdout.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads commands until exit or EOF.
func (r *REPL) Start() {
	fmt.Fprintln(r.out, ui.BoxStyle().Render(ui.HeaderStyle().Render("polycalc interactive")+
		fmt.Sprintf("\nmodulus %d, type help for commands", r.config.Modulus)))

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"poly> "+ui.ColorReset())
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out)
			return
		}
	}
}

func (r *REPL) printHelp() {
	cmd := func(name, desc string) {
		fmt.Fprintf(r.out, "  %s%-26s%s %s\n", ui.ColorYellow(), name, ui.ColorReset(), desc)
	}
	fmt.Fprintf(r.out, "%sCommands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmd("set <name> <a0 a1 ...>", "bind coefficients to a name")
	cmd("show <name>", "print a binding")
	cmd("vars", "list bindings")
	cmd("<op> <name...> [t=N] [k=N]", "apply an operation, result bound to "+ResultVar)
	cmd("list", "list operations")
	cmd("mod <m>", "switch modulus")
	cmd("moduli", "list supported moduli")
	cmd("t <n> / k <n>", "set default precision / exponent")
	cmd("help", "show this help")
	cmd("exit", "leave")
}

// processCommand runs one line and reports whether the session continues.
func (r *REPL) processCommand(line string) bool {
	parts := strings.Fields(line)
	name, args := strings.ToLower(parts[0]), parts[1:]

	switch name {
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	case "help", "h", "?":
		r.printHelp()
	case "set":
		r.cmdSet(args)
	case "show":
		r.cmdShow(args)
	case "vars":
		r.cmdVars()
	case "list", "ls":
		r.cmdList()
	case "mod":
		r.cmdMod(args)
	case "moduli":
		DisplayModuli(r.out)
	case "t", "k":
		r.cmdDefault(name, args)
	default:
		op, err := r.registry.Get(name)
		if err != nil {
			r.fail("unknown command %q; type help", name)
			return true
		}
		r.cmdOp(op, args)
	}
	return true
}

func (r *REPL) fail(format string, a ...any) {
	fmt.Fprintf(r.out, "%s%s%s\n", ui.ColorRed(), fmt.Sprintf(format, a...), ui.ColorReset())
}

func (r *REPL) cmdSet(args []string) {
	if len(args) < 1 {
		r.fail("usage: set <name> <a0 a1 ...>")
		return
	}
	coeffs, err := ParseCoefficients(args[1:])
	if err != nil {
		r.fail("%v", err)
		return
	}
	r.vars[args[0]] = coeffs
	fmt.Fprintf(r.out, "%s = %s\n", args[0], formatInts(coeffs))
}

func (r *REPL) cmdShow(args []string) {
	if len(args) != 1 {
		r.fail("usage: show <name>")
		return
	}
	v, ok := r.vars[args[0]]
	if !ok {
		r.fail("%s is not bound", args[0])
		return
	}
	fmt.Fprintf(r.out, "%s = %s\n", args[0], formatInts(v))
}

func (r *REPL) cmdVars() {
	names := make([]string, 0, len(r.vars))
	for n := range r.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(r.out, "  %s%-8s%s %d coefficient(s)\n", ui.ColorCyan(), n, ui.ColorReset(), len(r.vars[n]))
	}
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "%sOperations:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, op := range r.registry.GetAll() {
		fmt.Fprintf(r.out, "  %s%-7s%s %d operand(s)  %s\n", ui.ColorYellow(), op.Name, ui.ColorReset(), op.Arity, op.Description)
	}
}

func (r *REPL) cmdMod(args []string) {
	if len(args) != 1 {
		r.fail("usage: mod <m>")
		return
	}
	m, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		r.fail("invalid modulus %q", args[0])
		return
	}
	engine, err := calc.NewEngine(m, r.config.EngineOptions...)
	if err != nil {
		r.fail("%v (see moduli)", err)
		return
	}
	r.engine = engine
	r.config.Modulus = m
	fmt.Fprintf(r.out, "modulus is now %s%d%s\n", ui.ColorCyan(), m, ui.ColorReset())
}

func (r *REPL) cmdDefault(name string, args []string) {
	if len(args) != 1 {
		r.fail("usage: %s <n>", name)
		return
	}
	v, err := strconv.ParseUint(args[0], 10, 31)
	if err != nil {
		r.fail("invalid value %q", args[0])
		return
	}
	if name == "t" {
		r.config.Precision = int(v)
	} else {
		r.config.Exponent = v
	}
	fmt.Fprintf(r.out, "%s = %d\n", name, v)
}

// cmdOp resolves operand names and key=value settings, then runs op.
func (r *REPL) cmdOp(op calc.Operation, args []string) {
	job := calc.Job{Precision: r.config.Precision, Exponent: r.config.Exponent}
	for _, a := range args {
		if key, val, ok := strings.Cut(a, "="); ok {
			v, err := strconv.ParseUint(val, 10, 63)
			if err != nil {
				r.fail("invalid value in %q", a)
				return
			}
			switch key {
			case "t":
				job.Precision = int(v)
			case "k":
				job.Exponent = v
			default:
				r.fail("unknown setting %q", key)
				return
			}
			continue
		}
		v, ok := r.vars[a]
		if !ok {
			r.fail("%s is not bound", a)
			return
		}
		job.Operands = append(job.Operands, v)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()
	type outcome struct {
		lines [][]uint64
		err   error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		lines, err := op.Run(r.engine, job)
		done <- outcome{lines, err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
		r.fail("%s timed out after %s", op.Name, r.config.Timeout)
		return
	}
	if res.err != nil {
		r.fail("%v", res.err)
		return
	}

	for i, l := range res.lines {
		name := ResultVar
		if i > 0 {
			name += strconv.Itoa(i)
		}
		bound := make([]int64, len(l))
		for j, c := range l {
			bound[j] = int64(c)
		}
		r.vars[name] = bound
		fmt.Fprintf(r.out, "%s = %s\n", name, FormatLine(l))
	}
	fmt.Fprintf(r.out, "%s(%s)%s\n", ui.ColorGrey(), format.FormatExecutionDuration(time.Since(start)), ui.ColorReset())
}

func formatInts(v []int64) string {
	s := make([]string, len(v))
	for i, c := range v {
		s[i] = strconv.FormatInt(c, 10)
	}
	return strings.Join(s, " ")
}
