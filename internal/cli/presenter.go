package cli

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sys/cpu"

	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/format"
	"github.com/agbru/polycalc/internal/metrics"
	"github.com/agbru/polycalc/internal/orchestration"
	"github.com/agbru/polycalc/internal/sysmon"
	"github.com/agbru/polycalc/internal/ui"
)

// RunInfo describes a batch for the header and details report.
type RunInfo struct {
	Op      string
	Params  field.Params
	Jobs    int
	Limit   int
	Timeout time.Duration
}

// DisplayRunHeader prints the execution configuration before a batch.
func DisplayRunHeader(out io.Writer, info RunInfo) {
	fmt.Fprintln(out, ui.HeaderStyle().Render("polycalc"))
	fmt.Fprintf(out, "Running %s%s%s on %s%d%s case(s) modulo %s%d%s, %d at a time, timeout %s%s%s.\n",
		ui.ColorMagenta(), info.Op, ui.ColorReset(),
		ui.ColorCyan(), info.Jobs, ui.ColorReset(),
		ui.ColorCyan(), info.Params.Modulus, ui.ColorReset(),
		info.Limit,
		ui.ColorYellow(), info.Timeout, ui.ColorReset())
}

// Details is the data behind the -details report.
type Details struct {
	Info    RunInfo
	Summary orchestration.Summary
	Wall    time.Duration
	Memory  metrics.MemoryDelta
	System  sysmon.Stats
}

// DisplayDetails prints the run summary, memory and system sections.
func DisplayDetails(out io.Writer, d Details) {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(ui.KeyValue(label, value))
		b.WriteByte('\n')
	}

	row("Operation", d.Info.Op)
	row("Modulus", fmt.Sprintf("%d (root %d, 2^%d | p-1)",
		d.Info.Params.Modulus, d.Info.Params.PrimitiveRoot, d.Info.Params.TwoAdicity))
	row("Max transform", format.FormatCount(d.Info.Params.MaxTransformLen()))
	row("Cases", fmt.Sprintf("%d ok, %d failed", d.Summary.Succeeded, d.Summary.Failed))
	row("Wall time", format.FormatExecutionDuration(d.Wall))
	row("Engine time", format.FormatExecutionDuration(d.Summary.Busy))
	if d.Summary.SlowestJob >= 0 {
		row("Slowest case", fmt.Sprintf("#%d in %s", d.Summary.SlowestJob+1, format.FormatExecutionDuration(d.Summary.Slowest)))
	}
	runSection := b.String()
	b.Reset()

	growth := format.FormatBytes(uint64(max(d.Memory.HeapGrowth, 0)))
	if d.Memory.HeapGrowth < 0 {
		growth = "-" + format.FormatBytes(uint64(-d.Memory.HeapGrowth))
	}
	row("Heap growth", growth)
	row("Process memory", format.FormatBytes(d.Memory.PeakSys))
	row("GC cycles", fmt.Sprintf("%d (%s paused)", d.Memory.GCCycles, format.FormatExecutionDuration(d.Memory.GCPause)))
	memSection := b.String()
	b.Reset()

	row("Host", d.System.String())
	row("Runtime", fmt.Sprintf("%s %s/%s, GOMAXPROCS=%d", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.GOMAXPROCS(0)))
	row("CPU features", strings.Join(CPUFeatures(), " "))
	sysSection := b.String()

	fmt.Fprintln(out)
	for _, sec := range []struct{ title, body string }{
		{"Run", runSection},
		{"Memory", memSection},
		{"System", sysSection},
	} {
		fmt.Fprintln(out, ui.HeaderStyle().Render(sec.title))
		fmt.Fprintln(out, ui.BoxStyle().Render(strings.TrimRight(sec.body, "\n")))
	}
}

// CPUFeatures lists the SIMD and bit-manipulation extensions relevant to
// 64-bit modular multiplication. It returns "none" when nothing is detected.
func CPUFeatures() []string {
	var feats []string
	add := func(ok bool, name string) {
		if ok {
			feats = append(feats, name)
		}
	}
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.X86.HasBMI2, "bmi2")
	add(cpu.X86.HasADX, "adx")
	add(cpu.ARM64.HasASIMD, "asimd")
	add(cpu.ARM64.HasSVE, "sve")
	if len(feats) == 0 {
		return []string{"none"}
	}
	return feats
}

// DisplayError prints err in the error color with a hint matching its class
// and returns the exit code for it.
func DisplayError(out io.Writer, err error) int {
	code := apperrors.ExitCodeFor(err)
	if code == apperrors.ExitSuccess {
		return code
	}
	fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())

	var ve apperrors.ValidationError
	switch {
	case code == apperrors.ExitErrorTimeout:
		fmt.Fprintf(out, "%sHint: raise -timeout or lower the input size.%s\n", ui.ColorGrey(), ui.ColorReset())
	case errors.Is(err, apperrors.ErrPreconditionViolated):
		fmt.Fprintf(out, "%sHint: log needs a[0] = 1, exp needs a[0] = 0.%s\n", ui.ColorGrey(), ui.ColorReset())
	case errors.Is(err, apperrors.ErrInvalidTransformSize):
		fmt.Fprintf(out, "%sHint: the product is longer than this modulus supports; see -list-moduli.%s\n", ui.ColorGrey(), ui.ColorReset())
	case errors.As(err, &ve):
		fmt.Fprintf(out, "%sHint: each block is a length followed by that many integers.%s\n", ui.ColorGrey(), ui.ColorReset())
	}
	return code
}

// DisplayModuli prints the supported moduli table.
func DisplayModuli(out io.Writer) {
	fmt.Fprintln(out, ui.HeaderStyle().Render("Supported moduli"))
	fmt.Fprintf(out, "%s%-12s %-6s %-6s %s%s\n", ui.ColorUnderline(), "modulus", "root", "2-adic", "max transform", ui.ColorReset())
	for _, p := range field.Supported() {
		marker := " "
		if p.Modulus == field.ModulusOf[field.Default]() {
			marker = "*"
		}
		fmt.Fprintf(out, "%-12d %-6d %-6d %s %s\n", p.Modulus, p.PrimitiveRoot, p.TwoAdicity,
			format.FormatCount(p.MaxTransformLen()), marker)
	}
}
