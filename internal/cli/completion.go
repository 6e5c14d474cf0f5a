package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agbru/polycalc/internal/field"
)

// completionFlag describes one flag for completion scripts.
type completionFlag struct {
	name   string
	help   string
	values func(ops []string) []string // nil for switches
	file   bool
}

func fixed(v ...string) func([]string) []string { return func([]string) []string { return v } }

func moduliValues([]string) []string {
	var out []string
	for _, p := range field.Supported() {
		out = append(out, strconv.FormatUint(p.Modulus, 10))
	}
	return out
}

var completionFlags = []completionFlag{
	{name: "op", help: "operation", values: func(ops []string) []string { return ops }},
	{name: "mod", help: "prime modulus", values: moduliValues},
	{name: "t", help: "series precision", values: fixed("8", "64", "1024")},
	{name: "k", help: "exponent for pow", values: fixed("2", "3", "10")},
	{name: "input", help: "input file", file: true},
	{name: "i", help: "input file", file: true},
	{name: "output", help: "output file", file: true},
	{name: "o", help: "output file", file: true},
	{name: "jobs", help: "concurrent cases", values: fixed("1", "2", "4", "8")},
	{name: "timeout", help: "run timeout", values: fixed("30s", "1m", "5m", "30m")},
	{name: "schoolbook-threshold", help: "schoolbook remainder cutoff", values: fixed("-1", "16", "32", "64")},
	{name: "horner-threshold", help: "Horner evaluation cutoff", values: fixed("-1", "32", "64", "128")},
	{name: "completion", help: "print completion script", values: fixed("bash", "zsh", "fish")},
	{name: "calibration-profile", help: "threshold profile", file: true},
	{name: "calibrate", help: "measure thresholds"},
	{name: "tui", help: "full-screen dashboard"},
	{name: "quiet", help: "results only"},
	{name: "q", help: "results only"},
	{name: "verbose", help: "debug logging"},
	{name: "v", help: "debug logging"},
	{name: "details", help: "run summary"},
	{name: "d", help: "run summary"},
	{name: "metrics", help: "dump Prometheus metrics"},
	{name: "no-color", help: "disable colors"},
	{name: "repl", help: "interactive shell"},
	{name: "list-moduli", help: "list supported moduli"},
	{name: "version", help: "print version"},
	{name: "help", help: "show usage"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh" or
// "fish") to out. ops fills the -op candidates.
func GenerateCompletion(out io.Writer, shell string, ops []string) error {
	switch shell {
	case "bash":
		return writeBash(out, ops)
	case "zsh":
		return writeZsh(out, ops)
	case "fish":
		return writeFish(out, ops)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

func writeBash(out io.Writer, ops []string) error {
	var names []string
	var cases strings.Builder
	for _, f := range completionFlags {
		names = append(names, "-"+f.name)
		switch {
		case f.file:
			fmt.Fprintf(&cases, "        -%s) COMPREPLY=( $(compgen -f -- \"$cur\") ); return 0 ;;\n", f.name)
		case f.values != nil:
			fmt.Fprintf(&cases, "        -%s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return 0 ;;\n",
				f.name, strings.Join(f.values(ops), " "))
		}
	}
	_, err := fmt.Fprintf(out, `# bash completion for polycalc
# source this file or copy it to /etc/bash_completion.d/polycalc

_polycalc() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "$prev" in
%s    esac
    COMPREPLY=( $(compgen -W %q -- "$cur") )
}
complete -F _polycalc polycalc
`, cases.String(), strings.Join(names, " "))
	return err
}

func writeZsh(out io.Writer, ops []string) error {
	var b strings.Builder
	for _, f := range completionFlags {
		switch {
		case f.file:
			fmt.Fprintf(&b, "    '-%s[%s]:file:_files' \\\n", f.name, f.help)
		case f.values != nil:
			fmt.Fprintf(&b, "    '-%s[%s]:value:(%s)' \\\n", f.name, f.help, strings.Join(f.values(ops), " "))
		default:
			fmt.Fprintf(&b, "    '-%s[%s]' \\\n", f.name, f.help)
		}
	}
	_, err := fmt.Fprintf(out, "#compdef polycalc\n\n_arguments \\\n%s    && return 0\n", b.String())
	return err
}

func writeFish(out io.Writer, ops []string) error {
	var b strings.Builder
	b.WriteString("# fish completion for polycalc\n")
	for _, f := range completionFlags {
		fmt.Fprintf(&b, "complete -c polycalc -o %s -d %q", f.name, f.help)
		switch {
		case f.file:
			b.WriteString(" -r -F")
		case f.values != nil:
			fmt.Fprintf(&b, " -x -a %q", strings.Join(f.values(ops), " "))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}
