package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	ops := []string{"exp", "mul"}
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _polycalc polycalc", `-op) COMPREPLY=( $(compgen -W "exp mul"`, "-input) COMPREPLY=( $(compgen -f", "-list-moduli"}},
		{"zsh", []string{"#compdef polycalc", "'-op[operation]:value:(exp mul)'", "'-output[output file]:file:_files'", "998244353"}},
		{"fish", []string{"complete -c polycalc -o op", `-x -a "exp mul"`, "-o input -d \"input file\" -r -F"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell, ops); err != nil {
				t.Fatalf("GenerateCompletion: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletionUnknownShell(t *testing.T) {
	t.Parallel()
	if err := GenerateCompletion(&bytes.Buffer{}, "tcsh", nil); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
