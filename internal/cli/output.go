// Naming in this package follows the output it produces:
//
//   - Display* functions write decorated, human-oriented text to an io.Writer.
//   - Format* functions return strings and perform no I/O.
//   - Write* functions emit the machine-readable result stream.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/polycalc/internal/format"
	"github.com/agbru/polycalc/internal/orchestration"
	"github.com/agbru/polycalc/internal/ui"
)

// WriteResults writes the output lines of each job in input order. Writing
// stops at the first failed job, so the stream never has holes; the number of
// jobs written is returned.
func WriteResults(w io.Writer, results []orchestration.JobResult) (int, error) {
	bw := bufio.NewWriter(w)
	var buf []byte
	written := 0
	for _, r := range results {
		if r.Err != nil {
			break
		}
		for _, line := range r.Lines {
			buf = format.AppendCoefficients(buf[:0], line)
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return written, fmt.Errorf("writing results: %w", err)
			}
		}
		written++
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("writing results: %w", err)
	}
	return written, nil
}

// FormatLine renders one output line without the trailing newline.
func FormatLine(values []uint64) string {
	return format.FormatCoefficients(values)
}

// OpenOutput returns stdout when path is empty, otherwise creates the file
// and any missing parent directories. The caller closes the result.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// OpenInput returns stdin when path is empty, otherwise opens the file.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// DisplaySaved confirms a result file on the human-facing stream.
func DisplaySaved(out io.Writer, path string, jobs int) {
	fmt.Fprintf(out, "%s✓ %d result(s) saved to: %s%s%s\n",
		ui.ColorGreen(), jobs, ui.ColorCyan(), path, ui.ColorReset())
}
