package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/agbru/polycalc/internal/calc"
	apperrors "github.com/agbru/polycalc/internal/errors"
)

// MaxBlockLen bounds the declared length of one coefficient block.
const MaxBlockLen = 1 << 24

// InputConfig carries the per-run scalars copied into every job.
type InputConfig struct {
	Precision int
	Exponent  uint64
}

// ReadJobs parses cases for op until EOF. A case is op.Arity blocks, each a
// length n followed by n integers, all separated by whitespace. EOF is only
// accepted on a case boundary.
func ReadJobs(r io.Reader, op calc.Operation, cfg InputConfig) ([]calc.Job, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var jobs []calc.Job
	for {
		job := calc.Job{Precision: cfg.Precision, Exponent: cfg.Exponent}
		for b := 0; b < op.Arity; b++ {
			block, err := readBlock(sc, len(jobs)+1, b == 0)
			if err == io.EOF {
				if err := sc.Err(); err != nil {
					return nil, fmt.Errorf("reading input: %w", err)
				}
				return jobs, nil
			}
			if err != nil {
				return nil, err
			}
			job.Operands = append(job.Operands, block)
		}
		jobs = append(jobs, job)
	}
}

// readBlock returns io.EOF only when the input ends before the block's length
// token and eofOK is set.
// initialBlockCap bounds the allocation made from a declared block length.
const initialBlockCap = 1 << 12

func readBlock(sc *bufio.Scanner, caseNo int, eofOK bool) ([]int64, error) {
	if !sc.Scan() {
		if eofOK {
			return nil, io.EOF
		}
		return nil, truncated(caseNo)
	}
	n, err := strconv.Atoi(sc.Text())
	if err != nil || n < 0 || n > MaxBlockLen {
		return nil, apperrors.ValidationError{
			Field:   "length",
			Message: fmt.Sprintf("case %d: invalid block length %q", caseNo, sc.Text()),
		}
	}
	// The declared length is untrusted until the data is actually there.
	block := make([]int64, 0, min(n, initialBlockCap))
	for range n {
		if !sc.Scan() {
			return nil, truncated(caseNo)
		}
		v, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return nil, apperrors.ValidationError{
				Field:   "coefficient",
				Message: fmt.Sprintf("case %d: invalid integer %q", caseNo, sc.Text()),
			}
		}
		block = append(block, v)
	}
	return block, nil
}

func truncated(caseNo int) error {
	return apperrors.ValidationError{
		Field:   "input",
		Message: fmt.Sprintf("case %d: unexpected end of input", caseNo),
	}
}

// ParseCoefficients converts whitespace-split tokens into integers.
func ParseCoefficients(tokens []string) ([]int64, error) {
	out := make([]int64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, apperrors.ValidationError{Field: "coefficient", Message: fmt.Sprintf("invalid integer %q", tok)}
		}
		out[i] = v
	}
	return out, nil
}
