package poly

// ─────────────────────────────────────────────────────────────────────────────
// Algorithm Crossover Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultSchoolbookThreshold is the divisor degree (and degree gap) at or
	// below which Rem uses quadratic long division instead of the Newton
	// reversal method. Below it the transform setup costs more than the
	// O(n*m) loop saves.
	DefaultSchoolbookThreshold = 32

	// DefaultHornerThreshold is the number of points at or below which
	// MultiEval evaluates each point with Horner's rule instead of building
	// a subproduct tree.
	DefaultHornerThreshold = 64
)
