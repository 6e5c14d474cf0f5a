package poly

import "github.com/rs/zerolog"

// settings holds the tunables shared by Rem and MultiEval.
type settings struct {
	schoolbookThreshold int
	hornerThreshold     int
	logger              zerolog.Logger
}

// Option configures Rem and MultiEval.
type Option func(*settings)

// WithSchoolbookThreshold overrides DefaultSchoolbookThreshold. A negative
// value disables the schoolbook path.
func WithSchoolbookThreshold(n int) Option {
	return func(s *settings) { s.schoolbookThreshold = n }
}

// WithHornerThreshold overrides DefaultHornerThreshold. A negative value
// forces the subproduct tree for every non-empty point set.
func WithHornerThreshold(n int) Option {
	return func(s *settings) { s.hornerThreshold = n }
}

// WithLogger attaches a logger that receives debug events about which
// algorithm was chosen. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := settings{
		schoolbookThreshold: DefaultSchoolbookThreshold,
		hornerThreshold:     DefaultHornerThreshold,
		logger:              zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
