package tui

// sparkBlocks are the eight bar heights of a sparkline.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// series keeps the most recent samples of a gauge, oldest first.
type series struct {
	limit  int
	values []float64
}

func newSeries(limit int) *series {
	return &series{limit: max(limit, 1)}
}

func (s *series) push(v float64) {
	if len(s.values) == s.limit {
		copy(s.values, s.values[1:])
		s.values = s.values[:s.limit-1]
	}
	s.values = append(s.values, v)
}

func (s *series) last() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// Sparkline renders values scaled against ceiling; values above it get the
// tallest bar. A non-positive ceiling scales against the largest value.
func Sparkline(values []float64, ceiling float64) string {
	if len(values) == 0 {
		return ""
	}
	if ceiling <= 0 {
		for _, v := range values {
			ceiling = max(ceiling, v)
		}
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if ceiling > 0 && v > 0 {
			idx = min(int(v/ceiling*7), 7)
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}
