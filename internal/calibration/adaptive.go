package calibration

import "runtime"

// DefaultSizes returns the operand sizes measured by a full calibration.
// Machines with more cores get one larger probe, since the transform path
// benefits from the larger caches they usually come with.
func DefaultSizes() []int {
	sizes := []int{8, 16, 24, 32, 48, 64, 96, 128, 192, 256}
	if runtime.NumCPU() >= 8 {
		sizes = append(sizes, 384)
	}
	return sizes
}

// QuickSizes is a reduced probe set for tests and fast startups.
func QuickSizes() []int {
	return []int{8, 32, 128}
}

// pickThreshold returns the largest probed size at or below which the direct
// method is no slower than the transform method, scanning upward and stopping
// at the first size where the transform wins twice in a row. If the transform
// already wins at the smallest size, it returns -1 (always transform).
func pickThreshold(ms []Measurement) int {
	best := -1
	losses := 0
	for _, m := range ms {
		if m.Direct <= m.Transform {
			best = m.Size
			losses = 0
			continue
		}
		losses++
		if losses == 2 {
			break
		}
	}
	return best
}
