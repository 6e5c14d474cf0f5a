package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// CurrentProfileVersion is bumped whenever the profile layout or the meaning
// of a threshold changes; older profiles are ignored.
const CurrentProfileVersion = 1

// Profile records measured crossovers for one machine and modulus.
type Profile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`
	NumCPU         int       `json:"num_cpu"`
	GOARCH         string    `json:"goarch"`
	GOOS           string    `json:"goos"`
	GoVersion      string    `json:"go_version"`
	WordSize       int       `json:"word_size"`

	Modulus             uint64 `json:"modulus"`
	SchoolbookThreshold int    `json:"schoolbook_threshold"`
	HornerThreshold     int    `json:"horner_threshold"`
	CalibrationTime     string `json:"calibration_time"`
}

// NewProfile returns a profile stamped with the current machine.
func NewProfile() *Profile {
	return &Profile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// SaveProfile writes p as indented JSON, creating parent directories.
func (p *Profile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// LoadProfile reads a profile written by SaveProfile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// IsValid reports whether p was measured on a machine like this one, for
// the given modulus, with the current layout.
func (p *Profile) IsValid(modulus uint64) bool {
	return p.ProfileVersion == CurrentProfileVersion &&
		p.Modulus == modulus &&
		p.GOARCH == runtime.GOARCH &&
		p.NumCPU == runtime.NumCPU()
}
