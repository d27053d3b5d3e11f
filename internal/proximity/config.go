package proximity

import "proximity-pay/internal/pkg/errs"

var ErrInvalidConfig = errs.New("invalid proximity config")

// Config holds the gate parameters. RSSI values are in dBm; larger (closer
// to zero) means stronger.
type Config struct {
	// Window is the number of most recent samples kept per candidate.
	Window int
	// RequiredSamples is how many samples in the window must be strong.
	RequiredSamples int
	// StrongThreshold: a sample is strong when rssi > StrongThreshold.
	StrongThreshold int
	// MinAverage: the window average must be > MinAverage.
	MinAverage int
	// MaxCandidates caps tracked candidates; the least recently observed
	// one is evicted when a new candidate arrives at the cap.
	MaxCandidates int
}

func DefaultConfig() Config {
	return Config{
		Window:          5,
		RequiredSamples: 5,
		StrongThreshold: -40,
		MinAverage:      -35,
		MaxCandidates:   64,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Window < 1:
		return errs.Wrap(ErrInvalidConfig, "window must be at least 1")
	case c.RequiredSamples < 1 || c.RequiredSamples > c.Window:
		return errs.Wrapf(ErrInvalidConfig, "required samples must be between 1 and window (%d)", c.Window)
	case c.MaxCandidates < 1:
		return errs.Wrap(ErrInvalidConfig, "max candidates must be at least 1")
	}
	return nil
}
