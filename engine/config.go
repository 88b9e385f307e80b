package engine

// Config is the engine's immutable configuration, fixed at construction.
type Config struct {
	// MaxRetries bounds selection attempts per gap.
	MaxRetries int
	// CausalScoreFloor is the acceptance floor for the causal validation
	// score. A hypothesis scoring below it is discarded outright; low
	// scores do not trigger a retry with a different candidate.
	CausalScoreFloor float64
	// GapConcurrency is the number of gaps processed at once. At 1 gaps
	// run strictly sequentially; higher values fan out across gaps while
	// keeping per-gap provenance ordering intact.
	GapConcurrency int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:       3,
		CausalScoreFloor: 0.5,
		GapConcurrency:   1,
	}
}

// normalized clamps nonsensical values to the defaults.
func (c Config) normalized() Config {
	if c.MaxRetries < 1 {
		c.MaxRetries = DefaultConfig().MaxRetries
	}
	if c.GapConcurrency < 1 {
		c.GapConcurrency = 1
	}
	return c
}
