package coach

import "time"

const (
	DefaultRoadmapDelay   = 800 * time.Millisecond
	DefaultFollowUpDelay  = 1000 * time.Millisecond
	DefaultFarewellDelay  = 600 * time.Millisecond
	DefaultCloseDelay     = 3000 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds the session timings.
type Config struct {
	RoadmapDelay   time.Duration `mapstructure:"roadmap-delay"`
	FollowUpDelay  time.Duration `mapstructure:"follow-up-delay"`
	FarewellDelay  time.Duration `mapstructure:"farewell-delay"`
	CloseDelay     time.Duration `mapstructure:"close-delay"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
}

func DefaultConfig() Config {
	return Config{
		RoadmapDelay:   DefaultRoadmapDelay,
		FollowUpDelay:  DefaultFollowUpDelay,
		FarewellDelay:  DefaultFarewellDelay,
		CloseDelay:     DefaultCloseDelay,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// withDefaults replaces negative delays and a non-positive request timeout with defaults.
// Zero delays are kept.
func (c Config) withDefaults() Config {
	if c.RoadmapDelay < 0 {
		c.RoadmapDelay = DefaultRoadmapDelay
	}
	if c.FollowUpDelay < 0 {
		c.FollowUpDelay = DefaultFollowUpDelay
	}
	if c.FarewellDelay < 0 {
		c.FarewellDelay = DefaultFarewellDelay
	}
	if c.CloseDelay < 0 {
		c.CloseDelay = DefaultCloseDelay
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}
