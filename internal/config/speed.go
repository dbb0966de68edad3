package config

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownSpeed is returned for a speed tier that has no entry in speeds.
var ErrUnknownSpeed = errors.New("config: unknown speed tier")

// SpeedTier names an entry of the speeds table.
type SpeedTier string

const (
	SpeedSlow    SpeedTier = "slow"
	SpeedMedium  SpeedTier = "medium"
	SpeedNormal  SpeedTier = "normal"
	SpeedFast    SpeedTier = "fast"
	SpeedExtreme SpeedTier = "extreme"
)

// BaseSpeed returns the base tick period for a tier.
func (c Config) BaseSpeed(tier SpeedTier) (time.Duration, error) {
	ms, ok := c.Speeds[string(tier)]
	if !ok || ms <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSpeed, tier)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// CurrentSpeed returns the base tick period of the selected tier.
func (c Config) CurrentSpeed() (time.Duration, error) {
	return c.BaseSpeed(c.Speed)
}

// SpeedTiers returns the configured tiers, fastest last.
func (c Config) SpeedTiers() []SpeedTier {
	tiers := make([]SpeedTier, 0, len(c.Speeds))
	for name := range c.Speeds {
		tiers = append(tiers, SpeedTier(name))
	}
	sort.Slice(tiers, func(i, j int) bool {
		a, b := c.Speeds[string(tiers[i])], c.Speeds[string(tiers[j])]
		if a != b {
			return a > b
		}
		return tiers[i] < tiers[j]
	})
	return tiers
}

// NextSpeed cycles to the next tier in SpeedTiers order.
func (c Config) NextSpeed(tier SpeedTier) SpeedTier {
	tiers := c.SpeedTiers()
	if len(tiers) == 0 {
		return tier
	}
	for i, t := range tiers {
		if t == tier {
			return tiers[(i+1)%len(tiers)]
		}
	}
	return tiers[0]
}
