package playback

import (
	"fmt"

	"github.com/metcalfc/pacer/internal/pacing"
	"github.com/metcalfc/pacer/internal/segment"
)

// Config holds the grouping and rate used to build and pace units.
type Config struct {
	Mode           segment.Mode
	GroupSize      int
	WordsPerMinute int
}

// DefaultConfig returns single words at 300 words per minute.
func DefaultConfig() Config {
	return Config{
		Mode:           segment.WordGroups,
		GroupSize:      1,
		WordsPerMinute: 300,
	}
}

// Validate rejects configurations that cannot be segmented or paced.
func (c Config) Validate() error {
	switch c.Mode {
	case segment.WordGroups, segment.SentenceGroups:
	default:
		return &ConfigError{Field: "mode", Value: int(c.Mode)}
	}
	if c.GroupSize < 1 {
		return &ConfigError{Field: "group_size", Value: c.GroupSize, Cause: segment.ErrInvalidGroupSize}
	}
	if c.WordsPerMinute <= 0 {
		return &ConfigError{Field: "wpm", Value: c.WordsPerMinute, Cause: pacing.ErrInvalidRate}
	}
	return nil
}

// String formats the config for logs and status lines.
func (c Config) String() string {
	return fmt.Sprintf("%d %s @ %d wpm", c.GroupSize, c.Mode, c.WordsPerMinute)
}

// sameGrouping reports whether two configs produce the same unit sequence.
func (c Config) sameGrouping(o Config) bool {
	return c.Mode == o.Mode && c.GroupSize == o.GroupSize
}
