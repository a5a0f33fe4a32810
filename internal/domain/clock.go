package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps MapView.GeneratedAt.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the clock behind MapView.GeneratedAt; nil restores the real one.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// generatedAt is the UTC build time at the millisecond precision the feed
// and the marker metadata use, so a MapView and its GeoJSON agree exactly.
func generatedAt() time.Time {
	return clock.Now().UTC().Truncate(time.Millisecond)
}
