package pipeline

import "time"

// SetClock replaces the clock used for build records.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}
