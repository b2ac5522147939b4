package app

import (
	"context"
	"time"
)

// DefaultMinutesPerQuestion sizes the shared budget. The budget covers the
// whole attempt, not each question: a student who answers early questions
// quickly banks the saved time for later ones.
const DefaultMinutesPerQuestion = 2

// TickInterval is the real-time cadence of the countdown.
const TickInterval = time.Second

// Budget computes the initial shared time budget in seconds.
func Budget(questionCount, minutesPerQuestion int) int {
	if minutesPerQuestion <= 0 {
		minutesPerQuestion = DefaultMinutesPerQuestion
	}
	return questionCount * minutesPerQuestion * 60
}

// RunTicker drives tick once per interval until the context is canceled or
// tick reports it is done. It is the production tick source; tests call
// Session.Tick directly for determinism.
func RunTicker(ctx context.Context, interval time.Duration, tick func() bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if tick() {
				return
			}
		}
	}
}
