package scheduler

import (
	"context"
	"time"

	"github.com/notnil/chess"
)

// Play drives the scheduler from a ticker instead of a frame loop until
// the game ends, a bot stalls, maxPlies moves were committed (0 means no
// limit), ctx is done or the scheduler is closed. onTick, if set, is called after every tick. Both
// sides must be bots.
func (s *Scheduler) Play(ctx context.Context, interval time.Duration, maxPlies int, onTick func(ev Event, moved bool)) (int, error) {
	if s.agents[chess.White] == nil || s.agents[chess.Black] == nil {
		return 0, ErrNoAgent
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	plies := 0
	for !s.live.IsGameOver() && !s.stalled && (maxPlies <= 0 || plies < maxPlies) {
		select {
		case <-ctx.Done():
			return plies, ctx.Err()
		case <-s.ctx.Done():
			return plies, s.ctx.Err()
		case <-ticker.C:
		}

		ev, moved := s.Tick()
		if moved {
			plies++
		}
		if onTick != nil {
			onTick(ev, moved)
		}
	}
	return plies, nil
}
