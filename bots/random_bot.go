package bots

import (
	"context"
	"time"

	"github.com/notnil/chess"
	"golang.org/x/exp/rand"
)

// RandomBot plays a uniformly random legal move after a fixed pause.
type RandomBot struct {
	Delay time.Duration
	color chess.Color
	rng   *rand.Rand
}

func NewRandomBot(delay time.Duration, color chess.Color, seed uint64) *RandomBot {
	return &RandomBot{
		Delay: delay,
		color: color,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}

func (b *RandomBot) Color() chess.Color {
	return b.color
}

func (b *RandomBot) BestMove(ctx context.Context, pos Position) *chess.Move {
	return decide(b, func() (*chess.Move, error) {
		moves := pos.LegalMoves()
		if len(moves) == 0 {
			return nil, nil
		}
		move := moves[b.rng.Intn(len(moves))]

		if b.Delay > 0 {
			timer := time.NewTimer(b.Delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return move, nil
	})
}
