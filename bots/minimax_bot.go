package bots

import (
	"context"
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
)

// MinimaxBot searches every line to a fixed depth without pruning and
// scores the leaves with its Evaluator.
type MinimaxBot struct {
	Depth     int
	Evaluator Evaluator
	color     chess.Color
}

func NewMinimaxBot(depth int, color chess.Color) (*MinimaxBot, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	return &MinimaxBot{
		Depth:     depth,
		Evaluator: MaterialEvaluator{Values: DefaultPieceValues},
		color:     color,
	}, nil
}

func (b *MinimaxBot) Name() string {
	return fmt.Sprintf("Minimax Bot (depth %d)", b.Depth)
}

func (b *MinimaxBot) Color() chess.Color {
	return b.color
}

// BestMove returns the root move with the best score for the bot's color.
// Ties keep the first move in the oracle's order.
func (b *MinimaxBot) BestMove(ctx context.Context, pos Position) *chess.Move {
	return decide(b, func() (*chess.Move, error) {
		return b.bestMove(ctx, pos)
	})
}

func (b *MinimaxBot) bestMove(ctx context.Context, pos Position) (*chess.Move, error) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil, nil
	}

	start := time.Now()
	s := &search{eval: b.Evaluator}
	white := b.color == chess.White

	// The bot plays the root ply, so the next ply belongs to the opponent.
	bestScore := infinity
	if white {
		bestScore = -infinity
	}
	var bestMove *chess.Move

	for _, move := range moves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := withMove(pos, move, func() (int, error) {
			return s.minimax(pos, b.Depth-1, !white)
		})
		if err != nil {
			return nil, err
		}
		if (white && score > bestScore) || (!white && score < bestScore) {
			bestScore = score
			bestMove = move
		}
	}

	log.Debug().
		Str("bot", b.Name()).
		Str("color", b.color.Name()).
		Stringer("move", bestMove).
		Int("score", bestScore).
		Int("nodes", s.nodes).
		Dur("took", time.Since(start)).
		Msg("search finished")
	return bestMove, nil
}

// Search returns the minimax score of pos searched depth plies deep.
func (b *MinimaxBot) Search(pos Position, depth int, maximizing bool) (int, error) {
	s := &search{eval: b.Evaluator}
	return s.minimax(pos, depth, maximizing)
}

type search struct {
	eval  Evaluator
	nodes int
}

func (s *search) minimax(pos Position, depth int, maximizing bool) (int, error) {
	s.nodes++
	if depth <= 0 || pos.IsGameOver() {
		return s.eval.Evaluate(pos), nil
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		log.Debug().Int("depth", depth).Msg("live position without legal moves, scoring it as a leaf")
		return s.eval.Evaluate(pos), nil
	}

	best := infinity
	if maximizing {
		best = -infinity
	}
	for _, move := range moves {
		score, err := withMove(pos, move, func() (int, error) {
			return s.minimax(pos, depth-1, !maximizing)
		})
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best, nil
}

// withMove plays move, runs fn and always takes the move back.
func withMove(pos Position, move *chess.Move, fn func() (int, error)) (int, error) {
	if err := pos.Push(move); err != nil {
		return 0, err
	}
	defer pos.Pop()
	return fn()
}
