// Package bots holds the move-deciding agents: a random mover and a plain
// fixed-depth minimax searcher over a material evaluation.
package bots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidDepth = errors.New("bots: search depth must be at least 1")
	ErrUnknownAgent = errors.New("bots: unknown agent kind")
)

// Position is the oracle an agent reads. Every Push must be matched by a
// Pop before the agent returns. *board.Board satisfies it.
type Position interface {
	LegalMoves() []*chess.Move
	Push(m *chess.Move) error
	Pop()
	Turn() chess.Color
	IsGameOver() bool
	IsCheckmate() bool
	PieceAt(sq chess.Square) chess.Piece
}

// Agent picks a move for its color. BestMove returns nil when there is no
// legal move or when the computation failed; it never panics.
type Agent interface {
	BestMove(ctx context.Context, pos Position) *chess.Move
	Name() string
	Color() chess.Color
}

// Kind selects an agent variant. Human means no agent.
type Kind int

const (
	Human Kind = iota
	Random
	Minimax
)

func (k Kind) String() string {
	switch k {
	case Human:
		return "human"
	case Random:
		return "random"
	case Minimax:
		return "minimax"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "human", "none":
		return Human, nil
	case "random":
		return Random, nil
	case "minimax":
		return Minimax, nil
	}
	return Human, fmt.Errorf("%w: %q", ErrUnknownAgent, s)
}

// Spec configures one side of a game.
type Spec struct {
	Kind  Kind
	Depth int
	Delay time.Duration
}

// New builds the agent described by spec for color. A Human spec yields a
// nil agent and no error.
func New(spec Spec, color chess.Color) (Agent, error) {
	switch spec.Kind {
	case Human:
		return nil, nil
	case Random:
		return NewRandomBot(spec.Delay, color, uint64(time.Now().UnixNano())), nil
	case Minimax:
		bot, err := NewMinimaxBot(spec.Depth, color)
		if err != nil {
			return nil, err
		}
		return bot, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, spec.Kind)
}

// decide runs fn and turns errors and panics into a nil move.
func decide(a Agent, fn func() (*chess.Move, error)) (move *chess.Move) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("bot", a.Name()).
				Str("color", a.Color().Name()).
				Interface("panic", r).
				Msg("bot crashed while choosing a move")
			move = nil
		}
	}()

	move, err := fn()
	if err != nil {
		ev := log.Error()
		if errors.Is(err, context.Canceled) {
			ev = log.Debug()
		}
		ev.Err(err).Str("bot", a.Name()).Str("color", a.Color().Name()).Msg("bot produced no move")
		return nil
	}
	return move
}
