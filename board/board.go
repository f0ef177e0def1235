// Package board adapts notnil/chess into the position oracle used by the
// bots and the turn scheduler.
package board

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

// ErrIllegalMove is returned when a move is not legal in the current position.
var ErrIllegalMove = errors.New("board: illegal move")

// Board is a chess position with an apply/undo stack. The bottom of the
// stack is the position the board was created with; Push and Pop never
// touch it, so a search that pairs every Push with a Pop leaves the board
// exactly as it found it.
type Board struct {
	stack []*chess.Game
}

// New returns a board set up in the standard starting position.
func New() *Board {
	return &Board{stack: []*chess.Game{chess.NewGame()}}
}

// FromFEN returns a board set up from a FEN string.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("board: parse fen %q: %w", fen, err)
	}
	return &Board{stack: []*chess.Game{chess.NewGame(opt)}}, nil
}

func (b *Board) game() *chess.Game {
	return b.stack[len(b.stack)-1]
}

// Copy returns a snapshot of the current position that another goroutine
// may search while b keeps being read.
//
// chess.Game.Clone shares the current *chess.Position, and that position
// fills its legal move cache on first use. Copy fills the cache here, on the
// caller's goroutine, so every later access to the shared position from
// either board is a read.
func (b *Board) Copy() *Board {
	g := b.game()
	_ = g.ValidMoves()
	return &Board{stack: []*chess.Game{g.Clone()}}
}

// LegalMoves returns the legal moves in the order notnil/chess generates
// them. The order is stable for a given position.
func (b *Board) LegalMoves() []*chess.Move {
	return b.game().ValidMoves()
}

// Push plays m on top of the stack.
func (b *Board) Push(m *chess.Move) error {
	next := b.game().Clone()
	if err := next.Move(m); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, m, err)
	}
	b.stack = append(b.stack, next)
	return nil
}

// Pop undoes the last Push. Popping the base position is a no-op.
func (b *Board) Pop() {
	if len(b.stack) > 1 {
		b.stack[len(b.stack)-1] = nil
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// Depth is the number of pushed moves still on the stack.
func (b *Board) Depth() int {
	return len(b.stack) - 1
}

// Apply commits m to the position in place and reports whether it captured
// a piece. It is meant for the live board, not for search.
func (b *Board) Apply(m *chess.Move) (capture bool, err error) {
	g := b.game()
	if err := g.Move(m); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrIllegalMove, m, err)
	}
	played := b.LastMove()
	return played.HasTag(chess.Capture) || played.HasTag(chess.EnPassant), nil
}

func (b *Board) Turn() chess.Color {
	return b.game().Position().Turn()
}

// IsGameOver reports checkmate, stalemate and the draws notnil/chess
// declares automatically (insufficient material, fivefold repetition,
// seventy-five move rule).
func (b *Board) IsGameOver() bool {
	g := b.game()
	return g.Outcome() != chess.NoOutcome || g.Position().Status() != chess.NoMethod
}

func (b *Board) IsCheckmate() bool {
	g := b.game()
	return g.Method() == chess.Checkmate || g.Position().Status() == chess.Checkmate
}

// InCheck reports whether the side to move is in check. It looks at the
// board itself, so positions loaded from FEN are covered too.
func (b *Board) InCheck() bool {
	turn := b.Turn()
	king, ok := b.KingSquare(turn)
	return ok && b.Attacked(king, turn.Other())
}

var (
	knightJumps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straight    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Attacked reports whether a piece of color by attacks sq.
func (b *Board) Attacked(sq chess.Square, by chess.Color) bool {
	file, rank := int(sq.File()), int(sq.Rank())
	at := func(df, dr int) (chess.Piece, bool) {
		f, r := file+df, rank+dr
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return chess.NoPiece, false
		}
		return b.PieceAt(chess.NewSquare(chess.File(f), chess.Rank(r))), true
	}
	is := func(p chess.Piece, types ...chess.PieceType) bool {
		if p.Color() != by {
			return false
		}
		for _, t := range types {
			if p.Type() == t {
				return true
			}
		}
		return false
	}

	for _, d := range knightJumps {
		if p, ok := at(d[0], d[1]); ok && is(p, chess.Knight) {
			return true
		}
	}
	for _, d := range kingSteps {
		if p, ok := at(d[0], d[1]); ok && is(p, chess.King) {
			return true
		}
	}
	// pawns attack forward, so a white attacker sits one rank below sq
	pawnRank := -1
	if by == chess.Black {
		pawnRank = 1
	}
	for _, df := range []int{-1, 1} {
		if p, ok := at(df, pawnRank); ok && is(p, chess.Pawn) {
			return true
		}
	}

	slide := func(rays [4][2]int, types ...chess.PieceType) bool {
		for _, d := range rays {
			for i := 1; ; i++ {
				p, ok := at(d[0]*i, d[1]*i)
				if !ok {
					break
				}
				if p == chess.NoPiece {
					continue
				}
				if is(p, types...) {
					return true
				}
				break
			}
		}
		return false
	}
	return slide(straight, chess.Rook, chess.Queen) || slide(diagonal, chess.Bishop, chess.Queen)
}

func (b *Board) PieceAt(sq chess.Square) chess.Piece {
	return b.game().Position().Board().Piece(sq)
}

// KingSquare returns the square of c's king, or false if there is none.
func (b *Board) KingSquare(c chess.Color) (chess.Square, bool) {
	board := b.game().Position().Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p.Type() == chess.King && p.Color() == c {
			return sq, true
		}
	}
	return chess.NoSquare, false
}

// LastMove returns the move that produced the current position, if any.
func (b *Board) LastMove() *chess.Move {
	moves := b.game().Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

func (b *Board) Outcome() chess.Outcome {
	return b.game().Outcome()
}

func (b *Board) Method() chess.Method {
	return b.game().Method()
}

func (b *Board) FEN() string {
	return b.game().FEN()
}

// Destinations returns the target squares of the legal moves starting on from.
func (b *Board) Destinations(from chess.Square) []chess.Square {
	var out []chess.Square
	seen := make(map[chess.Square]bool)
	for _, m := range b.LegalMoves() {
		if m.S1() == from && !seen[m.S2()] {
			seen[m.S2()] = true
			out = append(out, m.S2())
		}
	}
	return out
}

// FindMove returns the legal move from -> to. Promotions resolve to a queen.
func (b *Board) FindMove(from, to chess.Square) *chess.Move {
	var found *chess.Move
	for _, m := range b.LegalMoves() {
		if m.S1() != from || m.S2() != to {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen {
			return m
		}
		if found == nil {
			found = m
		}
	}
	return found
}
