package bots

import "github.com/notnil/chess"

const (
	// MateScore is returned for a checkmated position, signed for the winner.
	MateScore = 9999

	infinity = 99999
)

// Evaluator scores a position from White's point of view.
type Evaluator interface {
	Evaluate(pos Position) int
}

// DefaultPieceValues are the classic material values. The king counts for
// nothing since both sides always have one.
var DefaultPieceValues = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   0,
}

// MaterialEvaluator counts material only.
type MaterialEvaluator struct {
	Values map[chess.PieceType]int
}

func (e MaterialEvaluator) Evaluate(pos Position) int {
	if pos.IsCheckmate() {
		if pos.Turn() == chess.White {
			return -MateScore
		}
		return MateScore
	}
	if pos.IsGameOver() {
		return 0
	}

	values := e.Values
	if values == nil {
		values = DefaultPieceValues
	}

	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == chess.NoPiece {
			continue
		}
		if piece.Color() == chess.White {
			score += values[piece.Type()]
		} else {
			score -= values[piece.Type()]
		}
	}
	return score
}
