package bots

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterialEvaluator(t *testing.T) {
	eval := MaterialEvaluator{Values: DefaultPieceValues}

	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"starting position", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 0},
		{"white knight against black queen", queenHangsToKnight, -6},
		{"white queen against black knight", queenHangsToBlackKnight, 6},
		{"rook against three pawns", backRankMateInOne, 2},
		{"white is mated", foolsMate, -MateScore},
		{"black is mated", blackMated, MateScore},
		{"stalemate is a draw", stalemate, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustBoard(t, tt.fen)
			require.Equal(t, tt.want, eval.Evaluate(pos))
			require.Equal(t, tt.want, eval.Evaluate(pos), "Evaluation must be deterministic")
		})
	}

	t.Run("nil values fall back to the defaults", func(t *testing.T) {
		require.Equal(t, -6, MaterialEvaluator{}.Evaluate(mustBoard(t, queenHangsToKnight)))
	})
}
