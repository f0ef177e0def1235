package bots

import (
	"context"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"

	"gochess/board"
)

const (
	queenHangsToKnight      = "4k3/p7/8/3q4/8/4N3/P7/4K3 w - - 0 1"
	queenHangsToBlackKnight = "4k3/p7/4n3/8/3Q4/8/P7/4K3 b - - 0 1"
	backRankMateInOne       = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	foolsMate               = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	blackMated              = "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1"
	stalemate               = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func mustBoard(t *testing.T, fen string) *board.Board {
	t.Helper()
	b, err := board.FromFEN(fen)
	require.NoError(t, err)
	return b
}

func mustMinimax(t *testing.T, depth int, color chess.Color) *MinimaxBot {
	t.Helper()
	bot, err := NewMinimaxBot(depth, color)
	require.NoError(t, err)
	return bot
}

func moveStrings(moves []*chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func TestNewMinimaxBot(t *testing.T) {
	_, err := NewMinimaxBot(0, chess.White)
	require.ErrorIs(t, err, ErrInvalidDepth)

	bot := mustMinimax(t, 3, chess.Black)
	require.Equal(t, "Minimax Bot (depth 3)", bot.Name())
	require.Equal(t, chess.Black, bot.Color())
}

func TestSearch(t *testing.T) {
	eval := MaterialEvaluator{Values: DefaultPieceValues}

	t.Run("depth zero is the evaluation", func(t *testing.T) {
		bot := mustMinimax(t, 1, chess.White)
		for _, fen := range []string{queenHangsToKnight, backRankMateInOne, foolsMate, stalemate} {
			pos := mustBoard(t, fen)
			for _, maximizing := range []bool{true, false} {
				score, err := bot.Search(pos, 0, maximizing)
				require.NoError(t, err)
				require.Equal(t, eval.Evaluate(pos), score, fen)
			}
		}
	})

	t.Run("mated positions return the sentinel at any depth", func(t *testing.T) {
		bot := mustMinimax(t, 1, chess.White)
		white := mustBoard(t, foolsMate)
		black := mustBoard(t, blackMated)
		for depth := 0; depth <= 3; depth++ {
			score, err := bot.Search(white, depth, true)
			require.NoError(t, err)
			require.Equal(t, -MateScore, score)

			score, err = bot.Search(black, depth, false)
			require.NoError(t, err)
			require.Equal(t, MateScore, score)
		}
	})

	t.Run("position is restored after searching", func(t *testing.T) {
		bot := mustMinimax(t, 1, chess.White)
		pos := mustBoard(t, queenHangsToKnight)
		fen := pos.FEN()
		moves := moveStrings(pos.LegalMoves())

		_, err := bot.Search(pos, 3, true)
		require.NoError(t, err)

		require.Equal(t, fen, pos.FEN())
		require.Equal(t, moves, moveStrings(pos.LegalMoves()))
		require.Equal(t, chess.White, pos.Turn())
		require.Equal(t, 0, pos.Depth())
	})

	t.Run("every node is visited without pruning", func(t *testing.T) {
		s := &search{eval: eval}
		_, err := s.minimax(board.New(), 2, true)
		require.NoError(t, err)
		// root + 20 replies + 400 leaves
		require.Equal(t, 421, s.nodes)
	})
}

func TestMinimaxBestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("opening ties keep the first legal move", func(t *testing.T) {
		for _, depth := range []int{1, 2} {
			pos := board.New()
			got := mustMinimax(t, depth, chess.White).BestMove(ctx, pos)
			require.NotNil(t, got)
			require.Equal(t, pos.LegalMoves()[0].String(), got.String(), "depth %d", depth)
		}
	})

	t.Run("white knight takes the undefended queen", func(t *testing.T) {
		for _, depth := range []int{1, 2} {
			got := mustMinimax(t, depth, chess.White).BestMove(ctx, mustBoard(t, queenHangsToKnight))
			require.NotNil(t, got)
			require.Equal(t, "e3d5", got.String(), "depth %d", depth)
		}
	})

	t.Run("black knight takes the undefended queen", func(t *testing.T) {
		got := mustMinimax(t, 1, chess.Black).BestMove(ctx, mustBoard(t, queenHangsToBlackKnight))
		require.NotNil(t, got)
		require.Equal(t, "e6d4", got.String())
	})

	t.Run("mate in one is found", func(t *testing.T) {
		got := mustMinimax(t, 2, chess.White).BestMove(ctx, mustBoard(t, backRankMateInOne))
		require.NotNil(t, got)
		require.Equal(t, "a1a8", got.String())
	})

	t.Run("same position gives the same move", func(t *testing.T) {
		bot := mustMinimax(t, 2, chess.White)
		pos := mustBoard(t, queenHangsToKnight)
		first := bot.BestMove(ctx, pos)
		for i := 0; i < 3; i++ {
			require.Equal(t, first.String(), bot.BestMove(ctx, pos).String())
		}
	})

	t.Run("no legal moves gives no move", func(t *testing.T) {
		require.Nil(t, mustMinimax(t, 2, chess.Black).BestMove(ctx, mustBoard(t, stalemate)))
		require.Nil(t, mustMinimax(t, 2, chess.White).BestMove(ctx, mustBoard(t, foolsMate)))
	})

	t.Run("cancelled context gives no move", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		require.Nil(t, mustMinimax(t, 1, chess.White).BestMove(cancelled, board.New()))
	})
}

// movelessPosition claims to be live but has no legal moves.
type movelessPosition struct {
	*board.Board
}

func (movelessPosition) LegalMoves() []*chess.Move { return nil }
func (movelessPosition) IsGameOver() bool          { return false }

// rejectingPosition refuses every move.
type rejectingPosition struct {
	*board.Board
}

func (rejectingPosition) Push(*chess.Move) error { return board.ErrIllegalMove }

// explodingPosition panics when a piece is looked up.
type explodingPosition struct {
	*board.Board
}

func (explodingPosition) PieceAt(chess.Square) chess.Piece { panic("broken board") }

func TestOracleFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("live node without moves is a leaf", func(t *testing.T) {
		pos := movelessPosition{mustBoard(t, queenHangsToKnight)}
		score, err := mustMinimax(t, 1, chess.White).Search(pos, 3, true)
		require.NoError(t, err)
		require.Equal(t, -6, score)
	})

	t.Run("rejected move gives no move", func(t *testing.T) {
		pos := rejectingPosition{board.New()}
		require.Nil(t, mustMinimax(t, 2, chess.White).BestMove(ctx, pos))
	})

	t.Run("panic gives no move", func(t *testing.T) {
		pos := explodingPosition{board.New()}
		require.NotPanics(t, func() {
			require.Nil(t, mustMinimax(t, 1, chess.White).BestMove(ctx, pos))
		})
	})
}
