package bots

import (
	"context"
	"testing"
	"time"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"

	"gochess/board"
)

func TestRandomBot(t *testing.T) {
	ctx := context.Background()

	t.Run("stalemate gives no move", func(t *testing.T) {
		bot := NewRandomBot(time.Second, chess.Black, 1)
		start := time.Now()
		require.Nil(t, bot.BestMove(ctx, mustBoard(t, stalemate)))
		require.Less(t, time.Since(start), time.Second, "No move should not wait for the delay")
	})

	t.Run("picks a legal move after the delay", func(t *testing.T) {
		bot := NewRandomBot(20*time.Millisecond, chess.White, 7)
		pos := board.New()
		start := time.Now()
		got := bot.BestMove(ctx, pos)
		require.NotNil(t, got)
		require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
		require.Contains(t, moveStrings(pos.LegalMoves()), got.String())
	})

	t.Run("same seed gives the same moves", func(t *testing.T) {
		a := NewRandomBot(0, chess.White, 42)
		b := NewRandomBot(0, chess.White, 42)
		pos := board.New()
		for i := 0; i < 5; i++ {
			require.Equal(t, a.BestMove(ctx, pos).String(), b.BestMove(ctx, pos).String())
		}
	})

	t.Run("cancel interrupts the delay", func(t *testing.T) {
		bot := NewRandomBot(time.Hour, chess.White, 1)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		require.Nil(t, bot.BestMove(cancelled, board.New()))
	})
}

func TestNew(t *testing.T) {
	agent, err := New(Spec{Kind: Human}, chess.White)
	require.NoError(t, err)
	require.Nil(t, agent)

	agent, err = New(Spec{Kind: Random, Delay: time.Millisecond}, chess.Black)
	require.NoError(t, err)
	require.IsType(t, &RandomBot{}, agent)
	require.Equal(t, chess.Black, agent.Color())

	agent, err = New(Spec{Kind: Minimax, Depth: 2}, chess.White)
	require.NoError(t, err)
	require.IsType(t, &MinimaxBot{}, agent)

	_, err = New(Spec{Kind: Minimax}, chess.White)
	require.ErrorIs(t, err, ErrInvalidDepth)

	_, err = New(Spec{Kind: Kind(9)}, chess.White)
	require.ErrorIs(t, err, ErrUnknownAgent)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": Human, "none": Human, "Human": Human, "random": Random, " MINIMAX ": Minimax} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
	_, err := ParseKind("stockfish")
	require.ErrorIs(t, err, ErrUnknownAgent)
}
