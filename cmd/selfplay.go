package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/notnil/chess"
	"github.com/spf13/cobra"

	"gochess/scheduler"
)

var errNeedsBots = errors.New("selfplay: both sides must be played by bots")

func SelfPlay() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Let two bots play each other without a window",
		Long: heredoc.Doc(`
			selfplay runs the same turn scheduler as the window, ticking it on a
			timer instead of a frame loop, and prints every move as it is played.
			Both sides use the configured opponent unless white or black is set
			in the config file.
		`),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("mode") {
				_ = cmd.Flags().Set("mode", "eve")
			}
			m, err := newMatch(cmd)
			if err != nil {
				return err
			}
			s := m.sched
			defer s.Close()
			if s.Agent(chess.White) == nil || s.Agent(chess.Black) == nil {
				return errNeedsBots
			}

			maxPlies, _ := cmd.Flags().GetInt("max-plies")
			out := cmd.OutOrStdout()
			live := s.Board()

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			defer sp.Stop()

			moves := 0
			interval := time.Second / time.Duration(m.cfg.TPS)
			_, err = s.Play(cmd.Context(), interval, maxPlies, func(ev scheduler.Event, moved bool) {
				if !moved {
					if s.Thinking() && !sp.Active() {
						sp.Suffix = fmt.Sprintf(" %s (%s) is thinking", s.Agent(live.Turn()).Name(), live.Turn().Name())
						sp.Start()
					}
					return
				}
				sp.Stop()
				moves++
				mark := ""
				if ev.Capture {
					mark = " x"
				}
				fmt.Fprintf(out, "%3d. %s %s%s\n", (moves+1)/2, colorName(ev.Color), ev.Move, mark)
			})
			sp.Stop()
			if err != nil {
				return err
			}

			switch {
			case s.Stalled():
				fmt.Fprintf(out, "stalled: %s produced no move\n", s.Agent(live.Turn()).Name())
			case live.IsGameOver():
				fmt.Fprintf(out, "result: %s (%v)\n", live.Outcome(), live.Method())
			default:
				fmt.Fprintf(out, "stopped after %d plies\n", moves)
			}
			fmt.Fprintln(out, live.FEN())
			return nil
		},
	}

	cmd.Flags().Int("max-plies", 0, "Stop after this many plies (0 plays to the end)")
	return cmd
}
