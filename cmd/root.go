package cmd

import (
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"gochess/board"
	"gochess/bots"
	"gochess/config"
	"gochess/game"
	"gochess/scheduler"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "gochess",
		Short: "Play chess against a minimax or random bot",
		Long: heredoc.Doc(`
			gochess opens a chess board where each side is played either by a
			human or by a bot. The minimax bot searches every line to a fixed
			depth and counts material; the random bot picks any legal move.

			Keys: F flips the board, R retries a bot that produced no move.
		`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				zerolog.SetGlobalLevel(zerolog.TraceLevel)
			} else if cmd.Flag("debug").Changed {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMatch(cmd)
			if err != nil {
				return err
			}
			return game.Run(m.sched, game.Options{
				Title:  "gochess",
				Width:  m.cfg.Window.Width,
				Height: m.cfg.Window.Height,
				TPS:    m.cfg.TPS,
				Flip:   m.flip,
			})
		},
	}

	flags := root.PersistentFlags()
	flags.BoolP("help", "h", false, "Show Help Information")
	flags.BoolP("trace", "t", false, "Show Trace Information")
	flags.BoolP("debug", "d", false, "Show Debug Information")
	flags.StringP("config", "c", "", "Config file (default: $XDG_CONFIG_HOME/"+config.File+")")
	flags.String("mode", "", "Game mode: pvp, pve or eve")
	flags.String("side", "", "Human side in pve: w, b or r")
	flags.String("opponent", "", "Bot kind: random or minimax")
	flags.Int("depth", 0, "Minimax search depth")
	flags.Duration("delay", 0, "Random bot thinking delay")
	flags.String("fen", "", "Starting position")
	flags.Bool("strict", false, "Panic on scheduling misuse")

	root.AddCommand(SelfPlay())
	return root
}

// match is everything needed to play one game.
type match struct {
	cfg   config.Config
	sched *scheduler.Scheduler
	flip  bool
}

func newMatch(cmd *cobra.Command) (*match, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("mode") {
		cfg.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("side") {
		cfg.Side, _ = flags.GetString("side")
	}
	if flags.Changed("opponent") {
		cfg.Opponent.Kind, _ = flags.GetString("opponent")
	}
	if flags.Changed("depth") {
		cfg.Opponent.Depth, _ = flags.GetInt("depth")
	}
	if flags.Changed("delay") {
		cfg.Opponent.Delay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("fen") {
		cfg.FEN, _ = flags.GetString("fen")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	whiteSpec, blackSpec, err := cfg.Seats(rng)
	if err != nil {
		return nil, err
	}
	white, black, err := config.Agents(whiteSpec, blackSpec)
	if err != nil {
		return nil, err
	}

	live := board.New()
	if cfg.FEN != "" {
		if live, err = board.FromFEN(cfg.FEN); err != nil {
			return nil, err
		}
	}

	s := scheduler.New(live, white, black)
	s.Strict = cfg.Strict

	log.Info().
		Str("mode", cfg.Mode).
		Str("white", seatName(white)).
		Str("black", seatName(black)).
		Str("fen", live.FEN()).
		Msg("new game")

	return &match{
		cfg:   cfg,
		sched: s,
		// Humans playing Black alone see the board from their side.
		flip: white != nil && black == nil,
	}, nil
}

func seatName(a bots.Agent) string {
	if a == nil {
		return "human"
	}
	return a.Name()
}

func colorName(c chess.Color) string {
	return fmt.Sprintf("%-5s", c.Name())
}
