// Package scheduler runs agent decisions off the interactive loop and
// applies their moves back onto the live board.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"gochess/board"
	"gochess/bots"
)

var (
	ErrDecisionPending = errors.New("scheduler: a decision is already pending")
	ErrNotHumanTurn    = errors.New("scheduler: not a human turn")
	ErrNoAgent         = errors.New("scheduler: side to move has no agent")
)

type State int

const (
	Idle State = iota
	AgentThinking
	MoveReady
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AgentThinking:
		return "thinking"
	case MoveReady:
		return "move ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event is emitted every time a move is committed to the live board.
type Event struct {
	Move    *chess.Move
	Color   chess.Color
	Capture bool
}

type decision struct {
	color chess.Color
	agent bots.Agent
	done  <-chan singleflight.Result
	start time.Time
}

// Scheduler owns the live board. All methods must be called from the same
// goroutine, the one driving the frame loop; only the agents run elsewhere,
// each on its own copy of the position.
type Scheduler struct {
	// Strict turns scheduling misuse into a panic instead of an error.
	Strict bool

	live    *board.Board
	agents  map[chess.Color]bots.Agent
	flight  singleflight.Group
	pending *decision
	state   State
	stalled bool

	launches int

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a scheduler for live. A nil agent marks a human side.
func New(live *board.Board, white, black bots.Agent) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		live: live,
		agents: map[chess.Color]bots.Agent{
			chess.White: white,
			chess.Black: black,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) Board() *board.Board {
	return s.live
}

func (s *Scheduler) Agent(c chess.Color) bots.Agent {
	return s.agents[c]
}

func (s *Scheduler) State() State {
	return s.state
}

// Thinking reports whether a decision is in flight.
func (s *Scheduler) Thinking() bool {
	return s.pending != nil
}

// Stalled reports that an agent returned no move although the game is not
// over. The scheduler stays put until Retry is called.
func (s *Scheduler) Stalled() bool {
	return s.stalled
}

// Launches is the number of decisions started so far.
func (s *Scheduler) Launches() int {
	return s.launches
}

// HumanTurn reports whether a human may move right now.
func (s *Scheduler) HumanTurn() bool {
	return s.pending == nil && !s.live.IsGameOver() && s.agents[s.live.Turn()] == nil
}

// Tick advances the state machine by one frame. It never blocks. When a
// move was committed during this frame the event is returned with true.
func (s *Scheduler) Tick() (Event, bool) {
	if s.pending != nil {
		select {
		case res := <-s.pending.done:
			return s.finish(res)
		default:
			return Event{}, false
		}
	}

	if s.stalled || s.ctx.Err() != nil || s.live.IsGameOver() || s.agents[s.live.Turn()] == nil {
		return Event{}, false
	}
	if err := s.Start(); err != nil {
		log.Error().Err(err).Msg("could not start decision")
	}
	return Event{}, false
}

// Start launches a decision for the side to move on a copy of the live
// board. Only one decision may be in flight; a second call while one is
// pending changes nothing and returns ErrDecisionPending.
func (s *Scheduler) Start() error {
	if s.pending != nil {
		log.Error().
			Str("color", s.pending.color.Name()).
			Msg("decision requested while another one is pending")
		if s.Strict {
			panic(ErrDecisionPending)
		}
		return ErrDecisionPending
	}

	color := s.live.Turn()
	agent := s.agents[color]
	if agent == nil {
		return ErrNoAgent
	}

	snapshot := s.live.Copy()
	ctx := s.ctx
	done := s.flight.DoChan(color.String(), func() (interface{}, error) {
		return agent.BestMove(ctx, snapshot), nil
	})

	s.pending = &decision{color: color, agent: agent, done: done, start: time.Now()}
	s.launches++
	s.setState(AgentThinking)
	log.Debug().Str("bot", agent.Name()).Str("color", color.Name()).Msg("bot is thinking")
	return nil
}

func (s *Scheduler) finish(res singleflight.Result) (Event, bool) {
	d := s.pending
	s.pending = nil

	move, _ := res.Val.(*chess.Move)
	if res.Err != nil || move == nil {
		s.setState(Idle)
		switch {
		case s.ctx.Err() != nil:
			log.Debug().Str("bot", d.agent.Name()).Msg("decision cancelled")
		case !s.live.IsGameOver():
			s.stall(d, res.Err)
		}
		return Event{}, false
	}

	s.setState(MoveReady)
	capture, err := s.live.Apply(move)
	if err != nil {
		s.setState(Idle)
		s.stall(d, err)
		return Event{}, false
	}

	log.Info().
		Str("bot", d.agent.Name()).
		Str("color", d.color.Name()).
		Stringer("move", move).
		Bool("capture", capture).
		Dur("took", time.Since(d.start)).
		Msg("bot moved")
	s.setState(Idle)
	return Event{Move: move, Color: d.color, Capture: capture}, true
}

func (s *Scheduler) stall(d *decision, err error) {
	s.stalled = true
	log.Warn().
		Err(err).
		Str("bot", d.agent.Name()).
		Str("color", d.color.Name()).
		Str("fen", s.live.FEN()).
		Msg("bot produced no move in a live position, halting until retry")
}

// Retry clears a stall so the next Tick starts a fresh decision.
func (s *Scheduler) Retry() {
	s.stalled = false
}

// ApplyHuman commits a human move. It is refused while a decision is in
// flight or when the side to move belongs to an agent.
func (s *Scheduler) ApplyHuman(move *chess.Move) (Event, error) {
	if !s.HumanTurn() {
		return Event{}, ErrNotHumanTurn
	}
	color := s.live.Turn()
	capture, err := s.live.Apply(move)
	if err != nil {
		return Event{}, err
	}
	return Event{Move: move, Color: color, Capture: capture}, nil
}

// Close cancels any decision still running and stops new ones from being
// launched. A cancelled decision is discarded without stalling.
func (s *Scheduler) Close() {
	s.cancel()
}

func (s *Scheduler) setState(st State) {
	if s.state != st {
		log.Trace().Stringer("from", s.state).Stringer("to", st).Msg("scheduler state")
	}
	s.state = st
}
