// Package game is the ebiten front end: it draws the board, turns mouse
// input into human moves and drives the turn scheduler once per frame.
package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"gochess/board"
	"gochess/scheduler"
)

type Options struct {
	Title  string
	Width  int
	Height int
	TPS    int
	// Flip draws the board from Black's side.
	Flip bool
}

type Game struct {
	sched *scheduler.Scheduler
	board *board.Board
	sound *cue

	pieces map[chess.Piece]*ebiten.Image

	width, height int
	squareSize    int
	boardOffsetX  int
	boardOffsetY  int
	flip          bool

	selected        chess.Square
	hints           []chess.Square
	dragging        bool
	clickedSelected bool
	dragX, dragY    int
}

func New(s *scheduler.Scheduler, opts Options) *Game {
	g := &Game{
		sched:    s,
		board:    s.Board(),
		sound:    newCue(),
		pieces:   make(map[chess.Piece]*ebiten.Image),
		flip:     opts.Flip,
		selected: chess.NoSquare,
	}
	g.relayout(opts.Width, opts.Height)
	return g
}

// Run opens the window and blocks until it is closed.
func Run(s *scheduler.Scheduler, opts Options) error {
	defer s.Close()
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizable(true)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	return ebiten.RunGame(New(s, opts))
}

func (g *Game) relayout(w, h int) {
	g.width, g.height = w, h
	g.squareSize = min(w, h) / 8
	g.boardOffsetX = (w - g.squareSize*8) / 2
	g.boardOffsetY = (h - g.squareSize*8) / 2
	g.renderPieces()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.flip = !g.flip
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.sched.Stalled() {
		log.Info().Msg("retrying stalled bot")
		g.sched.Retry()
	}

	if g.sched.HumanTurn() {
		g.handleMouse()
	}

	if ev, ok := g.sched.Tick(); ok {
		g.onMove(ev)
	}
	return nil
}

func (g *Game) handleMouse() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleClick(ebiten.CursorPosition())
	}
	if g.dragging {
		g.dragX, g.dragY = ebiten.CursorPosition()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.handleRelease(ebiten.CursorPosition())
	}
}

func (g *Game) handleClick(x, y int) {
	sq, ok := g.squareAt(x, y)
	if !ok {
		g.deselect()
		return
	}

	if g.selected != chess.NoSquare && containsSquare(g.hints, sq) {
		g.execute(g.selected, sq)
		return
	}

	piece := g.board.PieceAt(sq)
	if piece == chess.NoPiece || piece.Color() != g.board.Turn() {
		g.deselect()
		return
	}
	g.clickedSelected = g.selected == sq
	g.selected = sq
	g.hints = g.board.Destinations(sq)
	g.dragging = true
	g.dragX, g.dragY = x, y
}

func (g *Game) handleRelease(x, y int) {
	if !g.dragging {
		return
	}
	g.dragging = false
	sq, ok := g.squareAt(x, y)
	if ok && sq != g.selected && containsSquare(g.hints, sq) {
		g.execute(g.selected, sq)
		return
	}
	if g.clickedSelected {
		g.deselect()
	}
}

func (g *Game) execute(from, to chess.Square) {
	move := g.board.FindMove(from, to)
	if move == nil {
		g.deselect()
		return
	}
	ev, err := g.sched.ApplyHuman(move)
	if err != nil {
		log.Error().Err(err).Stringer("move", move).Msg("human move rejected")
		g.deselect()
		return
	}
	g.onMove(ev)
}

func (g *Game) onMove(ev scheduler.Event) {
	g.sound.play(ev.Capture)
	g.deselect()
	if g.board.IsGameOver() {
		log.Info().
			Str("result", string(g.board.Outcome())).
			Str("method", fmt.Sprint(g.board.Method())).
			Msg("game over")
	}
}

func (g *Game) deselect() {
	g.selected = chess.NoSquare
	g.hints = nil
	g.dragging = false
	g.clickedSelected = false
}

// squareAt maps window coordinates to a board square.
func (g *Game) squareAt(x, y int) (chess.Square, bool) {
	x -= g.boardOffsetX
	y -= g.boardOffsetY
	if g.squareSize == 0 || x < 0 || y < 0 || x >= g.squareSize*8 || y >= g.squareSize*8 {
		return chess.NoSquare, false
	}
	file, rank := x/g.squareSize, 7-y/g.squareSize
	if g.flip {
		file, rank = 7-file, 7-rank
	}
	return chess.NewSquare(chess.File(file), chess.Rank(rank)), true
}

// squareOrigin is the top-left corner of sq in window coordinates.
func (g *Game) squareOrigin(sq chess.Square) (int, int) {
	col, row := int(sq.File()), 7-int(sq.Rank())
	if g.flip {
		col, row = 7-col, 7-row
	}
	return g.boardOffsetX + col*g.squareSize, g.boardOffsetY + row*g.squareSize
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.relayout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func containsSquare(squares []chess.Square, sq chess.Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
