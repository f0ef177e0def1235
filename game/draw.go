package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/notnil/chess"
	"golang.org/x/image/font/basicfont"
)

var (
	backgroundColor = color.RGBA{30, 30, 30, 255}
	lightSquare     = color.RGBA{240, 217, 181, 255}
	darkSquare      = color.RGBA{181, 136, 99, 255}
	selectedColor   = color.RGBA{100, 109, 64, 255}
	hintColor       = color.RGBA{100, 109, 64, 128}
	sourceColor     = color.RGBA{206, 210, 107, 255}
	destColor       = color.RGBA{170, 162, 58, 255}
	checkColor      = color.RGBA{255, 0, 0, 255}
	stallColor      = color.RGBA{200, 40, 40, 255}

	whiteFill = color.RGBA{245, 245, 240, 255}
	blackFill = color.RGBA{25, 25, 25, 255}
)

var allPieces = []chess.Piece{
	chess.WhiteKing, chess.WhiteQueen, chess.WhiteRook, chess.WhiteBishop, chess.WhiteKnight, chess.WhitePawn,
	chess.BlackKing, chess.BlackQueen, chess.BlackRook, chess.BlackBishop, chess.BlackKnight, chess.BlackPawn,
}

// renderPieces draws one token per piece at the current square size: a
// disc in the piece's color with its letter on top.
func (g *Game) renderPieces() {
	size := g.squareSize
	if size <= 0 {
		return
	}
	for _, piece := range allPieces {
		fill, ink := whiteFill, blackFill
		if piece.Color() == chess.Black {
			fill, ink = blackFill, whiteFill
		}

		img := ebiten.NewImage(size, size)
		c := float32(size) / 2
		r := float32(size) * 0.4
		vector.DrawFilledCircle(img, c, c, r+2, ink, true)
		vector.DrawFilledCircle(img, c, c, r, fill, true)

		glyph := ebiten.NewImage(7, 13)
		text.Draw(glyph, strings.ToUpper(piece.Type().String()), basicfont.Face7x13, 0, 11, ink)
		scale := float64(size) * 0.45 / 13
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((float64(size)-7*scale)/2, (float64(size)-13*scale)/2)
		img.DrawImage(glyph, op)

		if old := g.pieces[piece]; old != nil {
			old.Dispose()
		}
		g.pieces[piece] = img
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.drawBoard(screen)
	g.drawHints(screen)
	g.drawPieces(screen)
	g.drawStatus(screen)
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	size := float32(g.squareSize)
	last := g.board.LastMove()
	checked := chess.NoSquare
	if g.board.InCheck() {
		checked, _ = g.board.KingSquare(g.board.Turn())
	}

	for sq := chess.A1; sq <= chess.H8; sq++ {
		var clr color.Color = lightSquare
		if (int(sq.File())+int(sq.Rank()))%2 == 0 {
			clr = darkSquare
		}
		switch {
		case sq == checked:
			clr = checkColor
		case sq == g.selected:
			clr = selectedColor
		case last != nil && sq == last.S1():
			clr = sourceColor
		case last != nil && sq == last.S2():
			clr = destColor
		}

		x, y := g.squareOrigin(sq)
		vector.DrawFilledRect(screen, float32(x), float32(y), size, size, clr, false)

		// Coordinates along the bottom and right edges as seen on screen.
		col, row := (x-g.boardOffsetX)/g.squareSize, (y-g.boardOffsetY)/g.squareSize
		if col == 7 {
			ebitenutil.DebugPrintAt(screen, sq.Rank().String(), x+g.squareSize-10, y+2)
		}
		if row == 7 {
			ebitenutil.DebugPrintAt(screen, sq.File().String(), x+3, y+g.squareSize-16)
		}
	}
}

func (g *Game) drawHints(screen *ebiten.Image) {
	size := float32(g.squareSize)
	for _, sq := range g.hints {
		x, y := g.squareOrigin(sq)
		fx, fy := float32(x), float32(y)
		if g.board.PieceAt(sq) == chess.NoPiece {
			vector.DrawFilledCircle(screen, fx+size/2, fy+size/2, size*0.125, hintColor, true)
			continue
		}
		// Capture targets get their corners marked.
		c := size * 0.2
		vector.DrawFilledRect(screen, fx, fy, c, c, hintColor, false)
		vector.DrawFilledRect(screen, fx+size-c, fy, c, c, hintColor, false)
		vector.DrawFilledRect(screen, fx, fy+size-c, c, c, hintColor, false)
		vector.DrawFilledRect(screen, fx+size-c, fy+size-c, c, c, hintColor, false)
	}
}

func (g *Game) drawPieces(screen *ebiten.Image) {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := g.board.PieceAt(sq)
		if piece == chess.NoPiece || (g.dragging && sq == g.selected) {
			continue
		}
		img := g.pieces[piece]
		if img == nil {
			continue
		}
		x, y := g.squareOrigin(sq)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(img, op)
	}

	// The dragged piece follows the cursor.
	if g.dragging && g.selected != chess.NoSquare {
		if img := g.pieces[g.board.PieceAt(g.selected)]; img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(
				float64(g.dragX)-float64(g.squareSize)/2,
				float64(g.dragY)-float64(g.squareSize)/2,
			)
			screen.DrawImage(img, op)
		}
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	turn := g.board.Turn()
	status := fmt.Sprintf("%s to move", turn.Name())
	switch {
	case g.board.IsGameOver():
		status = fmt.Sprintf("Result: %s (%v)", g.board.Outcome(), g.board.Method())
	case g.sched.Stalled():
		status = fmt.Sprintf("%s produced no move. Press R to retry", g.sched.Agent(turn).Name())
		vector.DrawFilledRect(screen, 0, 0, float32(g.width), 20, stallColor, false)
	case g.sched.Thinking():
		status = fmt.Sprintf("%s is thinking...", g.sched.Agent(turn).Name())
	case g.sched.HumanTurn():
		status = fmt.Sprintf("Your move (%s)", turn.Name())
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 2)
}
