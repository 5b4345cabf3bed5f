package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/chesslens/chesslens/internal/board"
	"github.com/chesslens/chesslens/internal/engine"
)

// Layout constants. The eval bar sits to the right of the board.
const (
	SquareSize = 80
	BoardSize  = SquareSize * 8
	EvalBarW   = 40
	WindowW    = BoardSize + EvalBarW
	WindowH    = BoardSize
)

// Theme is the color scheme.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMove      color.RGBA
	LastMove       color.RGBA
	Check          color.RGBA
	BestMove       color.RGBA
	MateHint       color.RGBA
	BarWhite       color.RGBA
	BarBlack       color.RGBA
	DialogBack     color.RGBA
}

func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255},
		DarkSquare:     color.RGBA{181, 136, 99, 255},
		SelectedSquare: color.RGBA{247, 247, 105, 180},
		LegalMove:      color.RGBA{106, 168, 79, 200},
		LastMove:       color.RGBA{180, 190, 100, 110},
		Check:          color.RGBA{255, 90, 90, 180},
		BestMove:       color.RGBA{219, 58, 52, 230},
		MateHint:       color.RGBA{58, 110, 230, 230},
		BarWhite:       color.RGBA{235, 235, 235, 255},
		BarBlack:       color.RGBA{35, 35, 35, 255},
		DialogBack:     color.RGBA{40, 44, 52, 235},
	}
}

// Renderer draws the board, pieces and analysis overlay.
type Renderer struct {
	sprites *SpriteManager
	theme   *Theme
}

func NewRenderer() *Renderer {
	return &Renderer{
		sprites: NewSpriteManager(SquareSize),
		theme:   DefaultTheme(),
	}
}

// SquareToScreen returns the top-left pixel of a square. With flipped
// false, White sits at the bottom.
func (r *Renderer) SquareToScreen(sq board.Square, flipped bool) (int, int) {
	file, rank := sq.File(), sq.Rank()
	if flipped {
		file, rank = 7-file, 7-rank
	}
	return file * SquareSize, (7 - rank) * SquareSize
}

// ScreenToSquare maps a pixel to its square, or NoSquare outside the board.
func (r *Renderer) ScreenToSquare(x, y int, flipped bool) board.Square {
	if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize {
		return board.NoSquare
	}
	file := x / SquareSize
	rank := 7 - y/SquareSize
	if flipped {
		file, rank = 7-file, 7-rank
	}
	return board.NewSquare(file, rank)
}

// DrawBoard draws the checkered squares.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			c := r.theme.LightSquare
			if (rank+file)%2 == 0 {
				c = r.theme.DarkSquare
			}
			vector.DrawFilledRect(screen,
				float32(file*SquareSize), float32((7-rank)*SquareSize),
				SquareSize, SquareSize, c, false)
		}
	}
}

// DrawHighlights overlays the last move, the selection with its legal
// targets, and the checked king.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, targets []board.Square, lastMove board.Move, checkSq board.Square, flipped bool) {
	if lastMove != board.NoMove {
		r.fillSquare(screen, lastMove.From(), r.theme.LastMove, flipped)
		r.fillSquare(screen, lastMove.To(), r.theme.LastMove, flipped)
	}
	if checkSq != board.NoSquare {
		r.fillSquare(screen, checkSq, r.theme.Check, flipped)
	}
	if selected != board.NoSquare {
		r.fillSquare(screen, selected, r.theme.SelectedSquare, flipped)
	}
	for _, sq := range targets {
		x, y := r.SquareToScreen(sq, flipped)
		vector.DrawFilledCircle(screen,
			float32(x)+SquareSize/2, float32(y)+SquareSize/2,
			SquareSize*0.14, r.theme.LegalMove, false)
	}
}

func (r *Renderer) fillSquare(screen *ebiten.Image, sq board.Square, c color.RGBA, flipped bool) {
	x, y := r.SquareToScreen(sq, flipped)
	vector.DrawFilledRect(screen, float32(x), float32(y), SquareSize, SquareSize, c, false)
}

// DrawPieces draws every piece on the board.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *board.Position, flipped bool) {
	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		x, y := r.SquareToScreen(sq, flipped)
		r.sprites.DrawPieceAt(screen, p, x, y)
	}
}

// DrawBestMoveLine draws the engine suggestion as a thick line between
// square centers: red normally, blue when it is a forced-mate hint.
func (r *Renderer) DrawBestMoveLine(screen *ebiten.Image, m board.Move, mateHint, flipped bool) {
	if m == board.NoMove {
		return
	}
	c := r.theme.BestMove
	if mateHint {
		c = r.theme.MateHint
	}
	x0, y0 := r.SquareToScreen(m.From(), flipped)
	x1, y1 := r.SquareToScreen(m.To(), flipped)
	vector.StrokeLine(screen,
		float32(x0)+SquareSize/2, float32(y0)+SquareSize/2,
		float32(x1)+SquareSize/2, float32(y1)+SquareSize/2,
		8, c, true)
	vector.DrawFilledCircle(screen,
		float32(x1)+SquareSize/2, float32(y1)+SquareSize/2, 10, c, true)
}

// DrawEvalBar draws the vertical evaluation bar beside the board. The
// white share is clamp((eval+10)/20) of the height, eval in pawns; a
// forced mate pins the bar to the winning side.
func (r *Renderer) DrawEvalBar(screen *ebiten.Image, ev engine.Evaluation, flipped bool) {
	x := float32(BoardSize)
	share := 0.5
	switch {
	case ev.Mate > 0:
		share = 1
	case ev.Mate < 0:
		share = 0
	default:
		share = (float64(ev.Score)/100 + 10) / 20
		if share < 0 {
			share = 0
		}
		if share > 1 {
			share = 1
		}
	}
	whiteH := float32(share * BoardSize)

	vector.DrawFilledRect(screen, x, 0, EvalBarW, BoardSize, r.theme.BarBlack, false)
	if flipped {
		vector.DrawFilledRect(screen, x, 0, EvalBarW, whiteH, r.theme.BarWhite, false)
	} else {
		vector.DrawFilledRect(screen, x, float32(BoardSize)-whiteH, EvalBarW, whiteH, r.theme.BarWhite, false)
	}

	label := fmt.Sprintf("%+.2f", float64(ev.Score)/100)
	if ev.Mate != 0 {
		label = fmt.Sprintf("M%+d", ev.Mate)
	}
	ebitenutil.DebugPrintAt(screen, label, BoardSize+2, BoardSize/2-8)
}

// Promotion dialog layout: the four choices in a centered row.
var promotionChoices = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

func promotionDialogOrigin() (int, int) {
	return BoardSize/2 - 2*SquareSize, BoardSize/2 - SquareSize/2
}

// DrawPromotionDialog draws the piece-choice dialog for the given color.
func (r *Renderer) DrawPromotionDialog(screen *ebiten.Image, c board.Color) {
	ox, oy := promotionDialogOrigin()
	pad := 8
	vector.DrawFilledRect(screen,
		float32(ox-pad), float32(oy-pad),
		float32(4*SquareSize+2*pad), float32(SquareSize+2*pad),
		r.theme.DialogBack, false)
	for i, pt := range promotionChoices {
		r.sprites.DrawPieceAt(screen, board.NewPiece(pt, c), ox+i*SquareSize, oy)
	}
}

// PromotionChoiceAt maps a click to the chosen promotion piece.
func (r *Renderer) PromotionChoiceAt(x, y int) (board.PieceType, bool) {
	ox, oy := promotionDialogOrigin()
	if y < oy || y >= oy+SquareSize || x < ox || x >= ox+4*SquareSize {
		return board.NoPieceType, false
	}
	return promotionChoices[(x-ox)/SquareSize], true
}
