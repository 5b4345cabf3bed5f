package ui

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/chesslens/chesslens/internal/board"
	"github.com/chesslens/chesslens/internal/engine"
	"github.com/chesslens/chesslens/internal/game"
	"github.com/chesslens/chesslens/internal/storage"
)

// analysisThrottle bounds how often a changed position is re-submitted
// to the engine from the frame loop.
const analysisThrottle = 100 * time.Millisecond

// App is the ebiten application: it owns the game, polls the engine
// bridge without blocking, and renders the analysis overlay.
type App struct {
	game     *game.Game
	analyzer *engine.Analyzer
	store    *storage.Store
	prefs    *storage.Preferences

	renderer *Renderer
	input    *InputHandler

	selected board.Square
	targets  []board.Square

	flipped        bool
	aggressiveMate bool

	eval         engine.Evaluation
	haveEval     bool
	analyzedHash uint64
	lastRequest  time.Time
}

// NewApp wires the application together. analyzer and store may be
// degraded (engine missing, storage failed); play works regardless.
func NewApp(g *game.Game, analyzer *engine.Analyzer, store *storage.Store, prefs *storage.Preferences) *App {
	return &App{
		game:           g,
		analyzer:       analyzer,
		store:          store,
		prefs:          prefs,
		renderer:       NewRenderer(),
		input:          NewInputHandler(),
		selected:       board.NoSquare,
		flipped:        !prefs.WhiteBottom,
		aggressiveMate: prefs.AggressiveMate,
	}
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	a.input.Update()
	a.handleKeys()
	if a.input.Clicked() {
		a.handleClick()
	}
	a.maybeRequestAnalysis()
	if ev, ok := a.analyzer.Latest(); ok {
		a.eval = ev
		a.haveEval = true
	}
	return nil
}

func (a *App) handleKeys() {
	switch {
	case KeyJustPressed(ebiten.KeyP):
		a.flipped = !a.flipped
		a.prefs.WhiteBottom = !a.flipped
		a.savePrefs()
	case KeyJustPressed(ebiten.KeyM):
		a.aggressiveMate = !a.aggressiveMate
		a.prefs.AggressiveMate = a.aggressiveMate
		a.savePrefs()
	case KeyJustPressed(ebiten.KeyN):
		a.game.Reset()
		a.clearSelection()
		a.haveEval = false
	case KeyJustPressed(ebiten.KeyU):
		if a.game.Undo() {
			a.clearSelection()
			a.haveEval = false
		}
	case KeyJustPressed(ebiten.KeyEscape):
		if a.game.PendingPromotion() != nil {
			a.game.CancelPromotion()
		} else {
			a.clearSelection()
		}
	}
}

func (a *App) handleClick() {
	mx, my := a.input.MousePosition()

	if a.game.PendingPromotion() != nil {
		if kind, ok := a.renderer.PromotionChoiceAt(mx, my); ok {
			if _, err := a.game.ChoosePromotion(kind); err != nil {
				log.Printf("ui: promotion: %v", err)
			} else {
				a.haveEval = false
			}
		} else {
			a.game.CancelPromotion()
		}
		a.clearSelection()
		return
	}

	sq := a.renderer.ScreenToSquare(mx, my, a.flipped)
	if sq == board.NoSquare {
		a.clearSelection()
		return
	}

	pos := a.game.Position()
	if a.selected == board.NoSquare {
		a.trySelect(pos, sq)
		return
	}
	if sq == a.selected {
		a.clearSelection()
		return
	}

	r, err := a.game.SubmitMove(a.selected, sq)
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		a.clearSelection()
		a.trySelect(pos, sq)
	case err != nil:
		a.clearSelection()
	case r.PromotionPending:
		a.clearSelection()
	default:
		a.clearSelection()
		a.haveEval = false
	}
}

func (a *App) trySelect(pos *board.Position, sq board.Square) {
	p := pos.PieceAt(sq)
	if p == board.NoPiece || p.Color() != pos.SideToMove {
		return
	}
	a.selected = sq
	a.targets = a.game.LegalTargets(sq)
}

func (a *App) clearSelection() {
	a.selected = board.NoSquare
	a.targets = nil
}

// maybeRequestAnalysis re-submits the current position after it changes,
// throttled so rapid input does not flood the engine.
func (a *App) maybeRequestAnalysis() {
	pos := a.game.Position()
	if pos.Hash == a.analyzedHash || time.Since(a.lastRequest) < analysisThrottle {
		return
	}
	limits := engine.Limits{
		Depth:    a.prefs.Depth,
		MoveTime: time.Duration(a.prefs.MoveTimeMS) * time.Millisecond,
	}
	a.analyzedHash = pos.Hash
	a.lastRequest = time.Now()
	if err := a.analyzer.RequestAnalysis(pos, limits); err != nil {
		// Play continues without analysis; retry after the throttle in
		// case the engine comes back.
		a.analyzedHash = 0
	}
}

func (a *App) savePrefs() {
	if a.store == nil {
		return
	}
	if err := a.store.SavePreferences(a.prefs); err != nil {
		log.Printf("ui: save preferences: %v", err)
	}
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	pos := a.game.Position()

	a.renderer.DrawBoard(screen)

	checkSq := board.NoSquare
	if a.game.Status() == game.InProgress && a.game.InCheck() {
		checkSq = pos.KingSq[pos.SideToMove]
	}
	a.renderer.DrawHighlights(screen, a.selected, a.targets, a.game.LastMove(), checkSq, a.flipped)

	if a.haveEval && a.eval.BestMove != "" {
		if m, err := board.ParseMove(pos, a.eval.BestMove); err == nil {
			mateHint := a.aggressiveMate && a.eval.Mate != 0
			a.renderer.DrawBestMoveLine(screen, m, mateHint, a.flipped)
		}
	}

	a.renderer.DrawPieces(screen, pos, a.flipped)

	if a.analyzer.Available() && a.haveEval {
		a.renderer.DrawEvalBar(screen, a.eval, a.flipped)
	}

	if pp := a.game.PendingPromotion(); pp != nil {
		a.renderer.DrawPromotionDialog(screen, pp.Color)
	}

	ebitenutil.DebugPrintAt(screen, a.statusLine(), 4, BoardSize-16)
}

func (a *App) statusLine() string {
	var s string
	switch a.game.Status() {
	case game.InProgress:
		s = fmt.Sprintf("%s to move", a.game.SideToMove())
		if a.game.InCheck() {
			s += " (check)"
		}
	default:
		s = fmt.Sprintf("%s by %s", a.game.Status(), a.game.Method())
	}
	if !a.analyzer.Available() {
		s += "  |  analysis disabled"
	}
	return s
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowW, WindowH
}
