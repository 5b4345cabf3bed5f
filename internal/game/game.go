// Package game implements the game state machine on top of the board
// package: move submission, the promotion handshake, history with undo,
// and terminal detection.
package game

import (
	"errors"
	"fmt"

	"github.com/chesslens/chesslens/internal/board"
)

var (
	// ErrIllegalMove is returned when a submitted move is not in the
	// current legal move set.
	ErrIllegalMove = errors.New("illegal move")
	// ErrGameOver is returned when a move is submitted to a finished game.
	ErrGameOver = errors.New("game is over")
	// ErrInvalidPromotion is returned when a promotion move is submitted
	// without a piece choice.
	ErrInvalidPromotion = errors.New("promotion requires a piece choice")
	// ErrInvalidPromotionKind is returned when a promotion choice is not
	// one of queen, rook, bishop or knight.
	ErrInvalidPromotionKind = errors.New("invalid promotion piece")
	// ErrNoPendingPromotion is returned when a promotion is chosen or
	// cancelled while none is pending.
	ErrNoPendingPromotion = errors.New("no promotion pending")
)

// Status is the coarse game state.
type Status uint8

const (
	InProgress Status = iota
	WhiteWon
	BlackWon
	Drawn
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case WhiteWon:
		return "1-0"
	case BlackWon:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// Method records how a finished game ended.
type Method uint8

const (
	NoMethod Method = iota
	Checkmate
	Stalemate
	FiftyMoveRule
	ThreefoldRepetition
	InsufficientMaterial
)

func (m Method) String() string {
	switch m {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty-move rule"
	case ThreefoldRepetition:
		return "threefold repetition"
	case InsufficientMaterial:
		return "insufficient material"
	default:
		return "none"
	}
}

// PendingPromotion is a promotion move waiting for its piece choice.
type PendingPromotion struct {
	From  board.Square
	To    board.Square
	Color board.Color
}

// Result reports the outcome of a submission.
type Result struct {
	Move   board.Move
	SAN    string
	Status Status
	Method Method
	// PromotionPending means no move was applied yet: the caller must
	// resolve the promotion via ChoosePromotion or CancelPromotion.
	PromotionPending bool
}

type historyEntry struct {
	move board.Move
	undo board.UndoInfo
	san  string
}

// Game is a single chess game in progress. Not safe for concurrent use;
// the intended callers drive it from one goroutine.
type Game struct {
	pos      *board.Position
	history  []historyEntry
	sigCount map[uint64]int
	pending  *PendingPromotion
	status   Status
	method   Method
}

// New starts a game from the standard starting position.
func New() *Game {
	g, err := NewFromFEN(board.StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// NewFromFEN starts a game from an arbitrary position.
func NewFromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	g := &Game{
		pos:      pos,
		sigCount: map[uint64]int{pos.Hash: 1},
	}
	g.updateStatus()
	return g, nil
}

// SubmitMove plays the move identified by its from and to squares. When
// the pair selects a promotion, no move is applied: the promotion is
// recorded as pending and the result says so. Any previously pending
// promotion is dropped, as selecting a new move dismisses the dialog.
func (g *Game) SubmitMove(from, to board.Square) (Result, error) {
	if g.status != InProgress {
		return g.result(board.NoMove, ""), ErrGameOver
	}
	g.pending = nil

	var legal board.MoveList
	g.pos.GenerateLegalMoves(&legal)
	var match board.Move
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() == from && m.To() == to {
			match = m
			break
		}
	}
	if match == board.NoMove {
		return g.result(board.NoMove, ""), ErrIllegalMove
	}
	if match.IsPromotion() {
		g.pending = &PendingPromotion{From: from, To: to, Color: g.pos.SideToMove}
		r := g.result(board.NoMove, "")
		r.PromotionPending = true
		return r, nil
	}
	return g.apply(match), nil
}

// ChoosePromotion completes the pending promotion with the chosen piece.
// Only queen, rook, bishop and knight are accepted.
func (g *Game) ChoosePromotion(kind board.PieceType) (Result, error) {
	if g.pending == nil {
		return g.result(board.NoMove, ""), ErrNoPendingPromotion
	}
	if kind < board.Knight || kind > board.Queen {
		return g.result(board.NoMove, ""), ErrInvalidPromotionKind
	}
	m := board.NewPromotionMove(g.pending.From, g.pending.To, kind)
	g.pending = nil

	var legal board.MoveList
	g.pos.GenerateLegalMoves(&legal)
	if !legal.Contains(m) {
		return g.result(board.NoMove, ""), ErrIllegalMove
	}
	return g.apply(m), nil
}

// CancelPromotion drops the pending promotion without moving.
func (g *Game) CancelPromotion() error {
	if g.pending == nil {
		return ErrNoPendingPromotion
	}
	g.pending = nil
	return nil
}

// SubmitUCI plays a move given in UCI coordinate notation ("e2e4",
// "e7e8q"). A promotion move without a piece suffix is rejected with
// ErrInvalidPromotion rather than left pending; line-oriented callers
// have no dialog to resolve it.
func (g *Game) SubmitUCI(s string) (Result, error) {
	if g.status != InProgress {
		return g.result(board.NoMove, ""), ErrGameOver
	}
	m, err := board.ParseMove(g.pos, s)
	if err != nil {
		return g.result(board.NoMove, ""), fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	var legal board.MoveList
	g.pos.GenerateLegalMoves(&legal)
	if !legal.Contains(m) {
		if !m.IsPromotion() && legal.Contains(board.NewPromotionMove(m.From(), m.To(), board.Queen)) {
			return g.result(board.NoMove, ""), ErrInvalidPromotion
		}
		return g.result(board.NoMove, ""), ErrIllegalMove
	}
	g.pending = nil
	return g.apply(m), nil
}

// apply plays a legal move and recomputes the terminal state.
func (g *Game) apply(m board.Move) Result {
	san := g.pos.MoveToSAN(m)
	undo := g.pos.MakeMove(m)
	g.history = append(g.history, historyEntry{move: m, undo: undo, san: san})
	g.sigCount[g.pos.Hash]++
	g.updateStatus()
	return g.result(m, san)
}

// updateStatus classifies the current position, checking the decisive
// conditions before the draws: checkmate, stalemate, fifty-move rule,
// threefold repetition, insufficient material.
func (g *Game) updateStatus() {
	switch {
	case !g.pos.HasLegalMoves():
		if g.pos.InCheck() {
			g.method = Checkmate
			if g.pos.SideToMove == board.White {
				g.status = BlackWon
			} else {
				g.status = WhiteWon
			}
		} else {
			g.status = Drawn
			g.method = Stalemate
		}
	case g.pos.HalfMove >= 100:
		g.status = Drawn
		g.method = FiftyMoveRule
	case g.sigCount[g.pos.Hash] >= 3:
		g.status = Drawn
		g.method = ThreefoldRepetition
	case g.pos.IsInsufficientMaterial():
		g.status = Drawn
		g.method = InsufficientMaterial
	default:
		g.status = InProgress
		g.method = NoMethod
	}
}

// Undo rewinds one ply and reports whether there was one. Undoing a
// finished game reopens it.
func (g *Game) Undo() bool {
	if len(g.history) == 0 {
		return false
	}
	g.pending = nil
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	if n := g.sigCount[g.pos.Hash]; n <= 1 {
		delete(g.sigCount, g.pos.Hash)
	} else {
		g.sigCount[g.pos.Hash] = n - 1
	}
	g.pos.UnmakeMove(last.move, last.undo)
	g.updateStatus()
	return true
}

// Reset starts over from the standard starting position.
func (g *Game) Reset() {
	*g = *New()
}

// LegalTargets returns the destination squares of the legal moves from
// the given square, for move highlighting.
func (g *Game) LegalTargets(from board.Square) []board.Square {
	if g.status != InProgress {
		return nil
	}
	var legal board.MoveList
	g.pos.GenerateLegalMoves(&legal)
	var targets board.Bitboard
	for i := 0; i < legal.Len(); i++ {
		if m := legal.Get(i); m.From() == from {
			targets |= board.SquareBB(m.To())
		}
	}
	if targets == 0 {
		return nil
	}
	return targets.Squares()
}

func (g *Game) result(m board.Move, san string) Result {
	return Result{Move: m, SAN: san, Status: g.status, Method: g.method}
}

// Position returns an independent snapshot of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// FEN returns the current position as a FEN string.
func (g *Game) FEN() string {
	return g.pos.ToFEN()
}

// Status returns the current game status.
func (g *Game) Status() Status {
	return g.status
}

// Method returns how the game ended, or NoMethod while in progress.
func (g *Game) Method() Method {
	return g.method
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.pos.InCheck()
}

// SideToMove returns the color to move.
func (g *Game) SideToMove() board.Color {
	return g.pos.SideToMove
}

// PendingPromotion returns the promotion awaiting a piece choice, or nil.
func (g *Game) PendingPromotion() *PendingPromotion {
	return g.pending
}

// LastMove returns the most recently played move, or NoMove.
func (g *Game) LastMove() board.Move {
	if len(g.history) == 0 {
		return board.NoMove
	}
	return g.history[len(g.history)-1].move
}

// SANHistory returns the SAN strings of the moves played so far.
func (g *Game) SANHistory() []string {
	out := make([]string, len(g.history))
	for i, h := range g.history {
		out[i] = h.san
	}
	return out
}

// Moves returns the number of plies played.
func (g *Game) Moves() int {
	return len(g.history)
}
