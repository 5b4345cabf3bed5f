package board

import "fmt"

// Move packs a move into 16 bits:
//
//	bits 0-5   from square
//	bits 6-11  to square
//	bits 12-13 promotion piece, offset from Knight
//	bits 14-15 move kind
type Move uint16

// NoMove is the zero move. A1->A1 is never a real move.
const NoMove Move = 0

const (
	kindNormal    Move = 0 << 14
	kindPromotion Move = 1 << 14
	kindEnPassant Move = 2 << 14
	kindCastle    Move = 3 << 14
)

// NewMove builds a plain move (includes captures and pawn pushes).
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotionMove builds a pawn promotion to promo (Knight..Queen).
func NewPromotionMove(from, to Square, promo PieceType) Move {
	return NewMove(from, to) | Move(promo-Knight)<<12 | kindPromotion
}

// NewEnPassantMove builds an en passant capture.
func NewEnPassantMove(from, to Square) Move {
	return NewMove(from, to) | kindEnPassant
}

// NewCastleMove builds a castling move, given as the king's two-square step.
func NewCastleMove(from, to Square) Move {
	return NewMove(from, to) | kindCastle
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m >> 6 & 0x3F)
}

// IsPromotion reports whether the move is a pawn promotion.
func (m Move) IsPromotion() bool {
	return m&(3<<14) == kindPromotion
}

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&(3<<14) == kindEnPassant
}

// IsCastle reports whether the move is castling.
func (m Move) IsCastle() bool {
	return m&(3<<14) == kindCastle
}

// Promotion returns the promotion piece type, or NoPieceType for
// non-promotion moves.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return Knight + PieceType(m>>12&3)
}

// String renders the move in UCI coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += m.Promotion().String()
	}
	return s
}

// ParseMove parses UCI coordinate notation against a position, which is
// needed to classify castling and en passant. The move is not checked
// for legality.
func ParseMove(p *Position, s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	if len(s) == 5 {
		promo := PieceFromChar(s[4] | 0x20).Type()
		if promo < Knight || promo > Queen {
			return NoMove, fmt.Errorf("invalid promotion piece %q", s[4])
		}
		return NewPromotionMove(from, to, promo), nil
	}
	switch p.PieceAt(from).Type() {
	case King:
		df := to.File() - from.File()
		if df == 2 || df == -2 {
			return NewCastleMove(from, to), nil
		}
	case Pawn:
		if to == p.EnPassant && from.File() != to.File() {
			return NewEnPassantMove(from, to), nil
		}
	}
	return NewMove(from, to), nil
}

// MoveList is a fixed-capacity move accumulator. 256 comfortably exceeds
// the maximum move count of any legal position.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the i-th move.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}
