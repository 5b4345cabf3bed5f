package board

// CastlingRights is a bit set of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
	NoCastling  CastlingRights = 0
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingside != 0 {
		s += "K"
	}
	if cr&WhiteQueenside != 0 {
		s += "Q"
	}
	if cr&BlackKingside != 0 {
		s += "k"
	}
	if cr&BlackQueenside != 0 {
		s += "q"
	}
	return s
}

// castlingMask[sq] keeps the rights that survive a move touching sq.
// Moving the king or a rook off its home square, or capturing a rook on
// its home square, clears the corresponding bits.
var castlingMask [64]CastlingRights

func init() {
	for sq := A1; sq <= H8; sq++ {
		castlingMask[sq] = AllCastling
	}
	castlingMask[E1] &^= WhiteKingside | WhiteQueenside
	castlingMask[A1] &^= WhiteQueenside
	castlingMask[H1] &^= WhiteKingside
	castlingMask[E8] &^= BlackKingside | BlackQueenside
	castlingMask[A8] &^= BlackQueenside
	castlingMask[H8] &^= BlackKingside
}

// Position is a full chess position. It contains no pointers, so a value
// copy is an independent position.
type Position struct {
	Pieces     [2][6]Bitboard // [color][piece type]
	Occupied   [2]Bitboard    // per-color occupancy
	All        Bitboard       // total occupancy
	KingSq     [2]Square
	SideToMove Color
	Castling   CastlingRights
	EnPassant  Square // capture target square, or NoSquare
	HalfMove   int    // plies since last pawn move or capture
	FullMove   int
	Hash       uint64 // Zobrist signature
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.All&bb == 0 {
		return NoPiece
	}
	c := Black
	if p.Occupied[White]&bb != 0 {
		c = White
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

func (p *Position) putPiece(sq Square, pc Piece) {
	bb := SquareBB(sq)
	c, pt := pc.Color(), pc.Type()
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.All |= bb
	p.Hash ^= zobristPiece[c][pt][sq]
	if pt == King {
		p.KingSq[c] = sq
	}
}

func (p *Position) removePiece(sq Square, pc Piece) {
	bb := SquareBB(sq)
	c, pt := pc.Color(), pc.Type()
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.All &^= bb
	p.Hash ^= zobristPiece[c][pt][sq]
}

func (p *Position) movePiece(from, to Square, pc Piece) {
	p.removePiece(from, pc)
	p.putPiece(to, pc)
}

// UndoInfo captures the irreversible state MakeMove destroys.
type UndoInfo struct {
	Captured  Piece
	Castling  CastlingRights
	EnPassant Square
	HalfMove  int
	Hash      uint64
}

// MakeMove applies a pre-validated move and returns the information
// UnmakeMove needs to restore the prior position exactly.
func (p *Position) MakeMove(m Move) UndoInfo {
	u := UndoInfo{
		Captured:  NoPiece,
		Castling:  p.Castling,
		EnPassant: p.EnPassant,
		HalfMove:  p.HalfMove,
		Hash:      p.Hash,
	}
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	moving := p.PieceAt(from)

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	p.HalfMove++

	switch {
	case m.IsCastle():
		p.movePiece(from, to, moving)
		rookFrom, rookTo := rookCastleSquares(to)
		p.movePiece(rookFrom, rookTo, NewPiece(Rook, us))
	case m.IsEnPassant():
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		u.Captured = NewPiece(Pawn, them)
		p.removePiece(capSq, u.Captured)
		p.movePiece(from, to, moving)
		p.HalfMove = 0
	default:
		if captured := p.PieceAt(to); captured != NoPiece {
			u.Captured = captured
			p.removePiece(to, captured)
			p.HalfMove = 0
		}
		p.movePiece(from, to, moving)
		if m.IsPromotion() {
			p.removePiece(to, moving)
			p.putPiece(to, NewPiece(m.Promotion(), us))
		}
	}

	if moving.Type() == Pawn {
		p.HalfMove = 0
		// A double push offers en passant for exactly one ply.
		if delta := int(to) - int(from); delta == 16 || delta == -16 {
			p.EnPassant = Square((int(from) + int(to)) / 2)
			p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		}
	}

	p.Hash ^= zobristCastling[p.Castling]
	p.Castling &= castlingMask[from] & castlingMask[to]
	p.Hash ^= zobristCastling[p.Castling]

	if us == Black {
		p.FullMove++
	}
	p.SideToMove = them
	p.Hash ^= zobristSide
	return u
}

// UnmakeMove reverses a move made by MakeMove.
func (p *Position) UnmakeMove(m Move, u UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from, to := m.From(), m.To()

	p.SideToMove = us
	if us == Black {
		p.FullMove--
	}

	moved := p.PieceAt(to)
	switch {
	case m.IsCastle():
		p.movePiece(to, from, moved)
		rookFrom, rookTo := rookCastleSquares(to)
		p.movePiece(rookTo, rookFrom, NewPiece(Rook, us))
	case m.IsEnPassant():
		p.movePiece(to, from, moved)
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		p.putPiece(capSq, u.Captured)
	case m.IsPromotion():
		p.removePiece(to, moved)
		p.putPiece(from, NewPiece(Pawn, us))
		if u.Captured != NoPiece {
			p.putPiece(to, u.Captured)
		}
	default:
		p.movePiece(to, from, moved)
		if u.Captured != NoPiece {
			p.putPiece(to, u.Captured)
		}
	}

	p.Castling = u.Castling
	p.EnPassant = u.EnPassant
	p.HalfMove = u.HalfMove
	p.Hash = u.Hash
}

// rookCastleSquares maps the king's castling destination to the rook's
// from and to squares.
func rookCastleSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default: // C8
		return A8, D8
	}
}

// Attackers returns the pieces of color by that attack sq under the given
// occupancy. Passing an occupancy other than p.All supports x-ray checks.
func (p *Position) Attackers(sq Square, by Color, occ Bitboard) Bitboard {
	return pawnAttacks[by.Other()][sq]&p.Pieces[by][Pawn] |
		knightAttacks[sq]&p.Pieces[by][Knight] |
		kingAttacks[sq]&p.Pieces[by][King] |
		BishopAttacks(sq, occ)&(p.Pieces[by][Bishop]|p.Pieces[by][Queen]) |
		RookAttacks(sq, occ)&(p.Pieces[by][Rook]|p.Pieces[by][Queen])
}

// Attacked reports whether sq is attacked by any piece of color by.
func (p *Position) Attacked(sq Square, by Color) bool {
	return p.Attackers(sq, by, p.All) != 0
}

// AttackedSquares returns every square attacked by color by.
func (p *Position) AttackedSquares(by Color) Bitboard {
	var set Bitboard
	for sq := A1; sq <= H8; sq++ {
		if p.Attacked(sq, by) {
			set |= SquareBB(sq)
		}
	}
	return set
}

// InCheck reports whether the side to move's king is attacked.
func (p *Position) InCheck() bool {
	return p.Attacked(p.KingSq[p.SideToMove], p.SideToMove.Other())
}

// Checkers returns the opposing pieces giving check.
func (p *Position) Checkers() Bitboard {
	return p.Attackers(p.KingSq[p.SideToMove], p.SideToMove.Other(), p.All)
}

// Pinned returns the side to move's absolutely pinned pieces: pieces that
// stand alone between their king and an enemy slider on the same line.
// Informational only; legality is always established by simulation.
func (p *Position) Pinned() Bitboard {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSq[us]

	var pinned Bitboard
	snipers := RookAttacks(ksq, 0)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) |
		BishopAttacks(ksq, 0)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen])
	for snipers != 0 {
		s := snipers.PopLSB()
		blockers := Between(ksq, s) & p.All
		if blockers.Count() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}
