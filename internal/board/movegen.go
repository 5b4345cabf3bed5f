package board

// GeneratePseudoLegalMoves appends every geometrically possible move for
// the side to move: moves that follow piece movement rules but may leave
// the own king in check.
func (p *Position) GeneratePseudoLegalMoves(list *MoveList) {
	us := p.SideToMove
	for bb := p.Occupied[us]; bb != 0; {
		from := bb.PopLSB()
		switch p.PieceAt(from).Type() {
		case Pawn:
			p.genPawnMoves(from, list)
		case Knight:
			p.genStepMoves(from, knightAttacks[from], list)
		case Bishop:
			p.genStepMoves(from, BishopAttacks(from, p.All), list)
		case Rook:
			p.genStepMoves(from, RookAttacks(from, p.All), list)
		case Queen:
			p.genStepMoves(from, QueenAttacks(from, p.All), list)
		case King:
			p.genStepMoves(from, kingAttacks[from], list)
		}
	}
	p.genCastlingMoves(list)
}

// GenerateLegalMoves appends the strictly legal moves for the side to
// move. Every pseudo-legal candidate is applied to a scratch copy of the
// position and kept only if the mover's king is not attacked afterwards;
// no pin-based shortcut ever skips this check.
func (p *Position) GenerateLegalMoves(list *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegalMoves(&pseudo)
	us := p.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		scratch := *p
		scratch.MakeMove(m)
		if !scratch.Attacked(scratch.KingSq[us], us.Other()) {
			list.Add(m)
		}
	}
}

func (p *Position) genStepMoves(from Square, targets Bitboard, list *MoveList) {
	for bb := targets &^ p.Occupied[p.SideToMove]; bb != 0; {
		list.Add(NewMove(from, bb.PopLSB()))
	}
}

func (p *Position) genPawnMoves(from Square, list *MoveList) {
	us := p.SideToMove
	them := us.Other()
	push, startRank, promoRank := 8, 1, 7
	if us == Black {
		push, startRank, promoRank = -8, 6, 0
	}

	one := Square(int(from) + push)
	if !p.All.IsSet(one) {
		if one.Rank() == promoRank {
			addPromotions(from, one, list)
		} else {
			list.Add(NewMove(from, one))
			if from.Rank() == startRank {
				two := Square(int(one) + push)
				if !p.All.IsSet(two) {
					list.Add(NewMove(from, two))
				}
			}
		}
	}

	for bb := pawnAttacks[us][from] & p.Occupied[them]; bb != 0; {
		to := bb.PopLSB()
		if to.Rank() == promoRank {
			addPromotions(from, to, list)
		} else {
			list.Add(NewMove(from, to))
		}
	}

	if p.EnPassant != NoSquare && pawnAttacks[us][from].IsSet(p.EnPassant) {
		list.Add(NewEnPassantMove(from, p.EnPassant))
	}
}

// addPromotions emits the four distinct promotion moves.
func addPromotions(from, to Square, list *MoveList) {
	list.Add(NewPromotionMove(from, to, Queen))
	list.Add(NewPromotionMove(from, to, Rook))
	list.Add(NewPromotionMove(from, to, Bishop))
	list.Add(NewPromotionMove(from, to, Knight))
}

// genCastlingMoves emits castling when the rights are intact, the path is
// clear, and the king neither starts, crosses nor lands on an attacked
// square. Whether the rook is attacked is irrelevant.
func (p *Position) genCastlingMoves(list *MoveList) {
	type castle struct {
		right    CastlingRights
		kingFrom Square
		kingTo   Square
		rookFrom Square
		empty    Bitboard
		kingPath [3]Square
	}
	var options [2]castle
	if p.SideToMove == White {
		options = [2]castle{
			{WhiteKingside, E1, G1, H1, SquareBB(F1) | SquareBB(G1), [3]Square{E1, F1, G1}},
			{WhiteQueenside, E1, C1, A1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [3]Square{E1, D1, C1}},
		}
	} else {
		options = [2]castle{
			{BlackKingside, E8, G8, H8, SquareBB(F8) | SquareBB(G8), [3]Square{E8, F8, G8}},
			{BlackQueenside, E8, C8, A8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [3]Square{E8, D8, C8}},
		}
	}

	us := p.SideToMove
	them := us.Other()
	rooks := p.Pieces[us][Rook]
	for _, c := range options {
		if p.Castling&c.right == 0 {
			continue
		}
		if p.KingSq[us] != c.kingFrom || !rooks.IsSet(c.rookFrom) {
			continue
		}
		if p.All&c.empty != 0 {
			continue
		}
		attacked := false
		for _, sq := range c.kingPath {
			if p.Attacked(sq, them) {
				attacked = true
				break
			}
		}
		if !attacked {
			list.Add(NewCastleMove(c.kingFrom, c.kingTo))
		}
	}
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var list MoveList
	p.GenerateLegalMoves(&list)
	return list.Len() > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial reports whether neither side can possibly mate:
// king versus king, with at most one minor piece on the board.
func (p *Position) IsInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.Pieces[c][Pawn]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0 {
			return false
		}
	}
	minors := (p.Pieces[White][Knight] | p.Pieces[White][Bishop] |
		p.Pieces[Black][Knight] | p.Pieces[Black][Bishop]).Count()
	return minors <= 1
}
