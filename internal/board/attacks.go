package board

// Ray directions. The first four move toward higher square indexes, the
// last four toward lower ones; slidingAttack picks the nearest blocker
// with LSB or MSB accordingly.
const (
	dirNorth = iota
	dirNorthEast
	dirEast
	dirNorthWest
	dirSouth
	dirSouthWest
	dirWest
	dirSouthEast
	dirCount
)

var dirDeltas = [dirCount][2]int{
	dirNorth:     {0, 1},
	dirNorthEast: {1, 1},
	dirEast:      {1, 0},
	dirNorthWest: {-1, 1},
	dirSouth:     {0, -1},
	dirSouthWest: {-1, -1},
	dirWest:      {-1, 0},
	dirSouthEast: {1, -1},
}

var (
	rayAttacks    [dirCount][64]Bitboard
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	betweenBB [64][64]Bitboard
	lineBB    [64][64]Bitboard
)

func init() {
	initRays()
	initLeapers()
	initLines()
	initZobrist()
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for dir := 0; dir < dirCount; dir++ {
			df, dr := dirDeltas[dir][0], dirDeltas[dir][1]
			f, r := sq.File()+df, sq.Rank()+dr
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				rayAttacks[dir][sq] |= SquareBB(NewSquare(f, r))
				f += df
				r += dr
			}
		}
	}
}

func initLeapers() {
	knightSteps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for sq := A1; sq <= H8; sq++ {
		for _, st := range knightSteps {
			f, r := sq.File()+st[0], sq.Rank()+st[1]
			if f >= 0 && f < 8 && r >= 0 && r < 8 {
				knightAttacks[sq] |= SquareBB(NewSquare(f, r))
			}
		}
		for _, d := range dirDeltas {
			f, r := sq.File()+d[0], sq.Rank()+d[1]
			if f >= 0 && f < 8 && r >= 0 && r < 8 {
				kingAttacks[sq] |= SquareBB(NewSquare(f, r))
			}
		}
		// Pawns attack diagonally only, never straight ahead.
		for _, df := range []int{-1, 1} {
			f := sq.File() + df
			if f < 0 || f > 7 {
				continue
			}
			if r := sq.Rank() + 1; r < 8 {
				pawnAttacks[White][sq] |= SquareBB(NewSquare(f, r))
			}
			if r := sq.Rank() - 1; r >= 0 {
				pawnAttacks[Black][sq] |= SquareBB(NewSquare(f, r))
			}
		}
	}
}

func initLines() {
	for a := A1; a <= H8; a++ {
		for dir := 0; dir < dirCount; dir++ {
			full := rayAttacks[dir][a] | rayAttacks[(dir+4)%dirCount][a] | SquareBB(a)
			df, dr := dirDeltas[dir][0], dirDeltas[dir][1]
			var path Bitboard
			f, r := a.File()+df, a.Rank()+dr
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				b := NewSquare(f, r)
				betweenBB[a][b] = path
				lineBB[a][b] = full
				path |= SquareBB(b)
				f += df
				r += dr
			}
		}
	}
}

// slidingAttack returns the squares reachable from sq along dir, stopping
// at (and including) the first occupied square.
func slidingAttack(dir int, sq Square, occ Bitboard) Bitboard {
	attacks := rayAttacks[dir][sq]
	blockers := attacks & occ
	if blockers == 0 {
		return attacks
	}
	var first Square
	if dir < dirSouth {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return attacks ^ rayAttacks[dir][first]
}

// BishopAttacks returns diagonal attacks from sq given the occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return slidingAttack(dirNorthEast, sq, occ) |
		slidingAttack(dirNorthWest, sq, occ) |
		slidingAttack(dirSouthEast, sq, occ) |
		slidingAttack(dirSouthWest, sq, occ)
}

// RookAttacks returns orthogonal attacks from sq given the occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return slidingAttack(dirNorth, sq, occ) |
		slidingAttack(dirEast, sq, occ) |
		slidingAttack(dirSouth, sq, occ) |
		slidingAttack(dirWest, sq, occ)
}

// QueenAttacks returns combined rook and bishop attacks.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c attacks from sq.
func PawnAttacks(c Color, sq Square) Bitboard {
	return pawnAttacks[c][sq]
}

// Between returns the squares strictly between a and b when they share a
// rank, file or diagonal, and the empty set otherwise.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// Line returns the full rank, file or diagonal through a and b (both
// endpoints included), or the empty set when they are not aligned.
func Line(a, b Square) Bitboard {
	return lineBB[a][b]
}

// Aligned reports whether sq lies on the line through a and b.
func Aligned(a, b, sq Square) bool {
	return lineBB[a][b].IsSet(sq)
}
