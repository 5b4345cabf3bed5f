package board

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a colorless piece kind.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeChars = [6]byte{'p', 'n', 'b', 'r', 'q', 'k'}

func (pt PieceType) String() string {
	if pt >= NoPieceType {
		return "-"
	}
	return string(pieceTypeChars[pt])
}

// Piece is a colored piece. Encoding: type + color*6, so White pieces
// occupy 0-5 and Black pieces 6-11.
type Piece uint8

// NoPiece marks an empty square.
const NoPiece Piece = 12

// NewPiece builds a piece from its type and color.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece(uint8(pt) + uint8(c)*6)
}

// Type returns the colorless kind of the piece.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the side the piece belongs to.
func (p Piece) Color() Color {
	return Color(p / 6)
}

// Char returns the FEN character for the piece: uppercase for White,
// lowercase for Black, '.' for NoPiece.
func (p Piece) Char() byte {
	if p == NoPiece {
		return '.'
	}
	ch := pieceTypeChars[p.Type()]
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return ch
}

func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar parses a FEN piece character.
func PieceFromChar(ch byte) Piece {
	lower := ch | 0x20
	for pt, c := range pieceTypeChars {
		if c == lower {
			if ch == lower {
				return NewPiece(PieceType(pt), Black)
			}
			return NewPiece(PieceType(pt), White)
		}
	}
	return NoPiece
}
