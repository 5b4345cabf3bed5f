package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a Forsyth-Edwards Notation string into a position.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen %q: want at least 4 fields, got %d", fen, len(fields))
	}

	p := &Position{EnPassant: NoSquare, FullMove: 1}
	p.KingSq[White], p.KingSq[Black] = NoSquare, NoSquare

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen %q: want 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc := PieceFromChar(ch)
			if pc == NoPiece || file > 7 {
				return nil, fmt.Errorf("fen %q: bad placement rank %q", fen, rankStr)
			}
			p.putPiece(NewSquare(file, rank), pc)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("fen %q: bad placement rank %q", fen, rankStr)
		}
	}
	if p.Pieces[White][King].Count() != 1 || p.Pieces[Black][King].Count() != 1 {
		return nil, fmt.Errorf("fen %q: each side needs exactly one king", fen)
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.Castling |= WhiteKingside
			case 'Q':
				p.Castling |= WhiteQueenside
			case 'k':
				p.Castling |= BlackKingside
			case 'q':
				p.Castling |= BlackQueenside
			default:
				return nil, fmt.Errorf("fen %q: bad castling field %q", fen, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen %q: bad en passant field %q", fen, fields[3])
		}
		p.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("fen %q: bad halfmove clock %q", fen, fields[4])
		}
		p.HalfMove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("fen %q: bad fullmove number %q", fen, fields[5])
		}
		p.FullMove = n
	}

	p.Hash = p.computeHash()
	return p, nil
}

// ToFEN renders the position as a FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s %d %d",
		sb.String(), side, p.Castling, p.EnPassant, p.HalfMove, p.FullMove)
}
