package board

import (
	"fmt"
	"strings"
)

// MoveToSAN renders a legal move in Standard Algebraic Notation, with
// minimal disambiguation and a trailing + or # when it gives check.
func (p *Position) MoveToSAN(m Move) string {
	var sb strings.Builder
	from, to := m.From(), m.To()
	moving := p.PieceAt(from)

	switch {
	case m.IsCastle():
		if to.File() > from.File() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	case moving.Type() == Pawn:
		if from.File() != to.File() {
			sb.WriteByte(byte('a' + from.File()))
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(NewPiece(m.Promotion(), White).Char())
		}
	default:
		sb.WriteByte(NewPiece(moving.Type(), White).Char())
		sb.WriteString(p.sanDisambiguation(m, moving))
		if p.All.IsSet(to) {
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
	}

	after := *p
	after.MakeMove(m)
	if after.InCheck() {
		if after.IsCheckmate() {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('+')
		}
	}
	return sb.String()
}

// sanDisambiguation returns the minimal origin hint needed when another
// piece of the same type can legally reach the same destination.
func (p *Position) sanDisambiguation(m Move, moving Piece) string {
	from, to := m.From(), m.To()
	var legal MoveList
	p.GenerateLegalMoves(&legal)

	sameFile, sameRank, ambiguous := false, false, false
	for i := 0; i < legal.Len(); i++ {
		other := legal.Get(i)
		if other.To() != to || other.From() == from {
			continue
		}
		if p.PieceAt(other.From()) != moving {
			continue
		}
		ambiguous = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(byte('a' + from.File()))
	case !sameRank:
		return string(byte('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN resolves a SAN string to the unique legal move it denotes.
// Check, mate and annotation suffixes are ignored during matching.
func (p *Position) ParseSAN(s string) (Move, error) {
	want := normalizeSAN(s)
	if want == "" {
		return NoMove, fmt.Errorf("invalid san %q", s)
	}
	var legal MoveList
	p.GenerateLegalMoves(&legal)
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if normalizeSAN(p.MoveToSAN(m)) == want {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("san %q: no matching legal move", s)
}

func normalizeSAN(s string) string {
	s = strings.TrimRight(s, "+#!?")
	// Accept 0-0 style castling.
	s = strings.ReplaceAll(s, "0", "O")
	return s
}
