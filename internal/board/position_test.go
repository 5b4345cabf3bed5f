package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - - 37 52",
	}
	for _, fen := range fens {
		p := mustParseFEN(t, fen)
		if got := p.ToFEN(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	fens := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",              // missing fields
		"rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",   // 7 ranks
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", // bad rank
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KXkq - 0 1", // bad castling
		"8/8/8/8/8/8/8/KK6 w - - 0 1",                              // two white kings, none black
	}
	for _, fen := range fens {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q): want error, got none", fen)
		}
	}
}

func TestMakeUnmakeRestoresPosition(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		"8/P7/8/8/8/8/k6K/8 w - - 0 1",
	}
	for _, fen := range fens {
		p := mustParseFEN(t, fen)
		before := *p
		list := legalMoves(p)
		for i := 0; i < list.Len(); i++ {
			m := list.Get(i)
			u := p.MakeMove(m)
			p.UnmakeMove(m, u)
			if diff := cmp.Diff(before, *p); diff != "" {
				t.Fatalf("%s: make/unmake %s changed the position (-want +got):\n%s", fen, m, diff)
			}
		}
	}
}

func TestIncrementalHashMatchesRecompute(t *testing.T) {
	p := NewPosition()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6", "e1g1", "f6e4"} {
		m, err := ParseMove(p, uci)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", uci, err)
		}
		p.MakeMove(m)
		if p.Hash != p.computeHash() {
			t.Fatalf("after %s: incremental hash %x != recomputed %x", uci, p.Hash, p.computeHash())
		}
	}
}

func TestCastlingRightsOnlyRevoked(t *testing.T) {
	t.Run("king move revokes both", func(t *testing.T) {
		p := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		p.MakeMove(NewMove(E1, E2))
		if p.Castling&(WhiteKingside|WhiteQueenside) != 0 {
			t.Errorf("castling after Ke2 = %s, white rights should be gone", p.Castling)
		}
		if p.Castling&(BlackKingside|BlackQueenside) != BlackKingside|BlackQueenside {
			t.Errorf("castling after Ke2 = %s, black rights should survive", p.Castling)
		}
	})
	t.Run("rook move revokes one side", func(t *testing.T) {
		p := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		p.MakeMove(NewMove(A1, A5))
		if p.Castling != WhiteKingside|BlackKingside|BlackQueenside {
			t.Errorf("castling after Ra5 = %s, want Kkq", p.Castling)
		}
	})
	t.Run("rook capture revokes for the victim", func(t *testing.T) {
		p := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		m, err := p.ParseSAN("Rxa8")
		if err != nil {
			t.Fatal(err)
		}
		p.MakeMove(m)
		if p.Castling != WhiteKingside|BlackKingside {
			t.Errorf("castling after Rxa8 = %s, want Kk", p.Castling)
		}
	})
}

func TestCastleMoveRelocatesRook(t *testing.T) {
	p := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	u := p.MakeMove(NewCastleMove(E1, G1))
	if got := p.PieceAt(G1); got != NewPiece(King, White) {
		t.Errorf("g1 = %s, want white king", got)
	}
	if got := p.PieceAt(F1); got != NewPiece(Rook, White) {
		t.Errorf("f1 = %s, want white rook", got)
	}
	if p.PieceAt(E1) != NoPiece || p.PieceAt(H1) != NoPiece {
		t.Error("e1 and h1 should be empty after O-O")
	}
	p.UnmakeMove(NewCastleMove(E1, G1), u)
	if p.PieceAt(E1) != NewPiece(King, White) || p.PieceAt(H1) != NewPiece(Rook, White) {
		t.Error("unmake did not restore king and rook")
	}
}

func TestHalfMoveClock(t *testing.T) {
	p := mustParseFEN(t, "4k3/7p/8/8/8/8/R7/4K3 w - - 10 20")
	p.MakeMove(NewMove(A2, A5))
	if p.HalfMove != 11 {
		t.Errorf("halfmove after quiet rook move = %d, want 11", p.HalfMove)
	}
	p.MakeMove(NewMove(H7, H6))
	if p.HalfMove != 0 {
		t.Errorf("halfmove after pawn move = %d, want 0", p.HalfMove)
	}
}
