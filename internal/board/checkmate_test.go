package board

import "testing"

func TestCheckmateDetection(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		mate bool
	}{
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true},
		{"back rank mate", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", true},
		{"smothered mate", "6rk/5Npp/8/8/8/8/8/6K1 b - - 0 1", true},
		{"check but escapable", "4k3/4R3/8/8/8/8/8/4K3 b - - 0 1", false},
		{"start position", StartFEN, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParseFEN(t, tt.fen)
			if got := p.IsCheckmate(); got != tt.mate {
				t.Errorf("IsCheckmate = %v, want %v", got, tt.mate)
			}
		})
	}
}

func TestStalemateDetection(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		stalemate bool
	}{
		{"queen stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", true},
		{"cornered king", "k7/2Q5/8/8/8/8/8/4K3 b - - 0 1", true},
		{"mate is not stalemate", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", false},
		{"start position", StartFEN, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParseFEN(t, tt.fen)
			if got := p.IsStalemate(); got != tt.stalemate {
				t.Errorf("IsStalemate = %v, want %v", got, tt.stalemate)
			}
		})
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name         string
		fen          string
		insufficient bool
	}{
		{"king vs king", "k7/8/8/8/8/8/8/7K w - - 0 1", true},
		{"king and bishop vs king", "k7/8/8/8/8/8/8/6BK w - - 0 1", true},
		{"king and knight vs king", "k7/8/8/8/8/8/8/6NK w - - 0 1", true},
		{"two minors", "kn6/8/8/8/8/8/8/6BK w - - 0 1", false},
		{"king and rook vs king", "k7/8/8/8/8/8/8/6RK w - - 0 1", false},
		{"king and pawn vs king", "k7/8/8/8/8/8/6P1/7K w - - 0 1", false},
		{"start position", StartFEN, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParseFEN(t, tt.fen)
			if got := p.IsInsufficientMaterial(); got != tt.insufficient {
				t.Errorf("IsInsufficientMaterial = %v, want %v", got, tt.insufficient)
			}
		})
	}
}
