package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chesslens/chesslens/internal/board"
)

// testBridge drives an Analyzer over in-memory pipes: the test plays the
// engine, reading commands and writing responses.
type testBridge struct {
	a        *Analyzer
	commands *bufio.Scanner
	respond  *io.PipeWriter
}

func newTestBridge(t *testing.T) *testBridge {
	t.Helper()
	cmdR, cmdW := io.Pipe()
	outR, outW := io.Pipe()
	tr := &transport{
		out: cmdW,
		in:  bufio.NewScanner(outR),
	}
	tr.stop = func() error {
		outR.Close()
		cmdW.Close()
		return nil
	}
	b := &testBridge{
		a:        newAnalyzerWithTransport(tr),
		commands: bufio.NewScanner(cmdR),
		respond:  outW,
	}
	t.Cleanup(func() {
		b.a.Close()
		outW.Close()
		cmdR.Close()
	})
	return b
}

// expectCommand reads the next engine command and checks its prefix.
func (b *testBridge) expectCommand(t *testing.T, prefix string) string {
	t.Helper()
	if !b.commands.Scan() {
		t.Fatalf("command stream ended waiting for %q", prefix)
	}
	line := b.commands.Text()
	if !strings.HasPrefix(line, prefix) {
		t.Fatalf("engine received %q, want prefix %q", line, prefix)
	}
	return line
}

func (b *testBridge) send(t *testing.T, line string) {
	t.Helper()
	if _, err := fmt.Fprintln(b.respond, line); err != nil {
		t.Fatalf("send %q: %v", line, err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStreamingEvaluation(t *testing.T) {
	b := newTestBridge(t)
	pos := board.NewPosition()
	if err := b.a.RequestAnalysis(pos, Limits{MoveTime: 50 * time.Millisecond}); err != nil {
		t.Fatalf("RequestAnalysis: %v", err)
	}
	if got := b.expectCommand(t, "position fen "); got != "position fen "+board.StartFEN {
		t.Errorf("position command = %q", got)
	}
	if got := b.expectCommand(t, "go"); got != "go movetime 50" {
		t.Errorf("go command = %q", got)
	}

	b.send(t, "info depth 10 seldepth 14 nodes 12345 score cp 34 pv e2e4 e7e5")
	waitFor(t, "streaming evaluation", func() bool {
		ev, ok := b.a.Latest()
		return ok && ev.Depth == 10 && ev.Score == 34 && !ev.Final && ev.BestMove == "e2e4"
	})

	b.send(t, "bestmove e2e4 ponder e7e5")
	waitFor(t, "final evaluation", func() bool {
		ev, ok := b.a.Latest()
		return ok && ev.Final && ev.BestMove == "e2e4" && ev.Score == 34
	})
}

func TestScoreNormalizedToWhite(t *testing.T) {
	b := newTestBridge(t)
	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.a.RequestAnalysis(pos, Limits{Depth: 12}); err != nil {
		t.Fatal(err)
	}
	b.expectCommand(t, "position fen ")
	if got := b.expectCommand(t, "go"); got != "go depth 12" {
		t.Errorf("go command = %q", got)
	}

	// Black to move: +25 for the mover is -25 for White.
	b.send(t, "info depth 8 score cp 25 pv e7e5")
	waitFor(t, "negated centipawns", func() bool {
		ev, ok := b.a.Latest()
		return ok && ev.Score == -25
	})

	// Mate for the mover is mate against White.
	b.send(t, "info depth 12 score mate 3 pv d8h4")
	waitFor(t, "negated mate", func() bool {
		ev, ok := b.a.Latest()
		return ok && ev.Mate == -3 && ev.Score == 0
	})
}

func TestSupersededRequestIsDiscarded(t *testing.T) {
	b := newTestBridge(t)
	posA := board.NewPosition()
	if err := b.a.RequestAnalysis(posA, Limits{}); err != nil {
		t.Fatal(err)
	}
	b.expectCommand(t, "position fen ")
	b.expectCommand(t, "go")

	b.send(t, "info depth 6 score cp 40 pv d2d4")
	waitFor(t, "first result", func() bool {
		_, ok := b.a.Latest()
		return ok
	})

	// A newer position supersedes the request in flight.
	posB := posA.Copy()
	posB.MakeMove(board.NewMove(board.E2, board.E4))
	if err := b.a.RequestAnalysis(posB, Limits{}); err != nil {
		t.Fatal(err)
	}

	// The stale slot is invisible the instant the new request exists.
	if ev, ok := b.a.Latest(); ok {
		t.Fatalf("Latest after superseding request = %+v, want nothing", ev)
	}

	// The engine keeps talking about the old search; the bridge must
	// stop it and discard everything up to its bestmove.
	b.send(t, "info depth 7 score cp 45 pv d2d4")
	b.expectCommand(t, "stop")
	b.send(t, "info depth 8 score cp 50 pv d2d4")
	b.send(t, "bestmove d2d4")

	if got := b.expectCommand(t, "position fen "); got != "position fen "+posB.ToFEN() {
		t.Errorf("position command = %q", got)
	}
	b.expectCommand(t, "go")
	if ev, ok := b.a.Latest(); ok {
		t.Fatalf("stale result leaked: %+v", ev)
	}

	// Black to move in posB: the mover-relative cp -12 comes out as +12
	// once normalized to White's perspective.
	b.send(t, "info depth 5 score cp -12 pv g8f6")
	b.send(t, "bestmove g8f6")
	waitFor(t, "result for the new request", func() bool {
		ev, ok := b.a.Latest()
		return ok && ev.Final && ev.BestMove == "g8f6" && ev.Score == 12
	})
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	b := newTestBridge(t)
	if err := b.a.RequestAnalysis(board.NewPosition(), Limits{}); err != nil {
		t.Fatal(err)
	}
	b.expectCommand(t, "position fen ")
	b.expectCommand(t, "go")

	b.send(t, "")
	b.send(t, "id name something")
	b.send(t, "info string lower bound")
	b.send(t, "info depth x score cp notanumber")
	b.send(t, "bestmove e2e4")
	waitFor(t, "final after garbage", func() bool {
		ev, ok := b.a.Latest()
		return ok && ev.Final && ev.BestMove == "e2e4"
	})
}

func TestMatedPositionHasNoBestMove(t *testing.T) {
	b := newTestBridge(t)
	pos, err := board.ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.a.RequestAnalysis(pos, Limits{}); err != nil {
		t.Fatal(err)
	}
	b.expectCommand(t, "position fen ")
	b.expectCommand(t, "go")
	b.send(t, "info depth 0 score mate 0")
	b.send(t, "bestmove (none)")
	waitFor(t, "final without best move", func() bool {
		ev, ok := b.a.Latest()
		return ok && ev.Final && ev.BestMove == ""
	})
}

func TestHandshake(t *testing.T) {
	cmdR, cmdW := io.Pipe()
	outR, outW := io.Pipe()
	tr := &transport{out: cmdW, in: bufio.NewScanner(outR)}
	tr.stop = func() error {
		outR.Close()
		cmdW.Close()
		return nil
	}
	defer tr.close()

	go func() {
		sc := bufio.NewScanner(cmdR)
		for sc.Scan() {
			switch sc.Text() {
			case "uci":
				fmt.Fprintln(outW, "id name testengine")
				fmt.Fprintln(outW, "uciok")
			case "isready":
				fmt.Fprintln(outW, "readyok")
			}
		}
	}()
	if err := handshake(tr); err != nil {
		t.Fatalf("handshake: %v", err)
	}
}

func TestHandshakeFailure(t *testing.T) {
	cmdR, cmdW := io.Pipe()
	outR, outW := io.Pipe()
	tr := &transport{out: cmdW, in: bufio.NewScanner(outR)}
	tr.stop = func() error {
		outR.Close()
		cmdW.Close()
		return nil
	}
	defer tr.close()

	go func() {
		sc := bufio.NewScanner(cmdR)
		for sc.Scan() {
		}
	}()
	outW.Close() // the "engine" dies without answering
	if err := handshake(tr); err == nil {
		t.Fatal("handshake with a dead engine should fail")
	}
}

func TestStartWithMissingBinary(t *testing.T) {
	a := NewAnalyzer("/nonexistent/engine/binary")
	defer a.Close()
	if err := a.Start(); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("Start error = %v, want ErrEngineUnavailable", err)
	}
	if a.Available() {
		t.Error("analyzer should not report available")
	}
	if err := a.RequestAnalysis(board.NewPosition(), Limits{}); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("RequestAnalysis error = %v, want ErrEngineUnavailable", err)
	}
}

func TestClosedAnalyzerRejectsRequests(t *testing.T) {
	b := newTestBridge(t)
	if err := b.a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.a.RequestAnalysis(board.NewPosition(), Limits{}); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("RequestAnalysis after Close = %v, want ErrEngineUnavailable", err)
	}
}
