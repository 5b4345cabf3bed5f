package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chesslens/chesslens/internal/board"
)

// ErrEngineUnavailable means the engine process could not be started or
// has died. Play continues; only analysis is off.
var ErrEngineUnavailable = errors.New("engine unavailable")

const handshakeTimeout = 5 * time.Second

// Evaluation is one analysis result. Score and Mate are normalized to
// White's perspective regardless of the side to move when requested.
type Evaluation struct {
	Score    int    // centipawns, positive favors White
	Mate     int    // moves until mate, signed; 0 = no forced mate seen
	BestMove string // UCI coordinate notation, may be empty
	Depth    int
	Final    bool // true once the engine committed to its best move
	Tag      uint64
}

// Limits bounds a single analysis request. A zero value falls back to a
// short movetime so the engine always terminates on its own.
type Limits struct {
	Depth    int
	MoveTime time.Duration
}

const defaultMoveTime = 100 * time.Millisecond

// request is an immutable analysis order handed to the worker.
type request struct {
	tag    uint64
	fen    string
	white  bool
	limits Limits
}

// transport is the engine's line-oriented connection. Abstracting it
// over io keeps the protocol and staleness rules testable without a
// live process.
type transport struct {
	out  io.Writer
	in   *bufio.Scanner
	stop func() error
	once sync.Once
}

func (tr *transport) close() error {
	var err error
	tr.once.Do(func() {
		if tr.stop != nil {
			err = tr.stop()
		}
	})
	return err
}

// Analyzer runs a UCI engine in the background and keeps exactly one
// evaluation slot: the newest result for the newest request. Requests
// supersede each other; results for superseded requests are discarded.
type Analyzer struct {
	path string

	tag    atomic.Uint64
	want   atomic.Pointer[request]
	latest atomic.Pointer[Evaluation]
	kick   chan struct{}
	done   chan struct{}
	closed sync.Once

	mu        sync.Mutex
	tr        *transport
	available bool
}

// NewAnalyzer prepares an analyzer for the engine binary at path. The
// process is not started until Start or the first request.
func NewAnalyzer(path string) *Analyzer {
	a := &Analyzer{
		path: path,
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go a.loop()
	return a
}

// newAnalyzerWithTransport wires an analyzer to an already-open
// transport, bypassing process startup. Test seam.
func newAnalyzerWithTransport(tr *transport) *Analyzer {
	a := &Analyzer{
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	a.tr = tr
	a.available = true
	go a.loop()
	return a
}

// Start launches the engine process and performs the UCI handshake.
func (a *Analyzer) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ensureTransportLocked()
}

// Available reports whether the engine is up and answering.
func (a *Analyzer) Available() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.available
}

// RequestAnalysis asks for an evaluation of pos, superseding any
// in-flight request. It never blocks on the engine. The returned error
// only reports availability; the request itself stays queued and is
// served as soon as the engine is back.
func (a *Analyzer) RequestAnalysis(pos *board.Position, limits Limits) error {
	select {
	case <-a.done:
		return ErrEngineUnavailable
	default:
	}
	req := &request{
		tag:    a.tag.Add(1),
		fen:    pos.ToFEN(),
		white:  pos.SideToMove == board.White,
		limits: limits,
	}
	a.want.Store(req)
	select {
	case a.kick <- struct{}{}:
	default:
	}
	if !a.Available() {
		return ErrEngineUnavailable
	}
	return nil
}

// Latest returns the newest evaluation for the newest request, without
// blocking. Results belonging to superseded requests are never returned.
func (a *Analyzer) Latest() (Evaluation, bool) {
	ev := a.latest.Load()
	if ev == nil || ev.Tag != a.tag.Load() {
		return Evaluation{}, false
	}
	return *ev, true
}

// Close shuts the engine down.
func (a *Analyzer) Close() error {
	a.closed.Do(func() { close(a.done) })
	a.mu.Lock()
	defer a.mu.Unlock()
	a.available = false
	if a.tr == nil {
		return nil
	}
	tr := a.tr
	a.tr = nil
	return tr.close()
}

// loop serializes all engine traffic on one goroutine: it owns the
// protocol, so results are always attributed to the request whose "go"
// produced them.
func (a *Analyzer) loop() {
	for {
		select {
		case <-a.done:
			return
		case <-a.kick:
		}
		req := a.want.Load()
		if req == nil {
			continue
		}
		a.mu.Lock()
		err := a.ensureTransportLocked()
		tr := a.tr
		a.mu.Unlock()
		if err != nil {
			continue // retried on the next request
		}
		if err := a.analyze(tr, req); err != nil {
			log.Printf("engine: analysis failed: %v", err)
			a.markBroken()
		}
	}
}

// analyze runs one request to completion, streaming interim evaluations
// into the slot. If a newer request arrives mid-search the engine is
// stopped and everything else on the wire is drained and discarded.
func (a *Analyzer) analyze(tr *transport, req *request) error {
	if _, err := fmt.Fprintf(tr.out, "position fen %s\n", req.fen); err != nil {
		return fmt.Errorf("write position: %w", err)
	}
	if _, err := fmt.Fprintf(tr.out, "%s\n", goCommand(req.limits)); err != nil {
		return fmt.Errorf("write go: %w", err)
	}

	var last Evaluation
	stopped := false
	for tr.in.Scan() {
		line := tr.in.Text()
		if !stopped && a.tag.Load() != req.tag {
			fmt.Fprintln(tr.out, "stop")
			stopped = true
		}
		if best, ok := parseBestMove(line); ok {
			if stopped {
				log.Printf("engine: discarding superseded analysis (tag %d)", req.tag)
				return nil
			}
			ev := last
			ev.BestMove = best
			ev.Final = true
			ev.Tag = req.tag
			a.publish(req, &ev)
			return nil
		}
		info, ok := parseInfo(line)
		if !ok || !info.HasScore {
			continue
		}
		ev := Evaluation{Depth: info.Depth, BestMove: info.PV, Tag: req.tag}
		if info.IsMate {
			ev.Mate = info.Mate
		} else {
			ev.Score = info.CP
		}
		if !req.white {
			// UCI scores are from the side to move.
			ev.Score = -ev.Score
			ev.Mate = -ev.Mate
		}
		last = ev
		if !stopped {
			a.publish(req, &ev)
		}
	}
	if err := tr.in.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return errors.New("engine closed its output")
}

// publish installs an evaluation unless the request was superseded.
func (a *Analyzer) publish(req *request, ev *Evaluation) {
	if a.tag.Load() != req.tag {
		return
	}
	a.latest.Store(ev)
}

func goCommand(l Limits) string {
	cmd := "go"
	if l.Depth > 0 {
		cmd += fmt.Sprintf(" depth %d", l.Depth)
	}
	if l.MoveTime > 0 {
		cmd += fmt.Sprintf(" movetime %d", l.MoveTime.Milliseconds())
	}
	if cmd == "go" {
		cmd += fmt.Sprintf(" movetime %d", defaultMoveTime.Milliseconds())
	}
	return cmd
}

func (a *Analyzer) ensureTransportLocked() error {
	if a.available && a.tr != nil {
		return nil
	}
	if a.path == "" {
		return ErrEngineUnavailable
	}
	tr, err := a.launch()
	if err != nil {
		log.Printf("engine: start %q: %v", a.path, err)
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if err := handshake(tr); err != nil {
		tr.close()
		log.Printf("engine: handshake with %q: %v", a.path, err)
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	a.tr = tr
	a.available = true
	return nil
}

func (a *Analyzer) launch() (*transport, error) {
	cmd := exec.Command(a.path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	tr := &transport{
		out: stdin,
		in:  bufio.NewScanner(stdout),
	}
	tr.stop = func() error {
		fmt.Fprintln(stdin, "quit")
		stdin.Close()
		// Give the engine a moment to exit on its own.
		kill := time.AfterFunc(2*time.Second, func() { cmd.Process.Kill() })
		defer kill.Stop()
		return cmd.Wait()
	}
	return tr, nil
}

func (a *Analyzer) markBroken() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.available = false
	if a.tr != nil {
		a.tr.close()
		a.tr = nil
	}
}

// handshake performs uci/isready. A watchdog tears the transport down if
// the engine never answers, unblocking the scanner.
func handshake(tr *transport) error {
	watchdog := time.AfterFunc(handshakeTimeout, func() { tr.close() })
	defer watchdog.Stop()

	if _, err := fmt.Fprintln(tr.out, "uci"); err != nil {
		return err
	}
	if err := scanUntil(tr.in, "uciok"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tr.out, "isready"); err != nil {
		return err
	}
	return scanUntil(tr.in, "readyok")
}

func scanUntil(sc *bufio.Scanner, want string) error {
	for sc.Scan() {
		if sc.Text() == want {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("stream ended waiting for %q", want)
}
