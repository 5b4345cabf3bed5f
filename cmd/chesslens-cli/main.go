// chesslens-cli is a line-oriented front end over the same core as the
// GUI: coordinate moves in, colored board and engine evaluation out.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/chesslens/chesslens/internal/board"
	"github.com/chesslens/chesslens/internal/engine"
	"github.com/chesslens/chesslens/internal/game"
)

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgCyan, color.FgBlack)
	evalStyle   = color.New(color.FgHiYellow, color.Bold)
	noteStyle   = color.New(color.FgHiBlack)
)

func main() {
	enginePath := flag.String("engine", "stockfish", "path to a UCI engine binary")
	moveTime := flag.Int("movetime", 500, "engine time per eval in milliseconds")
	fen := flag.String("fen", "", "start from this FEN instead of the initial position")
	flag.Parse()

	g := game.New()
	if *fen != "" {
		var err error
		if g, err = game.NewFromFEN(*fen); err != nil {
			log.Fatalf("bad -fen: %v", err)
		}
	}

	analyzer := engine.NewAnalyzer(*enginePath)
	defer analyzer.Close()
	if err := analyzer.Start(); err != nil {
		noteStyle.Printf("engine %q not available, eval disabled\n", *enginePath)
	}

	printBoard(g)
	repl(g, analyzer, time.Duration(*moveTime)*time.Millisecond)
}

func repl(g *game.Game, analyzer *engine.Analyzer, moveTime time.Duration) {
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "new":
			g.Reset()
			printBoard(g)
		case "undo":
			if !g.Undo() {
				fmt.Println("nothing to undo")
				continue
			}
			printBoard(g)
		case "fen":
			fmt.Println(g.FEN())
		case "moves":
			printMoves(g)
		case "eval":
			printEval(g, analyzer, moveTime)
		default:
			playMove(g, line)
		}
	}
}

func printHelp() {
	fmt.Println(`moves are coordinate pairs: e2e4, g1f3, e7e8q
  new    start over
  undo   take back the last ply
  fen    print the current position
  moves  print the move list
  eval   ask the engine about the current position
  quit   leave`)
}

func playMove(g *game.Game, line string) {
	r, err := g.SubmitUCI(line)
	switch {
	case errors.Is(err, game.ErrInvalidPromotion):
		fmt.Println("promotion move: append the piece letter, e.g. e7e8q")
		return
	case errors.Is(err, game.ErrGameOver):
		fmt.Println("the game is over; use new or undo")
		return
	case err != nil:
		fmt.Printf("illegal move %q\n", line)
		return
	}
	fmt.Println(r.SAN)
	printBoard(g)
	if r.Status != game.InProgress {
		evalStyle.Printf("%s by %s\n", r.Status, r.Method)
	}
}

func printMoves(g *game.Game) {
	sans := g.SANHistory()
	if len(sans) == 0 {
		fmt.Println("no moves yet")
		return
	}
	var sb strings.Builder
	for i, san := range sans {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
	}
	fmt.Println(strings.TrimSpace(sb.String()))
}

// printEval requests an analysis and waits for the engine's final word,
// or for whatever it managed when the deadline passes.
func printEval(g *game.Game, analyzer *engine.Analyzer, moveTime time.Duration) {
	if err := analyzer.RequestAnalysis(g.Position(), engine.Limits{MoveTime: moveTime}); err != nil {
		noteStyle.Println("engine not available")
		return
	}
	deadline := time.Now().Add(moveTime + 2*time.Second)
	var ev engine.Evaluation
	ok := false
	for time.Now().Before(deadline) {
		if ev, ok = analyzer.Latest(); ok && ev.Final {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !ok {
		noteStyle.Println("no evaluation received")
		return
	}
	score := fmt.Sprintf("%+.2f", float64(ev.Score)/100)
	if ev.Mate != 0 {
		score = fmt.Sprintf("mate in %d", ev.Mate)
	}
	best := ev.BestMove
	if best == "" {
		best = "(none)"
	}
	evalStyle.Printf("%s  best %s  depth %d\n", score, best, ev.Depth)
}

func printBoard(g *game.Game) {
	pos := g.Position()
	for rank := 7; rank >= 0; rank-- {
		fmt.Printf("%d ", rank+1)
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			ch := byte(' ')
			if p := pos.PieceAt(sq); p != board.NoPiece {
				ch = p.Char()
			}
			style := darkSquare
			if (rank+file)%2 == 1 {
				style = lightSquare
			}
			style.Printf(" %c ", ch)
		}
		fmt.Println()
	}
	fmt.Println("   a  b  c  d  e  f  g  h")
	if g.Status() == game.InProgress && g.InCheck() {
		noteStyle.Printf("%s to move, in check\n", g.SideToMove())
	}
}
