// ChessLens is an interactive chess position analyzer: play out a
// position on the board while an external UCI engine streams its
// evaluation and best-move suggestion.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/chesslens/chesslens/internal/engine"
	"github.com/chesslens/chesslens/internal/game"
	"github.com/chesslens/chesslens/internal/storage"
	"github.com/chesslens/chesslens/internal/ui"
)

func main() {
	enginePath := flag.String("engine", "", "path to a UCI engine binary (overrides the saved preference)")
	moveTime := flag.Int("movetime", 0, "engine time per analysis in milliseconds (overrides the saved preference)")
	fen := flag.String("fen", "", "start from this FEN instead of the initial position")
	flag.Parse()

	var store *storage.Store
	prefs := storage.DefaultPreferences()
	if dir, err := storage.EnsureDataDir(); err != nil {
		log.Printf("preferences unavailable: %v", err)
	} else if store, err = storage.Open(dir); err != nil {
		log.Printf("preferences unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
		if p, err := store.LoadPreferences(); err != nil {
			log.Printf("using default preferences: %v", err)
		} else {
			prefs = p
		}
	}
	if *enginePath != "" {
		prefs.EnginePath = *enginePath
	}
	if *moveTime > 0 {
		prefs.MoveTimeMS = *moveTime
	}

	g := game.New()
	if *fen != "" {
		var err error
		if g, err = game.NewFromFEN(*fen); err != nil {
			log.Fatalf("bad -fen: %v", err)
		}
	}

	analyzer := engine.NewAnalyzer(prefs.EnginePath)
	defer analyzer.Close()
	if err := analyzer.Start(); err != nil {
		log.Printf("analysis disabled: %v", err)
	}

	app := ui.NewApp(g, analyzer, store, prefs)
	ebiten.SetWindowSize(ui.WindowW, ui.WindowH)
	ebiten.SetWindowTitle("ChessLens")
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
