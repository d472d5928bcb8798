package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/marbles/common"
	"github.com/milk9111/marbles/tuning"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug overlay and tuning hot reload")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	mode := flag.String("mode", "", "jump straight into a mode: duel or race")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	cfg, err := tuning.Load()
	if err != nil {
		log.Printf("tuning load failed, using defaults: %v", err)
	}

	game := NewGame(cfg, *debug)
	switch *mode {
	case "duel":
		game.StartDuel()
	case "race":
		game.StartRace()
	case "":
	default:
		log.Printf("unknown -mode %q, starting at the menu", *mode)
	}

	if *debug {
		if _, err := os.Stat("tuning"); err == nil {
			if err := game.WatchTuning("tuning", "tuning/scripts"); err != nil {
				log.Printf("tuning watch disabled: %v", err)
			}
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("marbles")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
