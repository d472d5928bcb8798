package main

import (
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/marbles/common"
	"github.com/milk9111/marbles/tuning"
)

// Mode is the active top-level screen.
type Mode int

const (
	ModeMenu Mode = iota
	ModeDuel
	ModeRace
)

// maxFrameDelta caps the integration step after the window was backgrounded,
// so physics never takes one huge jump.
const maxFrameDelta = 0.1

type Game struct {
	cfg     tuning.Config
	profile *common.Profile
	debug   bool

	mode   Mode
	paused bool
	quit   bool

	menuUI  *menuUI
	pauseUI *pauseUI

	duel *DuelScreen
	race *RaceScreen

	last    time.Time
	watcher *tuning.Watcher
}

func NewGame(cfg tuning.Config, debug bool) *Game {
	g := &Game{
		cfg:     cfg,
		profile: common.NewProfile(cfg.StartingCoins),
		debug:   debug,
	}
	g.menuUI = newMenuUI(g)
	g.pauseUI = newPauseUI(g)
	return g
}

// StartDuel switches to the duel screen, building a fresh match.
func (g *Game) StartDuel() {
	screen, err := NewDuelScreen(g)
	if err != nil {
		log.Printf("duel start failed: %v", err)
		return
	}
	g.duel = screen
	g.mode = ModeDuel
	g.paused = false
}

// StartRace switches to the race screen, building a fresh course.
func (g *Game) StartRace() {
	screen, err := NewRaceScreen(g)
	if err != nil {
		log.Printf("race start failed: %v", err)
		return
	}
	g.race = screen
	g.mode = ModeRace
	g.paused = false
}

// ToMenu returns to the main menu, dropping the current mode's state.
func (g *Game) ToMenu() {
	g.mode = ModeMenu
	g.paused = false
	g.duel = nil
	g.race = nil
}

// WatchTuning starts hot reload for the given directories; missing ones are
// skipped.
func (g *Game) WatchTuning(dirs ...string) error {
	present := dirs[:0]
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err == nil {
			present = append(present, dir)
		}
	}
	if len(present) == 0 {
		return nil
	}
	w, err := tuning.NewWatcher(present...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	now := time.Now()
	dt := maxFrameDelta
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}
	}
	g.last = now

	g.drainTuningEvents()

	if g.mode != ModeMenu && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}

	switch {
	case g.mode == ModeMenu:
		g.menuUI.Update()
	case g.paused:
		g.pauseUI.Update()
	case g.mode == ModeDuel && g.duel != nil:
		g.duel.Update(dt)
	case g.mode == ModeRace && g.race != nil:
		g.race.Update(dt)
	}
	return nil
}

// drainTuningEvents applies tuning/script edits without blocking the frame.
func (g *Game) drainTuningEvents() {
	if g.watcher == nil {
		return
	}
	reload := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("tuning: %s changed", name)
			reload = true
		case err, ok := <-g.watcher.Errors:
			if ok && err != nil {
				log.Printf("tuning watch: %v", err)
			}
		default:
			if reload {
				g.reloadTuning()
			}
			return
		}
	}
}

func (g *Game) reloadTuning() {
	cfg, err := tuning.Load()
	if err != nil {
		log.Printf("tuning reload rejected: %v", err)
		return
	}
	g.cfg = cfg
	if g.duel != nil {
		g.duel.ApplyTuning(cfg.Duel)
	}
	log.Printf("tuning reloaded; new values apply to the next match")
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.mode {
	case ModeMenu:
		g.menuUI.Draw(screen)
	case ModeDuel:
		if g.duel != nil {
			g.duel.Draw(screen)
		}
	case ModeRace:
		if g.race != nil {
			g.race.Draw(screen)
		}
	}
	if g.paused && g.mode != ModeMenu {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
