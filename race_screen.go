package main

import (
	"fmt"
	"image/color"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/marbles/common"
	"github.com/milk9111/marbles/physics"
	"github.com/milk9111/marbles/race"
	"github.com/milk9111/marbles/sfx"
	"golang.org/x/image/colornames"
)

var racerPalette = []color.RGBA{
	colornames.Deepskyblue,
	colornames.Orangered,
	colornames.Gold,
	colornames.Mediumseagreen,
	colornames.Orchid,
	colornames.Sandybrown,
	colornames.Turquoise,
	colornames.Hotpink,
}

// RaceScreen is the presentation and input glue around race.Race: pick a
// marble, stake coins, watch the field drop, collect the payout.
type RaceScreen struct {
	g *Game
	r *race.Race

	selected int
	stake    int
	camY     float64

	resultPlayed bool
}

func NewRaceScreen(g *Game) (*RaceScreen, error) {
	r, err := race.NewRace(g.cfg.Race, g.profile, time.Now().UnixNano())
	if err != nil {
		return nil, err
	}
	s := &RaceScreen{g: g, r: r, stake: g.cfg.Race.MinBet}
	s.hookSounds()
	return s, nil
}

func (s *RaceScreen) hookSounds() {
	for _, rc := range s.r.Racers() {
		if b := s.r.World().Get(rc.Handle); b != nil {
			b.OnCollision = func(_ physics.Handle, impulse float64) {
				sfx.Clack(impulse)
			}
		}
	}
}

func (s *RaceScreen) Update(dt float64) {
	switch s.r.Phase() {
	case race.PhaseBetting:
		s.updateBetting()
	case race.PhaseRunning:
		s.r.Update(dt)
		s.followLeader()
	case race.PhaseFinished:
		s.updateFinished()
	}
}

func (s *RaceScreen) updateBetting() {
	n := len(s.r.Racers())
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		s.selected = (s.selected + n - 1) % n
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		s.selected = (s.selected + 1) % n
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		s.stake += s.g.cfg.Race.MinBet
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && s.stake > s.g.cfg.Race.MinBet {
		s.stake -= s.g.cfg.Race.MinBet
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.r.PlaceBet(s.selected, s.stake)
		s.r.Start()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		// Watch without a stake.
		s.r.Start()
	}
}

// followLeader keeps the camera on the furthest-down marble still racing.
func (s *RaceScreen) followLeader() {
	lead := 0.0
	for _, rc := range s.r.Racers() {
		if b := s.r.World().Get(rc.Handle); b != nil && b.Position.Y > lead {
			lead = b.Position.Y
		}
	}
	target := lead - common.BaseHeight*0.55
	target = common.Clamp(target, 0, s.g.cfg.Race.WorldHeight-common.BaseHeight)
	// Ease toward the leader instead of snapping.
	s.camY = common.Lerp(s.camY, target, 0.12)
}

func (s *RaceScreen) updateFinished() {
	if !s.resultPlayed {
		s.resultPlayed = true
		if bet, _ := s.r.Bet(); bet >= 0 {
			if s.r.Payout() > 0 {
				sfx.Coin()
			} else {
				sfx.Lose()
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if next, err := NewRaceScreen(s.g); err == nil {
			*s = *next
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.g.ToMenu()
	}
}

func (s *RaceScreen) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x17, G: 0x1d, B: 0x26, A: 0xff})

	finishY := float32(s.g.cfg.Race.FinishY - s.camY)
	vector.StrokeLine(screen, 0, finishY, common.BaseWidth, finishY, 3, colornames.White, false)

	racers := s.r.Racers()
	byHandle := make(map[physics.Handle]int, len(racers))
	for i, rc := range racers {
		byHandle[rc.Handle] = i
	}

	s.r.World().ForEach(func(h physics.Handle, b *physics.Body) {
		if idx, ok := byHandle[h]; ok {
			drawCircleBody(screen, b, s.camY, racerPalette[idx%len(racerPalette)])
			return
		}
		if b.Kind == physics.ShapeRect {
			drawRectBody(screen, b, s.camY, colornames.Dimgray)
			return
		}
		drawCircleBody(screen, b, s.camY, colornames.Slategray)
	})

	s.drawHUD(screen)
	if s.g.debug {
		drawDebugOverlay(screen, s.r.World(), s.camY)
	}
}

func (s *RaceScreen) drawHUD(screen *ebiten.Image) {
	switch s.r.Phase() {
	case race.PhaseBetting:
		name := s.r.Racers()[s.selected].Name
		msg := fmt.Sprintf("bet on: %s  stake: %d  coins: %d   [<-/->] marble  [up/down] stake  [enter] bet & go  [space] just watch",
			name, s.stake, s.g.profile.Coins)
		drawHUD(screen, msg, 8, 8)
	case race.PhaseRunning:
		drawHUD(screen, fmt.Sprintf("%.1fs", s.r.Elapsed()), 8, 8)
	case race.PhaseFinished:
		s.drawStandings(screen)
	}
}

func (s *RaceScreen) drawStandings(screen *ebiten.Image) {
	standings := append([]race.Racer(nil), s.r.Racers()...)
	sort.Slice(standings, func(a, b int) bool { return standings[a].Place < standings[b].Place })

	for i, rc := range standings {
		drawHUD(screen, fmt.Sprintf("%d. %s", rc.Place, rc.Name), 8, 8+i*16)
	}

	msg := "no stake placed"
	if bet, amount := s.r.Bet(); bet >= 0 {
		if s.r.Payout() > 0 {
			msg = fmt.Sprintf("%s came first! +%d coins", s.r.Racers()[bet].Name, s.r.Payout())
		} else {
			msg = fmt.Sprintf("%s lost your %d coins", s.r.Racers()[bet].Name, amount)
		}
	}
	drawHUD(screen, msg+"   [R] race again  [M] menu", 8, 8+len(standings)*16+8)
}
