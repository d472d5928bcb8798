package main

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/marbles/duel"
	"github.com/milk9111/marbles/physics"
	"github.com/milk9111/marbles/sfx"
	"github.com/milk9111/marbles/tuning"
	"golang.org/x/image/colornames"
)

// maxDragDistance maps a full-strength drag to the grade-capped max force.
const maxDragDistance = 200.0

// DuelScreen is the presentation and input glue around duel.Match: it turns
// pointer drags into launch vectors, draws the field, and hooks collision
// callbacks to sounds.
type DuelScreen struct {
	g     *Game
	match *duel.Match
	aimer *duel.Aimer

	nextCfg tuning.Duel

	dragging  bool
	dragStart cp.Vector

	resultPlayed bool
}

func NewDuelScreen(g *Game) (*DuelScreen, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	match, err := duel.NewMatch(g.cfg.Duel, g.profile, time.Now().UnixNano())
	if err != nil {
		return nil, err
	}

	s := &DuelScreen{
		g:       g,
		match:   match,
		aimer:   duel.NewAimer(g.cfg.Duel.AI, rng),
		nextCfg: g.cfg.Duel,
	}
	match.SetAimer(s.aimer)
	s.hookSounds()
	return s, nil
}

// ApplyTuning stores reloaded values for the next rematch and refreshes the
// AI script; the running match keeps its constants.
func (s *DuelScreen) ApplyTuning(cfg tuning.Duel) {
	s.nextCfg = cfg
	_ = s.aimer.Reload()
}

// hookSounds attaches the clack callback to both marbles. Called again after
// every reset because the world is rebuilt.
func (s *DuelScreen) hookSounds() {
	for _, h := range []physics.Handle{s.match.PlayerHandle(), s.match.RivalHandle()} {
		if b := s.match.World().Get(h); b != nil {
			b.OnCollision = func(_ physics.Handle, impulse float64) {
				sfx.Clack(impulse)
			}
		}
	}
}

func (s *DuelScreen) Update(dt float64) {
	switch s.match.Phase() {
	case duel.PhaseGameOver:
		s.updateGameOver()
	default:
		s.updateDrag()
	}
	s.match.Update(dt)
}

func (s *DuelScreen) updateGameOver() {
	s.dragging = false
	if !s.resultPlayed {
		s.resultPlayed = true
		if winner, ok := s.match.Winner(); ok && winner == duel.SidePlayer {
			sfx.Win()
		} else {
			sfx.Lose()
		}
	}
	if !s.match.Concluded() {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.rematch()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.g.ToMenu()
	}
}

func (s *DuelScreen) rematch() {
	match, err := duel.NewMatch(s.nextCfg, s.g.profile, time.Now().UnixNano())
	if err != nil {
		s.g.ToMenu()
		return
	}
	s.match = match
	match.SetAimer(s.aimer)
	s.hookSounds()
	s.resultPlayed = false
}

// updateDrag implements drag-to-launch: press inside your marble while it is
// your turn to aim, drag, release. The launch vector is the reverse of the
// drag displacement, scaled so a maxDragDistance drag hits max force.
func (s *DuelScreen) updateDrag() {
	canAim := s.match.Phase() == duel.PhaseAiming && s.match.Active() == duel.SidePlayer
	if !canAim {
		s.dragging = false
		return
	}

	cx, cy := ebiten.CursorPosition()
	cursor := cp.Vector{X: float64(cx), Y: float64(cy)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		marble := s.match.World().Get(s.match.PlayerHandle())
		if marble != nil && cursor.Distance(marble.Position) <= marble.Radius*2 {
			s.dragging = true
			s.dragStart = cursor
		}
	}

	if s.dragging && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		s.dragging = false
		s.match.Launch(duel.SidePlayer, s.launchVector(cursor))
	}
}

func (s *DuelScreen) launchVector(cursor cp.Vector) cp.Vector {
	pull := s.dragStart.Sub(cursor)
	dist := pull.Length()
	if dist == 0 {
		return cp.Vector{}
	}
	frac := dist / maxDragDistance
	if frac > 1 {
		frac = 1
	}
	return pull.Mult(s.match.MaxForce() * frac / dist)
}

func (s *DuelScreen) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x20, G: 0x2a, B: 0x1e, A: 0xff})

	s.match.World().ForEach(func(h physics.Handle, b *physics.Body) {
		switch {
		case h == s.match.PlayerHandle():
			drawCircleBody(screen, b, 0, colornames.Deepskyblue)
		case h == s.match.RivalHandle():
			drawCircleBody(screen, b, 0, colornames.Orangered)
		case b.Kind == physics.ShapeRect:
			drawRectBody(screen, b, 0, colornames.Dimgray)
		default:
			drawCircleBody(screen, b, 0, colornames.Dimgray)
		}
	})

	if s.dragging {
		marble := s.match.World().Get(s.match.PlayerHandle())
		cx, cy := ebiten.CursorPosition()
		v := s.launchVector(cp.Vector{X: float64(cx), Y: float64(cy)})
		if marble != nil && v.LengthSq() > 0 {
			// Preview points where the marble will go, not where the cursor is.
			tip := marble.Position.Add(v.Mult(0.25))
			vector.StrokeLine(screen,
				float32(marble.Position.X), float32(marble.Position.Y),
				float32(tip.X), float32(tip.Y), 2, colornames.Lightgrey, true)
		}
	}

	s.drawHUD(screen)
	if s.g.debug {
		drawDebugOverlay(screen, s.match.World(), 0)
	}
}

func (s *DuelScreen) drawHUD(screen *ebiten.Image) {
	profile := s.g.profile
	msg := fmt.Sprintf("%s  |  turn: %s  |  time left: %.0fs  |  grade: %d  xp: %d  coins: %d",
		s.match.Phase(), s.match.Active(), s.match.Countdown(), profile.Grade, profile.Experience, profile.Coins)
	drawHUD(screen, msg, 8, 8)

	if winner, ok := s.match.Winner(); ok && s.match.Concluded() {
		result := "You were captured. Rival wins."
		if winner == duel.SidePlayer {
			result = "Capture! You win."
		}
		drawHUD(screen, result+"  [R] rematch   [M] menu", 8, 28)
	}
}
