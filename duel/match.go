// Package duel implements the turn-based marble duel: two marbles flick at
// each other on an obstacle field until one ends its shot within hand-span
// range of the other.
package duel

import (
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/marbles/common"
	"github.com/milk9111/marbles/physics"
	"github.com/milk9111/marbles/tuning"
)

// Side identifies one of the two duelists.
type Side int

const (
	SidePlayer Side = iota
	SideRival
)

func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "rival"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SidePlayer {
		return SideRival
	}
	return SidePlayer
}

// Phase is the match state.
type Phase int

const (
	PhaseAiming Phase = iota
	PhaseMoving
	PhaseSettling
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAiming:
		return "aiming"
	case PhaseMoving:
		return "moving"
	case PhaseSettling:
		return "settling"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Match owns the body collection and turn state for one duel. It is created
// per match, reset in place for a rematch, and driven by Update once per
// frame from the game loop. Not safe for concurrent use.
type Match struct {
	cfg     tuning.Duel
	profile *common.Profile
	rng     *rand.Rand

	world  *physics.World
	player physics.Handle
	rival  physics.Handle

	phase     Phase
	active    Side
	lastActor Side
	countdown float64

	// settleLeft delays outcome evaluation so the final frame renders;
	// evaluated guards it against firing twice across a reset.
	settleLeft float64
	evaluated  bool
	overLeft   float64

	winner  Side
	decided bool

	// aimer drives the rival's turns. Nil means both sides launch through
	// Launch (hotseat play, and deterministic tests).
	aimer  *Aimer
	aiWait float64
}

// NewMatch builds the world, marbles, and obstacle field, and picks the
// opening side at random.
func NewMatch(cfg tuning.Duel, profile *common.Profile, seed int64) (*Match, error) {
	m := &Match{
		cfg:     cfg,
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
	}
	if err := m.build(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetAimer hands the rival's turns to a computer opponent.
func (m *Match) SetAimer(a *Aimer) {
	m.aimer = a
}

func (m *Match) build() error {
	// Marbles plus obstacles, with a little slack.
	capacity := 2 + m.cfg.ObstacleCount + 2
	m.world = physics.NewWorld(m.cfg.WorldWidth, m.cfg.WorldHeight, capacity)

	midY := m.cfg.WorldHeight / 2
	mat := m.cfg.Marble

	player, err := physics.NewCircle("player", cp.Vector{X: m.cfg.WorldWidth * 0.25, Y: midY},
		mat.Radius, mat.Mass, mat.Restitution, mat.Friction)
	if err != nil {
		return fmt.Errorf("duel: player marble: %w", err)
	}
	rival, err := physics.NewCircle("rival", cp.Vector{X: m.cfg.WorldWidth * 0.75, Y: midY},
		mat.Radius, mat.Mass, mat.Restitution, mat.Friction)
	if err != nil {
		return fmt.Errorf("duel: rival marble: %w", err)
	}

	var ok bool
	if m.player, ok = m.world.Add(player); !ok {
		return fmt.Errorf("duel: world full adding player marble")
	}
	if m.rival, ok = m.world.Add(rival); !ok {
		return fmt.Errorf("duel: world full adding rival marble")
	}

	if err := m.scatterObstacles(); err != nil {
		return err
	}

	m.phase = PhaseAiming
	m.active = Side(m.rng.Intn(2))
	m.lastActor = m.active
	m.countdown = m.cfg.TurnSeconds
	m.aiWait = m.cfg.AI.ThinkSeconds
	m.settleLeft = 0
	m.evaluated = false
	m.overLeft = 0
	m.decided = false
	return nil
}

// scatterObstacles drops static rectangles into the middle band of the field,
// clear of both marbles' spawn points.
func (m *Match) scatterObstacles() error {
	spanMin, spanMax := m.cfg.ObstacleMinSize, m.cfg.ObstacleMaxSize
	if spanMax < spanMin {
		spanMax = spanMin
	}
	clearance := m.cfg.Marble.Radius*2 + m.cfg.HandSpan/2

	for i := 0; i < m.cfg.ObstacleCount; i++ {
		w := spanMin + m.rng.Float64()*(spanMax-spanMin)
		h := spanMin + m.rng.Float64()*(spanMax-spanMin)

		var pos cp.Vector
		placed := false
		for attempt := 0; attempt < 12; attempt++ {
			pos = cp.Vector{
				X: m.cfg.WorldWidth*0.35 + m.rng.Float64()*m.cfg.WorldWidth*0.3,
				Y: h/2 + m.rng.Float64()*(m.cfg.WorldHeight-h),
			}
			if pos.Distance(m.marble(SidePlayer).Position) > clearance &&
				pos.Distance(m.marble(SideRival).Position) > clearance {
				placed = true
				break
			}
		}
		if !placed {
			continue
		}

		rect, err := physics.NewStaticRect(fmt.Sprintf("obstacle-%d", i), pos, w, h, m.cfg.ObstacleRestitution)
		if err != nil {
			return fmt.Errorf("duel: obstacle %d: %w", i, err)
		}
		if _, ok := m.world.Add(rect); !ok {
			break
		}
	}
	return nil
}

// Reset rebuilds the match for a rematch: fresh bodies, fresh obstacle
// layout, new random opening side. Any pending settle or game-over timer is
// discarded so a stale outcome cannot fire into the new round.
func (m *Match) Reset() error {
	return m.build()
}

// Update advances the match by dt seconds. The caller clamps dt.
func (m *Match) Update(dt float64) {
	if m == nil || dt <= 0 {
		return
	}

	switch m.phase {
	case PhaseAiming:
		m.countdown -= dt
		if m.countdown <= 0 {
			// Timeout forfeits the turn: no launch, no outcome check.
			m.switchTurn()
			return
		}
		if m.aimer != nil && m.active == SideRival {
			m.aiWait -= dt
			if m.aiWait <= 0 {
				self := m.marble(SideRival)
				target := m.marble(SidePlayer)
				v := m.aimer.Aim(self.Position, target.Position, m.gradeFor(SideRival), m.maxForceFor(SideRival))
				m.Launch(SideRival, v)
			}
		}

	case PhaseMoving:
		m.world.Step(dt)
		if m.world.Settled() {
			m.phase = PhaseSettling
			m.settleLeft = m.cfg.SettleDelaySeconds
			m.evaluated = false
		}

	case PhaseSettling:
		m.settleLeft -= dt
		if m.settleLeft <= 0 && !m.evaluated {
			m.evaluated = true
			m.concludeTurn()
		}

	case PhaseGameOver:
		if m.overLeft > 0 {
			m.overLeft -= dt
		}
	}
}

// Launch applies a launch vector to side's marble. Only valid while that side
// is aiming; anything else is silently ignored so an input race cannot break
// a frame. The vector's magnitude is clamped to the side's max force.
func (m *Match) Launch(side Side, v cp.Vector) bool {
	if m == nil || m.phase != PhaseAiming || side != m.active {
		return false
	}
	if v.LengthSq() == 0 {
		return false
	}

	maxForce := m.maxForceFor(side)
	if v.Length() > maxForce {
		v = v.Normalize().Mult(maxForce)
	}

	m.marble(side).Velocity = v
	m.lastActor = side
	m.phase = PhaseMoving
	return true
}

// concludeTurn applies the capture rule: if the two marbles rest within the
// acting side's hand span, the acting side wins; otherwise the turn passes.
func (m *Match) concludeTurn() {
	player := m.marble(SidePlayer)
	rival := m.marble(SideRival)

	if physics.CheckDistance(player, rival, m.handSpanFor(m.lastActor)) {
		m.winner = m.lastActor
		m.decided = true
		m.phase = PhaseGameOver
		m.overLeft = m.cfg.GameOverDelaySeconds
		if m.winner == SidePlayer && m.profile != nil {
			m.profile.AddExperience(m.cfg.Grade.ExperiencePerWin)
			m.profile.AddCoins(m.cfg.Grade.CoinsPerWin)
		}
		return
	}
	m.switchTurn()
}

func (m *Match) switchTurn() {
	m.active = m.active.Other()
	m.phase = PhaseAiming
	m.countdown = m.cfg.TurnSeconds
	m.aiWait = m.cfg.AI.ThinkSeconds
}

func (m *Match) marble(side Side) *physics.Body {
	if side == SidePlayer {
		return m.world.Get(m.player)
	}
	return m.world.Get(m.rival)
}

func (m *Match) gradeFor(side Side) int {
	if side == SidePlayer && m.profile != nil {
		return m.profile.Grade
	}
	return 0
}

func (m *Match) handSpanFor(side Side) float64 {
	return m.cfg.HandSpan + float64(m.gradeFor(side))*m.cfg.Grade.HandSpanBonus
}

func (m *Match) maxForceFor(side Side) float64 {
	return m.cfg.MaxForce + float64(m.gradeFor(side))*m.cfg.Grade.MaxForceBonus
}

// World exposes the body collection for rendering and callback registration.
func (m *Match) World() *physics.World { return m.world }

// PlayerHandle is the human marble's handle.
func (m *Match) PlayerHandle() physics.Handle { return m.player }

// RivalHandle is the opposing marble's handle.
func (m *Match) RivalHandle() physics.Handle { return m.rival }

// Phase is the current match phase.
func (m *Match) Phase() Phase { return m.phase }

// Active is the side whose turn it is.
func (m *Match) Active() Side { return m.active }

// Countdown is the remaining aiming time in seconds.
func (m *Match) Countdown() float64 { return m.countdown }

// HandSpan is the capture threshold the acting side currently enjoys.
func (m *Match) HandSpan() float64 { return m.handSpanFor(m.active) }

// MaxForce is the launch cap for the acting side.
func (m *Match) MaxForce() float64 { return m.maxForceFor(m.active) }

// Winner reports the match outcome once decided.
func (m *Match) Winner() (Side, bool) { return m.winner, m.decided }

// Concluded reports whether the game-over pause has elapsed and the result
// panel may be shown.
func (m *Match) Concluded() bool {
	return m.phase == PhaseGameOver && m.overLeft <= 0
}

// Profile is the progression record backing this match.
func (m *Match) Profile() *common.Profile { return m.profile }
