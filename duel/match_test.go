package duel

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/marbles/common"
	"github.com/milk9111/marbles/tuning"
)

func testDuelConfig() tuning.Duel {
	return tuning.Duel{
		WorldWidth:  400,
		WorldHeight: 300,
		Marble:      tuning.Marble{Radius: 10, Mass: 1, Restitution: 0.5, Friction: 0.2},
		// No obstacles: tests want a deterministic field.
		ObstacleCount:        0,
		TurnSeconds:          5,
		SettleDelaySeconds:   0.2,
		GameOverDelaySeconds: 0.3,
		HandSpan:             120,
		MaxForce:             500,
		Grade: tuning.Grade{
			HandSpanBonus:    6,
			MaxForceBonus:    40,
			ExperiencePerWin: 25,
			CoinsPerWin:      10,
		},
		AI: tuning.AI{ThinkSeconds: 0.5, MaxAimErrorRadians: 0.3, MinForceFrac: 0.5},
	}
}

func newTestMatch(t *testing.T, seed int64) *Match {
	t.Helper()
	m, err := NewMatch(testDuelConfig(), common.NewProfile(100), seed)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

// matchWithActive searches seeds until the opening side is the wanted one;
// the opening side is random by design.
func matchWithActive(t *testing.T, side Side) *Match {
	t.Helper()
	for seed := int64(1); seed <= 64; seed++ {
		m := newTestMatch(t, seed)
		if m.Active() == side {
			return m
		}
	}
	t.Fatalf("no seed in range opened with side %v", side)
	return nil
}

// runUntil drives the match at 60Hz until pred holds, failing the test if it
// never does.
func runUntil(t *testing.T, m *Match, pred func() bool) {
	t.Helper()
	for i := 0; i < 60*30; i++ {
		if pred() {
			return
		}
		m.Update(1.0 / 60)
	}
	t.Fatalf("condition never reached; phase=%v active=%v", m.Phase(), m.Active())
}

func TestCaptureWinsForActingSide(t *testing.T) {
	for _, side := range []Side{SidePlayer, SideRival} {
		t.Run(side.String(), func(t *testing.T) {
			m := matchWithActive(t, side)

			// Park the marbles 50 apart, well inside the 120 hand span.
			m.World().Get(m.RivalHandle()).Position =
				m.World().Get(m.PlayerHandle()).Position.Add(cp.Vector{X: 50, Y: 0})

			if !m.Launch(side, cp.Vector{X: 0, Y: 2}) {
				t.Fatalf("launch by active side should be accepted")
			}
			runUntil(t, m, func() bool { return m.Phase() == PhaseGameOver })

			winner, decided := m.Winner()
			if !decided || winner != side {
				t.Fatalf("expected %v to win, got winner=%v decided=%v", side, winner, decided)
			}
		})
	}
}

func TestNoCaptureSwitchesTurn(t *testing.T) {
	m := newTestMatch(t, 3)
	first := m.Active()

	// Spawns are 200 apart, outside the 120 hand span; a gentle shot cannot
	// close the gap.
	if !m.Launch(first, cp.Vector{X: 0, Y: 2}) {
		t.Fatalf("launch should be accepted")
	}
	runUntil(t, m, func() bool { return m.Phase() == PhaseAiming })

	if m.Active() != first.Other() {
		t.Fatalf("turn should pass to %v, got %v", first.Other(), m.Active())
	}
	if m.Countdown() != testDuelConfig().TurnSeconds {
		t.Fatalf("countdown should reset to %v, got %v", testDuelConfig().TurnSeconds, m.Countdown())
	}
	if _, decided := m.Winner(); decided {
		t.Fatalf("no winner should be decided on a missed shot")
	}
}

func TestAimingTimeoutForfeitsTurn(t *testing.T) {
	m := newTestMatch(t, 3)
	first := m.Active()

	for i := 0; i < 100 && m.Active() == first; i++ {
		m.Update(0.5)
	}

	if m.Active() != first.Other() {
		t.Fatalf("timeout should flip the active side")
	}
	if m.Phase() != PhaseAiming {
		t.Fatalf("timeout should return to aiming, got %v", m.Phase())
	}
	if v := m.World().Get(m.PlayerHandle()).Velocity; v.LengthSq() != 0 {
		t.Fatalf("timeout must not move the player marble, velocity %+v", v)
	}
	if v := m.World().Get(m.RivalHandle()).Velocity; v.LengthSq() != 0 {
		t.Fatalf("timeout must not move the rival marble, velocity %+v", v)
	}
}

func TestInvalidLaunchesAreIgnored(t *testing.T) {
	m := newTestMatch(t, 3)
	active := m.Active()

	if m.Launch(active.Other(), cp.Vector{X: 100, Y: 0}) {
		t.Fatalf("launch by the inactive side must be a no-op")
	}
	if m.Launch(active, cp.Vector{}) {
		t.Fatalf("zero launch vector must be a no-op")
	}
	if !m.Launch(active, cp.Vector{X: 100, Y: 0}) {
		t.Fatalf("valid launch should be accepted")
	}
	if m.Launch(active, cp.Vector{X: 100, Y: 0}) {
		t.Fatalf("launch while moving must be a no-op")
	}
}

func TestLaunchForceIsClamped(t *testing.T) {
	m := newTestMatch(t, 3)
	active := m.Active()

	if !m.Launch(active, cp.Vector{X: 99999, Y: 0}) {
		t.Fatalf("launch should be accepted")
	}
	var body = m.World().Get(m.PlayerHandle())
	if active == SideRival {
		body = m.World().Get(m.RivalHandle())
	}
	if got := body.Velocity.Length(); got > testDuelConfig().MaxForce+1e-9 {
		t.Fatalf("launch speed %v exceeds max force %v", got, testDuelConfig().MaxForce)
	}
}

func TestResetDiscardsPendingOutcome(t *testing.T) {
	m := matchWithActive(t, SidePlayer)

	m.World().Get(m.RivalHandle()).Position =
		m.World().Get(m.PlayerHandle()).Position.Add(cp.Vector{X: 50, Y: 0})

	if !m.Launch(SidePlayer, cp.Vector{X: 0, Y: 2}) {
		t.Fatalf("launch should be accepted")
	}
	runUntil(t, m, func() bool { return m.Phase() == PhaseSettling })

	if err := m.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	// Burn well past the old settle delay; the stale outcome must not fire.
	for i := 0; i < 60; i++ {
		m.Update(1.0 / 60)
		if m.Phase() == PhaseMoving || m.Phase() == PhaseSettling {
			t.Fatalf("fresh match should still be aiming, got %v", m.Phase())
		}
	}
	if _, decided := m.Winner(); decided {
		t.Fatalf("stale capture fired across Reset")
	}
}

func TestPlayerWinAwardsProgression(t *testing.T) {
	m := matchWithActive(t, SidePlayer)
	profile := m.Profile()
	coinsBefore := profile.Coins

	m.World().Get(m.RivalHandle()).Position =
		m.World().Get(m.PlayerHandle()).Position.Add(cp.Vector{X: 50, Y: 0})
	if !m.Launch(SidePlayer, cp.Vector{X: 0, Y: 2}) {
		t.Fatalf("launch should be accepted")
	}
	runUntil(t, m, func() bool { return m.Phase() == PhaseGameOver })

	if profile.Experience != 25 {
		t.Fatalf("expected 25 experience, got %d", profile.Experience)
	}
	if profile.Coins != coinsBefore+10 {
		t.Fatalf("expected %d coins, got %d", coinsBefore+10, profile.Coins)
	}
}

func TestGradeRaisesHandSpanAndForce(t *testing.T) {
	cfg := testDuelConfig()
	profile := common.NewProfile(0)
	profile.Grade = 3

	var m *Match
	for seed := int64(1); seed <= 64; seed++ {
		candidate, err := NewMatch(cfg, profile, seed)
		if err != nil {
			t.Fatalf("NewMatch: %v", err)
		}
		if candidate.Active() == SidePlayer {
			m = candidate
			break
		}
	}
	if m == nil {
		t.Fatalf("no seed opened with the player side")
	}

	wantSpan := cfg.HandSpan + 3*cfg.Grade.HandSpanBonus
	if got := m.HandSpan(); got != wantSpan {
		t.Fatalf("expected hand span %v at grade 3, got %v", wantSpan, got)
	}
	wantForce := cfg.MaxForce + 3*cfg.Grade.MaxForceBonus
	if got := m.MaxForce(); got != wantForce {
		t.Fatalf("expected max force %v at grade 3, got %v", wantForce, got)
	}
}
