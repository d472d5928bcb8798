package race

import (
	"testing"

	"github.com/milk9111/marbles/common"
	"github.com/milk9111/marbles/tuning"
)

func testRaceConfig() tuning.Race {
	return tuning.Race{
		WorldWidth:     400,
		WorldHeight:    800,
		MarbleCount:    4,
		Marble:         tuning.Marble{Radius: 10, Mass: 1, Restitution: 0.6, Friction: 0.01},
		Downfield:      600,
		PegRows:        3,
		PegCols:        4,
		PegRadius:      8,
		PegRestitution: 0.8,
		FinishY:        700,
		MinBet:         10,
	}
}

func newTestRace(t *testing.T, coins int, seed int64) (*Race, *common.Profile) {
	t.Helper()
	profile := common.NewProfile(coins)
	r, err := NewRace(testRaceConfig(), profile, seed)
	if err != nil {
		t.Fatalf("NewRace: %v", err)
	}
	return r, profile
}

func runToFinish(t *testing.T, r *Race) {
	t.Helper()
	if !r.Start() {
		t.Fatalf("Start should succeed from betting phase")
	}
	for i := 0; i < 60*50 && r.Phase() != PhaseFinished; i++ {
		r.Update(1.0 / 60)
	}
	if r.Phase() != PhaseFinished {
		t.Fatalf("race never finished")
	}
}

func TestBetValidation(t *testing.T) {
	cases := []struct {
		name   string
		coins  int
		idx    int
		amount int
		want   bool
	}{
		{"valid", 100, 0, 20, true},
		{"below_min_bet", 100, 0, 5, false},
		{"cannot_afford", 15, 0, 20, false},
		{"bad_index", 100, 9, 20, false},
		{"negative_index", 100, -1, 20, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, profile := newTestRace(t, c.coins, 1)
			got := r.PlaceBet(c.idx, c.amount)
			if got != c.want {
				t.Fatalf("PlaceBet = %v, want %v", got, c.want)
			}
			wantCoins := c.coins
			if c.want {
				wantCoins -= c.amount
			}
			if profile.Coins != wantCoins {
				t.Fatalf("coins = %d, want %d", profile.Coins, wantCoins)
			}
		})
	}
}

func TestBetClosesAtStart(t *testing.T) {
	r, _ := newTestRace(t, 100, 1)
	if !r.Start() {
		t.Fatalf("Start should succeed")
	}
	if r.PlaceBet(0, 20) {
		t.Fatalf("betting after the start must be rejected")
	}
	if r.Start() {
		t.Fatalf("double Start must be rejected")
	}
}

func TestOnlyOneBet(t *testing.T) {
	r, _ := newTestRace(t, 100, 1)
	if !r.PlaceBet(0, 20) {
		t.Fatalf("first bet should be accepted")
	}
	if r.PlaceBet(1, 20) {
		t.Fatalf("second bet must be rejected")
	}
}

func TestRaceAssignsUniquePlaces(t *testing.T) {
	r, _ := newTestRace(t, 100, 42)
	runToFinish(t, r)

	seen := make(map[int]bool)
	for _, rc := range r.Racers() {
		if !rc.Finished {
			t.Fatalf("racer %s never classified", rc.Name)
		}
		if rc.Place < 1 || rc.Place > len(r.Racers()) {
			t.Fatalf("racer %s has place %d out of range", rc.Name, rc.Place)
		}
		if seen[rc.Place] {
			t.Fatalf("place %d assigned twice", rc.Place)
		}
		seen[rc.Place] = true
	}

	winner, ok := r.Winner()
	if !ok || winner < 0 || winner >= len(r.Racers()) {
		t.Fatalf("finished race must name a winner, got %d ok=%v", winner, ok)
	}
}

func TestMarblesStayInBounds(t *testing.T) {
	r, _ := newTestRace(t, 100, 42)
	cfg := testRaceConfig()
	if !r.Start() {
		t.Fatalf("Start should succeed")
	}
	for i := 0; i < 60*10 && r.Phase() == PhaseRunning; i++ {
		r.Update(1.0 / 60)
		for _, rc := range r.Racers() {
			p := r.World().Get(rc.Handle).Position
			if p.X < cfg.Marble.Radius-1e-9 || p.X > cfg.WorldWidth-cfg.Marble.Radius+1e-9 ||
				p.Y < cfg.Marble.Radius-1e-9 || p.Y > cfg.WorldHeight-cfg.Marble.Radius+1e-9 {
				t.Fatalf("racer %s escaped to %+v", rc.Name, p)
			}
		}
	}
}

// The same seed and cadence reproduce the same winner, so a second run can
// bet on the known result and must be paid field odds.
func TestWinningBetPaysFieldOdds(t *testing.T) {
	probe, _ := newTestRace(t, 100, 42)
	runToFinish(t, probe)
	winner, ok := probe.Winner()
	if !ok {
		t.Fatalf("probe race has no winner")
	}

	r, profile := newTestRace(t, 100, 42)
	if !r.PlaceBet(winner, 20) {
		t.Fatalf("bet should be accepted")
	}
	runToFinish(t, r)

	wantPayout := 20 * (len(r.Racers()) - 1)
	if r.Payout() != wantPayout {
		t.Fatalf("payout = %d, want %d", r.Payout(), wantPayout)
	}
	if profile.Coins != 100-20+wantPayout {
		t.Fatalf("coins = %d, want %d", profile.Coins, 100-20+wantPayout)
	}
}

func TestLosingBetPaysNothing(t *testing.T) {
	probe, _ := newTestRace(t, 100, 42)
	runToFinish(t, probe)
	winner, ok := probe.Winner()
	if !ok {
		t.Fatalf("probe race has no winner")
	}
	loser := (winner + 1) % len(probe.Racers())

	r, profile := newTestRace(t, 100, 42)
	if !r.PlaceBet(loser, 20) {
		t.Fatalf("bet should be accepted")
	}
	runToFinish(t, r)

	if r.Payout() != 0 {
		t.Fatalf("losing bet paid %d", r.Payout())
	}
	if profile.Coins != 80 {
		t.Fatalf("coins = %d, want 80", profile.Coins)
	}
}
