// Package race implements the betting race: a pack of marbles rolls down a
// pegboard toward a finish line and the player backs one of them with coins
// before the start.
package race

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/marbles/common"
	"github.com/milk9111/marbles/physics"
	"github.com/milk9111/marbles/tuning"
)

// Phase is the race lifecycle.
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// maxRaceSeconds cuts off a race where marbles wedge against pegs and never
// cross; remaining places are ranked by progress.
const maxRaceSeconds = 45.0

// Racer is one marble in the field.
type Racer struct {
	Handle   physics.Handle
	Name     string
	Finished bool
	Place    int // 1-based once assigned
}

// Race owns one race's world and bookkeeping. Recreated per race.
type Race struct {
	cfg     tuning.Race
	profile *common.Profile
	rng     *rand.Rand

	world  *physics.World
	racers []Racer

	phase   Phase
	elapsed float64
	placed  int

	betOn     int // racer index, -1 when no bet
	betAmount int
	payout    int
}

var racerNames = []string{"Tiger Eye", "Comet", "Oxblood", "Galaxy", "Sulphide", "Clambroth", "Onionskin", "Lutz"}

// NewRace builds the course: marbles staged across the top, a staggered peg
// grid in the middle, and funnel guards above the finish line.
func NewRace(cfg tuning.Race, profile *common.Profile, seed int64) (*Race, error) {
	r := &Race{
		cfg:     cfg,
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		betOn:   -1,
	}

	capacity := cfg.MarbleCount + cfg.PegRows*cfg.PegCols + 4
	r.world = physics.NewWorld(cfg.WorldWidth, cfg.WorldHeight, capacity)

	if err := r.stageMarbles(); err != nil {
		return nil, err
	}
	if err := r.buildCourse(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Race) stageMarbles() error {
	mat := r.cfg.Marble
	gap := r.cfg.WorldWidth / float64(r.cfg.MarbleCount+1)
	for i := 0; i < r.cfg.MarbleCount; i++ {
		name := racerNames[i%len(racerNames)]
		pos := cp.Vector{X: gap * float64(i+1), Y: mat.Radius * 3}
		b, err := physics.NewCircle(fmt.Sprintf("racer-%d", i), pos, mat.Radius, mat.Mass, mat.Restitution, mat.Friction)
		if err != nil {
			return fmt.Errorf("race: marble %d: %w", i, err)
		}
		h, ok := r.world.Add(b)
		if !ok {
			return fmt.Errorf("race: world full adding marble %d", i)
		}
		r.racers = append(r.racers, Racer{Handle: h, Name: name})
	}
	return nil
}

func (r *Race) buildCourse() error {
	top := r.cfg.WorldHeight * 0.15
	bottom := r.cfg.FinishY - r.cfg.WorldHeight*0.1
	if r.cfg.PegRows > 0 && r.cfg.PegCols > 0 {
		rowGap := (bottom - top) / float64(r.cfg.PegRows)
		colGap := r.cfg.WorldWidth / float64(r.cfg.PegCols)
		for row := 0; row < r.cfg.PegRows; row++ {
			// Stagger alternate rows so there is no straight drop.
			offset := colGap / 2
			if row%2 == 1 {
				offset = colGap
			}
			for col := 0; col < r.cfg.PegCols; col++ {
				pos := cp.Vector{X: offset + colGap*float64(col), Y: top + rowGap*float64(row)}
				if pos.X > r.cfg.WorldWidth-r.cfg.PegRadius {
					continue
				}
				peg, err := physics.NewStaticCircle(fmt.Sprintf("peg-%d-%d", row, col), pos, r.cfg.PegRadius, r.cfg.PegRestitution)
				if err != nil {
					return fmt.Errorf("race: peg %d/%d: %w", row, col, err)
				}
				if _, ok := r.world.Add(peg); !ok {
					return fmt.Errorf("race: world full adding pegs")
				}
			}
		}
	}

	// Funnel guards squeeze the field toward the middle of the finish line.
	guardW := r.cfg.WorldWidth * 0.18
	guardY := r.cfg.FinishY - r.cfg.WorldHeight*0.05
	for i, x := range []float64{guardW / 2, r.cfg.WorldWidth - guardW/2} {
		guard, err := physics.NewStaticRect(fmt.Sprintf("guard-%d", i), cp.Vector{X: x, Y: guardY}, guardW, 16, 0.3)
		if err != nil {
			return fmt.Errorf("race: guard %d: %w", i, err)
		}
		if _, ok := r.world.Add(guard); !ok {
			return fmt.Errorf("race: world full adding guards")
		}
	}
	return nil
}

// PlaceBet backs racer idx with amount coins. Valid only before the start,
// once, with a sufficient purse and at least the minimum stake.
func (r *Race) PlaceBet(idx, amount int) bool {
	if r == nil || r.phase != PhaseBetting || r.betOn >= 0 {
		return false
	}
	if idx < 0 || idx >= len(r.racers) || amount < r.cfg.MinBet {
		return false
	}
	if r.profile == nil || !r.profile.SpendCoins(amount) {
		return false
	}
	r.betOn = idx
	r.betAmount = amount
	return true
}

// Start releases the field. Betting closes; watching without a stake is
// allowed.
func (r *Race) Start() bool {
	if r == nil || r.phase != PhaseBetting {
		return false
	}
	// A small sideways nudge so the pack spreads over the first pegs.
	for i := range r.racers {
		b := r.world.Get(r.racers[i].Handle)
		b.Velocity = cp.Vector{X: (r.rng.Float64() - 0.5) * 60, Y: 20}
	}
	r.phase = PhaseRunning
	return true
}

// Update advances the race by dt seconds. The downfield acceleration is
// applied as an external velocity change before the physics step; the engine
// itself has no gravity.
func (r *Race) Update(dt float64) {
	if r == nil || dt <= 0 || r.phase != PhaseRunning {
		return
	}
	r.elapsed += dt

	for i := range r.racers {
		b := r.world.Get(r.racers[i].Handle)
		b.Velocity.Y += r.cfg.Downfield * dt
	}

	r.world.Step(dt)

	for i := range r.racers {
		rc := &r.racers[i]
		if rc.Finished {
			continue
		}
		if r.world.Get(rc.Handle).Position.Y >= r.cfg.FinishY {
			r.placed++
			rc.Finished = true
			rc.Place = r.placed
		}
	}

	if r.placed == len(r.racers) || r.elapsed >= maxRaceSeconds {
		r.finish()
	}
}

// finish assigns places to any marble still on the course (ranked by how far
// down it got) and resolves the bet.
func (r *Race) finish() {
	stragglers := make([]int, 0, len(r.racers))
	for i := range r.racers {
		if !r.racers[i].Finished {
			stragglers = append(stragglers, i)
		}
	}
	sort.Slice(stragglers, func(a, b int) bool {
		ya := r.world.Get(r.racers[stragglers[a]].Handle).Position.Y
		yb := r.world.Get(r.racers[stragglers[b]].Handle).Position.Y
		return ya > yb
	})
	for _, idx := range stragglers {
		r.placed++
		r.racers[idx].Finished = true
		r.racers[idx].Place = r.placed
	}

	r.phase = PhaseFinished

	if r.betOn >= 0 && r.racers[r.betOn].Place == 1 {
		// Winner-takes-field odds: stake times the number of opponents.
		r.payout = r.betAmount * (len(r.racers) - 1)
		if r.profile != nil {
			r.profile.AddCoins(r.payout)
		}
	}
}

// Winner returns the index of the first-place racer once the race finished.
func (r *Race) Winner() (int, bool) {
	if r.phase != PhaseFinished {
		return -1, false
	}
	for i := range r.racers {
		if r.racers[i].Place == 1 {
			return i, true
		}
	}
	return -1, false
}

// World exposes the body collection for rendering.
func (r *Race) World() *physics.World { return r.world }

// Racers is the field in staging order.
func (r *Race) Racers() []Racer { return r.racers }

// Phase is the race lifecycle state.
func (r *Race) Phase() Phase { return r.phase }

// Bet reports the current stake, or (-1, 0) when none was placed.
func (r *Race) Bet() (idx, amount int) { return r.betOn, r.betAmount }

// Payout is the resolved winnings, zero until the race finishes or when the
// bet lost.
func (r *Race) Payout() int { return r.payout }

// Elapsed is the running time in seconds.
func (r *Race) Elapsed() float64 { return r.elapsed }
