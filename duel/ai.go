package duel

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/marbles/tuning"
)

// Aimer computes the rival's launch vector. The computation lives in a tengo
// script so opponent behavior can be tweaked without a rebuild; when the
// script is absent or fails, a Go fallback with the same shape takes over.
type Aimer struct {
	cfg      tuning.AI
	compiled *tengo.Compiled
	rng      *rand.Rand
}

// NewAimer compiles the configured aim script. A missing or broken script is
// not fatal: the aimer degrades to the built-in fallback and logs nothing
// louder than the returned-by-Reload error the caller may print.
func NewAimer(cfg tuning.AI, rng *rand.Rand) *Aimer {
	a := &Aimer{cfg: cfg, rng: rng}
	_ = a.Reload()
	return a
}

// Reload recompiles the aim script from disk/embed. Used by tuning hot
// reload. On error the previous compiled script (or the fallback) stays in
// effect.
func (a *Aimer) Reload() error {
	if a == nil || a.cfg.Script == "" {
		return nil
	}

	src, err := tuning.LoadScript(a.cfg.Script)
	if err != nil {
		return fmt.Errorf("aimer: load %q: %w", a.cfg.Script, err)
	}

	script := tengo.NewScript(src)
	_ = script.Add("__self_x", 0.0)
	_ = script.Add("__self_y", 0.0)
	_ = script.Add("__target_x", 0.0)
	_ = script.Add("__target_y", 0.0)
	_ = script.Add("__grade", 0.0)
	_ = script.Add("__max_force", 0.0)
	_ = script.Add("__max_error", 0.0)
	_ = script.Add("__min_force_frac", 0.0)
	_ = script.Add("__rand1", 0.0)
	_ = script.Add("__rand2", 0.0)
	_ = script.Add("__out_vx", 0.0)
	_ = script.Add("__out_vy", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("aimer: compile %q: %w", a.cfg.Script, err)
	}
	a.compiled = compiled
	return nil
}

// Aim returns a launch velocity toward target with a bounded angular error
// that shrinks as grade rises, at a force proportional to (capped) distance.
func (a *Aimer) Aim(self, target cp.Vector, grade int, maxForce float64) cp.Vector {
	if a == nil {
		return cp.Vector{}
	}
	r1, r2 := a.rng.Float64(), a.rng.Float64()

	if a.compiled != nil {
		if v, ok := a.aimScripted(self, target, grade, maxForce, r1, r2); ok {
			return v
		}
	}
	return a.aimFallback(self, target, grade, maxForce, r1, r2)
}

func (a *Aimer) aimScripted(self, target cp.Vector, grade int, maxForce, r1, r2 float64) (cp.Vector, bool) {
	run := a.compiled.Clone()
	sets := []struct {
		name  string
		value float64
	}{
		{"__self_x", self.X}, {"__self_y", self.Y},
		{"__target_x", target.X}, {"__target_y", target.Y},
		{"__grade", float64(grade)},
		{"__max_force", maxForce},
		{"__max_error", a.cfg.MaxAimErrorRadians},
		{"__min_force_frac", a.cfg.MinForceFrac},
		{"__rand1", r1}, {"__rand2", r2},
	}
	for _, s := range sets {
		if err := run.Set(s.name, s.value); err != nil {
			return cp.Vector{}, false
		}
	}
	if err := run.Run(); err != nil {
		return cp.Vector{}, false
	}

	v := cp.Vector{X: run.Get("__out_vx").Float(), Y: run.Get("__out_vy").Float()}
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || v.LengthSq() == 0 {
		return cp.Vector{}, false
	}
	return v, true
}

// aimFallback mirrors the script: aim at the target, wobble by a grade-scaled
// error, fire proportionally to distance within the force band.
func (a *Aimer) aimFallback(self, target cp.Vector, grade int, maxForce, r1, r2 float64) cp.Vector {
	delta := target.Sub(self)
	dist := delta.Length()

	angle := math.Atan2(delta.Y, delta.X)
	angle += (r1*2 - 1) * a.cfg.MaxAimErrorRadians / (1 + float64(grade))

	force := dist * 1.5
	lo := maxForce * a.cfg.MinForceFrac
	if force > maxForce {
		force = maxForce
	}
	if force < lo {
		force = lo + r2*(maxForce-lo)*0.25
	}

	return cp.Vector{X: math.Cos(angle) * force, Y: math.Sin(angle) * force}
}
