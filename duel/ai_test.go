package duel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/marbles/tuning"
)

func testAIConfig(script string) tuning.AI {
	return tuning.AI{
		ThinkSeconds:       0.5,
		MaxAimErrorRadians: 0.3,
		MinForceFrac:       0.5,
		Script:             script,
	}
}

func checkAim(t *testing.T, a *Aimer, grade int) {
	t.Helper()
	self := cp.Vector{X: 100, Y: 100}
	target := cp.Vector{X: 700, Y: 500}
	const maxForce = 500.0

	for i := 0; i < 50; i++ {
		v := a.Aim(self, target, grade, maxForce)
		if v.LengthSq() == 0 {
			t.Fatalf("aim %d returned a zero launch vector", i)
		}
		if speed := v.Length(); speed > maxForce+1e-6 {
			t.Fatalf("aim %d force %v exceeds cap %v", i, speed, maxForce)
		}

		want := math.Atan2(target.Y-self.Y, target.X-self.X)
		got := math.Atan2(v.Y, v.X)
		diff := math.Abs(got - want)
		if diff > math.Pi {
			diff = 2*math.Pi - diff
		}
		maxErr := 0.3/(1+float64(grade)) + 1e-6
		if diff > maxErr {
			t.Fatalf("aim %d angular error %v exceeds bound %v at grade %d", i, diff, maxErr, grade)
		}
	}
}

func TestFallbackAim(t *testing.T) {
	cases := []struct {
		name  string
		grade int
	}{
		{"grade_zero", 0},
		{"grade_four_shoots_straighter", 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewAimer(testAIConfig(""), rand.New(rand.NewSource(7)))
			if a.compiled != nil {
				t.Fatalf("empty script name should leave the fallback in charge")
			}
			checkAim(t, a, c.grade)
		})
	}
}

func TestScriptedAim(t *testing.T) {
	a := NewAimer(testAIConfig("aim.tengo"), rand.New(rand.NewSource(7)))
	if a.compiled == nil {
		t.Fatalf("embedded aim.tengo should compile")
	}
	checkAim(t, a, 1)
}

func TestRivalLaunchesOnItsOwn(t *testing.T) {
	m := matchWithActive(t, SideRival)
	m.SetAimer(NewAimer(testAIConfig(""), rand.New(rand.NewSource(7))))

	for i := 0; i < 60 && m.Phase() == PhaseAiming; i++ {
		m.Update(1.0 / 60)
	}
	if m.Phase() != PhaseMoving {
		t.Fatalf("rival should launch after its think delay, phase is %v", m.Phase())
	}
}
