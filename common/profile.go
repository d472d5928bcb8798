package common

// ExperiencePerGrade is how much experience a grade-up costs. Leftover
// experience carries over to the next grade.
const ExperiencePerGrade = 100

// Profile is the player's progression for one process run: duel grade and
// experience plus the coin purse shared with race betting. Nothing here is
// persisted.
type Profile struct {
	Grade      int
	Experience int
	Coins      int
}

// NewProfile returns a fresh profile with the given starting coins.
func NewProfile(startingCoins int) *Profile {
	return &Profile{Coins: startingCoins}
}

// AddExperience adds n experience points and converts full grade thresholds
// into grade levels. Returns the number of grades gained.
func (p *Profile) AddExperience(n int) int {
	if p == nil || n <= 0 {
		return 0
	}
	p.Experience += n
	gained := 0
	for p.Experience >= ExperiencePerGrade {
		p.Experience -= ExperiencePerGrade
		p.Grade++
		gained++
	}
	return gained
}

// AddCoins credits the purse. Negative amounts are ignored.
func (p *Profile) AddCoins(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.Coins += n
}

// SpendCoins debits the purse if it holds at least n coins and reports
// whether the debit happened.
func (p *Profile) SpendCoins(n int) bool {
	if p == nil || n <= 0 || p.Coins < n {
		return false
	}
	p.Coins -= n
	return true
}
