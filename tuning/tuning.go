// Package tuning holds the numeric configuration for both game modes. Values
// ship embedded as yaml; a disk copy next to the binary overrides the
// embedded one, and in debug mode edits hot-reload through Watcher.
package tuning

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marble is the material and size of one dynamic marble.
type Marble struct {
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

// Grade controls the progression ratchet: what a duel win awards and what
// each grade level permanently adds.
type Grade struct {
	HandSpanBonus    float64 `yaml:"hand_span_bonus"`
	MaxForceBonus    float64 `yaml:"max_force_bonus"`
	ExperiencePerWin int     `yaml:"experience_per_win"`
	CoinsPerWin      int     `yaml:"coins_per_win"`
}

// AI tunes the computer opponent's turn.
type AI struct {
	ThinkSeconds       float64 `yaml:"think_seconds"`
	MaxAimErrorRadians float64 `yaml:"max_aim_error_radians"`
	MinForceFrac       float64 `yaml:"min_force_frac"`
	Script             string  `yaml:"script"`
}

// Duel is the configuration for the turn-based dueling mode.
type Duel struct {
	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`

	Marble Marble `yaml:"marble"`

	ObstacleCount       int     `yaml:"obstacle_count"`
	ObstacleMinSize     float64 `yaml:"obstacle_min_size"`
	ObstacleMaxSize     float64 `yaml:"obstacle_max_size"`
	ObstacleRestitution float64 `yaml:"obstacle_restitution"`

	TurnSeconds          float64 `yaml:"turn_seconds"`
	SettleDelaySeconds   float64 `yaml:"settle_delay_seconds"`
	GameOverDelaySeconds float64 `yaml:"game_over_delay_seconds"`

	HandSpan float64 `yaml:"hand_span"`
	MaxForce float64 `yaml:"max_force"`

	Grade Grade `yaml:"grade"`
	AI    AI    `yaml:"ai"`
}

// Race is the configuration for the betting race mode.
type Race struct {
	WorldWidth  float64 `yaml:"world_width"`
	WorldHeight float64 `yaml:"world_height"`

	MarbleCount int    `yaml:"marble_count"`
	Marble      Marble `yaml:"marble"`

	Downfield float64 `yaml:"downfield"`

	PegRows        int     `yaml:"peg_rows"`
	PegCols        int     `yaml:"peg_cols"`
	PegRadius      float64 `yaml:"peg_radius"`
	PegRestitution float64 `yaml:"peg_restitution"`

	FinishY float64 `yaml:"finish_y"`
	MinBet  int     `yaml:"min_bet"`
}

// Config is everything a match needs before it starts.
type Config struct {
	StartingCoins int  `yaml:"starting_coins"`
	Duel          Duel `yaml:"duel"`
	Race          Race `yaml:"race"`
}

// Default is the shipped configuration, used when no yaml can be read.
func Default() Config {
	return Config{
		StartingCoins: 100,
		Duel: Duel{
			WorldWidth:           960,
			WorldHeight:          640,
			Marble:               Marble{Radius: 16, Mass: 1, Restitution: 0.85, Friction: 0.04},
			ObstacleCount:        5,
			ObstacleMinSize:      40,
			ObstacleMaxSize:      110,
			ObstacleRestitution:  0.6,
			TurnSeconds:          10,
			SettleDelaySeconds:   0.6,
			GameOverDelaySeconds: 1.2,
			HandSpan:             120,
			MaxForce:             900,
			Grade: Grade{
				HandSpanBonus:    6,
				MaxForceBonus:    40,
				ExperiencePerWin: 25,
				CoinsPerWin:      10,
			},
			AI: AI{
				ThinkSeconds:       1.2,
				MaxAimErrorRadians: 0.35,
				MinForceFrac:       0.55,
				Script:             "aim.tengo",
			},
		},
		Race: Race{
			WorldWidth:     960,
			WorldHeight:    1600,
			MarbleCount:    6,
			Marble:         Marble{Radius: 14, Mass: 1, Restitution: 0.7, Friction: 0.015},
			Downfield:      420,
			PegRows:        7,
			PegCols:        8,
			PegRadius:      9,
			PegRestitution: 0.9,
			FinishY:        1520,
			MinBet:         10,
		},
	}
}

// Load reads tuning.yaml (disk first, then embedded) over the defaults, so a
// partial file only overrides the keys it names.
func Load() (Config, error) {
	cfg := Default()
	data, err := readFile("tuning.yaml")
	if err != nil {
		return cfg, fmt.Errorf("tuning: read: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("tuning: parse: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Duel.WorldWidth <= 0 || c.Duel.WorldHeight <= 0 {
		return fmt.Errorf("tuning: duel world must have positive size")
	}
	if c.Race.WorldWidth <= 0 || c.Race.WorldHeight <= 0 {
		return fmt.Errorf("tuning: race world must have positive size")
	}
	if c.Duel.Marble.Radius <= 0 || c.Race.Marble.Radius <= 0 {
		return fmt.Errorf("tuning: marble radius must be positive")
	}
	if c.Race.MarbleCount < 2 {
		return fmt.Errorf("tuning: race needs at least two marbles, got %d", c.Race.MarbleCount)
	}
	if c.Duel.TurnSeconds <= 0 {
		return fmt.Errorf("tuning: turn_seconds must be positive")
	}
	if c.Race.FinishY <= 0 || c.Race.FinishY > c.Race.WorldHeight {
		return fmt.Errorf("tuning: finish_y must sit inside the race world")
	}
	return nil
}
