package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

type DifficultyPreset struct {
	Name       string
	Difficulty Difficulty
	// Weight scales every heuristic bonus except the mate override.
	Weight float64
	// PoolDivisor splits the ranked list; 1 keeps all of it.
	PoolDivisor int
	// PoolCap bounds the pool after division; 0 means no cap.
	PoolCap       int
	ThinkingDelay time.Duration
}

// presets is read-only after init.
var presets = map[Difficulty]DifficultyPreset{
	Easy: {
		Name:          "easy",
		Difficulty:    Easy,
		Weight:        0.2,
		PoolDivisor:   1,
		ThinkingDelay: 500 * time.Millisecond,
	},
	Medium: {
		Name:          "medium",
		Difficulty:    Medium,
		Weight:        0.5,
		PoolDivisor:   2,
		ThinkingDelay: 1000 * time.Millisecond,
	},
	Hard: {
		Name:          "hard",
		Difficulty:    Hard,
		Weight:        0.8,
		PoolDivisor:   1,
		PoolCap:       3,
		ThinkingDelay: 1500 * time.Millisecond,
	},
}

// HandoffDelay is the pause between the player's move and the computer starting to think.
const HandoffDelay = 300 * time.Millisecond

func AllDifficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "difficulty(" + strconv.Itoa(int(d)) + ")"
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDifficulty accepts names, the numeric levels 1-3, and a few kid-friendly aliases.
func ParseDifficulty(name string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy", "1", "beginner", "baby":
		return Easy, nil
	case "medium", "2", "normal", "intermediate":
		return Medium, nil
	case "hard", "3", "advanced", "expert":
		return Hard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// Preset returns the tuning for d. Anything outside the known tiers plays like Hard.
func (d Difficulty) Preset() DifficultyPreset {
	if p, ok := presets[d]; ok {
		return p
	}
	return presets[Hard]
}

func (d Difficulty) Weight() float64 {
	return d.Preset().Weight
}

func (d Difficulty) ThinkingDelay() time.Duration {
	return d.Preset().ThinkingDelay
}

// PoolSize is how many of n ranked candidates are eligible for the final pick.
func (p DifficultyPreset) PoolSize(n int) int {
	if n <= 0 {
		return 0
	}
	size := n
	if p.PoolDivisor > 1 {
		size = (n + p.PoolDivisor - 1) / p.PoolDivisor
	}
	if p.PoolCap > 0 && size > p.PoolCap {
		size = p.PoolCap
	}
	if size < 1 {
		size = 1
	}
	return size
}

func validatePreset(p DifficultyPreset) error {
	switch {
	case !p.Difficulty.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(p.Difficulty))
	case p.Weight < 0 || p.Weight > 1:
		return fmt.Errorf("weight %f out of range 0-1", p.Weight)
	case p.PoolDivisor <= 0:
		return fmt.Errorf("pool divisor must be > 0: %d", p.PoolDivisor)
	case p.PoolCap < 0:
		return fmt.Errorf("pool cap must be >= 0: %d", p.PoolCap)
	case p.ThinkingDelay < 0:
		return fmt.Errorf("thinking delay must be >= 0: %s", p.ThinkingDelay)
	}
	return nil
}
