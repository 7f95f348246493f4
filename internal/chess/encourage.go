package chess

import "math/rand"

// DefaultEncouragements is used when no localized pool is available.
var DefaultEncouragements = []string{
	"Your turn! You can do it! 🌟",
	"Great move! Keep it up! 💪",
	"Nice! Now it's your turn! ✨",
	"Good thinking! What's your next move? 🤔",
	"You're playing great! 🎯",
	"Wow! Smart move! 🧠",
	"Very nice! Keep going! 🌈",
	"You're a champion! 🏆",
}

// PickEncouragement returns a uniformly chosen line from pool, falling back to DefaultEncouragements.
func PickEncouragement(r *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		pool = DefaultEncouragements
	}
	return pool[r.Intn(len(pool))]
}
