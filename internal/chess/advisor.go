package chess

import (
	"math/rand"
	"sync"
	"time"
)

// Advisor shares one seeded source between concurrent callers.
// Each call gets its own derived *rand.Rand, so the decision functions never share state.
type Advisor struct {
	randMu sync.Mutex
	rand   *rand.Rand
}

// NewAdvisor seeds from the clock when seed is 0.
func NewAdvisor(seed int64) *Advisor {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Advisor{rand: rand.New(rand.NewSource(seed))}
}

func (a *Advisor) SelectMove(pos RulesOracle, d Difficulty) (string, bool) {
	return SelectMove(pos, d, a.random())
}

func (a *Advisor) SuggestHint(pos RulesOracle) (Hint, bool) {
	return SuggestHint(pos, a.random())
}

func (a *Advisor) PickEncouragement(pool []string) string {
	return PickEncouragement(a.random(), pool)
}

func (a *Advisor) random() *rand.Rand {
	a.randMu.Lock()
	seed := a.rand.Int63()
	a.randMu.Unlock()
	return rand.New(rand.NewSource(seed))
}
