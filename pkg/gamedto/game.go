package gamedto

import "time"

type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Captured struct {
	ByPlayer   []string `json:"byPlayer"`
	ByComputer []string `json:"byComputer"`
	Material   int      `json:"material"`
}

type GameState struct {
	ID              string     `json:"id"`
	Difficulty      string     `json:"difficulty"`
	DifficultyLabel string     `json:"difficultyLabel"`
	Locale          string     `json:"locale"`
	FEN             string     `json:"fen"`
	Turn            string     `json:"turn"`
	MovesUCI        []string   `json:"movesUci"`
	MovesSAN        []string   `json:"movesSan"`
	Status          string     `json:"status"`
	Message         string     `json:"message"`
	Sound           string     `json:"sound,omitempty"`
	InCheck         bool       `json:"inCheck"`
	CheckSquare     string     `json:"checkSquare,omitempty"`
	DrawReason      string     `json:"drawReason,omitempty"`
	LastMove        *Move      `json:"lastMove,omitempty"`
	Hint            *Move      `json:"hint,omitempty"`
	Opening         string     `json:"opening,omitempty"`
	OpeningCode     string     `json:"openingCode,omitempty"`
	ComputerPending bool       `json:"computerPending"`
	ComputerDueAt   *time.Time `json:"computerDueAt,omitempty"`
	Captured        Captured   `json:"captured"`
	StartedAt       time.Time  `json:"startedAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MoveSummary is one ply, by the player or the computer.
type MoveSummary struct {
	State    *GameState `json:"state"`
	By       string     `json:"by"`
	Moved    bool       `json:"moved"`
	SAN      string     `json:"san,omitempty"`
	UCI      string     `json:"uci,omitempty"`
	From     string     `json:"from,omitempty"`
	To       string     `json:"to,omitempty"`
	Captured bool       `json:"captured"`
	Check    bool       `json:"check"`
	Mate     bool       `json:"mate"`
	Finished bool       `json:"finished"`
}

type Hint struct {
	State *GameState `json:"state"`
	Found bool       `json:"found"`
	From  string     `json:"from,omitempty"`
	To    string     `json:"to,omitempty"`
	SAN   string     `json:"san,omitempty"`
}

type Selection struct {
	Square  string   `json:"square"`
	Targets []string `json:"targets"`
	Message string   `json:"message"`
	Sound   string   `json:"sound"`
}

type DifficultyInfo struct {
	Name          string  `json:"name"`
	Level         int     `json:"level"`
	Label         string  `json:"label"`
	Weight        float64 `json:"weight"`
	ThinkingDelay int64   `json:"thinkingDelayMs"`
}
