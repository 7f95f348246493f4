package gamedto

type StartRequest struct {
	Difficulty string `json:"difficulty"`
	Locale     string `json:"locale"`
}

type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type SelectRequest struct {
	Square string `json:"square"`
}

type DifficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

// ClientMessage is what a browser sends over the game WebSocket.
type ClientMessage struct {
	Type      string `json:"type"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
	Square    string `json:"square,omitempty"`
}

const (
	ClientMove   = "move"
	ClientHint   = "hint"
	ClientReset  = "reset"
	ClientSelect = "select"
	ClientResign = "resign"
)

// ServerEvent is pushed to the browser. Exactly one payload field is set, matching Type.
type ServerEvent struct {
	Type      string       `json:"type"`
	State     *GameState   `json:"state,omitempty"`
	Move      *MoveSummary `json:"move,omitempty"`
	Hint      *Hint        `json:"hint,omitempty"`
	Selection *Selection   `json:"selection,omitempty"`
	Error     *DomainError `json:"error,omitempty"`
}

const (
	EventState     = "state"
	EventThinking  = "thinking"
	EventMove      = "move"
	EventComputer  = "computer_move"
	EventHint      = "hint"
	EventSelection = "selection"
	EventError     = "error"
)
