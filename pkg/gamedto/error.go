package gamedto

type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "unicorn chess error"
}

const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeIllegalMove      = "illegal_move"
	CodeInvalidSquare    = "invalid_square"
	CodeNotYourTurn      = "not_your_turn"
	CodeComputerThinking = "computer_thinking"
	CodeNoComputerTurn   = "no_computer_turn"
	CodeGameOver         = "game_over"
	CodeUnknownLevel     = "unknown_difficulty"
	CodeConflict         = "conflict"
	CodeCancelled        = "cancelled"
	CodeInternal         = "internal"
)
