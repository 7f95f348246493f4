package gamedto

type Highlight struct {
	Square string `json:"square"`
	Kind   string `json:"kind"`
}

type Piece struct {
	Key          string      `json:"key"`
	Name         string      `json:"name"`
	Symbol       string      `json:"symbol"`
	Emoji        string      `json:"emoji"`
	UnicornWhite string      `json:"unicornWhite"`
	UnicornBlack string      `json:"unicornBlack"`
	Description  string      `json:"description"`
	Movement     string      `json:"movement"`
	Tips         []string    `json:"tips"`
	FEN          string      `json:"fen"`
	DemoSquare   string      `json:"demoSquare"`
	DemoMoves    []string    `json:"demoMoves,omitempty"`
	Highlights   []Highlight `json:"highlights,omitempty"`
}

type TutorialStep struct {
	Index      int         `json:"index"`
	Total      int         `json:"total"`
	Key        string      `json:"key"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	FEN        string      `json:"fen"`
	Highlights []Highlight `json:"highlights"`
	First      bool        `json:"first"`
	Last       bool        `json:"last"`
}
