package engine

// Tone classifies a message for the client toast layer.
type Tone string

const (
	ToneWin    Tone = "win"
	ToneDanger Tone = "danger"
)

// Message is a human-readable round event for the client to display.
type Message struct {
	Text     string `json:"text"`
	Tone     Tone   `json:"tone"`
	Duration int    `json:"duration"` // display time, ms
}

func winMsg(text string) Message    { return Message{Text: text, Tone: ToneWin, Duration: 4000} }
func dangerMsg(text string) Message { return Message{Text: text, Tone: ToneDanger, Duration: 4000} }

// Stat is one resolved wager for the stats recorder. Net is the profit or
// loss relative to everything the player committed on that wager.
type Stat struct {
	Game   string `json:"game"`
	Bet    int    `json:"bet"`
	Net    int    `json:"net"`
	Result string `json:"result"` // win | loss | push
}

// Outcome is what every engine action hands back: the new balance after
// any debits and credits, messages to display, and stats for resolved
// wagers. State changes live on the game state the action mutated.
type Outcome struct {
	Balance  int
	Messages []Message
	Stats    []Stat
}
