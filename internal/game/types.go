package game

import (
	"context"

	"github.com/kiliankoe/wheeldash/internal/wheel"
)

type Phase string

const (
	PhaseAwaitingAction Phase = "AwaitingTurnAction"
	PhaseRoundOver      Phase = "RoundOver"
	PhaseGameOver       Phase = "GameOver"
	PhaseQuit           Phase = "Quit"
)

type Action string

const (
	ActionSpin     Action = "spin"
	ActionBuyVowel Action = "buyVowel"
	ActionSolve    Action = "solve"
)

type Config struct {
	Rounds int
	Names  []string
}

type Player struct {
	Name           string `json:"name"`
	RoundMoney     int    `json:"roundMoney"`
	GameMoney      int    `json:"gameMoney"`
	RecoveryTokens int    `json:"recoveryTokens"`
}

// Prompter answers the questions the game asks mid-turn. The terminal implements it
// by reading a line; tests script it.
type Prompter interface {
	// Consonant asks for a consonant worth value per occurrence.
	Consonant(ctx context.Context, value int) (string, error)
	// Vowel asks for a vowel; free is true when it comes from the Free Vowel house.
	Vowel(ctx context.Context, free bool) (string, error)
	// UseRecoveryToken asks whether the player about to lose the turn spends one of
	// tokens to keep it. pending describes the play that lost it.
	UseRecoveryToken(ctx context.Context, pending Outcome, tokens int) (bool, error)
}

// TurnPass records how the turn-pass protocol resolved.
type TurnPass struct {
	Offered   bool   `json:"offered"`
	TokenUsed bool   `json:"tokenUsed"`
	Passed    bool   `json:"passed"`
	Next      string `json:"next,omitempty"`
}

// Outcome describes one resolved turn action. Reject carries the reason a play was
// invalid or missed; it is informational and never a Go failure.
type Outcome struct {
	Action    Action       `json:"action"`
	Player    string       `json:"player"`
	House     wheel.House  `json:"house,omitempty"`
	Letter    string       `json:"letter,omitempty"`
	Count     int          `json:"count"`
	Credit    int          `json:"credit,omitempty"`
	Cost      int          `json:"cost,omitempty"`
	Reject    error        `json:"-"`
	Turn      TurnPass     `json:"turn"`
	RoundOver bool         `json:"roundOver"`
	Round     *RoundRecord `json:"round,omitempty"`
	GameOver  bool         `json:"gameOver"`
	Standings []Standing   `json:"standings,omitempty"`
}

type RoundRecord struct {
	Index  int    `json:"index"`
	Winner string `json:"winner"`
	Prize  int    `json:"prize"`
	Topic  string `json:"topic"`
	Phrase string `json:"phrase"`
}

type Standing struct {
	Name      string `json:"name"`
	GameMoney int    `json:"gameMoney"`
	Bonus     int    `json:"bonus"`
	Winner    bool   `json:"winner"`
}

// Snapshot is the spectator view of a game. It never contains the hidden phrase.
type Snapshot struct {
	ID             string        `json:"id"`
	Phase          Phase         `json:"phase"`
	Round          int           `json:"round"`
	Rounds         int           `json:"rounds"`
	WheelActive    bool          `json:"wheelActive"`
	VowelPurchase  bool          `json:"vowelPurchase"`
	Topic          string        `json:"topic"`
	Visible        string        `json:"visible"`
	Current        string        `json:"current"`
	Players        []Player      `json:"players"`
	History        []RoundRecord `json:"history"`
	Standings      []Standing    `json:"standings,omitempty"`
	FreeVowels     string        `json:"freeVowels"`
	FreeConsonants string        `json:"freeConsonants"`
}
