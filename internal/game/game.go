package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/kiliankoe/wheeldash/internal/puzzle"
	"github.com/kiliankoe/wheeldash/internal/textnorm"
	"github.com/kiliankoe/wheeldash/internal/wheel"
)

const (
	VowelPrice = 250
	EndBonus   = 6000

	MinRounds  = 1
	MaxRounds  = 4
	MinPlayers = 1
	MaxPlayers = 4

	vowelAlphabet     = "aeiou"
	consonantAlphabet = "bcdfghjklmnpqrstvwxyz"
)

var (
	ErrInvalidSetup      = errors.New("invalid game setup")
	ErrNotEnoughPuzzles  = errors.New("not enough puzzles for the requested rounds")
	ErrNotRunning        = errors.New("game is not running")
	ErrInsufficientFunds = errors.New("not enough money to buy a vowel")
	ErrWrongSolution     = errors.New("wrong solution")

	ErrInvalidLetter   = puzzle.ErrInvalidLetter
	ErrAlreadyRevealed = puzzle.ErrAlreadyRevealed
	ErrLetterNotFound  = puzzle.ErrLetterNotFound
)

type Game struct {
	ID string

	round  int
	rounds int

	freeVowels     pool
	freeConsonants pool
	wheelActive    bool
	vowelPurchase  bool

	puzzle  *puzzle.Puzzle
	puzzles *puzzle.Set
	roster  *Roster
	wheel   *wheel.Wheel
	prompt  Prompter

	running   bool
	finished  bool
	history   []RoundRecord
	standings []Standing
}

// ValidateSetup checks the round count and contestant names chosen at the prompt.
func ValidateSetup(rounds int, names []string) error {
	if rounds < MinRounds || rounds > MaxRounds {
		return fmt.Errorf("%w: rounds must be between %d and %d", ErrInvalidSetup, MinRounds, MaxRounds)
	}
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return fmt.Errorf("%w: contestants must be between %d and %d", ErrInvalidSetup, MinPlayers, MaxPlayers)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if err := ValidateName(n); err != nil {
			return err
		}
		if seen[n] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidSetup, n)
		}
		seen[n] = true
	}
	return nil
}

// ValidateName accepts non-empty names made of letters only.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSetup)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("%w: name %q must contain letters only", ErrInvalidSetup, name)
		}
	}
	return nil
}

// New sets up a game and draws the first puzzle.
func New(cfg Config, puzzles *puzzle.Set, w *wheel.Wheel, p Prompter) (*Game, error) {
	if err := ValidateSetup(cfg.Rounds, cfg.Names); err != nil {
		return nil, err
	}
	if puzzles.Len() < cfg.Rounds {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPuzzles, puzzles.Len(), cfg.Rounds)
	}
	first, err := puzzles.Draw()
	if err != nil {
		return nil, err
	}
	g := &Game{
		ID:      uuid.NewString(),
		round:   1,
		rounds:  cfg.Rounds,
		puzzle:  first,
		puzzles: puzzles,
		roster:  NewRoster(cfg.Names),
		wheel:   w,
		prompt:  p,
		running: true,
	}
	g.resetRound()
	return g, nil
}

func (g *Game) resetRound() {
	g.freeVowels = newPool(vowelAlphabet)
	g.freeConsonants = newPool(consonantAlphabet)
	g.wheelActive = true
	g.vowelPurchase = true
}

func (g *Game) Running() bool { return g.running }
func (g *Game) Round() int { return g.round }
func (g *Game) Rounds() int { return g.rounds }
func (g *Game) WheelActive() bool { return g.wheelActive }
func (g *Game) VowelPurchase() bool { return g.vowelPurchase }
func (g *Game) Puzzle() *puzzle.Puzzle { return g.puzzle }
func (g *Game) Current() Player { return *g.roster.Current() }
func (g *Game) Players() []Player { return g.roster.Players() }
func (g *Game) FreeVowels() string { return string(g.freeVowels) }
func (g *Game) FreeConsonants() string { return string(g.freeConsonants) }

func (g *Game) History() []RoundRecord {
	return append([]RoundRecord(nil), g.history...)
}

func (g *Game) Standings() []Standing {
	return append([]Standing(nil), g.standings...)
}

func (g *Game) Phase() Phase {
	switch {
	case g.finished:
		return PhaseGameOver
	case !g.running:
		return PhaseQuit
	}
	return PhaseAwaitingAction
}

// Quit stops the game immediately, without scoring.
func (g *Game) Quit() { g.running = false }

// Spin turns the wheel and resolves the house it lands on.
func (g *Game) Spin(ctx context.Context) (Outcome, error) {
	if !g.running {
		return Outcome{}, ErrNotRunning
	}
	cur := g.roster.Current()
	out := Outcome{Action: ActionSpin, Player: cur.Name, House: g.wheel.Spin()}
	var err error
	switch out.House {
	case wheel.Bankrupt:
		err = g.penaltyBankrupt(ctx, &out)
	case wheel.RecoveryToken:
		g.penaltyRecoveryToken(&out)
	case wheel.LoseTurn:
		err = g.penaltyLoseTurn(ctx, &out)
	case wheel.FreeVowel:
		err = g.penaltyFreeVowel(ctx, &out)
	default:
		err = g.guessConsonant(ctx, &out)
	}
	return out, err
}

func (g *Game) guessConsonant(ctx context.Context, out *Outcome) error {
	value := out.House.Value()
	answer, err := g.prompt.Consonant(ctx, value)
	if err != nil {
		return err
	}
	out.Letter = textnorm.Normalize(answer)
	r, ok := textnorm.Letter(answer)
	if !ok || !strings.ContainsRune(consonantAlphabet, r) {
		out.Reject = ErrInvalidLetter
		out.Turn = g.advance()
		return nil
	}
	// a repeated consonant loses the turn outright, no token offer
	if g.puzzle.IsRevealed(r) || !g.freeConsonants.has(r) {
		out.Reject = ErrAlreadyRevealed
		out.Turn = g.advance()
		return nil
	}
	g.freeConsonants.remove(r)
	count, _ := g.puzzle.RevealRune(r)
	if g.freeConsonants.empty() || g.puzzle.ConsonantsExhausted() {
		g.wheelActive = false
	}
	out.Count = count
	if count == 0 {
		out.Reject = ErrLetterNotFound
		out.Turn, err = g.passTurn(ctx, *out)
		return err
	}
	out.Credit = count * value
	g.roster.Current().RoundMoney += out.Credit
	out.Turn = TurnPass{Next: out.Player}
	return nil
}

func (g *Game) penaltyBankrupt(ctx context.Context, out *Outcome) error {
	g.roster.Current().RoundMoney = 0
	var err error
	out.Turn, err = g.passTurn(ctx, *out)
	return err
}

func (g *Game) penaltyRecoveryToken(out *Outcome) {
	g.roster.Current().RecoveryTokens++
	out.Turn = TurnPass{Next: out.Player}
}

func (g *Game) penaltyLoseTurn(ctx context.Context, out *Outcome) error {
	var err error
	out.Turn, err = g.passTurn(ctx, *out)
	return err
}

// penaltyFreeVowel reveals a nominated vowel at no cost. A valid vowel never costs
// the turn, even when it does not occur in the phrase.
func (g *Game) penaltyFreeVowel(ctx context.Context, out *Outcome) error {
	answer, err := g.prompt.Vowel(ctx, true)
	if err != nil {
		return err
	}
	r, reject := g.takeVowel(answer, out)
	if reject != nil {
		out.Reject = reject
		out.Turn, err = g.passTurn(ctx, *out)
		return err
	}
	out.Count, _ = g.puzzle.RevealRune(r)
	if out.Count == 0 {
		out.Reject = ErrLetterNotFound
	}
	out.Turn = TurnPass{Next: out.Player}
	return nil
}

// BuyVowel charges VowelPrice and reveals the vowel the player names.
func (g *Game) BuyVowel(ctx context.Context) (Outcome, error) {
	if !g.running {
		return Outcome{}, ErrNotRunning
	}
	cur := g.roster.Current()
	out := Outcome{Action: ActionBuyVowel, Player: cur.Name}
	var err error
	if cur.RoundMoney < VowelPrice {
		out.Reject = ErrInsufficientFunds
		out.Turn, err = g.passTurn(ctx, out)
		return out, err
	}
	answer, err := g.prompt.Vowel(ctx, false)
	if err != nil {
		return out, err
	}
	cur.RoundMoney -= VowelPrice
	out.Cost = VowelPrice

	r, reject := g.takeVowel(answer, &out)
	if reject != nil {
		out.Reject = reject
		out.Turn, err = g.passTurn(ctx, out)
		return out, err
	}
	out.Count, _ = g.puzzle.RevealRune(r)
	if out.Count == 0 {
		out.Reject = ErrLetterNotFound
		out.Turn, err = g.passTurn(ctx, out)
		return out, err
	}
	out.Turn = TurnPass{Next: out.Player}
	return out, nil
}

// takeVowel validates a vowel answer and strikes it from the free pool.
func (g *Game) takeVowel(answer string, out *Outcome) (rune, error) {
	out.Letter = textnorm.Normalize(answer)
	r, ok := textnorm.Letter(answer)
	if !ok || !strings.ContainsRune(vowelAlphabet, r) {
		return 0, ErrInvalidLetter
	}
	if !g.freeVowels.has(r) {
		return 0, ErrAlreadyRevealed
	}
	g.freeVowels.remove(r)
	if g.freeVowels.empty() {
		g.vowelPurchase = false
	}
	return r, nil
}

// Solve checks a full answer. A correct one banks the round money and moves on to
// the next round, or ends the game after the last one.
func (g *Game) Solve(ctx context.Context, candidate string) (Outcome, error) {
	if !g.running {
		return Outcome{}, ErrNotRunning
	}
	cur := g.roster.Current()
	out := Outcome{Action: ActionSolve, Player: cur.Name}
	if !g.puzzle.Matches(candidate) {
		var err error
		out.Reject = ErrWrongSolution
		out.Turn, err = g.passTurn(ctx, out)
		return out, err
	}

	rec := RoundRecord{
		Index:  g.round,
		Winner: cur.Name,
		Prize:  cur.RoundMoney,
		Topic:  g.puzzle.Topic(),
		Phrase: g.puzzle.Phrase(),
	}
	cur.GameMoney += cur.RoundMoney
	g.puzzle.RevealAll()
	g.wheelActive = false
	g.vowelPurchase = false
	for _, p := range g.roster.players {
		p.RoundMoney = 0
	}
	g.history = append(g.history, rec)
	out.RoundOver = true
	out.Round = &rec
	out.Turn = TurnPass{Next: cur.Name}

	if err := g.nextRound(); err != nil {
		return out, err
	}
	if g.finished {
		out.GameOver = true
		out.Standings = g.Standings()
	}
	return out, nil
}

func (g *Game) nextRound() error {
	if g.round == g.rounds {
		g.endGame()
		return nil
	}
	g.round++
	if err := g.puzzles.DropCurrent(); err != nil {
		return err
	}
	next, err := g.puzzles.Draw()
	if err != nil {
		return fmt.Errorf("round %d: %w", g.round, err)
	}
	g.puzzle = next
	g.resetRound()
	return nil
}

// endGame pays the bonus to the richest player. Tied players split it evenly; the
// remainder of the division is not paid out.
func (g *Game) endGame() {
	best := 0
	for i, p := range g.roster.players {
		if i == 0 || p.GameMoney > best {
			best = p.GameMoney
		}
	}
	winners := 0
	for _, p := range g.roster.players {
		if p.GameMoney == best {
			winners++
		}
	}
	share := EndBonus / winners

	g.standings = make([]Standing, 0, g.roster.Len())
	for _, p := range g.roster.players {
		st := Standing{Name: p.Name}
		if p.GameMoney == best {
			p.GameMoney += share
			st.Bonus = share
			st.Winner = true
		}
		st.GameMoney = p.GameMoney
		g.standings = append(g.standings, st)
	}
	g.running = false
	g.finished = true
}

// passTurn offers a recovery token when the player holds one; otherwise, or on a
// refusal, the turn moves to the next player. pending is the play that cost the turn.
func (g *Game) passTurn(ctx context.Context, pending Outcome) (TurnPass, error) {
	cur := g.roster.Current()
	if cur.RecoveryTokens > 0 {
		use, err := g.prompt.UseRecoveryToken(ctx, pending, cur.RecoveryTokens)
		if err != nil {
			return TurnPass{Offered: true}, err
		}
		if use {
			cur.RecoveryTokens--
			return TurnPass{Offered: true, TokenUsed: true, Next: cur.Name}, nil
		}
		tp := g.advance()
		tp.Offered = true
		return tp, nil
	}
	return g.advance(), nil
}

func (g *Game) advance() TurnPass {
	next := g.roster.Advance()
	return TurnPass{Passed: true, Next: next.Name}
}

// Snapshot is safe to hand to other goroutines.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		ID:             g.ID,
		Phase:          g.Phase(),
		Round:          g.round,
		Rounds:         g.rounds,
		WheelActive:    g.wheelActive,
		VowelPurchase:  g.vowelPurchase,
		Topic:          g.puzzle.Topic(),
		Visible:        g.puzzle.Visible(),
		Current:        g.roster.Current().Name,
		Players:        g.Players(),
		History:        g.History(),
		Standings:      g.Standings(),
		FreeVowels:     g.FreeVowels(),
		FreeConsonants: g.FreeConsonants(),
	}
}

// Diagnostics renders the state dump used for automated checks.
func (g *Game) Diagnostics() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %d %d %d\n", g.round, btoi(g.wheelActive), btoi(g.vowelPurchase))
	fmt.Fprintf(&sb, "# %s\n", g.puzzle.String())
	fmt.Fprintf(&sb, "# %s\n", g.puzzle.Render())
	for i, p := range g.roster.players {
		marker := "-"
		if i == g.roster.Index() {
			marker = "*"
		}
		fmt.Fprintf(&sb, "# %s %d %05d %05d %s\n", marker, p.RecoveryTokens, p.RoundMoney, p.GameMoney, p.Name)
	}
	return sb.String()
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// pool is an ordered set of letters still on offer this round.
type pool []rune

func newPool(letters string) pool { return pool(letters) }

func (p pool) has(r rune) bool {
	for _, x := range p {
		if x == r {
			return true
		}
	}
	return false
}

func (p *pool) remove(r rune) {
	for i, x := range *p {
		if x == r {
			*p = append((*p)[:i], (*p)[i+1:]...)
			return
		}
	}
}

func (p pool) empty() bool { return len(p) == 0 }
