package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wheeldash/internal/game"
	"github.com/kiliankoe/wheeldash/internal/textnorm"
	"github.com/kiliankoe/wheeldash/internal/wheel"
)

const loseTurn = "You lose your turn. Pay more attention next time."

// Publisher receives a snapshot after every command.
type Publisher interface {
	Publish(s game.Snapshot)
}

type Options struct {
	In  io.Reader
	Out io.Writer
	// Publisher is optional.
	Publisher Publisher
	// ExportFile enables the round export when non-empty.
	ExportFile string
	Authors    []string
}

type command struct {
	key  string
	help string
	run  func(ctx context.Context) error
}

// UI drives a game from a line-oriented terminal. It also answers the game's
// mid-turn questions, so it is the game's Prompter.
type UI struct {
	in         *lineReader
	out        io.Writer
	pub        Publisher
	exportFile string
	authors    []string

	game      *game.Game
	announced bool
	commands  []command
	byKey     map[string]command
}

func New(opts Options) *UI {
	u := &UI{
		in:         newLineReader(opts.In),
		out:        opts.Out,
		pub:        opts.Publisher,
		exportFile: opts.ExportFile,
		authors:    opts.Authors,
	}
	if len(u.authors) == 0 {
		u.authors = []string{"The wheeldash developers"}
	}
	u.commands = []command{
		{"c", "Commands (list commands)", u.cmdCommands},
		{"i", "Inventory (show)", u.cmdInventory},
		{"f", "Finish the puzzle (solve)", u.cmdSolve},
		{"p", "Puzzle (show)", u.cmdShow},
		{"r", "Roulette (spin)", u.cmdSpin},
		{"v", "Vowel (buy)", u.cmdBuyVowel},
		{"#", "Spy (diagnostics)", u.cmdSpy},
		{"a", "Authors", u.cmdAuthors},
		{"q", "Quit (end immediately)", u.cmdQuit},
	}
	u.byKey = make(map[string]command, len(u.commands))
	for _, c := range u.commands {
		u.byKey[c.key] = c
	}
	return u
}

// Setup asks for the number of rounds and the contestants. Any invalid answer
// restarts the questions from the top.
func (u *UI) Setup(ctx context.Context) (game.Config, error) {
	u.println(`Welcome to the "Wheel of Fortune" game!`)
	for {
		cfg, ok, err := u.setupOnce(ctx)
		if err != nil {
			return game.Config{}, err
		}
		if ok {
			return cfg, nil
		}
	}
}

func (u *UI) setupOnce(ctx context.Context) (game.Config, bool, error) {
	rounds, err := u.askInt(ctx, "How many rounds? ")
	if err != nil {
		return game.Config{}, false, err
	}
	if rounds < game.MinRounds || rounds > game.MaxRounds {
		u.printf("The number of rounds is not valid, it must be between %d and %d.\n", game.MinRounds, game.MaxRounds)
		return game.Config{}, false, nil
	}
	players, err := u.askInt(ctx, "How many contestants? ")
	if err != nil {
		return game.Config{}, false, err
	}
	if players < game.MinPlayers || players > game.MaxPlayers {
		u.printf("The number of contestants is not valid, it must be between %d and %d.\n", game.MinPlayers, game.MaxPlayers)
		return game.Config{}, false, nil
	}
	names := make([]string, 0, players)
	for i := 1; i <= players; i++ {
		name, err := u.ask(ctx, fmt.Sprintf("Name of contestant number %d? ", i))
		if err != nil {
			return game.Config{}, false, err
		}
		name = strings.TrimSpace(name)
		if game.ValidateName(name) != nil || slices.Contains(names, name) {
			u.println("Invalid name, try again.")
			return game.Config{}, false, nil
		}
		names = append(names, name)
	}
	return game.Config{Rounds: rounds, Names: names}, true, nil
}

// Run plays g until it ends, the player quits or input runs out. The diagnostics
// dump is always printed on the way out.
func (u *UI) Run(ctx context.Context, g *game.Game) error {
	u.game = g
	names := make([]string, 0)
	for _, p := range g.Players() {
		names = append(names, p.Name)
	}
	log.Info().Str("game", g.ID).Int("rounds", g.Rounds()).Strs("players", names).Msg("game started")

	u.println("Let's begin. Here is the puzzle. Good luck!")
	u.cmdShow(ctx)
	u.printf("Round number %d begins\n", g.Round())
	u.publish()

	var runErr error
	for g.Running() {
		cur := g.Current()
		u.printf("[%s]: ", cur.Name)
		text, err := u.in.ReadLine(ctx)
		if err != nil {
			runErr = err
			break
		}
		key := textnorm.Normalize(text)
		log.Debug().Str("cmd", key).Str("player", cur.Name).Int("round", g.Round()).Msg("command")
		if err := u.dispatch(ctx, key); err != nil {
			runErr = err
			break
		}
		u.publish()
	}
	if g.Running() {
		u.println()
		log.Debug().Err(runErr).Msg("input ended, quitting")
		g.Quit()
		u.publish()
	}

	u.cmdSpy(ctx)
	u.println("Goodbye!")
	if runErr != nil && !errors.Is(runErr, io.EOF) && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func (u *UI) dispatch(ctx context.Context, key string) error {
	cmd, ok := u.byKey[key]
	if !ok {
		u.help()
		return nil
	}
	u.announced = false
	return cmd.run(ctx)
}

func (u *UI) cmdCommands(context.Context) error {
	u.println("  Commands:")
	for _, c := range u.commands {
		u.printf("\t%s - %s\n", c.key, c.help)
	}
	return nil
}

func (u *UI) cmdInventory(context.Context) error {
	u.inventory()
	return nil
}

func (u *UI) cmdShow(context.Context) error {
	u.printf(" >> %s\n", u.game.Puzzle().Render())
	return nil
}

func (u *UI) cmdSpy(context.Context) error {
	u.println("  Spy:")
	fmt.Fprint(u.out, u.game.Diagnostics())
	return nil
}

func (u *UI) cmdAuthors(context.Context) error {
	u.println("  Authors:")
	for _, a := range u.authors {
		u.printf("\t%s\n", a)
	}
	return nil
}

func (u *UI) cmdQuit(context.Context) error {
	u.println("  Goodbye!")
	u.game.Quit()
	log.Info().Str("game", u.game.ID).Int("round", u.game.Round()).Msg("game quit")
	return nil
}

func (u *UI) cmdSpin(ctx context.Context) error {
	out, err := u.game.Spin(ctx)
	if err != nil {
		return err
	}
	u.report(out)
	return nil
}

func (u *UI) cmdBuyVowel(ctx context.Context) error {
	out, err := u.game.BuyVowel(ctx)
	if err != nil {
		return err
	}
	u.report(out)
	return nil
}

func (u *UI) cmdSolve(ctx context.Context) error {
	p := u.game.Puzzle()
	answer, err := u.ask(ctx, fmt.Sprintf("Solve the puzzle! >> %s%s", p.Topic(), p.Sep()))
	if err != nil {
		return err
	}
	out, err := u.game.Solve(ctx, answer)
	if err != nil {
		return err
	}
	u.report(out)
	return nil
}

func (u *UI) help() {
	u.println("  Invalid command! Help:")
	u.println("\tPress `c` followed by `Enter` to list the available commands.")
	u.println("\tUpper or lower case letters both work.")
}

func (u *UI) inventory() {
	u.println("  Inventory:")
	u.println("\tN.  Name                Tokens   Round    Game")
	for i, p := range u.game.Players() {
		u.printf("\t%-4d%-20s%-9d%-9d%d\n", i+1, p.Name, p.RecoveryTokens, p.RoundMoney, p.GameMoney)
	}
}

// report prints the outcome of a turn action, unless a token offer already
// described it.
func (u *UI) report(out game.Outcome) {
	if !u.announced {
		u.describe(out)
	}
	u.announced = false
	if out.Turn.TokenUsed {
		u.println("You keep your turn after all.")
	}
	if out.RoundOver {
		u.roundOver(out)
	}
}

func (u *UI) describe(out game.Outcome) {
	switch out.Action {
	case game.ActionSpin:
		switch out.House {
		case wheel.Bankrupt:
			u.println(`"Bankrupt". You lose all the money won this round and also your turn.`)
			return
		case wheel.RecoveryToken:
			u.println(`"Recovery token". Nice! You won a recovery token.`)
			return
		case wheel.LoseTurn:
			u.println(`"Lose a turn". You lost your turn.`)
			return
		}
	case game.ActionBuyVowel:
		if errors.Is(out.Reject, game.ErrInsufficientFunds) {
			u.println("You do not have enough money to buy a vowel.")
			u.println(loseTurn)
			return
		}
	case game.ActionSolve:
		if out.Reject != nil {
			u.println("Wrong. You lose your turn.")
		}
		return
	}
	u.describeLetter(out)
}

func (u *UI) describeLetter(out game.Outcome) {
	consonant := out.Action == game.ActionSpin && !out.House.IsPenalty()
	switch {
	case errors.Is(out.Reject, game.ErrInvalidLetter):
		u.printf("\"%s\" is not a valid letter.\n", out.Letter)
		u.println(loseTurn)
	case errors.Is(out.Reject, game.ErrAlreadyRevealed):
		if consonant {
			u.printf("The letter \"%s\" was already called and is showing.\n", out.Letter)
		} else {
			u.printf("\"%s\" was already called.\n", out.Letter)
		}
		u.println(loseTurn)
	case errors.Is(out.Reject, game.ErrLetterNotFound):
		u.printf("No occurrences of \"%s\" were found.\n", out.Letter)
		if !consonant {
			u.cmdShow(context.Background())
		}
	default:
		if out.Credit > 0 {
			money := make([]string, 0)
			for _, p := range u.game.Players() {
				money = append(money, fmt.Sprintf("%s = %d", p.Name, p.RoundMoney))
			}
			u.printf("Found %d occurrence(s) of \"%s\" worth %d*%d=%d. %s.\n",
				out.Count, out.Letter, out.Count, out.House.Value(), out.Credit, strings.Join(money, ", "))
		} else {
			u.printf("Found %d occurrence(s) of \"%s\".\n", out.Count, out.Letter)
		}
		u.cmdShow(context.Background())
	}
}

func (u *UI) roundOver(out game.Outcome) {
	rec := out.Round
	u.println("Correct!")
	u.printf("Contestant \"%s\" wins round number %d.\n", rec.Winner, rec.Index)
	u.inventory()
	log.Info().Str("game", u.game.ID).Int("round", rec.Index).Str("winner", rec.Winner).Int("prize", rec.Prize).Msg("round won")
	u.export()

	if out.GameOver {
		u.printf("End of the game! This game had %d round(s).\n", u.game.Rounds())
		for _, st := range out.Standings {
			if st.Winner {
				u.printf("Contestant \"%s\" wins the game and takes home %d.\n", st.Name, st.GameMoney)
			} else {
				u.printf("Contestant \"%s\" takes home %d.\n", st.Name, st.GameMoney)
			}
		}
		log.Info().Str("game", u.game.ID).Interface("standings", out.Standings).Msg("game over")
		return
	}
	u.printf("Round number %d begins\n", u.game.Round())
	u.printf("Solve the puzzle! >> %s\n", u.game.Puzzle().Render())
}

func (u *UI) export() {
	if u.exportFile == "" {
		return
	}
	if err := game.ExportRound(u.game, u.exportFile); err != nil {
		log.Error().Err(err).Str("game", u.game.ID).Str("file", u.exportFile).Msg("failed to export round")
		return
	}
	log.Info().Str("game", u.game.ID).Str("file", u.exportFile).Msg("exported round")
}

func (u *UI) publish() {
	if u.pub != nil {
		u.pub.Publish(u.game.Snapshot())
	}
}

var _ game.Prompter = (*UI)(nil)

func (u *UI) Consonant(ctx context.Context, value int) (string, error) {
	return u.ask(ctx, fmt.Sprintf("%d. Which consonant? ", value))
}

func (u *UI) Vowel(ctx context.Context, free bool) (string, error) {
	if free {
		return u.ask(ctx, `"Free vowel". Which vowel? `)
	}
	return u.ask(ctx, "Which vowel? ")
}

func (u *UI) UseRecoveryToken(ctx context.Context, pending game.Outcome, tokens int) (bool, error) {
	u.describe(pending)
	u.announced = true
	answer, err := u.ask(ctx, fmt.Sprintf("You are about to lose your turn. Use one of your %d recovery token(s) now (y/n)? ", tokens))
	if err != nil {
		return false, err
	}
	return textnorm.Normalize(answer) == "y", nil
}

func (u *UI) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(u.out, prompt)
	return u.in.ReadLine(ctx)
}

// askInt returns -1 for answers that are not a number.
func (u *UI) askInt(ctx context.Context, prompt string) (int, error) {
	s, err := u.ask(ctx, prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1, nil
	}
	return n, nil
}

func (u *UI) println(a ...any) { fmt.Fprintln(u.out, a...) }

func (u *UI) printf(format string, a ...any) { fmt.Fprintf(u.out, format, a...) }
