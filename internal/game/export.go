package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExportRound appends the latest finished round of g to a text file, and the final
// standings once the game is over.
func ExportRound(g *Game, filename string) error {
	if len(g.history) == 0 {
		return nil
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	rec := g.history[len(g.history)-1]

	// header on a new file or at the first round of a new game
	if !fileExists || rec.Index == 1 {
		if fileExists {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("Wheeldash Game Results - Game %s\n", g.ID))
		sb.WriteString(fmt.Sprintf("Started: %s\n", time.Now().Format("2006-01-02 15:04:05")))
		sb.WriteString(strings.Repeat("=", 50) + "\n\n")

		sb.WriteString("Contestants:\n")
		for _, p := range g.roster.players {
			sb.WriteString(fmt.Sprintf("- %s\n", p.Name))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Round %d of %d: %s%s%s\n", rec.Index, g.rounds, rec.Topic, g.puzzle.Sep(), rec.Phrase))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	sb.WriteString(fmt.Sprintf("Solved by %s for %d\n", rec.Winner, rec.Prize))

	if g.finished {
		standings := g.Standings()
		sort.SliceStable(standings, func(i, j int) bool {
			return standings[i].GameMoney > standings[j].GameMoney
		})
		sb.WriteString("\nFinal standings:\n")
		for _, st := range standings {
			mark := ""
			if st.Winner {
				mark = fmt.Sprintf(" (winner, bonus %d)", st.Bonus)
			}
			sb.WriteString(fmt.Sprintf("- %s: %d%s\n", st.Name, st.GameMoney, mark))
		}
		sb.WriteString(fmt.Sprintf("\nGame ended at %s\n", time.Now().Format("2006-01-02 15:04:05")))
		sb.WriteString(strings.Repeat("=", 50) + "\n")
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
