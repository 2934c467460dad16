package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/storage"
)

var flagScoresPlayer string

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 high scores for the specified mode.

With --player, shows that player's online battle record instead.

Examples:
  bladefighters scores blade
  bladefighters scores battle
  bladefighters scores battle --player alice`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show a player's online battle record")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'bladefighters list' to see available modes.")
		os.Exit(1)
	}

	// Get mode title
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresPlayer != "" {
		printPlayerRecord(store, flagScoresPlayer)
		return
	}

	// Get top scores
	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'bladefighters play %s' to set the first high score!\n", gameID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
	}

	// Show high score
	fmt.Println()
	highScore, err := store.HighScore(gameID)
	if err == nil {
		fmt.Printf("Best: %d\n", highScore)
	}
}

// printPlayerRecord shows a player's aggregated win/loss record plus their
// most recent online battles. Online session IDs carry a timestamp suffix,
// so this matches the full session ID as recorded.
func printPlayerRecord(store *storage.Store, player string) {
	record, err := store.PlayerWinLoss(player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving record: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Battle record - %s\n", player)
	fmt.Println()
	fmt.Printf("  Wins: %d  Losses: %d  Draws: %d\n", record.Wins, record.Losses, record.Draws)

	matches, err := store.PlayerMatchHistory(player, 10)
	if err != nil || len(matches) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("  %-24s  %-9s  %s\n", "Opponent", "Score", "Date")
	fmt.Printf("  %-24s  %-9s  %s\n", "--------", "-----", "----")
	for _, m := range matches {
		opponent := m.Player2Session
		score := fmt.Sprintf("%d - %d", m.Score1, m.Score2)
		if m.Player2Session == player {
			opponent = m.Player1Session
			score = fmt.Sprintf("%d - %d", m.Score2, m.Score1)
		}
		fmt.Printf("  %-24s  %-9s  %s\n", opponent, score, m.CreatedAt.Format("2006-01-02 15:04"))
	}
}
