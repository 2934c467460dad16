// bladefighters is a terminal falling-block battle game.
//
// Usage:
//
//	bladefighters list              - List available modes
//	bladefighters play <mode>       - Play a mode directly
//	bladefighters menu              - Start the interactive mode picker
//	bladefighters serve             - Start SSH server for remote play
//	bladefighters scores <mode>     - Show high scores for a mode
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.bladefighters/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/CloudTigerx/BladeFighters-sub000/internal/battle"
	_ "github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bladefighters",
	Short: "Blade Fighters - falling-block battles in your terminal",
	Long: `Blade Fighters is a terminal falling-block battle game: build
same-colored rectangles, break them with breaker blocks, and bury your
opponent under the garbage and strikes your chains send over.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  bladefighters list
  bladefighters play blade
  bladefighters play battle --difficulty hard
  bladefighters menu
  bladefighters serve --ssh :2222
  bladefighters scores battle`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bladefighters/scores.db", "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
