// Command chesshybrid-play plays a game in the terminal: human against the
// agent by default, or agent against itself with -selfplay. Human moves are
// entered in UCI notation (e2e4, g8f6, a7a8q).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ahnani1Ali/chesshybrid/internal/agent"
	"github.com/Ahnani1Ali/chesshybrid/internal/book"
	"github.com/Ahnani1Ali/chesshybrid/internal/config"
	"github.com/Ahnani1Ali/chesshybrid/internal/engine"
	"github.com/Ahnani1Ali/chesshybrid/internal/qlearn"
	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
	"github.com/Ahnani1Ali/chesshybrid/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	mode := flag.String("mode", cfg.Mode, "selector mode: minimax, rl or hybrid")
	depth := flag.Int("depth", cfg.SearchDepth, "search depth")
	moveTime := flag.Duration("movetime", cfg.MoveTime, "search time budget per move")
	color := flag.String("color", "white", "side the human plays: white or black")
	selfplay := flag.Bool("selfplay", false, "let the agent play itself")
	maxMoves := flag.Int("max-moves", 200, "half-move cap for self-play")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ai, err := buildAgent(cfg, agent.Mode(*mode), *depth, *moveTime)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build the agent")
	}

	if *selfplay {
		record := agent.PlayGame(ai, ai, *maxMoves)
		fmt.Printf("Result: %s (%s)\n", record.Result, record.Opening)
		fmt.Printf("Moves: %s\n", strings.Join(record.Moves, " "))
		return
	}

	humanSide := rules.White
	if strings.EqualFold(*color, "black") {
		humanSide = rules.Black
	}
	runInteractive(ai, humanSide)
}

func buildAgent(cfg *config.Config, mode agent.Mode, depth int, moveTime time.Duration) (*agent.Hybrid, error) {
	var (
		b   *book.Book
		err error
	)
	if cfg.BookPath != "" {
		if b, err = book.Load(cfg.BookPath); err != nil {
			return nil, err
		}
	} else {
		b = book.New()
	}
	b.MaxOpeningPlies = cfg.MaxOpeningPlies

	learner := qlearn.NewAgent()
	// Play with residual exploration only; training is a separate command.
	learner.Epsilon = learner.EpsilonMin
	if table, err := loadQTable(cfg); err != nil {
		log.Warn().Err(err).Msg("could not load the q-table, starting cold")
	} else {
		learner.SetTable(table)
	}

	return agent.New(mode, b, learner, engine.NewSearcher(depth, moveTime))
}

func loadQTable(cfg *config.Config) (map[string]map[string]float64, error) {
	dir := cfg.DataDir
	if dir == "" {
		var err error
		if dir, err = storage.DatabaseDir(); err != nil {
			return nil, err
		}
	}
	store, err := storage.Open(dir)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.LoadQTable()
}

func runInteractive(ai *agent.Hybrid, humanSide rules.Side) {
	pos := rules.StartingPosition()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("You play %s. Enter moves in UCI (or \"quit\").\n", humanSide)
	for !rules.IsGameOver(pos) {
		fmt.Printf("\n%s\n", rules.ToFEN(pos))

		if rules.SideToMove(pos) == humanSide {
			move, quit := readHumanMove(scanner, pos)
			if quit {
				return
			}
			rules.Apply(pos, move)
			continue
		}

		move, ok := ai.ChooseMove(pos)
		if !ok {
			break
		}
		fmt.Printf("Engine plays %s\n", move.String())
		rules.Apply(pos, move)
	}

	fmt.Printf("\nGame over: %s\n", rules.Result(pos))
}

func readHumanMove(scanner *bufio.Scanner, pos *rules.Position) (rules.Move, bool) {
	for {
		fmt.Print("your move> ")
		if !scanner.Scan() {
			return rules.NoMove, true
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "quit" || input == "exit" {
			return rules.NoMove, true
		}
		for _, m := range rules.LegalMoves(pos) {
			if m.String() == input {
				return m, false
			}
		}
		fmt.Printf("%q is not a legal move here\n", input)
	}
}
