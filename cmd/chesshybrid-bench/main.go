// Command chesshybrid-bench searches a fixed suite of positions and reports
// nodes and time per position. Positions run in parallel, one searcher each.
package main

import (
	"flag"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Ahnani1Ali/chesshybrid/internal/engine"
	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// A mix of opening, middlegame, endgame and tactical positions.
var suite = []struct {
	name string
	fen  string
}{
	{"startpos", rules.StartingFEN},
	{"italian", "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"},
	{"middlegame", "r2q1rk1/pp2bppp/2n1bn2/2pp4/8/1P1P1NP1/PBPN1PBP/R2Q1RK1 w - - 0 11"},
	{"back-rank", "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1"},
	{"rook-endgame", "8/8/4k3/8/4P3/4K3/8/4R3 w - - 0 1"},
	{"queen-vs-rook", "k7/8/8/8/3Q4/8/3K4/3r4 w - - 0 1"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	depth := flag.Int("depth", 4, "search depth")
	moveTime := flag.Duration("movetime", 0, "time budget per position, 0 for none")
	workers := flag.Int("workers", 2, "positions searched in parallel")
	flag.Parse()

	var (
		mu         sync.Mutex
		totalNodes uint64
		totalTime  time.Duration
	)

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(*workers)
	for _, bench := range suite {
		bench := bench
		g.Go(func() error {
			pos, err := rules.ParseFEN(bench.fen)
			if err != nil {
				return err
			}
			res := engine.NewSearcher(*depth, *moveTime).Search(pos)
			log.Info().
				Str("position", bench.name).
				Str("move", res.Move.String()).
				Float64("score", float64(res.Score)).
				Uint64("nodes", res.Nodes).
				Int("depth", res.Depth).
				Dur("elapsed", res.Elapsed).
				Msg("searched")

			mu.Lock()
			totalNodes += res.Nodes
			totalTime += res.Elapsed
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}

	elapsed := time.Since(start)
	nps := float64(totalNodes) / totalTime.Seconds()
	log.Info().
		Int("positions", len(suite)).
		Uint64("total_nodes", totalNodes).
		Dur("wall_time", elapsed).
		Float64("nodes_per_second", nps).
		Msg("benchmark complete")
}
