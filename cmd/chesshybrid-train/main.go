// Command chesshybrid-train runs self-play Q-learning episodes and persists
// the learned table. Training resumes from whatever the database already
// holds, so it can run in increments.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ahnani1Ali/chesshybrid/internal/config"
	"github.com/Ahnani1Ali/chesshybrid/internal/qlearn"
	"github.com/Ahnani1Ali/chesshybrid/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	episodes := flag.Int("episodes", 1000, "number of self-play games")
	logEvery := flag.Int("log-every", 100, "progress logging interval")
	flag.Parse()

	dir := cfg.DataDir
	if dir == "" {
		if dir, err = storage.DatabaseDir(); err != nil {
			log.Fatal().Err(err).Msg("could not resolve the data directory")
		}
	}
	store, err := storage.Open(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open the database")
	}
	defer store.Close()

	learner := qlearn.NewAgent()
	table, err := store.LoadQTable()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the q-table")
	}
	learner.SetTable(table)

	stats, err := store.LoadStats()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the training stats")
	}
	if stats.Episodes > 0 {
		learner.Episodes = stats.Episodes
		learner.Wins = stats.Wins
		learner.Losses = stats.Losses
		learner.Draws = stats.Draws
		learner.Epsilon = stats.Epsilon
		log.Info().Int("episodes", stats.Episodes).Int("states", learner.States()).
			Msg("resuming from a previous run")
	}

	learner.Train(*episodes, *logEvery)

	if err := store.SaveQTable(learner.Table()); err != nil {
		log.Fatal().Err(err).Msg("could not save the q-table")
	}
	if err := store.SaveStats(learner.Stats()); err != nil {
		log.Fatal().Err(err).Msg("could not save the training stats")
	}
	final := learner.Stats()
	log.Info().
		Int("episodes", final.Episodes).
		Int("states", final.States).
		Float64("win_rate", final.WinRate).
		Float64("epsilon", final.Epsilon).
		Msg("training saved")
}
