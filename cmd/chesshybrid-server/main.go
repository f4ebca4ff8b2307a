// Command chesshybrid-server serves the engine over HTTP.
package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ahnani1Ali/chesshybrid/internal/book"
	"github.com/Ahnani1Ali/chesshybrid/internal/config"
	"github.com/Ahnani1Ali/chesshybrid/internal/server"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	var b *book.Book
	if cfg.BookPath != "" {
		if b, err = book.Load(cfg.BookPath); err != nil {
			log.Fatal().Err(err).Msg("could not load the book")
		}
	} else {
		b = book.New()
	}
	b.MaxOpeningPlies = cfg.MaxOpeningPlies

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Options{
		MaxDepth: cfg.SearchDepth,
		MoveTime: cfg.MoveTime,
		Book:     b,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Int("depth", cfg.SearchDepth).Msg("listening")
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
