// Package server exposes the engine over HTTP: move search, static
// evaluation and book probes. Every request builds its own searcher, so
// requests are independent and safe to serve concurrently.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Ahnani1Ali/chesshybrid/internal/book"
	"github.com/Ahnani1Ali/chesshybrid/internal/engine"
	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// Options bound per-request search effort.
type Options struct {
	MaxDepth int
	MoveTime time.Duration
	Book     *book.Book
}

type moveRequest struct {
	FEN        string `json:"fen" binding:"required"`
	Depth      int    `json:"depth"`
	MoveTimeMs int    `json:"movetime_ms"`
}

type moveResponse struct {
	Move      string  `json:"move"`
	Score     float64 `json:"score"`
	Depth     int     `json:"depth"`
	Nodes     uint64  `json:"nodes"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

type evalRequest struct {
	FEN string `json:"fen" binding:"required"`
}

// NewRouter builds the gin router with all routes attached.
func NewRouter(opts Options) *gin.Engine {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = 4
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/move", handleMove(opts))
	router.POST("/api/eval", handleEval)
	router.GET("/api/book", handleBook(opts.Book))
	return router
}

func handleMove(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pos, err := rules.ParseFEN(req.FEN)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		depth := opts.MaxDepth
		if req.Depth > 0 && req.Depth <= opts.MaxDepth {
			depth = req.Depth
		}
		moveTime := opts.MoveTime
		if req.MoveTimeMs > 0 {
			moveTime = time.Duration(req.MoveTimeMs) * time.Millisecond
			if opts.MoveTime > 0 && moveTime > opts.MoveTime {
				moveTime = opts.MoveTime
			}
		}

		res := engine.NewSearcher(depth, moveTime).Search(pos)
		if res.Move == rules.NoMove {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "no legal moves",
				"result": rules.Result(pos),
			})
			return
		}
		log.Debug().Str("fen", req.FEN).Str("move", res.Move.String()).
			Uint64("nodes", res.Nodes).Msg("move served")
		c.JSON(http.StatusOK, moveResponse{
			Move:      res.Move.String(),
			Score:     float64(res.Score),
			Depth:     res.Depth,
			Nodes:     res.Nodes,
			ElapsedMs: res.Elapsed.Milliseconds(),
		})
	}
}

func handleEval(c *gin.Context) {
	var req evalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pos, err := rules.ParseFEN(req.FEN)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"score":  float64(engine.Evaluate(pos)),
		"result": rules.Result(pos),
	})
}

func handleBook(b *book.Book) gin.HandlerFunc {
	return func(c *gin.Context) {
		fen := c.Query("fen")
		if fen == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing fen query parameter"})
			return
		}
		pos, err := rules.ParseFEN(fen)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if b == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no book configured"})
			return
		}
		move, ok := b.ChooseMove(pos)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "position not in book"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"move": move.String()})
	}
}
