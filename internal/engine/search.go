package engine

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// How many extra plies of captures the search resolves past its horizon.
const quiescenceDepth = 4

// Result carries the outcome of one search: the chosen move, its score from
// white's point of view, and diagnostics.
type Result struct {
	Move    rules.Move
	Score   Score
	Nodes   uint64
	Depth   int
	Elapsed time.Duration
}

// Searcher runs iterative-deepening minimax with alpha-beta pruning. Each
// Searcher owns its transposition table and is not safe for concurrent use;
// run one Searcher per goroutine.
type Searcher struct {
	// MaxDepth is the deepest full-width iteration attempted.
	MaxDepth int
	// TimeLimit bounds one Search call. Zero means no limit.
	TimeLimit time.Duration
	// UseTable toggles the transposition table. On by default; turning it
	// off makes the search a pure alpha-beta, mostly useful in tests.
	UseTable bool

	table   *TranspositionTable
	orderer *MoveOrderer
	nodes   uint64
	start   time.Time
}

// NewSearcher returns a searcher with the given depth and time budget.
func NewSearcher(maxDepth int, timeLimit time.Duration) *Searcher {
	return &Searcher{
		MaxDepth:  maxDepth,
		TimeLimit: timeLimit,
		UseTable:  true,
		table:     NewTranspositionTable(),
		orderer:   NewMoveOrderer(),
	}
}

// Name identifies the selector in decision logs.
func (s *Searcher) Name() string { return "minimax" }

// ChooseMove searches the position and returns the best move found. The ok
// result is false only when the position has no legal moves. The position is
// left exactly as it was passed in.
func (s *Searcher) ChooseMove(pos *rules.Position) (rules.Move, bool) {
	res := s.Search(pos)
	if res.Move == rules.NoMove {
		return rules.NoMove, false
	}
	log.Debug().
		Str("move", res.Move.String()).
		Float64("score", float64(res.Score)).
		Uint64("nodes", res.Nodes).
		Int("depth", res.Depth).
		Dur("elapsed", res.Elapsed).
		Msg("search complete")
	return res.Move, true
}

// Search runs the full iterative-deepening loop and reports diagnostics
// along with the move. The best move found so far is carried across
// iterations, so a deeper iteration only replaces it with a strictly better
// one, and an interrupted iteration can never lose the previous answer.
func (s *Searcher) Search(pos *rules.Position) Result {
	legal := rules.LegalMoves(pos)
	if len(legal) == 0 {
		return Result{Move: rules.NoMove}
	}

	s.nodes = 0
	s.start = time.Now()
	s.table.Clear()

	maximizing := rules.SideToMove(pos) == rules.White
	bestMove := rules.NoMove
	bestScore := Score(math.Inf(-1))
	if !maximizing {
		bestScore = Score(math.Inf(1))
	}

	completed := 0
	for depth := 1; depth <= s.MaxDepth; depth++ {
		alpha := Score(math.Inf(-1))
		beta := Score(math.Inf(1))
		finished := true

		for _, m := range s.orderer.Order(pos, legal, false) {
			if s.outOfTime() {
				finished = false
				break
			}
			undo := rules.Apply(pos, m)
			score := s.minimax(pos, depth-1, alpha, beta, !maximizing)
			undo()

			if maximizing {
				if score > bestScore || bestMove == rules.NoMove {
					bestScore, bestMove = score, m
				}
				alpha = maxScore(alpha, bestScore)
			} else {
				if score < bestScore || bestMove == rules.NoMove {
					bestScore, bestMove = score, m
				}
				beta = minScore(beta, bestScore)
			}
		}

		if finished {
			completed = depth
		} else {
			break
		}
		log.Trace().
			Int("depth", depth).
			Str("best", bestMove.String()).
			Float64("score", float64(bestScore)).
			Uint64("nodes", s.nodes).
			Msg("deepening iteratively")
	}

	if bestMove == rules.NoMove {
		// The clock ran out before the first root move finished. Still
		// answer with a legal move: the top-ordered one.
		bestMove = s.orderer.Order(pos, legal, false)[0]
		bestScore = Evaluate(pos)
	}

	return Result{
		Move:    bestMove,
		Score:   bestScore,
		Nodes:   s.nodes,
		Depth:   completed,
		Elapsed: time.Since(s.start),
	}
}

// TableSize reports how many positions the last search cached.
func (s *Searcher) TableSize() int { return s.table.Len() }

func (s *Searcher) minimax(pos *rules.Position, depth int, alpha, beta Score, maximizing bool) Score {
	s.nodes++

	if rules.IsGameOver(pos) {
		return Evaluate(pos)
	}
	if depth == 0 {
		return s.quiescence(pos, alpha, beta, maximizing, quiescenceDepth)
	}

	hash := rules.Hash(pos)
	if s.UseTable {
		if entry, ok := s.table.Probe(hash); ok && entry.Depth >= depth {
			return entry.Score
		}
	}

	moves := s.orderer.Order(pos, rules.LegalMoves(pos), false)
	var best Score
	if maximizing {
		best = Score(math.Inf(-1))
		for _, m := range moves {
			if s.outOfTime() {
				break
			}
			undo := rules.Apply(pos, m)
			score := s.minimax(pos, depth-1, alpha, beta, false)
			undo()
			best = maxScore(best, score)
			alpha = maxScore(alpha, score)
			if beta <= alpha {
				break
			}
		}
	} else {
		best = Score(math.Inf(1))
		for _, m := range moves {
			if s.outOfTime() {
				break
			}
			undo := rules.Apply(pos, m)
			score := s.minimax(pos, depth-1, alpha, beta, true)
			undo()
			best = minScore(best, score)
			beta = minScore(beta, score)
			if beta <= alpha {
				break
			}
		}
	}

	if s.UseTable {
		s.table.Store(hash, depth, best)
	}
	return best
}

// quiescence keeps resolving captures past the horizon so the static
// evaluation is never taken in the middle of an exchange. Quiet positions
// stand pat on the static score.
func (s *Searcher) quiescence(pos *rules.Position, alpha, beta Score, maximizing bool, depth int) Score {
	standPat := Evaluate(pos)
	if depth == 0 || rules.IsGameOver(pos) {
		return standPat
	}

	if maximizing {
		if standPat >= beta {
			return beta
		}
		alpha = maxScore(alpha, standPat)
		for _, m := range s.orderer.Order(pos, rules.LegalMoves(pos), true) {
			undo := rules.Apply(pos, m)
			score := s.quiescence(pos, alpha, beta, false, depth-1)
			undo()
			alpha = maxScore(alpha, score)
			if alpha >= beta {
				break
			}
		}
		return alpha
	}

	if standPat <= alpha {
		return alpha
	}
	beta = minScore(beta, standPat)
	for _, m := range s.orderer.Order(pos, rules.LegalMoves(pos), true) {
		undo := rules.Apply(pos, m)
		score := s.quiescence(pos, alpha, beta, true, depth-1)
		undo()
		beta = minScore(beta, score)
		if beta <= alpha {
			break
		}
	}
	return beta
}

func (s *Searcher) outOfTime() bool {
	return s.TimeLimit > 0 && time.Since(s.start) >= s.TimeLimit
}

func maxScore(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

func minScore(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
