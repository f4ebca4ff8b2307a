// Package agent composes the opening book, the Q-learning selector and the
// minimax search into one move source. The decision pipeline in hybrid mode
// is book first, then the learner when it knows the position, then search.
package agent

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Ahnani1Ali/chesshybrid/internal/book"
	"github.com/Ahnani1Ali/chesshybrid/internal/engine"
	"github.com/Ahnani1Ali/chesshybrid/internal/qlearn"
	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// MoveSelector chooses a move for the side to move. The ok result is false
// when no legal move exists. Implementations must leave the position as they
// found it.
type MoveSelector interface {
	ChooseMove(pos *rules.Position) (rules.Move, bool)
	Name() string
}

// Mode selects the decision pipeline.
type Mode string

const (
	// ModeMinimax plays book moves, then searches.
	ModeMinimax Mode = "minimax"
	// ModeRL plays only what the learner picks.
	ModeRL Mode = "rl"
	// ModeHybrid plays book moves, then the learner where it has been
	// trained, then searches.
	ModeHybrid Mode = "hybrid"
)

// Decision records where one move came from.
type Decision struct {
	Ply    int    `json:"ply"` // fullmove number when the move was chosen
	FEN    string `json:"fen"`
	Move   string `json:"move"`
	Source string `json:"source"`
}

// Hybrid dispatches between the three selectors according to its mode and
// keeps a log of which component produced each move.
type Hybrid struct {
	Mode     Mode
	Book     *book.Book
	Learner  *qlearn.Agent
	Searcher *engine.Searcher

	decisions []Decision
}

// New wires up a Hybrid. The book may be nil; the learner is required for
// rl and hybrid modes, the searcher for minimax and hybrid modes.
func New(mode Mode, b *book.Book, learner *qlearn.Agent, searcher *engine.Searcher) (*Hybrid, error) {
	switch mode {
	case ModeMinimax:
		if searcher == nil {
			return nil, fmt.Errorf("agent: minimax mode needs a searcher")
		}
	case ModeRL:
		if learner == nil {
			return nil, fmt.Errorf("agent: rl mode needs a learner")
		}
	case ModeHybrid:
		if learner == nil || searcher == nil {
			return nil, fmt.Errorf("agent: hybrid mode needs a learner and a searcher")
		}
	default:
		return nil, fmt.Errorf("agent: unknown mode %q", mode)
	}
	return &Hybrid{Mode: mode, Book: b, Learner: learner, Searcher: searcher}, nil
}

// Name identifies the agent in logs.
func (h *Hybrid) Name() string { return string(h.Mode) }

// ChooseMove runs the decision pipeline and records the outcome.
func (h *Hybrid) ChooseMove(pos *rules.Position) (rules.Move, bool) {
	if len(rules.LegalMoves(pos)) == 0 {
		return rules.NoMove, false
	}

	var (
		move   rules.Move
		ok     bool
		source string
	)

	// The book serves every mode except pure RL.
	if h.Mode != ModeRL && h.Book != nil {
		if m, hit := h.Book.ChooseMove(pos); hit {
			move, ok, source = m, true, h.Book.Name()
		}
	}

	if !ok {
		switch h.Mode {
		case ModeMinimax:
			move, ok = h.Searcher.ChooseMove(pos)
			source = h.Searcher.Name()
		case ModeRL:
			move, ok = h.Learner.ChooseMove(pos)
			source = h.Learner.Name()
		case ModeHybrid:
			if h.Learner.Knows(qlearn.StateKey(pos)) {
				move, ok = h.Learner.ChooseMove(pos)
				source = h.Learner.Name()
			}
			if !ok {
				move, ok = h.Searcher.ChooseMove(pos)
				source = h.Searcher.Name()
			}
		}
	}

	d := Decision{
		Ply:    rules.FullmoveNumber(pos),
		FEN:    rules.ToFEN(pos),
		Source: source,
	}
	if ok {
		d.Move = move.String()
	}
	h.decisions = append(h.decisions, d)
	log.Debug().
		Int("ply", d.Ply).
		Str("move", d.Move).
		Str("source", d.Source).
		Msg("move chosen")

	return move, ok
}

// Decisions returns a copy of the decision log.
func (h *Hybrid) Decisions() []Decision {
	out := make([]Decision, len(h.decisions))
	copy(out, h.decisions)
	return out
}

// ResetDecisions clears the decision log, typically between games.
func (h *Hybrid) ResetDecisions() {
	h.decisions = h.decisions[:0]
}
