package engine

import (
	"sort"

	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// Move ordering scores. Every capture outranks every promotion, which
// outranks every quiet move.
const (
	captureBase    = 1000
	promotionScore = 900
)

// MoveOrderer sorts candidate moves so the search visits likely-best moves
// first. Captures are ranked most-valuable-victim / least-valuable-attacker
// on piece type indexes, queen promotions next, quiet moves last in
// generation order.
type MoveOrderer struct{}

// NewMoveOrderer returns a MoveOrderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Order returns the moves sorted by descending heuristic score. With
// capturesOnly set, quiet non-promotion moves are dropped entirely, which is
// what the quiescence search wants. The input slice is not modified.
func (o *MoveOrderer) Order(pos *rules.Position, moves []rules.Move, capturesOnly bool) []rules.Move {
	type scoredMove struct {
		move  rules.Move
		score int
	}
	ranked := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		switch {
		case rules.IsCapture(pos, m):
			victim := int(rules.PieceTypeAt(pos, m.To()))
			attacker := int(rules.PieceTypeAt(pos, m.From()))
			if attacker == int(rules.NoPiece) {
				attacker = int(rules.King)
			}
			ranked = append(ranked, scoredMove{m, captureBase + 10*victim - attacker})
		case m.Promote() == rules.Queen:
			ranked = append(ranked, scoredMove{m, promotionScore})
		case capturesOnly:
			// Quiet moves don't extend the quiescence search.
		default:
			ranked = append(ranked, scoredMove{m, 0})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	out := make([]rules.Move, len(ranked))
	for i, sm := range ranked {
		out[i] = sm.move
	}
	return out
}
