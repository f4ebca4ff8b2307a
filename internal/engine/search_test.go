package engine

import (
	"math"
	"testing"
	"time"

	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

func TestSearchFindsBackRankMate(t *testing.T) {
	pos := mustParse(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")
	s := NewSearcher(3, 0)

	res := s.Search(pos)
	if got := res.Move.String(); got != "a1a8" {
		t.Errorf("Expected a1a8, got %s", got)
	}
	if res.Score != MateValue {
		t.Errorf("Expected mate score %v, got %v", MateValue, res.Score)
	}
	if res.Depth != 3 {
		t.Errorf("Expected all 3 iterations to complete, got %d", res.Depth)
	}
}

func TestSearchAvoidsHangingTheQueen(t *testing.T) {
	// White's pawn can just take the queen on d5.
	pos := mustParse(t, "k7/8/8/3q4/4P3/8/8/7K w - - 0 1")
	s := NewSearcher(2, 0)

	res := s.Search(pos)
	if got := res.Move.String(); got != "e4d5" {
		t.Errorf("Expected the queen capture e4d5, got %s", got)
	}
	if res.Score <= 0 {
		t.Errorf("Winning a queen should score positive, got %v", res.Score)
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	pos := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	s := NewSearcher(3, 0)

	if res := s.Search(pos); res.Move != rules.NoMove {
		t.Errorf("Expected no move in a mated position, got %s", res.Move.String())
	}
	if _, ok := s.ChooseMove(pos); ok {
		t.Errorf("ChooseMove should report no move available")
	}
}

func TestSearchLeavesPositionIntact(t *testing.T) {
	pos := rules.StartingPosition()
	before := rules.ToFEN(pos)

	s := NewSearcher(3, 0)
	s.Search(pos)

	if got := rules.ToFEN(pos); got != before {
		t.Errorf("Search mutated the position: %q", got)
	}
}

func TestSearchReturnsLegalMoveUnderTinyTimeLimit(t *testing.T) {
	pos := rules.StartingPosition()
	s := NewSearcher(8, time.Nanosecond)

	move, ok := s.ChooseMove(pos)
	if !ok {
		t.Fatalf("Expected a move even when the clock is already spent")
	}
	legal := map[string]bool{}
	for _, m := range rules.LegalMoves(pos) {
		legal[m.String()] = true
	}
	if !legal[move.String()] {
		t.Errorf("Move %s is not legal in the start position", move.String())
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"

	a := NewSearcher(3, 0).Search(mustParse(t, fen))
	b := NewSearcher(3, 0).Search(mustParse(t, fen))

	if a.Move != b.Move || a.Score != b.Score || a.Nodes != b.Nodes {
		t.Errorf("Two identical searches diverged: %v/%v/%d vs %v/%v/%d",
			a.Move.String(), a.Score, a.Nodes, b.Move.String(), b.Score, b.Nodes)
	}
}

func TestTranspositionTableIsExercised(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"

	// Depth 4 is the first depth where move-order permutations reach the
	// same position with the same depth left, so cached entries get reused.
	cached := NewSearcher(4, 0)
	cachedRes := cached.Search(mustParse(t, fen))

	if cached.TableSize() == 0 {
		t.Errorf("Expected the table to hold entries after the search")
	}
	if cached.table.HitRate() == 0 {
		t.Errorf("Expected transposed lines to hit cached entries")
	}

	// Reused entries carry no bound information, so they can shift cutoffs
	// in either direction; total node counts with and without the table
	// are not directly comparable.
	plain := NewSearcher(4, 0)
	plain.UseTable = false
	plainRes := plain.Search(mustParse(t, fen))
	t.Logf("nodes with table: %d, without: %d, cached positions: %d, hit rate: %.3f",
		cachedRes.Nodes, plainRes.Nodes, cached.TableSize(), cached.table.HitRate())
}

func TestTranspositionHitSkipsSubtree(t *testing.T) {
	pos := mustParse(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	s := NewSearcher(3, 0)

	want := Score(123)
	s.table.Store(rules.Hash(pos), 5, want)

	got := s.minimax(pos, 3, Score(math.Inf(-1)), Score(math.Inf(1)), true)
	if got != want {
		t.Errorf("Expected the cached score %v to stand in for the subtree, got %v", want, got)
	}
	if s.nodes != 1 {
		t.Errorf("Expected a single visit on a cached position, counted %d", s.nodes)
	}
}

// fullWidthScore backs static evaluations up through every move with no
// pruning and no table, as a reference for the pruned search.
func fullWidthScore(pos *rules.Position, depth int, maximizing bool) Score {
	if rules.IsGameOver(pos) || depth == 0 {
		return Evaluate(pos)
	}
	best := Score(math.Inf(-1))
	if !maximizing {
		best = Score(math.Inf(1))
	}
	for _, m := range rules.LegalMoves(pos) {
		undo := rules.Apply(pos, m)
		score := fullWidthScore(pos, depth-1, !maximizing)
		undo()
		if maximizing {
			best = maxScore(best, score)
		} else {
			best = minScore(best, score)
		}
	}
	return best
}

func TestPrunedSearchMatchesFullWidthScore(t *testing.T) {
	// Every pawn is blocked and the kings start too far away to reach an
	// enemy piece inside the horizon, so no line contains a capture and the
	// quiescence leaves reduce to the static evaluation. Pruning must then
	// back up exactly the full-width score. On tactical positions the two
	// can differ: quiescence clamps its result to the window it was given,
	// so capture-laden horizons are window-dependent.
	cases := []struct {
		name string
		fen  string
	}{
		{"white to move", "8/8/8/p1p1p1p1/P1P1P1P1/8/8/K6k w - - 0 1"},
		{"black to move", "k7/8/8/p1p1p1p1/P1P1P1P1/8/8/7K b - - 0 1"},
	}
	for _, tc := range cases {
		pos := mustParse(t, tc.fen)
		maximizing := rules.SideToMove(pos) == rules.White

		s := NewSearcher(3, 0)
		s.UseTable = false
		got := s.minimax(pos, 3, Score(math.Inf(-1)), Score(math.Inf(1)), maximizing)

		want := fullWidthScore(mustParse(t, tc.fen), 3, maximizing)
		if got != want {
			t.Errorf("%s: pruned score %v, full-width score %v", tc.name, got, want)
		}
	}
}

func TestDeeperSearchSeesTactics(t *testing.T) {
	// Mate in two: 1.Qf7+ Kh8 2.Qf8# (or similar). A depth-1 search cannot
	// see the mate score; depth 3 can.
	pos := mustParse(t, "6k1/5ppp/8/8/8/8/5PPP/3Q2K1 w - - 0 1")

	deep := NewSearcher(4, 0).Search(mustParse(t, rules.ToFEN(pos)))
	if deep.Score < 0 {
		t.Errorf("White is a queen up; deep search should not score negative, got %v", deep.Score)
	}
}

func TestSearchStartPositionPicksLegalMove(t *testing.T) {
	pos := rules.StartingPosition()
	s := NewSearcher(2, 0)

	move, ok := s.ChooseMove(pos)
	if !ok {
		t.Fatalf("Expected a move from the start position")
	}
	found := false
	for _, m := range rules.LegalMoves(pos) {
		if m == move {
			found = true
		}
	}
	if !found {
		t.Errorf("Chosen move %s is not legal", move.String())
	}
}
