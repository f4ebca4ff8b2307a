package engine

import (
	"testing"

	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

func TestOrderPutsCapturesFirst(t *testing.T) {
	// One capture available: exd5.
	pos := mustParse(t, "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	o := NewMoveOrderer()

	ordered := o.Order(pos, rules.LegalMoves(pos), false)
	if len(ordered) == 0 {
		t.Fatalf("Expected legal moves")
	}
	if got := ordered[0].String(); got != "e4d5" {
		t.Errorf("Expected the capture first, got %s", got)
	}
}

func TestOrderPrefersBigVictimsAndCheapAttackers(t *testing.T) {
	// Pawn takes queen (e4d5) must outrank rook takes pawn (a1a7).
	pos := mustParse(t, "k7/p7/8/3q4/4P3/8/8/R6K w - - 0 1")
	o := NewMoveOrderer()

	ordered := o.Order(pos, rules.LegalMoves(pos), false)
	if len(ordered) < 2 {
		t.Fatalf("Expected at least two moves")
	}
	if got := ordered[0].String(); got != "e4d5" {
		t.Errorf("Expected pawn-takes-queen first, got %s", got)
	}
	if got := ordered[1].String(); got != "a1a7" {
		t.Errorf("Expected rook-takes-pawn second, got %s", got)
	}
}

func TestOrderCapturesOnlyDropsQuietMoves(t *testing.T) {
	pos := mustParse(t, "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	o := NewMoveOrderer()

	ordered := o.Order(pos, rules.LegalMoves(pos), true)
	if len(ordered) != 1 {
		t.Fatalf("Expected exactly the one capture, got %d moves", len(ordered))
	}
	if got := ordered[0].String(); got != "e4d5" {
		t.Errorf("Expected e4d5, got %s", got)
	}
}

func TestOrderKeepsQueenPromotionInQuiescence(t *testing.T) {
	pos := mustParse(t, "7k/P7/8/8/8/8/8/7K w - - 0 1")
	o := NewMoveOrderer()

	ordered := o.Order(pos, rules.LegalMoves(pos), true)
	if len(ordered) != 1 {
		t.Fatalf("Expected only the queen promotion, got %d moves", len(ordered))
	}
	if got := ordered[0].String(); got != "a7a8q" {
		t.Errorf("Expected a7a8q, got %s", got)
	}
}

func TestOrderRanksQueenPromotionAboveQuietMoves(t *testing.T) {
	pos := mustParse(t, "7k/P7/8/8/8/8/8/7K w - - 0 1")
	o := NewMoveOrderer()

	ordered := o.Order(pos, rules.LegalMoves(pos), false)
	if got := ordered[0].String(); got != "a7a8q" {
		t.Errorf("Expected the queen promotion first, got %s", got)
	}
}

func TestOrderDoesNotModifyInput(t *testing.T) {
	pos := rules.StartingPosition()
	moves := rules.LegalMoves(pos)
	snapshot := make([]rules.Move, len(moves))
	copy(snapshot, moves)

	NewMoveOrderer().Order(pos, moves, false)

	for i := range moves {
		if moves[i] != snapshot[i] {
			t.Fatalf("Order reordered the caller's slice at %d", i)
		}
	}
}
