package qlearn

import (
	"math"
	"testing"

	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

func TestUpdateFromScratch(t *testing.T) {
	a := NewAgent()

	// Terminal transition: target is the bare reward.
	a.Update("s", "e2e4", 1.0, "t", nil, true)
	want := a.Alpha * 1.0
	if got := a.Q("s", "e2e4"); math.Abs(got-want) > 1e-12 {
		t.Errorf("Q(s,e2e4) = %v, want %v", got, want)
	}
}

func TestUpdateBootstrapsFromNextState(t *testing.T) {
	a := NewAgent()
	a.Update("next", "d7d5", 1.0, "x", nil, true) // Q(next,d7d5) = 0.3

	a.Update("s", "e2e4", 0.5, "next", []string{"d7d5", "g8f6"}, false)
	// target = 0.5 + 0.95*0.3, Q = 0.3*target
	want := a.Alpha * (0.5 + a.Gamma*0.3)
	if got := a.Q("s", "e2e4"); math.Abs(got-want) > 1e-12 {
		t.Errorf("Q(s,e2e4) = %v, want %v", got, want)
	}
}

func TestGreedyMovePicksHighestValue(t *testing.T) {
	a := NewAgent()
	a.Epsilon = 0 // no exploration

	pos := rules.StartingPosition()
	state := StateKey(pos)
	a.Update(state, "d2d4", 1.0, "x", nil, true)

	move, ok := a.ChooseMove(pos)
	if !ok {
		t.Fatalf("Expected a move")
	}
	if got := move.String(); got != "d2d4" {
		t.Errorf("Expected the learned move d2d4, got %s", got)
	}
}

func TestChooseMoveNoLegalMoves(t *testing.T) {
	pos, err := rules.ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if _, ok := NewAgent().ChooseMove(pos); ok {
		t.Errorf("Expected no move in a mated position")
	}
}

func TestKnows(t *testing.T) {
	a := NewAgent()
	if a.Knows("s") {
		t.Errorf("Fresh agent should know nothing")
	}
	a.Update("s", "e2e4", 0.1, "t", nil, true)
	if !a.Knows("s") {
		t.Errorf("Agent should know the updated state")
	}
	if a.Knows("other") {
		t.Errorf("Agent should not know unrelated states")
	}
}

func TestDecayEpsilonFloor(t *testing.T) {
	a := NewAgent()
	for i := 0; i < 5000; i++ {
		a.DecayEpsilon()
	}
	if a.Epsilon != a.EpsilonMin {
		t.Errorf("Epsilon should bottom out at %v, got %v", a.EpsilonMin, a.Epsilon)
	}
}

func TestCaptureRewardSigns(t *testing.T) {
	// White pawn takes the d5 queen.
	pos, err := rules.ParseFEN("k7/8/8/3q4/4P3/8/8/7K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	for _, m := range rules.LegalMoves(pos) {
		if m.String() == "e4d5" {
			if got := captureReward(pos, m); got != 0.90 {
				t.Errorf("White capturing a queen should reward +0.90, got %v", got)
			}
		} else if got := captureReward(pos, m); got != 0 {
			t.Errorf("Quiet move %s should not reward, got %v", m.String(), got)
		}
	}

	// Black knight takes a rook: negative from white's point of view.
	pos, err = rules.ParseFEN("7k/8/8/8/8/1n6/8/R6K b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	found := false
	for _, m := range rules.LegalMoves(pos) {
		if m.String() != "b3a1" {
			continue
		}
		found = true
		if got := captureReward(pos, m); got != -0.50 {
			t.Errorf("Black capturing a rook should reward -0.50, got %v", got)
		}
	}
	if !found {
		t.Fatalf("Expected c3a1 to be legal")
	}
}

func TestSelfPlayEpisodeUpdatesTable(t *testing.T) {
	a := NewAgent()
	result, plies := a.SelfPlayEpisode(20)

	if plies == 0 || plies > 20 {
		t.Errorf("Expected between 1 and 20 half-moves, got %d", plies)
	}
	if result != "*" && result != "1-0" && result != "0-1" && result != "1/2-1/2" {
		t.Errorf("Unexpected result %q", result)
	}
	if a.Episodes != 1 {
		t.Errorf("Expected one recorded episode, got %d", a.Episodes)
	}
	if a.States() == 0 {
		t.Errorf("Expected the table to hold visited states")
	}
	if a.Epsilon >= DefaultEpsilon {
		t.Errorf("Epsilon should have decayed, got %v", a.Epsilon)
	}
}

func TestTableRoundTrip(t *testing.T) {
	a := NewAgent()
	a.Update("s", "e2e4", 1.0, "t", nil, true)

	b := NewAgent()
	b.SetTable(a.Table())
	if b.Q("s", "e2e4") != a.Q("s", "e2e4") {
		t.Errorf("SetTable should carry the learned values over")
	}

	b.SetTable(nil)
	if b.States() != 0 {
		t.Errorf("SetTable(nil) should leave an empty table")
	}
}

func TestStats(t *testing.T) {
	a := NewAgent()
	a.Wins, a.Losses, a.Draws, a.Episodes = 3, 1, 1, 5

	st := a.Stats()
	if st.WinRate != 0.6 {
		t.Errorf("Expected win rate 0.6, got %v", st.WinRate)
	}
	if st.Episodes != 5 {
		t.Errorf("Expected 5 episodes, got %d", st.Episodes)
	}
}
