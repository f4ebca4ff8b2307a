// Package qlearn implements a small tabular Q-learning selector trained by
// self-play. States are positions keyed by truncated FEN, actions are UCI
// move strings, and values update with the TD(0) rule
//
//	Q(s,a) <- Q(s,a) + alpha*(r + gamma*max Q(s',a') - Q(s,a))
//
// The state space of chess dwarfs any table, so this learner is a teaching
// device and an alternative selector, not a strong player.
package qlearn

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// Default hyperparameters.
const (
	DefaultAlpha        = 0.3
	DefaultGamma        = 0.95
	DefaultEpsilon      = 1.0
	DefaultEpsilonDecay = 0.995
	DefaultEpsilonMin   = 0.05
)

// Capture shaping rewards by victim piece type, roughly material in pawns.
var captureRewards = map[rules.Piece]float64{
	rules.Pawn:   0.10,
	rules.Knight: 0.32,
	rules.Bishop: 0.33,
	rules.Rook:   0.50,
	rules.Queen:  0.90,
	rules.King:   0,
}

// Agent is an epsilon-greedy Q-learner. Not safe for concurrent use.
type Agent struct {
	Alpha        float64
	Gamma        float64
	Epsilon      float64
	EpsilonDecay float64
	EpsilonMin   float64

	table map[string]map[string]float64

	Episodes int
	Wins     int
	Losses   int
	Draws    int
}

// Stats summarizes training progress.
type Stats struct {
	Episodes int     `json:"episodes"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Draws    int     `json:"draws"`
	WinRate  float64 `json:"win_rate"`
	Epsilon  float64 `json:"epsilon"`
	States   int     `json:"states"`
}

// NewAgent returns an untrained agent with the default hyperparameters.
func NewAgent() *Agent {
	return &Agent{
		Alpha:        DefaultAlpha,
		Gamma:        DefaultGamma,
		Epsilon:      DefaultEpsilon,
		EpsilonDecay: DefaultEpsilonDecay,
		EpsilonMin:   DefaultEpsilonMin,
		table:        make(map[string]map[string]float64),
	}
}

// Name identifies the selector in decision logs.
func (a *Agent) Name() string { return "q-learning" }

// StateKey maps a position to its table key: the first four FEN fields.
func StateKey(pos *rules.Position) string {
	return rules.FENKey(pos)
}

// ChooseMove picks epsilon-greedily among the legal moves. The ok result is
// false only when no legal move exists.
func (a *Agent) ChooseMove(pos *rules.Position) (rules.Move, bool) {
	legal := rules.LegalMoves(pos)
	if len(legal) == 0 {
		return rules.NoMove, false
	}
	if frand.Float64() < a.Epsilon {
		return legal[frand.Intn(len(legal))], true
	}
	return a.greedyMove(StateKey(pos), legal), true
}

// greedyMove returns the legal move with the highest Q-value. Unknown moves
// value 0; ties keep the first maximum.
func (a *Agent) greedyMove(state string, legal []rules.Move) rules.Move {
	best := legal[0]
	bestQ := math.Inf(-1)
	for _, m := range legal {
		if q := a.Q(state, m.String()); q > bestQ {
			bestQ = q
			best = m
		}
	}
	return best
}

// Q reads a value from the table. Missing entries are 0.
func (a *Agent) Q(state, move string) float64 {
	return a.table[state][move]
}

// Knows reports whether the agent has learned anything about the state. The
// hybrid selector uses this to decide between the learner and the search.
func (a *Agent) Knows(state string) bool {
	return len(a.table[state]) > 0
}

// States reports how many positions carry at least one learned value.
func (a *Agent) States() int {
	return len(a.table)
}

// Update applies one TD(0) step for taking move in state. nextMoves lists the
// legal replies in nextState; for terminal transitions done is true and the
// target is the bare reward.
func (a *Agent) Update(state, move string, reward float64, nextState string, nextMoves []string, done bool) {
	old := a.Q(state, move)

	target := reward
	if !done && len(nextMoves) > 0 {
		bestNext := math.Inf(-1)
		for _, nm := range nextMoves {
			bestNext = math.Max(bestNext, a.Q(nextState, nm))
		}
		target = reward + a.Gamma*bestNext
	}

	if a.table[state] == nil {
		a.table[state] = make(map[string]float64)
	}
	a.table[state][move] = old + a.Alpha*(target-old)
}

// DecayEpsilon shrinks the exploration rate after an episode, never below
// EpsilonMin.
func (a *Agent) DecayEpsilon() {
	a.Epsilon = math.Max(a.EpsilonMin, a.Epsilon*a.EpsilonDecay)
}

type transition struct {
	state     string
	move      string
	reward    float64
	nextState string
	nextMoves []string
	done      bool
}

// SelfPlayEpisode plays one game against itself from the start position,
// capped at maxMoves half-moves, then replays the transitions through Update.
// It returns the game result ("1-0", "0-1", "1/2-1/2", or "*" when the cap
// was hit) and the number of half-moves played.
func (a *Agent) SelfPlayEpisode(maxMoves int) (string, int) {
	pos := rules.StartingPosition()
	var history []transition
	plies := 0

	for !rules.IsGameOver(pos) && plies < maxMoves {
		state := StateKey(pos)
		m, ok := a.ChooseMove(pos)
		if !ok {
			break
		}

		reward := captureReward(pos, m)
		white := rules.SideToMove(pos) == rules.White

		rules.Apply(pos, m)
		plies++
		done := rules.IsGameOver(pos)

		if done {
			switch rules.Result(pos) {
			case "1-0":
				reward += signed(1, white)
			case "0-1":
				reward += signed(-1, white)
			}
		}

		var nextMoves []string
		if !done {
			nextMoves = lo.Map(rules.LegalMoves(pos), func(m rules.Move, _ int) string {
				return m.String()
			})
		}
		history = append(history, transition{state, m.String(), reward, StateKey(pos), nextMoves, done})
	}

	for _, tr := range history {
		a.Update(tr.state, tr.move, tr.reward, tr.nextState, tr.nextMoves, tr.done)
	}

	result := "*"
	if rules.IsGameOver(pos) {
		result = rules.Result(pos)
	}
	a.Episodes++
	a.DecayEpsilon()
	a.recordResult(result)
	return result, plies
}

// Train runs episodes of self-play, logging progress every logEvery episodes.
func (a *Agent) Train(episodes, logEvery int) {
	log.Info().Int("episodes", episodes).Msg("self-play training started")
	for ep := 1; ep <= episodes; ep++ {
		a.SelfPlayEpisode(200)
		if logEvery > 0 && ep%logEvery == 0 {
			st := a.Stats()
			log.Info().
				Int("episode", ep).
				Float64("epsilon", st.Epsilon).
				Int("wins", st.Wins).
				Int("draws", st.Draws).
				Int("losses", st.Losses).
				Float64("win_rate", st.WinRate).
				Int("states", st.States).
				Msg("training progress")
		}
	}
	log.Info().Int("states", a.States()).Msg("self-play training finished")
}

// Stats returns a snapshot of the training counters.
func (a *Agent) Stats() Stats {
	total := a.Wins + a.Losses + a.Draws
	winRate := 0.0
	if total > 0 {
		winRate = float64(a.Wins) / float64(total)
	}
	return Stats{
		Episodes: a.Episodes,
		Wins:     a.Wins,
		Losses:   a.Losses,
		Draws:    a.Draws,
		WinRate:  winRate,
		Epsilon:  a.Epsilon,
		States:   a.States(),
	}
}

// Table exposes the learned values for persistence.
func (a *Agent) Table() map[string]map[string]float64 {
	return a.table
}

// SetTable replaces the learned values, typically with a loaded snapshot.
func (a *Agent) SetTable(table map[string]map[string]float64) {
	if table == nil {
		table = make(map[string]map[string]float64)
	}
	a.table = table
}

// captureReward returns the shaping reward for a capture, signed toward the
// capturing side (positive when white captures). En passant counts as a pawn.
func captureReward(pos *rules.Position, m rules.Move) float64 {
	if !rules.IsCapture(pos, m) {
		return 0
	}
	victim := rules.PieceTypeAt(pos, m.To())
	if victim == rules.NoPiece {
		victim = rules.Pawn
	}
	return signed(captureRewards[victim], rules.SideToMove(pos) == rules.White)
}

func signed(v float64, white bool) float64 {
	if white {
		return v
	}
	return -v
}

func (a *Agent) recordResult(result string) {
	switch result {
	case "1-0":
		a.Wins++
	case "0-1":
		a.Losses++
	default:
		a.Draws++
	}
}
