// Package engine implements the move-selection core: a static evaluator and
// an iterative-deepening alpha-beta search with quiescence, move ordering and
// a transposition table. It drives the rules package for move generation and
// never keeps its own board representation.
package engine

import (
	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// Score is a position evaluation in centipawns from white's point of view.
// Positive favors white. Fractional values come from the mobility and
// center-control weights.
type Score float64

// MateValue is the magnitude of a delivered checkmate.
const MateValue Score = 20000

const (
	pawnValue   Score = 100
	knightValue Score = 320
	bishopValue Score = 330
	rookValue   Score = 500
	queenValue  Score = 900

	mobilityWeight       = 0.1
	innerCenterWeight    = 0.3
	extendedCenterWeight = 0.1
	checkPenalty         = 50
)

// d4, e4, d5, e5.
var innerCenter = [...]uint8{27, 28, 35, 36}

// The ring around the inner center: c3-f3, c4, f4, c5, f5, c6-f6.
var extendedCenter = [...]uint8{18, 19, 20, 21, 26, 29, 34, 37, 42, 43, 44, 45}

// Evaluate scores the position statically. Checkmate scores exactly
// ±MateValue against the mated side; stalemate and dead positions score
// exactly 0 regardless of material. Otherwise the score sums material,
// piece placement, mobility, center control and a check term.
func Evaluate(pos *rules.Position) Score {
	if len(rules.LegalMoves(pos)) == 0 {
		if rules.IsCheck(pos) {
			if rules.SideToMove(pos) == rules.White {
				return -MateValue
			}
			return MateValue
		}
		return 0
	}
	if rules.IsInsufficientMaterial(pos) {
		return 0
	}

	score := materialAndPlacement(pos)
	score += mobilityTerm(pos)
	score += centerControl(pos)
	if rules.IsCheck(pos) {
		if rules.SideToMove(pos) == rules.White {
			score -= checkPenalty
		} else {
			score += checkPenalty
		}
	}
	return score
}

// PieceValue returns the material value of a piece type. The king carries no
// material value; its worth shows up only through its square table.
func PieceValue(p rules.Piece) Score {
	switch p {
	case rules.Pawn:
		return pawnValue
	case rules.Knight:
		return knightValue
	case rules.Bishop:
		return bishopValue
	case rules.Rook:
		return rookValue
	case rules.Queen:
		return queenValue
	}
	return 0
}

func materialAndPlacement(pos *rules.Position) Score {
	var score Score
	rules.EachPiece(pos, func(sq uint8, p rules.Piece, s rules.Side) {
		v := PieceValue(p) + squareBonus(p, sq, s)
		if s == rules.White {
			score += v
		} else {
			score -= v
		}
	})
	return score
}

// squareBonus looks up the piece-square bonus. The tables are written from
// black's point of view (index 0 is a8), so white squares are mirrored
// vertically.
func squareBonus(p rules.Piece, sq uint8, s rules.Side) Score {
	if s == rules.White {
		sq ^= 56
	}
	switch p {
	case rules.Pawn:
		return pawnTable[sq]
	case rules.Knight:
		return knightTable[sq]
	case rules.Bishop:
		return bishopTable[sq]
	case rules.Rook:
		return rookTable[sq]
	case rules.Queen:
		return queenTable[sq]
	case rules.King:
		return kingMidgameTable[sq]
	}
	return 0
}

// mobilityTerm rewards the side with more legal moves. The opponent's count
// comes from passing the turn with a null move.
func mobilityTerm(pos *rules.Position) Score {
	own := len(rules.LegalMoves(pos))
	undo := rules.ApplyNull(pos)
	their := len(rules.LegalMoves(pos))
	undo()

	diff := mobilityWeight * Score(own-their)
	if rules.SideToMove(pos) == rules.Black {
		diff = -diff
	}
	return diff
}

// centerControl counts attackers of the central squares for both sides. The
// four inner squares weigh three times the surrounding ring.
func centerControl(pos *rules.Position) Score {
	var score Score
	for _, sq := range innerCenter {
		w := rules.AttackerCount(pos, rules.White, sq)
		b := rules.AttackerCount(pos, rules.Black, sq)
		score += innerCenterWeight * Score(w-b)
	}
	for _, sq := range extendedCenter {
		w := rules.AttackerCount(pos, rules.White, sq)
		b := rules.AttackerCount(pos, rules.Black, sq)
		score += extendedCenterWeight * Score(w-b)
	}
	return score
}
