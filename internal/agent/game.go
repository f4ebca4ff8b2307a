package agent

import (
	"github.com/rs/zerolog/log"

	"github.com/Ahnani1Ali/chesshybrid/internal/book"
	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// GameRecord is the outcome of one played game.
type GameRecord struct {
	Result   string   `json:"result"` // "1-0", "0-1", "1/2-1/2", or "*"
	Moves    []string `json:"moves"`  // UCI, in order
	Opening  string   `json:"opening"`
	FinalFEN string   `json:"final_fen"`
}

// PlayGame plays white against black from the start position, capped at
// maxMoves half-moves. Passing the same selector twice is self-play.
func PlayGame(white, black MoveSelector, maxMoves int) GameRecord {
	pos := rules.StartingPosition()
	var moves []string

	for !rules.IsGameOver(pos) && len(moves) < maxMoves {
		sel := white
		if rules.SideToMove(pos) == rules.Black {
			sel = black
		}
		m, ok := sel.ChooseMove(pos)
		if !ok {
			break
		}
		log.Debug().
			Int("move", rules.FullmoveNumber(pos)).
			Str("side", rules.SideToMove(pos).String()).
			Str("uci", m.String()).
			Str("selector", sel.Name()).
			Msg("move played")
		rules.Apply(pos, m)
		moves = append(moves, m.String())
	}

	result := "*"
	if rules.IsGameOver(pos) {
		result = rules.Result(pos)
	}
	record := GameRecord{
		Result:  result,
		Moves:   moves,
		Opening: book.OpeningName(moves),
		FinalFEN: rules.ToFEN(pos),
	}
	log.Info().
		Str("result", record.Result).
		Int("half_moves", len(moves)).
		Str("opening", record.Opening).
		Msg("game finished")
	return record
}
