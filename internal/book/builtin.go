package book

// Entry is one candidate move in the builtin book, with a selection weight.
type Entry struct {
	UCI    string
	Weight int
}

// builtinBook covers the main lines of a handful of classical openings. Keys
// are the first four FEN fields of the position; weights roughly track how
// often each reply is played at master level.
var builtinBook = map[string][]Entry{
	// Starting position.
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -": {
		{"e2e4", 40}, {"d2d4", 35}, {"c2c4", 15}, {"g1f3", 10},
	},

	// Black replies to 1.e4.
	"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3": {
		{"e7e5", 35}, // open game
		{"c7c5", 30}, // Sicilian
		{"e7e6", 15}, // French
		{"c7c6", 10}, // Caro-Kann
		{"d7d6", 5},  // Pirc
		{"g8f6", 5},  // Alekhine
	},

	// Black replies to 1.d4.
	"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3": {
		{"d7d5", 40}, // closed game, Queen's Gambit lines
		{"g8f6", 30}, // Indian defenses
		{"e7e6", 20}, // Nimzo-Indian setups
		{"f7f5", 10}, // Dutch
	},

	// Ruy Lopez: 1.e4 e5 2.Nf3 Nc6 3.Bb5.
	"r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq -": {
		{"a7a6", 40}, // Morphy defense
		{"f8c5", 20}, // classical
		{"g8f6", 20}, // Berlin defense
		{"d7d6", 10}, // Steinitz defense
		{"g7g6", 10}, // fianchetto
	},

	// Sicilian: 1.e4 c5 2.Nf3.
	"rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq -": {
		{"d7d6", 35}, // Najdorf and Dragon setups
		{"b8c6", 30},
		{"e7e6", 25}, // Scheveningen
		{"g8f6", 10},
	},

	// French: 1.e4 e6 2.d4.
	"rnbqkbnr/pppp1ppp/4p3/8/3PP3/8/PPP2PPP/RNBQKBNR b KQkq d3": {
		{"d7d5", 70},
		{"c7c5", 20},
		{"b8c6", 10},
	},

	// Queen's Gambit: 1.d4 d5 2.c4.
	"rnbqkbnr/ppp1pppp/8/3p4/2PP4/8/PP2PPPP/RNBQKBNR b KQkq c3": {
		{"e7e6", 40}, // declined
		{"c7c6", 30}, // Slav
		{"d5c4", 20}, // accepted
		{"g8f6", 10},
	},

	// Italian: 1.e4 e5 2.Nf3 Nc6 3.Bc4.
	"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq -": {
		{"f8c5", 50}, // Giuoco Piano
		{"g8f6", 30}, // Two Knights
		{"f8e7", 10}, // Hungarian
		{"h7h6", 10},
	},

	// English: 1.c4.
	"rnbqkbnr/pppppppp/8/8/2P5/8/PP1PPPPP/RNBQKBNR b KQkq c3": {
		{"e7e5", 40}, // reversed Sicilian
		{"c7c5", 30}, // symmetrical
		{"g8f6", 20},
		{"e7e6", 10},
	},
}

// OpeningName identifies the opening from the game's moves so far, in UCI
// notation. It is a rough classifier for logs and display, not a database.
func OpeningName(moves []string) string {
	prefix := func(want ...string) bool {
		if len(moves) < len(want) {
			return false
		}
		for i, m := range want {
			if moves[i] != m {
				return false
			}
		}
		return true
	}

	switch {
	case len(moves) == 0:
		return "Starting position"
	case prefix("e2e4", "c7c5"):
		return "Sicilian Defense"
	case prefix("e2e4", "e7e6"):
		return "French Defense"
	case prefix("e2e4", "e7e5", "g1f3", "b8c6") && len(moves) >= 5 && moves[4] == "f1b5":
		return "Ruy Lopez"
	case prefix("e2e4", "e7e5", "g1f3", "b8c6") && len(moves) >= 5 && moves[4] == "f1c4":
		return "Italian Game"
	case prefix("d2d4", "d7d5", "c2c4"):
		return "Queen's Gambit"
	case prefix("c2c4"):
		return "English Opening"
	}
	return "Unknown opening"
}
