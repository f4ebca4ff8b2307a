// Package rules adapts the dragontoothmg move generator to the surface the
// rest of the program needs: legal move generation, make/unmake with undo
// closures, game-over detection and position hashing. All components share a
// single mutable Position; callers that explore variations must invoke the
// undo closure to restore the position before returning it.
package rules

import (
	"fmt"
	"math/bits"
	"strings"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

// Position is the full game state: piece placement, side to move, castling
// rights, en passant target and move clocks.
type Position = dragon.Board

// Move encodes an origin square, a destination square and an optional
// promotion piece. Its String method renders long algebraic (UCI) notation.
type Move = dragon.Move

// NoMove is the zero Move, used where no legal move exists.
const NoMove Move = 0

// Undo restores a position to its state before the corresponding Apply or
// ApplyNull call. Undos must be invoked in reverse order of application.
type Undo = func()

// Side identifies one of the two players.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Piece identifies a piece type, without color. NoPiece marks an empty square.
type Piece = dragon.Piece

const (
	NoPiece = dragon.Nothing
	Pawn    = dragon.Pawn
	Knight  = dragon.Knight
	Bishop  = dragon.Bishop
	Rook    = dragon.Rook
	Queen   = dragon.Queen
	King    = dragon.King
)

// StartingFEN is the standard initial position.
const StartingFEN = dragon.Startpos

// StartingPosition returns a fresh position at the standard starting setup.
func StartingPosition() *Position {
	b := dragon.ParseFen(dragon.Startpos)
	return &b
}

// ParseFEN parses a FEN string into a Position. The underlying parser assumes
// well-formed input, so the string is validated first.
func ParseFEN(fen string) (*Position, error) {
	if err := validateFEN(fen); err != nil {
		return nil, err
	}
	b := dragon.ParseFen(fen)
	return &b, nil
}

// ToFEN renders the position as a FEN string.
func ToFEN(pos *Position) string {
	return pos.ToFen()
}

// FENKey returns the first four FEN fields (placement, side to move, castling
// rights, en passant target). Positions that repeat modulo the move clocks
// share a key, which is what table lookups keyed by position want.
func FENKey(pos *Position) string {
	fields := strings.Fields(pos.ToFen())
	if len(fields) < 4 {
		return pos.ToFen()
	}
	return strings.Join(fields[:4], " ")
}

// FullmoveNumber reports the game's fullmove counter, starting at 1.
func FullmoveNumber(pos *Position) int {
	fields := strings.Fields(pos.ToFen())
	if len(fields) < 6 {
		return 1
	}
	var n int
	if _, err := fmt.Sscanf(fields[5], "%d", &n); err != nil || n < 1 {
		return 1
	}
	return n
}

// SideToMove reports which player moves next.
func SideToMove(pos *Position) Side {
	if pos.Wtomove {
		return White
	}
	return Black
}

// LegalMoves generates every legal move in the position. An empty slice means
// the game is over by checkmate or stalemate.
func LegalMoves(pos *Position) []Move {
	return pos.GenerateLegalMoves()
}

// Apply plays a move on the position and returns the closure that takes it
// back. The move must be legal.
func Apply(pos *Position, m Move) Undo {
	return pos.Apply(m)
}

// ApplyNull passes the turn without moving, for asking "what could the
// opponent do from here". Not legal chess; always paired with its undo.
func ApplyNull(pos *Position) Undo {
	return pos.ApplyNullMove()
}

// Hash returns the position's 64-bit zobrist hash (Polyglot-compatible).
// Positions equal up to the move clocks hash equal.
func Hash(pos *Position) uint64 {
	return pos.Hash()
}

// IsCheck reports whether the side to move is in check.
func IsCheck(pos *Position) bool {
	return pos.OurKingInCheck()
}

// IsCheckmate reports whether the side to move is checkmated.
func IsCheckmate(pos *Position) bool {
	return pos.OurKingInCheck() && len(pos.GenerateLegalMoves()) == 0
}

// IsStalemate reports whether the side to move has no legal move but is not
// in check.
func IsStalemate(pos *Position) bool {
	return !pos.OurKingInCheck() && len(pos.GenerateLegalMoves()) == 0
}

// IsInsufficientMaterial reports whether neither side retains enough material
// to deliver mate: bare kings, a lone minor piece, or same-colored bishops
// only.
func IsInsufficientMaterial(pos *Position) bool {
	if pos.White.Pawns|pos.Black.Pawns != 0 {
		return false
	}
	if pos.White.Rooks|pos.Black.Rooks != 0 {
		return false
	}
	if pos.White.Queens|pos.Black.Queens != 0 {
		return false
	}
	knights := pos.White.Knights | pos.Black.Knights
	bishops := pos.White.Bishops | pos.Black.Bishops
	minors := bits.OnesCount64(knights) + bits.OnesCount64(bishops)
	if minors <= 1 {
		return true
	}
	if knights == 0 && sameColorSquares(bishops) {
		return true
	}
	return false
}

// IsGameOver reports whether play cannot continue: no legal moves (checkmate
// or stalemate) or a dead position. Clock-based draw rules are left to the
// game runner, which caps game length itself.
func IsGameOver(pos *Position) bool {
	if IsInsufficientMaterial(pos) {
		return true
	}
	return len(pos.GenerateLegalMoves()) == 0
}

// Result reports the game outcome as "1-0", "0-1", "1/2-1/2", or "*" for a
// game still in progress.
func Result(pos *Position) string {
	if IsCheckmate(pos) {
		if pos.Wtomove {
			return "0-1"
		}
		return "1-0"
	}
	if IsStalemate(pos) || IsInsufficientMaterial(pos) {
		return "1/2-1/2"
	}
	return "*"
}

// PieceAt reports the piece type and owner on the given square.
func PieceAt(pos *Position, sq uint8) (Piece, Side, bool) {
	bb := uint64(1) << sq
	for _, sp := range []struct {
		bbs  *dragon.Bitboards
		side Side
	}{{&pos.White, White}, {&pos.Black, Black}} {
		switch {
		case sp.bbs.Pawns&bb != 0:
			return Pawn, sp.side, true
		case sp.bbs.Knights&bb != 0:
			return Knight, sp.side, true
		case sp.bbs.Bishops&bb != 0:
			return Bishop, sp.side, true
		case sp.bbs.Rooks&bb != 0:
			return Rook, sp.side, true
		case sp.bbs.Queens&bb != 0:
			return Queen, sp.side, true
		case sp.bbs.Kings&bb != 0:
			return King, sp.side, true
		}
	}
	return NoPiece, White, false
}

// PieceTypeAt reports the piece type on the square, or NoPiece when empty.
func PieceTypeAt(pos *Position, sq uint8) Piece {
	p, _, _ := PieceAt(pos, sq)
	return p
}

// EachPiece calls fn for every piece on the board.
func EachPiece(pos *Position, fn func(sq uint8, p Piece, s Side)) {
	for _, sp := range []struct {
		bbs  *dragon.Bitboards
		side Side
	}{{&pos.White, White}, {&pos.Black, Black}} {
		for _, pb := range []struct {
			bb uint64
			p  Piece
		}{
			{sp.bbs.Pawns, Pawn}, {sp.bbs.Knights, Knight}, {sp.bbs.Bishops, Bishop},
			{sp.bbs.Rooks, Rook}, {sp.bbs.Queens, Queen}, {sp.bbs.Kings, King},
		} {
			for bb := pb.bb; bb != 0; bb &= bb - 1 {
				fn(uint8(bits.TrailingZeros64(bb)), pb.p, sp.side)
			}
		}
	}
}

// IsCapture reports whether the move takes an enemy piece, including en
// passant captures where the destination square is empty.
func IsCapture(pos *Position, m Move) bool {
	toBB := uint64(1) << m.To()
	theirs := pos.Black.All
	if !pos.Wtomove {
		theirs = pos.White.All
	}
	if theirs&toBB != 0 {
		return true
	}
	// Diagonal pawn move onto an empty square is en passant.
	fromBB := uint64(1) << m.From()
	ours := pos.White.Pawns
	if !pos.Wtomove {
		ours = pos.Black.Pawns
	}
	return ours&fromBB != 0 && m.From()%8 != m.To()%8
}

// sameColorSquares reports whether every set bit of the bitboard lies on
// squares of one color.
func sameColorSquares(bb uint64) bool {
	const lightSquares = 0x55AA55AA55AA55AA
	return bb&lightSquares == 0 || bb&^uint64(lightSquares) == 0
}

// validateFEN checks the structural pieces the parser assumes: six fields,
// eight ranks of the right width, exactly one king per side, a legal side-to-
// move field.
func validateFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fmt.Errorf("fen: want 6 fields, got %d", len(fields))
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("fen: want 8 ranks, got %d", len(ranks))
	}
	kings := map[rune]int{}
	for _, rank := range ranks {
		width := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				width += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				width++
				if c == 'k' || c == 'K' {
					kings[c]++
				}
			default:
				return fmt.Errorf("fen: bad placement char %q", c)
			}
		}
		if width != 8 {
			return fmt.Errorf("fen: rank %q spans %d squares", rank, width)
		}
	}
	if kings['K'] != 1 || kings['k'] != 1 {
		return fmt.Errorf("fen: want exactly one king per side")
	}
	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("fen: bad side to move %q", fields[1])
	}
	return nil
}
