package rules

import (
	"math/bits"

	dragon "github.com/Bubblyworld/dragontoothmg"
)

const (
	fileA = 0x0101010101010101
	fileH = 0x8080808080808080
)

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
)

func init() {
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << sq
		knightAttacks[sq] = nne(bb) | nee(bb) | see(bb) | sse(bb) |
			nnw(bb) | nww(bb) | sww(bb) | ssw(bb)
		kingAttacks[sq] = north(bb) | south(bb) | east(bb) | west(bb) |
			north(east(bb)) | north(west(bb)) | south(east(bb)) | south(west(bb))
	}
}

func north(bb uint64) uint64 { return bb << 8 }
func south(bb uint64) uint64 { return bb >> 8 }
func east(bb uint64) uint64  { return (bb &^ uint64(fileH)) << 1 }
func west(bb uint64) uint64  { return (bb &^ uint64(fileA)) >> 1 }

func nne(bb uint64) uint64 { return north(north(east(bb))) }
func nee(bb uint64) uint64 { return north(east(east(bb))) }
func see(bb uint64) uint64 { return south(east(east(bb))) }
func sse(bb uint64) uint64 { return south(south(east(bb))) }
func nnw(bb uint64) uint64 { return north(north(west(bb))) }
func nww(bb uint64) uint64 { return north(west(west(bb))) }
func sww(bb uint64) uint64 { return south(west(west(bb))) }
func ssw(bb uint64) uint64 { return south(south(west(bb))) }

// AttackerCount counts how many of side's pieces attack the given square in
// the current position. Pins are ignored; this is raw attack coverage.
func AttackerCount(pos *Position, side Side, sq uint8) int {
	bbs := &pos.White
	if side == Black {
		bbs = &pos.Black
	}
	target := uint64(1) << sq
	occupied := pos.White.All | pos.Black.All

	count := 0
	if side == White {
		count += bits.OnesCount64(bbs.Pawns & (south(west(target)) | south(east(target))))
	} else {
		count += bits.OnesCount64(bbs.Pawns & (north(west(target)) | north(east(target))))
	}
	count += bits.OnesCount64(bbs.Knights & knightAttacks[sq])
	count += bits.OnesCount64(bbs.Kings & kingAttacks[sq])

	diag := dragon.CalculateBishopMoveBitboard(sq, occupied)
	count += bits.OnesCount64((bbs.Bishops | bbs.Queens) & diag)
	line := dragon.CalculateRookMoveBitboard(sq, occupied)
	count += bits.OnesCount64((bbs.Rooks | bbs.Queens) & line)

	return count
}

// IsAttacked reports whether side attacks the given square.
func IsAttacked(pos *Position, side Side, sq uint8) bool {
	return AttackerCount(pos, side, sq) > 0
}
