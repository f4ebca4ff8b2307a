// Package book picks opening moves from a small builtin repertoire or from a
// Polyglot .bin file. Outside the opening, or in unknown positions, it simply
// reports no move and the caller falls back to searching.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/Ahnani1Ali/chesshybrid/internal/rules"
)

// DefaultMaxOpeningPlies stops book play after move 10.
const DefaultMaxOpeningPlies = 20

// polyglotEntry is a decoded move from a .bin file, matched against legal
// moves at probe time.
type polyglotEntry struct {
	from, to uint8
	promo    rules.Piece
	weight   uint16
}

// Book answers opening positions with a known move. The zero value is not
// usable; construct with New or Load.
type Book struct {
	// RandomWeight picks among candidates with weight-proportional
	// probability. When false the heaviest candidate always wins.
	RandomWeight bool
	// MaxOpeningPlies disables the book past this many half-moves.
	// Zero means no limit.
	MaxOpeningPlies int

	polyglot map[uint64][]polyglotEntry
}

// New returns a book backed by the builtin repertoire only.
func New() *Book {
	return &Book{
		RandomWeight:    true,
		MaxOpeningPlies: DefaultMaxOpeningPlies,
		polyglot:        make(map[uint64][]polyglotEntry),
	}
}

// Load returns a book that consults the given Polyglot file first and falls
// back to the builtin repertoire.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	defer f.Close()

	b := New()
	if err := b.readPolyglot(f); err != nil {
		return nil, fmt.Errorf("book: %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("positions", len(b.polyglot)).Msg("polyglot book loaded")
	return b, nil
}

// Name identifies the selector in decision logs.
func (b *Book) Name() string { return "opening-book" }

// ChooseMove returns a book move for the position. The ok result is false
// when the position is unknown or the game has left the opening.
func (b *Book) ChooseMove(pos *rules.Position) (rules.Move, bool) {
	if b.MaxOpeningPlies > 0 && rules.FullmoveNumber(pos)*2 > b.MaxOpeningPlies {
		return rules.NoMove, false
	}
	if m, ok := b.polyglotMove(pos); ok {
		return m, true
	}
	return b.builtinMove(pos)
}

func (b *Book) polyglotMove(pos *rules.Position) (rules.Move, bool) {
	entries := b.polyglot[rules.Hash(pos)]
	if len(entries) == 0 {
		return rules.NoMove, false
	}

	legal := rules.LegalMoves(pos)
	type candidate struct {
		move   rules.Move
		weight int
	}
	var valid []candidate
	for _, e := range entries {
		for _, m := range legal {
			if m.From() == e.from && m.To() == e.to && m.Promote() == e.promo {
				valid = append(valid, candidate{m, int(e.weight)})
			}
		}
	}
	if len(valid) == 0 {
		return rules.NoMove, false
	}

	if b.RandomWeight {
		if c, ok := pickWeighted(valid, func(c candidate) int { return c.weight }); ok {
			return c.move, true
		}
	}
	best := lo.MaxBy(valid, func(a, x candidate) bool { return a.weight > x.weight })
	return best.move, true
}

func (b *Book) builtinMove(pos *rules.Position) (rules.Move, bool) {
	candidates := builtinBook[rules.FENKey(pos)]
	if len(candidates) == 0 {
		return rules.NoMove, false
	}

	legal := rules.LegalMoves(pos)
	byUCI := lo.SliceToMap(legal, func(m rules.Move) (string, rules.Move) {
		return m.String(), m
	})
	valid := lo.Filter(candidates, func(e Entry, _ int) bool {
		_, ok := byUCI[e.UCI]
		return ok
	})
	if len(valid) == 0 {
		return rules.NoMove, false
	}

	if b.RandomWeight {
		if e, ok := pickWeighted(valid, func(e Entry) int { return e.Weight }); ok {
			return byUCI[e.UCI], true
		}
	}
	best := lo.MaxBy(valid, func(a, x Entry) bool { return a.Weight > x.Weight })
	return byUCI[best.UCI], true
}

// pickWeighted draws one element with probability proportional to its weight.
// Reports false when all weights are zero.
func pickWeighted[T any](items []T, weight func(T) int) (T, bool) {
	total := 0
	for _, it := range items {
		total += weight(it)
	}
	var zero T
	if total <= 0 {
		return zero, false
	}
	r := frand.Intn(total)
	cumulative := 0
	for _, it := range items {
		cumulative += weight(it)
		if r < cumulative {
			return it, true
		}
	}
	return zero, false
}

// readPolyglot parses the binary book format: 16-byte big-endian records of
// position key, move, weight and learn data (ignored).
func (b *Book) readPolyglot(r io.Reader) error {
	var rec [16]byte
	for {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		key := binary.BigEndian.Uint64(rec[0:8])
		moveData := binary.BigEndian.Uint16(rec[8:10])
		weight := binary.BigEndian.Uint16(rec[10:12])

		from, to, promo := decodePolyglotMove(moveData)
		b.polyglot[key] = append(b.polyglot[key], polyglotEntry{
			from:   from,
			to:     to,
			promo:  promo,
			weight: weight,
		})
	}
	for key := range b.polyglot {
		entries := b.polyglot[key]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].weight > entries[j].weight
		})
	}
	return nil
}

// decodePolyglotMove unpacks the move bit fields. Bits 0-5 are the target
// square, 6-11 the origin, 12-14 the promotion piece. Castling is encoded
// king-takes-rook and gets remapped to the e1g1 style the move generator
// emits.
func decodePolyglotMove(data uint16) (from, to uint8, promo rules.Piece) {
	to = uint8(data&7) | uint8((data>>3)&7)<<3
	from = uint8((data>>6)&7) | uint8((data>>9)&7)<<3

	const (
		e1, g1, c1, a1, h1 = 4, 6, 2, 0, 7
		e8, g8, c8, a8, h8 = 60, 62, 58, 56, 63
	)
	switch {
	case from == e1 && to == h1:
		to = g1
	case from == e1 && to == a1:
		to = c1
	case from == e8 && to == h8:
		to = g8
	case from == e8 && to == a8:
		to = c8
	}

	switch (data >> 12) & 7 {
	case 1:
		promo = rules.Knight
	case 2:
		promo = rules.Bishop
	case 3:
		promo = rules.Rook
	case 4:
		promo = rules.Queen
	}
	return from, to, promo
}
