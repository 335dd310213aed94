// Package buffer implements the PieceTable text buffer (spec §4.1): a
// mutable, indexed sequence of bytes backed by an immutable original
// buffer and a grow-only added buffer, supporting O(edits) mutation
// instead of whole-string splicing.
//
// No repo in the retrieval pack implements a piece table (the teacher's
// syntax.Source holds a flat string and fully re-parses on every edit); this
// package is built directly from the spec. Naming follows the *At(pos) /
// *Bytes() conventions documented for rope types in the retrieval pack's
// other_examples.
package buffer

import "strings"

type source int

const (
	sourceOriginal source = iota
	sourceAdded
)

// piece references a contiguous run of bytes in either the original or
// added buffer.
type piece struct {
	from   source
	start  int
	length int
}

// PieceTable is the mutable indexed byte sequence described in spec §4.1.
// The zero value is not usable; construct with New.
type PieceTable struct {
	original string
	added    []byte
	pieces   []piece
	length   int
}

// New builds a piece table whose initial content is text.
func New(text string) *PieceTable {
	pt := &PieceTable{original: text}
	if len(text) > 0 {
		pt.pieces = []piece{{from: sourceOriginal, start: 0, length: len(text)}}
		pt.length = len(text)
	}
	return pt
}

// Length returns the total logical length in bytes.
func (pt *PieceTable) Length() int { return pt.length }

func (pt *PieceTable) bytesOf(p piece) string {
	if p.from == sourceOriginal {
		return pt.original[p.start : p.start+p.length]
	}
	return string(pt.added[p.start : p.start+p.length])
}

// At returns the byte at index, or ok=false if index is out of range.
func (pt *PieceTable) At(index int) (byte, bool) {
	if index < 0 || index >= pt.length {
		return 0, false
	}
	offset := 0
	for _, p := range pt.pieces {
		if index < offset+p.length {
			local := index - offset
			if p.from == sourceOriginal {
				return pt.original[p.start+local], true
			}
			return pt.added[p.start+local], true
		}
		offset += p.length
	}
	return 0, false
}

// Slice returns the logical string in the half-open range [lo, hi),
// clamped to the buffer's bounds.
func (pt *PieceTable) Slice(lo, hi int) string {
	if lo < 0 {
		lo = 0
	}
	if hi > pt.length {
		hi = pt.length
	}
	if lo >= hi {
		return ""
	}
	var sb strings.Builder
	sb.Grow(hi - lo)
	offset := 0
	for _, p := range pt.pieces {
		pieceEnd := offset + p.length
		if pieceEnd <= lo {
			offset = pieceEnd
			continue
		}
		if offset >= hi {
			break
		}
		start := lo
		if start < offset {
			start = offset
		}
		end := hi
		if end > pieceEnd {
			end = pieceEnd
		}
		bytes := pt.bytesOf(p)
		sb.WriteString(bytes[start-offset : end-offset])
		offset = pieceEnd
	}
	return sb.String()
}

// String returns the full logical content.
func (pt *PieceTable) String() string { return pt.Slice(0, pt.length) }

// ReplaceCharacters replaces the half-open range [lo, hi) with replacement,
// splitting the pieces that straddle the range's boundaries and inserting a
// single new piece into the added buffer for the replacement text. Adjacent
// added-buffer pieces that become end-to-start contiguous are coalesced to
// bound piece count, per §4.1.
func (pt *PieceTable) ReplaceCharacters(lo, hi int, replacement string) {
	if lo < 0 {
		lo = 0
	}
	if hi > pt.length {
		hi = pt.length
	}
	if lo > hi {
		lo = hi
	}

	addedStart := len(pt.added)
	if replacement != "" {
		pt.added = append(pt.added, replacement...)
	}

	var newPieces []piece
	inserted := replacement == ""
	insert := func() {
		if inserted {
			return
		}
		newPieces = append(newPieces, piece{from: sourceAdded, start: addedStart, length: len(replacement)})
		inserted = true
	}

	offset := 0
	for _, p := range pt.pieces {
		pieceStart := offset
		pieceEnd := offset + p.length
		offset = pieceEnd

		if pieceEnd <= lo {
			newPieces = append(newPieces, p)
			continue
		}
		if pieceStart >= hi {
			insert()
			newPieces = append(newPieces, p)
			continue
		}

		// This piece overlaps [lo, hi): keep its retained prefix and
		// suffix, with the replacement spliced in between.
		if pieceStart < lo {
			newPieces = append(newPieces, piece{from: p.from, start: p.start, length: lo - pieceStart})
		}
		insert()
		if pieceEnd > hi {
			skip := hi - pieceStart
			newPieces = append(newPieces, piece{from: p.from, start: p.start + skip, length: pieceEnd - hi})
		}
	}
	insert()

	pt.pieces = coalesce(newPieces)
	pt.length = pt.length - (hi - lo) + len(replacement)
}

func coalesce(pieces []piece) []piece {
	out := pieces[:0]
	for _, p := range pieces {
		if p.length == 0 {
			continue
		}
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.from == sourceAdded && p.from == sourceAdded && last.start+last.length == p.start {
				last.length += p.length
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
