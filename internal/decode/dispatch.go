package decode

import (
	"golang.org/x/exp/slices"

	"github.com/shadercore/recompiler/core/fault"
)

// GuestWord is one 64-bit guest instruction word (spec §4.2 "a contiguous
// sequence of guest instruction words").
type GuestWord uint64

// Field extracts bits [lo, hi] (inclusive) of w as an unsigned value.
func (w GuestWord) Field(lo, hi int) uint64 {
	n := hi - lo + 1
	mask := uint64(1)<<uint(n) - 1
	return (uint64(w) >> uint(lo)) & mask
}

// SignedField sign-extends Field(lo, hi) from its own width.
func (w GuestWord) SignedField(lo, hi int) int64 {
	n := hi - lo + 1
	v := w.Field(lo, hi)
	signBit := uint64(1) << uint(n-1)
	if v&signBit != 0 {
		v |= ^uint64(0) << uint(n)
	}
	return int64(v)
}

// DecodeFunc decodes one matched guest instruction word into d's current
// block.
type DecodeFunc func(d *Decoder, w GuestWord) error

// OpEntry is one dispatch-table row: w matches when w&Mask == Match. Ties
// (multiple rows matching the same word) are broken by Priority, higher
// first (spec §4.2 "ties are broken by a pre-sorted priority").
type OpEntry struct {
	Name     string
	Mask     uint64
	Match    uint64
	Priority int
	Decode   DecodeFunc
}

// Table is a dispatch table kept sorted by descending priority so the
// first matching row wins ties deterministically.
type Table struct {
	entries []OpEntry
}

// NewTable builds a Table from rows, pre-sorting by priority (spec §4.2
// "bitfield-matches ... against a dispatch table; ties are broken by a
// pre-sorted priority").
func NewTable(rows []OpEntry) *Table {
	t := &Table{entries: append([]OpEntry(nil), rows...)}
	slices.SortFunc(t.entries, func(a, b OpEntry) bool {
		return a.Priority > b.Priority
	})
	return t
}

// Lookup returns the highest-priority row whose mask/match pattern fits w,
// or an error if no row matches.
func (t *Table) Lookup(w GuestWord) (OpEntry, error) {
	for _, e := range t.entries {
		if uint64(w)&e.Mask == e.Match {
			return e, nil
		}
	}
	return OpEntry{}, fault.Newf(fault.NotImplemented, "no dispatch entry matches word %#016x", uint64(w))
}
