package decode

import (
	"github.com/shadercore/recompiler/internal/ir"
)

// Branch records one control-transfer instruction the decoder emitted,
// along with enough information for the CFG builder (C3) to resolve its
// target(s) without re-decoding the guest word (spec §4.3).
type Branch struct {
	Inst       *ir.Inst
	TargetWord int // guest word index; meaningless when Indirect
	Test       ir.Value
	Indirect   bool
}

// Decoder walks a flat sequence of guest instruction words for one shader
// stage and emits pre-SSA IR into a single growing block (spec §4.2). The
// CFG builder (C3) is responsible for later splitting this flat stream at
// branch targets; the decoder itself never forks blocks.
type Decoder struct {
	Emitter *ir.Emitter
	Program *ir.Program

	table *Table

	// WordStart[i] is the first instruction emitted while decoding guest
	// word i, or nil if word i produced no instructions. The CFG builder
	// uses this to translate a branch's target word index into a cut
	// point in the flat instruction list (spec §4.3).
	WordStart []*ir.Inst

	// Branches records every control-transfer instruction in program
	// order.
	Branches []Branch

	curWord int
}

// NewDecoder creates a Decoder that appends into a single entry block of a
// freshly created program for the given stage, dispatching through table.
func NewDecoder(stage ir.Stage, table *Table) *Decoder {
	p := ir.NewProgram(stage)
	b := p.AddBlock()
	return &Decoder{
		Emitter: ir.NewEmitter(b),
		Program: p,
		table:   table,
	}
}

// MarkBranch records inst as a branch to targetWord (direct) or as an
// indirect transfer (targetWord ignored).
func (d *Decoder) MarkBranch(inst *ir.Inst, targetWord int, test ir.Value, indirect bool) {
	d.Branches = append(d.Branches, Branch{Inst: inst, TargetWord: targetWord, Test: test, Indirect: indirect})
}

// CCFlags returns the IR values for the program's current Z/S/C/O bits,
// read through the pre-SSA Get*Flag opcodes (spec §4.2 "Flow tests").
func (d *Decoder) CCFlags() CCFlags {
	e := d.Emitter
	return CCFlags{
		S: e.Inst(ir.OpGetSFlag),
		Z: e.Inst(ir.OpGetZFlag),
		C: e.Inst(ir.OpGetCFlag),
		O: e.Inst(ir.OpGetOFlag),
	}
}

// FlagWriteMask selects which CC-bit pseudo consumers UpdateFlags attaches (spec
// §4.2 point 4: "opcodes that write a condition result attach
// Get{Zero,Sign,Carry,Overflow}FromOp consumers only if the guest opcode
// sets the corresponding CC bit"), wiring each into the corresponding
// SetZFlag/SetSFlag/SetCFlag/SetOFlag.
type FlagWriteMask struct {
	Zero, Sign, Carry, Overflow bool
}

// UpdateFlags emits pseudo-consumers for producer's condition outputs per
// mask and routes them into the Z/S/C/O pre-SSA variables.
func UpdateFlags(e *ir.Emitter, producer ir.Value, mask FlagWriteMask) {
	if mask.Zero {
		z := e.Inst(ir.OpGetZeroFromOp, producer)
		e.Inst(ir.OpSetZFlag, z)
	}
	if mask.Sign {
		s := e.Inst(ir.OpGetSignFromOp, producer)
		e.Inst(ir.OpSetSFlag, s)
	}
	if mask.Carry {
		c := e.Inst(ir.OpGetCarryFromOp, producer)
		e.Inst(ir.OpSetCFlag, c)
	}
	if mask.Overflow {
		o := e.Inst(ir.OpGetOverflowFromOp, producer)
		e.Inst(ir.OpSetOFlag, o)
	}
}

// Decode walks words in order, dispatching each through the table into the
// decoder's emitter.
func (d *Decoder) Decode(words []GuestWord) error {
	d.WordStart = make([]*ir.Inst, len(words))
	for i, w := range words {
		d.curWord = i
		lastBefore := d.Emitter.Block().Last()

		entry, err := d.table.Lookup(w)
		if err != nil {
			return err
		}
		if err := entry.Decode(d, w); err != nil {
			return err
		}

		if lastBefore == nil {
			d.WordStart[i] = d.Emitter.Block().First()
		} else {
			d.WordStart[i] = lastBefore.Next()
		}
	}
	return nil
}
