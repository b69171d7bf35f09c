package ir

// Emitter is the facade the decoder (and later passes that insert code)
// use to build instructions into a block at a tracked insertion point
// (spec §4.1 "Inst(opcode, …) (emit an instruction into the current block
// at the insertion point)").
type Emitter struct {
	block *Block
	// insertBefore is the instruction new instructions are inserted
	// ahead of; nil means "append at the end of the block".
	insertBefore *Inst
}

// NewEmitter returns an Emitter appending to the end of b.
func NewEmitter(b *Block) *Emitter {
	return &Emitter{block: b}
}

// Block returns the emitter's current block.
func (e *Emitter) Block() *Block { return e.block }

// SetBlock retargets the emitter to insert at the end of b.
func (e *Emitter) SetBlock(b *Block) {
	e.block = b
	e.insertBefore = nil
}

// SetInsertionPoint retargets the emitter to insert immediately before at
// (which must belong to the emitter's current block).
func (e *Emitter) SetInsertionPoint(at *Inst) {
	e.insertBefore = at
}

// Inst constructs and inserts a new instruction with the given opcode and
// arguments at the emitter's insertion point, returning the Value that
// refers to it.
func (e *Emitter) Inst(op Opcode, args ...Value) Value {
	i := newInst(op, args)
	e.block.InsertBefore(e.insertBefore, i)
	return i.Value()
}

// InstWithFlags is Inst followed by SetFlags, for opcodes whose emission
// always carries flag-word state (e.g. FPAdd32's FpControl, spec §4.2).
func InstWithFlags[T any](e *Emitter, op Opcode, flags T, args ...Value) Value {
	i := newInst(op, args)
	SetFlags(i, flags)
	e.block.InsertBefore(e.insertBefore, i)
	return i.Value()
}

// Phi constructs an empty (operandless) Phi of the given result type,
// inserted at block entry (PushFront), per spec §4.4's ReadVariable.
func (e *Emitter) Phi(resultType Type) *Inst {
	i := newInst(OpPhi, nil)
	SetFlags(i, resultType)
	e.block.PushFront(i)
	return i
}
