package decode

import "github.com/shadercore/recompiler/internal/ir"

// This file wires a representative slice of the guest ISA's dispatch table
// (spec §4.2: "a closed set of ~400 enumerators" on the IR side; the guest
// instruction space is of similar order). Coverage here exercises every
// decode concern the spec calls out — bitfield dispatch with priority,
// source modifiers, predication, flag-write consumers, and the LDC size
// dispatch — rather than attempting the full guest opcode catalogue.
//
// Guest word layout (invented but internally consistent across this file):
//
//	bits 0-3    predicate index
//	bit  4      predicate negate
//	bits 5-12   opcode class
//	bits 13-20  dst register
//	bits 21-28  src0 register
//	bits 29-36  src1 register
//	bit  37     abs(src0)
//	bit  38     neg(src0)
//	bit  39     saturate
//	bits 40-44  flow test (for branches / predicate-set instructions)
//	bits 45-52  LDC cbuf binding (45-48) and size field (49-51)
//	bits 45-60  BRA/BRACC signed branch-target word delta, relative to the
//	            word after the branch (shares bits with the LDC fields)
const (
	fieldPred       = 0
	fieldPredNeg    = 4
	fieldClass      = 5
	fieldDst        = 13
	fieldSrc0       = 21
	fieldSrc1       = 29
	fieldAbsSrc0    = 37
	fieldNegSrc0    = 38
	fieldSaturate   = 39
	fieldFlowTest   = 40
	fieldAux        = 45
)

const (
	classIADD = 0x01
	classFADD = 0x02
	classMOV  = 0x03
	classLDC  = 0x04
	classEXIT = 0x05
	classBRA  = 0x06
	classISETP = 0x07
	classBRACC = 0x08
)

func guardOf(w GuestWord) PredicateGuard {
	return PredicateGuard{
		Index:   ir.Pred(w.Field(fieldPred, fieldPred+3)),
		Negated: w.Field(fieldPredNeg, fieldPredNeg) != 0,
	}
}

func decodeIADD(d *Decoder, w GuestWord) error {
	e := d.Emitter
	g := guardOf(w)
	dst := ir.Reg(w.Field(fieldDst, fieldDst+7))
	src0 := ir.Reg(w.Field(fieldSrc0, fieldSrc0+7))
	src1 := ir.Reg(w.Field(fieldSrc1, fieldSrc1+7))

	a := ir.InstWithFlags(e, ir.OpGetRegister, src0)
	a = AbsNeg(e, a, w.Field(fieldAbsSrc0, fieldAbsSrc0) != 0, w.Field(fieldNegSrc0, fieldNegSrc0) != 0, false)
	b := ir.InstWithFlags(e, ir.OpGetRegister, src1)

	sum := e.Inst(ir.OpIAdd32, a, b)
	UpdateFlags(e, sum, FlagWriteMask{Zero: true, Sign: true, Carry: true, Overflow: true})
	ConditionalizeRegisterWrite(e, g, dst, sum)
	return nil
}

func decodeFADD(d *Decoder, w GuestWord) error {
	e := d.Emitter
	g := guardOf(w)
	dst := ir.Reg(w.Field(fieldDst, fieldDst+7))
	src0 := ir.Reg(w.Field(fieldSrc0, fieldSrc0+7))
	src1 := ir.Reg(w.Field(fieldSrc1, fieldSrc1+7))

	a := ir.InstWithFlags(e, ir.OpGetRegister, src0)
	a = e.Inst(ir.OpBitCastF32U32, a)
	a = AbsNeg(e, a, w.Field(fieldAbsSrc0, fieldAbsSrc0) != 0, w.Field(fieldNegSrc0, fieldNegSrc0) != 0, true)
	b := ir.InstWithFlags(e, ir.OpGetRegister, src1)
	b = e.Inst(ir.OpBitCastF32U32, b)

	fc := FpControl{Round: RoundNearestEven}
	sum := ir.InstWithFlags(e, ir.OpFPAdd32, fc, a, b)
	sum = Saturate(e, sum, w.Field(fieldSaturate, fieldSaturate) != 0)
	sum = e.Inst(ir.OpBitCastU32F32, sum)
	ConditionalizeRegisterWrite(e, g, dst, sum)
	return nil
}

func decodeMOV(d *Decoder, w GuestWord) error {
	e := d.Emitter
	g := guardOf(w)
	dst := ir.Reg(w.Field(fieldDst, fieldDst+7))
	src0 := ir.Reg(w.Field(fieldSrc0, fieldSrc0+7))
	v := ir.InstWithFlags(e, ir.OpGetRegister, src0)
	ConditionalizeRegisterWrite(e, g, dst, v)
	return nil
}

func decodeLDC(d *Decoder, w GuestWord) error {
	e := d.Emitter
	g := guardOf(w)
	dst := ir.Reg(w.Field(fieldDst, fieldDst+7))
	src0 := ir.Reg(w.Field(fieldSrc0, fieldSrc0+7))
	binding := int(w.Field(fieldAux, fieldAux+3))
	size := CbufSize(w.Field(fieldAux+4, fieldAux+6))
	immOffset := int(w.SignedField(fieldSrc1, fieldSrc1+7))

	reg := ir.InstWithFlags(e, ir.OpGetRegister, src0)
	addr := CbufAddress{Mode: AddressDefault, Reg: reg, Imm: immOffset}
	offset, err := addr.Resolve(e)
	if err != nil {
		return err
	}
	v, err := LoadCbuf(e, binding, offset, size)
	if err != nil {
		return err
	}
	ConditionalizeRegisterWrite(e, g, dst, v)
	return nil
}

func decodeISETP(d *Decoder, w GuestWord) error {
	e := d.Emitter
	g := guardOf(w)
	dstPred := ir.Pred(w.Field(fieldDst, fieldDst+2))
	test := FlowTest(w.Field(fieldFlowTest, fieldFlowTest+4))

	cc := d.CCFlags()
	result, err := EvalFlowTest(e, test, cc)
	if err != nil {
		return err
	}
	ConditionalizePredicateWrite(e, g, dstPred, result)
	return nil
}

func decodeEXIT(d *Decoder, w GuestWord) error {
	d.Emitter.Inst(ir.OpReturn)
	return nil
}

func decodeBRA(d *Decoder, w GuestWord) error {
	target := d.curWord + 1 + int(w.SignedField(fieldAux, fieldAux+15))
	inst := d.Emitter.Inst(ir.OpBranch).Producer()
	d.MarkBranch(inst, target, ir.Value{}, false)
	return nil
}

// decodeBRACC is a conditional branch: test is one of the 32 flow tests
// evaluated against the current CC flags (spec §4.2, §4.3 "conditional
// branches synthesize two" successors).
func decodeBRACC(d *Decoder, w GuestWord) error {
	e := d.Emitter
	target := d.curWord + 1 + int(w.SignedField(fieldAux, fieldAux+15))
	test := FlowTest(w.Field(fieldFlowTest, fieldFlowTest+4))
	cond, err := EvalFlowTest(e, test, d.CCFlags())
	if err != nil {
		return err
	}
	inst := e.Inst(ir.OpBranchConditional, cond).Producer()
	d.MarkBranch(inst, target, cond, false)
	return nil
}

// DefaultTable returns the dispatch table for the representative guest
// opcode subset this module decodes.
func DefaultTable() *Table {
	classMask := uint64(0xFF) << fieldClass
	row := func(name string, class uint64, fn DecodeFunc) OpEntry {
		return OpEntry{
			Name:     name,
			Mask:     classMask,
			Match:    class << fieldClass,
			Priority: 0,
			Decode:   fn,
		}
	}
	return NewTable([]OpEntry{
		row("IADD", classIADD, decodeIADD),
		row("FADD", classFADD, decodeFADD),
		row("MOV", classMOV, decodeMOV),
		row("LDC", classLDC, decodeLDC),
		row("EXIT", classEXIT, decodeEXIT),
		row("BRA", classBRA, decodeBRA),
		row("ISETP", classISETP, decodeISETP),
		row("BRACC", classBRACC, decodeBRACC),
	})
}
