package decode

import (
	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// FlowTest enumerates the guest ISA's 32 flow-test codes (spec §4.2 "Flow
// tests"), used by conditional branches and predicate-set instructions to
// test a combination of the four CC bits.
type FlowTest int

const (
	FlowF FlowTest = iota
	FlowLT
	FlowEQ
	FlowLE
	FlowGT
	FlowNE
	FlowGE
	FlowNum
	FlowNan
	FlowLTU
	FlowEQU
	FlowLEU
	FlowGTU
	FlowNEU
	FlowGEU
	FlowT
	FlowOFF
	FlowLO
	FlowSFF
	FlowLS
	FlowHI
	FlowSFT
	FlowHS
	FlowOFT
	FlowCsmTA
	FlowCsmTR
	FlowCsmMX
	FlowFcsmTA
	FlowFcsmTR
	FlowFcsmMX
	FlowRLE
	FlowRGT

	numFlowTests
)

var flowTestNames = [numFlowTests]string{
	"F", "LT", "EQ", "LE", "GT", "NE", "GE", "NUM", "NAN",
	"LTU", "EQU", "LEU", "GTU", "NEU", "GEU",
	"T", "OFF", "LO", "SFF", "LS", "HI", "SFT", "HS", "OFT",
	"CSM_TA", "CSM_TR", "CSM_MX", "FCSM_TA", "FCSM_TR", "FCSM_MX",
	"RLE", "RGT",
}

func (f FlowTest) String() string {
	if f < 0 || f >= numFlowTests {
		return "FlowTest(?)"
	}
	return flowTestNames[f]
}

// CCFlags bundles the four condition-code bits a flow test reads: sign,
// zero, carry, overflow. Each is a U1-typed Value, typically the output of
// GetSFlag/GetZFlag/GetCFlag/GetOFlag.
type CCFlags struct {
	S, Z, C, O ir.Value
}

func notv(e *ir.Emitter, v ir.Value) ir.Value  { return e.Inst(ir.OpLogicalNot, v) }
func andv(e *ir.Emitter, a, b ir.Value) ir.Value { return e.Inst(ir.OpLogicalAnd, a, b) }
func orv(e *ir.Emitter, a, b ir.Value) ir.Value  { return e.Inst(ir.OpLogicalOr, a, b) }
func xorv(e *ir.Emitter, a, b ir.Value) ir.Value { return e.Inst(ir.OpLogicalXor, a, b) }

// leuExpr is the LogicalOr(LogicalXor(S, O), Z) ladder entry the spec pins
// down exactly (spec §8 "Flow test ladder"); GTU is its complement, matching
// this guest ISA's choice to derive both from the ordered sign/overflow
// bits rather than carry.
func leuExpr(e *ir.Emitter, cc CCFlags) ir.Value {
	return orv(e, xorv(e, cc.S, cc.O), cc.Z)
}

// EvalFlowTest lowers flow test f to a logical expression over cc, emitted
// through e, per the ladder in spec §4.2/§8. FCSM_TR is stubbed to constant
// false (source intent documented, spec §9); the remaining CSM_*/FCSM_*
// codes have no recovered meaning and raise NotImplemented rather than
// guessing.
func EvalFlowTest(e *ir.Emitter, f FlowTest, cc CCFlags) (ir.Value, error) {
	switch f {
	case FlowF:
		return ir.ImmU1(false), nil
	case FlowT:
		return ir.ImmU1(true), nil
	case FlowLT:
		return xorv(e, cc.S, cc.O), nil
	case FlowEQ:
		return cc.Z, nil
	case FlowLE:
		return orv(e, xorv(e, cc.S, cc.O), cc.Z), nil
	case FlowGT:
		return notv(e, orv(e, xorv(e, cc.S, cc.O), cc.Z)), nil
	case FlowNE:
		return notv(e, cc.Z), nil
	case FlowGE:
		return notv(e, xorv(e, cc.S, cc.O)), nil
	case FlowNum:
		return notv(e, cc.O), nil
	case FlowNan:
		return cc.O, nil
	case FlowLTU:
		return cc.C, nil
	case FlowEQU:
		return cc.Z, nil
	case FlowLEU:
		return leuExpr(e, cc), nil
	case FlowGTU:
		return notv(e, leuExpr(e, cc)), nil
	case FlowNEU:
		return notv(e, cc.Z), nil
	case FlowGEU:
		return notv(e, cc.C), nil
	case FlowOFF:
		return notv(e, cc.O), nil
	case FlowLO:
		return cc.C, nil
	case FlowSFF:
		return notv(e, cc.S), nil
	case FlowLS:
		return orv(e, cc.C, cc.Z), nil
	case FlowHI:
		return notv(e, orv(e, cc.C, cc.Z)), nil
	case FlowSFT:
		return cc.S, nil
	case FlowHS:
		return notv(e, cc.C), nil
	case FlowOFT:
		return cc.O, nil
	case FlowFcsmTR:
		return ir.ImmU1(false), nil
	case FlowCsmTA, FlowCsmTR, FlowCsmMX, FlowFcsmTA, FlowFcsmMX, FlowRLE, FlowRGT:
		return ir.Value{}, fault.Newf(fault.NotImplemented, "flow test %v has no recovered semantics", f)
	default:
		return ir.Value{}, fault.Newf(fault.InvalidArgument, "unknown flow test %d", int(f))
	}
}
