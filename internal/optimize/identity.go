package optimize

import "github.com/shadercore/recompiler/internal/ir"

// RemoveIdentities walks every instruction's arguments (and phi operands)
// once and rewrites any that name an Identity producer to the value the
// chain resolves to (spec §4.5 "identity removal"). Readers that go
// through Value.Type/Producer/Imm already see through Identity chains
// transparently, so this pass exists purely to shorten the physical
// argument graph before dead-code elimination: an Identity left with no
// remaining argument references becomes unreferenced and is swept by the
// next pass.
func RemoveIdentities(prog *ir.Program) {
	for _, b := range prog.PostOrder {
		for i := b.First(); i != nil; i = i.Next() {
			if i.Opcode == ir.OpIdentity {
				continue
			}
			if i.Opcode == ir.OpPhi {
				removeIdentitiesFromPhi(i)
				continue
			}
			for n := 0; n < i.NumArgs(); n++ {
				arg := i.Arg(n)
				resolved := ir.ResolveIdentity(arg)
				if !resolved.Equal(arg) {
					i.SetArg(n, resolved)
				}
			}
		}
	}
}

func removeIdentitiesFromPhi(phi *ir.Inst) {
	for n, op := range phi.PhiOperands() {
		resolved := ir.ResolveIdentity(op.Value)
		if !resolved.Equal(op.Value) {
			phi.SetPhiOperand(n, resolved)
		}
	}
}
