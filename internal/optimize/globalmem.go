package optimize

import "github.com/shadercore/recompiler/internal/ir"

// cbufOrigin is a global-memory address's traced-back constant-buffer
// source: the cbuf binding and byte offset the 64-bit pointer was loaded
// from, plus any further immediate byte offset applied to it afterward.
type cbufOrigin struct {
	cbufIndex  int
	cbufOffset int
	extra      uint32
}

// matchCbufOrigin recognizes the shapes this pass knows how to lower: a
// pointer built directly from PackUint2x32(GetCbufU32x2(binding, offset))
// (spec §4.2's CbufB64 load), optionally with one IAdd64 applying a further
// compile-time-constant byte offset. Anything else reports ok=false, and
// the caller leaves the instruction alone (spec §4.5 "never silently
// miscompile").
func matchCbufOrigin(addr ir.Value) (cbufOrigin, bool) {
	addr = ir.ResolveIdentity(addr)
	p := addr.Producer()
	if p == nil {
		return cbufOrigin{}, false
	}
	switch p.Opcode {
	case ir.OpPackUint2x32:
		return matchCbufVector(p.Arg(0))
	case ir.OpIAdd64:
		a := ir.ResolveIdentity(p.Arg(0))
		b := ir.ResolveIdentity(p.Arg(1))
		if origin, ok := matchCbufOriginDirect(a); ok {
			if imm, ok := b.Imm(); ok {
				origin.extra = uint32(imm)
				return origin, true
			}
		}
		if origin, ok := matchCbufOriginDirect(b); ok {
			if imm, ok := a.Imm(); ok {
				origin.extra = uint32(imm)
				return origin, true
			}
		}
		return cbufOrigin{}, false
	default:
		return cbufOrigin{}, false
	}
}

func matchCbufOriginDirect(addr ir.Value) (cbufOrigin, bool) {
	p := addr.Producer()
	if p == nil || p.Opcode != ir.OpPackUint2x32 {
		return cbufOrigin{}, false
	}
	return matchCbufVector(p.Arg(0))
}

func matchCbufVector(vec ir.Value) (cbufOrigin, bool) {
	vec = ir.ResolveIdentity(vec)
	p := vec.Producer()
	if p == nil || p.Opcode != ir.OpGetCbufU32x2 {
		return cbufOrigin{}, false
	}
	binding, ok := ir.ResolveIdentity(p.Arg(0)).ImmU32Value()
	if !ok {
		return cbufOrigin{}, false
	}
	offset, ok := ir.ResolveIdentity(p.Arg(1)).ImmU32Value()
	if !ok {
		return cbufOrigin{}, false
	}
	return cbufOrigin{cbufIndex: int(binding), cbufOffset: int(offset)}, true
}

var globalToStorageLoad = map[ir.Opcode]ir.Opcode{
	ir.OpLoadGlobalU8:  ir.OpLoadStorageU8,
	ir.OpLoadGlobalU16: ir.OpLoadStorageU16,
	ir.OpLoadGlobal32:  ir.OpLoadStorage32,
	ir.OpLoadGlobal64:  ir.OpLoadStorage64,
}

var globalToStorageWrite = map[ir.Opcode]ir.Opcode{
	ir.OpWriteGlobalU8:  ir.OpWriteStorageU8,
	ir.OpWriteGlobalU16: ir.OpWriteStorageU16,
	ir.OpWriteGlobal32:  ir.OpWriteStorage32,
	ir.OpWriteGlobal64:  ir.OpWriteStorage64,
}

// LowerGlobalMemory rewrites every global load/store whose address traces
// back to a constant-buffer-loaded pointer into the corresponding
// LoadStorage*/WriteStorage* access against a descriptor recorded in
// Info.StorageBuffersDescriptors (spec §4.5 "Global memory to storage
// buffer"). Addresses this pass cannot trace are left as raw global
// accesses.
func LowerGlobalMemory(prog *ir.Program) {
	descriptors := map[[2]int]int{}
	for _, d := range prog.Info.StorageBuffersDescriptors {
		descriptors[[2]int{d.CbufIndex, d.CbufOffset}] = d.Index
	}

	for _, b := range prog.PostOrder {
		for i := b.First(); i != nil; {
			next := i.Next()
			if loadOp, ok := globalToStorageLoad[i.Opcode]; ok {
				lowerGlobalLoad(prog, b, i, loadOp, descriptors)
			} else if writeOp, ok := globalToStorageWrite[i.Opcode]; ok {
				lowerGlobalWrite(prog, b, i, writeOp, descriptors)
			}
			i = next
		}
	}
}

func descriptorIndexFor(prog *ir.Program, origin cbufOrigin, cache map[[2]int]int, resultType ir.Type) int {
	key := [2]int{origin.cbufIndex, origin.cbufOffset}
	if idx, ok := cache[key]; ok {
		return idx
	}
	idx := len(prog.Info.StorageBuffersDescriptors)
	prog.Info.StorageBuffersDescriptors = append(prog.Info.StorageBuffersDescriptors, ir.StorageBufferDescriptor{
		Index:      idx,
		CbufIndex:  origin.cbufIndex,
		CbufOffset: origin.cbufOffset,
	})
	cache[key] = idx
	prog.Info.UsesGlobalMemory = true
	prog.Info.UsedStorageBufferTypes[resultType] = true
	return idx
}

func lowerGlobalLoad(prog *ir.Program, b *ir.Block, i *ir.Inst, storageOp ir.Opcode, cache map[[2]int]int) {
	origin, ok := matchCbufOrigin(i.Arg(0))
	if !ok {
		return
	}
	idx := descriptorIndexFor(prog, origin, cache, storageOp.ResultType())
	e := ir.NewEmitter(b)
	e.SetInsertionPoint(i)
	repl := e.Inst(storageOp, ir.ImmU32(uint32(idx)), ir.ImmU32(origin.extra))
	i.ReplaceUsesWith(repl)
}

func lowerGlobalWrite(prog *ir.Program, b *ir.Block, i *ir.Inst, storageOp ir.Opcode, cache map[[2]int]int) {
	origin, ok := matchCbufOrigin(i.Arg(0))
	if !ok {
		return
	}
	valueType := ir.ArgType(storageOp, 2)
	idx := descriptorIndexFor(prog, origin, cache, valueType)
	e := ir.NewEmitter(b)
	e.SetInsertionPoint(i)
	e.Inst(storageOp, ir.ImmU32(uint32(idx)), ir.ImmU32(origin.extra), i.Arg(1))
	i.Invalidate()
	b.Remove(i)
}
