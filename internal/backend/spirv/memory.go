package spirv

import (
	"github.com/shadercore/recompiler/internal/ir"
)

// memAddr names one word inside a backing array variable: either a
// StorageBuffer-class block's single runtime-array member (cbuf, storage,
// global) or the Workgroup-class array backing shared memory. Every load/
// store in this back-end resolves to one of these before touching
// OpAccessChain, so the three address spaces share one access/load/store
// path (memory.go) while only differing in how the word index is computed.
type memAddr struct {
	buf       uint32
	word      uint32
	workgroup bool
}

// Reserved descriptor-binding ranges. cbufBindingBase..+63 gives each
// distinct constant-buffer index its own descriptor binding, since cbuf
// indices are always compile-time constants in this guest ISA (GetCbuf's
// first operand, spec §4.2). storageBindingBase is one shared binding for
// every storage-buffer access: unlike cbuf, a storage binding operand may
// be a runtime value (opcode_table's LoadStorage32 takes a plain TypeU32,
// not an immediate), and SPIR-V descriptor bindings must be literals, so
// this back-end folds the runtime binding into the word address instead
// of the descriptor (storageAddr). globalBinding is the one reserved
// binding backing every OpLoadGlobal*/OpWriteGlobal* (guest global
// pointers are 64-bit and narrowed to a 32-bit word index, globalAddr).
const (
	cbufBindingBase    = 0
	storageBindingBase = 64
	globalBinding       = 65
	storageBindingShift = 14 // 16KiB (4K words) reserved per folded storage binding
)

func (em *emitter) wordShiftRight2(v uint32) uint32 {
	t := em.m.typeID(ir.TypeU32)
	id := em.m.ids.id()
	emitInst(&em.m.functions, OpShiftRightLogical, t, id, v, em.m.constU32(2))
	return id
}

// cbufAddr addresses word offset/4 inside the dedicated buffer for cbuf
// index. index is always a compile-time constant (patterns.go's
// emitGetCbuf resolves it via Arg(0).Imm() before calling this).
func (em *emitter) cbufAddr(index uint32, offset ir.Value) memAddr {
	buf := em.m.storageBufferVar(cbufBindingBase + index)
	word := em.wordShiftRight2(em.value(offset))
	return memAddr{buf: buf, word: word}
}

// storageAddr addresses a single shared storage buffer, folding the
// (possibly runtime-computed) binding into the high bits of the word
// address: SPIR-V descriptor bindings must be compile-time literals, so a
// dedicated OpVariable per binding (as cbufAddr uses) is not an option
// here without knowing every binding value ahead of time.
func (em *emitter) storageAddr(binding, offset ir.Value) memAddr {
	buf := em.m.storageBufferVar(storageBindingBase)
	u32T := em.m.typeID(ir.TypeU32)
	b := em.value(binding)
	shifted := em.m.ids.id()
	emitInst(&em.m.functions, OpShiftLeftLogical, u32T, shifted, b, em.m.constU32(storageBindingShift))
	folded := em.m.ids.id()
	emitInst(&em.m.functions, OpBitwiseOr, u32T, folded, shifted, em.value(offset))
	return memAddr{buf: buf, word: em.wordShiftRight2(folded)}
}

// globalAddr narrows a 64-bit guest pointer to the low 32 bits before
// dividing into a word index (this back-end's single reserved global
// buffer, like storageAddr, cannot honor the guest's full 64-bit address
// space as distinct descriptor bindings).
func (em *emitter) globalAddr(ptr ir.Value) memAddr {
	buf := em.m.storageBufferVar(globalBinding)
	u32T := em.m.typeID(ir.TypeU32)
	narrow := em.m.ids.id()
	emitInst(&em.m.functions, OpUConvert, u32T, narrow, em.value(ptr))
	return memAddr{buf: buf, word: em.wordShiftRight2(narrow)}
}

// sharedWords is the shared-memory Workgroup array's element count, the
// program's declared byte size rounded up to whole words. It returns zero
// for a zero byte size; workgroupArrayVar raises a zero count to one, so a
// program declaring no shared memory still gets a well-formed array type
// rather than a zero-length one.
func sharedWords(byteSize uint32) uint32 {
	return (byteSize + 3) / 4
}

func (em *emitter) sharedAddr(offset ir.Value) memAddr {
	buf := em.m.workgroupArrayVar(sharedWords(em.prog.SharedMemorySize))
	word := em.wordShiftRight2(em.value(offset))
	return memAddr{buf: buf, word: word, workgroup: true}
}

// addWordOffset returns addr shifted forward by n words, used to reach the
// second word of a 64-bit load/store (this back-end's word-granularity
// addressing has no native 64-bit access, spec §4.2's "word-granularity
// simplification").
func (em *emitter) addWordOffset(addr memAddr, n uint32) memAddr {
	u32T := em.m.typeID(ir.TypeU32)
	id := em.m.ids.id()
	emitInst(&em.m.functions, OpIAdd, u32T, id, addr.word, em.m.constU32(n))
	addr.word = id
	return addr
}

// accessChainPtr walks from addr's backing array variable to the single
// word it names: one index (the word) for the Workgroup-class array
// backing shared memory, two (the block's sole member, then the word) for
// a StorageBuffer-class block.
func (em *emitter) accessChainPtr(addr memAddr) uint32 {
	u32T := em.m.typeID(ir.TypeU32)
	id := em.m.ids.id()
	if addr.workgroup {
		ptrT := em.m.pointerType(StorageClassWorkgroup, u32T)
		emitInst(&em.m.functions, OpAccessChain, ptrT, id, addr.buf, addr.word)
		return id
	}
	ptrT := em.m.pointerType(StorageClassStorageBuffer, u32T)
	emitInst(&em.m.functions, OpAccessChain, ptrT, id, addr.buf, em.m.constU32(0), addr.word)
	return id
}

func (em *emitter) loadWord(addr memAddr) uint32 {
	ptr := em.accessChainPtr(addr)
	id := em.m.ids.id()
	emitInst(&em.m.functions, OpLoad, em.m.typeID(ir.TypeU32), id, ptr)
	return id
}

func (em *emitter) storeWord(addr memAddr, value uint32) {
	ptr := em.accessChainPtr(addr)
	emitInst(&em.m.functions, OpStore, ptr, value)
}

// loadFromAddr lowers i (any Load*/GetCbuf* instruction) from addr,
// aliasing i's cached result id directly to the loaded word's id: since
// every load reads one word regardless of the guest access width (spec
// §4.2's word-granularity simplification, matching glasm's equally
// approximate LOAD.U), there is nothing further to narrow or
// sign-extend. A TypeU32x2 result (the 64-bit load opcodes) instead reads
// two consecutive words and composites them.
func (em *emitter) loadFromAddr(i *ir.Inst, addr memAddr) {
	resultType := i.Opcode.ResultType()
	if resultType == ir.TypeU32x2 {
		lo := em.loadWord(addr)
		hi := em.loadWord(em.addWordOffset(addr, 1))
		id := em.m.ids.id()
		emitInst(&em.m.functions, OpCompositeConstruct, em.m.typeID(resultType), id, lo, hi)
		em.ids[i] = id
		return
	}
	em.ids[i] = em.loadWord(addr)
}

// storeToAddr lowers a Write* instruction's value operand v into addr,
// splitting a TypeU32x2 value (the 64-bit store opcodes) across two
// consecutive words.
func (em *emitter) storeToAddr(addr memAddr, v ir.Value) {
	valueID := em.value(v)
	if v.Type() != ir.TypeU32x2 {
		em.storeWord(addr, valueID)
		return
	}
	u32T := em.m.typeID(ir.TypeU32)
	lo := em.m.ids.id()
	emitInst(&em.m.functions, OpCompositeExtract, u32T, lo, valueID, 0)
	hi := em.m.ids.id()
	emitInst(&em.m.functions, OpCompositeExtract, u32T, hi, valueID, 1)
	em.storeWord(addr, lo)
	em.storeWord(em.addWordOffset(addr, 1), hi)
}

func (em *emitter) globalLoad(i *ir.Inst) {
	em.loadFromAddr(i, em.globalAddr(i.Arg(0)))
}

func (em *emitter) globalStore(i *ir.Inst) {
	em.storeToAddr(em.globalAddr(i.Arg(0)), i.Arg(1))
}

func (em *emitter) storageLoad(i *ir.Inst) {
	em.loadFromAddr(i, em.storageAddr(i.Arg(0), i.Arg(1)))
}

func (em *emitter) storageStore(i *ir.Inst) {
	em.storeToAddr(em.storageAddr(i.Arg(0), i.Arg(1)), i.Arg(2))
}

func (em *emitter) sharedLoad(i *ir.Inst) {
	em.loadFromAddr(i, em.sharedAddr(i.Arg(0)))
}

func (em *emitter) sharedStore(i *ir.Inst) {
	em.storeToAddr(em.sharedAddr(i.Arg(0)), i.Arg(1))
}
