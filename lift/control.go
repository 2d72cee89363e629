package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/ir"
)

const wordSize = 8 // AMD64 stack slot width in bytes; this lifter targets 64-bit mode only.

func stackPtrGet(schema guest.Schema) ir.Expr {
	return ir.NewGet(schema.OffsetOf("rsp"), ir.Ity_I64)
}

func adjustStack(s *ir.IRSB, schema guest.Schema, delta int64) {
	rsp := stackPtrGet(schema)
	var op ir.BinopOp
	amt := delta
	if delta < 0 {
		op = ir.Iop_Sub64
		amt = -delta
	} else {
		op = ir.Iop_Add64
	}
	s.Add(&ir.Put{Offset: schema.OffsetOf("rsp"), Value: ir.NewBinop(op, rsp, ir.NewConst(ir.Ity_I64, uint64(amt)))})
}

// lowerPush handles PUSH: decrement rsp by the word size, then store the
// operand at [rsp] (spec.md §4.5's stack-operation family).
func lowerPush(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	val := readOperandAt(schema, args[0], 64, nextAddr)
	if val.Type() != ir.Ity_I64 {
		val = widen64(val)
	}
	adjustStack(s, schema, -wordSize)
	s.Add(&ir.StoreLE{Addr: stackPtrGet(schema), Value: val})
}

// lowerPop handles POP: load from [rsp], write to the destination, then
// increment rsp by the word size.
func lowerPop(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst := args[0]
	t := s.NewTemp(ir.Ity_I64)
	s.Add(&ir.WrTmp{Tmp: t, Value: &ir.LoadLE{Ty: ir.Ity_I64, Addr: stackPtrGet(schema)}})
	writeDest(s, schema, dst, s.RdTmp(t), nextAddr)
	adjustStack(s, schema, wordSize)
}

// branchTarget resolves a jump/call's target operand to an address
// expression: a relative operand resolves against nextAddr, a register or
// memory operand is read directly (spec.md §4.5 step 2).
func branchTarget(schema guest.Schema, op decode.Operand, nextAddr uint64) ir.Expr {
	if op.Kind == decode.OperandRelative {
		return ir.NewConst(ir.Ity_I64, uint64(int64(nextAddr)+op.RelValue))
	}
	return readOperand(schema, op, nextAddr)
}

// lowerJmp handles unconditional JMP (spec.md §4.4: a terminator, no
// fall-through).
func lowerJmp(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	s.SetNext(branchTarget(schema, args[0], nextAddr), ir.Ijk_Boring)
}

// lowerJcc handles conditional Jcc (spec.md §4.5 step 8 / example E5): an
// Exit fires on the condition; the block's fall-through Next still targets
// the next instruction for the not-taken path.
func lowerJcc(s *ir.IRSB, schema guest.Schema, d *decode.DecodedInstr, args []decode.Operand, nextAddr uint64) {
	target := branchTarget(schema, args[0], nextAddr)
	targetConst, ok := target.(*ir.Const)
	if !ok {
		// Indirect conditional jumps don't occur in the x86 encoding this
		// decoder covers; defensive fallback keeps lowering total.
		targetConst = ir.NewConst(ir.Ity_I64, 0)
	}
	s.Add(ir.NewExit(flagExprForCond(schema, d.Cond), ir.Ijk_Boring, targetConst))
	s.SetNext(ir.NewConst(ir.Ity_I64, nextAddr), ir.Ijk_Boring)
}

// lowerCall handles CALL (spec.md §4.5 step 9): push the return address,
// transfer to the callee.
func lowerCall(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	target := branchTarget(schema, args[0], nextAddr)
	adjustStack(s, schema, -wordSize)
	s.Add(&ir.StoreLE{Addr: stackPtrGet(schema), Value: ir.NewConst(ir.Ity_I64, nextAddr)})
	s.SetNext(target, ir.Ijk_Call)
}

// lowerRet handles RET/RET imm16 (spec.md §4.5 step 10): pop the return
// address, optionally release additional stack slots reserved by the
// caller, transfer to the loaded address.
func lowerRet(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	t := s.NewTemp(ir.Ity_I64)
	s.Add(&ir.WrTmp{Tmp: t, Value: &ir.LoadLE{Ty: ir.Ity_I64, Addr: stackPtrGet(schema)}})
	adjustStack(s, schema, wordSize)
	if len(args) == 1 {
		extra := int64(args[0].ImmValue)
		adjustStack(s, schema, extra)
	}
	s.SetNext(s.RdTmp(t), ir.Ijk_Ret)
}

// lowerRetf handles the far-return form. This lifter's guest state has no
// CS selector (segmentation is out of scope), so RETF is modeled
// identically to RET on the instruction-pointer component, dropping the
// segment pop — a scope simplification.
func lowerRetf(s *ir.IRSB, schema guest.Schema, nextAddr uint64) {
	t := s.NewTemp(ir.Ity_I64)
	s.Add(&ir.WrTmp{Tmp: t, Value: &ir.LoadLE{Ty: ir.Ity_I64, Addr: stackPtrGet(schema)}})
	adjustStack(s, schema, wordSize*2) // IP slot plus the unmodeled CS slot
	s.SetNext(s.RdTmp(t), ir.Ijk_Ret)
}

// lowerIret handles IRET. Like RETF, the CS/SS/flags components it
// restores on real hardware aren't modeled; only the instruction-pointer
// component is lifted, and the transfer is tagged Privileged rather than
// Ret since IRET is a privileged-mode return, not an ordinary call return.
func lowerIret(s *ir.IRSB, schema guest.Schema, nextAddr uint64) {
	t := s.NewTemp(ir.Ity_I64)
	s.Add(&ir.WrTmp{Tmp: t, Value: &ir.LoadLE{Ty: ir.Ity_I64, Addr: stackPtrGet(schema)}})
	adjustStack(s, schema, wordSize*3) // IP, CS, RFLAGS slots
	s.SetNext(s.RdTmp(t), ir.Ijk_Privileged)
}

// lowerCmovcc handles CMOVcc (spec.md §4.5 step 6): conditional select
// between the source and the destination's prior value.
func lowerCmovcc(s *ir.IRSB, schema guest.Schema, d *decode.DecodedInstr, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	prior := readOperand(schema, dst, nextAddr)
	newVal := readOperand(schema, src, nextAddr)
	cond := flagExprForCond(schema, d.Cond)
	writeDest(s, schema, dst, ir.NewITE(cond, newVal, prior), nextAddr)
}

// lowerSetcc handles SETcc (spec.md §4.5 step 7): the 1-bit condition
// result, zero-extended into the destination's low byte.
func lowerSetcc(s *ir.IRSB, schema guest.Schema, d *decode.DecodedInstr, args []decode.Operand, nextAddr uint64) {
	dst := args[0]
	cond := flagExprForCond(schema, d.Cond)
	t := s.NewTemp(ir.Ity_I8)
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewUnop(ir.Iop_1Uto8, cond)})
	writeDest(s, schema, dst, s.RdTmp(t), nextAddr)
}

// lowerCpuid handles CPUID (spec.md §4.5's vector/extension family): a
// pure per-leaf lookup via CCall, written to eax/ebx/ecx/edx.
func lowerCpuid(s *ir.IRSB, schema guest.Schema) {
	leaf := ir.NewGet(schema.OffsetOf("eax"), ir.Ity_I32)
	subleaf := ir.NewGet(schema.OffsetOf("ecx"), ir.Ity_I32)
	for _, reg := range []string{"eax", "ebx", "ecx", "edx"} {
		t := s.NewTemp(ir.Ity_I32)
		s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewCCall(ir.CCall_CPUID, ir.Ity_I32, leaf, subleaf, ir.NewConst(ir.Ity_I8, uint64(regIndex(reg))))})
		s.Add(&ir.Put{Offset: schema.OffsetOf(reg), Value: ir.NewUnop(ir.Iop_ZeroExt32to64, s.RdTmp(t))})
	}
}

func regIndex(name string) int {
	switch name {
	case "eax":
		return 0
	case "ebx":
		return 1
	case "ecx":
		return 2
	default:
		return 3
	}
}

// lowerSyscall handles SYSCALL (spec.md §4.5 step 11): save the return
// address to rcx, assemble RFLAGS into r11, record IPAtSyscall, terminate
// with an unconditional Syscall exit.
func lowerSyscall(s *ir.IRSB, schema guest.Schema, nextAddr uint64) {
	s.Add(&ir.Put{Offset: schema.OffsetOf("rcx"), Value: ir.NewConst(ir.Ity_I64, nextAddr)})

	ccOp := ir.NewGet(schema.OffsetOf("cc_op"), ir.Ity_I64)
	dep1 := ir.NewGet(schema.OffsetOf("cc_dep1"), ir.Ity_I64)
	dep2 := ir.NewGet(schema.OffsetOf("cc_dep2"), ir.Ity_I64)
	ndep := ir.NewGet(schema.OffsetOf("cc_ndep"), ir.Ity_I64)
	rflags := ir.NewCCall(ir.CCall_RFlagsFromCC, ir.Ity_I64, ccOp, dep1, dep2, ndep)
	s.Add(&ir.Put{Offset: schema.OffsetOf("r11"), Value: rflags})

	s.Add(&ir.Put{Offset: schema.OffsetOf("ip_at_syscall"), Value: ir.NewConst(ir.Ity_I64, nextAddr)})
	s.Add(ir.NewExit(ir.NewConst(ir.Ity_I1, 1), ir.Ijk_Syscall, ir.NewConst(ir.Ity_I64, 0)))
}

// lowerPrivilegedExit handles the always-taken terminators whose guest
// effect this lifter doesn't model beyond the control transfer itself:
// SYSRET/SYSENTER/SYSEXIT/SWAPGS/HLT (Privileged), UD2 (SigIll), INT3/
// INTn/INTO (SigTrap) — spec.md §4.5 step 12.
func lowerPrivilegedExit(s *ir.IRSB, addr uint64, kind ir.JumpKind) {
	s.Add(ir.NewExit(ir.NewConst(ir.Ity_I1, 1), kind, ir.NewConst(ir.Ity_I64, addr)))
}

// lowerDirFlag handles CLD/STD: the direction flag's only modeled effect
// (spec.md §4.2: "scalar sticky flags ... live at their own fixed
// guest-state offsets").
func lowerDirFlag(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic) {
	v := int64(1)
	if mnem == decode.MnSTD {
		v = -1
	}
	s.Add(&ir.Put{Offset: schema.OffsetOf("dflag"), Value: ir.NewConst(ir.Ity_I64, uint64(v))})
}
