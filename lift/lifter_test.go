package lift_test

import (
	"testing"

	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest/amd64"
	"github.com/decomp/vexlift/ir"
	"github.com/decomp/vexlift/lift"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func liftOne(t *testing.T, enc []byte, addr uint64) (*decode.DecodedInstr, *ir.IRSB) {
	t.Helper()
	d, err := decode.Decode(enc, 0)
	assert(t, err == nil, "decode %x: unexpected error: %v", enc, err)
	s := ir.NewIRSB("amd64", ir.Ity_I64)
	ok := lift.Lift(d, s, amd64.Schema, addr)
	assert(t, ok, "lift %x: returned false", enc)
	return d, s
}

func findPut(t *testing.T, s *ir.IRSB, offset int) *ir.Put {
	t.Helper()
	for i := len(s.Stmts()) - 1; i >= 0; i-- {
		if p, ok := s.Stmts()[i].(*ir.Put); ok && p.Offset == offset {
			return p
		}
	}
	t.Fatalf("no Put to offset %d found", offset)
	return nil
}

// E1: mov rbx, rax
func TestLiftE1MovRegReg(t *testing.T) {
	_, s := liftOne(t, []byte{0x48, 0x89, 0xC3}, 0x1000)
	assert(t, len(s.Stmts()) >= 1, "expected at least an IMark")
	mark, ok := s.Stmts()[0].(*ir.IMark)
	assert(t, ok, "first statement must be IMark")
	assert(t, mark.Len == 3, "expected length 3, got %d", mark.Len)

	put := findPut(t, s, amd64.OffRBX)
	get, ok := put.Value.(*ir.Get)
	assert(t, ok, "expected Put(rbx, Get(rax)), got %T", put.Value)
	assert(t, get.Offset == amd64.OffRAX && get.Ty == ir.Ity_I64, "expected Get(off(rax), I64)")
}

// E2: add rbx, rax
func TestLiftE2AddRegRegFlags(t *testing.T) {
	_, s := liftOne(t, []byte{0x48, 0x01, 0xC3}, 0x1000)

	put := findPut(t, s, amd64.OffRBX)
	rd, ok := put.Value.(*ir.RdTmp)
	assert(t, ok, "expected Put(rbx, RdTmp(_)), got %T", put.Value)
	assert(t, rd.Ty == ir.Ity_I64, "expected temp of type I64")

	ccOp := findPut(t, s, amd64.OffCC_OP)
	c, ok := ccOp.Value.(*ir.Const)
	assert(t, ok, "expected CC_OP Put to carry a Const")
	assert(t, amd64.CCOp(c.Val) == amd64.CC_AddQ, "expected CC_OP=AddQ, got %v", amd64.CCOp(c.Val))

	dep1 := findPut(t, s, amd64.OffCC_DEP1)
	g1, ok := dep1.Value.(*ir.Get)
	assert(t, ok, "expected CC_DEP1 to carry Get(rbx)")
	assert(t, g1.Offset == amd64.OffRBX, "expected CC_DEP1 = prior rbx")

	dep2 := findPut(t, s, amd64.OffCC_DEP2)
	g2, ok := dep2.Value.(*ir.Get)
	assert(t, ok, "expected CC_DEP2 to carry Get(rax)")
	assert(t, g2.Offset == amd64.OffRAX, "expected CC_DEP2 = rax")
}

// E3: mov eax, ebx (default 32-bit operand size)
func TestLiftE3MovZeroExtend(t *testing.T) {
	_, s := liftOne(t, []byte{0x89, 0xD8}, 0x1000)

	put := findPut(t, s, amd64.OffRAX)
	u, ok := put.Value.(*ir.Unop)
	assert(t, ok, "expected Put(rax, Unop(ZeroExt32to64, _)), got %T", put.Value)
	assert(t, u.Op == ir.Iop_ZeroExt32to64, "expected ZeroExt32to64")
	g, ok := u.Arg.(*ir.Get)
	assert(t, ok, "expected ZeroExt32to64 argument to be Get(ebx)")
	assert(t, g.Offset == amd64.OffRBX && g.Ty == ir.Ity_I32, "expected Get(off(rbx), I32)")
}

// E4: lea rax, [rip+0x10] at address 0x1000, length 7
func TestLiftE4LeaRipRelative(t *testing.T) {
	_, s := liftOne(t, []byte{0x48, 0x8D, 0x05, 0x10, 0x00, 0x00, 0x00}, 0x1000)

	put := findPut(t, s, amd64.OffRAX)
	c, ok := put.Value.(*ir.Const)
	assert(t, ok, "expected Put(rax, Const(_)), got %T", put.Value)
	assert(t, c.Val == 0x1017, "expected 0x1017, got 0x%x", c.Val)

	for _, st := range s.Stmts() {
		if _, ok := st.(*ir.Dirty); ok {
			t.Fatalf("lea must not emit a LoadLE-equivalent effect")
		}
	}
}

// E5: je +5 at address 0x2000
func TestLiftE5JccFallthrough(t *testing.T) {
	d, s := liftOne(t, []byte{0x74, 0x05}, 0x2000)
	assert(t, d.Cond == decode.CC_E, "expected condition E (zero), got %v", d.Cond)

	var exit *ir.Exit
	for _, st := range s.Stmts() {
		if e, ok := st.(*ir.Exit); ok {
			exit = e
		}
	}
	assert(t, exit != nil, "expected an Exit statement")
	assert(t, exit.Kind == ir.Ijk_Boring, "expected Boring jump kind")
	assert(t, exit.Target.Val == 0x2007, "expected target 0x2007, got 0x%x", exit.Target.Val)
	assert(t, exit.Guard.Type() == ir.Ity_I1, "guard must be I1")

	assert(t, s.Next != nil, "fall-through Next must be set")
	nextConst, ok := s.Next.(*ir.Const)
	assert(t, ok, "expected Next to be a Const")
	assert(t, nextConst.Val == 0x2002, "expected fall-through 0x2002, got 0x%x", nextConst.Val)
}

// E6: ret
func TestLiftE6Ret(t *testing.T) {
	_, s := liftOne(t, []byte{0xC3}, 0x3000)

	assert(t, s.Jump == ir.Ijk_Ret, "expected jumpKind Ret")
	rd, ok := s.Next.(*ir.RdTmp)
	assert(t, ok, "expected Next to be RdTmp(_), got %T", s.Next)
	assert(t, rd.Ty == ir.Ity_I64, "expected I64 temp")

	put := findPut(t, s, amd64.OffRSP)
	b, ok := put.Value.(*ir.Binop)
	assert(t, ok, "expected Put(rsp, Binop(Add64, rsp, 8))")
	assert(t, b.Op == ir.Iop_Add64, "expected Add64")
}

// sub rsp, 0x28 -- REX.W + 0x83 /5 ib, the canonical prologue stack
// adjustment. The imm8 encodes at 8 bits but the operation is 64-bit; b
// must come out typed I64 or NewBinop(Iop_Sub64, ...) panics.
func TestLiftSubRspImm8SignExtendedToOperandWidth(t *testing.T) {
	_, s := liftOne(t, []byte{0x48, 0x83, 0xEC, 0x28}, 0x1000)

	put := findPut(t, s, amd64.OffRSP)
	rd, ok := put.Value.(*ir.RdTmp)
	assert(t, ok, "expected Put(rsp, RdTmp(_)), got %T", put.Value)
	assert(t, rd.Ty == ir.Ity_I64, "expected temp of type I64, got %v", rd.Ty)
}

// cmp rax, -1 -- REX.W + 0x83 /7 ib with imm8 0xFF. The decoder sign-extends
// the immediate to the full 64-bit two's-complement pattern at decode time;
// CC_DEP2 must carry that same I64 Const, not an I8 Const wrongly believed
// to hold only the low 8 bits.
func TestLiftCmpImm8SignExtendedFlagsWidth(t *testing.T) {
	_, s := liftOne(t, []byte{0x48, 0x83, 0xF8, 0xFF}, 0x1000)

	dep2 := findPut(t, s, amd64.OffCC_DEP2)
	c, ok := dep2.Value.(*ir.Const)
	assert(t, ok, "expected CC_DEP2 to carry a Const directly, got %T", dep2.Value)
	assert(t, c.Ty == ir.Ity_I64, "expected CC_DEP2 Const of type I64, got %v", c.Ty)
	assert(t, c.Val == 0xFFFFFFFFFFFFFFFF, "expected sign-extended -1, got 0x%x", c.Val)
}

// imul eax, ebx, 0x7b -- the three-operand imm8 IMUL form (0x6B). The
// immediate must be retyped to the 32-bit operand width Iop_MullS32 expects.
func TestLiftThreeOperandImulImm8Width(t *testing.T) {
	_, s := liftOne(t, []byte{0x6B, 0xC3, 0x7B}, 0x1000)

	put := findPut(t, s, amd64.OffRAX)
	u, ok := put.Value.(*ir.Unop)
	assert(t, ok, "expected Put(eax, Unop(ZeroExt32to64, _)), got %T", put.Value)
	assert(t, u.Op == ir.Iop_ZeroExt32to64, "expected ZeroExt32to64")
}

// mov rax, -1 -- REX.W + 0xC7 /0 id, imm32 sign-extended to 64 bits. The
// destination write must carry an I64 Const, not an I32 one.
func TestLiftMovImm32SignExtendedToOperandWidth(t *testing.T) {
	_, s := liftOne(t, []byte{0x48, 0xC7, 0xC0, 0xFF, 0xFF, 0xFF, 0xFF}, 0x1000)

	put := findPut(t, s, amd64.OffRAX)
	c, ok := put.Value.(*ir.Const)
	assert(t, ok, "expected Put(rax, Const(_)), got %T", put.Value)
	assert(t, c.Ty == ir.Ity_I64, "expected Const of type I64, got %v", c.Ty)
	assert(t, c.Val == 0xFFFFFFFFFFFFFFFF, "expected sign-extended -1, got 0x%x", c.Val)
}

// lowerMulDiv/lowerRotate/lowerVectorBinop report arity mismatches via
// their own bool return; Lift must propagate that instead of discarding it
// behind its own unconditional trailing true.
func TestLiftPropagatesArityMismatchFromMulDiv(t *testing.T) {
	s := ir.NewIRSB("amd64", ir.Ity_I64)
	d := &decode.DecodedInstr{Mnemonic: decode.MnMUL, Length: 1, Args: make([]decode.Operand, 4)}
	ok := lift.Lift(d, s, amd64.Schema, 0x4000)
	assert(t, !ok, "expected Lift to return false for a 4-operand MUL")
}

func TestLiftUnsupportedOpcodeReturnsTrueWithOnlyIMark(t *testing.T) {
	// 0F 05 is SYSCALL, which this test treats as supported; instead hand
	// Lift a mnemonic it has no case for, to exercise the IMark-only path.
	s := ir.NewIRSB("amd64", ir.Ity_I64)
	d := &decode.DecodedInstr{Mnemonic: decode.MnInvalid, Length: 1}
	// Mnemonic is normally never MnInvalid for a value Decode returns
	// (Decode itself errors first), but Lift's own switch falls to its
	// default arm for any mnemonic it doesn't recognize, so this probes
	// that arm directly without relying on an unassigned opcode byte.
	ok := lift.Lift(d, s, amd64.Schema, 0x4000)
	assert(t, ok, "expected Lift to return true for an unhandled mnemonic")
	assert(t, len(s.Stmts()) == 1, "expected exactly the IMark statement, got %d", len(s.Stmts()))
}
