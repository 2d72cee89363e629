package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/guest/amd64"
	"github.com/decomp/vexlift/ir"
)

// binopForWidth picks the width-specific member of a Binop family whose
// four members are declared 8/16/32/64 in that order in ir/ops.go.
func binopForWidth(width int, b8, b16, b32, b64 ir.BinopOp) ir.BinopOp {
	switch width {
	case 8:
		return b8
	case 16:
		return b16
	case 32:
		return b32
	case 64:
		return b64
	default:
		panic(&ir.InvariantViolation{Detail: "binopForWidth: unsupported width"})
	}
}

func operandWidth(op decode.Operand) int {
	switch op.Kind {
	case decode.OperandRegister:
		return op.RegWidth
	case decode.OperandMemory:
		return op.MemWidth
	case decode.OperandImmediate:
		return op.ImmWidth
	default:
		return 0
	}
}

// lowerAddSubLogic handles ADD/SUB/AND/OR/XOR: dst op= src, destination
// written back, lazy-flag quadruple written per spec.md §4.2.
func lowerAddSubLogic(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	width := operandWidth(dst)
	a := readOperand(schema, dst, nextAddr)
	b := readOperandAt(schema, src, width, nextAddr)

	var binop ir.BinopOp
	var ccBase amd64.CCOp
	switch mnem {
	case decode.MnADD:
		binop = binopForWidth(width, ir.Iop_Add8, ir.Iop_Add16, ir.Iop_Add32, ir.Iop_Add64)
		ccBase = amd64.CC_AddB
	case decode.MnSUB:
		binop = binopForWidth(width, ir.Iop_Sub8, ir.Iop_Sub16, ir.Iop_Sub32, ir.Iop_Sub64)
		ccBase = amd64.CC_SubB
	case decode.MnAND:
		binop = binopForWidth(width, ir.Iop_And8, ir.Iop_And16, ir.Iop_And32, ir.Iop_And64)
		ccBase = amd64.CC_LogicB
	case decode.MnOR:
		binop = binopForWidth(width, ir.Iop_Or8, ir.Iop_Or16, ir.Iop_Or32, ir.Iop_Or64)
		ccBase = amd64.CC_LogicB
	case decode.MnXOR:
		binop = binopForWidth(width, ir.Iop_Xor8, ir.Iop_Xor16, ir.Iop_Xor32, ir.Iop_Xor64)
		ccBase = amd64.CC_LogicB
	default:
		panic(&ir.InvariantViolation{Detail: "lowerAddSubLogic: unexpected mnemonic"})
	}

	t := s.NewTemp(widthToType(width))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(binop, a, b)})
	result := s.RdTmp(t)
	writeDest(s, schema, dst, result, nextAddr)

	switch mnem {
	case decode.MnAND, decode.MnOR, decode.MnXOR:
		writeFlagsQuad(s, schema, ccOpFor(ccBase, width), result, zero64, zero64)
	default:
		writeFlagsQuad(s, schema, ccOpFor(ccBase, width), a, b, zero64)
	}
}

// lowerAdcSbb handles ADC/SBB, whose carry-in rides in CC_NDEP rather than
// a modeled third operand.
func lowerAdcSbb(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	width := operandWidth(dst)
	a := readOperand(schema, dst, nextAddr)
	b := readOperandAt(schema, src, width, nextAddr)
	cin := carryInExpr(schema)

	var binop ir.BinopOp
	var ccBase amd64.CCOp
	if mnem == decode.MnADC {
		binop = binopForWidth(width, ir.Iop_Add8, ir.Iop_Add16, ir.Iop_Add32, ir.Iop_Add64)
		ccBase = amd64.CC_AdcB
	} else {
		binop = binopForWidth(width, ir.Iop_Sub8, ir.Iop_Sub16, ir.Iop_Sub32, ir.Iop_Sub64)
		ccBase = amd64.CC_SbbB
	}

	t := s.NewTemp(widthToType(width))
	// The carry contribution is folded in as a second add/sub against the
	// zero/one-extended carry bit, keeping every intermediate at dst's width.
	cinAtWidth := extendI1ToWidth(cin, width)
	partial := ir.NewBinop(binop, a, b)
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(binop, partial, cinAtWidth)})
	result := s.RdTmp(t)
	writeDest(s, schema, dst, result, nextAddr)
	writeFlagsQuad(s, schema, ccOpFor(ccBase, width), a, b, cin)
}

func extendI1ToWidth(e ir.Expr, width int) ir.Expr {
	switch width {
	case 8:
		return ir.NewUnop(ir.Iop_1Uto8, e)
	case 32:
		return ir.NewUnop(ir.Iop_1Uto32, e)
	case 64:
		return ir.NewUnop(ir.Iop_1Uto64, e)
	case 16:
		// No direct 1-to-16 conversion in the op set; widen through 32 then
		// truncate.
		return ir.NewUnop(ir.Iop_32to16, ir.NewUnop(ir.Iop_1Uto32, e))
	default:
		panic(&ir.InvariantViolation{Detail: "extendI1ToWidth: unsupported width"})
	}
}

// lowerCmpTest handles CMP/TEST: flags only, no destination write.
func lowerCmpTest(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	width := operandWidth(dst)
	a := readOperand(schema, dst, nextAddr)
	b := readOperandAt(schema, src, width, nextAddr)

	if mnem == decode.MnCMP {
		writeFlagsQuad(s, schema, ccOpFor(amd64.CC_SubB, width), a, b, zero64)
		return
	}
	binop := binopForWidth(width, ir.Iop_And8, ir.Iop_And16, ir.Iop_And32, ir.Iop_And64)
	t := s.NewTemp(widthToType(width))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(binop, a, b)})
	writeFlagsQuad(s, schema, ccOpFor(amd64.CC_LogicB, width), s.RdTmp(t), zero64, zero64)
}

// lowerNot handles NOT: bitwise complement, no flags (x86 NOT never
// touches status flags).
func lowerNot(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst := args[0]
	width := operandWidth(dst)
	a := readOperand(schema, dst, nextAddr)
	unop := unopForWidth(width, ir.Iop_Not8, ir.Iop_Not16, ir.Iop_Not32, ir.Iop_Not64)
	t := s.NewTemp(widthToType(width))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewUnop(unop, a)})
	writeDest(s, schema, dst, s.RdTmp(t), nextAddr)
}

// lowerNeg handles NEG: two's-complement negation, flags as if SUB(0, a).
func lowerNeg(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst := args[0]
	width := operandWidth(dst)
	a := readOperand(schema, dst, nextAddr)
	unop := unopForWidth(width, ir.Iop_Neg8, ir.Iop_Neg16, ir.Iop_Neg32, ir.Iop_Neg64)
	t := s.NewTemp(widthToType(width))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewUnop(unop, a)})
	writeDest(s, schema, dst, s.RdTmp(t), nextAddr)
	writeFlagsQuad(s, schema, ccOpFor(amd64.CC_SubB, width), zeroOfWidth(width), a, zero64)
}

// lowerIncDec handles INC/DEC: unlike ADD/SUB by 1, these preserve the
// carry flag (spec.md §4.2's CC_NDEP exists for exactly this), so the
// carry-in becomes CC_NDEP rather than participating in the arithmetic.
func lowerIncDec(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) {
	dst := args[0]
	width := operandWidth(dst)
	a := readOperand(schema, dst, nextAddr)
	one := constOfWidth(width, 1)

	var binop ir.BinopOp
	var ccBase amd64.CCOp
	if mnem == decode.MnINC {
		binop = binopForWidth(width, ir.Iop_Add8, ir.Iop_Add16, ir.Iop_Add32, ir.Iop_Add64)
		ccBase = amd64.CC_IncB
	} else {
		binop = binopForWidth(width, ir.Iop_Sub8, ir.Iop_Sub16, ir.Iop_Sub32, ir.Iop_Sub64)
		ccBase = amd64.CC_DecB
	}
	t := s.NewTemp(widthToType(width))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(binop, a, one)})
	result := s.RdTmp(t)
	writeDest(s, schema, dst, result, nextAddr)
	writeFlagsQuad(s, schema, ccOpFor(ccBase, width), result, zero64, carryInExpr(schema))
}

func unopForWidth(width int, u8, u16, u32, u64 ir.UnopOp) ir.UnopOp {
	switch width {
	case 8:
		return u8
	case 16:
		return u16
	case 32:
		return u32
	case 64:
		return u64
	default:
		panic(&ir.InvariantViolation{Detail: "unopForWidth: unsupported width"})
	}
}

func zeroOfWidth(width int) ir.Expr  { return constOfWidth(width, 0) }
func constOfWidth(width int, v uint64) ir.Expr {
	return ir.NewConst(widthToType(width), v)
}

// lowerMulDiv handles the Group 3 single-operand MUL/IMUL/DIV/IDIV forms
// (implicit RAX/EAX accumulator) and the two/three-operand IMUL forms, at
// 32- and 64-bit widths only; 8/16-bit multiply/divide are out of this
// lifter's first-milestone scope and take the unsupported-opcode path
// (true, with only the IMark emitted).
func lowerMulDiv(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) bool {
	switch len(args) {
	case 1:
		return lowerSingleOperandMulDiv(s, schema, mnem, args[0], nextAddr)
	case 2:
		return lowerTwoOperandIMUL(s, schema, args[0], args[1], nextAddr)
	case 3:
		return lowerThreeOperandIMUL(s, schema, args[0], args[1], args[2], nextAddr)
	default:
		return false
	}
}

func lowerSingleOperandMulDiv(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, rm decode.Operand, nextAddr uint64) bool {
	width := operandWidth(rm)
	if width != 32 && width != 64 {
		return true
	}
	accName, dName := "eax", "edx"
	if width == 64 {
		accName, dName = "rax", "rdx"
	}
	acc := ir.NewGet(schema.OffsetOf(accName), widthToType(width))
	rhs := readOperand(schema, rm, nextAddr)

	switch mnem {
	case decode.MnMUL, decode.MnIMUL:
		var mullOp ir.BinopOp
		if width == 32 {
			mullOp = ir.Iop_MullU32
			if mnem == decode.MnIMUL {
				mullOp = ir.Iop_MullS32
			}
		} else {
			mullOp = ir.Iop_MullU64
			if mnem == decode.MnIMUL {
				mullOp = ir.Iop_MullS64
			}
		}
		wideTy := ir.Ity_I64
		if width == 64 {
			wideTy = ir.Ity_I128
		}
		t := s.NewTemp(wideTy)
		s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(mullOp, acc, rhs)})
		product := s.RdTmp(t)
		if width == 32 {
			s.Add(&ir.Put{Offset: schema.OffsetOf("rax"), Value: ir.NewUnop(ir.Iop_ZeroExt32to64, ir.NewUnop(ir.Iop_64to32, product))})
			s.Add(&ir.Put{Offset: schema.OffsetOf("rdx"), Value: ir.NewUnop(ir.Iop_ZeroExt32to64, ir.NewUnop(ir.Iop_64to32, ir.NewBinop(ir.Iop_Shr64, product, ir.NewConst(ir.Ity_I8, 32))))})
		} else {
			s.Add(&ir.Put{Offset: schema.OffsetOf("rax"), Value: ir.NewUnop(ir.Iop_128to64, product)})
			s.Add(&ir.Put{Offset: schema.OffsetOf("rdx"), Value: ir.NewUnop(ir.Iop_128HIto64, product)})
		}
		return true

	case decode.MnDIV, decode.MnIDIV:
		dividendHi := ir.Expr(ir.NewGet(schema.OffsetOf(dName), widthToType(width)))
		dividendLo := ir.Expr(acc)
		var wideOp ir.BinopOp
		if mnem == decode.MnDIV {
			wideOp = ir.Iop_DivModU128to64
		} else {
			wideOp = ir.Iop_DivModS128to64
		}
		if width != 64 {
			// 32-bit divide: widen EDX:EAX into one I64 dividend so the
			// fixed-width DivMod*128to64 family still applies, scaled down;
			// the 128-bit high half is the dividend's sign for IDIV, zero for DIV.
			hi64 := ir.NewUnop(ir.Iop_32Uto64, dividendHi)
			lo64 := ir.NewUnop(ir.Iop_32Uto64, dividendLo)
			dividend := ir.NewBinop(ir.Iop_Or64, ir.NewBinop(ir.Iop_Shl64, hi64, ir.NewConst(ir.Ity_I8, 32)), lo64)
			hi128 := ir.Expr(ir.NewConst(ir.Ity_I64, 0))
			if mnem == decode.MnIDIV {
				hi128 = ir.NewBinop(ir.Iop_Sar64, dividend, ir.NewConst(ir.Ity_I8, 63))
			}
			wide128 := ir.NewBinop(ir.Iop_64HLto128, hi128, dividend)
			rhsExt := ir.Iop_32Uto64
			if mnem == decode.MnIDIV {
				rhsExt = ir.Iop_32Sto64
			}
			rhs64 := ir.NewUnop(rhsExt, rhs)
			t := s.NewTemp(ir.Ity_I128)
			s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(wideOp, wide128, rhs64)})
			quotRem := s.RdTmp(t)
			s.Add(&ir.Put{Offset: schema.OffsetOf("rax"), Value: ir.NewUnop(ir.Iop_ZeroExt32to64, ir.NewUnop(ir.Iop_64to32, ir.NewUnop(ir.Iop_128to64, quotRem)))})
			s.Add(&ir.Put{Offset: schema.OffsetOf("rdx"), Value: ir.NewUnop(ir.Iop_ZeroExt32to64, ir.NewUnop(ir.Iop_64to32, ir.NewUnop(ir.Iop_128HIto64, quotRem)))})
			return true
		}
		wide128 := ir.NewBinop(ir.Iop_64HLto128, dividendHi, dividendLo)
		t := s.NewTemp(ir.Ity_I128)
		s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(wideOp, wide128, rhs)})
		quotRem := s.RdTmp(t)
		s.Add(&ir.Put{Offset: schema.OffsetOf("rax"), Value: ir.NewUnop(ir.Iop_128to64, quotRem)})
		s.Add(&ir.Put{Offset: schema.OffsetOf("rdx"), Value: ir.NewUnop(ir.Iop_128HIto64, quotRem)})
		return true
	}
	return false
}

func lowerTwoOperandIMUL(s *ir.IRSB, schema guest.Schema, dst, src decode.Operand, nextAddr uint64) bool {
	width := operandWidth(dst)
	if width != 32 && width != 64 {
		return true
	}
	a := readOperand(schema, dst, nextAddr)
	b := readOperand(schema, src, nextAddr)
	return lowerIMULTruncated(s, schema, dst, a, b, width, nextAddr)
}

func lowerThreeOperandIMUL(s *ir.IRSB, schema guest.Schema, dst, src, imm decode.Operand, nextAddr uint64) bool {
	width := operandWidth(dst)
	if width != 32 && width != 64 {
		return true
	}
	a := readOperand(schema, src, nextAddr)
	b := readOperandAt(schema, imm, width, nextAddr)
	return lowerIMULTruncated(s, schema, dst, a, b, width, nextAddr)
}

func lowerIMULTruncated(s *ir.IRSB, schema guest.Schema, dst decode.Operand, a, b ir.Expr, width int, nextAddr uint64) bool {
	if width == 32 {
		t := s.NewTemp(ir.Ity_I64)
		s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(ir.Iop_MullS32, a, b)})
		writeDest(s, schema, dst, ir.NewUnop(ir.Iop_64to32, s.RdTmp(t)), nextAddr)
		return true
	}
	t := s.NewTemp(ir.Ity_I128)
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(ir.Iop_MullS64, a, b)})
	writeDest(s, schema, dst, ir.NewUnop(ir.Iop_128to64, s.RdTmp(t)), nextAddr)
	return true
}
