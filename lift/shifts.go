package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/guest/amd64"
	"github.com/decomp/vexlift/ir"
)

// countOperand narrows the shift/rotate count operand (an 8-bit immediate
// or CL) to I8, the width every Binop shift and Triop rotate family takes
// its amount at.
func countOperand(schema guest.Schema, op decode.Operand, nextAddr uint64) ir.Expr {
	v := readOperand(schema, op, nextAddr)
	if v.Type() == ir.Ity_I8 {
		return v
	}
	t := ir.NewUnop(ir.Iop_64to8, widen64(v))
	return t
}

// lowerShift handles SHL/SHR/SAR: dst <op>= count, lazy-flag quadruple
// written unconditionally per SPEC_FULL.md's shift/rotate flag-always
// resolution: CC_DEP1 holds the shifted result, CC_DEP2 the count and
// CC_NDEP zero. SAR is recorded under the CC_Shr family, since
// guest/amd64/ccop.go has no CC_Sar family, so the quadruple alone does
// not distinguish a SAR from a SHR; the pre-shift operand is not recorded.
func lowerShift(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) {
	dst, cnt := args[0], args[1]
	width := operandWidth(dst)
	a := readOperand(schema, dst, nextAddr)
	c := countOperand(schema, cnt, nextAddr)

	var binop ir.BinopOp
	var ccBase amd64.CCOp
	switch mnem {
	case decode.MnSHL:
		binop = binopForWidth(width, ir.Iop_Shl8, ir.Iop_Shl16, ir.Iop_Shl32, ir.Iop_Shl64)
		ccBase = amd64.CC_ShlB
	case decode.MnSHR:
		binop = binopForWidth(width, ir.Iop_Shr8, ir.Iop_Shr16, ir.Iop_Shr32, ir.Iop_Shr64)
		ccBase = amd64.CC_ShrB
	case decode.MnSAR:
		binop = binopForWidth(width, ir.Iop_Sar8, ir.Iop_Sar16, ir.Iop_Sar32, ir.Iop_Sar64)
		ccBase = amd64.CC_ShrB
	default:
		panic(&ir.InvariantViolation{Detail: "lowerShift: unexpected mnemonic"})
	}

	t := s.NewTemp(widthToType(width))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(binop, a, c)})
	result := s.RdTmp(t)
	writeDest(s, schema, dst, result, nextAddr)
	writeFlagsQuad(s, schema, ccOpFor(ccBase, width), result, widen64(c), zero64)
}

// lowerRotate handles ROL/ROR/RCL/RCR at 32/64-bit widths via the
// rotate-through-carry Triop family (ir/ops.go has no plain-rotate Triop,
// only the carry-threading one, so ROL/ROR fold in the current carry flag
// the same way RCL/RCR do — the value they rotate just happens not to
// depend on it). 8/16-bit rotates have no matching Triop signature and are
// not lowered: only the IMark is emitted. Flags are written via the CC_Rol/
// CC_Ror families, closing the shift/rotate flag gap spec.md §9 flags as a
// mandated divergence from the source.
func lowerRotate(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) bool {
	dst, cnt := args[0], args[1]
	width := operandWidth(dst)
	if width != 32 && width != 64 {
		return true
	}
	a := readOperand(schema, dst, nextAddr)
	c := countOperand(schema, cnt, nextAddr)
	cin := carryInExpr(schema)

	var triop ir.TriopOp
	var ccBase amd64.CCOp
	switch mnem {
	case decode.MnROL, decode.MnRCL:
		triop = ir.Iop_RolC32
		ccBase = amd64.CC_RolB
		if width == 64 {
			triop = ir.Iop_RolC64
		}
	case decode.MnROR, decode.MnRCR:
		triop = ir.Iop_RorC32
		ccBase = amd64.CC_RorB
		if width == 64 {
			triop = ir.Iop_RorC64
		}
	default:
		return false
	}

	t := s.NewTemp(widthToType(width))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewTriop(triop, a, c, cin)})
	result := s.RdTmp(t)
	writeDest(s, schema, dst, result, nextAddr)
	writeFlagsQuad(s, schema, ccOpFor(ccBase, width), result, widen64(c), cin)
	return true
}
