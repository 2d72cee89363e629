package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/ir"
)

// lowerVectorMove handles MOVAPS/MOVUPS/MOVDQA/MOVDQU/MOVQ: a 128-bit (or
// 64-bit, for MOVQ) copy between a vector register and its source, no
// arithmetic, no flag effect (spec.md §4.5 "Vector semantics"). All five
// mnemonics share this lowering; MOVQ's 64-vs-128-bit operand asymmetry is
// bridged by narrowV128IfNeeded rather than needing its own lowering.
func lowerVectorMove(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	val := readOperand(schema, src, nextAddr)
	val = narrowV128IfNeeded(s, val, operandWidth(dst))
	writeDest(s, schema, dst, val, nextAddr)
}

// narrowV128IfNeeded bridges MOVQ's Wq,Vq form: the source is always a full
// V128 register read, but the destination (memory or a GPR) is only
// 64 bits wide, so the low quadword is extracted before the write.
func narrowV128IfNeeded(s *ir.IRSB, val ir.Expr, dstWidth int) ir.Expr {
	if val.Type() != ir.Ity_V128 || dstWidth != 64 {
		return val
	}
	t := s.NewTemp(ir.Ity_I64)
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewUnop(ir.Iop_V128to64low, val)})
	return s.RdTmp(t)
}

// lowerVectorBinop handles the lanewise SSE2 arithmetic/logic subset: PXOR,
// PADDB/W/D/Q, ADDPS/ADDPD, SUBPS/SUBPD, ANDPS, ORPS, XORPS. Each maps to a
// single fixed-signature vector Binop (spec.md §4.5: "Lanewise operations
// ... map to a single vector op").
func lowerVectorBinop(s *ir.IRSB, schema guest.Schema, mnem decode.Mnemonic, args []decode.Operand, nextAddr uint64) bool {
	dst, src := args[0], args[1]
	a := readOperand(schema, dst, nextAddr)
	b := readOperand(schema, src, nextAddr)

	var op ir.BinopOp
	switch mnem {
	case decode.MnPXOR:
		op = ir.Iop_XorV128
	case decode.MnPADDB:
		op = ir.Iop_Add8x16
	case decode.MnPADDW:
		op = ir.Iop_Add16x8
	case decode.MnPADDD:
		op = ir.Iop_Add32x4
	case decode.MnPADDQ:
		op = ir.Iop_Add64x2
	case decode.MnADDPS:
		op = ir.Iop_Add32Fx4
	case decode.MnADDPD:
		op = ir.Iop_Add64Fx2
	case decode.MnSUBPS:
		op = ir.Iop_Sub32Fx4
	case decode.MnSUBPD:
		op = ir.Iop_Sub64Fx2
	case decode.MnANDPS:
		op = ir.Iop_AndV128
	case decode.MnORPS:
		op = ir.Iop_OrV128
	case decode.MnXORPS:
		op = ir.Iop_XorV128
	default:
		return false
	}

	t := s.NewTemp(ir.Ity_V128)
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewBinop(op, a, b)})
	writeDest(s, schema, dst, s.RdTmp(t), nextAddr)
	return true
}
