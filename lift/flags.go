package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/guest/amd64"
	"github.com/decomp/vexlift/ir"
)

// widen64 zero-extends e to I64, the width every lazy-flag quadruple slot
// is stored at regardless of the operation's operand width (spec.md §4.2:
// CC_OP tags the width; CC_DEP1/CC_DEP2/CC_NDEP carry the operands).
func widen64(e ir.Expr) ir.Expr {
	switch e.Type() {
	case ir.Ity_I64:
		return e
	case ir.Ity_I32:
		return ir.NewUnop(ir.Iop_ZeroExt32to64, e)
	case ir.Ity_I16:
		return ir.NewUnop(ir.Iop_ZeroExt16to64, e)
	case ir.Ity_I8:
		return ir.NewUnop(ir.Iop_ZeroExt8to64, e)
	case ir.Ity_I1:
		return ir.NewUnop(ir.Iop_1Uto64, e)
	default:
		panic(&ir.InvariantViolation{Detail: "widen64: unsupported source type"})
	}
}

// ccOpFor selects the width-specific member of a CCOp family. base must be
// the family's *B member (CC_AddB, CC_SubB, ...); width is 8/16/32/64.
func ccOpFor(base amd64.CCOp, width int) amd64.CCOp {
	switch width {
	case 8:
		return base
	case 16:
		return base + 1
	case 32:
		return base + 2
	case 64:
		return base + 3
	default:
		panic(&ir.InvariantViolation{Detail: "ccOpFor: unsupported width"})
	}
}

// writeFlagsQuad emits the four lazy-flag Puts and nothing else (spec.md
// §3 invariant 4, §4.2): CC_OP, CC_DEP1, CC_DEP2, CC_NDEP.
func writeFlagsQuad(s *ir.IRSB, schema guest.Schema, op amd64.CCOp, dep1, dep2, ndep ir.Expr) {
	s.Add(&ir.Put{Offset: schema.OffsetOf("cc_op"), Value: ir.NewConst(ir.Ity_I64, uint64(op))})
	s.Add(&ir.Put{Offset: schema.OffsetOf("cc_dep1"), Value: widen64(dep1)})
	s.Add(&ir.Put{Offset: schema.OffsetOf("cc_dep2"), Value: widen64(dep2)})
	s.Add(&ir.Put{Offset: schema.OffsetOf("cc_ndep"), Value: widen64(ndep)})
}

var zero64 = ir.NewConst(ir.Ity_I64, 0)

// flagExprForCond re-derives the boolean condition cond evaluates to from
// the lazy-flag quadruple, via a pure helper call (spec.md §4.2: "a
// flag-dependent operation ... emits a pure expression that re-derives the
// needed flag"). This defers materialization to whatever consumer walks
// the IR, matching amd64g_calculate_condition in the reference model.
func flagExprForCond(schema guest.Schema, cond decode.CondCode) ir.Expr {
	ccOp := ir.NewGet(schema.OffsetOf("cc_op"), ir.Ity_I64)
	dep1 := ir.NewGet(schema.OffsetOf("cc_dep1"), ir.Ity_I64)
	dep2 := ir.NewGet(schema.OffsetOf("cc_dep2"), ir.Ity_I64)
	ndep := ir.NewGet(schema.OffsetOf("cc_ndep"), ir.Ity_I64)
	return ir.NewCCall(ir.CCall_Cond, ir.Ity_I1, ir.NewConst(ir.Ity_I64, uint64(cond)), ccOp, dep1, dep2, ndep)
}

// carryInExpr reads the current carry flag as I1, for ADC/SBB's NDEP
// operand and RCL/RCR's rotate-through-carry.
func carryInExpr(schema guest.Schema) ir.Expr {
	return flagExprForCond(schema, decode.CC_B)
}
