package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/ir"
)

// widthToType maps a decode-reported width in bits to the matching IR
// type, the inverse of the guest schema's TypeOf for register names.
func widthToType(bits int) ir.Type {
	switch bits {
	case 1:
		return ir.Ity_I1
	case 8:
		return ir.Ity_I8
	case 16:
		return ir.Ity_I16
	case 32:
		return ir.Ity_I32
	case 64:
		return ir.Ity_I64
	case 128:
		return ir.Ity_V128
	case 256:
		return ir.Ity_V256
	default:
		return ir.Ity_INVALID
	}
}

// addrExpr computes the effective address of a memory operand (spec.md
// §4.5 step 2): base + index*scale + disp, each term omitted if absent,
// or nextAddr+disp for RIP-relative forms.
func addrExpr(op decode.Operand, schema guest.Schema, nextAddr uint64) ir.Expr {
	if op.IsRipRelative {
		return ir.NewConst(ir.Ity_I64, nextAddr+uint64(int64(op.Disp)))
	}
	var acc ir.Expr
	if op.Base != "" {
		acc = ir.NewGet(schema.OffsetOf(op.Base), schema.TypeOf(op.Base))
	}
	if op.Index != "" {
		idx := ir.Expr(ir.NewGet(schema.OffsetOf(op.Index), schema.TypeOf(op.Index)))
		if op.Scale > 1 {
			idx = ir.NewBinop(ir.Iop_Mul64, idx, ir.NewConst(ir.Ity_I64, uint64(op.Scale)))
		}
		if acc == nil {
			acc = idx
		} else {
			acc = ir.NewBinop(ir.Iop_Add64, acc, idx)
		}
	}
	if op.Disp != 0 || acc == nil {
		d := ir.Expr(ir.NewConst(ir.Ity_I64, uint64(int64(op.Disp))))
		if acc == nil {
			acc = d
		} else {
			acc = ir.NewBinop(ir.Iop_Add64, acc, d)
		}
	}
	return acc
}

// readOperand lowers op into a value-producing expression: a register
// read, an immediate constant, or a little-endian memory load (spec.md
// §4.5 step 2).
//
// For an immediate operand this types the Const at op's own encoded
// width (decode/operand.go's ImmWidth). That's only correct when the
// caller doesn't also have a wider operation width the immediate must
// match: callers combining an immediate with a separately-widthed
// destination (ADD/SUB/CMP and friends, three-operand IMUL, MOV's
// immediate form) must use readOperandAt instead.
func readOperand(schema guest.Schema, op decode.Operand, nextAddr uint64) ir.Expr {
	switch op.Kind {
	case decode.OperandRegister:
		return ir.NewGet(schema.OffsetOf(op.Reg), schema.TypeOf(op.Reg))
	case decode.OperandImmediate:
		return ir.NewConst(widthToType(op.ImmWidth), op.ImmValue)
	case decode.OperandMemory:
		return &ir.LoadLE{Ty: widthToType(op.MemWidth), Addr: addrExpr(op, schema, nextAddr)}
	default:
		panic(&ir.InvariantViolation{Detail: "readOperand: unsupported operand kind"})
	}
}

// readOperandAt is readOperand, except an immediate is retyped to width
// rather than trusting its own encoded ImmWidth. ImmValue already carries
// the fully sign/zero-extended bit pattern the decoder produced (e.g.
// Group 1's 0x83 sign-extends an imm8 to the full operand width before
// storing it), so rebuilding the Const at width is a pure retype, never a
// value change: the low width bits are already the right ones. Registers
// and memory operands pass through unchanged, since decode already reports
// their width as the operation's width.
func readOperandAt(schema guest.Schema, op decode.Operand, width int, nextAddr uint64) ir.Expr {
	if op.Kind == decode.OperandImmediate {
		return constOfWidth(width, op.ImmValue)
	}
	return readOperand(schema, op, nextAddr)
}

// leaAddress lowers a memory operand to its address expression directly,
// without a load (used only by LEA, spec.md §4.5 step 2).
func leaAddress(op decode.Operand, schema guest.Schema, nextAddr uint64) ir.Expr {
	return addrExpr(op, schema, nextAddr)
}

// writeDest writes value to a register or memory destination operand. A
// 32-bit write to a register destination is zero-extended into the full
// 64-bit guest-state slot (spec.md §3 invariant 5, §4.5 step 4); 8/16-bit
// writes and memory stores leave the rest of the destination untouched.
func writeDest(s *ir.IRSB, schema guest.Schema, op decode.Operand, value ir.Expr, nextAddr uint64) {
	switch op.Kind {
	case decode.OperandRegister:
		offset := schema.OffsetOf(op.Reg)
		if op.RegWidth == 32 {
			s.Add(&ir.Put{Offset: offset, Value: ir.NewUnop(ir.Iop_ZeroExt32to64, value)})
			return
		}
		s.Add(&ir.Put{Offset: offset, Value: value})
	case decode.OperandMemory:
		s.Add(&ir.StoreLE{Addr: addrExpr(op, schema, nextAddr), Value: value})
	default:
		panic(&ir.InvariantViolation{Detail: "writeDest: unsupported destination kind"})
	}
}
