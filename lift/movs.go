package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/ir"
)

// lowerMov handles plain MOV: a direct copy with the same zero-extend
// behavior writeDest already applies to 32-bit register destinations. No
// flag effect.
func lowerMov(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	writeDest(s, schema, dst, readOperandAt(schema, src, operandWidth(dst), nextAddr), nextAddr)
}

// lowerMovzx handles MOVZX: zero-extend src into dst's width, where dst is
// always a register (spec.md §4.5 step 2's narrow-to-wide reads).
func lowerMovzx(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	srcVal := readOperand(schema, src, nextAddr)
	srcWidth := operandWidth(src)
	dstWidth := dst.RegWidth

	var op ir.UnopOp
	switch {
	case srcWidth == 8 && dstWidth == 16:
		op = ir.Iop_8Uto16
	case srcWidth == 8 && dstWidth == 32:
		op = ir.Iop_8Uto32
	case srcWidth == 8 && dstWidth == 64:
		op = ir.Iop_8Uto64
	case srcWidth == 16 && dstWidth == 32:
		op = ir.Iop_16Uto32
	case srcWidth == 16 && dstWidth == 64:
		op = ir.Iop_16Uto64
	default:
		panic(&ir.InvariantViolation{Detail: "lowerMovzx: unsupported width combination"})
	}
	t := s.NewTemp(widthToType(dstWidth))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewUnop(op, srcVal)})
	writeDest(s, schema, dst, s.RdTmp(t), nextAddr)
}

// lowerMovsx handles MOVSX: sign-extend src into dst's width.
func lowerMovsx(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	srcVal := readOperand(schema, src, nextAddr)
	srcWidth := operandWidth(src)
	dstWidth := dst.RegWidth

	var op ir.UnopOp
	switch {
	case srcWidth == 8 && dstWidth == 16:
		op = ir.Iop_8Sto16
	case srcWidth == 8 && dstWidth == 32:
		op = ir.Iop_8Sto32
	case srcWidth == 8 && dstWidth == 64:
		op = ir.Iop_8Sto64
	case srcWidth == 16 && dstWidth == 32:
		op = ir.Iop_16Sto32
	case srcWidth == 16 && dstWidth == 64:
		op = ir.Iop_16Sto64
	case srcWidth == 32 && dstWidth == 64:
		op = ir.Iop_32Sto64
	default:
		panic(&ir.InvariantViolation{Detail: "lowerMovsx: unsupported width combination"})
	}
	t := s.NewTemp(widthToType(dstWidth))
	s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewUnop(op, srcVal)})
	writeDest(s, schema, dst, s.RdTmp(t), nextAddr)
}

// lowerLea handles LEA: the computed address itself, never dereferenced,
// written to a register destination (spec.md §4.5 step 2). The address
// expression is always I64 (this lifter's guest is 64-bit); a 32-bit LEA
// destination (address-size override) truncates it first so writeDest's
// zero-extending register write sees the I32 it expects.
func lowerLea(s *ir.IRSB, schema guest.Schema, args []decode.Operand, nextAddr uint64) {
	dst, src := args[0], args[1]
	addr := leaAddress(src, schema, nextAddr)
	if dst.RegWidth == 32 {
		t := s.NewTemp(ir.Ity_I32)
		s.Add(&ir.WrTmp{Tmp: t, Value: ir.NewUnop(ir.Iop_64to32, addr)})
		addr = s.RdTmp(t)
	}
	writeDest(s, schema, dst, addr, nextAddr)
}
