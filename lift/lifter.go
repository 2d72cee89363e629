// Package lift implements the AMD64 lifter (spec.md §4.5, component D):
// translating one decoded instruction into IR statements appended to a
// super-block, consulting a guest-state schema to resolve register
// references.
package lift

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/internal/dbgutil"
	"github.com/decomp/vexlift/ir"
)

// Lift appends the IR translation of d to s, given the architecture's
// guest-state schema and the address d was decoded at. It returns true when
// s is left well-formed; false only on an operand-arity mismatch the
// decoder should never actually produce for a well-formed DecodedInstr
// (spec.md §4.5's contract). An opcode this lifter doesn't yet translate
// still returns true, with no statements beyond the mandatory IMark
// (spec.md §4.5 "Failure semantics").
func Lift(d *decode.DecodedInstr, s *ir.IRSB, schema guest.Schema, addr uint64) bool {
	dbgutil.Dbg.Printf("lifting %v at 0x%x", d.Mnemonic, addr)
	s.Add(&ir.IMark{Addr: addr, Len: d.Length})
	nextAddr := addr + uint64(d.Length)
	args := d.Args

	switch d.Mnemonic {
	case decode.MnMOV:
		if len(args) != 2 {
			return false
		}
		lowerMov(s, schema, args, nextAddr)

	case decode.MnMOVZX:
		if len(args) != 2 {
			return false
		}
		lowerMovzx(s, schema, args, nextAddr)

	case decode.MnMOVSX:
		if len(args) != 2 {
			return false
		}
		lowerMovsx(s, schema, args, nextAddr)

	case decode.MnLEA:
		if len(args) != 2 {
			return false
		}
		lowerLea(s, schema, args, nextAddr)

	case decode.MnADD, decode.MnSUB, decode.MnAND, decode.MnOR, decode.MnXOR:
		if len(args) != 2 {
			return false
		}
		lowerAddSubLogic(s, schema, d.Mnemonic, args, nextAddr)

	case decode.MnADC, decode.MnSBB:
		if len(args) != 2 {
			return false
		}
		lowerAdcSbb(s, schema, d.Mnemonic, args, nextAddr)

	case decode.MnCMP, decode.MnTEST:
		if len(args) != 2 {
			return false
		}
		lowerCmpTest(s, schema, d.Mnemonic, args, nextAddr)

	case decode.MnNOT:
		if len(args) != 1 {
			return false
		}
		lowerNot(s, schema, args, nextAddr)

	case decode.MnNEG:
		if len(args) != 1 {
			return false
		}
		lowerNeg(s, schema, args, nextAddr)

	case decode.MnINC, decode.MnDEC:
		if len(args) != 1 {
			return false
		}
		lowerIncDec(s, schema, d.Mnemonic, args, nextAddr)

	case decode.MnMUL, decode.MnIMUL, decode.MnDIV, decode.MnIDIV:
		return lowerMulDiv(s, schema, d.Mnemonic, args, nextAddr)

	case decode.MnSHL, decode.MnSHR, decode.MnSAR:
		if len(args) != 2 {
			return false
		}
		lowerShift(s, schema, d.Mnemonic, args, nextAddr)

	case decode.MnROL, decode.MnROR, decode.MnRCL, decode.MnRCR:
		if len(args) != 2 {
			return false
		}
		return lowerRotate(s, schema, d.Mnemonic, args, nextAddr)

	case decode.MnPUSH:
		if len(args) != 1 {
			return false
		}
		lowerPush(s, schema, args, nextAddr)

	case decode.MnPOP:
		if len(args) != 1 {
			return false
		}
		lowerPop(s, schema, args, nextAddr)

	case decode.MnJMP:
		if len(args) != 1 {
			return false
		}
		lowerJmp(s, schema, args, nextAddr)

	case decode.MnJCC:
		if len(args) != 1 {
			return false
		}
		lowerJcc(s, schema, d, args, nextAddr)

	case decode.MnCALL:
		if len(args) != 1 {
			return false
		}
		lowerCall(s, schema, args, nextAddr)

	case decode.MnRET:
		lowerRet(s, schema, args, nextAddr)

	case decode.MnRETF:
		lowerRetf(s, schema, nextAddr)

	case decode.MnIRET:
		lowerIret(s, schema, nextAddr)

	case decode.MnCMOVCC:
		if len(args) != 2 {
			return false
		}
		lowerCmovcc(s, schema, d, args, nextAddr)

	case decode.MnSETCC:
		if len(args) != 1 {
			return false
		}
		lowerSetcc(s, schema, d, args, nextAddr)

	case decode.MnNOP:
		// IMark only.

	case decode.MnINT3:
		lowerPrivilegedExit(s, addr, ir.Ijk_SigTrap)
	case decode.MnINTn, decode.MnINTO:
		lowerPrivilegedExit(s, addr, ir.Ijk_SigTrap)
	case decode.MnUD2:
		lowerPrivilegedExit(s, addr, ir.Ijk_SigIll)
	case decode.MnSWAPGS, decode.MnHLT, decode.MnSYSRET, decode.MnSYSENTER, decode.MnSYSEXIT:
		lowerPrivilegedExit(s, addr, ir.Ijk_Privileged)

	case decode.MnSYSCALL:
		lowerSyscall(s, schema, nextAddr)

	case decode.MnCLI, decode.MnSTI:
		// No guest-state slot models the interrupt-enable flag (out of
		// scope: spec.md §1's privileged-mode-fidelity non-goal); IMark
		// only.

	case decode.MnCLD, decode.MnSTD:
		lowerDirFlag(s, schema, d.Mnemonic)

	case decode.MnCPUID:
		lowerCpuid(s, schema)

	case decode.MnMOVAPS, decode.MnMOVUPS, decode.MnMOVDQA, decode.MnMOVDQU, decode.MnMOVQ:
		if len(args) != 2 {
			return false
		}
		lowerVectorMove(s, schema, args, nextAddr)

	case decode.MnPXOR, decode.MnPADDB, decode.MnPADDW, decode.MnPADDD, decode.MnPADDQ,
		decode.MnADDPS, decode.MnADDPD, decode.MnSUBPS, decode.MnSUBPD,
		decode.MnANDPS, decode.MnORPS, decode.MnXORPS:
		if len(args) != 2 {
			return false
		}
		return lowerVectorBinop(s, schema, d.Mnemonic, args, nextAddr)

	default:
		// Unsupported opcode: log and continue (spec.md §4.5 "Failure
		// semantics"), leaving only the IMark already emitted above.
	}

	return true
}
