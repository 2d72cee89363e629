// Package block implements the block driver (spec.md §4.4, component E):
// iterating decode+lift over a byte buffer until a terminating instruction
// or a budget is exhausted, producing one super-block per call.
package block

import (
	"github.com/decomp/vexlift/decode"
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/internal/dbgutil"
	"github.com/decomp/vexlift/ir"
	"github.com/decomp/vexlift/lift"
)

// Budgets bounds how much of a byte buffer a single LiftBlock call will
// consume. Either cap may end the block early; there is no error for
// hitting one, only a smaller IRSB than the input buffer's full length.
type Budgets struct {
	MaxInstructions int
	MaxBytes        int
}

// DefaultBudgets returns the spec's defaults: 50 instructions, 500 bytes.
func DefaultBudgets() Budgets {
	return Budgets{MaxInstructions: 50, MaxBytes: 500}
}

// isTerminator reports whether mnem ends a block's straight-line decode
// loop. Conditional jumps are deliberately excluded: per spec.md §8's E5
// scenario, a Jcc lowers to a side-exit Exit statement but decoding
// continues past it to the fall-through instruction: only an unconditional
// transfer (or a trap/privileged exit) ends the super-block itself.
func isTerminator(mnem decode.Mnemonic) bool {
	switch mnem {
	case decode.MnRET, decode.MnRETF, decode.MnIRET,
		decode.MnJMP, decode.MnCALL,
		decode.MnINT3, decode.MnINTn, decode.MnINTO, decode.MnUD2,
		decode.MnSYSCALL, decode.MnSYSRET, decode.MnSYSENTER, decode.MnSYSEXIT,
		decode.MnSWAPGS, decode.MnHLT:
		return true
	default:
		return false
	}
}

// LiftBlock decodes and lifts instructions from buf starting at baseAddr
// until a terminator fires or a budget is exhausted, returning the
// resulting super-block and the number of bytes actually consumed.
//
// Failure handling (spec.md §4.4): a decode error, an empty input, or a
// lift-time panic (recovered here so a single malformed/unsupported
// instruction cannot crash a batch lift of many blocks) all end the block
// at the last successful instruction — LiftBlock never returns an error,
// only a possibly-partial IRSB.
func LiftBlock(buf []byte, baseAddr uint64, budgets Budgets, schema guest.Schema) (irsb *ir.IRSB, bytesConsumed int) {
	// NewIRSB's arch string is diagnostics-only; "amd64" is the only guest
	// architecture this module currently wires a schema for (spec.md §1
	// treats other architectures abstractly, via guest.Schema alone).
	irsb = ir.NewIRSB("amd64", schema.AddrType())

	instrCount := 0
	pos := 0
	for {
		if instrCount >= budgets.MaxInstructions || pos >= budgets.MaxBytes || pos >= len(buf) {
			break
		}

		d, err := decode.Decode(buf, pos)
		if err != nil {
			dbgutil.Dbg.Printf("block: decode failed at +%d: %v", pos, err)
			break
		}
		if pos+d.Length > budgets.MaxBytes {
			break
		}

		ok := liftOneRecovered(d, irsb, schema, baseAddr+uint64(pos))
		if !ok {
			dbgutil.Dbg.Printf("block: lift failed at +%d (%v)", pos, d.Mnemonic)
			break
		}

		pos += d.Length
		instrCount++

		if isTerminator(d.Mnemonic) {
			break
		}
	}

	dbgutil.Dbg.Printf("block: lifted %d instructions, %d bytes at 0x%x", instrCount, pos, baseAddr)
	return irsb, pos
}

// liftOneRecovered calls lift.Lift, converting a panic raised for a
// programmer-error condition (spec.md §7: IrTypeError, UnknownRegister,
// InvariantViolation) into a false return so one bad instruction ends only
// its own block rather than the caller's whole batch.
func liftOneRecovered(d *decode.DecodedInstr, irsb *ir.IRSB, schema guest.Schema, addr uint64) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			dbgutil.Dbg.Printf("block: recovered panic lifting %v at 0x%x: %v", d.Mnemonic, addr, r)
			ok = false
		}
	}()
	return lift.Lift(d, irsb, schema, addr)
}
