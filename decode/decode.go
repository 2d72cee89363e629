// Package decode implements the x86/AMD64 instruction decoder (spec.md
// §4.3, component C): byte-stream to structured DecodedInstr, covering
// prefix parsing (legacy groups, REX, VEX/EVEX), opcode-map dispatch,
// ModR/M + SIB + displacement addressing, and immediate parsing. Decoding
// always targets 64-bit (long) mode, the architecture the rest of this
// module's guest-state schema and lifter model.
package decode

import (
	"fmt"

	"github.com/decomp/vexlift/internal/dbgutil"
)

// DecodedInstr is the decoder's output: everything the lifter needs to
// translate one guest instruction, and nothing more (spec.md §4.3).
type DecodedInstr struct {
	Mnemonic Mnemonic
	Cond     CondCode // valid only when Mnemonic is MnJCC, MnSETCC or MnCMOVCC

	// Pos is the offset within the input buffer where this instruction
	// began; Length is the number of bytes it occupies.
	Pos    int
	Length int

	Args []Operand

	Lock    bool
	Rep     bool
	Repne   bool
	Segment string

	OperandSizeBits int // 8/16/32/64/128/256
	AddressSizeBits int // 32/64

	IsArchSpecific  bool // true for SYSCALL/SYSRET/SYSENTER/SYSEXIT/SWAPGS/CLI/STI
	UsesRipRelative bool
}

// Decode decodes one instruction from buf starting at position pos. It
// returns (nil, *DecodeError) on any malformed input, unknown opcode cell,
// or invalid group sub-encoding, and never partially emits (spec.md
// §4.3's error policy): either the full DecodedInstr is returned, or none
// of it is.
func Decode(buf []byte, pos int) (*DecodedInstr, error) {
	start := pos
	if pos >= len(buf) {
		return nil, decodeErrorf(pos, "empty input")
	}

	p, afterPrefix, err := parsePrefixes(buf, pos)
	if err != nil {
		return nil, err
	}
	pos = afterPrefix
	if pos >= len(buf) {
		return nil, decodeErrorf(pos, "truncated stream before opcode byte")
	}

	opSize := resolveOperandSize(p)
	addrSize := 64
	if p.addrSizeOverride {
		addrSize = 32
	}

	d := &DecodedInstr{
		Pos:             start,
		Lock:            p.lock,
		Rep:             p.rep,
		Repne:           p.repne,
		Segment:         p.segment,
		OperandSizeBits: opSize,
		AddressSizeBits: addrSize,
	}

	opByte := buf[pos] // for diagnostics only; VEX/EVEX forms don't consume this as a literal opcode byte

	if p.vecPresent() {
		// VEX/EVEX folds the opcode-map selector into mmmmm rather than an
		// explicit 0x0F lead byte: mmmmm=1 is the 0F map this decoder
		// covers; 0F38/0F3A (mmmmm=2,3) are out of scope.
		if p.mmmmm != 1 {
			return nil, decodeErrorf(pos, "unsupported VEX/EVEX opcode map (mmmmm=%d)", p.mmmmm)
		}
		pos, err = decodeTwoByteMap(buf, pos, p, d)
		if err != nil {
			return nil, err
		}
	} else {
		op := buf[pos]
		pos++

		switch {
		case op == 0x0F:
			pos, err = decodeTwoByteMap(buf, pos, p, d)
		default:
			pos, err = decodeOneByteMap(buf, pos, op, p, d)
		}
		if err != nil {
			return nil, err
		}
	}

	if d.Mnemonic == MnInvalid {
		return nil, decodeErrorf(start, "unknown mnemonic at opcode byte 0x%02X", opByte)
	}

	d.Length = pos - start
	for _, a := range d.Args {
		if a.Kind == OperandMemory && a.IsRipRelative {
			d.UsesRipRelative = true
		}
	}
	dbgutil.Dbg.Printf("decoded %v at pos %d, length %d", d.Mnemonic, start, d.Length)
	return d, nil
}

// resolveOperandSize applies spec.md §4.3 step 2's default-size rule:
// 32-bit operand size for AMD64, overridden by 0x66 (->16), REX.W (->64),
// or VEX/EVEX L/LL (->128/256 for vector ops, approximated here as the
// presence of a vector prefix selecting a 128-bit default).
func resolveOperandSize(p *prefixes) int {
	switch {
	case p.hasREX && p.rexW:
		return 64
	case (p.hasVEX || p.hasEVEX) && p.vecW:
		return 64
	case p.hasVEX || p.hasEVEX:
		if p.vecL {
			return 256
		}
		return 128
	case p.opSizeOverride:
		return 16
	default:
		return 32
	}
}

// readImm reads a widthBits-wide little-endian immediate at buf[pos],
// returning its raw bit pattern, the new position, and an error if the
// read would run past the buffer.
func readImm(buf []byte, pos int, widthBits int) (uint64, int, error) {
	n := widthBits / 8
	if pos+n > len(buf) {
		return 0, pos, decodeErrorf(pos, "truncated stream reading %d-bit immediate", widthBits)
	}
	var v uint64
	switch widthBits {
	case 8:
		v = uint64(buf[pos])
	case 16:
		v = uint64(leUint16(buf[pos:]))
	case 32:
		v = uint64(leUint32(buf[pos:]))
	case 64:
		v = leUint64(buf[pos:])
	default:
		return 0, pos, fmt.Errorf("decode: readImm: unsupported width %d", widthBits)
	}
	return v, pos + n, nil
}

// signExtend sign-extends a value of the given source width to 64 bits.
func signExtend(v uint64, fromBits int) uint64 {
	shift := 64 - uint(fromBits)
	return uint64(int64(v<<shift) >> shift)
}

// memOperandToOperand converts a decoded memOperand into the Operand
// vocabulary, tagging its width and RIP-relative-ness.
func memOperandToOperand(m memOperand, widthBits int) Operand {
	return Operand{
		Kind: OperandMemory, Base: m.base, Index: m.index, Scale: m.scale,
		Disp: m.disp, IsRipRelative: m.isRipRelative, MemWidth: widthBits,
	}
}

// decodeModRMOperands decodes a ModR/M (+SIB+disp) at buf[pos] into a
// (reg-field operand, rm-field operand) pair, both at widthBits, following
// the register views REX selects.
func decodeModRMOperands(buf []byte, pos int, p *prefixes, widthBits int) (regOp, rmOp Operand, next int, err error) {
	mod, reg, rm, mem, next, err := parseModRM(buf, pos, p.addrSizeOverride == false, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return Operand{}, Operand{}, pos, err
	}
	regOp = regOperand(regName(reg, widthBits, p.hasREX), widthBits)
	if mod == 3 {
		rmOp = regOperand(regName(rm, widthBits, p.hasREX), widthBits)
	} else {
		rmOp = memOperandToOperand(mem, widthBits)
	}
	return regOp, rmOp, next, nil
}
