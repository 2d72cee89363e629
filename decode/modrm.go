package decode

import "fmt"

var reg64Names = [...]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
var reg32Names = [...]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi",
	"r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d"}
var reg16Names = [...]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
	"r8w", "r9w", "r10w", "r11w", "r12w", "r13w", "r14w", "r15w"}
var reg8NamesNoREX = [...]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
var reg8NamesREX = [...]string{"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil",
	"r8b", "r9b", "r10b", "r11b", "r12b", "r13b", "r14b", "r15b"}

// regName maps a 4-bit (REX-extended) register number and a width in bits
// to the guest-schema register name at that width (spec.md §4.3 step 4).
// hasREX distinguishes the legacy AH/CH/DH/BH encodings (no REX) from the
// SPL/BPL/SIL/DIL encodings (REX present) for 8-bit registers 4-7.
func regName(num int, widthBits int, hasREX bool) string {
	switch widthBits {
	case 8:
		if num < 8 && !hasREX {
			return reg8NamesNoREX[num]
		}
		return reg8NamesREX[num]
	case 16:
		return reg16Names[num]
	case 32:
		return reg32Names[num]
	case 64:
		return reg64Names[num]
	case 128:
		return fmt.Sprintf("xmm%d", num)
	default:
		panic(fmt.Errorf("decode: regName: unsupported width %d", widthBits))
	}
}

// memOperand is the decoded result of a ModR/M + SIB + displacement
// sequence when mod != 11 (spec.md §4.3 step 5).
type memOperand struct {
	base          string
	index         string
	scale         int
	disp          int32
	isRipRelative bool
}

// parseModRM decodes the ModR/M byte (and, when present, the SIB byte and
// displacement) at buf[pos]. It returns mod plus the reg and rm numbers
// extended by REX.R and REX.B (rm only when mod == 3), the
// decoded memory operand (meaningful only when mod != 3), and the position
// following the fields it consumed.
//
// mod=00,rm=101 in 64-bit mode is RIP-relative (a 32-bit displacement,
// spec.md §4.3 step 5); the SIB byte is read only when rm=100 && mod!=11
// (spec.md "Boundaries").
func parseModRM(buf []byte, pos int, addrSize64 bool, rexR, rexX, rexB bool) (mod, reg, rm int, mem memOperand, next int, err error) {
	if pos >= len(buf) {
		return 0, 0, 0, memOperand{}, pos, decodeErrorf(pos, "truncated stream reading ModR/M byte")
	}
	b := buf[pos]
	pos++
	mod = int(b>>6) & 0x3
	reg = int(b>>3)&0x7 | boolBit(rexR)<<3
	rm = int(b) & 0x7

	if mod == 3 {
		rm |= boolBit(rexB) << 3
		return mod, reg, rm, memOperand{}, pos, nil
	}

	rmFull := rm | boolBit(rexB)<<3
	if rm == 4 {
		// SIB byte required.
		if pos >= len(buf) {
			return 0, 0, 0, memOperand{}, pos, decodeErrorf(pos, "truncated stream reading SIB byte")
		}
		sib := buf[pos]
		pos++
		scaleBits := int(sib>>6) & 0x3
		indexNum := int(sib>>3)&0x7 | boolBit(rexX)<<3
		baseNum := int(sib) & 0x7

		if indexNum != 4 { // index 100 without REX.X means "no index"; r12 is a valid index
			mem.index = regName(indexNum, addrWidth(addrSize64), false)
			mem.scale = 1 << uint(scaleBits)
		}
		if baseNum == 5 && mod == 0 {
			// No base register; disp32 follows instead.
			if pos+4 > len(buf) {
				return 0, 0, 0, memOperand{}, pos, decodeErrorf(pos, "truncated stream reading SIB disp32")
			}
			mem.disp = int32(leUint32(buf[pos:]))
			pos += 4
		} else {
			mem.base = regName(baseNum|boolBit(rexB)<<3, addrWidth(addrSize64), false)
		}
	} else if rm == 5 && mod == 0 {
		// RIP-relative: 32-bit displacement, no base/index.
		if pos+4 > len(buf) {
			return 0, 0, 0, memOperand{}, pos, decodeErrorf(pos, "truncated stream reading RIP-relative disp32")
		}
		mem.disp = int32(leUint32(buf[pos:]))
		mem.isRipRelative = true
		pos += 4
		return mod, reg, rm, mem, pos, nil
	} else {
		mem.base = regName(rmFull, addrWidth(addrSize64), false)
	}

	switch mod {
	case 1:
		if pos+1 > len(buf) {
			return 0, 0, 0, memOperand{}, pos, decodeErrorf(pos, "truncated stream reading disp8")
		}
		mem.disp = int32(int8(buf[pos]))
		pos++
	case 2:
		if pos+4 > len(buf) {
			return 0, 0, 0, memOperand{}, pos, decodeErrorf(pos, "truncated stream reading disp32")
		}
		mem.disp = int32(leUint32(buf[pos:]))
		pos += 4
	}

	return mod, reg, rmFull, mem, pos, nil
}

func addrWidth(is64 bool) int {
	if is64 {
		return 64
	}
	return 32
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func leUint16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func leUint64(b []byte) uint64 {
	return uint64(leUint32(b)) | uint64(leUint32(b[4:]))<<32
}
