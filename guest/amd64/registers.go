// Package amd64 is the guest-state schema for the x86/AMD64 architecture:
// the byte-addressable layout of the architectural register file, the
// lazy-flag slots, and the precise-memory-exception ranges the lifter
// consults when translating decoded AMD64 instructions.
package amd64

import (
	"fmt"

	"github.com/decomp/vexlift/ir"
)

// Guest-state byte offsets. General-purpose registers occupy eight bytes
// each so that their 64/32/16/8-bit views share a single backing slot
// (spec.md §3: "aliased subregisters ... entries for its 64/32/16/8-bit
// views at overlapping offsets"); a 32-bit write therefore must zero-extend
// into the full 64-bit slot (spec.md §4.5 step 4) to keep the upper bits
// architecturally defined.
const (
	OffRAX = 0
	OffRCX = 8
	OffRDX = 16
	OffRBX = 24
	OffRSP = 32
	OffRBP = 40
	OffRSI = 48
	OffRDI = 56
	OffR8  = 64
	OffR9  = 72
	OffR10 = 80
	OffR11 = 88
	OffR12 = 96
	OffR13 = 104
	OffR14 = 112
	OffR15 = 120

	OffXMM0  = 128
	xmmSlots = 16
	xmmWidth = 16 // bytes per XMM register

	OffRIP = OffXMM0 + xmmSlots*xmmWidth // 384

	// Lazy-flag quadruple (spec.md §4.2). Flag-setting instructions write
	// only these four slots, never the individual Z/S/C/O/P/A bits.
	OffCC_OP   = OffRIP + 8  // 392
	OffCC_DEP1 = OffCC_OP + 8
	OffCC_DEP2 = OffCC_DEP1 + 8
	OffCC_NDEP = OffCC_DEP2 + 8

	// Scalar sticky flags not expressible in the lazy quadruple.
	OffDFLAG  = OffCC_NDEP + 8 // direction flag, 1 or -1
	OffACFLAG = OffDFLAG + 8   // alignment-check flag, 0 or 1
	OffIDFLAG = OffACFLAG + 8  // ID flag, 0 or 1

	OffFSBase = OffIDFLAG + 8
	OffGSBase = OffFSBase + 8

	// IPAtSyscall records the instruction pointer at the most recent
	// syscall lowering (spec.md §4.5 step 11).
	OffIPAtSyscall = OffGSBase + 8

	GuestStateSize = OffIPAtSyscall + 8
)

type regEntry struct {
	offset int
	ty     ir.Type
}

// registers maps every recognized register name to its (offset, type)
// pair. 32/16/8-bit views of a 64-bit register share its offset; AH/BH/
// CH/DH additionally alias the second byte of their 16-bit parent, the one
// case where the low 8-bit view is not byte 0 of the slot (modeled here as
// its own offset one past the register's base, matching hardware).
var registers = map[string]regEntry{
	"rax": {OffRAX, ir.Ity_I64}, "eax": {OffRAX, ir.Ity_I32}, "ax": {OffRAX, ir.Ity_I16}, "al": {OffRAX, ir.Ity_I8},
	"rcx": {OffRCX, ir.Ity_I64}, "ecx": {OffRCX, ir.Ity_I32}, "cx": {OffRCX, ir.Ity_I16}, "cl": {OffRCX, ir.Ity_I8},
	"rdx": {OffRDX, ir.Ity_I64}, "edx": {OffRDX, ir.Ity_I32}, "dx": {OffRDX, ir.Ity_I16}, "dl": {OffRDX, ir.Ity_I8},
	"rbx": {OffRBX, ir.Ity_I64}, "ebx": {OffRBX, ir.Ity_I32}, "bx": {OffRBX, ir.Ity_I16}, "bl": {OffRBX, ir.Ity_I8},
	"rsp": {OffRSP, ir.Ity_I64}, "esp": {OffRSP, ir.Ity_I32}, "sp": {OffRSP, ir.Ity_I16}, "spl": {OffRSP, ir.Ity_I8},
	"rbp": {OffRBP, ir.Ity_I64}, "ebp": {OffRBP, ir.Ity_I32}, "bp": {OffRBP, ir.Ity_I16}, "bpl": {OffRBP, ir.Ity_I8},
	"rsi": {OffRSI, ir.Ity_I64}, "esi": {OffRSI, ir.Ity_I32}, "si": {OffRSI, ir.Ity_I16}, "sil": {OffRSI, ir.Ity_I8},
	"rdi": {OffRDI, ir.Ity_I64}, "edi": {OffRDI, ir.Ity_I32}, "di": {OffRDI, ir.Ity_I16}, "dil": {OffRDI, ir.Ity_I8},

	// Legacy high-byte views, only reachable without a REX prefix.
	"ah": {OffRAX + 1, ir.Ity_I8}, "ch": {OffRCX + 1, ir.Ity_I8}, "dh": {OffRDX + 1, ir.Ity_I8}, "bh": {OffRBX + 1, ir.Ity_I8},

	"rip": {OffRIP, ir.Ity_I64},

	"cc_op":   {OffCC_OP, ir.Ity_I64},
	"cc_dep1": {OffCC_DEP1, ir.Ity_I64},
	"cc_dep2": {OffCC_DEP2, ir.Ity_I64},
	"cc_ndep": {OffCC_NDEP, ir.Ity_I64},

	"dflag":  {OffDFLAG, ir.Ity_I64},
	"acflag": {OffACFLAG, ir.Ity_I64},
	"idflag": {OffIDFLAG, ir.Ity_I64},

	"fs_base": {OffFSBase, ir.Ity_I64},
	"gs_base": {OffGSBase, ir.Ity_I64},

	"ip_at_syscall": {OffIPAtSyscall, ir.Ity_I64},
}

func init() {
	r8names := []string{"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
	base := OffR8
	for _, name := range r8names {
		registers[name] = regEntry{base, ir.Ity_I64}
		registers[name+"d"] = regEntry{base, ir.Ity_I32}
		registers[name+"w"] = regEntry{base, ir.Ity_I16}
		registers[name+"b"] = regEntry{base, ir.Ity_I8}
		base += 8
	}
	for i := 0; i < xmmSlots; i++ {
		off := OffXMM0 + i*xmmWidth
		registers[fmt.Sprintf("xmm%d", i)] = regEntry{off, ir.Ity_V128}
	}
}

// preciseRanges lists the guest-state byte ranges that require the
// conservative memory-exception path: the stack pointer, frame pointer and
// instruction pointer (spec.md §4.2 "Layout").
var preciseRanges = [][2]int{
	{OffRSP, OffRSP + 8},
	{OffRBP, OffRBP + 8},
	{OffRIP, OffRIP + 8},
}
