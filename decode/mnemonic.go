package decode

// Mnemonic is a closed enumeration of the instruction mnemonics this
// decoder recognizes. It intentionally does not attempt full ISA coverage
// (spec.md §9: vector/extension coverage is a scoping decision, not a
// semantic one); unrecognized opcode cells yield DecodeError.
type Mnemonic uint16

const (
	MnInvalid Mnemonic = iota

	MnMOV
	MnMOVZX
	MnMOVSX
	MnLEA

	MnADD
	MnADC
	MnSUB
	MnSBB
	MnAND
	MnOR
	MnXOR
	MnCMP
	MnTEST
	MnNOT
	MnNEG
	MnINC
	MnDEC
	MnIMUL
	MnMUL
	MnIDIV
	MnDIV

	MnSHL
	MnSHR
	MnSAR
	MnROL
	MnROR
	MnRCL
	MnRCR

	MnPUSH
	MnPOP

	MnJMP
	MnJCC
	MnCALL
	MnRET
	MnRETF
	MnIRET

	MnCMOVCC
	MnSETCC

	MnNOP
	MnINT3
	MnINTn
	MnINTO
	MnUD2
	MnHLT
	MnCLI
	MnSTI
	MnCLD
	MnSTD
	MnCPUID
	MnSWAPGS

	MnSYSCALL
	MnSYSRET
	MnSYSENTER
	MnSYSEXIT

	MnMOVAPS
	MnMOVUPS
	MnMOVDQA
	MnMOVDQU
	MnMOVQ
	MnPXOR
	MnPADDB
	MnPADDW
	MnPADDD
	MnPADDQ
	MnADDPS
	MnADDPD
	MnSUBPS
	MnSUBPD
	MnANDPS
	MnORPS
	MnXORPS
)

var mnemonicNames = map[Mnemonic]string{
	MnInvalid: "(invalid)",
	MnMOV:     "mov", MnMOVZX: "movzx", MnMOVSX: "movsx", MnLEA: "lea",
	MnADD: "add", MnADC: "adc", MnSUB: "sub", MnSBB: "sbb", MnAND: "and",
	MnOR: "or", MnXOR: "xor", MnCMP: "cmp", MnTEST: "test", MnNOT: "not",
	MnNEG: "neg", MnINC: "inc", MnDEC: "dec", MnIMUL: "imul", MnMUL: "mul",
	MnIDIV: "idiv", MnDIV: "div",
	MnSHL: "shl", MnSHR: "shr", MnSAR: "sar", MnROL: "rol", MnROR: "ror",
	MnRCL: "rcl", MnRCR: "rcr",
	MnPUSH: "push", MnPOP: "pop",
	MnJMP: "jmp", MnJCC: "jcc", MnCALL: "call", MnRET: "ret", MnRETF: "retf", MnIRET: "iret",
	MnCMOVCC: "cmovcc", MnSETCC: "setcc",
	MnNOP: "nop", MnINT3: "int3", MnINTn: "int", MnINTO: "into", MnUD2: "ud2",
	MnHLT: "hlt", MnCLI: "cli", MnSTI: "sti", MnCLD: "cld", MnSTD: "std",
	MnCPUID: "cpuid", MnSWAPGS: "swapgs",
	MnSYSCALL: "syscall", MnSYSRET: "sysret", MnSYSENTER: "sysenter", MnSYSEXIT: "sysexit",
	MnMOVAPS: "movaps", MnMOVUPS: "movups", MnMOVDQA: "movdqa", MnMOVDQU: "movdqu",
	MnMOVQ: "movq", MnPXOR: "pxor", MnPADDB: "paddb", MnPADDW: "paddw",
	MnPADDD: "paddd", MnPADDQ: "paddq", MnADDPS: "addps", MnADDPD: "addpd",
	MnSUBPS: "subps", MnSUBPD: "subpd", MnANDPS: "andps", MnORPS: "orps", MnXORPS: "xorps",
}

func (m Mnemonic) String() string {
	if s, ok := mnemonicNames[m]; ok {
		return s
	}
	return "(unknown)"
}

// CondCode is the closed set of x86 condition-code suffixes used by Jcc,
// SETcc and CMOVcc.
type CondCode uint8

const (
	CC_O CondCode = iota
	CC_NO
	CC_B
	CC_AE
	CC_E
	CC_NE
	CC_BE
	CC_A
	CC_S
	CC_NS
	CC_P
	CC_NP
	CC_L
	CC_GE
	CC_LE
	CC_G
)

var condNames = [...]string{"o", "no", "b", "ae", "e", "ne", "be", "a", "s", "ns", "p", "np", "l", "ge", "le", "g"}

func (c CondCode) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}
	return "(unknown)"
}
