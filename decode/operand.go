package decode

// OperandKind is the closed tag set for decoded operands (spec.md §4.3:
// "No source-language collection vocabulary" — operands are one of exactly
// these four shapes, never a generic container type).
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandImmediate
	OperandMemory
	OperandRelative
)

// Operand is a decoded instruction operand. Exactly one of the Reg/Imm/Mem/
// Rel fields is meaningful, selected by Kind.
type Operand struct {
	Kind OperandKind

	// Register: the guest-schema register name (e.g. "eax", "r8d", "xmm3")
	// and its width in bits.
	Reg      string
	RegWidth int

	// Immediate: the sign/zero-extended-as-specified value and its width
	// in bits (the width of the immediate as encoded, not of the
	// destination).
	ImmValue uint64
	ImmWidth int

	// Memory: base/index are guest-schema register names, empty if absent.
	// Scale is one of {1,2,4,8} and is only meaningful when Index != "".
	Base          string
	Index         string
	Scale         int
	Disp          int32
	IsRipRelative bool
	MemWidth      int // width in bits of the value at this address

	// Relative: a signed byte displacement from the end of the
	// instruction, used by near jumps/calls.
	RelValue int64
}

func regOperand(name string, widthBits int) Operand {
	return Operand{Kind: OperandRegister, Reg: name, RegWidth: widthBits}
}

func immOperand(value uint64, widthBits int) Operand {
	return Operand{Kind: OperandImmediate, ImmValue: value, ImmWidth: widthBits}
}

func relOperand(value int64) Operand {
	return Operand{Kind: OperandRelative, RelValue: value}
}
