package ir

// UnopOp, BinopOp, TriopOp and QopOp are closed enumerations of the pure
// arithmetic/bit-manipulation/vector operations usable inside Unop, Binop,
// Triop and Qop. Each has a fixed signature over IR types, checked by the
// corresponding constructor; the enumeration is not extensible at runtime.
type UnopOp uint16

const (
	Iop_INVALID_UNOP UnopOp = iota

	Iop_Not1
	Iop_Not8
	Iop_Not16
	Iop_Not32
	Iop_Not64

	Iop_Neg8
	Iop_Neg16
	Iop_Neg32
	Iop_Neg64

	// Width-changing conversions.
	Iop_1Uto8
	Iop_1Uto32
	Iop_1Uto64
	Iop_1Sto8
	Iop_1Sto16
	Iop_1Sto32
	Iop_1Sto64
	Iop_8Uto16
	Iop_8Uto32
	Iop_8Uto64
	Iop_8Sto16
	Iop_8Sto32
	Iop_8Sto64
	Iop_16Uto32
	Iop_16Uto64
	Iop_16Sto32
	Iop_16Sto64
	Iop_32Uto64
	Iop_32Sto64
	Iop_64to8
	Iop_64to16
	Iop_64to32
	Iop_32to8
	Iop_32to16
	Iop_16to8
	Iop_64to1
	Iop_32to1

	// Zero/sign extension convenience aliases used by the lifter for
	// partial-register writes (spec.md §4.5 step 4).
	Iop_ZeroExt8to32
	Iop_ZeroExt8to64
	Iop_ZeroExt16to32
	Iop_ZeroExt16to64
	Iop_ZeroExt32to64
	Iop_SignExt8to32
	Iop_SignExt8to64
	Iop_SignExt16to32
	Iop_SignExt16to64
	Iop_SignExt32to64

	Iop_Clz64
	Iop_Clz32
	Iop_Ctz64
	Iop_Ctz32

	Iop_128HIto64
	Iop_128to64

	// Vector lane negation / moves.
	Iop_NotV128
	Iop_NotV256

	// MOVQ's narrow-direction conversions: the low quadword of a V128, and
	// a quadword zero-extended into a V128 with its upper half cleared.
	Iop_V128to64low
	Iop_64UtoV128
)

type BinopOp uint16

const (
	Iop_INVALID_BINOP BinopOp = iota

	Iop_Add8
	Iop_Add16
	Iop_Add32
	Iop_Add64
	Iop_Sub8
	Iop_Sub16
	Iop_Sub32
	Iop_Sub64
	Iop_Mul8
	Iop_Mul16
	Iop_Mul32
	Iop_Mul64
	Iop_MullS32
	Iop_MullU32
	Iop_MullS64
	Iop_MullU64

	Iop_And1
	Iop_And8
	Iop_And16
	Iop_And32
	Iop_And64
	Iop_Or8
	Iop_Or16
	Iop_Or32
	Iop_Or64
	Iop_Xor8
	Iop_Xor16
	Iop_Xor32
	Iop_Xor64

	Iop_Shl8
	Iop_Shl16
	Iop_Shl32
	Iop_Shl64
	Iop_Shr8
	Iop_Shr16
	Iop_Shr32
	Iop_Shr64
	Iop_Sar8
	Iop_Sar16
	Iop_Sar32
	Iop_Sar64

	Iop_CmpEQ8
	Iop_CmpEQ16
	Iop_CmpEQ32
	Iop_CmpEQ64
	Iop_CmpNE8
	Iop_CmpNE16
	Iop_CmpNE32
	Iop_CmpNE64
	Iop_CmpLT32S
	Iop_CmpLT64S
	Iop_CmpLE32S
	Iop_CmpLE64S
	Iop_CmpLT32U
	Iop_CmpLT64U
	Iop_CmpLE32U
	Iop_CmpLE64U

	Iop_DivModU128to64
	Iop_DivModS128to64
	Iop_DivU64
	Iop_DivS64
	Iop_DivU32
	Iop_DivS32

	// 128-bit concatenation, e.g. joining a {hi,lo} pair produced by a
	// double-width multiply/divide.
	Iop_64HLto128

	// Vector lanewise ops (first-milestone SSE2 subset, per SPEC_FULL.md §4).
	Iop_Add32Fx4
	Iop_Add64Fx2
	Iop_Sub32Fx4
	Iop_Sub64Fx2
	Iop_AndV128
	Iop_OrV128
	Iop_XorV128
	Iop_Add8x16
	Iop_Add16x8
	Iop_Add32x4
	Iop_Add64x2
)

type TriopOp uint16

const (
	Iop_INVALID_TRIOP TriopOp = iota

	// Rotate-through-carry style ops taking (value, amount, carry-in).
	Iop_RolC32
	Iop_RorC32
	Iop_RolC64
	Iop_RorC64
)

type QopOp uint16

const (
	Iop_INVALID_QOP QopOp = iota

	// Signed 128-bit divide decomposed as (hi, lo, divisor, unused) ->
	// quotient, resolving spec.md §9's open question about IDIV/IMUL
	// 128-bit sign handling explicitly rather than reusing an unsigned op.
	Iop_DivS128to64
	Iop_ModS128to64
)

// unopSig describes the fixed signature of a UnopOp: it consumes a value of
// Arg and produces a value of Ret.
type unopSig struct {
	Arg, Ret Type
}

var unopSigs = map[UnopOp]unopSig{
	Iop_Not1:  {Ity_I1, Ity_I1},
	Iop_Not8:  {Ity_I8, Ity_I8},
	Iop_Not16: {Ity_I16, Ity_I16},
	Iop_Not32: {Ity_I32, Ity_I32},
	Iop_Not64: {Ity_I64, Ity_I64},

	Iop_Neg8:  {Ity_I8, Ity_I8},
	Iop_Neg16: {Ity_I16, Ity_I16},
	Iop_Neg32: {Ity_I32, Ity_I32},
	Iop_Neg64: {Ity_I64, Ity_I64},

	Iop_1Uto8:  {Ity_I1, Ity_I8},
	Iop_1Uto32: {Ity_I1, Ity_I32},
	Iop_1Uto64: {Ity_I1, Ity_I64},
	Iop_1Sto8:  {Ity_I1, Ity_I8},
	Iop_1Sto16: {Ity_I1, Ity_I16},
	Iop_1Sto32: {Ity_I1, Ity_I32},
	Iop_1Sto64: {Ity_I1, Ity_I64},

	Iop_8Uto16: {Ity_I8, Ity_I16},
	Iop_8Uto32: {Ity_I8, Ity_I32},
	Iop_8Uto64: {Ity_I8, Ity_I64},
	Iop_8Sto16: {Ity_I8, Ity_I16},
	Iop_8Sto32: {Ity_I8, Ity_I32},
	Iop_8Sto64: {Ity_I8, Ity_I64},

	Iop_16Uto32: {Ity_I16, Ity_I32},
	Iop_16Uto64: {Ity_I16, Ity_I64},
	Iop_16Sto32: {Ity_I16, Ity_I32},
	Iop_16Sto64: {Ity_I16, Ity_I64},

	Iop_32Uto64: {Ity_I32, Ity_I64},
	Iop_32Sto64: {Ity_I32, Ity_I64},

	Iop_64to8:  {Ity_I64, Ity_I8},
	Iop_64to16: {Ity_I64, Ity_I16},
	Iop_64to32: {Ity_I64, Ity_I32},
	Iop_32to8:  {Ity_I32, Ity_I8},
	Iop_32to16: {Ity_I32, Ity_I16},
	Iop_16to8:  {Ity_I16, Ity_I8},
	Iop_64to1:  {Ity_I64, Ity_I1},
	Iop_32to1:  {Ity_I32, Ity_I1},

	Iop_ZeroExt8to32:  {Ity_I8, Ity_I32},
	Iop_ZeroExt8to64:  {Ity_I8, Ity_I64},
	Iop_ZeroExt16to32: {Ity_I16, Ity_I32},
	Iop_ZeroExt16to64: {Ity_I16, Ity_I64},
	Iop_ZeroExt32to64: {Ity_I32, Ity_I64},
	Iop_SignExt8to32:  {Ity_I8, Ity_I32},
	Iop_SignExt8to64:  {Ity_I8, Ity_I64},
	Iop_SignExt16to32: {Ity_I16, Ity_I32},
	Iop_SignExt16to64: {Ity_I16, Ity_I64},
	Iop_SignExt32to64: {Ity_I32, Ity_I64},

	Iop_Clz64: {Ity_I64, Ity_I64},
	Iop_Clz32: {Ity_I32, Ity_I32},
	Iop_Ctz64: {Ity_I64, Ity_I64},
	Iop_Ctz32: {Ity_I32, Ity_I32},

	Iop_128HIto64: {Ity_I128, Ity_I64},
	Iop_128to64:   {Ity_I128, Ity_I64},

	Iop_NotV128: {Ity_V128, Ity_V128},
	Iop_NotV256: {Ity_V256, Ity_V256},

	Iop_V128to64low: {Ity_V128, Ity_I64},
	Iop_64UtoV128:   {Ity_I64, Ity_V128},
}

// binopSig describes the fixed signature of a BinopOp.
type binopSig struct {
	A, B, Ret Type
}

var binopSigs = map[BinopOp]binopSig{
	Iop_Add8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_Add16: {Ity_I16, Ity_I16, Ity_I16},
	Iop_Add32: {Ity_I32, Ity_I32, Ity_I32},
	Iop_Add64: {Ity_I64, Ity_I64, Ity_I64},
	Iop_Sub8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_Sub16: {Ity_I16, Ity_I16, Ity_I16},
	Iop_Sub32: {Ity_I32, Ity_I32, Ity_I32},
	Iop_Sub64: {Ity_I64, Ity_I64, Ity_I64},
	Iop_Mul8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_Mul16: {Ity_I16, Ity_I16, Ity_I16},
	Iop_Mul32: {Ity_I32, Ity_I32, Ity_I32},
	Iop_Mul64: {Ity_I64, Ity_I64, Ity_I64},

	Iop_MullS32: {Ity_I32, Ity_I32, Ity_I64},
	Iop_MullU32: {Ity_I32, Ity_I32, Ity_I64},
	Iop_MullS64: {Ity_I64, Ity_I64, Ity_I128},
	Iop_MullU64: {Ity_I64, Ity_I64, Ity_I128},

	Iop_And1:  {Ity_I1, Ity_I1, Ity_I1},
	Iop_And8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_And16: {Ity_I16, Ity_I16, Ity_I16},
	Iop_And32: {Ity_I32, Ity_I32, Ity_I32},
	Iop_And64: {Ity_I64, Ity_I64, Ity_I64},
	Iop_Or8:   {Ity_I8, Ity_I8, Ity_I8},
	Iop_Or16:  {Ity_I16, Ity_I16, Ity_I16},
	Iop_Or32:  {Ity_I32, Ity_I32, Ity_I32},
	Iop_Or64:  {Ity_I64, Ity_I64, Ity_I64},
	Iop_Xor8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_Xor16: {Ity_I16, Ity_I16, Ity_I16},
	Iop_Xor32: {Ity_I32, Ity_I32, Ity_I32},
	Iop_Xor64: {Ity_I64, Ity_I64, Ity_I64},

	Iop_Shl8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_Shl16: {Ity_I16, Ity_I8, Ity_I16},
	Iop_Shl32: {Ity_I32, Ity_I8, Ity_I32},
	Iop_Shl64: {Ity_I64, Ity_I8, Ity_I64},
	Iop_Shr8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_Shr16: {Ity_I16, Ity_I8, Ity_I16},
	Iop_Shr32: {Ity_I32, Ity_I8, Ity_I32},
	Iop_Shr64: {Ity_I64, Ity_I8, Ity_I64},
	Iop_Sar8:  {Ity_I8, Ity_I8, Ity_I8},
	Iop_Sar16: {Ity_I16, Ity_I8, Ity_I16},
	Iop_Sar32: {Ity_I32, Ity_I8, Ity_I32},
	Iop_Sar64: {Ity_I64, Ity_I8, Ity_I64},

	Iop_CmpEQ8:  {Ity_I8, Ity_I8, Ity_I1},
	Iop_CmpEQ16: {Ity_I16, Ity_I16, Ity_I1},
	Iop_CmpEQ32: {Ity_I32, Ity_I32, Ity_I1},
	Iop_CmpEQ64: {Ity_I64, Ity_I64, Ity_I1},
	Iop_CmpNE8:  {Ity_I8, Ity_I8, Ity_I1},
	Iop_CmpNE16: {Ity_I16, Ity_I16, Ity_I1},
	Iop_CmpNE32: {Ity_I32, Ity_I32, Ity_I1},
	Iop_CmpNE64: {Ity_I64, Ity_I64, Ity_I1},

	Iop_CmpLT32S: {Ity_I32, Ity_I32, Ity_I1},
	Iop_CmpLT64S: {Ity_I64, Ity_I64, Ity_I1},
	Iop_CmpLE32S: {Ity_I32, Ity_I32, Ity_I1},
	Iop_CmpLE64S: {Ity_I64, Ity_I64, Ity_I1},
	Iop_CmpLT32U: {Ity_I32, Ity_I32, Ity_I1},
	Iop_CmpLT64U: {Ity_I64, Ity_I64, Ity_I1},
	Iop_CmpLE32U: {Ity_I32, Ity_I32, Ity_I1},
	Iop_CmpLE64U: {Ity_I64, Ity_I64, Ity_I1},

	Iop_DivModU128to64: {Ity_I128, Ity_I64, Ity_I128},
	Iop_DivModS128to64: {Ity_I128, Ity_I64, Ity_I128},
	Iop_DivU64:         {Ity_I64, Ity_I64, Ity_I64},
	Iop_DivS64:         {Ity_I64, Ity_I64, Ity_I64},
	Iop_DivU32:         {Ity_I32, Ity_I32, Ity_I32},
	Iop_DivS32:         {Ity_I32, Ity_I32, Ity_I32},

	Iop_64HLto128: {Ity_I64, Ity_I64, Ity_I128},

	Iop_Add32Fx4: {Ity_V128, Ity_V128, Ity_V128},
	Iop_Add64Fx2: {Ity_V128, Ity_V128, Ity_V128},
	Iop_Sub32Fx4: {Ity_V128, Ity_V128, Ity_V128},
	Iop_Sub64Fx2: {Ity_V128, Ity_V128, Ity_V128},
	Iop_AndV128:  {Ity_V128, Ity_V128, Ity_V128},
	Iop_OrV128:   {Ity_V128, Ity_V128, Ity_V128},
	Iop_XorV128:  {Ity_V128, Ity_V128, Ity_V128},
	Iop_Add8x16:  {Ity_V128, Ity_V128, Ity_V128},
	Iop_Add16x8:  {Ity_V128, Ity_V128, Ity_V128},
	Iop_Add32x4:  {Ity_V128, Ity_V128, Ity_V128},
	Iop_Add64x2:  {Ity_V128, Ity_V128, Ity_V128},
}

// triopSig describes the fixed signature of a TriopOp.
type triopSig struct {
	A, B, C, Ret Type
}

var triopSigs = map[TriopOp]triopSig{
	Iop_RolC32: {Ity_I32, Ity_I8, Ity_I1, Ity_I32},
	Iop_RorC32: {Ity_I32, Ity_I8, Ity_I1, Ity_I32},
	Iop_RolC64: {Ity_I64, Ity_I8, Ity_I1, Ity_I64},
	Iop_RorC64: {Ity_I64, Ity_I8, Ity_I1, Ity_I64},
}

// qopSig describes the fixed signature of a QopOp.
type qopSig struct {
	A, B, C, D, Ret Type
}

var qopSigs = map[QopOp]qopSig{
	Iop_DivS128to64: {Ity_I64, Ity_I64, Ity_I64, Ity_I1, Ity_I64},
	Iop_ModS128to64: {Ity_I64, Ity_I64, Ity_I64, Ity_I1, Ity_I64},
}
