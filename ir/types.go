// Package ir implements the typed, side-effect-free intermediate
// representation that the decoder and lifter target: a small expression
// algebra over guest state and guest memory, and a small imperative
// statement language wrapping it, modeled after VEX IR.
package ir

import "fmt"

// Type is one of the closed set of IR value types. Every expression has
// exactly one Type, determinable statically.
type Type uint8

const (
	Ity_INVALID Type = iota
	Ity_I1
	Ity_I8
	Ity_I16
	Ity_I32
	Ity_I64
	Ity_I128
	Ity_F32
	Ity_F64
	Ity_V128
	Ity_V256
	Ity_V512
)

func (t Type) String() string {
	switch t {
	case Ity_I1:
		return "I1"
	case Ity_I8:
		return "I8"
	case Ity_I16:
		return "I16"
	case Ity_I32:
		return "I32"
	case Ity_I64:
		return "I64"
	case Ity_I128:
		return "I128"
	case Ity_F32:
		return "F32"
	case Ity_F64:
		return "F64"
	case Ity_V128:
		return "V128"
	case Ity_V256:
		return "V256"
	case Ity_V512:
		return "V512"
	default:
		return fmt.Sprintf("Ity_INVALID(%d)", uint8(t))
	}
}

// SizeInBits reports the width of a value of type t, in bits. Panics for
// Ity_INVALID since no well-typed expression ever carries that type.
func (t Type) SizeInBits() int {
	switch t {
	case Ity_I1:
		return 1
	case Ity_I8:
		return 8
	case Ity_I16:
		return 16
	case Ity_I32:
		return 32
	case Ity_I64:
		return 64
	case Ity_I128:
		return 128
	case Ity_F32:
		return 32
	case Ity_F64:
		return 64
	case Ity_V128:
		return 128
	case Ity_V256:
		return 256
	case Ity_V512:
		return 512
	default:
		panic(fmt.Errorf("ir: SizeInBits of invalid type %v", t))
	}
}

// SizeInBytes reports the width of a value of type t, in bytes.
func (t Type) SizeInBytes() int {
	bits := t.SizeInBits()
	return (bits + 7) / 8
}

// IsInteger reports whether t is one of the integer widths.
func (t Type) IsInteger() bool {
	switch t {
	case Ity_I1, Ity_I8, Ity_I16, Ity_I32, Ity_I64, Ity_I128:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is one of the floating-point widths.
func (t Type) IsFloat() bool {
	return t == Ity_F32 || t == Ity_F64
}

// IsVector reports whether t is one of the vector widths.
func (t Type) IsVector() bool {
	switch t {
	case Ity_V128, Ity_V256, Ity_V512:
		return true
	default:
		return false
	}
}
