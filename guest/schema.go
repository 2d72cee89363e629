// Package guest defines the contract the lifter requires from a
// per-architecture guest-state schema: a compile-time-constant table
// mapping register names to (offset, type) pairs, plus the precise-memory-
// exception query used for stack/frame/instruction-pointer ranges.
package guest

import (
	"fmt"

	"github.com/decomp/vexlift/ir"
)

// UnknownRegister reports a guest-state schema lookup miss: a register name
// with no entry in the architecture's table. Per spec.md §7 this is a
// programmer error (the decoder never hands the lifter a register name the
// schema doesn't know about for a well-formed decode), so it is raised as a
// panic rather than threaded through every call site as an error return.
type UnknownRegister struct {
	Name string
}

func (e *UnknownRegister) Error() string {
	return fmt.Sprintf("guest: unknown register %q", e.Name)
}

// Schema is the external contract a concrete per-architecture register file
// exposes to the lifter (spec.md §6). Implementations are immutable value
// objects, safely shared across concurrent liftBlock calls.
type Schema interface {
	// OffsetOf returns the byte offset of name within guest state. Panics
	// with *UnknownRegister if name is not in the table.
	OffsetOf(name string) int
	// TypeOf returns the IR type of name's value. Panics with
	// *UnknownRegister if name is not in the table.
	TypeOf(name string) ir.Type
	// RequiresPreciseExceptions reports whether any guest-state range
	// overlapping [lo, hi) (stack pointer, frame pointer, instruction
	// pointer) requires the conservative path for memory accesses that
	// alias it.
	RequiresPreciseExceptions(lo, hi int) bool
	// AddrType is the guest word size (Ity_I32 or Ity_I64) that LoadLE,
	// StoreLE and Exit targets must use for this architecture.
	AddrType() ir.Type
}
