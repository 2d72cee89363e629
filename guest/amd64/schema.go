package amd64

import (
	"github.com/decomp/vexlift/guest"
	"github.com/decomp/vexlift/ir"
)

// Schema is the immutable AMD64 guest-state schema: a module-level
// constant value, safe to share across concurrently running liftBlock
// calls (spec.md §5).
var Schema guest.Schema = schema{}

type schema struct{}

func (schema) OffsetOf(name string) int {
	e, ok := registers[name]
	if !ok {
		panic(&guest.UnknownRegister{Name: name})
	}
	return e.offset
}

func (schema) TypeOf(name string) ir.Type {
	e, ok := registers[name]
	if !ok {
		panic(&guest.UnknownRegister{Name: name})
	}
	return e.ty
}

func (schema) RequiresPreciseExceptions(lo, hi int) bool {
	for _, r := range preciseRanges {
		if lo < r[1] && hi > r[0] {
			return true
		}
	}
	return false
}

func (schema) AddrType() ir.Type { return ir.Ity_I64 }
