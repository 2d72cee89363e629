package amd64

import "github.com/decomp/vexlift/ir"

// CCOp tags the pending flag computation recorded in CC_OP (spec.md §4.2,
// §6). The enumeration order is normative: Copy is 0, then the AddB/W/L/Q,
// SubB/W/L/Q, LogicB/W/L/Q families in that order, matching the reference
// model this IR is interoperable with.
type CCOp uint32

const (
	CC_Copy CCOp = iota

	CC_AddB
	CC_AddW
	CC_AddL
	CC_AddQ

	CC_SubB
	CC_SubW
	CC_SubL
	CC_SubQ

	CC_LogicB
	CC_LogicW
	CC_LogicL
	CC_LogicQ

	CC_IncB
	CC_IncW
	CC_IncL
	CC_IncQ

	CC_DecB
	CC_DecW
	CC_DecL
	CC_DecQ

	CC_ShlB
	CC_ShlW
	CC_ShlL
	CC_ShlQ

	CC_ShrB
	CC_ShrW
	CC_ShrL
	CC_ShrQ

	// AdcB/W/L/Q and SbbB/W/L/Q carry a prior carry-in through CC_NDEP,
	// rather than through CC_DEP2 as Add/Sub do.
	CC_AdcB
	CC_AdcW
	CC_AdcL
	CC_AdcQ

	CC_SbbB
	CC_SbbW
	CC_SbbL
	CC_SbbQ

	// RolB/W/L/Q and RorB/W/L/Q: spec.md §9 flags the source's habit of
	// dropping flag updates on shift/rotate as a divergence from the lazy
	// discipline it otherwise mandates; these two families close that gap
	// for rotates the way ShlB/ShrB already do for shifts.
	CC_RolB
	CC_RolW
	CC_RolL
	CC_RolQ

	CC_RorB
	CC_RorW
	CC_RorL
	CC_RorQ
)

// opWidth is the operand width (in IR type terms) a CCOp family operates
// at, keyed by the family's *B member; W/L/Q add 1/2/3 to the enum value.
func opWidth(op CCOp) ir.Type {
	switch {
	case op == CC_Copy:
		return ir.Ity_I64
	default:
		mod := (op - CC_AddB) % 4
		switch mod {
		case 0:
			return ir.Ity_I8
		case 1:
			return ir.Ity_I16
		case 2:
			return ir.Ity_I32
		default:
			return ir.Ity_I64
		}
	}
}

// FlagBit selects which status flag a re-derivation expression targets.
type FlagBit uint8

const (
	FlagZ FlagBit = iota
	FlagS
	FlagC
	FlagO
	FlagP
	FlagA
)
