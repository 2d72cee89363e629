package block_test

import (
	"testing"

	"github.com/decomp/vexlift/block"
	"github.com/decomp/vexlift/guest/amd64"
	"github.com/decomp/vexlift/ir"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// mov rbx, rax; je +1; ret  -- stops after ret, a genuine terminator; the
// intervening Jcc does not end the block (spec.md §8 E5).
func TestLiftBlockStopsAtTerminator(t *testing.T) {
	buf := []byte{
		0x48, 0x89, 0xC3, // mov rbx, rax
		0x74, 0x01, // je +1
		0xC3, // ret
	}
	irsb, consumed := block.LiftBlock(buf, 0x1000, block.DefaultBudgets(), amd64.Schema)
	assert(t, consumed == len(buf), "expected to consume all %d bytes, got %d", len(buf), consumed)
	assert(t, irsb.Jump == ir.Ijk_Ret, "expected block to terminate on ret, got %v", irsb.Jump)
}

// Two independent blocks decoding the same bytes at the same address must
// lift to the same statement count (determinism, spec.md §4.1).
func TestLiftBlockDeterministic(t *testing.T) {
	buf := []byte{0x48, 0x01, 0xC3, 0xC3} // add rbx, rax; ret
	a, consumedA := block.LiftBlock(buf, 0x2000, block.DefaultBudgets(), amd64.Schema)
	b, consumedB := block.LiftBlock(buf, 0x2000, block.DefaultBudgets(), amd64.Schema)
	assert(t, consumedA == consumedB, "expected equal bytesConsumed")
	assert(t, len(a.Stmts()) == len(b.Stmts()), "expected equal statement counts, got %d vs %d", len(a.Stmts()), len(b.Stmts()))
}

// An instruction budget of 1 stops the block after a single mov, even
// though more valid bytes follow.
func TestLiftBlockInstructionBudget(t *testing.T) {
	buf := []byte{
		0x48, 0x89, 0xC3, // mov rbx, rax
		0x48, 0x89, 0xC3, // mov rbx, rax
	}
	budgets := block.Budgets{MaxInstructions: 1, MaxBytes: 500}
	_, consumed := block.LiftBlock(buf, 0x1000, budgets, amd64.Schema)
	assert(t, consumed == 3, "expected exactly 3 bytes consumed, got %d", consumed)
}

// A byte budget that the next instruction would overrun stops the block
// before lifting it: the instruction is decoded, found not to fit, and
// left out.
func TestLiftBlockByteBudget(t *testing.T) {
	buf := []byte{
		0x48, 0x89, 0xC3, // mov rbx, rax (3 bytes)
		0x48, 0x89, 0xC3, // mov rbx, rax (3 bytes)
	}
	budgets := block.Budgets{MaxInstructions: 50, MaxBytes: 4}
	_, consumed := block.LiftBlock(buf, 0x1000, budgets, amd64.Schema)
	assert(t, consumed == 3, "expected 3 bytes consumed (second instruction doesn't fit), got %d", consumed)
}

// An unknown opcode at offset 0 yields an empty block, never an error.
func TestLiftBlockUnknownOpcodeYieldsEmptyBlock(t *testing.T) {
	buf := []byte{0x0F, 0xFF} // unassigned two-byte opcode cell
	irsb, consumed := block.LiftBlock(buf, 0x3000, block.DefaultBudgets(), amd64.Schema)
	assert(t, consumed == 0, "expected 0 bytes consumed, got %d", consumed)
	assert(t, len(irsb.Stmts()) == 0, "expected no statements, got %d", len(irsb.Stmts()))
}

// Zero-length input yields an empty block.
func TestLiftBlockEmptyInput(t *testing.T) {
	irsb, consumed := block.LiftBlock(nil, 0x1000, block.DefaultBudgets(), amd64.Schema)
	assert(t, consumed == 0, "expected 0 bytes consumed, got %d", consumed)
	assert(t, len(irsb.Stmts()) == 0, "expected no statements, got %d", len(irsb.Stmts()))
}
