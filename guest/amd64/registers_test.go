package amd64

import (
	"testing"

	"github.com/decomp/vexlift/ir"
)

func TestAliasingSharesOffset(t *testing.T) {
	if Schema.OffsetOf("rax") != Schema.OffsetOf("eax") {
		t.Fatalf("rax/eax must share an offset")
	}
	if Schema.OffsetOf("eax") != Schema.OffsetOf("ax") {
		t.Fatalf("eax/ax must share an offset")
	}
	if Schema.TypeOf("eax") != ir.Ity_I32 {
		t.Fatalf("eax must be I32, got %v", Schema.TypeOf("eax"))
	}
	if Schema.TypeOf("ax") != ir.Ity_I16 {
		t.Fatalf("ax must be I16, got %v", Schema.TypeOf("ax"))
	}
}

func TestAHAliasesSecondByte(t *testing.T) {
	if Schema.OffsetOf("ah") != Schema.OffsetOf("al")+1 {
		t.Fatalf("ah must alias the second byte of al's slot")
	}
}

func TestR8ThroughR15(t *testing.T) {
	want := OffR8
	for _, name := range []string{"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"} {
		if Schema.OffsetOf(name) != want {
			t.Fatalf("%s: want offset %d, got %d", name, want, Schema.OffsetOf(name))
		}
		if Schema.OffsetOf(name+"d") != want {
			t.Fatalf("%sd must alias %s", name, name)
		}
		want += 8
	}
}

func TestPreciseExceptionRanges(t *testing.T) {
	if !Schema.RequiresPreciseExceptions(OffRSP, OffRSP+8) {
		t.Fatalf("rsp range must require precise exceptions")
	}
	if !Schema.RequiresPreciseExceptions(OffRSP-4, OffRSP+4) {
		t.Fatalf("overlap with rsp range must require precise exceptions")
	}
	if Schema.RequiresPreciseExceptions(OffRAX, OffRAX+8) {
		t.Fatalf("rax range must not require precise exceptions")
	}
}

func TestUnknownRegisterPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic for unknown register")
		}
	}()
	Schema.OffsetOf("not_a_register")
}

func TestCCOpEnumerationOrder(t *testing.T) {
	if CC_Copy != 0 {
		t.Fatalf("CC_Copy must be 0, got %d", CC_Copy)
	}
	if CC_AddB != CC_Copy+1 {
		t.Fatalf("CC_AddB must immediately follow CC_Copy")
	}
	if CC_SubB != CC_AddQ+1 {
		t.Fatalf("CC_SubB must immediately follow the AddB/W/L/Q family")
	}
	if CC_LogicB != CC_SubQ+1 {
		t.Fatalf("CC_LogicB must immediately follow the SubB/W/L/Q family")
	}
}
