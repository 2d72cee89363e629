package ir

// TempId is a dense, allocation-order integer identifier for a temporary.
type TempId int

// IRSB is a super-block: a straight-line sequence of IR statements modeling
// one decoded basic block, terminated by a typed exit. It is created empty
// by the block driver, mutated append-only by the lifter, then handed to
// downstream consumers as read-only data. Temps live for the block only.
type IRSB struct {
	// Arch names the guest architecture this block was lifted for, e.g.
	// "amd64". Used only for diagnostics.
	Arch string
	// AddrTy is the guest word size: the type every LoadLE/StoreLE address
	// and every Exit target must carry.
	AddrTy Type

	stmts       []Stmt
	tempTypes   []Type
	tempDefined []bool
	sawIMark    bool

	// Next is the fall-through/computed target expression evaluated when
	// the block ends without an Exit having fired.
	Next Expr
	// Jump classifies Next's transfer.
	Jump JumpKind
}

// NewIRSB creates an empty super-block for a guest whose addresses are
// addrTy-wide (Ity_I32 or Ity_I64 in practice).
func NewIRSB(arch string, addrTy Type) *IRSB {
	return &IRSB{Arch: arch, AddrTy: addrTy, Jump: Ijk_Boring}
}

// NewTemp allocates a fresh temporary of type ty and returns its id. Temp
// ids are dense and assigned in allocation order, so TypeOf is O(1).
func (s *IRSB) NewTemp(ty Type) TempId {
	if ty == Ity_INVALID {
		typeErrorf("IRSB.NewTemp", "invalid temp type")
	}
	id := TempId(len(s.tempTypes))
	s.tempTypes = append(s.tempTypes, ty)
	s.tempDefined = append(s.tempDefined, false)
	return id
}

// TypeOf returns the static type of temp t. O(1).
func (s *IRSB) TypeOf(t TempId) Type {
	if int(t) < 0 || int(t) >= len(s.tempTypes) {
		invariantViolationf("TypeOf: temp %d out of range", t)
	}
	return s.tempTypes[t]
}

// RdTmp builds an RdTmp expression reading temp t, caching its type from
// the temp table.
func (s *IRSB) RdTmp(t TempId) *RdTmp {
	return &RdTmp{Tmp: t, Ty: s.TypeOf(t)}
}

// NumTemps reports how many temps have been allocated so far.
func (s *IRSB) NumTemps() int { return len(s.tempTypes) }

// Stmts returns the statement stream in program order. Callers must treat
// the returned slice as read-only.
func (s *IRSB) Stmts() []Stmt { return s.stmts }

// Add appends stmt to the statement stream, enforcing invariants 1-3 from
// spec.md §3: well-typed RdTmp references, single-assignment of temps, and
// IMark-first coverage. Violations panic with *InvariantViolation or
// *IrTypeError, per spec.md §7 (these are programmer errors, not malformed
// guest-program conditions).
func (s *IRSB) Add(stmt Stmt) {
	if _, ok := stmt.(*IMark); !ok && !s.sawIMark {
		invariantViolationf("statement %T emitted before any IMark", stmt)
	}
	switch st := stmt.(type) {
	case *IMark:
		s.sawIMark = true
	case *Put:
		s.checkExpr(st.Value)
	case *WrTmp:
		s.defineTemp(st.Tmp, st.Value)
	case *StoreLE:
		s.checkExpr(st.Addr)
		s.checkExpr(st.Value)
		if st.Addr.Type() != s.AddrTy {
			typeErrorf("IRSB.Add(StoreLE)", "address must be %v, got %v", s.AddrTy, st.Addr.Type())
		}
	case *Dirty:
		if st.Guard != nil {
			s.checkExpr(st.Guard)
			if st.Guard.Type() != Ity_I1 {
				typeErrorf("IRSB.Add(Dirty)", "guard must be I1, got %v", st.Guard.Type())
			}
		}
		for _, a := range st.Args {
			s.checkExpr(a)
		}
	case *Exit:
		s.checkExpr(st.Guard)
		if st.Target.Type() != s.AddrTy {
			typeErrorf("IRSB.Add(Exit)", "target must be %v, got %v", s.AddrTy, st.Target.Type())
		}
	default:
		invariantViolationf("unknown statement kind %T", stmt)
	}
	s.stmts = append(s.stmts, stmt)
}

func (s *IRSB) defineTemp(t TempId, value Expr) {
	if int(t) < 0 || int(t) >= len(s.tempDefined) {
		invariantViolationf("WrTmp of unallocated temp %d", t)
	}
	if s.tempDefined[t] {
		invariantViolationf("temp %d redefined (single-assignment violation)", t)
	}
	want := s.tempTypes[t]
	if value.Type() != want {
		typeErrorf("IRSB.Add(WrTmp)", "temp %d has type %v, value has type %v", t, want, value.Type())
	}
	s.checkExpr(value)
	s.tempDefined[t] = true
}

// checkExpr walks e recursively, verifying every embedded RdTmp refers to a
// temp that has already been defined by a prior WrTmp in this block
// (testable property 2 / invariant 2).
func (s *IRSB) checkExpr(e Expr) {
	switch x := e.(type) {
	case *Const, *Get:
		// leaves, nothing to check
	case *RdTmp:
		if int(x.Tmp) < 0 || int(x.Tmp) >= len(s.tempDefined) {
			invariantViolationf("RdTmp of unallocated temp %d", x.Tmp)
		}
		if !s.tempDefined[x.Tmp] {
			invariantViolationf("RdTmp of temp %d before its WrTmp", x.Tmp)
		}
	case *LoadLE:
		s.checkExpr(x.Addr)
		if x.Addr.Type() != s.AddrTy {
			typeErrorf("IRSB.checkExpr(LoadLE)", "address must be %v, got %v", s.AddrTy, x.Addr.Type())
		}
	case *Unop:
		s.checkExpr(x.Arg)
	case *Binop:
		s.checkExpr(x.A)
		s.checkExpr(x.B)
	case *Triop:
		s.checkExpr(x.A)
		s.checkExpr(x.B)
		s.checkExpr(x.C)
	case *Qop:
		s.checkExpr(x.A)
		s.checkExpr(x.B)
		s.checkExpr(x.C)
		s.checkExpr(x.D)
	case *ITE:
		s.checkExpr(x.Cond)
		s.checkExpr(x.Then)
		s.checkExpr(x.Else)
	case *CCall:
		for _, a := range x.Args {
			s.checkExpr(a)
		}
	default:
		invariantViolationf("unknown expression kind %T", e)
	}
}

// SetNext sets the block's fall-through/computed target and jump kind. The
// lifter calls it for JMP, CALL, RET, RETF and IRET, and for Jcc to record
// the not-taken fall-through; the SYSCALL and privileged/trap exits do not
// call it. Each call overwrites the previous one, so a terminator lifted
// after a Jcc in the same block replaces the Jcc's fall-through target.
func (s *IRSB) SetNext(next Expr, kind JumpKind) {
	if next.Type() != s.AddrTy {
		typeErrorf("IRSB.SetNext", "next must be %v, got %v", s.AddrTy, next.Type())
	}
	s.checkExpr(next)
	s.Next = next
	s.Jump = kind
}
