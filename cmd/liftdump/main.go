// Command liftdump loads the .text section of a PE image and dumps the IR
// super-blocks vexlift lifts from it, one per budgeted chunk, using
// kr/pretty for the dump format (the teacher's own choice for inspecting
// decoded structures, cmd/bin2ll/ll.go's useArg/defArg diagnostics).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decomp/vexlift/block"
	"github.com/decomp/vexlift/guest/amd64"
	"github.com/decomp/vexlift/internal/dbgutil"
	"github.com/kr/pretty"
	"github.com/mewrev/pe"
	"github.com/pkg/errors"
)

func main() {
	addr := flag.Uint64("addr", 0x400000, "base virtual address to report for the .text section's first byte")
	maxBlocks := flag.Int("max-blocks", 0, "stop after this many blocks (0 = until .text is exhausted)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: liftdump <pe-file>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *addr, *maxBlocks); err != nil {
		fmt.Fprintf(os.Stderr, "liftdump: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, baseAddr uint64, maxBlocks int) error {
	text, err := readTextSection(path)
	if err != nil {
		return errors.WithStack(err)
	}

	budgets := block.DefaultBudgets()
	pos := 0
	for i := 0; (maxBlocks == 0 || i < maxBlocks) && pos < len(text); i++ {
		irsb, consumed := block.LiftBlock(text[pos:], baseAddr+uint64(pos), budgets, amd64.Schema)
		if consumed == 0 {
			dbgutil.Dbg.Printf("liftdump: stopping at +%d, no instruction decoded", pos)
			break
		}
		fmt.Printf("=== block %d at 0x%x (%d bytes) ===\n", i, baseAddr+uint64(pos), consumed)
		for _, st := range irsb.Stmts() {
			pretty.Println(st)
		}
		fmt.Printf("next: %# v  jumpKind: %v\n\n", pretty.Formatter(irsb.Next), irsb.Jump)
		pos += consumed
	}
	return nil
}

// readTextSection loads the raw bytes of a PE image's .text section,
// adapting the teacher's bin2asm/header.go flow (pe.Open + SectHeaders) from
// dumping the header as NASM source into handing real code bytes to the
// block driver.
func readTextSection(path string) ([]byte, error) {
	file, err := pe.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	sectHdrs, err := file.SectHeaders()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var textHdr *pe.SectHeader
	for i := range sectHdrs {
		if sectHdrs[i].Name == ".text" {
			textHdr = &sectHdrs[i]
			break
		}
	}
	if textHdr == nil {
		return nil, errors.New("readTextSection: no .text section")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	start := textHdr.Offset
	end := start + textHdr.RawSize
	if end > uint32(len(raw)) {
		return nil, errors.Errorf("readTextSection: .text section [%d,%d) out of file bounds (%d bytes)", start, end, len(raw))
	}
	return raw[start:end], nil
}
