// Package dbgutil provides the package-level debug logger shared by
// decode, lift and block: a single colorized stream, silenced unless
// VEXLIFT_DEBUG is set, mirroring the "dbg" logger convention seen across
// the decomp/mewmew family of tools (e.g. disasm-x86's
// log.New(os.Stderr, term.MagentaBold("dbg:")+" ", 0)).
package dbgutil

import (
	"io"
	"log"
	"os"

	"github.com/mewkiz/pkg/term"
)

// Dbg logs one line per translated instruction or block; it writes to
// os.Stderr with a colored "dbg:" prefix when VEXLIFT_DEBUG is set in the
// environment, and discards everything otherwise.
var Dbg = newLogger()

func newLogger() *log.Logger {
	w := io.Writer(io.Discard)
	if os.Getenv("VEXLIFT_DEBUG") != "" {
		w = os.Stderr
	}
	return log.New(w, term.MagentaBold("dbg:")+" ", 0)
}
