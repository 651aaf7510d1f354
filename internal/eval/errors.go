package eval

import (
	"fmt"

	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/ir"
)

// Error is a runtime evaluation failure, carrying the same closed
// diagnostic Kind set the front end uses so the driver can render it
// identically regardless of which stage raised it (spec §7).
type Error struct {
	Node      ir.Node // the node being evaluated when the error occurred, for its span
	Diag      diag.Kind
	Msg       string
	Remaining float64 // seconds remaining, set only for a CoolOff.Active error
}

func (e *Error) Error() string { return e.Msg }

func newError(n ir.Node, kind diag.Kind, format string, args ...interface{}) *Error {
	return &Error{Node: n, Diag: kind, Msg: fmt.Sprintf(format, args...)}
}

// errStepLimitExceeded is returned once a step-limited evaluation (spec
// §6's `--limit STEPS`) dispatches more Eval calls than its budget
// allows.
var errStepLimitExceeded = &Error{Diag: diag.KindEvalAborted, Msg: "eval: step limit exceeded"}
