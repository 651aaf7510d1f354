package elaborate

import (
	"errors"

	"github.com/aledsdavies/betlang/internal/source"
)

// errUnhandled is returned by transformExpr/transformApply/etc. once a
// diagnostic has already been pushed onto the bus; its text is never
// shown, it only signals "stop descending into this branch".
var errUnhandled = errors.New("elaboration error reported to bus")

var errBadRational = errors.New("malformed rational literal")

// source0 is the zero Span used for the single summary diagnostic
// Elaborate raises when the bus already holds the real, per-site
// errors.
func source0() source.Span { return source.Span{} }
