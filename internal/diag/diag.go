// Package diag implements BetLang's diagnostic bus: a structured,
// span-carrying error-reporting channel shared by every front-end stage
// so that an editor (an external collaborator, out of scope here) can
// show many problems at once instead of stopping at the first.
package diag

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aledsdavies/betlang/internal/source"
)

// Severity classifies a diagnostic for display and exit-code purposes.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Kind is one of the closed set of error kinds from spec §7, namespaced
// by the stage that raises it. The set is closed deliberately: adding a
// new kind here is a spec change, not a runtime decision.
type Kind string

const (
	KindLexUnterminatedString Kind = "Lex.UnterminatedString"
	KindLexBadEscape          Kind = "Lex.BadEscape"
	KindLexInvalidChar        Kind = "Lex.InvalidChar"

	KindParseUnexpected Kind = "Parse.Unexpected"
	KindParseExpected   Kind = "Parse.Expected"

	KindNameUnbound Kind = "Name.Unbound"

	KindArityMismatch Kind = "Arity.Mismatch"
	KindTypeMismatch  Kind = "Type.Mismatch"

	KindPatternNonExhaustive Kind = "Pattern.NonExhaustive"

	KindDutchBookViolation Kind = "DutchBook.Violation"

	KindProbabilityOutOfRange     Kind = "Probability.OutOfRange"
	KindProbabilityNegativeWeight Kind = "Probability.NegativeWeight"
	KindProbabilityZeroTotal      Kind = "Probability.ZeroTotal"

	KindRiskStakeUnsafe    Kind = "Risk.StakeUnsafe"
	KindRiskKellyExceeded  Kind = "Risk.KellyExceeded"
	KindCoolOffActive      Kind = "CoolOff.Active"
	KindNumericDomainError Kind = "Numeric.DomainError"
	KindNumericTotalConflict Kind = "Numeric.TotalConflict"
	KindEvalAborted        Kind = "Eval.Aborted"
)

// Diagnostic is a single structured report: severity, closed-set kind,
// human-readable message, primary span, and optional context.
type Diagnostic struct {
	ID            string   `json:"id"`
	Severity      Severity `json:"severity"`
	Kind          Kind     `json:"kind"`
	Message       string   `json:"message"`
	Primary       source.Span `json:"primary"`
	Secondary     []source.Span `json:"secondary,omitempty"`
	Remediation   string   `json:"remediation,omitempty"`
	RemainingSecs float64  `json:"remaining_seconds,omitempty"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Primary, d.Severity, d.Message, d.Kind)
}

// New builds a Diagnostic, stamping it with a fresh correlation id so
// external consumers (an LSP, a CI annotator) can reference one entry
// across a session without re-deriving identity from message text.
func New(sev Severity, kind Kind, span source.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		ID:       uuid.NewString(),
		Severity: sev,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	}
}

// WithRemediation attaches a human-readable hint, used for CoolOff.Active
// so callers can present a countdown (spec §7).
func (d Diagnostic) WithRemediation(hint string, remainingSecs float64) Diagnostic {
	d.Remediation = hint
	d.RemainingSecs = remainingSecs
	return d
}

// WithSecondary attaches secondary spans (e.g. the opening bracket that
// an unmatched closing bracket should be compared against).
func (d Diagnostic) WithSecondary(spans ...source.Span) Diagnostic {
	d.Secondary = append(d.Secondary, spans...)
	return d
}

// Bus accumulates diagnostics across a pipeline run. Front-end stages
// (lex/parse/name-resolution/arity/compile-time Dutch-book) append to a
// shared Bus and keep going past the first failure, per spec §7;
// evaluation errors are fatal to the current run and are returned
// directly rather than pushed here.
type Bus struct {
	entries []Diagnostic
}

// NewBus returns an empty diagnostic bus.
func NewBus() *Bus { return &Bus{} }

// Add appends a diagnostic to the bus.
func (b *Bus) Add(d Diagnostic) { b.entries = append(b.entries, d) }

// Errorf is a convenience that builds and appends an Error-severity
// diagnostic.
func (b *Bus) Errorf(kind Kind, span source.Span, format string, args ...interface{}) {
	b.Add(New(Error, kind, span, format, args...))
}

// Warnf is a convenience that builds and appends a Warning-severity
// diagnostic (e.g. Pattern.NonExhaustive, which is advisory by default).
func (b *Bus) Warnf(kind Kind, span source.Span, format string, args ...interface{}) {
	b.Add(New(Warning, kind, span, format, args...))
}

// All returns every diagnostic accumulated so far, in emission order.
func (b *Bus) All() []Diagnostic { return b.entries }

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (b *Bus) HasErrors() bool {
	for _, d := range b.entries {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Reset discards all accumulated diagnostics.
func (b *Bus) Reset() { b.entries = nil }
