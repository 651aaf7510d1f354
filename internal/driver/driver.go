// Package driver wires the front end (lex/parse/elaborate), the
// evaluator, and the safety kernel into the handful of entry points the
// CLI and REPL call: Run, RunWithSafety, Check, and the embedded-use trio
// Parse/Elaborate/Evaluate, grounded on the teacher's cli/main.go
// pipeline-composition style (lex -> parse -> plan -> execute) adapted
// to BetLang's own four stages.
package driver

import (
	"time"

	"github.com/aledsdavies/betlang/internal/ast"
	"github.com/aledsdavies/betlang/internal/config"
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/elaborate"
	"github.com/aledsdavies/betlang/internal/eval"
	"github.com/aledsdavies/betlang/internal/ir"
	"github.com/aledsdavies/betlang/internal/parser"
	"github.com/aledsdavies/betlang/internal/prng"
	"github.com/aledsdavies/betlang/internal/safety"
	"github.com/aledsdavies/betlang/internal/source"
)

// ExitCode mirrors spec §6's process exit convention.
type ExitCode int

const (
	ExitSuccess       ExitCode = 0
	ExitEvalError     ExitCode = 1
	ExitFrontendError ExitCode = 2
	ExitUsageError    ExitCode = 64
)

// Result is the outcome of a full Run.
type Result struct {
	Value       eval.Value
	Diagnostics []diag.Diagnostic
	ExitCode    ExitCode
}

// Parse lexes and parses file/text, returning the AST and every
// diagnostic raised (front-end errors never stop the whole pipeline
// from reporting more than one problem at once).
func Parse(file, text string) (*ast.Program, *source.Map, []diag.Diagnostic) {
	return parser.Parse(file, text)
}

// Elaborate lowers prog into its IR, reporting into bus.
func Elaborate(prog *ast.Program, bus *diag.Bus) (*ir.Program, error) {
	return elaborate.New(bus).Elaborate(prog)
}

// Evaluate runs prog's IR to a value against a PRNG seeded with seed,
// with no step limit.
func Evaluate(prog *ir.Program, seed int64) (eval.Value, error) {
	return EvaluateLimited(prog, seed, 0)
}

// EvaluateLimited behaves like Evaluate but aborts once more than limit
// evaluation steps have run (spec §6's `--limit STEPS`); limit <= 0
// means unlimited.
func EvaluateLimited(prog *ir.Program, seed int64, limit int) (eval.Value, error) {
	st := prng.Seed(seed)
	return eval.EvalProgramLimited(prog, st, limit)
}

// Check runs the front end only (parse + elaborate) and reports
// whether the program is well-formed, without evaluating it — the
// `betlang check` subcommand.
func Check(file, text string) Result {
	prog, _, diags := parser.Parse(file, text)
	if hasErrors(diags) {
		return Result{Diagnostics: diags, ExitCode: ExitFrontendError}
	}
	bus := diag.NewBus()
	_, err := elaborate.New(bus).Elaborate(prog)
	all := append(diags, bus.All()...)
	if err != nil {
		return Result{Diagnostics: all, ExitCode: ExitFrontendError}
	}
	return Result{Diagnostics: all, ExitCode: ExitSuccess}
}

// Run parses, elaborates, and evaluates file/text against cfg and an
// optional step limit (<= 0 means unlimited), the `betlang run`
// subcommand's full pipeline. It scopes any cool-off state to this one
// call (spec §3: "otherwise it is scoped to one driver run"); a caller
// that needs cool-off state to persist across several Run-like calls
// (the REPL) should use RunWithSafety instead.
func Run(file, text string, cfg config.Config, limit int) Result {
	return RunWithSafety(file, text, cfg, limit, nil)
}

// RunWithSafety behaves like Run, but lets the caller thread a
// *safety.CoolOff that outlives this one call (spec §3: "Cool-off state
// outlives a single evaluation if threaded by the caller"). When
// coolOff is nil and cfg.SafetyEnabled is set, a cool-off gate scoped
// to just this call is constructed; when cfg.SafetyEnabled is false,
// validated-bet runs with no cool-off gate at all.
func RunWithSafety(file, text string, cfg config.Config, limit int, coolOff *safety.CoolOff) Result {
	prog, _, diags := parser.Parse(file, text)
	if hasErrors(diags) {
		return Result{Diagnostics: diags, ExitCode: ExitFrontendError}
	}
	bus := diag.NewBus()
	irProg, err := elaborate.New(bus).Elaborate(prog)
	all := append(diags, bus.All()...)
	if err != nil {
		return Result{Diagnostics: all, ExitCode: ExitFrontendError}
	}
	val, err := evaluateWithSafety(irProg, cfg, limit, coolOff)
	if err != nil {
		d := diag.New(diag.Error, evalErrorKind(err), source.Span{}, "%v", err)
		if ee, ok := err.(*eval.Error); ok && ee.Diag == diag.KindCoolOffActive {
			d = d.WithRemediation("wait for the cool-off period to elapse before betting again", ee.Remaining)
		}
		return Result{Diagnostics: append(all, d), ExitCode: ExitEvalError}
	}
	return Result{Value: val, Diagnostics: all, ExitCode: ExitSuccess}
}

// evaluateWithSafety builds a *safety.Config from cfg and runs irProg
// against it. When cfg.SafetyEnabled is false, no cool-off gate is
// installed and validated-bet skips that stage of its pipeline.
func evaluateWithSafety(irProg *ir.Program, cfg config.Config, limit int, coolOff *safety.CoolOff) (eval.Value, error) {
	st := prng.Seed(cfg.Seed)
	if !cfg.SafetyEnabled {
		return eval.EvalProgramLimited(irProg, st, limit)
	}
	if coolOff == nil {
		coolOff = safety.NewCoolOff(safety.SystemClock{}, time.Duration(cfg.CoolOffSeconds*float64(time.Second)))
	}
	safetyCfg := &safety.Config{
		DutchBookTolerance: cfg.DutchBookTolerance,
		MaxKellyFraction:   cfg.MaxKellyFraction,
		MaxRisk:            cfg.MaxRisk,
		CoolOff:            coolOff,
	}
	return eval.EvalProgramWithSafety(irProg, st, limit, safetyCfg)
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func evalErrorKind(err error) diag.Kind {
	if ee, ok := err.(*eval.Error); ok {
		return ee.Diag
	}
	return diag.KindEvalAborted
}
