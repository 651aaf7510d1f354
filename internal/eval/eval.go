package eval

import (
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/ir"
	"github.com/aledsdavies/betlang/internal/numeric"
	"github.com/aledsdavies/betlang/internal/prng"
	"github.com/aledsdavies/betlang/internal/safety"
)

// Eval reduces n to a Value under env, advancing st in place for every
// draw it performs (spec §4.5: the PRNG stream is a single ambient
// thread of draws, consumed left to right in evaluation order).
func Eval(n ir.Node, env *Env, st *prng.State) (Value, error) {
	if err := env.step(); err != nil {
		return nil, err
	}
	switch node := n.(type) {
	case *ir.Lit:
		return litValue(node.Value), nil
	case *ir.Var:
		return env.Lookup(node.Depth, node.Slot), nil
	case *ir.Builtin:
		return builtinValue(node.Name), nil
	case *ir.Apply:
		return evalApply(node, env, st)
	case *ir.Let:
		return evalLet(node, env, st)
	case *ir.If:
		return evalIf(node, env, st)
	case *ir.Match:
		return evalMatch(node, env, st)
	case *ir.Lambda:
		return &Closure{Params: node.Params, Arity: node.Arity, Body: node.Body, Env: env}, nil
	case *ir.Bet:
		return evalBet(node, env, st)
	case *ir.BetWeighted:
		return evalBetWeighted(node, env, st)
	case *ir.BetConditional:
		return evalBetConditional(node, env, st)
	case *ir.BetLazy:
		return evalBetLazy(node, env, st)
	case *ir.WithSeed:
		return evalWithSeed(node, env, st)
	case *ir.Do:
		return evalDo(node, env, st)
	case *ir.Parallel:
		return evalParallel(node, env, st)
	case *ir.Sample:
		return evalSample(node, env, st)
	case *ir.ValidatedBet:
		return evalValidatedBet(node, env, st)
	default:
		return nil, newError(n, diag.KindEvalAborted, "internal: unhandled IR node %T", n)
	}
}

func litValue(v ir.Value) Value {
	switch val := v.(type) {
	case ir.Int:
		return Int(val)
	case ir.Rational:
		return Rational{Rat: val.Rat}
	case ir.Decimal:
		return Decimal(val)
	case ir.Str:
		return Str(val)
	case ir.Bool:
		return Bool(val)
	case ir.Symbol:
		return Symbol(val)
	default:
		return nil
	}
}

// EvalProgram runs every top-level define into a single global frame,
// in declaration order, then evaluates the program's result
// expression (if any) against that frame, with no step limit.
func EvalProgram(prog *ir.Program, st *prng.State) (Value, error) {
	return EvalProgramLimited(prog, st, 0)
}

// EvalProgramLimited behaves like EvalProgram but aborts with
// Eval.Aborted once more than limit Eval steps have been dispatched
// (spec §6's `betlang run --limit STEPS`); limit <= 0 means unlimited.
func EvalProgramLimited(prog *ir.Program, st *prng.State, limit int) (Value, error) {
	return evalProgram(prog, st, NewEnvWithLimit(limit))
}

// EvalProgramWithSafety behaves like EvalProgramLimited but threads cfg
// into the global environment, so any validated-bet form the program
// evaluates enforces cfg's Dutch-book/Kelly/cool-off pipeline instead
// of the conservative no-cool-off default.
func EvalProgramWithSafety(prog *ir.Program, st *prng.State, limit int, cfg *safety.Config) (Value, error) {
	return evalProgram(prog, st, NewEnvWithSafety(limit, cfg))
}

func evalProgram(prog *ir.Program, st *prng.State, global *Env) (Value, error) {
	for _, def := range prog.Defines {
		val, err := Eval(def.Expr, global, st)
		if err != nil {
			return nil, err
		}
		global.Push(val)
	}
	if prog.Result == nil {
		return nil, nil
	}
	return Eval(prog.Result, global, st)
}

func evalApply(app *ir.Apply, env *Env, st *prng.State) (Value, error) {
	fn, err := Eval(app.Fn, env, st)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(app.Args))
	for _, a := range app.Args {
		v, err := Eval(a, env, st)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	switch f := fn.(type) {
	case builtin:
		return applyBuiltin(app, string(f), args, st)
	case *Closure:
		if len(args) != f.Arity {
			return nil, newError(app, diag.KindArityMismatch, "closure expects %d argument(s), got %d", f.Arity, len(args))
		}
		callEnv := f.Env.Child()
		for _, a := range args {
			callEnv.Push(a)
		}
		return Eval(f.Body, callEnv, st)
	default:
		return nil, newError(app, diag.KindTypeMismatch, "cannot apply a value of type %s", typeName(fn))
	}
}

func evalLet(let *ir.Let, env *Env, st *prng.State) (Value, error) {
	inner := env.Child()
	for _, b := range let.Bindings {
		val, err := Eval(b.Expr, inner, st)
		if err != nil {
			return nil, err
		}
		inner.Push(val)
	}
	return Eval(let.Body, inner, st)
}

func evalIf(node *ir.If, env *Env, st *prng.State) (Value, error) {
	cond, err := Eval(node.Cond, env, st)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(Bool)
	if !ok {
		return nil, newError(node, diag.KindTypeMismatch, "if condition must be a bool, got %s", typeName(cond))
	}
	if b {
		return Eval(node.Then, env, st)
	}
	return Eval(node.Else, env, st)
}

func evalDo(do *ir.Do, env *Env, st *prng.State) (Value, error) {
	inner := env.Child()
	for _, bind := range do.Binds {
		val, err := Eval(bind.Expr, inner, st)
		if err != nil {
			return nil, err
		}
		if bind.Name != "" {
			inner.Push(val)
		}
	}
	return Eval(do.Return, inner, st)
}

// evalBet draws i uniformly from {0,1,2} and returns the i-th argument,
// after evaluating all three strictly left to right (spec §4.6): `bet`
// is a plain ternary choice, not a probability-weighted coin flip.
func evalBet(b *ir.Bet, env *Env, st *prng.State) (Value, error) {
	return drawTernary(b.A, b.B, b.C, env, st)
}

// drawTernary evaluates a, b, c strictly left to right, draws i
// uniformly from {0,1,2}, and returns the i-th value. Shared by `bet`
// and by bet-conditional's false branch, which is specified as
// `bet t f u` recursively (spec §4.6, §9).
func drawTernary(a, b, c ir.Node, env *Env, st *prng.State) (Value, error) {
	va, err := Eval(a, env, st)
	if err != nil {
		return nil, err
	}
	vb, err := Eval(b, env, st)
	if err != nil {
		return nil, err
	}
	vc, err := Eval(c, env, st)
	if err != nil {
		return nil, err
	}
	idx := int(st.Float64() * 3)
	if idx > 2 {
		idx = 2
	}
	switch idx {
	case 0:
		return va, nil
	case 1:
		return vb, nil
	default:
		return vc, nil
	}
}

func evalBetWeighted(bw *ir.BetWeighted, env *Env, st *prng.State) (Value, error) {
	values := make([]Value, len(bw.Outcomes))
	weights := make([]float64, len(bw.Outcomes))
	total := 0.0
	for i, o := range bw.Outcomes {
		val, err := Eval(o.Value, env, st)
		if err != nil {
			return nil, err
		}
		w, err := Eval(o.Weight, env, st)
		if err != nil {
			return nil, err
		}
		wf, ok := AsFloat64(w)
		if !ok || wf < 0 {
			return nil, newError(bw, diag.KindProbabilityNegativeWeight, "bet-weighted outcome %d has invalid weight %v", i, w)
		}
		values[i] = val
		weights[i] = wf
		total += wf
	}
	if total <= 0 {
		return nil, newError(bw, diag.KindProbabilityZeroTotal, "bet-weighted outcomes sum to %v", total)
	}
	target := st.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target < acc {
			return values[i], nil
		}
	}
	return values[len(values)-1], nil
}

// evalBetConditional implements bet-conditional exactly as spec'd: Pred
// is a boolean gate. When true, evaluate and return True directly —
// short-circuit, False and Unconditional are never touched. When
// false, fall back to `bet t f u` recursively: a uniform 3-way draw
// over True, False, Unconditional, giving the "true" value a second
// chance. This asymmetry is the reference semantics (spec §4.6, §9
// open question) and is preserved exactly rather than "corrected" to
// the more obvious symmetric reading.
func evalBetConditional(bc *ir.BetConditional, env *Env, st *prng.State) (Value, error) {
	pred, err := Eval(bc.Pred, env, st)
	if err != nil {
		return nil, err
	}
	b, ok := pred.(Bool)
	if !ok {
		return nil, newError(bc, diag.KindTypeMismatch, "bet-conditional predicate must be a bool, got %s", typeName(pred))
	}
	if b {
		return Eval(bc.True, env, st)
	}
	return drawTernary(bc.True, bc.False, bc.Unconditional, env, st)
}

// evalBetLazy draws a uniform 3-way choice and forces only the chosen
// thunk, so the untaken branches' effects never occur.
func evalBetLazy(bl *ir.BetLazy, env *Env, st *prng.State) (Value, error) {
	thunks := [3]ir.Node{bl.ThunkA, bl.ThunkB, bl.ThunkC}
	r := st.Float64()
	idx := int(r * 3)
	if idx > 2 {
		idx = 2
	}
	return forceThunk(thunks[idx], env, st)
}

// forceThunk evaluates a thunk expression: a zero-argument closure is
// called, any other value is taken as already-forced.
func forceThunk(n ir.Node, env *Env, st *prng.State) (Value, error) {
	v, err := Eval(n, env, st)
	if err != nil {
		return nil, err
	}
	if clo, ok := v.(*Closure); ok && clo.Arity == 0 {
		return Eval(clo.Body, clo.Env, st)
	}
	return v, nil
}

// evalWithSeed runs Thunk against a fresh, independently-seeded
// stream, leaving st untouched — since st is never passed to the
// thunk's evaluation, the prior stream is implicitly restored on exit
// whether the thunk returns normally or propagates an error.
func evalWithSeed(ws *ir.WithSeed, env *Env, st *prng.State) (Value, error) {
	seedVal, err := Eval(ws.Seed, env, st)
	if err != nil {
		return nil, err
	}
	seedInt, ok := seedVal.(Int)
	if !ok {
		return nil, newError(ws, diag.KindTypeMismatch, "with-seed requires an integer seed, got %s", typeName(seedVal))
	}
	scoped := prng.Seed(int64(seedInt))
	return forceThunk(ws.Thunk, env, scoped)
}

// evalParallel draws Body N times, each against an independent
// substream obtained by jumping st's stream ahead, collecting results
// into a list (spec §5: "parallel" names logical independence of the
// draws, not concurrent execution).
func evalParallel(p *ir.Parallel, env *Env, st *prng.State) (Value, error) {
	nVal, err := Eval(p.N, env, st)
	if err != nil {
		return nil, err
	}
	n, ok := nVal.(Int)
	if !ok || n < 0 {
		return nil, newError(p, diag.KindTypeMismatch, "parallel count must be a non-negative integer, got %v", nVal)
	}
	results := make(List, 0, n)
	for i := Int(0); i < n; i++ {
		st.Jump()
		sub := st.Clone()
		val, err := Eval(p.Body, env, sub)
		if err != nil {
			return nil, err
		}
		results = append(results, val)
	}
	return results, nil
}

func evalSample(s *ir.Sample, env *Env, st *prng.State) (Value, error) {
	distVal, err := Eval(s.Dist, env, st)
	if err != nil {
		return nil, err
	}
	num, ok := distVal.(Number)
	if !ok {
		return nil, newError(s, diag.KindTypeMismatch, "sample requires an uncertainty number, got %s", typeName(distVal))
	}
	samplable, ok := num.Number.(numeric.Samplable)
	if !ok {
		return nil, newError(s, diag.KindNumericDomainError, "%s is not samplable", num.Tag())
	}
	f, err := samplable.Sample(st)
	if err != nil {
		return nil, newError(s, diag.KindNumericDomainError, "%v", err)
	}
	return Decimal(f), nil
}

func evalMatch(m *ir.Match, env *Env, st *prng.State) (Value, error) {
	scrutinee, err := Eval(m.Scrutinee, env, st)
	if err != nil {
		return nil, err
	}
	for _, clause := range m.Clauses {
		inner := env.Child()
		if matchPattern(clause.Pattern, scrutinee, inner) {
			return Eval(clause.Expr, inner, st)
		}
	}
	return nil, newError(m, diag.KindPatternNonExhaustive, "no match clause matched value %v", scrutinee)
}

// matchPattern reports whether pat matches v, pushing any variable
// bindings into env in the order their Slot was assigned during
// elaboration.
func matchPattern(pat ir.Pattern, v Value, env *Env) bool {
	switch p := pat.(type) {
	case *ir.WildcardPattern:
		return true
	case *ir.VarPattern:
		env.Push(v)
		return true
	case *ir.LiteralPattern:
		return valuesEqual(litValue(p.Value), v)
	case *ir.ListPattern:
		lst, ok := v.(List)
		if !ok || len(lst) != len(p.Elems) {
			return false
		}
		for i, elemPat := range p.Elems {
			if !matchPattern(elemPat, lst[i], env) {
				return false
			}
		}
		return true
	case *ir.TagPattern:
		num, ok := v.(Number)
		if !ok || num.Tag() != p.Tag {
			return false
		}
		// Tagged-variant field destructuring is intentionally limited to
		// the tag check; the numeric kernel's variants do not expose a
		// uniform ordered field list to destructure positionally.
		return len(p.Fields) == 0
	default:
		return false
	}
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		bf, ok := AsFloat64(b)
		return ok && float64(av) == bf
	case Decimal:
		bf, ok := AsFloat64(b)
		return ok && float64(av) == bf
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Symbol:
		bv, ok := b.(Symbol)
		return ok && av == bv
	default:
		return false
	}
}
