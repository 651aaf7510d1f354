package eval

import (
	"math/big"

	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/ir"
	"github.com/aledsdavies/betlang/internal/numeric"
	"github.com/aledsdavies/betlang/internal/prng"
	"github.com/aledsdavies/betlang/internal/safety"
)

// builtin is the runtime value a Builtin IR node evaluates to: just
// its name, dispatched by applyBuiltin once its arguments are in hand.
type builtin string

func (builtin) isValue() {}

func builtinValue(name string) Value { return builtin(name) }

func applyBuiltin(app *ir.Apply, name string, args []Value, st *prng.State) (Value, error) {
	switch name {
	case "+", "-", "*", "/":
		return arith(app, name, args)
	case "neg":
		if len(args) != 1 {
			return nil, newError(app, diag.KindArityMismatch, "neg expects 1 argument, got %d", len(args))
		}
		f, ok := AsFloat64(args[0])
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "neg expects a number, got %s", typeName(args[0]))
		}
		return Decimal(-f), nil
	case "==", "<>", "<", "<=", ">", ">=":
		return compare(app, name, args)
	case "and", "or":
		return boolOp(app, name, args)
	case "not":
		if len(args) != 1 {
			return nil, newError(app, diag.KindArityMismatch, "not expects 1 argument, got %d", len(args))
		}
		b, ok := args[0].(Bool)
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "not expects a bool, got %s", typeName(args[0]))
		}
		return !b, nil
	case "list":
		return List(args), nil
	case "head":
		lst, err := listArg(app, args, "head")
		if err != nil {
			return nil, err
		}
		if len(lst) == 0 {
			return nil, newError(app, diag.KindNumericDomainError, "head of empty list")
		}
		return lst[0], nil
	case "tail":
		lst, err := listArg(app, args, "tail")
		if err != nil {
			return nil, err
		}
		if len(lst) == 0 {
			return nil, newError(app, diag.KindNumericDomainError, "tail of empty list")
		}
		return append(List{}, lst[1:]...), nil
	case "cons":
		if len(args) != 2 {
			return nil, newError(app, diag.KindArityMismatch, "cons expects 2 arguments, got %d", len(args))
		}
		lst, ok := args[1].(List)
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "cons expects a list as its second argument, got %s", typeName(args[1]))
		}
		out := make(List, 0, len(lst)+1)
		out = append(out, args[0])
		out = append(out, lst...)
		return out, nil
	case "length":
		lst, err := listArg(app, args, "length")
		if err != nil {
			return nil, err
		}
		return Int(len(lst)), nil
	case "empty?":
		lst, err := listArg(app, args, "empty?")
		if err != nil {
			return nil, err
		}
		return Bool(len(lst) == 0), nil
	case "dutch-book-validate":
		return dutchBookValidate(app, args)
	case "dutch-book-normalize":
		return dutchBookNormalize(app, args)
	case "dutch-book-from-odds":
		return dutchBookFromOddsBuiltin(app, args)
	case "kelly-stake":
		return kellyStakeBuiltin(app, args)
	case "optimal-stake":
		return optimalStakeBuiltin(app, args)
	case "safe-stake?":
		return safeStakeBuiltin(app, args)
	case "risk-of-ruin":
		return riskOfRuinBuiltin(app, args, st)
	case "dempster-combine":
		return dempsterCombineBuiltin(app, args)
	case "dempster-belief":
		return dempsterQueryBuiltin(app, args, false)
	case "dempster-plausibility":
		return dempsterQueryBuiltin(app, args, true)
	case "var":
		return riskQuantileBuiltin(app, args, false)
	case "cvar":
		return riskQuantileBuiltin(app, args, true)
	default:
		if numericCtor(name) {
			return numericConstruct(app, name, args)
		}
		return nil, newError(app, diag.KindEvalAborted, "internal: unhandled builtin %q", name)
	}
}

func numericCtor(name string) bool {
	for _, t := range numeric.Tags() {
		if t == name {
			return true
		}
	}
	return false
}

func numericConstruct(app *ir.Apply, name string, args []Value) (Value, error) {
	floats := make([]float64, 0, len(args))
	for _, a := range args {
		f, ok := AsFloat64(a)
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "%s expects numeric arguments, got %s", name, typeName(a))
		}
		floats = append(floats, f)
	}
	n, err := numeric.Construct(name, floats)
	if err != nil {
		return nil, newError(app, diag.KindNumericDomainError, "%v", err)
	}
	return Number{Number: n}, nil
}

func listArg(app *ir.Apply, args []Value, name string) (List, error) {
	if len(args) != 1 {
		return nil, newError(app, diag.KindArityMismatch, "%s expects 1 argument, got %d", name, len(args))
	}
	lst, ok := args[0].(List)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects a list, got %s", name, typeName(args[0]))
	}
	return lst, nil
}

func arith(app *ir.Apply, op string, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, newError(app, diag.KindArityMismatch, "%s expects 2 arguments, got %d", op, len(args))
	}
	// Uncertainty-number path: variants with a type-specific add/mul
	// rule (spec §4.9) use it instead of collapsing to their Mean().
	if na, aok := args[0].(Number); aok {
		if nb, bok := args[1].(Number); bok {
			switch op {
			case "+":
				if sum, ok := numeric.Add(na.Number, nb.Number); ok {
					return Number{Number: sum}, nil
				}
			case "*":
				if prod, ok := numeric.Mul(na.Number, nb.Number); ok {
					return Number{Number: prod}, nil
				}
			}
		}
	}
	// Exact integer path.
	if a, ok := args[0].(Int); ok {
		if b, ok := args[1].(Int); ok {
			switch op {
			case "+":
				return a + b, nil
			case "-":
				return a - b, nil
			case "*":
				return a * b, nil
			case "/":
				if b == 0 {
					return nil, newError(app, diag.KindNumericDomainError, "division by zero")
				}
				if a%b == 0 {
					return a / b, nil
				}
				return Rational{Rat: new(big.Rat).SetFrac64(int64(a), int64(b))}, nil
			}
		}
	}
	// Exact rational path.
	ra, aok := asRat(args[0])
	rb, bok := asRat(args[1])
	if aok && bok {
		out := new(big.Rat)
		switch op {
		case "+":
			out.Add(ra, rb)
		case "-":
			out.Sub(ra, rb)
		case "*":
			out.Mul(ra, rb)
		case "/":
			if rb.Sign() == 0 {
				return nil, newError(app, diag.KindNumericDomainError, "division by zero")
			}
			out.Quo(ra, rb)
		}
		return Rational{Rat: out}, nil
	}
	// Fall back to float64.
	fa, aok := AsFloat64(args[0])
	fb, bok := AsFloat64(args[1])
	if !aok || !bok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects numeric arguments, got %s and %s", op, typeName(args[0]), typeName(args[1]))
	}
	switch op {
	case "+":
		return Decimal(fa + fb), nil
	case "-":
		return Decimal(fa - fb), nil
	case "*":
		return Decimal(fa * fb), nil
	case "/":
		if fb == 0 {
			return nil, newError(app, diag.KindNumericDomainError, "division by zero")
		}
		return Decimal(fa / fb), nil
	default:
		return nil, newError(app, diag.KindEvalAborted, "internal: unhandled arithmetic op %q", op)
	}
}

func asRat(v Value) (*big.Rat, bool) {
	switch n := v.(type) {
	case Rational:
		return n.Rat, true
	case Int:
		return new(big.Rat).SetInt64(int64(n)), true
	default:
		return nil, false
	}
}

func compare(app *ir.Apply, op string, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, newError(app, diag.KindArityMismatch, "%s expects 2 arguments, got %d", op, len(args))
	}
	if op == "==" || op == "<>" {
		eq := valuesEqual(args[0], args[1])
		if op == "<>" {
			return Bool(!eq), nil
		}
		return Bool(eq), nil
	}
	fa, aok := AsFloat64(args[0])
	fb, bok := AsFloat64(args[1])
	if !aok || !bok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects numeric arguments, got %s and %s", op, typeName(args[0]), typeName(args[1]))
	}
	switch op {
	case "<":
		return Bool(fa < fb), nil
	case "<=":
		return Bool(fa <= fb), nil
	case ">":
		return Bool(fa > fb), nil
	case ">=":
		return Bool(fa >= fb), nil
	default:
		return nil, newError(app, diag.KindEvalAborted, "internal: unhandled comparison op %q", op)
	}
}

func boolOp(app *ir.Apply, op string, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, newError(app, diag.KindArityMismatch, "%s expects 2 arguments, got %d", op, len(args))
	}
	a, aok := args[0].(Bool)
	b, bok := args[1].(Bool)
	if !aok || !bok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects bool arguments, got %s and %s", op, typeName(args[0]), typeName(args[1]))
	}
	if op == "and" {
		return a && b, nil
	}
	return a || b, nil
}

func dutchBookValidate(app *ir.Apply, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newError(app, diag.KindArityMismatch, "dutch-book-validate expects 1 argument, got %d", len(args))
	}
	lst, ok := args[0].(List)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "dutch-book-validate expects a list of probabilities, got %s", typeName(args[0]))
	}
	probs := make([]float64, 0, len(lst))
	for _, v := range lst {
		f, ok := AsFloat64(v)
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "dutch-book-validate expects numeric list elements")
		}
		probs = append(probs, f)
	}
	const tolerance = 1e-6
	if err := safety.ValidateDutchBook(probs, tolerance); err != nil {
		return nil, newError(app, diag.KindDutchBookViolation, "%v", err)
	}
	return Bool(true), nil
}

func dutchBookNormalize(app *ir.Apply, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newError(app, diag.KindArityMismatch, "dutch-book-normalize expects 1 argument, got %d", len(args))
	}
	lst, ok := args[0].(List)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "dutch-book-normalize expects a list of probabilities, got %s", typeName(args[0]))
	}
	probs := make([]float64, 0, len(lst))
	for _, v := range lst {
		f, ok := AsFloat64(v)
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "dutch-book-normalize expects numeric list elements")
		}
		probs = append(probs, f)
	}
	normalized, err := safety.NormalizeDutchBook(probs)
	if err != nil {
		return nil, newError(app, diag.KindDutchBookViolation, "%v", err)
	}
	out := make(List, len(normalized))
	for i, f := range normalized {
		out[i] = Decimal(f)
	}
	return out, nil
}

// dutchBookFromOddsBuiltin converts a list of decimal-odds quotes into
// their implied probabilities and the book's overround: a 2-element
// list `(probs overround)`, probs in the same order as the quotes.
func dutchBookFromOddsBuiltin(app *ir.Apply, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newError(app, diag.KindArityMismatch, "dutch-book-from-odds expects 1 argument, got %d", len(args))
	}
	lst, ok := args[0].(List)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "dutch-book-from-odds expects a list of decimal odds, got %s", typeName(args[0]))
	}
	quotes := make([]safety.Odds, len(lst))
	for i, v := range lst {
		f, ok := AsFloat64(v)
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "dutch-book-from-odds expects numeric list elements")
		}
		quotes[i] = safety.Odds{Value: float64(i), Odds: f}
	}
	probs, overround, err := safety.DutchBookFromOdds(quotes)
	if err != nil {
		return nil, newError(app, diag.KindDutchBookViolation, "%v", err)
	}
	out := make(List, len(probs))
	for i, p := range probs {
		out[i] = Decimal(p)
	}
	return List{out, Decimal(overround)}, nil
}

func safeStakeBuiltin(app *ir.Apply, args []Value) (Value, error) {
	if len(args) != 4 {
		return nil, newError(app, diag.KindArityMismatch, "safe-stake? expects (stake full-kelly max-fraction max-risk), got %d argument(s)", len(args))
	}
	floats, err := floatArgs(app, args, "safe-stake?")
	if err != nil {
		return nil, err
	}
	return Bool(safety.SafeStake(floats[0], floats[1], floats[2], floats[3])), nil
}

// riskOfRuinBuiltin computes risk-of-ruin(p, b, stake, initial, target,
// ruin-threshold), picking the analytic estimator for p=0.5 and the
// Monte-Carlo estimator otherwise (spec §4.8); the Monte-Carlo path
// consumes PRNG entropy from st.
func riskOfRuinBuiltin(app *ir.Apply, args []Value, st *prng.State) (Value, error) {
	if len(args) != 6 {
		return nil, newError(app, diag.KindArityMismatch, "risk-of-ruin expects (p b stake initial target ruin-threshold), got %d argument(s)", len(args))
	}
	f, err := floatArgs(app, args, "risk-of-ruin")
	if err != nil {
		return nil, err
	}
	r, rerr := safety.RiskOfRuin(st, f[3], f[2], f[0], f[1], f[4], f[5])
	if rerr != nil {
		return nil, newError(app, diag.KindRiskStakeUnsafe, "%v", rerr)
	}
	return Decimal(r), nil
}

func kellyStakeBuiltin(app *ir.Apply, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, newError(app, diag.KindArityMismatch, "kelly-stake expects (probability odds), got %d argument(s)", len(args))
	}
	f, err := floatArgs(app, args, "kelly-stake")
	if err != nil {
		return nil, err
	}
	k, kerr := safety.KellyStake(f[0], f[1])
	if kerr != nil {
		return nil, newError(app, diag.KindRiskKellyExceeded, "%v", kerr)
	}
	return Decimal(k), nil
}

// optimalStakeBuiltin computes optimal-stake(bankroll, p, b, fraction):
// fraction * bankroll * kelly(p, b) (spec §4.8).
func optimalStakeBuiltin(app *ir.Apply, args []Value) (Value, error) {
	if len(args) != 4 {
		return nil, newError(app, diag.KindArityMismatch, "optimal-stake expects (bankroll probability odds fraction), got %d argument(s)", len(args))
	}
	f, err := floatArgs(app, args, "optimal-stake")
	if err != nil {
		return nil, err
	}
	s, serr := safety.OptimalStake(f[0], f[1], f[2], f[3])
	if serr != nil {
		return nil, newError(app, diag.KindRiskKellyExceeded, "%v", serr)
	}
	return Decimal(s), nil
}

func floatArgs(app *ir.Apply, args []Value, name string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, ok := AsFloat64(a)
		if !ok {
			return nil, newError(app, diag.KindTypeMismatch, "%s expects numeric arguments, got %s at position %d", name, typeName(a), i)
		}
		out[i] = f
	}
	return out, nil
}

func numberArg(app *ir.Apply, args []Value, i int, name string) (numeric.Number, error) {
	if i >= len(args) {
		return nil, newError(app, diag.KindArityMismatch, "%s expects an uncertainty-number argument at position %d", name, i)
	}
	num, ok := args[i].(Number)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects an uncertainty number, got %s", name, typeName(args[i]))
	}
	return num.Number, nil
}

// dempsterCombineBuiltin applies Dempster's combination rule to two
// dempster-shafer values, failing with Numeric.TotalConflict if the
// evidence is totally contradictory (spec §4.9).
func dempsterCombineBuiltin(app *ir.Apply, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, newError(app, diag.KindArityMismatch, "dempster-combine expects 2 dempster-shafer arguments, got %d", len(args))
	}
	a, err := numberArg(app, args, 0, "dempster-combine")
	if err != nil {
		return nil, err
	}
	b, err := numberArg(app, args, 1, "dempster-combine")
	if err != nil {
		return nil, err
	}
	da, ok := a.(numeric.DempsterShafer)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "dempster-combine expects dempster-shafer values, got %s", a.Tag())
	}
	db, ok := b.(numeric.DempsterShafer)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "dempster-combine expects dempster-shafer values, got %s", b.Tag())
	}
	combined, cerr := da.Combine(db)
	if cerr != nil {
		return nil, newError(app, diag.KindNumericTotalConflict, "%v", cerr)
	}
	return Number{Number: combined}, nil
}

// dempsterQueryBuiltin computes belief or plausibility of a hypothesis
// (a bitmask over the frame's elements) against a dempster-shafer
// value (spec §4.9).
func dempsterQueryBuiltin(app *ir.Apply, args []Value, plausibility bool) (Value, error) {
	name := "dempster-belief"
	if plausibility {
		name = "dempster-plausibility"
	}
	if len(args) != 2 {
		return nil, newError(app, diag.KindArityMismatch, "%s expects (dempster-shafer hypothesis-mask), got %d", name, len(args))
	}
	n, err := numberArg(app, args, 0, name)
	if err != nil {
		return nil, err
	}
	ds, ok := n.(numeric.DempsterShafer)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects a dempster-shafer value, got %s", name, n.Tag())
	}
	mask, ok := AsFloat64(args[1])
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects a numeric hypothesis mask", name)
	}
	if plausibility {
		return Decimal(ds.Plausibility(uint64(mask))), nil
	}
	return Decimal(ds.Belief(uint64(mask))), nil
}

// riskQuantileBuiltin computes VaR or CVaR of a `risk` uncertainty
// number's sample set at its configured alpha (spec §4.9).
func riskQuantileBuiltin(app *ir.Apply, args []Value, cvar bool) (Value, error) {
	name := "var"
	if cvar {
		name = "cvar"
	}
	if len(args) != 1 {
		return nil, newError(app, diag.KindArityMismatch, "%s expects 1 risk argument, got %d", name, len(args))
	}
	n, err := numberArg(app, args, 0, name)
	if err != nil {
		return nil, err
	}
	r, ok := n.(numeric.Risk)
	if !ok {
		return nil, newError(app, diag.KindTypeMismatch, "%s expects a risk value, got %s", name, n.Tag())
	}
	if cvar {
		return Decimal(r.CVaR()), nil
	}
	return Decimal(r.VaR()), nil
}
