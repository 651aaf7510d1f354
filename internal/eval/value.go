// Package eval implements BetLang's tree-walking evaluator (spec §4,
// §5): it executes elaborated IR directly against an immutable
// environment chain and an explicitly-threaded PRNG state, grounded on
// the teacher's plan-execution style (runtime/planner walks IR nodes
// dispatching on their kind) but adapted from "execute a command plan"
// to "reduce an expression to a value".
package eval

import (
	"fmt"
	"math/big"

	"github.com/aledsdavies/betlang/internal/ir"
	"github.com/aledsdavies/betlang/internal/numeric"
)

// Value is any runtime BetLang value.
type Value interface{ isValue() }

type Int int64
type Rational struct{ *big.Rat }
type Decimal float64
type Str string
type Bool bool
type Symbol string
type List []Value

// Closure is a lambda value: its parameters, body, and the environment
// it closed over at definition time.
type Closure struct {
	Params []string
	Arity  int
	Body   ir.Node
	Env    *Env
}

// Number wraps an uncertainty-kernel value (spec §5's fourteen
// variants) so it can flow through ordinary let/apply/match like any
// other value.
type Number struct{ numeric.Number }

func (Int) isValue()      {}
func (Rational) isValue() {}
func (Decimal) isValue()  {}
func (Str) isValue()      {}
func (Bool) isValue()     {}
func (Symbol) isValue()   {}
func (List) isValue()     {}
func (*Closure) isValue() {}
func (Number) isValue()   {}

// AsFloat64 coerces v to a float64 for arithmetic/comparison, reporting
// false if v is not a numeric value.
func AsFloat64(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Decimal:
		return float64(n), true
	case Rational:
		f, _ := n.Rat.Float64()
		return f, true
	case Number:
		return n.Mean(), true
	default:
		return 0, false
	}
}

func typeName(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case Rational:
		return "rational"
	case Decimal:
		return "decimal"
	case Str:
		return "string"
	case Bool:
		return "bool"
	case Symbol:
		return "symbol"
	case List:
		return "list"
	case *Closure:
		return "closure"
	case Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
