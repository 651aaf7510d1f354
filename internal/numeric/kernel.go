// Package numeric implements BetLang's fourteen uncertainty-number
// variants (spec §5): each is a distinct representation of "a number
// with unknown-ness attached", sharing one dispatch surface so the
// evaluator and the safety kernel never need a type switch of their
// own. The dispatch itself is grounded on the teacher's decorator
// registry (runtime/decorators/registry.go) — a name-keyed table
// populated by each variant's own init(), rather than a hand-written
// switch statement that would have to be extended in lockstep with the
// evaluator.
package numeric

import (
	"fmt"
	"sync"

	"github.com/aledsdavies/betlang/internal/prng"
)

// Number is any uncertainty-number value. Every variant must support
// point estimation (Mean) and validation of its own invariants;
// Samplable variants additionally draw a concrete value.
type Number interface {
	Tag() string
	Mean() float64
	Validate() error
}

// Samplable is implemented by variants that can draw a concrete scalar
// realization — every variant except Hyperreal, SurrealAdv,
// DempsterShafer, PAdicProb, and PAdicAdv, whose values are
// exact/symbolic rather than drawn
// (spec §5's Non-goals explicitly exclude sampling a belief function
// directly; read its Bel/Pl bounds instead).
type Samplable interface {
	Number
	Sample(st *prng.State) (float64, error)
}

// Constructor builds a Number from positional constructor arguments
// (already-evaluated scalars), matching the arity and meaning of the
// corresponding spec §5 constructor form.
type Constructor func(args []float64) (Number, error)

type registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

var global = &registry{ctors: make(map[string]Constructor)}

// register is called from each variant file's init().
func register(tag string, ctor Constructor) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.ctors[tag] = ctor
}

// Construct builds the Number named by tag from args, returning an
// error if tag is unknown or args fails the variant's own validation.
func Construct(tag string, args []float64) (Number, error) {
	global.mu.RLock()
	ctor, ok := global.ctors[tag]
	global.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("numeric: unknown constructor %q", tag)
	}
	n, err := ctor(args)
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Add dispatches to the type-specific addition rule of spec §4.9 when
// a and b are the same uncertainty variant and that variant defines
// one. ok is false when no variant-specific rule applies, signaling
// the caller to fall back to ordinary scalar arithmetic over the
// variants' Mean() values.
func Add(a, b Number) (result Number, ok bool) {
	switch x := a.(type) {
	case DistNormal:
		if y, same := b.(DistNormal); same {
			return x.Add(y), true
		}
	case Affine:
		if y, same := b.(Affine); same {
			return x.Add(y), true
		}
	case Hyperreal:
		if y, same := b.(Hyperreal); same {
			return x.Add(y), true
		}
	case SurrealAdv:
		if y, same := b.(SurrealAdv); same {
			return x.Add(y), true
		}
	case PAdicAdv:
		if y, same := b.(PAdicAdv); same {
			sum, err := x.Add(y)
			if err != nil {
				return nil, false
			}
			return sum, true
		}
	}
	return nil, false
}

// Mul dispatches to the type-specific multiplication rule of spec §4.9
// the same way Add does.
func Mul(a, b Number) (result Number, ok bool) {
	switch x := a.(type) {
	case DistNormal:
		if y, same := b.(DistNormal); same {
			return x.Mul(y), true
		}
	case Affine:
		if y, same := b.(Affine); same {
			return x.Mul(y), true
		}
	case Hyperreal:
		if y, same := b.(Hyperreal); same {
			return x.Mul(y), true
		}
	}
	return nil, false
}

// Tags returns every registered constructor name, sorted by the caller
// if presentation order matters — used by the evaluator to recognize
// constructor names.
func Tags() []string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	tags := make([]string, 0, len(global.ctors))
	for t := range global.ctors {
		tags = append(tags, t)
	}
	return tags
}
