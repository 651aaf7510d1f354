package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders v the way the CLI and REPL print a result value:
// exact rationals as "n/d", decimals trimmed of trailing zeros, lists
// bracketed, uncertainty numbers by tag and mean.
func Format(v Value) string {
	switch n := v.(type) {
	case Int:
		return strconv.FormatInt(int64(n), 10)
	case Rational:
		if n.Rat.IsInt() {
			return n.Rat.Num().String()
		}
		return n.Rat.RatString()
	case Decimal:
		return strconv.FormatFloat(float64(n), 'g', -1, 64)
	case Str:
		return strconv.Quote(string(n))
	case Bool:
		return strconv.FormatBool(bool(n))
	case Symbol:
		return "'" + string(n)
	case List:
		parts := make([]string, len(n))
		for i, e := range n {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case *Closure:
		return fmt.Sprintf("<lambda/%d>", n.Arity)
	case Number:
		return fmt.Sprintf("<%s ~%v>", n.Tag(), n.Mean())
	case builtin:
		return fmt.Sprintf("<builtin %s>", string(n))
	default:
		return fmt.Sprintf("%v", v)
	}
}
