package elaborate

// builtins is the closed set of primitive names the evaluator
// implements directly, grounded on the teacher's decorator registry
// (runtime/decorators/registry.go) — a flat name->implementation table
// rather than a scoped binding, so resolving one of these never
// produces a Name.Unbound diagnostic even though it is never bound by
// any let/lambda/define.
var builtins = map[string]bool{
	// arithmetic and comparison (spec §4.2's infix operators desugar to these)
	"+": true, "-": true, "*": true, "/": true, "neg": true,
	"==": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
	"and": true, "or": true, "not": true,

	// list operations
	"list": true, "head": true, "tail": true, "cons": true, "length": true, "empty?": true,

	// uncertainty-number constructors (spec §5's fourteen variants)
	"dist-normal": true, "dist-beta": true, "affine": true,
	"fuzzy-triangular": true, "surreal-fuzzy": true, "bayesian": true,
	"risk": true, "p-adic-prob": true, "lottery": true, "hyperreal": true,
	"surreal-adv": true, "p-adic-adv": true, "imprecise": true,
	"dempster-shafer": true,

	// safety kernel entry points (spec §8) exposed as pure in-language
	// functions. validated-bet is its own special form (ir.ValidatedBet)
	// rather than a builtin, since it needs the env-threaded cool-off
	// session that ordinary builtin calls have no way to reach. The rest,
	// including dutch-book-from-odds, take only ordinary BetLang values
	// and are plain builtins. cool-off-status stays unexposed: every
	// special form BetLang has takes at least one argument, and a
	// zero-arity query form isn't worth the grammar exception.
	"dutch-book-validate": true, "dutch-book-normalize": true,
	"dutch-book-from-odds": true,
	"kelly-stake": true, "safe-stake?": true, "risk-of-ruin": true,
	"optimal-stake": true,

	// tail-risk and belief-function queries over uncertainty numbers
	// (spec §4.9)
	"var": true, "cvar": true,
	"dempster-combine": true, "dempster-belief": true, "dempster-plausibility": true,
}
