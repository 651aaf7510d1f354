// Package lexer turns BetLang source text into a stream of spanned
// tokens, grounded on the teacher compiler's token-table design
// (runtime/lexer/tokens.go) but built for BetLang's dual S-expression /
// keyword-`end` surface instead of a shell-command grammar.
package lexer

import "github.com/aledsdavies/betlang/internal/source"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	// Layout
	NEWLINE // statement separator inside `do` blocks only
	END     // the `end` layout terminator keyword

	// Identifiers and keywords
	IDENT
	KEYWORD

	// Literals
	INT     // 123, -456
	RATIONAL // 3/4
	DECIMAL // 3.14
	STRING
	TRUE
	FALSE

	// Punctuation
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	QUOTE // 'sym — quoted symbol, s-expression form
	ARROW     // ->
	BINDARROW // <-
	PIPE      // | (match-clause separator)
	EQUALS    // = (let/define binding)

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	EQEQ
	NOTEQ
	LT
	LE
	GT
	GE
)

var kindNames = map[Kind]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", NEWLINE: "NEWLINE", END: "end",
	IDENT: "IDENT", KEYWORD: "KEYWORD", INT: "INT", RATIONAL: "RATIONAL",
	DECIMAL: "DECIMAL", STRING: "STRING", TRUE: "true", FALSE: "false",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", COMMA: ",",
	SEMICOLON: ";", QUOTE: "'", ARROW: "->", BINDARROW: "<-", PIPE: "|",
	EQUALS: "=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/",
	EQEQ: "==", NOTEQ: "<>", LT: "<", LE: "<=", GT: ">", GE: ">=",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Keywords is the reserved word set from spec §3. "true"/"false" are
// lexed as literal-bool tokens rather than generic keywords since they
// carry a value.
var Keywords = map[string]bool{
	"bet": true, "let": true, "in": true, "if": true, "then": true,
	"else": true, "match": true, "do": true, "return": true,
	"sample": true, "parallel": true, "define": true, "lambda": true,
	"end": true, "with-seed": true, "bet-weighted": true,
	"bet-conditional": true, "bet-lazy": true, "and": true, "or": true,
	"not": true, "with": true, "validated-bet": true,
}

// Token is a single lexical unit: its kind, literal text, and source
// span.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

func (t Token) String() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}

// IsKeyword reports whether the token is the reserved word w.
func (t Token) IsKeyword(w string) bool {
	return t.Kind == KEYWORD && t.Text == w
}
