// Package parser implements BetLang's dual-syntax front end: a
// hand-written recursive-descent Pratt parser (never an LR generator —
// see spec §9's redesign note on grammar ambiguity) that accepts both
// the fully-parenthesized S-expression surface and the keyword/`end`
// surface and desugars both into the single ast.Program representation.
//
// Grounded on the teacher's runtime/parser.Parser: a token-slice cursor,
// a BracketTracker-style error style (runtime/parser/errors.go), and
// "continue past an error to the next statement boundary" recovery so
// an editor can see every diagnostic in one pass.
package parser

import (
	"fmt"

	"github.com/aledsdavies/betlang/internal/ast"
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/invariant"
	"github.com/aledsdavies/betlang/internal/lexer"
	"github.com/aledsdavies/betlang/internal/source"
)

// Parser holds a fully-lexed token slice (the dual syntax needs
// unbounded lookahead at a few points — e.g. telling a grouping `(expr)`
// apart from an application `(f arg)` needs peeking past the first
// sub-expression) and a cursor into it.
type Parser struct {
	toks []lexer.Token
	pos  int
	file string
	m    *source.Map
	bus  *diag.Bus
}

// New builds a Parser over a pre-lexed token slice.
func New(toks []lexer.Token, file string, m *source.Map, bus *diag.Bus) *Parser {
	invariant.NotNil(bus, "bus")
	return &Parser{toks: toks, file: file, m: m, bus: bus}
}

// Parse lexes and parses source text in one call, the entry point
// exposed at the embedded-use boundary (spec §6).
func Parse(file, text string) (*ast.Program, *source.Map, []diag.Diagnostic) {
	toks, m, lexErrs := lexer.Tokens(file, text)
	bus := diag.NewBus()
	for _, e := range lexErrs {
		if le, ok := e.(*lexer.Error); ok {
			bus.Errorf(kindForLexError(le.Kind), le.Span, "%s", le.Msg)
		}
	}
	p := New(toks, file, m, bus)
	prog := p.ParseProgram()
	return prog, m, bus.All()
}

func kindForLexError(k string) diag.Kind {
	switch k {
	case "UnterminatedString":
		return diag.KindLexUnterminatedString
	case "BadEscape":
		return diag.KindLexBadEscape
	default:
		return diag.KindLexInvalidChar
	}
}

// --- cursor helpers ---

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) at(k lexer.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) atKeyword(w string) bool {
	return p.cur().IsKeyword(w)
}

func (p *Parser) bump() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// skipNewlines consumes any run of NEWLINE tokens. It runs between
// top-level forms and after the keywords `in`, `then`, `else`, `with`
// and `do` that expectKeyword consumes; a newline anywhere else inside
// a form (between arguments, before `end` or `)`) is not skipped and
// is a parse error.
func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.bump()
	}
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if !p.at(k) {
		return p.cur(), p.errf(diag.KindParseExpected, "expected %s, found %s", k, p.cur())
	}
	return p.bump(), nil
}

func (p *Parser) expectKeyword(w string) error {
	if !p.atKeyword(w) && !(w == "end" && p.at(lexer.END)) {
		return p.errf(diag.KindParseExpected, "expected keyword %q, found %s", w, p.cur())
	}
	p.bump()
	if w != "end" {
		p.skipNewlines()
	}
	return nil
}

func (p *Parser) errf(kind diag.Kind, format string, args ...interface{}) error {
	d := diag.New(diag.Error, kind, p.cur().Span, format, args...)
	p.bus.Add(d)
	return d
}

// recover skips tokens until the next plausible top-level form start,
// so one malformed form does not hide every diagnostic after it (spec
// §4.2, §7 "accumulated" front-end errors).
func (p *Parser) recover() {
	depth := 0
	for !p.at(lexer.EOF) {
		switch p.cur().Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			if depth > 0 {
				depth--
			}
		case lexer.NEWLINE, lexer.END:
			if depth == 0 {
				p.bump()
				return
			}
		}
		p.bump()
	}
}

// ParseProgram parses every top-level form until EOF, accumulating
// diagnostics on the bus and recovering after each malformed form.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.at(lexer.EOF) {
		before := p.pos
		form, err := p.parseTopLevel()
		if err != nil {
			p.recover()
		} else {
			prog.Forms = append(prog.Forms, form)
		}
		invariant.Invariant(p.pos > before || p.at(lexer.EOF), "parser must make progress")
		p.skipNewlines()
	}
	return prog
}

func (p *Parser) parseTopLevel() (ast.Node, error) {
	return p.parseExpr(precLowest)
}

func fmtTok(t lexer.Token) string {
	return fmt.Sprintf("%q", t.String())
}
