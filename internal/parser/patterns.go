package parser

import (
	"github.com/aledsdavies/betlang/internal/ast"
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/lexer"
)

// parsePattern parses one match-clause pattern (spec §3): a literal, the
// wildcard `_`, a variable binding, a bracketed list destructure, or a
// tagged-variant match written as a quoted symbol optionally followed by
// parenthesized field patterns.
func (p *Parser) parsePattern() (ast.Pattern, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.INT:
		p.bump()
		return &ast.LiteralPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}, Kind: ast.LitInt, Raw: tok.Text}, nil
	case lexer.RATIONAL:
		p.bump()
		return &ast.LiteralPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}, Kind: ast.LitRational, Raw: tok.Text}, nil
	case lexer.DECIMAL:
		p.bump()
		return &ast.LiteralPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}, Kind: ast.LitDecimal, Raw: tok.Text}, nil
	case lexer.STRING:
		p.bump()
		return &ast.LiteralPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}, Kind: ast.LitString, Raw: tok.Text}, nil
	case lexer.TRUE:
		p.bump()
		return &ast.LiteralPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}, Kind: ast.LitBool, Raw: "true"}, nil
	case lexer.FALSE:
		p.bump()
		return &ast.LiteralPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}, Kind: ast.LitBool, Raw: "false"}, nil
	case lexer.MINUS:
		// A signed numeric literal pattern, e.g. `-1`.
		p.bump()
		n := p.cur()
		if n.Kind != lexer.INT && n.Kind != lexer.RATIONAL && n.Kind != lexer.DECIMAL {
			return nil, p.errf(diag.KindParseExpected, "expected a number after '-' in pattern, found %s", fmtTok(n))
		}
		p.bump()
		kind := ast.LitInt
		switch n.Kind {
		case lexer.RATIONAL:
			kind = ast.LitRational
		case lexer.DECIMAL:
			kind = ast.LitDecimal
		}
		return &ast.LiteralPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span.Merge(n.Span)}, Kind: kind, Raw: "-" + n.Text}, nil
	case lexer.QUOTE:
		return p.parseTagPattern()
	case lexer.LBRACKET:
		return p.parseListPattern()
	case lexer.IDENT:
		p.bump()
		if tok.Text == "_" {
			return &ast.WildcardPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}}, nil
		}
		return &ast.VarPattern{SpannedPattern: ast.SpannedPattern{Sp: tok.Span}, Name: tok.Text}, nil
	default:
		return nil, p.errf(diag.KindParseUnexpected, "unexpected token %s in pattern", fmtTok(tok))
	}
}

// parseTagPattern parses `'tag` or `'tag(p1 p2 …)` — a tagged-variant
// match, used to destructure the uncertainty-number constructors (spec
// §5) inside a match clause.
func (p *Parser) parseTagPattern() (ast.Pattern, error) {
	quote := p.bump() // consume '\''
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	sp := quote.Span.Merge(name.Span)
	if !p.at(lexer.LPAREN) {
		return &ast.TagPattern{SpannedPattern: ast.SpannedPattern{Sp: sp}, Tag: name.Text}, nil
	}
	p.bump() // consume '('
	var fields []ast.Pattern
	for !p.at(lexer.RPAREN) {
		field, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if p.at(lexer.COMMA) {
			p.bump()
		}
	}
	close, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.TagPattern{SpannedPattern: ast.SpannedPattern{Sp: sp.Merge(close.Span)}, Tag: name.Text, Fields: fields}, nil
}

// parseListPattern parses `[p1 p2 …]`.
func (p *Parser) parseListPattern() (ast.Pattern, error) {
	open := p.bump() // consume '['
	var elems []ast.Pattern
	for !p.at(lexer.RBRACKET) {
		elem, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.at(lexer.COMMA) {
			p.bump()
		}
	}
	close, err := p.expect(lexer.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.ListPattern{SpannedPattern: ast.SpannedPattern{Sp: open.Span.Merge(close.Span)}, Elems: elems}, nil
}
