package parser

import (
	"github.com/aledsdavies/betlang/internal/ast"
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/lexer"
)

// Precedence levels for the keyword form's infix operators, high to
// low per spec §4.2: application, unary -, * /, + -, comparisons,
// and/or. Application itself is parsed as a postfix `f(args)` after any
// primary, so it never goes through this table.
type precedence int

const (
	precLowest precedence = iota
	precAndOr
	precCompare
	precAdd
	precMul
)

func binPrec(k lexer.Kind, keyword string) (precedence, bool) {
	switch {
	case k == lexer.KEYWORD && (keyword == "and" || keyword == "or"):
		return precAndOr, true
	case k == lexer.EQEQ || k == lexer.NOTEQ || k == lexer.LT || k == lexer.LE || k == lexer.GT || k == lexer.GE:
		return precCompare, true
	case k == lexer.PLUS || k == lexer.MINUS:
		return precAdd, true
	case k == lexer.STAR || k == lexer.SLASH:
		return precMul, true
	default:
		return precLowest, false
	}
}

// parseExpr is the precedence-climbing entry point shared by both
// surface syntaxes: every keyword form's sub-expressions, and every
// S-expression argument, bottom out here.
func (p *Parser) parseExpr(min precedence) (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		kw := ""
		if tok.Kind == lexer.KEYWORD {
			kw = tok.Text
		}
		prec, ok := binPrec(tok.Kind, kw)
		if !ok || prec < min {
			return left, nil
		}
		opTok := p.bump()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = binaryApply(opTok, left, right)
	}
}

// binaryApply desugars an infix operator into an Apply of its operator
// symbol, keeping a single Node representation for the evaluator to
// dispatch on (the same "everything is an application of a primitive
// name" shape the S-expression surface already uses natively).
func binaryApply(op lexer.Token, left, right ast.Node) ast.Node {
	name := op.Text
	return &ast.Apply{
		Spanned: ast.Spanned{Sp: op.Span},
		Fn:      &ast.Ident{Spanned: ast.Spanned{Sp: op.Span}, Name: name},
		Args:    []ast.Node{left, right},
	}
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.at(lexer.MINUS) {
		op := p.bump()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Apply{
			Spanned: ast.Spanned{Sp: op.Span.Merge(operand.Span())},
			Fn:      &ast.Ident{Spanned: ast.Spanned{Sp: op.Span}, Name: "neg"},
			Args:    []ast.Node{operand},
		}, nil
	}
	if p.atKeyword("not") {
		op := p.bump()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Apply{
			Spanned: ast.Spanned{Sp: op.Span.Merge(operand.Span())},
			Fn:      &ast.Ident{Spanned: ast.Spanned{Sp: op.Span}, Name: "not"},
			Args:    []ast.Node{operand},
		}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any number of
// `(args)` call suffixes — BetLang's keyword-form application. A `(`
// is a call suffix only when it directly follows the expression with
// no whitespace between (`f(x)`); a spaced `(`, as in the S-expression
// `(with-seed 1 (bet a b c))`, starts the next argument instead.
func (p *Parser) parsePostfix() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.LPAREN) && p.cur().Span.Start.Offset == expr.Span().End.Offset {
		start := expr.Span()
		p.bump()
		var args []ast.Node
		for !p.at(lexer.RPAREN) {
			arg, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.at(lexer.COMMA) {
				p.bump()
			} else {
				break
			}
		}
		closeTok, err := p.expect(lexer.RPAREN)
		if err != nil {
			return nil, err
		}
		expr = &ast.Apply{
			Spanned: ast.Spanned{Sp: start.Merge(closeTok.Span)},
			Fn:      expr,
			Args:    args,
		}
	}
	return expr, nil
}

var _ = diag.KindParseUnexpected
