package parser

import (
	"github.com/aledsdavies/betlang/internal/ast"
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/lexer"
)

// specialForms is the set of keywords that introduce a primitive form
// rather than an ordinary identifier, shared between both surface
// syntaxes' dispatch (spec §4.2).
var specialForms = map[string]bool{
	"bet": true, "bet-weighted": true, "bet-conditional": true,
	"bet-lazy": true, "let": true, "if": true, "match": true,
	"do": true, "lambda": true, "define": true, "with-seed": true,
	"parallel": true, "sample": true, "validated-bet": true,
}

// parsePrimary parses one atomic expression: a literal, a quoted
// symbol, an identifier, a parenthesized S-expression, or a bare
// keyword form.
func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.INT:
		p.bump()
		return &ast.Literal{Spanned: ast.Spanned{Sp: tok.Span}, Kind: ast.LitInt, Raw: tok.Text}, nil
	case lexer.RATIONAL:
		p.bump()
		return &ast.Literal{Spanned: ast.Spanned{Sp: tok.Span}, Kind: ast.LitRational, Raw: tok.Text}, nil
	case lexer.DECIMAL:
		p.bump()
		return &ast.Literal{Spanned: ast.Spanned{Sp: tok.Span}, Kind: ast.LitDecimal, Raw: tok.Text}, nil
	case lexer.STRING:
		p.bump()
		return &ast.Literal{Spanned: ast.Spanned{Sp: tok.Span}, Kind: ast.LitString, Raw: tok.Text}, nil
	case lexer.TRUE:
		p.bump()
		return &ast.Literal{Spanned: ast.Spanned{Sp: tok.Span}, Kind: ast.LitBool, Raw: "true"}, nil
	case lexer.FALSE:
		p.bump()
		return &ast.Literal{Spanned: ast.Spanned{Sp: tok.Span}, Kind: ast.LitBool, Raw: "false"}, nil
	case lexer.QUOTE:
		p.bump()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Spanned: ast.Spanned{Sp: tok.Span.Merge(name.Span)}, Kind: ast.LitSymbol, Raw: name.Text}, nil
	case lexer.IDENT:
		p.bump()
		return &ast.Ident{Spanned: ast.Spanned{Sp: tok.Span}, Name: tok.Text}, nil
	case lexer.LPAREN:
		return p.parseParenForm()
	case lexer.KEYWORD:
		if specialForms[tok.Text] {
			return p.parseBareKeywordForm(tok.Text)
		}
		return nil, p.errf(diag.KindParseUnexpected, "unexpected keyword %s", fmtTok(tok))
	default:
		return nil, p.errf(diag.KindParseUnexpected, "unexpected token %s", fmtTok(tok))
	}
}

// parseParenForm parses `(...)`: either a special form (head is a
// reserved keyword), a grouping `(expr)`, or a generic application
// `(f arg*)`.
func (p *Parser) parseParenForm() (ast.Node, error) {
	open := p.bump() // consume '('
	if p.cur().Kind == lexer.KEYWORD && specialForms[p.cur().Text] {
		head := p.cur().Text
		p.bump()
		node, err := p.parseSExprFormBody(open, head)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return node, nil
	}

	// Either a grouping or a generic application; parse the head
	// expression, then zero or more argument expressions until ')'. An
	// infix operator in head position names its primitive, as in
	// `(+ 1 2)`.
	var head ast.Node
	opTok := p.cur()
	opKw := ""
	if opTok.Kind == lexer.KEYWORD {
		opKw = opTok.Text
	}
	if _, isOp := binPrec(opTok.Kind, opKw); isOp {
		p.bump()
		head = &ast.Ident{Spanned: ast.Spanned{Sp: opTok.Span}, Name: opTok.Text}
	} else {
		h, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		head = h
	}
	if p.at(lexer.RPAREN) {
		close := p.bump()
		_ = close
		return head, nil // bare grouping `(expr)`
	}
	var args []ast.Node
	for !p.at(lexer.RPAREN) {
		arg, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	close, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	if id, ok := head.(*ast.Ident); ok && opTok.Kind == lexer.MINUS && id.Name == "-" && len(args) == 1 {
		id.Name = "neg" // `(- x)` is negation
	}
	return &ast.Apply{Spanned: ast.Spanned{Sp: open.Span.Merge(close.Span)}, Fn: head, Args: args}, nil
}

// parseBareKeywordForm parses the keyword/`end` surface: `bet a b c
// end`, `let n = v in body end`, etc. — the same special forms as
// parseSExprFormBody but terminated by `end` instead of `)`.
func (p *Parser) parseBareKeywordForm(head string) (ast.Node, error) {
	start := p.cur().Span
	p.bump() // consume the leading keyword
	node, err := p.parseKeywordFormBody(start, head)
	if err != nil {
		return nil, err
	}
	if head != "define" {
		if err := p.expectKeyword("end"); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// --- shared sub-parsers used by both surfaces ---

// parseBindingList parses the bindings of an S-expression `let`. It
// accepts `((n v) …)`, with the outer parens doing double duty as the
// form's own grouping and each pair `(n v)`, a bracketed `[(n v) …]`,
// or a single bare `n = v`. The keyword-form `let` does not use it: it
// binds exactly one `n = v` before `in`.
func (p *Parser) parseBindingList() ([]ast.Binding, error) {
	switch {
	case p.at(lexer.LBRACKET):
		p.bump()
		bindings, err := p.parseBindingPairs(lexer.RBRACKET)
		if err != nil {
			return nil, err
		}
		p.bump() // consume ']'
		return bindings, nil
	case p.at(lexer.LPAREN) && p.toks[p.pos+1].Kind == lexer.LPAREN:
		p.bump()
		bindings, err := p.parseBindingPairs(lexer.RPAREN)
		if err != nil {
			return nil, err
		}
		p.bump() // consume ')'
		return bindings, nil
	default:
		// `n = v` — single keyword-form binding.
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQUALS); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return []ast.Binding{{Name: name.Text, Value: val}}, nil
	}
}

// parseBindingPairs parses a run of `(name value)` pairs up to (not
// including) terminator.
func (p *Parser) parseBindingPairs(terminator lexer.Kind) ([]ast.Binding, error) {
	var bindings []ast.Binding
	for !p.at(terminator) {
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{Name: name.Text, Value: val})
	}
	return bindings, nil
}

// parseWeightedOutcomes parses the outcome list of a bet-weighted form:
// an optional leading quote (Lisp-style data quoting, which carries no
// semantic weight once the parser recognizes bet-weighted structurally)
// followed by one or more `(value weight)` pairs, themselves optionally
// wrapped in an outer `(...)` list.
func (p *Parser) parseWeightedOutcomes(closeKind lexer.Kind) ([]ast.WeightedOutcome, error) {
	if p.at(lexer.QUOTE) {
		p.bump()
	}
	outer := false
	if p.at(lexer.LPAREN) {
		// Ambiguous with the first pair's own '('; peek for a nested '('
		// immediately after, which only occurs for the wrapped-list form.
		if p.toks[p.pos+1].Kind == lexer.LPAREN {
			p.bump()
			outer = true
		}
	}
	var outcomes []ast.WeightedOutcome
	for {
		if outer && p.at(lexer.RPAREN) {
			break
		}
		if !outer && p.at(closeKind) {
			break
		}
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if p.at(lexer.COMMA) {
			p.bump()
		}
		weight, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, ast.WeightedOutcome{Value: val, Weight: weight})
		if !outer && p.at(closeKind) {
			break
		}
	}
	if outer {
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}

func (p *Parser) parseDoStmts(terminatorIsEnd bool) ([]ast.Stmt, ast.Node, error) {
	var stmts []ast.Stmt
	for {
		p.skipDoSeparators()
		if p.atKeyword("return") {
			p.bump()
			ret, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, nil, err
			}
			return stmts, ret, nil
		}
		// `name <- expr` bind, or a bare expression statement.
		if p.at(lexer.IDENT) && p.toks[p.pos+1].Kind == lexer.BINDARROW {
			name := p.bump()
			p.bump() // '<-'
			val, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, nil, err
			}
			stmts = append(stmts, ast.Stmt{BindName: name.Text, Expr: val})
		} else {
			val, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, nil, err
			}
			stmts = append(stmts, ast.Stmt{Expr: val})
		}
		if !p.atDoSeparator() {
			return nil, nil, p.errf(diag.KindParseExpected, "expected ';', newline, or 'return' in do block, found %s", fmtTok(p.cur()))
		}
	}
}

// skipDoSeparators consumes any run of ';' and/or newline tokens — both
// are statement separators inside a `do` block (spec §4.1).
func (p *Parser) skipDoSeparators() {
	for p.at(lexer.SEMICOLON) || p.at(lexer.NEWLINE) {
		p.bump()
	}
}

func (p *Parser) atDoSeparator() bool {
	return p.at(lexer.SEMICOLON) || p.at(lexer.NEWLINE) || p.atKeyword("return")
}

func (p *Parser) parseParams() ([]string, error) {
	var params []string
	for p.at(lexer.IDENT) {
		params = append(params, p.bump().Text)
	}
	return params, nil
}

