package parser

import (
	"github.com/aledsdavies/betlang/internal/ast"
	"github.com/aledsdavies/betlang/internal/lexer"
	"github.com/aledsdavies/betlang/internal/source"
)

// parseSExprFormBody parses a special form's contents once its '(' and
// head keyword have already been consumed; the caller then expects and
// consumes the closing ')'.
func (p *Parser) parseSExprFormBody(open lexer.Token, head string) (ast.Node, error) {
	switch head {
	case "bet":
		return p.parseBetArgs(open.Span)
	case "bet-weighted":
		outcomes, err := p.parseWeightedOutcomes(lexer.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.BetWeighted{Spanned: ast.Spanned{Sp: open.Span}, Outcomes: outcomes}, nil
	case "bet-conditional":
		return p.parseBetConditionalArgs(open.Span)
	case "bet-lazy":
		return p.parseBetLazyArgs(open.Span)
	case "let":
		bindings, err := p.parseBindingList()
		if err != nil {
			return nil, err
		}
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Let{Spanned: ast.Spanned{Sp: open.Span.Merge(body.Span())}, Bindings: bindings, Body: body}, nil
	case "if":
		cond, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		thenE, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		elseE, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.If{Spanned: ast.Spanned{Sp: open.Span.Merge(elseE.Span())}, Cond: cond, Then: thenE, Else: elseE}, nil
	case "match":
		scrutinee, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		var clauses []ast.MatchClause
		for p.at(lexer.LPAREN) {
			p.bump()
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			expr, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			clauses = append(clauses, ast.MatchClause{Pattern: pat, Expr: expr})
		}
		return &ast.Match{Spanned: ast.Spanned{Sp: open.Span}, Scrutinee: scrutinee, Clauses: clauses}, nil
	case "do":
		stmts, ret, err := p.parseDoStmtsSExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Do{Spanned: ast.Spanned{Sp: open.Span}, Stmts: stmts, Return: ret}, nil
	case "lambda":
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Spanned: ast.Spanned{Sp: open.Span.Merge(body.Span())}, Params: params, Body: body}, nil
	case "define":
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		expr, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Define{Spanned: ast.Spanned{Sp: open.Span.Merge(expr.Span())}, Name: name.Text, Expr: expr}, nil
	case "with-seed":
		seed, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		thunk, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.WithSeed{Spanned: ast.Spanned{Sp: open.Span.Merge(thunk.Span())}, Seed: seed, Thunk: thunk}, nil
	case "parallel":
		n, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Parallel{Spanned: ast.Spanned{Sp: open.Span.Merge(body.Span())}, N: n, Body: body}, nil
	case "sample":
		dist, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Sample{Spanned: ast.Spanned{Sp: open.Span.Merge(dist.Span())}, Dist: dist}, nil
	case "validated-bet":
		return p.parseValidatedBetArgs(open.Span)
	}
	return nil, p.errf(0, "unreachable special form %q", head)
}

// parseKeywordFormBody parses a special form's contents once its
// leading keyword has already been consumed; the caller then expects
// `end` afterward (except `define`, which has none).
func (p *Parser) parseKeywordFormBody(start source.Span, head string) (ast.Node, error) {
	switch head {
	case "bet":
		return p.parseBetArgs(start)
	case "bet-weighted":
		outcomes, err := p.parseWeightedOutcomes(lexer.END)
		if err != nil {
			return nil, err
		}
		return &ast.BetWeighted{Spanned: ast.Spanned{Sp: start}, Outcomes: outcomes}, nil
	case "bet-conditional":
		return p.parseBetConditionalArgs(start)
	case "bet-lazy":
		return p.parseBetLazyArgs(start)
	case "let":
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		var bindings []ast.Binding
		if p.at(lexer.EQUALS) {
			p.bump()
			val, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			bindings = []ast.Binding{{Name: name.Text, Value: val}}
		} else {
			return nil, p.errf(0, "expected '=' after let-bound name %q", name.Text)
		}
		if err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Let{Spanned: ast.Spanned{Sp: start.Merge(body.Span())}, Bindings: bindings, Body: body}, nil
	case "if":
		cond, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("then"); err != nil {
			return nil, err
		}
		thenE, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("else"); err != nil {
			return nil, err
		}
		elseE, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.If{Spanned: ast.Spanned{Sp: start.Merge(elseE.Span())}, Cond: cond, Then: thenE, Else: elseE}, nil
	case "match":
		scrutinee, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("with"); err != nil {
			return nil, err
		}
		var clauses []ast.MatchClause
		for {
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.ARROW); err != nil {
				return nil, err
			}
			expr, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, ast.MatchClause{Pattern: pat, Expr: expr})
			if p.at(lexer.PIPE) {
				p.bump()
				continue
			}
			break
		}
		return &ast.Match{Spanned: ast.Spanned{Sp: start}, Scrutinee: scrutinee, Clauses: clauses}, nil
	case "do":
		stmts, ret, err := p.parseDoStmts(true)
		if err != nil {
			return nil, err
		}
		return &ast.Do{Spanned: ast.Spanned{Sp: start}, Stmts: stmts, Return: ret}, nil
	case "lambda":
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ARROW); err != nil {
			return nil, err
		}
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Spanned: ast.Spanned{Sp: start.Merge(body.Span())}, Params: params, Body: body}, nil
	case "define":
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQUALS); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Define{Spanned: ast.Spanned{Sp: start.Merge(expr.Span())}, Name: name.Text, Expr: expr}, nil
	case "with-seed":
		seed, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		thunk, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.WithSeed{Spanned: ast.Spanned{Sp: start.Merge(thunk.Span())}, Seed: seed, Thunk: thunk}, nil
	case "parallel":
		n, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("do"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Parallel{Spanned: ast.Spanned{Sp: start.Merge(body.Span())}, N: n, Body: body}, nil
	case "sample":
		dist, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.Sample{Spanned: ast.Spanned{Sp: start.Merge(dist.Span())}, Dist: dist}, nil
	case "validated-bet":
		return p.parseValidatedBetArgs(start)
	}
	return nil, p.errf(0, "unreachable special form %q", head)
}

func (p *Parser) parseBetArgs(start source.Span) (ast.Node, error) {
	a, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	b, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	c, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Bet{Spanned: ast.Spanned{Sp: start.Merge(c.Span())}, A: a, B: b, C: c}, nil
}

func (p *Parser) parseBetConditionalArgs(start source.Span) (ast.Node, error) {
	pred, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	t, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	f, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	u, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.BetConditional{
		Spanned: ast.Spanned{Sp: start.Merge(u.Span())},
		Pred:    pred, True: t, False: f, Unconditional: u,
	}, nil
}

func (p *Parser) parseBetLazyArgs(start source.Span) (ast.Node, error) {
	a, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	b, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	c, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.BetLazy{Spanned: ast.Spanned{Sp: start.Merge(c.Span())}, ThunkA: a, ThunkB: b, ThunkC: c}, nil
}

func (p *Parser) parseValidatedBetArgs(start source.Span) (ast.Node, error) {
	probs, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	prob, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	odds, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	stake, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &ast.ValidatedBet{
		Spanned: ast.Spanned{Sp: start.Merge(stake.Span())},
		Probs:   probs, P: prob, Odds: odds, Stake: stake,
	}, nil
}

// parseDoStmtsSExpr parses the S-expression do-block surface: each
// statement is its own parenthesized form, `(n <- e)` or `(e)`,
// terminated by `(return e)`.
func (p *Parser) parseDoStmtsSExpr() ([]ast.Stmt, ast.Node, error) {
	var stmts []ast.Stmt
	for {
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, nil, err
		}
		if p.atKeyword("return") {
			p.bump()
			ret, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, nil, err
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, nil, err
			}
			return stmts, ret, nil
		}
		if p.at(lexer.IDENT) && p.toks[p.pos+1].Kind == lexer.BINDARROW {
			name := p.bump()
			p.bump()
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
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, nil, err
		}
	}
}
