package parser

import (
	"strings"

	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/lexer"
)

// Precedence levels, lowest to highest. parseExpr takes the minimum
// precedence an infix operator must have to keep binding.
const (
	LOWEST int = iota
	ASSIGN     // =
	TERNARY    // ?:
	NULLISH    // ??
	LOGOR      // ||
	LOGAND     // &&
	EQUALITY   // == !=
	COMPARE    // < > <= >=
	ADDITIVE   // + -
	MULT       // * / %
	CAST       // as
	UNARY      // ! - typeof await clone ref/mut ref
	CALL       // () [] . ?. new
)

var precedences = map[lexer.TokenKind]int{
	lexer.Assign:           ASSIGN,
	lexer.PlusAssign:       ASSIGN,
	lexer.MinusAssign:      ASSIGN,
	lexer.StarAssign:       ASSIGN,
	lexer.SlashAssign:      ASSIGN,
	lexer.Question:         TERNARY,
	lexer.QuestionQuestion: NULLISH,
	lexer.PipePipe:         LOGOR,
	lexer.AmpAmp:           LOGAND,
	lexer.EqEq:             EQUALITY,
	lexer.NotEq:            EQUALITY,
	lexer.Lt:               COMPARE,
	lexer.Gt:               COMPARE,
	lexer.LtEq:             COMPARE,
	lexer.GtEq:             COMPARE,
	lexer.Plus:             ADDITIVE,
	lexer.Minus:            ADDITIVE,
	lexer.Star:             MULT,
	lexer.Slash:            MULT,
	lexer.Percent:          MULT,
	lexer.KwAs:             CAST,
	lexer.LParen:           CALL,
	lexer.LBracket:         CALL,
	lexer.Dot:              CALL,
	lexer.QuestionDot:      CALL,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}

// parseExpr parses an expression, consuming infix/postfix operators
// whose precedence exceeds minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for minPrec < p.peekPrecedence() {
		left = p.parseInfix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	start := p.cur.Span
	switch p.cur.Kind {
	case lexer.Number:
		val := p.cur.Value
		p.next()
		return &ast.LitExpr{BaseExpr: ast.BaseExpr{Sp: start}, Kind: ast.LitNumber, Num: parseFloat(val)}
	case lexer.String:
		val := p.cur.Value
		p.next()
		return &ast.LitExpr{BaseExpr: ast.BaseExpr{Sp: start}, Kind: ast.LitString, Str: val}
	case lexer.TemplateString:
		return p.parseTemplate()
	case lexer.KwTrue:
		p.next()
		return &ast.LitExpr{BaseExpr: ast.BaseExpr{Sp: start}, Kind: ast.LitBoolean, Bool: true}
	case lexer.KwFalse:
		p.next()
		return &ast.LitExpr{BaseExpr: ast.BaseExpr{Sp: start}, Kind: ast.LitBoolean, Bool: false}
	case lexer.KwNull:
		p.next()
		return &ast.LitExpr{BaseExpr: ast.BaseExpr{Sp: start}, Kind: ast.LitNull}
	case lexer.KwUndefined:
		p.next()
		return &ast.LitExpr{BaseExpr: ast.BaseExpr{Sp: start}, Kind: ast.LitUndefined}
	case lexer.KwThis:
		p.next()
		return &ast.IdentExpr{BaseExpr: ast.BaseExpr{Sp: start}, Name: "this"}
	case lexer.KwSuper:
		p.next()
		return &ast.IdentExpr{BaseExpr: ast.BaseExpr{Sp: start}, Name: "super"}
	case lexer.Ident:
		return p.parseIdentOrArrow()
	case lexer.LParen:
		return p.parseParenOrArrow()
	case lexer.LBracket:
		return p.parseArrayLit()
	case lexer.LBrace:
		return p.parseObjectLit()
	case lexer.KwNew:
		return p.parseNew()
	case lexer.KwFunction:
		return p.parseFuncExpr(false)
	case lexer.KwAsync:
		p.next()
		if p.at(lexer.KwFunction) {
			return p.parseFuncExpr(true)
		}
		return p.parseArrowFrom(start, true)
	case lexer.KwAwait:
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.AwaitExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Operand: operand}
	case lexer.KwClone:
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.CloneExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Operand: operand}
	case lexer.KwRef:
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.BorrowExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Mutable: false, Operand: operand}
	case lexer.KwMut:
		p.next()
		p.expect(lexer.KwRef, "'ref' after 'mut'")
		operand := p.parseExpr(UNARY)
		return &ast.BorrowExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Mutable: true, Operand: operand}
	case lexer.KwTypeof:
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Op: ast.TypeOf, Operand: operand}
	case lexer.Bang:
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Op: ast.Not, Operand: operand}
	case lexer.Minus:
		p.next()
		operand := p.parseExpr(UNARY)
		return &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Op: ast.Neg, Operand: operand}
	default:
		p.errorf(p.cur.Span, "unexpected token in expression")
		p.next()
		return nil
	}
}

func (p *Parser) parseIdentOrArrow() ast.Expr {
	start := p.cur.Span
	name := p.cur.Value
	if p.peek.Kind == lexer.Arrow {
		p.next() // consume ident
		p.next() // consume =>
		return p.parseArrowBodyFrom(start, []ast.Param{{Name: name}}, false)
	}
	p.next()
	return &ast.IdentExpr{BaseExpr: ast.BaseExpr{Sp: start}, Name: name}
}

// parseParenOrArrow disambiguates `(expr)` from `(params) => body`.
func (p *Parser) parseParenOrArrow() ast.Expr {
	start := p.cur.Span
	if looksLikeArrowParams(p) {
		params := p.parseParamList()
		var ret ast.TypeAnn
		if p.accept(lexer.Colon) {
			ret = p.parseTypeAnn()
		}
		p.expect(lexer.Arrow, "'=>'")
		fn := p.parseArrowBodyFrom(start, params, false)
		if f, ok := fn.(*ast.FuncExpr); ok {
			f.Return = ret
		}
		return fn
	}
	p.next() // '('
	x := p.parseExpr(LOWEST)
	p.expect(lexer.RParen, "')'")
	return x
}

// looksLikeArrowParams decides from the one token of peek after `(`
// whether the group is an arrow parameter list: an empty `()` or a
// list whose first token is an ownership keyword (`owned`, `ref`,
// `mut`) is. Any other group, including `(x) => ...` and
// `(a: T, b) => ...`, is parsed as a parenthesized expression.
func looksLikeArrowParams(p *Parser) bool {
	if p.peek.Kind == lexer.RParen {
		return true
	}
	switch p.peek.Kind {
	case lexer.KwOwned, lexer.KwRef, lexer.KwMut:
		return true
	}
	return false
}

func (p *Parser) parseArrowFrom(start ast.Span, isAsync bool) ast.Expr {
	params := p.parseParamList()
	p.expect(lexer.Arrow, "'=>'")
	return p.parseArrowBodyFrom(start, params, isAsync)
}

func (p *Parser) parseArrowBodyFrom(start ast.Span, params []ast.Param, isAsync bool) ast.Expr {
	var body []ast.Stmt
	if p.at(lexer.LBrace) {
		body = p.parseBlock().Stmts
	} else {
		x := p.parseExpr(ASSIGN)
		body = []ast.Stmt{&ast.ReturnStmt{X: x}}
	}
	return &ast.FuncExpr{
		BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)},
		Params:   params, Body: body, IsAsync: isAsync, IsArrow: true,
	}
}

func (p *Parser) parseFuncExpr(isAsync bool) ast.Expr {
	start := p.cur.Span
	p.expect(lexer.KwFunction, "'function'")
	name := ""
	if p.at(lexer.Ident) {
		name = p.cur.Value
		p.next()
	}
	params := p.parseParamList()
	var ret ast.TypeAnn
	if p.accept(lexer.Colon) {
		ret = p.parseTypeAnn()
	}
	body := p.parseBlock()
	return &ast.FuncExpr{
		BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)},
		Name:     name, Params: params, Return: ret, Body: body.Stmts, IsAsync: isAsync,
	}
}

// parseNew parses `new Callee(args...)`. Callee is restricted to a
// dotted identifier chain so the constructor call's own parens are
// not mistaken for a call on the NewExpr result.
func (p *Parser) parseNew() ast.Expr {
	start := p.cur.Span
	p.next()

	var callee ast.Expr = &ast.IdentExpr{BaseExpr: ast.BaseExpr{Sp: p.cur.Span}, Name: p.cur.Value}
	p.expect(lexer.Ident, "identifier")
	for p.at(lexer.Dot) {
		callee = p.parseMember(callee, false)
	}

	var args []ast.Arg
	if p.accept(lexer.LParen) {
		for !p.at(lexer.RParen) && !p.at(lexer.Eof) {
			args = append(args, p.parseArg())
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RParen, "')'")
	}
	return &ast.NewExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Callee: callee, Args: args}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.cur.Span
	p.next()
	var elems []ast.Expr
	for !p.at(lexer.RBracket) && !p.at(lexer.Eof) {
		elems = append(elems, p.parseExpr(ASSIGN))
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBracket, "']'")
	return &ast.ArrayLitExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Elems: elems}
}

func (p *Parser) parseObjectLit() ast.Expr {
	start := p.cur.Span
	p.next()
	var fields []ast.ObjectField
	for !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
		key := p.cur.Value
		if p.at(lexer.String) || p.at(lexer.Ident) {
			p.next()
		} else {
			p.errorf(p.cur.Span, "expected object key")
			p.next()
		}
		var value ast.Expr
		if p.accept(lexer.Colon) {
			value = p.parseExpr(ASSIGN)
		} else {
			value = &ast.IdentExpr{Name: key}
		}
		fields = append(fields, ast.ObjectField{Key: key, Value: value})
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RBrace, "'}'")
	return &ast.ObjectLitExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Fields: fields}
}

func (p *Parser) parseTemplate() ast.Expr {
	start := p.cur.Span
	raw := p.cur.Value
	p.next()

	var quasis []string
	var exprs []ast.Expr
	var sb strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			quasis = append(quasis, sb.String())
			sb.Reset()
			depth := 1
			j := i + 2
			start2 := j
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			sub := raw[start2:j]
			subLex := lexer.New(sub, start.SourceID)
			subParser := New(subLex, nil)
			exprs = append(exprs, subParser.parseExpr(LOWEST))
			p.errors = append(p.errors, subParser.errors...)
			i = j + 1
			continue
		}
		sb.WriteByte(raw[i])
		i++
	}
	quasis = append(quasis, sb.String())

	return &ast.TemplateExpr{BaseExpr: ast.BaseExpr{Sp: start}, Quasis: quasis, Exprs: exprs}
}

func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	switch p.cur.Kind {
	case lexer.LParen:
		return p.parseCall(left)
	case lexer.LBracket:
		return p.parseIndex(left)
	case lexer.Dot:
		return p.parseMember(left, false)
	case lexer.QuestionDot:
		return p.parseMember(left, true)
	case lexer.Question:
		return p.parseTernary(left)
	case lexer.KwAs:
		return p.parseCast(left)
	case lexer.Assign, lexer.PlusAssign, lexer.MinusAssign, lexer.StarAssign, lexer.SlashAssign:
		return p.parseAssign(left)
	default:
		return p.parseBinary(left)
	}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	start := callee.Span()
	p.next() // '('
	var args []ast.Arg
	for !p.at(lexer.RParen) && !p.at(lexer.Eof) {
		args = append(args, p.parseArg())
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	return &ast.CallExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Callee: callee, Args: args}
}

// parseArg reads one call argument, recognizing the ownership-transfer
// prefixes `ref`, `mut ref`, and `clone`; a bare expression is a move.
func (p *Parser) parseArg() ast.Arg {
	switch p.cur.Kind {
	case lexer.KwRef:
		p.next()
		return ast.Arg{Mode: ast.ArgBorrow, Value: p.parseExpr(ASSIGN)}
	case lexer.KwMut:
		p.next()
		p.expect(lexer.KwRef, "'ref' after 'mut'")
		return ast.Arg{Mode: ast.ArgMutBorrow, Value: p.parseExpr(ASSIGN)}
	case lexer.KwClone:
		p.next()
		return ast.Arg{Mode: ast.ArgClone, Value: p.parseExpr(ASSIGN)}
	default:
		return ast.Arg{Mode: ast.ArgMove, Value: p.parseExpr(ASSIGN)}
	}
}

func (p *Parser) parseIndex(obj ast.Expr) ast.Expr {
	start := obj.Span()
	p.next()
	idx := p.parseExpr(LOWEST)
	p.expect(lexer.RBracket, "']'")
	return &ast.IndexExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Obj: obj, Index: idx}
}

func (p *Parser) parseMember(obj ast.Expr, optional bool) ast.Expr {
	start := obj.Span()
	p.next()
	name := p.cur.Value
	p.expect(lexer.Ident, "identifier")
	return &ast.MemberExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Obj: obj, Name: name, Optional: optional}
}

func (p *Parser) parseTernary(cond ast.Expr) ast.Expr {
	start := cond.Span()
	p.next() // '?'
	then := p.parseExpr(ASSIGN)
	p.expect(lexer.Colon, "':'")
	els := p.parseExpr(ASSIGN)
	return &ast.TernaryExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseCast(operand ast.Expr) ast.Expr {
	start := operand.Span()
	p.next() // 'as'
	typ := p.parseTypeAnn()
	return &ast.CastExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Operand: operand, Type: typ}
}

func (p *Parser) parseAssign(target ast.Expr) ast.Expr {
	start := target.Span()
	op := p.cur.Kind
	p.next()
	value := p.parseExpr(ASSIGN - 1)
	if op != lexer.Assign {
		binOp := compoundOp(op)
		value = &ast.BinaryExpr{Op: binOp, Left: target, Right: value}
	}
	return &ast.AssignExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Target: target, Value: value}
}

func compoundOp(k lexer.TokenKind) ast.BinaryOp {
	switch k {
	case lexer.PlusAssign:
		return ast.Add
	case lexer.MinusAssign:
		return ast.Sub
	case lexer.StarAssign:
		return ast.Mul
	case lexer.SlashAssign:
		return ast.Div
	default:
		return ast.Add
	}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	start := left.Span()
	op, ok := binaryOpOf(p.cur.Kind)
	if !ok {
		p.errorf(p.cur.Span, "unexpected operator")
		p.next()
		return left
	}
	prec := precedences[p.cur.Kind]
	p.next()
	right := p.parseExpr(prec)
	return &ast.BinaryExpr{BaseExpr: ast.BaseExpr{Sp: spanTo(start, p.cur.Span)}, Op: op, Left: left, Right: right}
}

func binaryOpOf(k lexer.TokenKind) (ast.BinaryOp, bool) {
	switch k {
	case lexer.Plus:
		return ast.Add, true
	case lexer.Minus:
		return ast.Sub, true
	case lexer.Star:
		return ast.Mul, true
	case lexer.Slash:
		return ast.Div, true
	case lexer.Percent:
		return ast.Mod, true
	case lexer.EqEq:
		return ast.Eq, true
	case lexer.NotEq:
		return ast.NotEq, true
	case lexer.Lt:
		return ast.Lt, true
	case lexer.Gt:
		return ast.Gt, true
	case lexer.LtEq:
		return ast.LtEq, true
	case lexer.GtEq:
		return ast.GtEq, true
	case lexer.AmpAmp:
		return ast.LogAnd, true
	case lexer.PipePipe:
		return ast.LogOr, true
	case lexer.QuestionQuestion:
		return ast.NullishCoalesce, true
	default:
		return 0, false
	}
}
