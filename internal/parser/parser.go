package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/lexer"
)

// Parser turns one source file's token stream into an ast.Module.
// Modeled on a classic cur/peek two-token lookahead recursive-descent
// parser with Pratt expression parsing; errors accumulate rather than
// aborting at the first one.
type Parser struct {
	l        *lexer.Lexer
	source   *ast.Source
	cur      lexer.Token
	peek     lexer.Token
	errors   []Error
}

// New creates a Parser over source, reading tokens from l.
func New(l *lexer.Lexer, source *ast.Source) *Parser {
	p := &Parser{l: l, source: source}
	p.next()
	p.next()
	return p
}

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []Error { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) errorf(sp ast.Span, format string, args ...any) {
	p.errors = append(p.errors, Error{Span: sp, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(kind lexer.TokenKind, what string) ast.Span {
	sp := p.cur.Span
	if p.cur.Kind != kind {
		p.errorf(p.cur.Span, "expected "+what)
		return sp
	}
	p.next()
	return sp
}

func (p *Parser) at(kind lexer.TokenKind) bool { return p.cur.Kind == kind }

// accept consumes the current token and returns true if it matches kind.
func (p *Parser) accept(kind lexer.TokenKind) bool {
	if p.cur.Kind == kind {
		p.next()
		return true
	}
	return false
}

// ParseModule parses one complete source file.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{Source: p.source}
	for !p.at(lexer.Eof) {
		start := p.cur.Span
		stmt := p.parseStmt()
		if stmt == nil {
			// Parse failure: skip the offending token to make forward
			// progress and keep collecting errors.
			if p.cur.Span == start {
				p.next()
			}
			continue
		}
		mod.Stmts = append(mod.Stmts, stmt)
	}
	return mod
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case lexer.KwLet, lexer.KwConst, lexer.KwVar:
		return p.parseVarDecl()
	case lexer.KwFunction:
		return p.parseFuncDecl(false)
	case lexer.KwAsync:
		return p.parseAsyncFuncDecl(false)
	case lexer.KwClass:
		return p.parseClassDecl(false)
	case lexer.KwInterface:
		return p.parseInterfaceDecl(false)
	case lexer.KwImport:
		return p.parseImportDecl()
	case lexer.KwExport:
		return p.parseExport()
	case lexer.LBrace:
		return p.parseBlock()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwFor:
		return p.parseFor()
	case lexer.KwSwitch:
		return p.parseSwitch()
	case lexer.KwTry:
		return p.parseTry()
	case lexer.KwThrow:
		return p.parseThrow()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwBreak:
		sp := p.cur.Span
		p.next()
		p.accept(lexer.Semicolon)
		return &ast.BreakStmt{BaseStmt: ast.BaseStmt{Sp: sp}}
	case lexer.KwContinue:
		sp := p.cur.Span
		p.next()
		p.accept(lexer.Semicolon)
		return &ast.ContinueStmt{BaseStmt: ast.BaseStmt{Sp: sp}}
	case lexer.Semicolon:
		p.next()
		return p.parseStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseExport() ast.Stmt {
	p.next() // 'export'
	switch p.cur.Kind {
	case lexer.KwFunction:
		return p.parseFuncDecl(true)
	case lexer.KwAsync:
		return p.parseAsyncFuncDecl(true)
	case lexer.KwClass:
		return p.parseClassDecl(true)
	case lexer.KwInterface:
		return p.parseInterfaceDecl(true)
	default:
		p.errorf(p.cur.Span, "expected declaration after export")
		return nil
	}
}

func (p *Parser) parseVarDecl() ast.Stmt {
	start := p.cur.Span
	var kind ast.VariableKind
	switch p.cur.Kind {
	case lexer.KwLet:
		kind = ast.KindLet
	case lexer.KwConst:
		kind = ast.KindConst
	case lexer.KwVar:
		kind = ast.KindVar
	}
	p.next()

	mode := p.parseOptionalOwnership()

	name := p.cur.Value
	p.expect(lexer.Ident, "identifier")

	var ann ast.TypeAnn
	if p.accept(lexer.Colon) {
		ann = p.parseTypeAnn()
	}

	var init ast.Expr
	if p.accept(lexer.Assign) {
		init = p.parseExpr(LOWEST)
	}
	end := p.cur.Span
	p.accept(lexer.Semicolon)

	return &ast.VarDeclStmt{
		BaseStmt:   baseStmtAt(start, end),
		Kind:       kind,
		Name:       name,
		Mode:       mode,
		Annotation: ann,
		Init:       init,
	}
}

// parseOptionalOwnership consumes a leading `owned`/`ref`/`mut ref`
// annotation on a binding or parameter, defaulting to Owned.
func (p *Parser) parseOptionalOwnership() ast.OwnershipMode {
	switch p.cur.Kind {
	case lexer.KwOwned:
		p.next()
		return ast.Owned
	case lexer.KwRef:
		p.next()
		return ast.Ref
	case lexer.KwMut:
		p.next()
		p.expect(lexer.KwRef, "'ref' after 'mut'")
		return ast.MutRef
	default:
		return ast.Owned
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur.Span
	x := p.parseExpr(LOWEST)
	end := p.cur.Span
	p.accept(lexer.Semicolon)
	if x == nil {
		return nil
	}
	return &ast.ExprStmt{BaseStmt: baseStmtAt(start, end), X: x}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(lexer.LBrace, "'{'")
	var stmts []ast.Stmt
	for !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		} else {
			p.next()
		}
	}
	end := p.cur.Span
	p.expect(lexer.RBrace, "'}'")
	return &ast.BlockStmt{BaseStmt: baseStmtAt(start, end), Stmts: stmts}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur.Span
	p.next()
	p.expect(lexer.LParen, "'('")
	cond := p.parseExpr(LOWEST)
	p.expect(lexer.RParen, "')'")
	then := p.parseBlock()
	var els ast.Stmt
	if p.accept(lexer.KwElse) {
		if p.at(lexer.KwIf) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.IfStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur.Span
	p.next()
	p.expect(lexer.LParen, "'('")
	cond := p.parseExpr(LOWEST)
	p.expect(lexer.RParen, "')'")
	body := p.parseBlock()
	return &ast.WhileStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur.Span
	p.next()
	p.expect(lexer.LParen, "'('")

	if p.at(lexer.KwLet) || p.at(lexer.KwConst) || p.at(lexer.KwVar) {
		var kind ast.VariableKind
		switch p.cur.Kind {
		case lexer.KwLet:
			kind = ast.KindLet
		case lexer.KwConst:
			kind = ast.KindConst
		case lexer.KwVar:
			kind = ast.KindVar
		}
		p.next()
		name := p.cur.Value
		p.expect(lexer.Ident, "identifier")

		if p.accept(lexer.KwIn) {
			obj := p.parseExpr(LOWEST)
			p.expect(lexer.RParen, "')'")
			body := p.parseBlock()
			return &ast.ForInStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Kind: kind, Name: name, Obj: obj, Body: body}
		}
		if p.accept(lexer.KwOf) {
			obj := p.parseExpr(LOWEST)
			p.expect(lexer.RParen, "')'")
			body := p.parseBlock()
			return &ast.ForOfStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Kind: kind, Name: name, Obj: obj, Body: body}
		}

		// classic for: finish the init declaration, fall through to C-style.
		var ann ast.TypeAnn
		if p.accept(lexer.Colon) {
			ann = p.parseTypeAnn()
		}
		var initExpr ast.Expr
		if p.accept(lexer.Assign) {
			initExpr = p.parseExpr(LOWEST)
		}
		initStmt := &ast.VarDeclStmt{Kind: kind, Name: name, Annotation: ann, Init: initExpr}
		p.expect(lexer.Semicolon, "';'")
		var cond ast.Expr
		if !p.at(lexer.Semicolon) {
			cond = p.parseExpr(LOWEST)
		}
		p.expect(lexer.Semicolon, "';'")
		var step ast.Expr
		if !p.at(lexer.RParen) {
			step = p.parseExpr(LOWEST)
		}
		p.expect(lexer.RParen, "')'")
		body := p.parseBlock()
		return &ast.ForStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Init: initStmt, Cond: cond, Step: step, Body: body}
	}

	var initStmt ast.Stmt
	if !p.at(lexer.Semicolon) {
		initStmt = p.parseExprStmtNoSemi()
	}
	p.expect(lexer.Semicolon, "';'")
	var cond ast.Expr
	if !p.at(lexer.Semicolon) {
		cond = p.parseExpr(LOWEST)
	}
	p.expect(lexer.Semicolon, "';'")
	var step ast.Expr
	if !p.at(lexer.RParen) {
		step = p.parseExpr(LOWEST)
	}
	p.expect(lexer.RParen, "')'")
	body := p.parseBlock()
	return &ast.ForStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Init: initStmt, Cond: cond, Step: step, Body: body}
}

func (p *Parser) parseExprStmtNoSemi() ast.Stmt {
	start := p.cur.Span
	x := p.parseExpr(LOWEST)
	if x == nil {
		return nil
	}
	return &ast.ExprStmt{BaseStmt: baseStmtAt(start, p.cur.Span), X: x}
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.cur.Span
	p.next()
	p.expect(lexer.LParen, "'('")
	tag := p.parseExpr(LOWEST)
	p.expect(lexer.RParen, "')'")
	p.expect(lexer.LBrace, "'{'")

	var cases []ast.SwitchCase
	for !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
		var test ast.Expr
		if p.accept(lexer.KwCase) {
			test = p.parseExpr(LOWEST)
		} else {
			p.expect(lexer.KwDefault, "'case' or 'default'")
		}
		p.expect(lexer.Colon, "':'")
		var body []ast.Stmt
		for !p.at(lexer.KwCase) && !p.at(lexer.KwDefault) && !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
			s := p.parseStmt()
			if s != nil {
				body = append(body, s)
			}
		}
		cases = append(cases, ast.SwitchCase{Test: test, Body: body})
	}
	p.expect(lexer.RBrace, "'}'")
	return &ast.SwitchStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Tag: tag, Cases: cases}
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.cur.Span
	p.next()
	body := p.parseBlock()
	var catch *ast.CatchClause
	var fin *ast.BlockStmt
	if p.accept(lexer.KwCatch) {
		name := ""
		if p.accept(lexer.LParen) {
			name = p.cur.Value
			p.expect(lexer.Ident, "identifier")
			p.expect(lexer.RParen, "')'")
		}
		catch = &ast.CatchClause{Name: name, Body: p.parseBlock()}
	}
	if p.accept(lexer.KwFinally) {
		fin = p.parseBlock()
	}
	return &ast.TryStmt{BaseStmt: baseStmtAt(start, p.cur.Span), Body: body, Catch: catch, Finally: fin}
}

func (p *Parser) parseThrow() ast.Stmt {
	start := p.cur.Span
	p.next()
	x := p.parseExpr(LOWEST)
	p.accept(lexer.Semicolon)
	return &ast.ThrowStmt{BaseStmt: baseStmtAt(start, p.cur.Span), X: x}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.cur.Span
	p.next()
	var x ast.Expr
	if !p.at(lexer.Semicolon) && !p.at(lexer.RBrace) {
		x = p.parseExpr(LOWEST)
	}
	p.accept(lexer.Semicolon)
	return &ast.ReturnStmt{BaseStmt: baseStmtAt(start, p.cur.Span), X: x}
}

func (p *Parser) parseImportDecl() ast.Stmt {
	start := p.cur.Span
	p.next()

	var specs []ast.ImportSpec
	if p.at(lexer.Ident) {
		// default import
		local := p.cur.Value
		p.next()
		specs = append(specs, ast.ImportSpec{Kind: ast.ImportDefault, Local: local, Name: local})
		p.accept(lexer.Comma)
	}
	if p.accept(lexer.Star) {
		p.expect(lexer.KwAs, "'as'")
		local := p.cur.Value
		p.expect(lexer.Ident, "identifier")
		specs = append(specs, ast.ImportSpec{Kind: ast.ImportNamespace, Local: local, Name: local})
	} else if p.accept(lexer.LBrace) {
		for !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
			name := p.cur.Value
			p.expect(lexer.Ident, "identifier")
			local := name
			if p.accept(lexer.KwAs) {
				local = p.cur.Value
				p.expect(lexer.Ident, "identifier")
			}
			specs = append(specs, ast.ImportSpec{Kind: ast.ImportNamed, Local: local, Name: name})
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.RBrace, "'}'")
	}

	p.expect(lexer.KwFrom, "'from'")
	module := p.cur.Value
	p.expect(lexer.String, "module path string")
	p.accept(lexer.Semicolon)

	return &ast.ImportDecl{BaseStmt: baseStmtAt(start, p.cur.Span), Specs: specs, Module: module}
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(lexer.LParen, "'('")
	var params []ast.Param
	for !p.at(lexer.RParen) && !p.at(lexer.Eof) {
		mode := p.parseOptionalOwnership()
		name := p.cur.Value
		p.expect(lexer.Ident, "identifier")
		var typ ast.TypeAnn
		if p.accept(lexer.Colon) {
			typ = p.parseTypeAnn()
		}
		var def ast.Expr
		if p.accept(lexer.Assign) {
			def = p.parseExpr(LOWEST)
		}
		params = append(params, ast.Param{Name: name, Mode: mode, Type: typ, Default: def})
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	return params
}

func (p *Parser) parseFuncDecl(exported bool) ast.Stmt {
	return p.parseFuncDeclImpl(exported, false)
}

func (p *Parser) parseAsyncFuncDecl(exported bool) ast.Stmt {
	p.next() // 'async'
	return p.parseFuncDeclImpl(exported, true)
}

func (p *Parser) parseFuncDeclImpl(exported, isAsync bool) ast.Stmt {
	start := p.cur.Span
	p.expect(lexer.KwFunction, "'function'")
	name := p.cur.Value
	p.expect(lexer.Ident, "identifier")
	typeParams := p.parseTypeParamList()
	params := p.parseParamList()
	var ret ast.TypeAnn
	if p.accept(lexer.Colon) {
		ret = p.parseTypeAnn()
	}
	body := p.parseBlock()
	return &ast.FuncDecl{
		BaseStmt: baseStmtAt(start, p.cur.Span),
		Name:     name, TypeParams: typeParams, Params: params, Return: ret, Body: body.Stmts,
		IsAsync: isAsync, Exported: exported,
	}
}

// parseTypeParamList parses an optional `<T, U, ...>` generic
// parameter clause and returns the bound names, or nil if absent.
func (p *Parser) parseTypeParamList() []string {
	var typeParams []string
	if p.accept(lexer.Lt) {
		for !p.at(lexer.Gt) && !p.at(lexer.Eof) {
			typeParams = append(typeParams, p.cur.Value)
			p.expect(lexer.Ident, "identifier")
			if !p.accept(lexer.Comma) {
				break
			}
		}
		p.expect(lexer.Gt, "'>'")
	}
	return typeParams
}

func (p *Parser) parseClassDecl(exported bool) ast.Stmt {
	start := p.cur.Span
	p.next()
	name := p.cur.Value
	p.expect(lexer.Ident, "identifier")

	typeParams := p.parseTypeParamList()

	extends := ""
	if p.accept(lexer.KwExtends) {
		extends = p.cur.Value
		p.expect(lexer.Ident, "identifier")
	}
	var implements []string
	if p.accept(lexer.KwImplements) {
		for {
			implements = append(implements, p.cur.Value)
			p.expect(lexer.Ident, "identifier")
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}

	p.expect(lexer.LBrace, "'{'")
	var fields []ast.Field
	var methods []ast.Method
	for !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
		isOverride := false
		if p.at(lexer.Ident) && p.cur.Value == "override" {
			isOverride = true
			p.next()
		}
		isAsync := p.accept(lexer.KwAsync)
		mode := p.parseOptionalOwnership()

		memberName := p.cur.Value
		p.expect(lexer.Ident, "identifier")

		if p.at(lexer.LParen) {
			params := p.parseParamList()
			var ret ast.TypeAnn
			if p.accept(lexer.Colon) {
				ret = p.parseTypeAnn()
			}
			body := p.parseBlock()
			methods = append(methods, ast.Method{
				Name: memberName, Params: params, Return: ret, Body: body.Stmts,
				IsAsync: isAsync, IsOverride: isOverride,
			})
			continue
		}

		var typ ast.TypeAnn
		if p.accept(lexer.Colon) {
			typ = p.parseTypeAnn()
		}
		var init ast.Expr
		if p.accept(lexer.Assign) {
			init = p.parseExpr(LOWEST)
		}
		p.accept(lexer.Semicolon)
		fields = append(fields, ast.Field{Name: memberName, Mode: mode, Type: typ, Init: init})
	}
	p.expect(lexer.RBrace, "'}'")

	return &ast.ClassDecl{
		BaseStmt: baseStmtAt(start, p.cur.Span),
		Name:     name, TypeParams: typeParams, Extends: extends, Implements: implements,
		Fields: fields, Methods: methods, Exported: exported,
	}
}

func (p *Parser) parseInterfaceDecl(exported bool) ast.Stmt {
	start := p.cur.Span
	p.next()
	name := p.cur.Value
	p.expect(lexer.Ident, "identifier")
	var extends []string
	if p.accept(lexer.KwExtends) {
		for {
			extends = append(extends, p.cur.Value)
			p.expect(lexer.Ident, "identifier")
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	p.expect(lexer.LBrace, "'{'")
	var methods []ast.InterfaceMethod
	for !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
		mname := p.cur.Value
		p.expect(lexer.Ident, "identifier")
		params := p.parseParamList()
		var ret ast.TypeAnn
		if p.accept(lexer.Colon) {
			ret = p.parseTypeAnn()
		}
		p.accept(lexer.Semicolon)
		methods = append(methods, ast.InterfaceMethod{Name: mname, Params: params, Return: ret})
	}
	p.expect(lexer.RBrace, "'}'")
	return &ast.InterfaceDecl{BaseStmt: baseStmtAt(start, p.cur.Span), Name: name, Extends: extends, Methods: methods, Exported: exported}
}

func baseStmtAt(start, end ast.Span) ast.BaseStmt {
	return ast.BaseStmt{Sp: ast.Span{Start: start.Start, End: end.End, SourceID: start.SourceID}}
}

func parseFloat(lit string) float64 {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		n, _ := strconv.ParseInt(lit[2:], 16, 64)
		return float64(n)
	}
	if strings.HasPrefix(lit, "0o") || strings.HasPrefix(lit, "0O") {
		n, _ := strconv.ParseInt(lit[2:], 8, 64)
		return float64(n)
	}
	if strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B") {
		n, _ := strconv.ParseInt(lit[2:], 2, 64)
		return float64(n)
	}
	f, _ := strconv.ParseFloat(lit, 64)
	return f
}
