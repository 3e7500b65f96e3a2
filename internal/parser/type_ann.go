package parser

import (
	"github.com/zacostudio/zaco-compiler/internal/ast"
	"github.com/zacostudio/zaco-compiler/internal/lexer"
)

// parseTypeAnn parses a type annotation, the lowest-precedence form
// being a union `A | B | C`.
func (p *Parser) parseTypeAnn() ast.TypeAnn {
	start := p.cur.Span
	first := p.parsePrimaryTypeAnn()
	if !p.at(lexer.Pipe) {
		return first
	}
	members := []ast.TypeAnn{first}
	for p.accept(lexer.Pipe) {
		members = append(members, p.parsePrimaryTypeAnn())
	}
	return &ast.UnionTypeAnn{Members: members, Sp: spanTo(start, p.cur.Span)}
}

func spanTo(start, end ast.Span) ast.Span {
	return ast.Span{Start: start.Start, End: end.End, SourceID: start.SourceID}
}

func (p *Parser) parsePrimaryTypeAnn() ast.TypeAnn {
	base := p.parseAtomTypeAnn()
	for p.at(lexer.LBracket) {
		start := base.Span()
		p.next()
		p.expect(lexer.RBracket, "']'")
		base = &ast.ArrayTypeAnn{Elem: base, Sp: spanTo(start, p.cur.Span)}
	}
	return base
}

func (p *Parser) parseAtomTypeAnn() ast.TypeAnn {
	start := p.cur.Span

	if p.at(lexer.LParen) {
		return p.parseFunctionTypeAnn()
	}

	if p.at(lexer.LBrace) {
		return p.parseObjectTypeAnn()
	}

	if p.at(lexer.Ident) {
		name := p.cur.Value
		p.next()

		if kind, ok := primitiveKindOf(name); ok {
			return &ast.PrimitiveTypeAnn{Kind: kind, Sp: spanTo(start, p.cur.Span)}
		}

		if name == "Promise" && p.at(lexer.Lt) {
			p.next()
			elem := p.parseTypeAnn()
			p.expect(lexer.Gt, "'>'")
			return &ast.PromiseTypeAnn{Elem: elem, Sp: spanTo(start, p.cur.Span)}
		}

		var typeArgs []ast.TypeAnn
		if p.accept(lexer.Lt) {
			for !p.at(lexer.Gt) && !p.at(lexer.Eof) {
				typeArgs = append(typeArgs, p.parseTypeAnn())
				if !p.accept(lexer.Comma) {
					break
				}
			}
			p.expect(lexer.Gt, "'>'")
		}
		return &ast.TypeRefTypeAnn{Name: name, TypeArgs: typeArgs, Sp: spanTo(start, p.cur.Span)}
	}

	p.errorf(p.cur.Span, "expected type annotation")
	sp := p.cur.Span
	p.next()
	return &ast.PrimitiveTypeAnn{Kind: ast.KindAny, Sp: sp}
}

func primitiveKindOf(name string) (ast.PrimitiveKind, bool) {
	switch name {
	case "number":
		return ast.KindNumber, true
	case "string":
		return ast.KindString, true
	case "boolean":
		return ast.KindBoolean, true
	case "void":
		return ast.KindVoid, true
	case "null":
		return ast.KindNull, true
	case "undefined":
		return ast.KindUndefined, true
	case "never":
		return ast.KindNever, true
	case "any":
		return ast.KindAny, true
	case "unknown":
		return ast.KindUnknown, true
	default:
		return 0, false
	}
}

func (p *Parser) parseFunctionTypeAnn() ast.TypeAnn {
	start := p.cur.Span
	p.expect(lexer.LParen, "'('")
	var params []ast.FuncParamAnn
	for !p.at(lexer.RParen) && !p.at(lexer.Eof) {
		mode := p.parseOptionalOwnership()
		// Parameter names in a function type are decorative; skip an
		// optional `name:` prefix before the type itself.
		if p.at(lexer.Ident) && p.peek.Kind == lexer.Colon {
			p.next()
			p.next()
		}
		typ := p.parseTypeAnn()
		params = append(params, ast.FuncParamAnn{Mode: mode, Type: typ})
		if !p.accept(lexer.Comma) {
			break
		}
	}
	p.expect(lexer.RParen, "')'")
	p.expect(lexer.Arrow, "'=>'")
	ret := p.parseTypeAnn()
	return &ast.FunctionTypeAnn{Params: params, Return: ret, Sp: spanTo(start, p.cur.Span)}
}

func (p *Parser) parseObjectTypeAnn() ast.TypeAnn {
	start := p.cur.Span
	p.expect(lexer.LBrace, "'{'")
	var fields []ast.ObjectFieldAnn
	for !p.at(lexer.RBrace) && !p.at(lexer.Eof) {
		name := p.cur.Value
		p.expect(lexer.Ident, "identifier")
		optional := p.accept(lexer.Question)
		p.expect(lexer.Colon, "':'")
		typ := p.parseTypeAnn()
		fields = append(fields, ast.ObjectFieldAnn{Name: name, Type: typ, Optional: optional})
		if !p.accept(lexer.Comma) {
			p.accept(lexer.Semicolon)
		}
	}
	p.expect(lexer.RBrace, "'}'")
	return &ast.ObjectTypeAnn{Fields: fields, Sp: spanTo(start, p.cur.Span)}
}
