package parser

import (
	"fmt"

	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

// parseType parses a type annotation.
func (p *Parser) parseType() ast.TypeNode {
	start := p.peek().Start

	switch p.peek().Kind {
	case tokens.VOID_TOKEN:
		p.advance()
		return &ast.PrimitiveType{Name: "void", Location: p.makeLocation(start)}

	case tokens.MUL_TOKEN: // *T or *mut T
		p.advance()
		mutable := false
		if p.match(tokens.MUT_TOKEN) {
			p.advance()
			mutable = true
		}
		pointee := p.parseType()
		return &ast.PointerType{Mutable: mutable, Pointee: pointee, Location: p.makeLocation(start)}

	case tokens.BIT_AND_TOKEN: // &T or &mut T
		p.advance()
		mutable := false
		if p.match(tokens.MUT_TOKEN) {
			p.advance()
			mutable = true
		}
		pointee := p.parseType()
		return &ast.ReferenceType{Mutable: mutable, Pointee: pointee, Location: p.makeLocation(start)}

	case tokens.OPEN_BRACKET: // [T; N] or [T]
		p.advance()
		element := p.parseType()
		if p.match(tokens.SEMICOLON_TOKEN) {
			p.advance()
			sizeTok := p.expect(tokens.INT_TOKEN)
			var size int64
			if sizeTok.Value != nil {
				size = sizeTok.Value.Int
			}
			p.expect(tokens.CLOSE_BRACKET)
			return &ast.ArrayType{Element: element, Size: size, Location: p.makeLocation(start)}
		}
		p.expect(tokens.CLOSE_BRACKET)
		return &ast.SliceType{Element: element, Location: p.makeLocation(start)}

	case tokens.OPEN_PAREN: // (T1, T2, ...)
		p.advance()
		elements := []ast.TypeNode{}
		for !p.match(tokens.CLOSE_PAREN) && !p.isAtEnd() {
			elements = append(elements, p.parseType())
			if !p.match(tokens.COMMA_TOKEN) {
				break
			}
			p.advance()
		}
		p.expect(tokens.CLOSE_PAREN)
		return &ast.TupleType{Elements: elements, Location: p.makeLocation(start)}

	case tokens.FN_TOKEN: // fn(T1, T2) -> R
		p.advance()
		p.expect(tokens.OPEN_PAREN)
		params := []ast.TypeNode{}
		for !p.match(tokens.CLOSE_PAREN) && !p.isAtEnd() {
			params = append(params, p.parseType())
			if !p.match(tokens.COMMA_TOKEN) {
				break
			}
			p.advance()
		}
		p.expect(tokens.CLOSE_PAREN)
		var ret ast.TypeNode
		if p.match(tokens.ARROW_TOKEN) {
			p.advance()
			ret = p.parseType()
		}
		return &ast.FuncType{Params: params, Return: ret, Location: p.makeLocation(start)}

	case tokens.IDENTIFIER_TOKEN:
		name := p.advance()
		if tokens.IsPrimitiveType(name.Lexeme) {
			return &ast.PrimitiveType{Name: name.Lexeme, Location: p.makeLocation(start)}
		}

		path := []string{name.Lexeme}
		for p.match(tokens.SCOPE_TOKEN) {
			p.advance()
			path = append(path, p.expect(tokens.IDENTIFIER_TOKEN).Lexeme)
		}

		var genericArgs []ast.TypeNode
		if p.match(tokens.LESS_TOKEN) {
			p.advance()
			for !p.match(tokens.GREATER_TOKEN) && !p.isAtEnd() {
				genericArgs = append(genericArgs, p.parseType())
				if !p.match(tokens.COMMA_TOKEN) {
					break
				}
				p.advance()
			}
			p.expect(tokens.GREATER_TOKEN)
		}

		return &ast.NamedType{Path: path, GenericArgs: genericArgs, Location: p.makeLocation(start)}

	default:
		p.error(fmt.Sprintf("expected type, got %q", p.peek().Lexeme))
		tok := p.peek()
		return &ast.PrimitiveType{Name: "void", Location: p.makeLocation(tok.Start)}
	}
}
