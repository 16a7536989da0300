package parser

import (
	"fmt"

	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

// parseItem dispatches on the next keyword to one of the item parsers.
// Optional `pub` visibility comes first.
func (p *Parser) parseItem() ast.Item {
	visibility := ast.Private
	if p.match(tokens.PUB_TOKEN) {
		p.advance()
		visibility = ast.Public
	}

	switch p.peek().Kind {
	case tokens.FN_TOKEN, tokens.UNSAFE_TOKEN:
		return p.parseFunction(visibility, false)
	case tokens.STRUCT_TOKEN:
		return p.parseStruct(visibility)
	case tokens.ENUM_TOKEN:
		return p.parseEnum(visibility)
	case tokens.TRAIT_TOKEN:
		return p.parseTrait(visibility)
	case tokens.IMPL_TOKEN:
		return p.parseImpl()
	case tokens.TYPE_TOKEN:
		return p.parseTypeAlias(visibility)
	case tokens.MOD_TOKEN, tokens.MODULE_TOKEN:
		return p.parseModuleDecl(visibility)
	case tokens.IMPORT_TOKEN:
		return p.parseImport()
	case tokens.EXTERN_TOKEN:
		return p.parseExtern()
	default:
		p.error(fmt.Sprintf("unexpected token %q at top level", p.peek().Lexeme))
		p.synchronize()
		return nil
	}
}

// parseFunction: (unsafe)? fn name (<generics>)? ( params ) (-> type)? (block | ;)
// Parameter binding goes through the full pattern grammar so `mut x: i32`
// is accepted.
func (p *Parser) parseFunction(visibility ast.Visibility, isExtern bool) *ast.FuncDecl {
	start := p.peek().Start

	isUnsafe := false
	if p.match(tokens.UNSAFE_TOKEN) {
		p.advance()
		isUnsafe = true
	}

	p.expect(tokens.FN_TOKEN)
	name := p.expect(tokens.IDENTIFIER_TOKEN)

	generics := p.parseGenericParams()

	p.expect(tokens.OPEN_PAREN)
	params := []ast.Param{}
	for !p.match(tokens.CLOSE_PAREN) && !p.isAtEnd() {
		paramStart := p.peek().Start
		pattern := p.parsePattern()
		p.expect(tokens.COLON_TOKEN)
		typ := p.parseType()
		params = append(params, ast.Param{
			Pattern:  pattern,
			Type:     typ,
			Location: p.makeLocation(paramStart),
		})
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	p.expect(tokens.CLOSE_PAREN)

	var returnType ast.TypeNode
	if p.match(tokens.ARROW_TOKEN) {
		p.advance()
		returnType = p.parseType()
	}

	var body *ast.BlockExpr
	if p.match(tokens.SEMICOLON_TOKEN) {
		p.advance()
	} else {
		body = p.parseBlock()
	}

	return &ast.FuncDecl{
		Name:       name.Lexeme,
		Visibility: visibility,
		IsUnsafe:   isUnsafe,
		IsExtern:   isExtern,
		Generics:   generics,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		Location:   p.makeLocation(start),
	}
}

// parseGenericParams: <T, U: Bound + Bound>
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.match(tokens.LESS_TOKEN) {
		return nil
	}
	p.advance()

	params := []ast.GenericParam{}
	for !p.match(tokens.GREATER_TOKEN) && !p.isAtEnd() {
		start := p.peek().Start
		name := p.expect(tokens.IDENTIFIER_TOKEN)

		var bounds [][]string
		if p.match(tokens.COLON_TOKEN) {
			p.advance()
			for {
				bounds = append(bounds, p.parsePath())
				if !p.match(tokens.PLUS_TOKEN) {
					break
				}
				p.advance()
			}
		}

		params = append(params, ast.GenericParam{
			Name:     name.Lexeme,
			Bounds:   bounds,
			Location: p.makeLocation(start),
		})
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	p.expect(tokens.GREATER_TOKEN)
	return params
}

// parsePath: ident (:: ident)*
func (p *Parser) parsePath() []string {
	path := []string{p.expect(tokens.IDENTIFIER_TOKEN).Lexeme}
	for p.match(tokens.SCOPE_TOKEN) {
		p.advance()
		path = append(path, p.expect(tokens.IDENTIFIER_TOKEN).Lexeme)
	}
	return path
}

// parseStruct: struct Name (<generics>)? { (pub)? field: type, ... }
func (p *Parser) parseStruct(visibility ast.Visibility) *ast.StructDecl {
	start := p.expect(tokens.STRUCT_TOKEN).Start
	name := p.expect(tokens.IDENTIFIER_TOKEN)
	generics := p.parseGenericParams()

	p.expect(tokens.OPEN_CURLY)
	fields := []ast.StructField{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		fieldStart := p.peek().Start
		fieldVis := ast.Private
		if p.match(tokens.PUB_TOKEN) {
			p.advance()
			fieldVis = ast.Public
		}
		fieldName := p.expect(tokens.IDENTIFIER_TOKEN)
		p.expect(tokens.COLON_TOKEN)
		fieldType := p.parseType()
		fields = append(fields, ast.StructField{
			Visibility: fieldVis,
			Name:       fieldName.Lexeme,
			Type:       fieldType,
			Location:   p.makeLocation(fieldStart),
		})
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.StructDecl{
		Name:       name.Lexeme,
		Visibility: visibility,
		Generics:   generics,
		Fields:     fields,
		Location:   p.makeLocation(start),
	}
}

// parseEnum: enum Name (<generics>)? { Variant ( (types) )?, ... }
func (p *Parser) parseEnum(visibility ast.Visibility) *ast.EnumDecl {
	start := p.expect(tokens.ENUM_TOKEN).Start
	name := p.expect(tokens.IDENTIFIER_TOKEN)
	generics := p.parseGenericParams()

	p.expect(tokens.OPEN_CURLY)
	variants := []ast.EnumVariant{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		variantStart := p.peek().Start
		variantName := p.expect(tokens.IDENTIFIER_TOKEN)

		var payload []ast.TypeNode
		if p.match(tokens.OPEN_PAREN) {
			p.advance()
			for !p.match(tokens.CLOSE_PAREN) && !p.isAtEnd() {
				payload = append(payload, p.parseType())
				if !p.match(tokens.COMMA_TOKEN) {
					break
				}
				p.advance()
			}
			p.expect(tokens.CLOSE_PAREN)
		}

		variants = append(variants, ast.EnumVariant{
			Name:        variantName.Lexeme,
			TupleFields: payload,
			Location:    p.makeLocation(variantStart),
		})
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.EnumDecl{
		Name:       name.Lexeme,
		Visibility: visibility,
		Generics:   generics,
		Variants:   variants,
		Location:   p.makeLocation(start),
	}
}

// parseTrait: trait Name (<generics>)? { fn signatures }
func (p *Parser) parseTrait(visibility ast.Visibility) *ast.TraitDecl {
	start := p.expect(tokens.TRAIT_TOKEN).Start
	name := p.expect(tokens.IDENTIFIER_TOKEN)
	generics := p.parseGenericParams()

	p.expect(tokens.OPEN_CURLY)
	items := []ast.Item{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		if p.match(tokens.FN_TOKEN, tokens.UNSAFE_TOKEN) {
			items = append(items, p.parseFunction(ast.Public, false))
		} else {
			p.error(fmt.Sprintf("unexpected token %q in trait body", p.peek().Lexeme))
			p.synchronize()
		}
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.TraitDecl{
		Name:       name.Lexeme,
		Visibility: visibility,
		Generics:   generics,
		Items:      items,
		Location:   p.makeLocation(start),
	}
}

// parseImpl: impl Type { items } or impl Trait for Type { items }
func (p *Parser) parseImpl() *ast.ImplDecl {
	start := p.expect(tokens.IMPL_TOKEN).Start

	first := p.parseType()

	var trait []string
	target := first
	if p.match(tokens.FOR_TOKEN) {
		p.advance()
		if named, ok := first.(*ast.NamedType); ok {
			trait = named.Path
		} else {
			p.errorAt(p.previous(), "trait name expected before 'for'")
		}
		target = p.parseType()
	}

	p.expect(tokens.OPEN_CURLY)
	items := []ast.Item{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		vis := ast.Private
		if p.match(tokens.PUB_TOKEN) {
			p.advance()
			vis = ast.Public
		}
		if p.match(tokens.FN_TOKEN, tokens.UNSAFE_TOKEN) {
			items = append(items, p.parseFunction(vis, false))
		} else {
			p.error(fmt.Sprintf("unexpected token %q in impl body", p.peek().Lexeme))
			p.synchronize()
		}
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.ImplDecl{
		Target:   target,
		Trait:    trait,
		Items:    items,
		Location: p.makeLocation(start),
	}
}

// parseTypeAlias: type Name = T;
func (p *Parser) parseTypeAlias(visibility ast.Visibility) *ast.TypeAliasDecl {
	start := p.expect(tokens.TYPE_TOKEN).Start
	name := p.expect(tokens.IDENTIFIER_TOKEN)
	p.expect(tokens.EQUALS_TOKEN)
	aliased := p.parseType()
	p.expect(tokens.SEMICOLON_TOKEN)

	return &ast.TypeAliasDecl{
		Name:       name.Lexeme,
		Visibility: visibility,
		Aliased:    aliased,
		Location:   p.makeLocation(start),
	}
}

// parseModuleDecl: mod name { items }
func (p *Parser) parseModuleDecl(visibility ast.Visibility) *ast.ModuleDecl {
	start := p.advance().Start // mod or module
	name := p.expect(tokens.IDENTIFIER_TOKEN)

	p.expect(tokens.OPEN_CURLY)
	items := []ast.Item{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		item := p.parseItem()
		if item != nil {
			items = append(items, item)
		}
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.ModuleDecl{
		Name:       name.Lexeme,
		Visibility: visibility,
		Items:      items,
		Location:   p.makeLocation(start),
	}
}

// parseImport: import a::b::c (as alias)? ;
func (p *Parser) parseImport() *ast.ImportDecl {
	start := p.expect(tokens.IMPORT_TOKEN).Start
	path := p.parsePath()

	alias := ""
	if p.match(tokens.AS_TOKEN) {
		p.advance()
		alias = p.expect(tokens.IDENTIFIER_TOKEN).Lexeme
	}
	p.expect(tokens.SEMICOLON_TOKEN)

	return &ast.ImportDecl{
		Path:     path,
		Alias:    alias,
		Location: p.makeLocation(start),
	}
}

// parseExtern: extern ("abi")? { fn declarations }
func (p *Parser) parseExtern() *ast.ExternBlock {
	start := p.expect(tokens.EXTERN_TOKEN).Start

	abi := ""
	if p.match(tokens.STRING_TOKEN) {
		tok := p.advance()
		if tok.Value != nil {
			abi = tok.Value.Str
		}
	}

	p.expect(tokens.OPEN_CURLY)
	items := []ast.Item{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		if p.match(tokens.FN_TOKEN, tokens.UNSAFE_TOKEN) {
			items = append(items, p.parseFunction(ast.Public, true))
		} else {
			p.error(fmt.Sprintf("unexpected token %q in extern block", p.peek().Lexeme))
			p.synchronize()
		}
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.ExternBlock{
		ABI:      abi,
		Items:    items,
		Location: p.makeLocation(start),
	}
}
