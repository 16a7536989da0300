package parser

import (
	"fmt"

	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

// parsePattern parses the full pattern grammar. Or-patterns sit at the top:
// p1 | p2 | p3.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.peek().Start
	first := p.parseSinglePattern()

	if !p.match(tokens.BIT_OR_TOKEN) {
		return first
	}

	patterns := []ast.Pattern{first}
	for p.match(tokens.BIT_OR_TOKEN) {
		p.advance()
		patterns = append(patterns, p.parseSinglePattern())
	}
	return &ast.OrPattern{Patterns: patterns, Location: p.makeLocation(start)}
}

func (p *Parser) parseSinglePattern() ast.Pattern {
	start := p.peek().Start

	switch p.peek().Kind {
	case tokens.MUT_TOKEN:
		p.advance()
		name := p.expect(tokens.IDENTIFIER_TOKEN)
		return &ast.IdentifierPattern{
			Name:     name.Lexeme,
			Mutable:  true,
			Location: p.makeLocation(start),
		}

	case tokens.OPEN_PAREN:
		p.advance()
		patterns := []ast.Pattern{}
		for !p.match(tokens.CLOSE_PAREN) && !p.isAtEnd() {
			patterns = append(patterns, p.parsePattern())
			if !p.match(tokens.COMMA_TOKEN) {
				break
			}
			p.advance()
		}
		p.expect(tokens.CLOSE_PAREN)
		return &ast.TuplePattern{Patterns: patterns, Location: p.makeLocation(start)}

	case tokens.INT_TOKEN, tokens.FLOAT_TOKEN, tokens.STRING_TOKEN,
		tokens.CHAR_TOKEN, tokens.TRUE_TOKEN, tokens.FALSE_TOKEN,
		tokens.MINUS_TOKEN:
		lit := p.parseLiteralValue()
		if p.match(tokens.RANGE_TOKEN, tokens.RANGE_INCLUSIVE_TOKEN) {
			inclusive := p.match(tokens.RANGE_INCLUSIVE_TOKEN)
			p.advance()
			end := p.parseLiteralValue()
			return &ast.RangePattern{
				Start:     lit,
				End:       end,
				Inclusive: inclusive,
				Location:  p.makeLocation(start),
			}
		}
		return &ast.LiteralPattern{Value: lit, Location: p.makeLocation(start)}

	case tokens.IDENTIFIER_TOKEN:
		name := p.advance()
		if name.Lexeme == "_" {
			return &ast.WildcardPattern{Location: p.makeLocation(start)}
		}

		// Path patterns: Enum::Variant with optional payload subpatterns
		if p.match(tokens.SCOPE_TOKEN) {
			path := []string{name.Lexeme}
			for p.match(tokens.SCOPE_TOKEN) {
				p.advance()
				path = append(path, p.expect(tokens.IDENTIFIER_TOKEN).Lexeme)
			}
			var subs []ast.Pattern
			if p.match(tokens.OPEN_PAREN) {
				p.advance()
				for !p.match(tokens.CLOSE_PAREN) && !p.isAtEnd() {
					subs = append(subs, p.parsePattern())
					if !p.match(tokens.COMMA_TOKEN) {
						break
					}
					p.advance()
				}
				p.expect(tokens.CLOSE_PAREN)
			}
			return &ast.EnumPattern{Path: path, Patterns: subs, Location: p.makeLocation(start)}
		}

		// Struct patterns: Name { field, field: sub } — capitalized names only,
		// mirroring the struct-literal heuristic.
		if p.match(tokens.OPEN_CURLY) && isCapitalized(name.Lexeme) {
			p.advance()
			fields := []ast.FieldPattern{}
			for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
				fieldName := p.expect(tokens.IDENTIFIER_TOKEN)
				field := ast.FieldPattern{Name: fieldName.Lexeme}
				if p.match(tokens.COLON_TOKEN) {
					p.advance()
					field.Pattern = p.parsePattern()
				} else {
					field.Pattern = &ast.IdentifierPattern{
						Name:     fieldName.Lexeme,
						Location: p.makeLocation(fieldName.Start),
					}
				}
				fields = append(fields, field)
				if !p.match(tokens.COMMA_TOKEN) {
					break
				}
				p.advance()
			}
			p.expect(tokens.CLOSE_CURLY)
			return &ast.StructPattern{
				Path:     []string{name.Lexeme},
				Fields:   fields,
				Location: p.makeLocation(start),
			}
		}

		return &ast.IdentifierPattern{
			Name:     name.Lexeme,
			Location: p.makeLocation(start),
		}

	default:
		p.error(fmt.Sprintf("expected pattern, got %q", p.peek().Lexeme))
		tok := p.peek()
		return &ast.WildcardPattern{Location: p.makeLocation(tok.Start)}
	}
}

// parseLiteralValue parses one literal token (with optional leading minus)
// into a BasicLit; patterns and literal expressions both use it.
func (p *Parser) parseLiteralValue() *ast.BasicLit {
	start := p.peek().Start

	negate := false
	if p.match(tokens.MINUS_TOKEN) {
		p.advance()
		negate = true
	}

	tok := p.advance()
	lit := &ast.BasicLit{Lexeme: tok.Lexeme, Location: p.makeLocation(start)}

	switch tok.Kind {
	case tokens.INT_TOKEN:
		lit.Kind = ast.INT
		if tok.Value != nil {
			lit.IntVal = tok.Value.Int
		}
		if negate {
			lit.IntVal = -lit.IntVal
			lit.Lexeme = "-" + lit.Lexeme
		}
	case tokens.FLOAT_TOKEN:
		lit.Kind = ast.FLOAT
		if tok.Value != nil {
			lit.FloatVal = tok.Value.Float
		}
		if negate {
			lit.FloatVal = -lit.FloatVal
			lit.Lexeme = "-" + lit.Lexeme
		}
	case tokens.STRING_TOKEN:
		lit.Kind = ast.STRING
		if tok.Value != nil {
			lit.StrVal = tok.Value.Str
		}
	case tokens.CHAR_TOKEN:
		lit.Kind = ast.CHAR
		if tok.Value != nil {
			lit.IntVal = tok.Value.Int
		}
	case tokens.TRUE_TOKEN:
		lit.Kind = ast.BOOL
		lit.BoolVal = true
	case tokens.FALSE_TOKEN:
		lit.Kind = ast.BOOL
	default:
		p.errorAt(tok, fmt.Sprintf("expected literal, got %q", tok.Lexeme))
	}

	return lit
}

func isCapitalized(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}
