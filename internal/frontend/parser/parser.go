package parser

import (
	"fmt"

	"github.com/ShubhamPhapale/apex/internal/diagnostics"
	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/source"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

// Parser holds temporary state during parsing of a single file. It never
// fails past its own boundary: errors go to the diagnostic bag and the
// parser synchronizes on statement boundaries.
type Parser struct {
	tokens      []tokens.Token
	current     int
	diagnostics *diagnostics.DiagnosticBag
	filepath    string
}

// Parse builds a Module AST from a token stream.
func Parse(toks []tokens.Token, filepath string, diag *diagnostics.DiagnosticBag) *ast.Module {
	parser := &Parser{
		tokens:      toks,
		current:     0,
		diagnostics: diag,
		filepath:    filepath,
	}
	return parser.parseModule()
}

func (p *Parser) parseModule() *ast.Module {
	module := &ast.Module{
		Name:  p.filepath,
		Items: []ast.Item{},
	}
	if len(p.tokens) > 0 {
		module.Location = source.NewLocation(p.filepath, p.tokens[0].Start, p.tokens[len(p.tokens)-1].End)
	}

	for !p.isAtEnd() {
		item := p.parseItem()
		if item != nil {
			module.Items = append(module.Items, item)
		}
	}

	return module
}

// Helper methods

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Kind == tokens.EOF_TOKEN
}

func (p *Parser) peek() tokens.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) next() tokens.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() tokens.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() tokens.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	tok := p.tokens[p.current]
	p.current++
	return tok
}

func (p *Parser) match(kinds ...tokens.TOKEN) bool {
	for _, kind := range kinds {
		if p.peek().Kind == kind {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind tokens.TOKEN) tokens.Token {
	if p.match(kind) {
		return p.advance()
	}
	p.error(fmt.Sprintf("unexpected token %q, expected %q", p.peek().Lexeme, string(kind)))
	return p.peek()
}

// error reports a parsing error at the current token
func (p *Parser) error(msg string) {
	p.errorAt(p.peek(), msg)
}

func (p *Parser) errorAt(tok tokens.Token, msg string) {
	p.diagnostics.Add(diagnostics.NewError(msg, source.NewLocation(p.filepath, tok.Start, tok.End)))
}

// HasErrors reports whether any diagnostics were emitted during parsing.
func (p *Parser) HasErrors() bool {
	return p.diagnostics.HasErrors()
}

// synchronize skips tokens until a statement boundary: just past a
// semicolon, or in front of an item-introducing keyword. This bounds
// cascading errors to one per malformed construct.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == tokens.SEMICOLON_TOKEN {
			return
		}
		switch p.peek().Kind {
		case tokens.FN_TOKEN, tokens.STRUCT_TOKEN, tokens.ENUM_TOKEN,
			tokens.IMPL_TOKEN, tokens.TRAIT_TOKEN, tokens.LET_TOKEN,
			tokens.RETURN_TOKEN:
			return
		}
		p.advance()
	}
}

// safeLoc gets the location from a node, falling back to the current token
func (p *Parser) safeLoc(node ast.Node) *source.Location {
	if node == nil || node.Loc() == nil {
		tok := p.peek()
		loc := source.NewLocation(p.filepath, tok.Start, tok.End)
		return &loc
	}
	return node.Loc()
}

// invalidExpr creates a placeholder expression node at the current position
func (p *Parser) invalidExpr() *ast.Invalid {
	tok := p.peek()
	return &ast.Invalid{
		Location: source.NewLocation(p.filepath, tok.Start, tok.End),
	}
}

// makeLocation creates a source location from start to the previous token
func (p *Parser) makeLocation(start source.Position) source.Location {
	return source.NewLocation(p.filepath, start, p.previous().End)
}
