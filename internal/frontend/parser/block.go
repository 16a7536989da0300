package parser

import (
	"fmt"

	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/source"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

// parseBlock: { stmt* trailing_expr? }. A trailing expression without a
// terminating semicolon is the block's value; otherwise the block's value is
// the unit.
func (p *Parser) parseBlock() *ast.BlockExpr {
	start := p.expect(tokens.OPEN_CURLY).Start

	block := &ast.BlockExpr{Stmts: []ast.Statement{}}

	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		switch p.peek().Kind {
		case tokens.LET_TOKEN:
			block.Stmts = append(block.Stmts, p.parseLetStmt())

		case tokens.FN_TOKEN, tokens.STRUCT_TOKEN, tokens.ENUM_TOKEN,
			tokens.IMPL_TOKEN, tokens.TRAIT_TOKEN, tokens.TYPE_TOKEN:
			itemStart := p.peek().Start
			item := p.parseItem()
			if item != nil {
				block.Stmts = append(block.Stmts, &ast.ItemStmt{
					Item:     item,
					Location: p.makeLocation(itemStart),
				})
			}

		case tokens.SEMICOLON_TOKEN:
			p.advance() // stray semicolon

		default:
			exprStart := p.peek().Start
			expr := p.parseExpr()
			if expr == nil {
				p.synchronize()
				continue
			}

			if p.match(tokens.CLOSE_CURLY) {
				block.Tail = expr
				continue
			}

			if p.match(tokens.SEMICOLON_TOKEN) {
				p.advance()
				block.Stmts = append(block.Stmts, &ast.ExprStmt{
					X:            expr,
					HasSemicolon: true,
					Location:     p.makeLocation(exprStart),
				})
				continue
			}

			// Block-structured expressions stand as statements without a
			// semicolon.
			if isBlockStructured(expr) {
				block.Stmts = append(block.Stmts, &ast.ExprStmt{
					X:            expr,
					HasSemicolon: false,
					Location:     p.makeLocation(exprStart),
				})
				continue
			}

			p.error(fmt.Sprintf("expected ';' after expression, got %q", p.peek().Lexeme))
			p.synchronize()
		}
	}

	end := p.expect(tokens.CLOSE_CURLY).End
	block.Location = source.NewLocation(p.filepath, start, end)
	return block
}

func isBlockStructured(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.IfExpr, *ast.MatchExpr, *ast.WhileExpr, *ast.ForExpr, *ast.BlockExpr:
		return true
	}
	return false
}

// parseLetStmt: let pattern (: type)? (= expr)? ;
// Mutability lives inside the pattern (`let mut x = ...`).
func (p *Parser) parseLetStmt() ast.Statement {
	start := p.expect(tokens.LET_TOKEN).Start

	pattern := p.parsePattern()

	var typ ast.TypeNode
	if p.match(tokens.COLON_TOKEN) {
		p.advance()
		typ = p.parseType()
	}

	var init ast.Expression
	if p.match(tokens.EQUALS_TOKEN) {
		p.advance()
		init = p.parseExpr()
		if init == nil {
			init = p.invalidExpr()
		}
	}

	p.expect(tokens.SEMICOLON_TOKEN)

	return &ast.LetStmt{
		Pattern:  pattern,
		Type:     typ,
		Init:     init,
		Location: p.makeLocation(start),
	}
}
