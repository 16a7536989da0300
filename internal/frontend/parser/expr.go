package parser

import (
	"fmt"
	"strings"

	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/source"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

// Expression parsing by precedence climbing, one function per level, low to
// high: assignment, range, ||, &&, |, ^, &, equality, comparison, shift,
// additive, multiplicative, unary, postfix, primary.

func (p *Parser) parseExpr() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment: the assignment family is right-associative and sits at
// the lowest precedence level.
func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseRange()
	if left == nil {
		return nil
	}

	if p.match(tokens.EQUALS_TOKEN, tokens.PLUS_EQUALS_TOKEN, tokens.MINUS_EQUALS_TOKEN,
		tokens.MUL_EQUALS_TOKEN, tokens.DIV_EQUALS_TOKEN, tokens.MOD_EQUALS_TOKEN,
		tokens.AND_EQUALS_TOKEN, tokens.OR_EQUALS_TOKEN, tokens.XOR_EQUALS_TOKEN,
		tokens.SHL_EQUALS_TOKEN, tokens.SHR_EQUALS_TOKEN) {
		op := p.advance()
		right := p.parseAssignment()
		if right == nil {
			right = p.invalidExpr()
		}
		return &ast.BinaryExpr{
			X:        left,
			Op:       op,
			Y:        right,
			Location: source.NewLocation(p.filepath, p.safeLoc(left).Start, p.safeLoc(right).End),
		}
	}

	return left
}

// parseRange: `..`/`..=` sit below comparison and above assignment; either
// operand may be omitted.
func (p *Parser) parseRange() ast.Expression {
	start := p.peek().Start

	// Prefix form: ..end or ..
	if p.match(tokens.RANGE_TOKEN, tokens.RANGE_INCLUSIVE_TOKEN) {
		inclusive := p.match(tokens.RANGE_INCLUSIVE_TOKEN)
		p.advance()
		var end ast.Expression
		if p.canStartExpr() {
			end = p.parseLogicalOr()
		}
		return &ast.RangeExpr{
			Start:     nil,
			End:       end,
			Inclusive: inclusive,
			Location:  p.makeLocation(start),
		}
	}

	left := p.parseLogicalOr()
	if left == nil {
		return nil
	}

	if p.match(tokens.RANGE_TOKEN, tokens.RANGE_INCLUSIVE_TOKEN) {
		inclusive := p.match(tokens.RANGE_INCLUSIVE_TOKEN)
		p.advance()
		var end ast.Expression
		if p.canStartExpr() {
			end = p.parseLogicalOr()
		}
		endPos := p.previous().End
		return &ast.RangeExpr{
			Start:     left,
			End:       end,
			Inclusive: inclusive,
			Location:  source.NewLocation(p.filepath, p.safeLoc(left).Start, endPos),
		}
	}

	return left
}

// canStartExpr reports whether the current token can begin an expression;
// used to decide if a range end operand is present.
func (p *Parser) canStartExpr() bool {
	switch p.peek().Kind {
	case tokens.CLOSE_PAREN, tokens.CLOSE_BRACKET, tokens.CLOSE_CURLY,
		tokens.OPEN_CURLY, tokens.COMMA_TOKEN, tokens.SEMICOLON_TOKEN,
		tokens.EOF_TOKEN, tokens.FAT_ARROW_TOKEN:
		return false
	}
	return true
}

func (p *Parser) binaryLevel(next func() ast.Expression, kinds ...tokens.TOKEN) ast.Expression {
	left := next()
	if left == nil {
		return nil
	}

	for p.match(kinds...) {
		op := p.advance()
		right := next()
		if right == nil {
			right = p.invalidExpr()
		}
		left = &ast.BinaryExpr{
			X:        left,
			Op:       op,
			Y:        right,
			Location: source.NewLocation(p.filepath, p.safeLoc(left).Start, p.safeLoc(right).End),
		}
	}

	return left
}

func (p *Parser) parseLogicalOr() ast.Expression {
	return p.binaryLevel(p.parseLogicalAnd, tokens.OR_TOKEN)
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	return p.binaryLevel(p.parseBitOr, tokens.AND_TOKEN)
}

func (p *Parser) parseBitOr() ast.Expression {
	return p.binaryLevel(p.parseBitXor, tokens.BIT_OR_TOKEN)
}

func (p *Parser) parseBitXor() ast.Expression {
	return p.binaryLevel(p.parseBitAnd, tokens.BIT_XOR_TOKEN)
}

func (p *Parser) parseBitAnd() ast.Expression {
	return p.binaryLevel(p.parseEquality, tokens.BIT_AND_TOKEN)
}

func (p *Parser) parseEquality() ast.Expression {
	return p.binaryLevel(p.parseComparison, tokens.DOUBLE_EQUAL_TOKEN, tokens.NOT_EQUAL_TOKEN)
}

func (p *Parser) parseComparison() ast.Expression {
	return p.binaryLevel(p.parseShift, tokens.LESS_TOKEN, tokens.LESS_EQUAL_TOKEN,
		tokens.GREATER_TOKEN, tokens.GREATER_EQUAL_TOKEN)
}

func (p *Parser) parseShift() ast.Expression {
	return p.binaryLevel(p.parseAdditive, tokens.SHL_TOKEN, tokens.SHR_TOKEN)
}

func (p *Parser) parseAdditive() ast.Expression {
	return p.binaryLevel(p.parseMultiplicative, tokens.PLUS_TOKEN, tokens.MINUS_TOKEN)
}

func (p *Parser) parseMultiplicative() ast.Expression {
	return p.binaryLevel(p.parseUnary, tokens.MUL_TOKEN, tokens.DIV_TOKEN, tokens.PERCENT_TOKEN)
}

// parseUnary: - ! ~ * & and &mut, right-associative.
func (p *Parser) parseUnary() ast.Expression {
	if p.match(tokens.MINUS_TOKEN, tokens.NOT_TOKEN, tokens.BIT_NOT_TOKEN,
		tokens.MUL_TOKEN, tokens.BIT_AND_TOKEN) {
		op := p.advance()
		mut := false
		if op.Kind == tokens.BIT_AND_TOKEN && p.match(tokens.MUT_TOKEN) {
			p.advance()
			mut = true
		}
		operand := p.parseUnary()
		if operand == nil {
			operand = p.invalidExpr()
		}
		return &ast.UnaryExpr{
			Op:       op,
			Mut:      mut,
			X:        operand,
			Location: source.NewLocation(p.filepath, op.Start, p.safeLoc(operand).End),
		}
	}

	return p.parsePostfix()
}

// parsePostfix: call, index, field access, and `as` casts, left-associative.
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for !p.isAtEnd() {
		switch {
		case p.match(tokens.OPEN_PAREN):
			expr = p.parseCallExpr(expr)
		case p.match(tokens.OPEN_BRACKET):
			expr = p.parseIndexExpr(expr)
		case p.match(tokens.DOT_TOKEN):
			expr = p.parseSelectorExpr(expr)
		case p.match(tokens.AS_TOKEN):
			expr = p.parseCastExpr(expr)
		default:
			return expr
		}
	}

	return expr
}

func (p *Parser) parseCallExpr(fun ast.Expression) ast.Expression {
	p.expect(tokens.OPEN_PAREN)

	args := []ast.Expression{}
	for !p.match(tokens.CLOSE_PAREN) && !p.isAtEnd() {
		arg := p.parseExpr()
		if arg == nil {
			arg = p.invalidExpr()
		}
		args = append(args, arg)
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	end := p.expect(tokens.CLOSE_PAREN).End

	return &ast.CallExpr{
		Fun:      fun,
		Args:     args,
		Location: source.NewLocation(p.filepath, p.safeLoc(fun).Start, end),
	}
}

func (p *Parser) parseIndexExpr(x ast.Expression) ast.Expression {
	p.expect(tokens.OPEN_BRACKET)
	index := p.parseExpr()
	if index == nil {
		index = p.invalidExpr()
	}
	end := p.expect(tokens.CLOSE_BRACKET).End

	return &ast.IndexExpr{
		X:        x,
		Index:    index,
		Location: source.NewLocation(p.filepath, p.safeLoc(x).Start, end),
	}
}

func (p *Parser) parseSelectorExpr(x ast.Expression) ast.Expression {
	p.expect(tokens.DOT_TOKEN)
	field := p.expect(tokens.IDENTIFIER_TOKEN)

	return &ast.SelectorExpr{
		X: x,
		Field: &ast.IdentifierExpr{
			Name:     field.Lexeme,
			Location: source.NewLocation(p.filepath, field.Start, field.End),
		},
		Location: source.NewLocation(p.filepath, p.safeLoc(x).Start, field.End),
	}
}

func (p *Parser) parseCastExpr(x ast.Expression) ast.Expression {
	p.expect(tokens.AS_TOKEN)
	target := p.parseType()

	return &ast.CastExpr{
		X:        x,
		Target:   target,
		Location: source.NewLocation(p.filepath, p.safeLoc(x).Start, p.safeLoc(target).End),
	}
}

// parsePrimary: literal, identifier/path, parenthesized, tuple, array
// literal, block, if, match, and the control-flow expressions.
func (p *Parser) parsePrimary() ast.Expression {
	start := p.peek().Start

	switch p.peek().Kind {
	case tokens.INT_TOKEN, tokens.FLOAT_TOKEN, tokens.STRING_TOKEN,
		tokens.CHAR_TOKEN, tokens.TRUE_TOKEN, tokens.FALSE_TOKEN:
		return p.parseLiteralValue()

	case tokens.IDENTIFIER_TOKEN:
		return p.parseIdentifierOrStructLit()

	case tokens.OPEN_PAREN:
		return p.parseParenOrTuple()

	case tokens.OPEN_BRACKET:
		return p.parseArrayLit()

	case tokens.OPEN_CURLY:
		return p.parseBlock()

	case tokens.IF_TOKEN:
		return p.parseIfExpr()

	case tokens.MATCH_TOKEN:
		return p.parseMatchExpr()

	case tokens.WHILE_TOKEN:
		return p.parseWhileExpr()

	case tokens.FOR_TOKEN:
		return p.parseForExpr()

	case tokens.RETURN_TOKEN:
		p.advance()
		var value ast.Expression
		if p.canStartExpr() {
			value = p.parseExpr()
		}
		return &ast.ReturnExpr{Value: value, Location: p.makeLocation(start)}

	case tokens.BREAK_TOKEN:
		p.advance()
		return &ast.BreakExpr{Location: p.makeLocation(start)}

	case tokens.CONTINUE_TOKEN:
		p.advance()
		return &ast.ContinueExpr{Location: p.makeLocation(start)}

	default:
		p.error(fmt.Sprintf("unexpected token %q in expression", p.peek().Lexeme))
		return nil
	}
}

// parseIdentifierOrStructLit resolves the `Name { ... }` ambiguity with a
// capitalization heuristic: a struct literal only when the name starts with
// an uppercase letter and `{` follows. Otherwise the brace belongs to an
// enclosing construct (e.g. a bare `if` condition's block).
func (p *Parser) parseIdentifierOrStructLit() ast.Expression {
	start := p.peek().Start
	name := p.advance()

	path := []string{name.Lexeme}
	for p.match(tokens.SCOPE_TOKEN) {
		p.advance()
		path = append(path, p.expect(tokens.IDENTIFIER_TOKEN).Lexeme)
	}

	last := path[len(path)-1]
	if p.match(tokens.OPEN_CURLY) && isCapitalized(last) {
		return p.parseStructLit(path, start)
	}

	return &ast.IdentifierExpr{
		Name:     strings.Join(path, "::"),
		Location: p.makeLocation(start),
	}
}

func (p *Parser) parseStructLit(path []string, start source.Position) ast.Expression {
	p.expect(tokens.OPEN_CURLY)

	fields := []ast.FieldInit{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		fieldStart := p.peek().Start
		fieldName := p.expect(tokens.IDENTIFIER_TOKEN)
		p.expect(tokens.COLON_TOKEN)
		value := p.parseExpr()
		if value == nil {
			value = p.invalidExpr()
		}
		fields = append(fields, ast.FieldInit{
			Name:     fieldName.Lexeme,
			Value:    value,
			Location: p.makeLocation(fieldStart),
		})
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.StructLit{
		Path:     path,
		Fields:   fields,
		Location: p.makeLocation(start),
	}
}

// parseParenOrTuple: () is the unit tuple, (e) is grouping, (e, ...) a tuple.
func (p *Parser) parseParenOrTuple() ast.Expression {
	start := p.expect(tokens.OPEN_PAREN).Start

	if p.match(tokens.CLOSE_PAREN) {
		p.advance()
		return &ast.TupleExpr{Location: p.makeLocation(start)}
	}

	first := p.parseExpr()
	if first == nil {
		first = p.invalidExpr()
	}

	if p.match(tokens.COMMA_TOKEN) {
		elements := []ast.Expression{first}
		for p.match(tokens.COMMA_TOKEN) {
			p.advance()
			if p.match(tokens.CLOSE_PAREN) {
				break
			}
			elem := p.parseExpr()
			if elem == nil {
				elem = p.invalidExpr()
			}
			elements = append(elements, elem)
		}
		p.expect(tokens.CLOSE_PAREN)
		return &ast.TupleExpr{Elements: elements, Location: p.makeLocation(start)}
	}

	p.expect(tokens.CLOSE_PAREN)
	return first
}

// parseArrayLit: [a, b, c] or the repeat form [v; n]
func (p *Parser) parseArrayLit() ast.Expression {
	start := p.expect(tokens.OPEN_BRACKET).Start

	if p.match(tokens.CLOSE_BRACKET) {
		p.advance()
		return &ast.ArrayLit{Location: p.makeLocation(start)}
	}

	first := p.parseExpr()
	if first == nil {
		first = p.invalidExpr()
	}

	if p.match(tokens.SEMICOLON_TOKEN) {
		p.advance()
		count := p.parseExpr()
		if count == nil {
			count = p.invalidExpr()
		}
		p.expect(tokens.CLOSE_BRACKET)
		return &ast.ArrayLit{Repeat: first, Count: count, Location: p.makeLocation(start)}
	}

	elements := []ast.Expression{first}
	for p.match(tokens.COMMA_TOKEN) {
		p.advance()
		if p.match(tokens.CLOSE_BRACKET) {
			break
		}
		elem := p.parseExpr()
		if elem == nil {
			elem = p.invalidExpr()
		}
		elements = append(elements, elem)
	}
	p.expect(tokens.CLOSE_BRACKET)

	return &ast.ArrayLit{Elements: elements, Location: p.makeLocation(start)}
}

// parseIfExpr: if cond { then } (else (if ... | { else }))?
func (p *Parser) parseIfExpr() ast.Expression {
	start := p.expect(tokens.IF_TOKEN).Start

	cond := p.parseExpr()
	if cond == nil {
		cond = p.invalidExpr()
	}
	then := p.parseBlock()

	var elseExpr ast.Expression
	if p.match(tokens.ELSE_TOKEN) {
		p.advance()
		if p.match(tokens.IF_TOKEN) {
			elseExpr = p.parseIfExpr()
		} else {
			elseExpr = p.parseBlock()
		}
	}

	return &ast.IfExpr{
		Cond:     cond,
		Then:     then,
		Else:     elseExpr,
		Location: p.makeLocation(start),
	}
}

// parseMatchExpr: match scrutinee { pattern (if guard)? => body, ... }
// The scrutinee is a full expression.
func (p *Parser) parseMatchExpr() ast.Expression {
	start := p.expect(tokens.MATCH_TOKEN).Start

	scrutinee := p.parseExpr()
	if scrutinee == nil {
		scrutinee = p.invalidExpr()
	}

	p.expect(tokens.OPEN_CURLY)
	arms := []ast.MatchArm{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		armStart := p.peek().Start

		pattern := p.parsePattern()

		var guard ast.Expression
		if p.match(tokens.IF_TOKEN) {
			p.advance()
			guard = p.parseExpr()
		}

		p.expect(tokens.FAT_ARROW_TOKEN)

		body := p.parseExpr()
		if body == nil {
			body = p.invalidExpr()
		}

		arms = append(arms, ast.MatchArm{
			Pattern:  pattern,
			Guard:    guard,
			Body:     body,
			Location: p.makeLocation(armStart),
		})

		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
	}
	end := p.expect(tokens.CLOSE_CURLY).End

	return &ast.MatchExpr{
		Scrutinee: scrutinee,
		Arms:      arms,
		Location:  source.NewLocation(p.filepath, start, end),
	}
}

// parseWhileExpr: while cond { body }
func (p *Parser) parseWhileExpr() ast.Expression {
	start := p.expect(tokens.WHILE_TOKEN).Start

	cond := p.parseExpr()
	if cond == nil {
		cond = p.invalidExpr()
	}
	body := p.parseBlock()

	return &ast.WhileExpr{
		Cond:     cond,
		Body:     body,
		Location: p.makeLocation(start),
	}
}

// parseForExpr: for pattern in iterator { body }
func (p *Parser) parseForExpr() ast.Expression {
	start := p.expect(tokens.FOR_TOKEN).Start

	pattern := p.parsePattern()
	p.expect(tokens.IN_TOKEN)
	iterator := p.parseExpr()
	if iterator == nil {
		iterator = p.invalidExpr()
	}
	body := p.parseBlock()

	return &ast.ForExpr{
		Pattern:  pattern,
		Iterator: iterator,
		Body:     body,
		Location: p.makeLocation(start),
	}
}
