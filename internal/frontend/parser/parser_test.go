package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamPhapale/apex/internal/diagnostics"
	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/frontend/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Module, *diagnostics.DiagnosticBag) {
	t.Helper()
	bag := diagnostics.NewDiagnosticBag()
	lex := lexer.New("test.apex", src, bag)
	toks := lex.Tokenize()
	module := Parse(toks, "test.apex", bag)
	return module, bag
}

func TestParseFunction(t *testing.T) {
	module, bag := parseSource(t, "fn add(a: i32, b: i32) -> i32 { return a + b; }")
	require.False(t, bag.HasErrors())
	require.Len(t, module.Items, 1)

	fn, ok := module.Items[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
	require.NotNil(t, fn.ReturnType)
	prim, ok := fn.ReturnType.(*ast.PrimitiveType)
	require.True(t, ok)
	assert.Equal(t, "i32", prim.Name)
	require.NotNil(t, fn.Body)
}

func TestMutableParameterUsesPatternGrammar(t *testing.T) {
	module, bag := parseSource(t, "fn inc(mut x: i32) -> i32 { x = x + 1; return x; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	require.Len(t, fn.Params, 1)
	pat, ok := fn.Params[0].Pattern.(*ast.IdentifierPattern)
	require.True(t, ok)
	assert.Equal(t, "x", pat.Name)
	assert.True(t, pat.Mutable)
}

func TestItemDispatch(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, item ast.Item)
	}{
		{
			name:   "struct",
			source: "struct Point { pub x: i32, pub y: i32 }",
			check: func(t *testing.T, item ast.Item) {
				s := item.(*ast.StructDecl)
				assert.Equal(t, "Point", s.Name)
				require.Len(t, s.Fields, 2)
				assert.Equal(t, ast.Public, s.Fields[0].Visibility)
			},
		},
		{
			name:   "enum with payload",
			source: "enum Shape { Circle(f64), Square(f64), Empty }",
			check: func(t *testing.T, item ast.Item) {
				e := item.(*ast.EnumDecl)
				require.Len(t, e.Variants, 3)
				assert.Len(t, e.Variants[0].TupleFields, 1)
				assert.Empty(t, e.Variants[2].TupleFields)
			},
		},
		{
			name:   "trait",
			source: "trait Area { fn area(self: f64) -> f64; }",
			check: func(t *testing.T, item ast.Item) {
				tr := item.(*ast.TraitDecl)
				assert.Equal(t, "Area", tr.Name)
				require.Len(t, tr.Items, 1)
			},
		},
		{
			name:   "impl",
			source: "impl Point { fn norm(self: i32) -> i32 { return self; } }",
			check: func(t *testing.T, item ast.Item) {
				im := item.(*ast.ImplDecl)
				assert.Nil(t, im.Trait)
				require.Len(t, im.Items, 1)
			},
		},
		{
			name:   "trait impl",
			source: "impl Area for Point { fn area(self: i32) -> i32 { return 0; } }",
			check: func(t *testing.T, item ast.Item) {
				im := item.(*ast.ImplDecl)
				assert.Equal(t, []string{"Area"}, im.Trait)
			},
		},
		{
			name:   "type alias",
			source: "type Size = u64;",
			check: func(t *testing.T, item ast.Item) {
				al := item.(*ast.TypeAliasDecl)
				assert.Equal(t, "Size", al.Name)
			},
		},
		{
			name:   "module",
			source: "mod geometry { struct Point { x: i32 } }",
			check: func(t *testing.T, item ast.Item) {
				m := item.(*ast.ModuleDecl)
				assert.Equal(t, "geometry", m.Name)
				require.Len(t, m.Items, 1)
			},
		},
		{
			name:   "import",
			source: "import std::mem as memory;",
			check: func(t *testing.T, item ast.Item) {
				im := item.(*ast.ImportDecl)
				assert.Equal(t, []string{"std", "mem"}, im.Path)
				assert.Equal(t, "memory", im.Alias)
			},
		},
		{
			name:   "extern block",
			source: `extern "C" { fn puts(s: *u8) -> i32; }`,
			check: func(t *testing.T, item ast.Item) {
				ex := item.(*ast.ExternBlock)
				assert.Equal(t, "C", ex.ABI)
				require.Len(t, ex.Items, 1)
				assert.True(t, ex.Items[0].(*ast.FuncDecl).IsExtern)
			},
		},
		{
			name:   "pub function",
			source: "pub fn id(x: i32) -> i32 { return x; }",
			check: func(t *testing.T, item ast.Item) {
				fn := item.(*ast.FuncDecl)
				assert.Equal(t, ast.Public, fn.Visibility)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, bag := parseSource(t, tt.source)
			require.False(t, bag.HasErrors(), "unexpected parse errors")
			require.Len(t, module.Items, 1)
			tt.check(t, module.Items[0])
		})
	}
}

func TestPrecedence(t *testing.T) {
	module, bag := parseSource(t, "fn f() -> i32 { return 1 + 2 * 3; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.ReturnExpr)
	add := ret.Value.(*ast.BinaryExpr)
	assert.Equal(t, "+", add.Op.Lexeme)
	mul, ok := add.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op.Lexeme)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	module, bag := parseSource(t, "fn f() { a = b = c; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	outer := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)
	assert.Equal(t, "=", outer.Op.Lexeme)
	inner, ok := outer.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "=", inner.Op.Lexeme)
}

func TestStructLiteralHeuristic(t *testing.T) {
	// Capitalized name followed by '{' is a struct literal.
	module, bag := parseSource(t, "fn f() { let p = Point { x: 3, y: 4 }; }")
	require.False(t, bag.HasErrors())
	fn := module.Items[0].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	lit, ok := let.Init.(*ast.StructLit)
	require.True(t, ok)
	assert.Equal(t, []string{"Point"}, lit.Path)
	assert.Len(t, lit.Fields, 2)

	// Lowercase identifier before '{' is NOT a struct literal, so a bare if
	// condition keeps its block: `if x < y {` must not swallow the brace.
	module, bag = parseSource(t, "fn f(x: i32, y: i32) { if x < y { return; } }")
	require.False(t, bag.HasErrors())
	fn = module.Items[0].(*ast.FuncDecl)
	ifExpr, ok := fn.Body.Tail.(*ast.IfExpr)
	require.True(t, ok)
	cmp, ok := ifExpr.Cond.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "<", cmp.Op.Lexeme)
}

func TestBlockTrailingExpression(t *testing.T) {
	module, bag := parseSource(t, "fn f() -> i32 { let x = 1; x }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 1)
	require.NotNil(t, fn.Body.Tail)
	tail, ok := fn.Body.Tail.(*ast.IdentifierExpr)
	require.True(t, ok)
	assert.Equal(t, "x", tail.Name)
}

func TestBlockWithoutTrailingExpression(t *testing.T) {
	module, bag := parseSource(t, "fn f() { let x = 1; x; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	assert.Len(t, fn.Body.Stmts, 2)
	assert.Nil(t, fn.Body.Tail)
}

func TestRangeExpressions(t *testing.T) {
	module, bag := parseSource(t, "fn f() { for i in 0..10 { } for j in 0..=5 { } }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	forExpr := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.ForExpr)
	rng, ok := forExpr.Iterator.(*ast.RangeExpr)
	require.True(t, ok)
	assert.False(t, rng.Inclusive)
	require.NotNil(t, rng.Start)
	require.NotNil(t, rng.End)

	forExpr2 := fn.Body.Tail.(*ast.ForExpr)
	rng2 := forExpr2.Iterator.(*ast.RangeExpr)
	assert.True(t, rng2.Inclusive)
}

func TestOpenEndedRanges(t *testing.T) {
	module, bag := parseSource(t, "fn f() { let a = 1..; let b = ..5; let c = ..; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	a := fn.Body.Stmts[0].(*ast.LetStmt).Init.(*ast.RangeExpr)
	assert.NotNil(t, a.Start)
	assert.Nil(t, a.End)
	b := fn.Body.Stmts[1].(*ast.LetStmt).Init.(*ast.RangeExpr)
	assert.Nil(t, b.Start)
	assert.NotNil(t, b.End)
	c := fn.Body.Stmts[2].(*ast.LetStmt).Init.(*ast.RangeExpr)
	assert.Nil(t, c.Start)
	assert.Nil(t, c.End)
}

func TestMatchExpression(t *testing.T) {
	module, bag := parseSource(t, `
fn f(x: i32) -> i32 {
    return match x + 1 {
        0 => 10,
        1 if x > 0 => 20,
        _ => 0,
    };
}`)
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.ReturnExpr)
	m, ok := ret.Value.(*ast.MatchExpr)
	require.True(t, ok)

	// Scrutinee is a full expression, not just an identifier.
	_, ok = m.Scrutinee.(*ast.BinaryExpr)
	assert.True(t, ok)

	require.Len(t, m.Arms, 3)
	_, ok = m.Arms[0].Pattern.(*ast.LiteralPattern)
	assert.True(t, ok)
	assert.NotNil(t, m.Arms[1].Guard)
	_, ok = m.Arms[2].Pattern.(*ast.WildcardPattern)
	assert.True(t, ok)
}

func TestCastAndPostfix(t *testing.T) {
	module, bag := parseSource(t, "fn f(p: Point) -> i64 { return p.x as i64; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.ReturnExpr)
	cast, ok := ret.Value.(*ast.CastExpr)
	require.True(t, ok)
	_, ok = cast.X.(*ast.SelectorExpr)
	assert.True(t, ok)
}

func TestUnaryOperators(t *testing.T) {
	module, bag := parseSource(t, "fn f(x: i32) { let a = -x; let b = !true; let c = ~x; let d = &mut x; let e = *d; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	d := fn.Body.Stmts[3].(*ast.LetStmt).Init.(*ast.UnaryExpr)
	assert.Equal(t, "&", d.Op.Lexeme)
	assert.True(t, d.Mut)
}

func TestArrayLiterals(t *testing.T) {
	module, bag := parseSource(t, "fn f() { let a = [1, 2, 3]; let b = [0; 10]; }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	a := fn.Body.Stmts[0].(*ast.LetStmt).Init.(*ast.ArrayLit)
	assert.Len(t, a.Elements, 3)
	b := fn.Body.Stmts[1].(*ast.LetStmt).Init.(*ast.ArrayLit)
	assert.NotNil(t, b.Repeat)
	assert.NotNil(t, b.Count)
}

func TestErrorRecoverySynchronizes(t *testing.T) {
	// A malformed statement must produce an error but not cascade: the
	// following function still parses.
	module, bag := parseSource(t, `
fn broken() { let = ; }
fn ok() -> i32 { return 1; }
`)
	require.True(t, bag.HasErrors())

	names := []string{}
	for _, item := range module.Items {
		if fn, ok := item.(*ast.FuncDecl); ok {
			names = append(names, fn.Name)
		}
	}
	assert.Contains(t, names, "ok")
}

func TestParserTerminatesOnGarbage(t *testing.T) {
	_, bag := parseSource(t, "@ # ? ) } ] fn f() { } @ @")
	assert.True(t, bag.HasErrors())
}

func TestTupleAndGrouping(t *testing.T) {
	module, bag := parseSource(t, "fn f() { let a = (1 + 2) * 3; let b = (1, 2, 3); let u = (); }")
	require.False(t, bag.HasErrors())

	fn := module.Items[0].(*ast.FuncDecl)
	a := fn.Body.Stmts[0].(*ast.LetStmt).Init.(*ast.BinaryExpr)
	assert.Equal(t, "*", a.Op.Lexeme)
	b := fn.Body.Stmts[1].(*ast.LetStmt).Init.(*ast.TupleExpr)
	assert.Len(t, b.Elements, 3)
	u := fn.Body.Stmts[2].(*ast.LetStmt).Init.(*ast.TupleExpr)
	assert.Empty(t, u.Elements)
}

func TestCompoundAssignmentOperators(t *testing.T) {
	srcs := []string{"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>="}
	for _, op := range srcs {
		t.Run(op, func(t *testing.T) {
			module, bag := parseSource(t, "fn f(mut x: i32) { x "+op+" 1; }")
			require.False(t, bag.HasErrors())
			fn := module.Items[0].(*ast.FuncDecl)
			bin := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)
			assert.Equal(t, op, bin.Op.Lexeme)
		})
	}
}
