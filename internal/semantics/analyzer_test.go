package semantics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamPhapale/apex/internal/diagnostics"
	"github.com/ShubhamPhapale/apex/internal/frontend/lexer"
	"github.com/ShubhamPhapale/apex/internal/frontend/parser"
)

func analyzeSource(t *testing.T, src string) (*Analyzer, *diagnostics.DiagnosticBag) {
	t.Helper()
	bag := diagnostics.NewDiagnosticBag()
	lex := lexer.New("test.apex", src, bag)
	module := parser.Parse(lex.Tokenize(), "test.apex", bag)
	require.False(t, bag.HasErrors(), "source must parse cleanly")

	analyzer := New(bag)
	analyzer.Analyze(module)
	return analyzer, bag
}

func errorMessages(bag *diagnostics.DiagnosticBag) []string {
	msgs := []string{}
	for _, diag := range bag.Diagnostics() {
		if diag.Severity == diagnostics.Error {
			msgs = append(msgs, diag.Message)
		}
	}
	return msgs
}

func TestCollectTopLevelItems(t *testing.T) {
	analyzer, bag := analyzeSource(t, `
struct Point { x: i32 }
enum Color { Red, Green }
fn main() -> i32 { return 0; }
`)
	require.False(t, bag.HasErrors())

	scope := analyzer.ModuleScope()
	for _, name := range []string{"Point", "Color", "main"} {
		_, ok := scope.Lookup(name)
		assert.True(t, ok, "expected %q in module scope", name)
	}
}

func TestTopLevelRedefinition(t *testing.T) {
	_, bag := analyzeSource(t, `
fn twice() -> i32 { return 1; }
fn twice() -> i32 { return 2; }
`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], "already declared")
}

func TestDuplicateStructField(t *testing.T) {
	_, bag := analyzeSource(t, "struct P { x: i32, x: i32 }")
	msgs := errorMessages(bag)
	require.Len(t, msgs, 1, "exactly one error for the duplicate field")
	assert.Contains(t, msgs[0], `duplicate field "x"`)

	// The diagnostic points at the second field.
	for _, diag := range bag.Diagnostics() {
		if diag.Severity == diagnostics.Error {
			assert.Greater(t, diag.Location.Start.Column, 12)
		}
	}
}

func TestDuplicateEnumVariant(t *testing.T) {
	_, bag := analyzeSource(t, "enum E { A, A }")
	msgs := errorMessages(bag)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], `duplicate variant "A"`)
}

func TestUndefinedIdentifier(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() -> i32 { return missing; }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], `undefined identifier "missing"`)
}

func TestLetRedefinitionInSameScope(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { let x = 1; let x = 2; }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], "already declared")
}

func TestShadowingAcrossScopesAllowed(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { let x = 1; { let x = 2; x; } x; }")
	assert.False(t, bag.HasErrors())
}

func TestScopeDisciplineAfterFunction(t *testing.T) {
	analyzer, bag := analyzeSource(t, `
fn f(a: i32) -> i32 {
    let b = a;
    { let c = b; c; }
    return b;
}
`)
	require.False(t, bag.HasErrors())
	assert.Equal(t, 0, analyzer.ScopeDepth(), "every pushed scope must be popped")
}

func TestAssignmentToImmutableWarns(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { let x = 1; x = 2; }")
	assert.False(t, bag.HasErrors(), "immutable write is reportable but non-fatal")
	assert.Equal(t, 1, bag.WarningCount())
}

func TestAssignmentToMutableIsClean(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { let mut x = 1; x = 2; }")
	assert.False(t, bag.HasErrors())
	assert.Zero(t, bag.WarningCount())
}

func TestAssignmentToUndefined(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { ghost = 1; }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], `undefined identifier "ghost"`)
}

func TestBreakOutsideLoop(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { break; }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], "break outside of loop")
}

func TestContinueOutsideLoop(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { continue; }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], "continue outside of loop")
}

func TestBreakInsideLoopAllowed(t *testing.T) {
	_, bag := analyzeSource(t, `
fn f() {
    let mut i = 0;
    while i < 10 {
        if i == 5 { break; }
        i = i + 1;
    }
    for j in 0..3 { continue; }
}
`)
	assert.False(t, bag.HasErrors())
}

func TestForLoopVariableScoping(t *testing.T) {
	// The loop variable is visible in the body...
	_, bag := analyzeSource(t, "fn f() { for i in 0..10 { i; } }")
	assert.False(t, bag.HasErrors())

	// ...and unresolved after the loop when there was no prior binding.
	_, bag = analyzeSource(t, "fn f() { for i in 0..10 { } i; }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], `undefined identifier "i"`)
}

func TestMatchArmBindings(t *testing.T) {
	_, bag := analyzeSource(t, `
fn f(x: i32) -> i32 {
    return match x {
        0 => 1,
        other => other,
    };
}
`)
	assert.False(t, bag.HasErrors())
}

func TestMatchArmBindingDoesNotLeak(t *testing.T) {
	_, bag := analyzeSource(t, `
fn f(x: i32) {
    match x { other => other, };
    other;
}
`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], `undefined identifier "other"`)
}

func TestFunctionCallResolvesAgainstModuleScope(t *testing.T) {
	_, bag := analyzeSource(t, `
fn helper() -> i32 { return 1; }
fn main() -> i32 { return helper(); }
`)
	assert.False(t, bag.HasErrors())
}

func TestDuplicateParameter(t *testing.T) {
	_, bag := analyzeSource(t, "fn f(a: i32, a: i32) { }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], "already declared")
}

func TestLetRequiresName(t *testing.T) {
	_, bag := analyzeSource(t, "fn f() { let _ = 1; }")
	require.True(t, bag.HasErrors())
	assert.Contains(t, errorMessages(bag)[0], "let binding requires a name")
}

func TestItemStatementInBody(t *testing.T) {
	_, bag := analyzeSource(t, `
fn outer() -> i32 {
    struct Local { v: i32 }
    return 0;
}
`)
	assert.False(t, bag.HasErrors())
}
