package semantics

import (
	"fmt"
	"strings"

	"github.com/ShubhamPhapale/apex/internal/diagnostics"
	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/semantics/table"
)

// Analyzer walks the module building scopes and populating symbol tables.
// It reports redefinitions and unresolved identifiers. Type inference, trait
// resolution, and borrow checking are deferred to later phases.
type Analyzer struct {
	diagnostics *diagnostics.DiagnosticBag
	moduleScope *table.SymbolTable
	scope       *table.SymbolTable
	loopDepth   int
	scopeDepth  int
}

// New creates an analyzer reporting into the given diagnostic bag.
func New(diag *diagnostics.DiagnosticBag) *Analyzer {
	moduleScope := table.NewSymbolTable(nil)
	return &Analyzer{
		diagnostics: diag,
		moduleScope: moduleScope,
		scope:       moduleScope,
	}
}

// ModuleScope returns the top-level symbol table.
func (a *Analyzer) ModuleScope() *table.SymbolTable {
	return a.moduleScope
}

// ScopeDepth returns the number of scopes currently pushed below the module
// scope. It is zero between items.
func (a *Analyzer) ScopeDepth() int {
	return a.scopeDepth
}

func (a *Analyzer) pushScope() {
	a.scope = table.NewSymbolTable(a.scope)
	a.scopeDepth++
}

func (a *Analyzer) popScope() {
	a.scope = a.scope.Parent()
	a.scopeDepth--
}

func (a *Analyzer) errorNode(node ast.Node, msg string) {
	a.diagnostics.Add(diagnostics.NewError(msg, *node.Loc()))
}

func (a *Analyzer) warnNode(node ast.Node, msg string) {
	a.diagnostics.Add(diagnostics.NewWarning(msg, *node.Loc()))
}

// Analyze runs both passes over the module: first collect top-level items
// into the module scope, then walk each item body.
func (a *Analyzer) Analyze(module *ast.Module) {
	for _, item := range module.Items {
		a.collectItem(item)
	}
	for _, item := range module.Items {
		a.analyzeItem(item)
	}
}

// collectItem declares a top-level item in the module scope (pass 1).
func (a *Analyzer) collectItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDecl:
		a.declare(it, &table.Symbol{
			Name:        it.Name,
			Kind:        table.SymbolFunction,
			Initialized: true,
			Location:    *it.Loc(),
		})
	case *ast.StructDecl:
		a.declare(it, &table.Symbol{
			Name:     it.Name,
			Kind:     table.SymbolStruct,
			Location: *it.Loc(),
		})
		a.checkStructFields(it)
	case *ast.EnumDecl:
		a.declare(it, &table.Symbol{
			Name:     it.Name,
			Kind:     table.SymbolEnum,
			Location: *it.Loc(),
		})
		a.checkEnumVariants(it)
	case *ast.TraitDecl:
		a.declare(it, &table.Symbol{
			Name:     it.Name,
			Kind:     table.SymbolTrait,
			Location: *it.Loc(),
		})
	case *ast.TypeAliasDecl:
		a.declare(it, &table.Symbol{
			Name:     it.Name,
			Kind:     table.SymbolTypeAlias,
			Location: *it.Loc(),
		})
	case *ast.ExternBlock:
		for _, inner := range it.Items {
			a.collectItem(inner)
		}
	case *ast.ModuleDecl:
		for _, inner := range it.Items {
			a.collectItem(inner)
		}
	}
	// impls and imports introduce no module-scope value names
}

func (a *Analyzer) declare(node ast.Node, sym *table.Symbol) {
	if err := a.scope.Declare(sym); err != nil {
		a.errorNode(node, err.Error())
	}
}

func (a *Analyzer) checkStructFields(decl *ast.StructDecl) {
	seen := make(map[string]bool, len(decl.Fields))
	for i := range decl.Fields {
		field := &decl.Fields[i]
		if seen[field.Name] {
			a.diagnostics.Add(diagnostics.NewError(
				fmt.Sprintf("duplicate field %q in struct %q", field.Name, decl.Name),
				field.Location))
			continue
		}
		seen[field.Name] = true
	}
}

func (a *Analyzer) checkEnumVariants(decl *ast.EnumDecl) {
	seen := make(map[string]bool, len(decl.Variants))
	for i := range decl.Variants {
		variant := &decl.Variants[i]
		if seen[variant.Name] {
			a.diagnostics.Add(diagnostics.NewError(
				fmt.Sprintf("duplicate variant %q in enum %q", variant.Name, decl.Name),
				variant.Location))
			continue
		}
		seen[variant.Name] = true
	}
}

// analyzeItem walks an item body (pass 2).
func (a *Analyzer) analyzeItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDecl:
		a.analyzeFunction(it)
	case *ast.ImplDecl:
		for _, inner := range it.Items {
			a.analyzeItem(inner)
		}
	case *ast.ModuleDecl:
		for _, inner := range it.Items {
			a.analyzeItem(inner)
		}
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.FuncDecl) {
	if fn.Body == nil {
		return
	}

	a.pushScope()
	defer a.popScope()

	for i := range fn.Params {
		param := &fn.Params[i]
		name, ok := ast.BindingName(param.Pattern)
		if !ok {
			continue
		}
		sym := &table.Symbol{
			Name:        name,
			Kind:        table.SymbolParameter,
			Mutable:     ast.IsMutable(param.Pattern),
			Initialized: true,
			Location:    param.Location,
		}
		if err := a.scope.Declare(sym); err != nil {
			a.diagnostics.Add(diagnostics.NewError(err.Error(), param.Location))
		}
	}

	a.analyzeBlockInCurrentScope(fn.Body)
}

// analyzeBlock pushes a fresh scope for the block.
func (a *Analyzer) analyzeBlock(block *ast.BlockExpr) {
	a.pushScope()
	defer a.popScope()
	a.analyzeBlockInCurrentScope(block)
}

// analyzeBlockInCurrentScope walks a block's statements without introducing
// a scope; function bodies share the parameter scope.
func (a *Analyzer) analyzeBlockInCurrentScope(block *ast.BlockExpr) {
	for _, stmt := range block.Stmts {
		a.analyzeStmt(stmt)
	}
	if block.Tail != nil {
		a.analyzeExpr(block.Tail)
	}
}

func (a *Analyzer) analyzeStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		a.analyzeLet(s)
	case *ast.ExprStmt:
		a.analyzeExpr(s.X)
	case *ast.ItemStmt:
		a.collectItem(s.Item)
		a.analyzeItem(s.Item)
	}
}

func (a *Analyzer) analyzeLet(let *ast.LetStmt) {
	if let.Init != nil {
		a.analyzeExpr(let.Init)
	}

	name, ok := ast.BindingName(let.Pattern)
	if !ok || name == "" {
		a.errorNode(let, "let binding requires a name")
		return
	}

	sym := &table.Symbol{
		Name:        name,
		Kind:        table.SymbolVariable,
		Mutable:     ast.IsMutable(let.Pattern),
		Initialized: let.Init != nil,
		Location:    *let.Loc(),
	}
	if err := a.scope.Declare(sym); err != nil {
		a.errorNode(let, err.Error())
	}
}

func (a *Analyzer) analyzeExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.IdentifierExpr:
		a.resolveIdentifier(e)

	case *ast.BinaryExpr:
		if isAssignOp(string(e.Op.Kind)) {
			a.analyzeAssignment(e)
			return
		}
		a.analyzeExpr(e.X)
		a.analyzeExpr(e.Y)

	case *ast.UnaryExpr:
		a.analyzeExpr(e.X)

	case *ast.CallExpr:
		a.analyzeExpr(e.Fun)
		for _, arg := range e.Args {
			a.analyzeExpr(arg)
		}

	case *ast.IndexExpr:
		a.analyzeExpr(e.X)
		a.analyzeExpr(e.Index)

	case *ast.SelectorExpr:
		a.analyzeExpr(e.X)
		// field names resolve against struct types, deferred with inference

	case *ast.CastExpr:
		a.analyzeExpr(e.X)

	case *ast.StructLit:
		for _, field := range e.Fields {
			a.analyzeExpr(field.Value)
		}

	case *ast.ArrayLit:
		for _, elem := range e.Elements {
			a.analyzeExpr(elem)
		}
		if e.Repeat != nil {
			a.analyzeExpr(e.Repeat)
			a.analyzeExpr(e.Count)
		}

	case *ast.TupleExpr:
		for _, elem := range e.Elements {
			a.analyzeExpr(elem)
		}

	case *ast.BlockExpr:
		a.analyzeBlock(e)

	case *ast.IfExpr:
		a.analyzeExpr(e.Cond)
		a.analyzeBlock(e.Then)
		if e.Else != nil {
			a.analyzeExpr(e.Else)
		}

	case *ast.MatchExpr:
		a.analyzeMatch(e)

	case *ast.RangeExpr:
		if e.Start != nil {
			a.analyzeExpr(e.Start)
		}
		if e.End != nil {
			a.analyzeExpr(e.End)
		}

	case *ast.ReturnExpr:
		if e.Value != nil {
			a.analyzeExpr(e.Value)
		}

	case *ast.WhileExpr:
		a.analyzeExpr(e.Cond)
		a.loopDepth++
		a.analyzeBlock(e.Body)
		a.loopDepth--

	case *ast.ForExpr:
		a.analyzeFor(e)

	case *ast.BreakExpr:
		if a.loopDepth == 0 {
			a.errorNode(e, "break outside of loop")
		}

	case *ast.ContinueExpr:
		if a.loopDepth == 0 {
			a.errorNode(e, "continue outside of loop")
		}
	}
}

func (a *Analyzer) resolveIdentifier(ident *ast.IdentifierExpr) {
	// Path expressions (Enum::Variant) resolve against types, which is
	// deferred along with inference.
	if strings.Contains(ident.Name, "::") {
		return
	}
	if _, ok := a.scope.Lookup(ident.Name); !ok {
		a.errorNode(ident, fmt.Sprintf("undefined identifier %q", ident.Name))
	}
}

func (a *Analyzer) analyzeAssignment(assign *ast.BinaryExpr) {
	if target, ok := assign.X.(*ast.IdentifierExpr); ok {
		sym, found := a.scope.Lookup(target.Name)
		if !found {
			a.errorNode(target, fmt.Sprintf("undefined identifier %q", target.Name))
		} else {
			if !sym.Mutable {
				// Reportable but non-fatal here; codegen enforces.
				a.warnNode(target, fmt.Sprintf("assignment to immutable binding %q", target.Name))
			}
			sym.Initialized = true
		}
	} else {
		a.analyzeExpr(assign.X)
	}
	a.analyzeExpr(assign.Y)
}

// analyzeFor binds the loop pattern in a fresh scope around the body.
func (a *Analyzer) analyzeFor(loop *ast.ForExpr) {
	a.analyzeExpr(loop.Iterator)

	a.pushScope()
	defer a.popScope()

	if name, ok := ast.BindingName(loop.Pattern); ok {
		a.declare(loop.Pattern, &table.Symbol{
			Name:        name,
			Kind:        table.SymbolVariable,
			Mutable:     ast.IsMutable(loop.Pattern),
			Initialized: true,
			Location:    *loop.Pattern.Loc(),
		})
	}

	a.loopDepth++
	a.analyzeBlockInCurrentScope(loop.Body)
	a.loopDepth--
}

// analyzeMatch gives each arm its own scope; identifier patterns introduce
// bindings into that scope.
func (a *Analyzer) analyzeMatch(match *ast.MatchExpr) {
	a.analyzeExpr(match.Scrutinee)

	for i := range match.Arms {
		arm := &match.Arms[i]
		a.pushScope()
		a.bindPattern(arm.Pattern)
		if arm.Guard != nil {
			a.analyzeExpr(arm.Guard)
		}
		a.analyzeExpr(arm.Body)
		a.popScope()
	}
}

// bindPattern declares the names a pattern introduces into the current scope.
func (a *Analyzer) bindPattern(pattern ast.Pattern) {
	switch pat := pattern.(type) {
	case *ast.IdentifierPattern:
		a.declare(pat, &table.Symbol{
			Name:        pat.Name,
			Kind:        table.SymbolVariable,
			Mutable:     pat.Mutable,
			Initialized: true,
			Location:    *pat.Loc(),
		})
	case *ast.TuplePattern:
		for _, sub := range pat.Patterns {
			a.bindPattern(sub)
		}
	case *ast.StructPattern:
		for _, field := range pat.Fields {
			a.bindPattern(field.Pattern)
		}
	case *ast.EnumPattern:
		for _, sub := range pat.Patterns {
			a.bindPattern(sub)
		}
	case *ast.OrPattern:
		for _, sub := range pat.Patterns {
			a.bindPattern(sub)
		}
	}
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}
