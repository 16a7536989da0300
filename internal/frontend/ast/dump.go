package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented tree of the module: each node prints its kind (and
// name where applicable) with children indented two spaces.
func Dump(w io.Writer, m *Module) {
	fmt.Fprintf(w, "Module: %s\n", m.Name)
	for _, item := range m.Items {
		dumpItem(w, item, 1)
	}
}

func indent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat("  ", depth))
}

func dumpItem(w io.Writer, item Item, depth int) {
	if item == nil {
		return
	}
	indent(w, depth)
	switch it := item.(type) {
	case *FuncDecl:
		fmt.Fprintf(w, "Function: %s\n", it.Name)
		for _, param := range it.Params {
			indent(w, depth+1)
			fmt.Fprintf(w, "Param: %s\n", patternName(param.Pattern))
		}
		if it.Body != nil {
			dumpExpr(w, it.Body, depth+1)
		}
	case *StructDecl:
		fmt.Fprintf(w, "Struct: %s\n", it.Name)
		for _, field := range it.Fields {
			indent(w, depth+1)
			fmt.Fprintf(w, "Field: %s\n", field.Name)
		}
	case *EnumDecl:
		fmt.Fprintf(w, "Enum: %s\n", it.Name)
		for _, variant := range it.Variants {
			indent(w, depth+1)
			fmt.Fprintf(w, "Variant: %s\n", variant.Name)
		}
	case *TraitDecl:
		fmt.Fprintf(w, "Trait: %s\n", it.Name)
		for _, inner := range it.Items {
			dumpItem(w, inner, depth+1)
		}
	case *ImplDecl:
		fmt.Fprintln(w, "Impl")
		for _, inner := range it.Items {
			dumpItem(w, inner, depth+1)
		}
	case *TypeAliasDecl:
		fmt.Fprintf(w, "TypeAlias: %s\n", it.Name)
	case *ModuleDecl:
		fmt.Fprintf(w, "Module: %s\n", it.Name)
		for _, inner := range it.Items {
			dumpItem(w, inner, depth+1)
		}
	case *ImportDecl:
		fmt.Fprintf(w, "Import: %s\n", strings.Join(it.Path, "::"))
	case *ExternBlock:
		fmt.Fprintln(w, "Extern")
		for _, inner := range it.Items {
			dumpItem(w, inner, depth+1)
		}
	default:
		fmt.Fprintf(w, "Item (%T)\n", it)
	}
}

func dumpStmt(w io.Writer, stmt Statement, depth int) {
	if stmt == nil {
		return
	}
	indent(w, depth)
	switch s := stmt.(type) {
	case *LetStmt:
		fmt.Fprintf(w, "Let: %s\n", patternName(s.Pattern))
		if s.Init != nil {
			dumpExpr(w, s.Init, depth+1)
		}
	case *ExprStmt:
		fmt.Fprintln(w, "ExprStmt")
		dumpExpr(w, s.X, depth+1)
	case *ItemStmt:
		fmt.Fprintln(w, "ItemStmt")
		dumpItem(w, s.Item, depth+1)
	default:
		fmt.Fprintf(w, "Stmt (%T)\n", s)
	}
}

func dumpExpr(w io.Writer, expr Expression, depth int) {
	if expr == nil {
		return
	}
	indent(w, depth)
	switch e := expr.(type) {
	case *BasicLit:
		fmt.Fprintf(w, "Literal: %s\n", e.Lexeme)
	case *IdentifierExpr:
		fmt.Fprintf(w, "Identifier: %s\n", e.Name)
	case *BinaryExpr:
		fmt.Fprintf(w, "Binary: %s\n", e.Op.Lexeme)
		dumpExpr(w, e.X, depth+1)
		dumpExpr(w, e.Y, depth+1)
	case *UnaryExpr:
		fmt.Fprintf(w, "Unary: %s\n", e.Op.Lexeme)
		dumpExpr(w, e.X, depth+1)
	case *CallExpr:
		fmt.Fprintln(w, "Call")
		dumpExpr(w, e.Fun, depth+1)
		for _, arg := range e.Args {
			dumpExpr(w, arg, depth+1)
		}
	case *IndexExpr:
		fmt.Fprintln(w, "Index")
		dumpExpr(w, e.X, depth+1)
		dumpExpr(w, e.Index, depth+1)
	case *SelectorExpr:
		fmt.Fprintf(w, "FieldAccess: %s\n", e.Field.Name)
		dumpExpr(w, e.X, depth+1)
	case *CastExpr:
		fmt.Fprintln(w, "Cast")
		dumpExpr(w, e.X, depth+1)
	case *StructLit:
		fmt.Fprintf(w, "StructLiteral: %s\n", strings.Join(e.Path, "::"))
		for _, field := range e.Fields {
			indent(w, depth+1)
			fmt.Fprintf(w, "Field: %s\n", field.Name)
			dumpExpr(w, field.Value, depth+2)
		}
	case *ArrayLit:
		fmt.Fprintln(w, "ArrayLiteral")
		for _, elem := range e.Elements {
			dumpExpr(w, elem, depth+1)
		}
		if e.Repeat != nil {
			dumpExpr(w, e.Repeat, depth+1)
			dumpExpr(w, e.Count, depth+1)
		}
	case *TupleExpr:
		fmt.Fprintln(w, "Tuple")
		for _, elem := range e.Elements {
			dumpExpr(w, elem, depth+1)
		}
	case *BlockExpr:
		fmt.Fprintln(w, "Block")
		for _, stmt := range e.Stmts {
			dumpStmt(w, stmt, depth+1)
		}
		if e.Tail != nil {
			dumpExpr(w, e.Tail, depth+1)
		}
	case *IfExpr:
		fmt.Fprintln(w, "If")
		dumpExpr(w, e.Cond, depth+1)
		dumpExpr(w, e.Then, depth+1)
		if e.Else != nil {
			dumpExpr(w, e.Else, depth+1)
		}
	case *MatchExpr:
		fmt.Fprintln(w, "Match")
		dumpExpr(w, e.Scrutinee, depth+1)
		for _, arm := range e.Arms {
			indent(w, depth+1)
			fmt.Fprintf(w, "Arm: %s\n", patternName(arm.Pattern))
			dumpExpr(w, arm.Body, depth+2)
		}
	case *RangeExpr:
		fmt.Fprintln(w, "Range")
		dumpExpr(w, e.Start, depth+1)
		dumpExpr(w, e.End, depth+1)
	case *ReturnExpr:
		fmt.Fprintln(w, "Return")
		dumpExpr(w, e.Value, depth+1)
	case *WhileExpr:
		fmt.Fprintln(w, "While")
		dumpExpr(w, e.Cond, depth+1)
		dumpExpr(w, e.Body, depth+1)
	case *ForExpr:
		fmt.Fprintf(w, "For: %s\n", patternName(e.Pattern))
		dumpExpr(w, e.Iterator, depth+1)
		dumpExpr(w, e.Body, depth+1)
	case *BreakExpr:
		fmt.Fprintln(w, "Break")
	case *ContinueExpr:
		fmt.Fprintln(w, "Continue")
	case *Invalid:
		fmt.Fprintln(w, "Invalid")
	default:
		fmt.Fprintf(w, "Expr (%T)\n", e)
	}
}

func patternName(p Pattern) string {
	switch pat := p.(type) {
	case *IdentifierPattern:
		if pat.Mutable {
			return "mut " + pat.Name
		}
		return pat.Name
	case *WildcardPattern:
		return "_"
	case *LiteralPattern:
		return pat.Value.Lexeme
	case *TuplePattern:
		names := make([]string, len(pat.Patterns))
		for i, sub := range pat.Patterns {
			names[i] = patternName(sub)
		}
		return "(" + strings.Join(names, ", ") + ")"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", pat)
	}
}
