package ast

import (
	"github.com/ShubhamPhapale/apex/internal/source"
)

// Node is the base interface for all AST nodes
type Node interface {
	INode()
	Loc() *source.Location
}

// Expression represents any node that produces a value
type Expression interface {
	Node
	Expr()
}

// Statement represents any node that performs an action
type Statement interface {
	Node
	Stmt()
}

// TypeNode represents a type in the AST (for use in declarations, annotations, etc.)
type TypeNode interface {
	Node
	TypeExpr()
}

// Pattern represents a binding pattern (let bindings, parameters, match arms)
type Pattern interface {
	Node
	Pat()
}

// Item represents a top-level declaration (function, struct, enum, ...)
type Item interface {
	Node
	Decl()
}

// Visibility of an item or struct field
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "pub"
	}
	return "priv"
}
