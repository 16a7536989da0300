package ast

import (
	"github.com/ShubhamPhapale/apex/internal/source"
)

// Module represents one Apex source file: an ordered list of top-level items
type Module struct {
	Name  string
	Items []Item
	source.Location
}

func (m *Module) INode()                {}
func (m *Module) Loc() *source.Location { return &m.Location }

// LetStmt represents let pattern (: type)? (= expr)? ;
// Mutability is carried inside the pattern.
type LetStmt struct {
	Pattern Pattern
	Type    TypeNode   // nil when no annotation
	Init    Expression // nil when no initializer
	source.Location
}

func (l *LetStmt) INode()                {}
func (l *LetStmt) Stmt()                 {}
func (l *LetStmt) Loc() *source.Location { return &l.Location }

// ExprStmt represents an expression used as a statement. HasSemicolon
// distinguishes a discarded value from a block's trailing expression.
type ExprStmt struct {
	X            Expression
	HasSemicolon bool
	source.Location
}

func (e *ExprStmt) INode()                {}
func (e *ExprStmt) Stmt()                 {}
func (e *ExprStmt) Loc() *source.Location { return &e.Location }

// ItemStmt wraps an item that appears in statement position
type ItemStmt struct {
	Item Item
	source.Location
}

func (i *ItemStmt) INode()                {}
func (i *ItemStmt) Stmt()                 {}
func (i *ItemStmt) Loc() *source.Location { return &i.Location }
