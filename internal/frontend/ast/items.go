package ast

import (
	"github.com/ShubhamPhapale/apex/internal/source"
)

// GenericParam is one generic parameter with optional trait bounds: T: Clone + Debug
type GenericParam struct {
	Name   string
	Bounds [][]string
	source.Location
}

// Param is one function parameter. Binding goes through the full pattern
// grammar so `mut name: Type` is accepted.
type Param struct {
	Pattern Pattern
	Type    TypeNode
	source.Location
}

// FuncDecl represents a function item. A nil Body is a declaration
// (extern or trait method signature).
type FuncDecl struct {
	Name       string
	Visibility Visibility
	IsUnsafe   bool
	IsExtern   bool
	Generics   []GenericParam
	Params     []Param
	ReturnType TypeNode // nil means void
	Body       *BlockExpr
	source.Location
}

func (f *FuncDecl) INode()                {}
func (f *FuncDecl) Decl()                 {}
func (f *FuncDecl) Loc() *source.Location { return &f.Location }

// StructField is one field of a struct declaration
type StructField struct {
	Visibility Visibility
	Name       string
	Type       TypeNode
	source.Location
}

// StructDecl represents a struct item
type StructDecl struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Fields     []StructField
	source.Location
}

func (s *StructDecl) INode()                {}
func (s *StructDecl) Decl()                 {}
func (s *StructDecl) Loc() *source.Location { return &s.Location }

// EnumVariant is one variant of an enum declaration; TupleFields carries an
// optional payload (parse-accepted, dropped by lowering).
type EnumVariant struct {
	Name        string
	TupleFields []TypeNode
	source.Location
}

// EnumDecl represents an enum item
type EnumDecl struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Variants   []EnumVariant
	source.Location
}

func (e *EnumDecl) INode()                {}
func (e *EnumDecl) Decl()                 {}
func (e *EnumDecl) Loc() *source.Location { return &e.Location }

// TraitDecl represents a trait item; inner items are method signatures
type TraitDecl struct {
	Name       string
	Visibility Visibility
	Generics   []GenericParam
	Items      []Item
	source.Location
}

func (t *TraitDecl) INode()                {}
func (t *TraitDecl) Decl()                 {}
func (t *TraitDecl) Loc() *source.Location { return &t.Location }

// ImplDecl represents impl Type { ... } or impl Trait for Type { ... }
type ImplDecl struct {
	Target TypeNode
	Trait  []string // nil for inherent impls
	Items  []Item
	source.Location
}

func (i *ImplDecl) INode()                {}
func (i *ImplDecl) Decl()                 {}
func (i *ImplDecl) Loc() *source.Location { return &i.Location }

// TypeAliasDecl represents type Name = T;
type TypeAliasDecl struct {
	Name       string
	Visibility Visibility
	Aliased    TypeNode
	source.Location
}

func (t *TypeAliasDecl) INode()                {}
func (t *TypeAliasDecl) Decl()                 {}
func (t *TypeAliasDecl) Loc() *source.Location { return &t.Location }

// ModuleDecl represents an inline module: mod name { items }
type ModuleDecl struct {
	Name       string
	Visibility Visibility
	Items      []Item
	source.Location
}

func (m *ModuleDecl) INode()                {}
func (m *ModuleDecl) Decl()                 {}
func (m *ModuleDecl) Loc() *source.Location { return &m.Location }

// ImportDecl represents import a::b::c (as alias)?;
type ImportDecl struct {
	Path  []string
	Alias string
	source.Location
}

func (i *ImportDecl) INode()                {}
func (i *ImportDecl) Decl()                 {}
func (i *ImportDecl) Loc() *source.Location { return &i.Location }

// ExternBlock represents extern "abi"? { fn decls }
type ExternBlock struct {
	ABI   string
	Items []Item
	source.Location
}

func (e *ExternBlock) INode()                {}
func (e *ExternBlock) Decl()                 {}
func (e *ExternBlock) Loc() *source.Location { return &e.Location }
