package ast

import (
	"github.com/ShubhamPhapale/apex/internal/source"
)

// PrimitiveType is a builtin type name: void, bool, i8..i128, u8..u128,
// isize, usize, f32, f64, char, byte.
type PrimitiveType struct {
	Name string
	source.Location
}

func (t *PrimitiveType) INode()                {}
func (t *PrimitiveType) TypeExpr()             {}
func (t *PrimitiveType) Loc() *source.Location { return &t.Location }

// PointerType represents *T or *mut T
type PointerType struct {
	Mutable bool
	Pointee TypeNode
	source.Location
}

func (t *PointerType) INode()                {}
func (t *PointerType) TypeExpr()             {}
func (t *PointerType) Loc() *source.Location { return &t.Location }

// ReferenceType represents &T or &mut T
type ReferenceType struct {
	Mutable bool
	Pointee TypeNode
	source.Location
}

func (t *ReferenceType) INode()                {}
func (t *ReferenceType) TypeExpr()             {}
func (t *ReferenceType) Loc() *source.Location { return &t.Location }

// ArrayType represents [T; N] with a compile-time size
type ArrayType struct {
	Element TypeNode
	Size    int64
	source.Location
}

func (t *ArrayType) INode()                {}
func (t *ArrayType) TypeExpr()             {}
func (t *ArrayType) Loc() *source.Location { return &t.Location }

// SliceType represents [T]
type SliceType struct {
	Element TypeNode
	source.Location
}

func (t *SliceType) INode()                {}
func (t *SliceType) TypeExpr()             {}
func (t *SliceType) Loc() *source.Location { return &t.Location }

// TupleType represents (T1, T2, ...)
type TupleType struct {
	Elements []TypeNode
	source.Location
}

func (t *TupleType) INode()                {}
func (t *TupleType) TypeExpr()             {}
func (t *TupleType) Loc() *source.Location { return &t.Location }

// FuncType represents fn(T1, T2) -> R
type FuncType struct {
	Params []TypeNode
	Return TypeNode
	source.Location
}

func (t *FuncType) INode()                {}
func (t *FuncType) TypeExpr()             {}
func (t *FuncType) Loc() *source.Location { return &t.Location }

// NamedType represents a user type path with optional generic arguments:
// Point, std::Vec<T>
type NamedType struct {
	Path        []string
	GenericArgs []TypeNode
	source.Location
}

func (t *NamedType) INode()                {}
func (t *NamedType) TypeExpr()             {}
func (t *NamedType) Loc() *source.Location { return &t.Location }
