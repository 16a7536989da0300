package ast

import (
	"github.com/ShubhamPhapale/apex/internal/source"
)

// WildcardPattern matches anything without binding: _
type WildcardPattern struct {
	source.Location
}

func (p *WildcardPattern) INode()                {}
func (p *WildcardPattern) Pat()                  {}
func (p *WildcardPattern) Loc() *source.Location { return &p.Location }

// IdentifierPattern binds a name, optionally mutable: x, mut x
type IdentifierPattern struct {
	Name    string
	Mutable bool
	source.Location
}

func (p *IdentifierPattern) INode()                {}
func (p *IdentifierPattern) Pat()                  {}
func (p *IdentifierPattern) Loc() *source.Location { return &p.Location }

// LiteralPattern matches a literal value
type LiteralPattern struct {
	Value *BasicLit
	source.Location
}

func (p *LiteralPattern) INode()                {}
func (p *LiteralPattern) Pat()                  {}
func (p *LiteralPattern) Loc() *source.Location { return &p.Location }

// TuplePattern destructures a tuple: (a, b, _)
type TuplePattern struct {
	Patterns []Pattern
	source.Location
}

func (p *TuplePattern) INode()                {}
func (p *TuplePattern) Pat()                  {}
func (p *TuplePattern) Loc() *source.Location { return &p.Location }

// FieldPattern is one field inside a struct pattern
type FieldPattern struct {
	Name    string
	Pattern Pattern
}

// StructPattern destructures a struct: Point { x, y: py }
type StructPattern struct {
	Path   []string
	Fields []FieldPattern
	source.Location
}

func (p *StructPattern) INode()                {}
func (p *StructPattern) Pat()                  {}
func (p *StructPattern) Loc() *source.Location { return &p.Location }

// EnumPattern matches an enum variant: Shape::Circle(r)
type EnumPattern struct {
	Path     []string
	Patterns []Pattern
	source.Location
}

func (p *EnumPattern) INode()                {}
func (p *EnumPattern) Pat()                  {}
func (p *EnumPattern) Loc() *source.Location { return &p.Location }

// RangePattern matches a range of literals: 0..=9
type RangePattern struct {
	Start     *BasicLit
	End       *BasicLit
	Inclusive bool
	source.Location
}

func (p *RangePattern) INode()                {}
func (p *RangePattern) Pat()                  {}
func (p *RangePattern) Loc() *source.Location { return &p.Location }

// OrPattern matches any of its alternatives: 1 | 2 | 3
type OrPattern struct {
	Patterns []Pattern
	source.Location
}

func (p *OrPattern) INode()                {}
func (p *OrPattern) Pat()                  {}
func (p *OrPattern) Loc() *source.Location { return &p.Location }

// BindingName returns the name introduced by a pattern, if it has one.
func BindingName(p Pattern) (string, bool) {
	ident, ok := p.(*IdentifierPattern)
	if !ok {
		return "", false
	}
	return ident.Name, true
}

// IsMutable reports whether a pattern introduces a mutable binding.
func IsMutable(p Pattern) bool {
	ident, ok := p.(*IdentifierPattern)
	return ok && ident.Mutable
}
