package table

import (
	"fmt"

	"github.com/ShubhamPhapale/apex/internal/source"
)

// SymbolKind discriminates what a symbol names.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolStruct
	SymbolEnum
	SymbolTrait
	SymbolTypeAlias
	SymbolVariable
	SymbolParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolTrait:
		return "trait"
	case SymbolTypeAlias:
		return "type alias"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	default:
		return "symbol"
	}
}

// Symbol is one named entity in a scope.
type Symbol struct {
	Name        string
	Kind        SymbolKind
	Mutable     bool
	Initialized bool
	Location    source.Location
}

// SymbolTable is a scope: a name→symbol mapping with a parent link.
// Lookup walks the chain, so shadowing across nested scopes works while
// redefinition within one scope is rejected.
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]*Symbol
}

// NewSymbolTable creates a scope with the given parent (nil for the module scope).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Declare adds a symbol to this scope. Declaring a name that already exists
// in the same scope is an error; the first declaration is kept.
func (t *SymbolTable) Declare(sym *Symbol) error {
	if existing, ok := t.symbols[sym.Name]; ok {
		return fmt.Errorf("%s %q already declared at %s", existing.Kind, sym.Name, existing.Location.String())
	}
	t.symbols[sym.Name] = sym
	return nil
}

// Lookup resolves a name against this scope chain.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	for scope := t; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal resolves a name in this scope only.
func (t *SymbolTable) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Parent returns the enclosing scope.
func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

// Len returns the number of symbols declared directly in this scope.
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}
