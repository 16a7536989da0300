package ast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpIndentsChildren(t *testing.T) {
	module := &Module{
		Name: "test.apex",
		Items: []Item{
			&FuncDecl{
				Name: "main",
				Params: []Param{
					{Pattern: &IdentifierPattern{Name: "argc"}},
				},
				Body: &BlockExpr{
					Stmts: []Statement{
						&LetStmt{
							Pattern: &IdentifierPattern{Name: "x", Mutable: true},
							Init:    &BasicLit{Kind: INT, IntVal: 1, Lexeme: "1"},
						},
					},
					Tail: &IdentifierExpr{Name: "x"},
				},
			},
		},
	}

	var buf bytes.Buffer
	Dump(&buf, module)
	out := buf.String()

	assert.Contains(t, out, "Module: test.apex\n")
	assert.Contains(t, out, "  Function: main\n")
	assert.Contains(t, out, "    Param: argc\n")
	assert.Contains(t, out, "    Block\n")
	assert.Contains(t, out, "      Let: mut x\n")
	assert.Contains(t, out, "        Literal: 1\n")
	assert.Contains(t, out, "      Identifier: x\n")
}
