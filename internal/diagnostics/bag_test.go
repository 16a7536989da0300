package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamPhapale/apex/internal/source"
)

func loc(line, col int) source.Location {
	pos := source.Position{Line: line, Column: col}
	return source.NewLocation("main.apex", pos, pos)
}

func TestBagCounts(t *testing.T) {
	bag := NewDiagnosticBag()
	assert.False(t, bag.HasErrors())

	bag.Add(NewError("boom", loc(1, 1)))
	bag.Add(NewWarning("hmm", loc(2, 3)))

	assert.True(t, bag.HasErrors())
	assert.Equal(t, 1, bag.ErrorCount())
	assert.Equal(t, 1, bag.WarningCount())
	assert.Len(t, bag.Diagnostics(), 2)
}

func TestDiagnosticFormat(t *testing.T) {
	diag := NewError("unexpected token", loc(3, 7))
	assert.Equal(t, "main.apex:3:7: error: unexpected token", diag.String())

	warn := NewWarning("unused variable", loc(1, 2))
	assert.Equal(t, "main.apex:1:2: warning: unused variable", warn.String())
}

func TestEmitToWritesOnePerLine(t *testing.T) {
	bag := NewDiagnosticBag()
	bag.Add(NewError("first", loc(1, 1)))
	bag.Add(NewError("second", loc(2, 1)))

	var buf bytes.Buffer
	bag.EmitTo(&buf)

	out := buf.String()
	assert.Contains(t, out, "main.apex:1:1: error: first")
	assert.Contains(t, out, "main.apex:2:1: error: second")
	assert.Contains(t, out, "Compilation failed with 2 error(s)")
}

func TestClear(t *testing.T) {
	bag := NewDiagnosticBag()
	bag.Add(NewError("boom", loc(1, 1)))
	require.True(t, bag.HasErrors())

	bag.Clear()
	assert.False(t, bag.HasErrors())
	assert.Empty(t, bag.Diagnostics())
}
