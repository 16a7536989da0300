package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceTracksLinesAndColumns(t *testing.T) {
	pos := Position{Line: 1, Column: 1, Offset: 0}

	pos.AdvanceString("ab")
	assert.Equal(t, Position{Line: 1, Column: 3, Offset: 2}, pos)

	pos.AdvanceString("\n")
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 3}, pos)

	pos.AdvanceString("x\ny")
	assert.Equal(t, Position{Line: 3, Column: 2, Offset: 6}, pos)
}

func TestLocationString(t *testing.T) {
	loc := NewLocation("main.apex", Position{Line: 4, Column: 2}, Position{Line: 4, Column: 9})
	assert.Equal(t, "main.apex:4:2", loc.String())
}
