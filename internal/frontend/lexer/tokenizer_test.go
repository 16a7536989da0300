package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamPhapale/apex/internal/diagnostics"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

func lexAll(t *testing.T, src string) ([]tokens.Token, *diagnostics.DiagnosticBag) {
	t.Helper()
	bag := diagnostics.NewDiagnosticBag()
	lex := New("test.apex", src, bag)
	return lex.Tokenize(), bag
}

func kinds(toks []tokens.Token) []tokens.TOKEN {
	out := make([]tokens.TOKEN, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks, bag := lexAll(t, "fn main let mut x _y i32")
	require.False(t, bag.HasErrors())

	assert.Equal(t, []tokens.TOKEN{
		tokens.FN_TOKEN,
		tokens.IDENTIFIER_TOKEN,
		tokens.LET_TOKEN,
		tokens.MUT_TOKEN,
		tokens.IDENTIFIER_TOKEN,
		tokens.IDENTIFIER_TOKEN,
		tokens.IDENTIFIER_TOKEN, // primitive names lex as identifiers
		tokens.EOF_TOKEN,
	}, kinds(toks))
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		kind    tokens.TOKEN
		intVal  int64
		fltVal  float64
		isFloat bool
	}{
		{name: "decimal", source: "42", kind: tokens.INT_TOKEN, intVal: 42},
		{name: "hex", source: "0xFF", kind: tokens.INT_TOKEN, intVal: 255},
		{name: "hex with underscores", source: "0xDE_AD", kind: tokens.INT_TOKEN, intVal: 0xDEAD},
		{name: "binary", source: "0b1010", kind: tokens.INT_TOKEN, intVal: 10},
		{name: "octal", source: "0o755", kind: tokens.INT_TOKEN, intVal: 493},
		{name: "underscore separator", source: "1_000_000", kind: tokens.INT_TOKEN, intVal: 1000000},
		{name: "suffix consumed", source: "42i32", kind: tokens.INT_TOKEN, intVal: 42},
		{name: "unsigned suffix", source: "7u64", kind: tokens.INT_TOKEN, intVal: 7},
		{name: "float with fraction", source: "3.25", kind: tokens.FLOAT_TOKEN, fltVal: 3.25, isFloat: true},
		{name: "float with exponent", source: "1e3", kind: tokens.FLOAT_TOKEN, fltVal: 1000, isFloat: true},
		{name: "float negative exponent", source: "5E-1", kind: tokens.FLOAT_TOKEN, fltVal: 0.5, isFloat: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.source)
			require.False(t, bag.HasErrors(), "unexpected lex errors")
			require.Len(t, toks, 2) // literal + EOF

			tok := toks[0]
			assert.Equal(t, tt.kind, tok.Kind)
			assert.Equal(t, tt.source, tok.Lexeme)
			require.NotNil(t, tok.Value)
			if tt.isFloat {
				assert.Equal(t, tt.fltVal, tok.Value.Float)
			} else {
				assert.Equal(t, tt.intVal, tok.Value.Int)
			}
		})
	}
}

func TestNumberDotIsNotFloatBeforeRange(t *testing.T) {
	toks, bag := lexAll(t, "0..10")
	require.False(t, bag.HasErrors())
	assert.Equal(t, []tokens.TOKEN{
		tokens.INT_TOKEN,
		tokens.RANGE_TOKEN,
		tokens.INT_TOKEN,
		tokens.EOF_TOKEN,
	}, kinds(toks))
}

func TestMaximalMunchOperators(t *testing.T) {
	toks, bag := lexAll(t, "<<= << <= < >>= >> >= > ..= .. . :: : -> => == =")
	require.False(t, bag.HasErrors())
	assert.Equal(t, []tokens.TOKEN{
		tokens.SHL_EQUALS_TOKEN, tokens.SHL_TOKEN, tokens.LESS_EQUAL_TOKEN, tokens.LESS_TOKEN,
		tokens.SHR_EQUALS_TOKEN, tokens.SHR_TOKEN, tokens.GREATER_EQUAL_TOKEN, tokens.GREATER_TOKEN,
		tokens.RANGE_INCLUSIVE_TOKEN, tokens.RANGE_TOKEN, tokens.DOT_TOKEN,
		tokens.SCOPE_TOKEN, tokens.COLON_TOKEN,
		tokens.ARROW_TOKEN, tokens.FAT_ARROW_TOKEN,
		tokens.DOUBLE_EQUAL_TOKEN, tokens.EQUALS_TOKEN,
		tokens.EOF_TOKEN,
	}, kinds(toks))
}

func TestNestedBlockComments(t *testing.T) {
	toks, bag := lexAll(t, "/* outer /* inner */ still outer */ 1")
	require.False(t, bag.HasErrors())
	assert.Equal(t, []tokens.TOKEN{tokens.INT_TOKEN, tokens.EOF_TOKEN}, kinds(toks))
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, bag := lexAll(t, "/* /* */")
	require.True(t, bag.HasErrors())
	assert.Contains(t, bag.Diagnostics()[0].Message, "unterminated block comment")
}

func TestStringEscapes(t *testing.T) {
	toks, bag := lexAll(t, `"a\nb\tc\\d\"e\0f"`)
	require.False(t, bag.HasErrors())
	require.NotNil(t, toks[0].Value)
	assert.Equal(t, "a\nb\tc\\d\"e\x00f", toks[0].Value.Str)
}

func TestInvalidEscapeKeepsCharacter(t *testing.T) {
	toks, bag := lexAll(t, `"a\qb"`)
	require.True(t, bag.HasErrors())
	assert.Contains(t, bag.Diagnostics()[0].Message, "invalid escape")
	// The raw character still lands in the decoded value.
	require.NotNil(t, toks[0].Value)
	assert.Equal(t, "aqb", toks[0].Value.Str)
}

func TestUnterminatedString(t *testing.T) {
	toks, bag := lexAll(t, `"abc`)
	require.True(t, bag.HasErrors())
	assert.Equal(t, tokens.ERROR_TOKEN, toks[0].Kind)
}

func TestCharLiterals(t *testing.T) {
	toks, bag := lexAll(t, `'a' '\n' '\''`)
	require.False(t, bag.HasErrors())
	require.Len(t, toks, 4)
	assert.Equal(t, int64('a'), toks[0].Value.Int)
	assert.Equal(t, int64('\n'), toks[1].Value.Int)
	assert.Equal(t, int64('\''), toks[2].Value.Int)
}

func TestInvalidCharLiteral(t *testing.T) {
	toks, bag := lexAll(t, `'ab'`)
	require.True(t, bag.HasErrors())
	assert.Equal(t, tokens.ERROR_TOKEN, toks[0].Kind)
}

func TestUnexpectedCharacterRecovers(t *testing.T) {
	toks, bag := lexAll(t, "let $ x")
	require.True(t, bag.HasErrors())
	assert.Equal(t, []tokens.TOKEN{
		tokens.LET_TOKEN,
		tokens.ERROR_TOKEN,
		tokens.IDENTIFIER_TOKEN,
		tokens.EOF_TOKEN,
	}, kinds(toks))
}

// Concatenating the lexemes of a well-formed token stream and lexing again
// must yield the same kinds, modulo whitespace.
func TestLexemeRoundTrip(t *testing.T) {
	src := `fn main() -> i32 { let mut x: i32 = 0x1F; while x < 7 { x = x + 1; } return x; }`
	first, bag := lexAll(t, src)
	require.False(t, bag.HasErrors())

	var rebuilt strings.Builder
	for _, tok := range first {
		rebuilt.WriteString(tok.Lexeme)
		rebuilt.WriteByte(' ')
	}

	second, bag2 := lexAll(t, rebuilt.String())
	require.False(t, bag2.HasErrors())
	assert.Equal(t, kinds(first), kinds(second))
}

func TestPositions(t *testing.T) {
	toks, _ := lexAll(t, "let x\nreturn")
	assert.Equal(t, 1, toks[0].Start.Line)
	assert.Equal(t, 1, toks[0].Start.Column)
	assert.Equal(t, 1, toks[1].Start.Line)
	assert.Equal(t, 5, toks[1].Start.Column)
	assert.Equal(t, 2, toks[2].Start.Line)
	assert.Equal(t, 1, toks[2].Start.Column)
}
