package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPathDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "object default strips suffix",
			opts: Options{InputFile: "src/hello.apex"},
			want: "src/hello.o",
		},
		{
			name: "ir default",
			opts: Options{InputFile: "hello.apex", EmitLLVM: true},
			want: "hello.ll",
		},
		{
			name: "no suffix",
			opts: Options{InputFile: "hello"},
			want: "hello.o",
		},
		{
			name: "explicit output wins",
			opts: Options{InputFile: "hello.apex", OutputFile: "out/custom.o"},
			want: "out/custom.o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.OutputPath())
		})
	}
}

func TestCompileToIR(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "main.apex")
	src := `
fn main() -> i32 {
    let mut sum: i32 = 0;
    for i in 0..10 { sum = sum + i; }
    return sum;
}
`
	require.NoError(t, os.WriteFile(input, []byte(src), 0o644))

	result := Compile(&Options{InputFile: input, EmitLLVM: true})
	require.True(t, result.Success)

	out, err := os.ReadFile(filepath.Join(dir, "main.ll"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "define i32 @main()")
}

func TestCompileUnopenableInput(t *testing.T) {
	result := Compile(&Options{InputFile: "no/such/file.apex"})
	assert.False(t, result.Success)
}

func TestCompileStopsOnParseErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.apex")
	require.NoError(t, os.WriteFile(input, []byte("fn broken( {"), 0o644))

	result := Compile(&Options{InputFile: input, EmitLLVM: true})
	assert.False(t, result.Success)

	_, err := os.Stat(filepath.Join(dir, "bad.ll"))
	assert.True(t, os.IsNotExist(err), "no output may be written when a phase fails")
}

func TestCompileStopsOnSemaErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "undef.apex")
	require.NoError(t, os.WriteFile(input, []byte("fn f() -> i32 { return ghost; }"), 0o644))

	result := Compile(&Options{InputFile: input, EmitLLVM: true})
	assert.False(t, result.Success)
}
