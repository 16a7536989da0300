package compiler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ShubhamPhapale/apex/colors"
	"github.com/ShubhamPhapale/apex/internal/codegen"
	"github.com/ShubhamPhapale/apex/internal/diagnostics"
	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/frontend/lexer"
	"github.com/ShubhamPhapale/apex/internal/frontend/parser"
	"github.com/ShubhamPhapale/apex/internal/semantics"
)

// Options for one compilation.
type Options struct {
	InputFile  string
	OutputFile string // empty picks a default next to the input
	EmitLLVM   bool   // write textual IR instead of an object file
	EmitAST    bool   // print the AST and exit
	EmitTokens bool   // print the token stream and exit
	Verbose    bool
}

// Result of compilation.
type Result struct {
	Success bool
}

func (opts *Options) phase(name string) {
	if opts.Verbose {
		colors.GREEN.Fprintf(os.Stderr, "[apexc] %s complete\n", name)
	}
}

// OutputPath returns the output filename: the -o value if given, otherwise
// the input path with its final suffix replaced by .o (or .ll in IR mode).
func (opts *Options) OutputPath() string {
	if opts.OutputFile != "" {
		return opts.OutputFile
	}
	base := strings.TrimSuffix(opts.InputFile, filepath.Ext(opts.InputFile))
	if opts.EmitLLVM {
		return base + ".ll"
	}
	return base + ".o"
}

// Compile runs the full pipeline on a single source file. Recoverable errors
// accumulate per phase; the driver refuses to advance a phase when any are
// present.
func Compile(opts *Options) Result {
	content, err := os.ReadFile(opts.InputFile)
	if err != nil {
		colors.RED.Fprintln(os.Stderr, errors.Wrapf(err, "could not open %s", opts.InputFile))
		return Result{Success: false}
	}

	bag := diagnostics.NewDiagnosticBag()

	// Lex
	lex := lexer.New(opts.InputFile, string(content), bag)
	toks := lex.Tokenize()
	opts.phase("lexing")

	if opts.EmitTokens {
		for i := range toks {
			toks[i].Debug(os.Stdout)
		}
		bag.EmitAll()
		return Result{Success: !bag.HasErrors()}
	}

	if bag.HasErrors() {
		bag.EmitAll()
		return Result{Success: false}
	}

	// Parse
	module := parser.Parse(toks, opts.InputFile, bag)
	opts.phase("parsing")

	if opts.EmitAST {
		ast.Dump(os.Stdout, module)
		bag.EmitAll()
		return Result{Success: !bag.HasErrors()}
	}

	if bag.HasErrors() {
		bag.EmitAll()
		return Result{Success: false}
	}

	// Analyze
	analyzer := semantics.New(bag)
	analyzer.Analyze(module)
	opts.phase("semantic analysis")

	if bag.HasErrors() {
		bag.EmitAll()
		return Result{Success: false}
	}

	// Generate
	moduleName := strings.TrimSuffix(filepath.Base(opts.InputFile), filepath.Ext(opts.InputFile))
	cg := codegen.New(moduleName, bag)
	defer cg.Dispose()

	if err := cg.Generate(module); err != nil {
		bag.EmitAll()
		colors.RED.Fprintln(os.Stderr, err)
		return Result{Success: false}
	}
	opts.phase("code generation")

	if bag.HasErrors() {
		bag.EmitAll()
		return Result{Success: false}
	}

	// Emit
	output := opts.OutputPath()
	if opts.EmitLLVM {
		err = cg.WriteIR(output)
	} else {
		err = cg.EmitObject(output)
	}
	if err != nil {
		colors.RED.Fprintln(os.Stderr, err)
		return Result{Success: false}
	}
	opts.phase("emission")

	bag.EmitAll()
	return Result{Success: true}
}
