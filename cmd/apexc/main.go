package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ShubhamPhapale/apex/internal/compiler"
)

func main() {
	opts := &compiler.Options{}

	rootCmd := &cobra.Command{
		Use:   "apexc [flags] <input-file>",
		Short: "Ahead-of-time compiler for the Apex language",
		Example: `  apexc hello.apex
  apexc -o hello.o hello.apex
  apexc --emit-llvm hello.apex`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InputFile = args[0]
			result := compiler.Compile(opts)
			if !result.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "write output to `file`")
	rootCmd.Flags().BoolVar(&opts.EmitLLVM, "emit-llvm", false, "write textual LLVM IR instead of an object file")
	rootCmd.Flags().BoolVar(&opts.EmitAST, "emit-ast", false, "print the AST and exit")
	rootCmd.Flags().BoolVar(&opts.EmitTokens, "emit-tokens", false, "print the token stream and exit")
	rootCmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "announce each phase's completion")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
