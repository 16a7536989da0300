package codegen

import (
	"os"

	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"
)

// EmitIR returns the textual form of the module. It bypasses the pass
// manager entirely.
func (c *Codegen) EmitIR() string {
	return c.module.String()
}

// WriteIR writes the textual IR to the given file.
func (c *Codegen) WriteIR(filename string) error {
	if err := os.WriteFile(filename, []byte(c.EmitIR()), 0o644); err != nil {
		return errors.Wrapf(err, "could not write IR to %s", filename)
	}
	return nil
}

// EmitObject compiles the module for the host target and writes a native
// object file: look up the host triple, create a target machine with a
// generic CPU and default relocation model, attach its data layout, and run
// the backend's object emission.
func (c *Codegen) EmitObject(filename string) error {
	if err := llvm.InitializeNativeTarget(); err != nil {
		return errors.Wrap(err, "failed to initialize native target")
	}
	if err := llvm.InitializeNativeAsmPrinter(); err != nil {
		return errors.Wrap(err, "failed to initialize native asm printer")
	}

	triple := llvm.DefaultTargetTriple()
	c.module.SetTarget(triple)

	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return errors.Wrapf(err, "failed to look up target for %s", triple)
	}

	machine := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault, llvm.RelocDefault, llvm.CodeModelDefault)
	defer machine.Dispose()

	c.module.SetDataLayout(machine.CreateTargetData().String())

	buf, err := machine.EmitToMemoryBuffer(c.module, llvm.ObjectFile)
	if err != nil {
		return errors.Wrap(err, "object emission failed")
	}
	defer buf.Dispose()

	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "could not write object file %s", filename)
	}
	return nil
}
