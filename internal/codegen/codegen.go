package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/ShubhamPhapale/apex/internal/diagnostics"
	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
)

// loopBlocks records the branch targets of the innermost enclosing loop:
// continue jumps to Continue, break jumps to Break.
type loopBlocks struct {
	Continue llvm.BasicBlock
	Break    llvm.BasicBlock
}

// Codegen lowers a validated module to LLVM IR, single pass, left to right.
// Two parallel binding maps exist per function: ssaValues for immutable
// bindings and allocaValues for mutable ones (stack slots). Identifier
// lookup probes allocas first, then SSA values, then the function table.
type Codegen struct {
	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	diagnostics *diagnostics.DiagnosticBag

	functions map[string]llvm.Value
	funcTypes map[string]llvm.Type

	structs      map[string]llvm.Type
	structFields map[string][]string

	ssaValues    map[string]llvm.Value
	allocaValues map[string]llvm.Value
	allocaTypes  map[string]llvm.Type

	loopStack []loopBlocks
}

// New creates a code generator with a fresh LLVM context and module.
func New(moduleName string, diag *diagnostics.DiagnosticBag) *Codegen {
	context := llvm.NewContext()
	return &Codegen{
		context:      context,
		module:       context.NewModule(moduleName),
		builder:      context.NewBuilder(),
		diagnostics:  diag,
		functions:    make(map[string]llvm.Value),
		funcTypes:    make(map[string]llvm.Type),
		structs:      make(map[string]llvm.Type),
		structFields: make(map[string][]string),
	}
}

// Dispose releases the LLVM objects owned by this generator.
func (c *Codegen) Dispose() {
	c.builder.Dispose()
	c.module.Dispose()
	c.context.Dispose()
}

// Module returns the in-memory LLVM module.
func (c *Codegen) Module() llvm.Module {
	return c.module
}

func (c *Codegen) error(node ast.Node, msg string) {
	c.diagnostics.Add(diagnostics.NewError(msg, *node.Loc()))
}

// Generate lowers every item and verifies the resulting module.
func (c *Codegen) Generate(module *ast.Module) error {
	// Struct types first so function signatures can refer to them.
	for _, item := range module.Items {
		if st, ok := item.(*ast.StructDecl); ok {
			c.lowerStruct(st)
		}
	}

	for _, item := range module.Items {
		c.lowerItem(item)
	}

	if err := llvm.VerifyModule(c.module, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("module verification failed: %v", err)
	}
	return nil
}

func (c *Codegen) lowerItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDecl:
		c.lowerFunction(it)
	case *ast.StructDecl:
		if _, ok := c.structs[it.Name]; !ok {
			c.lowerStruct(it) // structs nested in mod blocks
		}
	case *ast.ImplDecl:
		for _, inner := range it.Items {
			c.lowerItem(inner)
		}
	case *ast.ExternBlock:
		for _, inner := range it.Items {
			c.lowerItem(inner)
		}
	case *ast.ModuleDecl:
		for _, inner := range it.Items {
			c.lowerItem(inner)
		}
	}
	// enums, traits, type aliases, and imports produce no IR; enum variant
	// payloads in particular are accepted by the parser and dropped here
}

// primitiveType maps a primitive name to its backend type.
func (c *Codegen) primitiveType(name string) llvm.Type {
	switch name {
	case "void":
		return c.context.VoidType()
	case "bool":
		return c.context.Int1Type()
	case "i8", "u8", "byte":
		return c.context.Int8Type()
	case "i16", "u16":
		return c.context.Int16Type()
	case "i32", "u32":
		return c.context.Int32Type()
	case "i64", "u64", "isize", "usize":
		return c.context.Int64Type()
	case "i128", "u128":
		return c.context.IntType(128)
	case "f32":
		return c.context.FloatType()
	case "f64":
		return c.context.DoubleType()
	case "char":
		return c.context.Int32Type()
	default:
		return llvm.Type{}
	}
}

// codegenType translates an AST type to a backend type. Unknown named types
// fall back to void so lowering can continue after an error upstream.
func (c *Codegen) codegenType(typ ast.TypeNode) llvm.Type {
	if typ == nil {
		return c.context.VoidType()
	}

	switch t := typ.(type) {
	case *ast.PrimitiveType:
		prim := c.primitiveType(t.Name)
		if prim.IsNil() {
			c.error(t, fmt.Sprintf("unknown primitive type %q", t.Name))
			return c.context.VoidType()
		}
		return prim

	case *ast.PointerType:
		return llvm.PointerType(c.codegenType(t.Pointee), 0)

	case *ast.ReferenceType:
		return llvm.PointerType(c.codegenType(t.Pointee), 0)

	case *ast.ArrayType:
		return llvm.ArrayType(c.codegenType(t.Element), int(t.Size))

	case *ast.SliceType:
		return llvm.PointerType(c.codegenType(t.Element), 0)

	case *ast.TupleType:
		elems := make([]llvm.Type, len(t.Elements))
		for i, elem := range t.Elements {
			elems[i] = c.codegenType(elem)
		}
		return llvm.StructType(elems, false)

	case *ast.FuncType:
		return llvm.PointerType(c.context.Int8Type(), 0)

	case *ast.NamedType:
		name := t.Path[len(t.Path)-1]
		if prim := c.primitiveType(name); !prim.IsNil() {
			return prim
		}
		if st, ok := c.structs[name]; ok {
			return st
		}
		c.error(t, fmt.Sprintf("unknown type %q", name))
		return c.context.VoidType()

	default:
		return c.context.VoidType()
	}
}

// lowerStruct translates each field type in declaration order and registers
// a named aggregate keyed by struct name.
func (c *Codegen) lowerStruct(decl *ast.StructDecl) {
	fieldTypes := make([]llvm.Type, len(decl.Fields))
	fieldNames := make([]string, len(decl.Fields))
	for i, field := range decl.Fields {
		fieldTypes[i] = c.codegenType(field.Type)
		fieldNames[i] = field.Name
	}

	structType := c.context.StructCreateNamed(decl.Name)
	structType.StructSetBody(fieldTypes, false)
	c.structs[decl.Name] = structType
	c.structFields[decl.Name] = fieldNames
}

// lowerFunction builds the signature, entry block, and body of a function.
// Parameters lower to SSA values unless their pattern is mutable, in which
// case they get an entry-block alloca holding the incoming argument.
func (c *Codegen) lowerFunction(decl *ast.FuncDecl) {
	paramTypes := make([]llvm.Type, len(decl.Params))
	for i, param := range decl.Params {
		paramTypes[i] = c.codegenType(param.Type)
	}
	returnType := c.codegenType(decl.ReturnType)

	funcType := llvm.FunctionType(returnType, paramTypes, false)
	fn := llvm.AddFunction(c.module, decl.Name, funcType)
	fn.SetLinkage(llvm.ExternalLinkage)
	c.functions[decl.Name] = fn
	c.funcTypes[decl.Name] = funcType

	for i := range decl.Params {
		if name, ok := ast.BindingName(decl.Params[i].Pattern); ok {
			fn.Param(i).SetName(name)
		}
	}

	if decl.Body == nil {
		return // extern or trait declaration
	}

	entry := c.context.AddBasicBlock(fn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	// Bindings never leak across functions.
	c.ssaValues = make(map[string]llvm.Value)
	c.allocaValues = make(map[string]llvm.Value)
	c.allocaTypes = make(map[string]llvm.Type)
	c.loopStack = nil

	for i := range decl.Params {
		param := &decl.Params[i]
		name, ok := ast.BindingName(param.Pattern)
		if !ok {
			continue
		}
		if ast.IsMutable(param.Pattern) {
			alloca := c.builder.CreateAlloca(paramTypes[i], name)
			c.builder.CreateStore(fn.Param(i), alloca)
			c.allocaValues[name] = alloca
			c.allocaTypes[name] = paramTypes[i]
		} else {
			c.ssaValues[name] = fn.Param(i)
		}
	}

	bodyVal := c.lowerExpr(decl.Body)

	if !c.blockTerminated() {
		if returnType.TypeKind() == llvm.VoidTypeKind {
			c.builder.CreateRetVoid()
		} else if !bodyVal.IsNil() {
			c.builder.CreateRet(bodyVal)
		} else {
			c.builder.CreateRet(llvm.ConstNull(returnType))
		}
	}

	if err := llvm.VerifyFunction(fn, llvm.ReturnStatusAction); err != nil {
		c.error(decl, fmt.Sprintf("function %q failed IR verification: %v", decl.Name, err))
		fn.EraseFromParentAsFunction()
	}
}

// blockTerminated reports whether the current insertion block already ends
// in a terminator instruction.
func (c *Codegen) blockTerminated() bool {
	block := c.builder.GetInsertBlock()
	last := block.LastInstruction()
	if last.IsNil() {
		return false
	}
	switch last.InstructionOpcode() {
	case llvm.Ret, llvm.Br, llvm.Switch, llvm.IndirectBr, llvm.Invoke, llvm.Unreachable:
		return true
	}
	return false
}

// entryBlockAlloca emits an alloca in the function entry block regardless of
// the current insertion point. Stack slots whose lifetime spans a loop
// iteration (loop counters, match results, mutable lets inside loop bodies)
// must live here: an alloca in a loop body would be re-allocated each
// iteration and fail IR verification.
func (c *Codegen) entryBlockAlloca(ty llvm.Type, name string) llvm.Value {
	current := c.builder.GetInsertBlock()
	fn := current.Parent()
	entry := fn.EntryBasicBlock()
	first := entry.FirstInstruction()

	if first.IsNil() {
		c.builder.SetInsertPointAtEnd(entry)
	} else {
		c.builder.SetInsertPointBefore(first)
	}

	alloca := c.builder.CreateAlloca(ty, name)
	c.builder.SetInsertPointAtEnd(current)
	return alloca
}

// savedBinding remembers the previous binding of a name in both maps so loop
// bodies and match arms can shadow and restore it.
type savedBinding struct {
	name      string
	ssa       llvm.Value
	hadSSA    bool
	alloca    llvm.Value
	allocaTy  llvm.Type
	hadAlloca bool
}

func (c *Codegen) saveBinding(name string) savedBinding {
	saved := savedBinding{name: name}
	if val, ok := c.ssaValues[name]; ok {
		saved.ssa = val
		saved.hadSSA = true
	}
	if val, ok := c.allocaValues[name]; ok {
		saved.alloca = val
		saved.allocaTy = c.allocaTypes[name]
		saved.hadAlloca = true
	}
	return saved
}

func (c *Codegen) restoreBinding(saved savedBinding) {
	if saved.hadSSA {
		c.ssaValues[saved.name] = saved.ssa
	} else {
		delete(c.ssaValues, saved.name)
	}
	if saved.hadAlloca {
		c.allocaValues[saved.name] = saved.alloca
		c.allocaTypes[saved.name] = saved.allocaTy
	} else {
		delete(c.allocaValues, saved.name)
		delete(c.allocaTypes, saved.name)
	}
}
