package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
	"github.com/ShubhamPhapale/apex/internal/tokens"
)

// lowerExpr lowers one expression and returns its IR value. A nil value
// means the expression produced nothing (unit, terminated control flow, or
// an error already reported upstream).
func (c *Codegen) lowerExpr(expr ast.Expression) llvm.Value {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return c.lowerLiteral(e)

	case *ast.IdentifierExpr:
		return c.lowerIdentifier(e)

	case *ast.BinaryExpr:
		return c.lowerBinary(e)

	case *ast.UnaryExpr:
		return c.lowerUnary(e)

	case *ast.CallExpr:
		return c.lowerCall(e)

	case *ast.IndexExpr:
		return c.lowerIndex(e)

	case *ast.SelectorExpr:
		return c.lowerFieldAccess(e)

	case *ast.CastExpr:
		return c.lowerCast(e)

	case *ast.StructLit:
		return c.lowerStructLit(e)

	case *ast.ArrayLit:
		return c.lowerArrayLit(e)

	case *ast.TupleExpr:
		return c.lowerTuple(e)

	case *ast.BlockExpr:
		return c.lowerBlock(e)

	case *ast.IfExpr:
		return c.lowerIf(e)

	case *ast.MatchExpr:
		return c.lowerMatch(e)

	case *ast.ReturnExpr:
		return c.lowerReturn(e)

	case *ast.WhileExpr:
		return c.lowerWhile(e)

	case *ast.ForExpr:
		return c.lowerFor(e)

	case *ast.BreakExpr:
		c.lowerBreak(e)
		return llvm.Value{}

	case *ast.ContinueExpr:
		c.lowerContinue(e)
		return llvm.Value{}

	case *ast.RangeExpr:
		// Ranges only have meaning as for-loop iterators.
		c.error(e, "range expression outside of a for loop is not supported")
		return llvm.Value{}

	case *ast.Invalid:
		return llvm.Value{}

	default:
		return llvm.Value{}
	}
}

// lowerLiteral: integer literals default to 32-bit signed constants pending
// type inference; bool lowers to i1, floats to double precision.
func (c *Codegen) lowerLiteral(lit *ast.BasicLit) llvm.Value {
	switch lit.Kind {
	case ast.INT:
		return llvm.ConstInt(c.context.Int32Type(), uint64(lit.IntVal), true)
	case ast.FLOAT:
		return llvm.ConstFloat(c.context.DoubleType(), lit.FloatVal)
	case ast.BOOL:
		val := uint64(0)
		if lit.BoolVal {
			val = 1
		}
		return llvm.ConstInt(c.context.Int1Type(), val, false)
	case ast.CHAR:
		return llvm.ConstInt(c.context.Int32Type(), uint64(lit.IntVal), false)
	case ast.STRING:
		return c.constString(lit.StrVal)
	default:
		return llvm.ConstInt(c.context.Int32Type(), 0, true)
	}
}

// constString emits a private global for the string bytes and returns a
// pointer to its first character.
func (c *Codegen) constString(value string) llvm.Value {
	strConst := llvm.ConstString(value, true)
	arrType := llvm.ArrayType(c.context.Int8Type(), len(value)+1)
	global := llvm.AddGlobal(c.module, arrType, "str")
	global.SetInitializer(strConst)
	global.SetLinkage(llvm.PrivateLinkage)
	global.SetGlobalConstant(true)

	zero := llvm.ConstInt(c.context.Int64Type(), 0, false)
	return c.builder.CreateGEP(arrType, global, []llvm.Value{zero, zero}, "strptr")
}

// lowerIdentifier probes the alloca map (emitting a load), then the SSA map,
// then the function table. Absence yields a nil value: the semantic pass has
// already reported the name.
func (c *Codegen) lowerIdentifier(ident *ast.IdentifierExpr) llvm.Value {
	if alloca, ok := c.allocaValues[ident.Name]; ok {
		return c.builder.CreateLoad(c.allocaTypes[ident.Name], alloca, ident.Name)
	}
	if val, ok := c.ssaValues[ident.Name]; ok {
		return val
	}
	if fn, ok := c.functions[ident.Name]; ok {
		return fn
	}
	return llvm.Value{}
}

func (c *Codegen) lowerBinary(bin *ast.BinaryExpr) llvm.Value {
	if isAssignKind(bin.Op.Kind) {
		return c.lowerAssignment(bin)
	}

	left := c.lowerExpr(bin.X)
	right := c.lowerExpr(bin.Y)
	if left.IsNil() || right.IsNil() {
		return llvm.Value{}
	}

	return c.binaryOp(bin.Op.Kind, left, right)
}

func (c *Codegen) binaryOp(op tokens.TOKEN, left, right llvm.Value) llvm.Value {
	switch op {
	case tokens.PLUS_TOKEN:
		return c.builder.CreateAdd(left, right, "addtmp")
	case tokens.MINUS_TOKEN:
		return c.builder.CreateSub(left, right, "subtmp")
	case tokens.MUL_TOKEN:
		return c.builder.CreateMul(left, right, "multmp")
	case tokens.DIV_TOKEN:
		return c.builder.CreateSDiv(left, right, "divtmp")
	case tokens.PERCENT_TOKEN:
		return c.builder.CreateSRem(left, right, "modtmp")
	case tokens.DOUBLE_EQUAL_TOKEN:
		return c.builder.CreateICmp(llvm.IntEQ, left, right, "eqtmp")
	case tokens.NOT_EQUAL_TOKEN:
		return c.builder.CreateICmp(llvm.IntNE, left, right, "netmp")
	case tokens.LESS_TOKEN:
		return c.builder.CreateICmp(llvm.IntSLT, left, right, "lttmp")
	case tokens.LESS_EQUAL_TOKEN:
		return c.builder.CreateICmp(llvm.IntSLE, left, right, "letmp")
	case tokens.GREATER_TOKEN:
		return c.builder.CreateICmp(llvm.IntSGT, left, right, "gttmp")
	case tokens.GREATER_EQUAL_TOKEN:
		return c.builder.CreateICmp(llvm.IntSGE, left, right, "getmp")
	case tokens.AND_TOKEN:
		// Logical && lowers like bitwise on i1; short-circuiting is a
		// planned refinement.
		return c.builder.CreateAnd(left, right, "andtmp")
	case tokens.OR_TOKEN:
		return c.builder.CreateOr(left, right, "ortmp")
	case tokens.BIT_AND_TOKEN:
		return c.builder.CreateAnd(left, right, "bitandtmp")
	case tokens.BIT_OR_TOKEN:
		return c.builder.CreateOr(left, right, "bitortmp")
	case tokens.BIT_XOR_TOKEN:
		return c.builder.CreateXor(left, right, "bitxortmp")
	case tokens.SHL_TOKEN:
		return c.builder.CreateShl(left, right, "shltmp")
	case tokens.SHR_TOKEN:
		return c.builder.CreateAShr(left, right, "shrtmp")
	default:
		return llvm.Value{}
	}
}

// lowerAssignment: the left operand must be an identifier bound to an
// alloca. Compound assignments load, combine, then store.
func (c *Codegen) lowerAssignment(assign *ast.BinaryExpr) llvm.Value {
	target, ok := assign.X.(*ast.IdentifierExpr)
	if !ok {
		c.error(assign, "assignment target must be an identifier")
		return llvm.Value{}
	}

	alloca, ok := c.allocaValues[target.Name]
	if !ok {
		c.error(target, fmt.Sprintf("cannot assign to immutable binding %q", target.Name))
		return llvm.Value{}
	}
	elemType := c.allocaTypes[target.Name]

	right := c.lowerExpr(assign.Y)
	if right.IsNil() {
		return llvm.Value{}
	}

	if assign.Op.Kind == tokens.EQUALS_TOKEN {
		c.builder.CreateStore(right, alloca)
		return right
	}

	current := c.builder.CreateLoad(elemType, alloca, target.Name)
	combined := c.binaryOp(compoundBaseOp(assign.Op.Kind), current, right)
	if combined.IsNil() {
		return llvm.Value{}
	}
	c.builder.CreateStore(combined, alloca)
	return combined
}

func isAssignKind(kind tokens.TOKEN) bool {
	switch kind {
	case tokens.EQUALS_TOKEN, tokens.PLUS_EQUALS_TOKEN, tokens.MINUS_EQUALS_TOKEN,
		tokens.MUL_EQUALS_TOKEN, tokens.DIV_EQUALS_TOKEN, tokens.MOD_EQUALS_TOKEN,
		tokens.AND_EQUALS_TOKEN, tokens.OR_EQUALS_TOKEN, tokens.XOR_EQUALS_TOKEN,
		tokens.SHL_EQUALS_TOKEN, tokens.SHR_EQUALS_TOKEN:
		return true
	}
	return false
}

func compoundBaseOp(kind tokens.TOKEN) tokens.TOKEN {
	switch kind {
	case tokens.PLUS_EQUALS_TOKEN:
		return tokens.PLUS_TOKEN
	case tokens.MINUS_EQUALS_TOKEN:
		return tokens.MINUS_TOKEN
	case tokens.MUL_EQUALS_TOKEN:
		return tokens.MUL_TOKEN
	case tokens.DIV_EQUALS_TOKEN:
		return tokens.DIV_TOKEN
	case tokens.MOD_EQUALS_TOKEN:
		return tokens.PERCENT_TOKEN
	case tokens.AND_EQUALS_TOKEN:
		return tokens.BIT_AND_TOKEN
	case tokens.OR_EQUALS_TOKEN:
		return tokens.BIT_OR_TOKEN
	case tokens.XOR_EQUALS_TOKEN:
		return tokens.BIT_XOR_TOKEN
	case tokens.SHL_EQUALS_TOKEN:
		return tokens.SHL_TOKEN
	case tokens.SHR_EQUALS_TOKEN:
		return tokens.SHR_TOKEN
	default:
		return kind
	}
}

func (c *Codegen) lowerUnary(unary *ast.UnaryExpr) llvm.Value {
	operand := c.lowerExpr(unary.X)
	if operand.IsNil() {
		return llvm.Value{}
	}

	switch unary.Op.Kind {
	case tokens.MINUS_TOKEN:
		return c.builder.CreateNeg(operand, "negtmp")
	case tokens.NOT_TOKEN, tokens.BIT_NOT_TOKEN:
		return c.builder.CreateNot(operand, "nottmp")
	default:
		// deref and address-of pass the value through until a pointer
		// model exists
		return operand
	}
}

// lowerCall lowers the callee, then each argument left to right, then emits
// the call. Void calls carry no result name.
func (c *Codegen) lowerCall(call *ast.CallExpr) llvm.Value {
	ident, ok := call.Fun.(*ast.IdentifierExpr)
	if !ok {
		c.error(call, "callee must be a function name")
		return llvm.Value{}
	}

	fn, found := c.functions[ident.Name]
	funcType, typeFound := c.funcTypes[ident.Name]
	if !found || !typeFound {
		return llvm.Value{}
	}

	args := make([]llvm.Value, 0, len(call.Args))
	for _, arg := range call.Args {
		val := c.lowerExpr(arg)
		if val.IsNil() {
			return llvm.Value{}
		}
		args = append(args, val)
	}

	name := "calltmp"
	if funcType.ReturnType().TypeKind() == llvm.VoidTypeKind {
		name = ""
	}
	return c.builder.CreateCall(funcType, fn, args, name)
}

// lowerIndex spills the aggregate into an entry-block slot and GEPs the
// element, which handles runtime indices.
func (c *Codegen) lowerIndex(index *ast.IndexExpr) llvm.Value {
	container := c.lowerExpr(index.X)
	idx := c.lowerExpr(index.Index)
	if container.IsNil() || idx.IsNil() {
		return llvm.Value{}
	}

	aggType := container.Type()
	if aggType.TypeKind() != llvm.ArrayTypeKind {
		c.error(index, "indexing is only supported on arrays")
		return llvm.Value{}
	}

	slot := c.entryBlockAlloca(aggType, "indextmp")
	c.builder.CreateStore(container, slot)

	zero := llvm.ConstInt(c.context.Int64Type(), 0, false)
	elemPtr := c.builder.CreateGEP(aggType, slot, []llvm.Value{zero, idx}, "elemptr")
	return c.builder.CreateLoad(aggType.ElementType(), elemPtr, "elemtmp")
}

// lowerFieldAccess reads a struct field by position via the struct registry.
func (c *Codegen) lowerFieldAccess(sel *ast.SelectorExpr) llvm.Value {
	object := c.lowerExpr(sel.X)
	if object.IsNil() {
		return llvm.Value{}
	}

	objType := object.Type()
	if objType.TypeKind() != llvm.StructTypeKind {
		c.error(sel, fmt.Sprintf("field access on non-struct value (%q)", sel.Field.Name))
		return llvm.Value{}
	}

	names := c.structFields[objType.StructName()]
	for i, name := range names {
		if name == sel.Field.Name {
			return c.builder.CreateExtractValue(object, i, sel.Field.Name)
		}
	}

	c.error(sel, fmt.Sprintf("unknown field %q", sel.Field.Name))
	return llvm.Value{}
}

// lowerCast adjusts integer widths; other casts pass through.
func (c *Codegen) lowerCast(cast *ast.CastExpr) llvm.Value {
	value := c.lowerExpr(cast.X)
	if value.IsNil() {
		return llvm.Value{}
	}

	target := c.codegenType(cast.Target)
	if value.Type().TypeKind() == llvm.IntegerTypeKind &&
		target.TypeKind() == llvm.IntegerTypeKind &&
		value.Type().IntTypeWidth() != target.IntTypeWidth() {
		return c.builder.CreateIntCast(value, target, "casttmp")
	}
	return value
}

// lowerStructLit builds the aggregate field by field in declaration order.
func (c *Codegen) lowerStructLit(lit *ast.StructLit) llvm.Value {
	name := lit.Path[len(lit.Path)-1]
	structType, ok := c.structs[name]
	if !ok {
		c.error(lit, fmt.Sprintf("unknown struct %q", name))
		return llvm.Value{}
	}
	fieldNames := c.structFields[name]

	agg := llvm.Undef(structType)
	for i, fieldName := range fieldNames {
		for _, init := range lit.Fields {
			if init.Name != fieldName {
				continue
			}
			val := c.lowerExpr(init.Value)
			if val.IsNil() {
				return llvm.Value{}
			}
			agg = c.builder.CreateInsertValue(agg, val, i, fieldName)
			break
		}
	}
	return agg
}

func (c *Codegen) lowerArrayLit(lit *ast.ArrayLit) llvm.Value {
	if lit.Repeat != nil {
		repeat := c.lowerExpr(lit.Repeat)
		count := c.lowerExpr(lit.Count)
		if repeat.IsNil() || count.IsNil() {
			return llvm.Value{}
		}
		if count.IsAConstantInt().IsNil() {
			c.error(lit, "array repeat count must be a constant")
			return llvm.Value{}
		}
		n := int(count.ZExtValue())
		arrType := llvm.ArrayType(repeat.Type(), n)
		agg := llvm.Undef(arrType)
		for i := 0; i < n; i++ {
			agg = c.builder.CreateInsertValue(agg, repeat, i, "arrtmp")
		}
		return agg
	}

	if len(lit.Elements) == 0 {
		return llvm.Value{}
	}

	first := c.lowerExpr(lit.Elements[0])
	if first.IsNil() {
		return llvm.Value{}
	}
	arrType := llvm.ArrayType(first.Type(), len(lit.Elements))
	agg := llvm.Undef(arrType)
	agg = c.builder.CreateInsertValue(agg, first, 0, "arrtmp")
	for i := 1; i < len(lit.Elements); i++ {
		val := c.lowerExpr(lit.Elements[i])
		if val.IsNil() {
			return llvm.Value{}
		}
		agg = c.builder.CreateInsertValue(agg, val, i, "arrtmp")
	}
	return agg
}

func (c *Codegen) lowerTuple(tuple *ast.TupleExpr) llvm.Value {
	if len(tuple.Elements) == 0 {
		return llvm.Value{}
	}

	vals := make([]llvm.Value, len(tuple.Elements))
	types := make([]llvm.Type, len(tuple.Elements))
	for i, elem := range tuple.Elements {
		vals[i] = c.lowerExpr(elem)
		if vals[i].IsNil() {
			return llvm.Value{}
		}
		types[i] = vals[i].Type()
	}

	agg := llvm.Undef(llvm.StructType(types, false))
	for i, val := range vals {
		agg = c.builder.CreateInsertValue(agg, val, i, "tupletmp")
	}
	return agg
}

// lowerBlock lowers each statement in order; once a statement terminates the
// block the rest is unreachable and skipped. The trailing expression's value
// is the block's value.
func (c *Codegen) lowerBlock(block *ast.BlockExpr) llvm.Value {
	for _, stmt := range block.Stmts {
		c.lowerStmt(stmt)
		if c.blockTerminated() {
			return llvm.Value{}
		}
	}
	if block.Tail != nil {
		return c.lowerExpr(block.Tail)
	}
	return llvm.Value{}
}

func (c *Codegen) lowerStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		c.lowerExpr(s.X) // value discarded
	case *ast.LetStmt:
		c.lowerLet(s)
	case *ast.ItemStmt:
		if st, ok := s.Item.(*ast.StructDecl); ok {
			c.lowerStruct(st)
		}
		// nested functions are not lowered
	}
}

// lowerLet: mutable patterns get an entry-block alloca (typed by the
// annotation, defaulting to a 32-bit integer slot absent type inference) and
// a store; immutable patterns bind the initializer's SSA value directly.
func (c *Codegen) lowerLet(let *ast.LetStmt) {
	name, ok := ast.BindingName(let.Pattern)
	if !ok {
		return // reported by the semantic pass
	}

	if ast.IsMutable(let.Pattern) {
		slotType := c.context.Int32Type()
		if let.Type != nil {
			slotType = c.codegenType(let.Type)
		}
		alloca := c.entryBlockAlloca(slotType, name)
		if let.Init != nil {
			if val := c.lowerExpr(let.Init); !val.IsNil() {
				c.builder.CreateStore(val, alloca)
			}
		}
		c.allocaValues[name] = alloca
		c.allocaTypes[name] = slotType
		delete(c.ssaValues, name)
		return
	}

	if let.Init != nil {
		if val := c.lowerExpr(let.Init); !val.IsNil() {
			c.ssaValues[name] = val
			delete(c.allocaValues, name)
			delete(c.allocaTypes, name)
		}
	}
}

func (c *Codegen) lowerReturn(ret *ast.ReturnExpr) llvm.Value {
	if ret.Value != nil {
		val := c.lowerExpr(ret.Value)
		if !val.IsNil() {
			c.builder.CreateRet(val)
			return val
		}
	}
	c.builder.CreateRetVoid()
	return llvm.Value{}
}

func (c *Codegen) lowerBreak(expr *ast.BreakExpr) {
	if len(c.loopStack) == 0 {
		c.error(expr, "break outside of loop")
		return
	}
	c.builder.CreateBr(c.loopStack[len(c.loopStack)-1].Break)
}

func (c *Codegen) lowerContinue(expr *ast.ContinueExpr) {
	if len(c.loopStack) == 0 {
		c.error(expr, "continue outside of loop")
		return
	}
	c.builder.CreateBr(c.loopStack[len(c.loopStack)-1].Continue)
}
