package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/ShubhamPhapale/apex/internal/frontend/ast"
)

// lowerIf emits then/else/ifcont blocks. The merge block is only appended
// when at least one branch falls through, and a PHI is built only when both
// branches produce a value of the same type without terminating.
func (c *Codegen) lowerIf(expr *ast.IfExpr) llvm.Value {
	cond := c.lowerExpr(expr.Cond)
	if cond.IsNil() {
		return llvm.Value{}
	}

	fn := c.builder.GetInsertBlock().Parent()
	thenBB := c.context.AddBasicBlock(fn, "then")
	elseBB := c.context.AddBasicBlock(fn, "else")
	var mergeBB llvm.BasicBlock

	ensureMerge := func() llvm.BasicBlock {
		if mergeBB.IsNil() {
			mergeBB = c.context.AddBasicBlock(fn, "ifcont")
		}
		return mergeBB
	}

	c.builder.CreateCondBr(cond, thenBB, elseBB)

	c.builder.SetInsertPointAtEnd(thenBB)
	thenVal := c.lowerExpr(expr.Then)
	thenTerminated := c.blockTerminated()
	thenEnd := c.builder.GetInsertBlock()
	if !thenTerminated {
		c.builder.CreateBr(ensureMerge())
	}

	c.builder.SetInsertPointAtEnd(elseBB)
	var elseVal llvm.Value
	if expr.Else != nil {
		elseVal = c.lowerExpr(expr.Else)
	}
	elseTerminated := c.blockTerminated()
	elseEnd := c.builder.GetInsertBlock()
	if !elseTerminated {
		c.builder.CreateBr(ensureMerge())
	}

	// Both branches terminated: the merge block was never created and the
	// builder stays on the (terminated) else tail; anything after is
	// unreachable.
	if mergeBB.IsNil() {
		return llvm.Value{}
	}

	c.builder.SetInsertPointAtEnd(mergeBB)

	if !thenTerminated && !elseTerminated &&
		!thenVal.IsNil() && !elseVal.IsNil() &&
		thenVal.Type() == elseVal.Type() {
		phi := c.builder.CreatePHI(thenVal.Type(), "iftmp")
		phi.AddIncoming([]llvm.Value{thenVal, elseVal}, []llvm.BasicBlock{thenEnd, elseEnd})
		return phi
	}

	return llvm.Value{}
}

// lowerWhile emits cond/body/end blocks; continue branches to cond, break
// to end.
func (c *Codegen) lowerWhile(expr *ast.WhileExpr) llvm.Value {
	fn := c.builder.GetInsertBlock().Parent()
	condBB := c.context.AddBasicBlock(fn, "whilecond")
	bodyBB := c.context.AddBasicBlock(fn, "whilebody")
	endBB := c.context.AddBasicBlock(fn, "whileend")

	c.builder.CreateBr(condBB)

	c.builder.SetInsertPointAtEnd(condBB)
	cond := c.lowerExpr(expr.Cond)
	if cond.IsNil() {
		// recovery: a condition that failed to lower never enters the body
		cond = llvm.ConstInt(c.context.Int1Type(), 0, false)
	}
	c.builder.CreateCondBr(cond, bodyBB, endBB)

	c.builder.SetInsertPointAtEnd(bodyBB)
	c.loopStack = append(c.loopStack, loopBlocks{Continue: condBB, Break: endBB})
	c.lowerExpr(expr.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	if !c.blockTerminated() {
		c.builder.CreateBr(condBB)
	}

	c.builder.SetInsertPointAtEnd(endBB)
	return llvm.Value{}
}

// lowerFor handles `for pattern in start..end`. The loop counter lives in an
// entry-block alloca and is temporarily bound under the loop variable's name
// in the mutable-binding map; any prior binding is restored on exit.
// Continue branches to the increment block, break to end.
func (c *Codegen) lowerFor(expr *ast.ForExpr) llvm.Value {
	rng, ok := expr.Iterator.(*ast.RangeExpr)
	if !ok || rng.Start == nil || rng.End == nil {
		c.error(expr, "for loops support only bounded range iterators")
		return llvm.Value{}
	}

	start := c.lowerExpr(rng.Start)
	end := c.lowerExpr(rng.End)
	if start.IsNil() || end.IsNil() {
		return llvm.Value{}
	}

	name, hasName := ast.BindingName(expr.Pattern)
	if !hasName {
		name = "i"
	}

	counterType := start.Type()
	counter := c.entryBlockAlloca(counterType, name)
	c.builder.CreateStore(start, counter)

	fn := c.builder.GetInsertBlock().Parent()
	condBB := c.context.AddBasicBlock(fn, "forcond")
	bodyBB := c.context.AddBasicBlock(fn, "forbody")
	incBB := c.context.AddBasicBlock(fn, "forinc")
	endBB := c.context.AddBasicBlock(fn, "forend")

	c.builder.CreateBr(condBB)

	c.builder.SetInsertPointAtEnd(condBB)
	current := c.builder.CreateLoad(counterType, counter, name)
	pred := llvm.IntSLT
	if rng.Inclusive {
		pred = llvm.IntSLE
	}
	cmp := c.builder.CreateICmp(pred, current, end, "forcmp")
	c.builder.CreateCondBr(cmp, bodyBB, endBB)

	c.builder.SetInsertPointAtEnd(bodyBB)
	saved := c.saveBinding(name)
	delete(c.ssaValues, name)
	c.allocaValues[name] = counter
	c.allocaTypes[name] = counterType

	c.loopStack = append(c.loopStack, loopBlocks{Continue: incBB, Break: endBB})
	c.lowerExpr(expr.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	if !c.blockTerminated() {
		c.builder.CreateBr(incBB)
	}

	c.builder.SetInsertPointAtEnd(incBB)
	next := c.builder.CreateAdd(
		c.builder.CreateLoad(counterType, counter, name),
		llvm.ConstInt(counterType, 1, false), "fornext")
	c.builder.CreateStore(next, counter)
	c.builder.CreateBr(condBB)

	c.builder.SetInsertPointAtEnd(endBB)
	c.restoreBinding(saved)
	return llvm.Value{}
}

// lowerMatch emits a test/body block pair per arm with a shared merge block.
// The result travels through an alloca placed in the function entry block:
// a slot allocated in the current (possibly loop-nested) block would be
// re-allocated each iteration and fail verification.
func (c *Codegen) lowerMatch(expr *ast.MatchExpr) llvm.Value {
	resultType := c.context.Int32Type()
	result := c.entryBlockAlloca(resultType, "matchtmp")
	c.builder.CreateStore(llvm.ConstInt(resultType, 0, false), result)

	scrutinee := c.lowerExpr(expr.Scrutinee)
	if scrutinee.IsNil() {
		return llvm.Value{}
	}

	fn := c.builder.GetInsertBlock().Parent()
	mergeBB := c.context.AddBasicBlock(fn, "matchend")

	for i := range expr.Arms {
		arm := &expr.Arms[i]
		last := i == len(expr.Arms)-1

		bodyBB := c.context.AddBasicBlock(fn, "matcharm")

		isDefault := false
		switch arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentifierPattern:
			isDefault = true
		}

		var nextBB llvm.BasicBlock
		switch {
		case isDefault && arm.Guard == nil:
			// Always matches; later arms are unreachable.
		case last:
			nextBB = mergeBB
		default:
			nextBB = c.context.AddBasicBlock(fn, "matchtest")
		}

		saved, bound := c.bindArmPattern(arm.Pattern, scrutinee)

		matched := c.armCondition(arm, scrutinee)
		if matched.IsNil() {
			c.builder.CreateBr(bodyBB)
		} else {
			c.builder.CreateCondBr(matched, bodyBB, nextBB)
		}

		c.builder.SetInsertPointAtEnd(bodyBB)
		val := c.lowerExpr(arm.Body)
		if !c.blockTerminated() {
			if !val.IsNil() {
				c.builder.CreateStore(val, result)
			}
			c.builder.CreateBr(mergeBB)
		}

		if bound {
			c.restoreBinding(saved)
		}

		if isDefault && arm.Guard == nil {
			if i != len(expr.Arms)-1 {
				c.error(arm.Pattern, "unreachable match arms after wildcard")
			}
			break
		}

		c.builder.SetInsertPointAtEnd(nextBB)
		if nextBB == mergeBB {
			break
		}
	}

	// Defensive: if the last test block is not the merge block it still
	// needs a terminator.
	if c.builder.GetInsertBlock() != mergeBB && !c.blockTerminated() {
		c.builder.CreateBr(mergeBB)
		c.builder.SetInsertPointAtEnd(mergeBB)
	}

	c.builder.SetInsertPointAtEnd(mergeBB)
	return c.builder.CreateLoad(resultType, result, "matchval")
}

// armCondition returns the i1 match test for an arm, or a nil value when the
// arm always matches.
func (c *Codegen) armCondition(arm *ast.MatchArm, scrutinee llvm.Value) llvm.Value {
	var patternTest llvm.Value

	switch pat := arm.Pattern.(type) {
	case *ast.WildcardPattern, *ast.IdentifierPattern:
		// always matches

	case *ast.LiteralPattern:
		patternTest = c.builder.CreateICmp(llvm.IntEQ, scrutinee,
			c.lowerLiteral(pat.Value), "matchcmp")

	case *ast.RangePattern:
		low := c.builder.CreateICmp(llvm.IntSGE, scrutinee,
			c.lowerLiteral(pat.Start), "matchlow")
		pred := llvm.IntSLT
		if pat.Inclusive {
			pred = llvm.IntSLE
		}
		high := c.builder.CreateICmp(pred, scrutinee,
			c.lowerLiteral(pat.End), "matchhigh")
		patternTest = c.builder.CreateAnd(low, high, "matchrange")

	case *ast.OrPattern:
		for _, sub := range pat.Patterns {
			lit, ok := sub.(*ast.LiteralPattern)
			if !ok {
				c.error(arm.Pattern, "unsupported pattern in match arm")
				return llvm.ConstInt(c.context.Int1Type(), 0, false)
			}
			cmp := c.builder.CreateICmp(llvm.IntEQ, scrutinee,
				c.lowerLiteral(lit.Value), "matchcmp")
			if patternTest.IsNil() {
				patternTest = cmp
			} else {
				patternTest = c.builder.CreateOr(patternTest, cmp, "matchor")
			}
		}

	default:
		c.error(arm.Pattern, fmt.Sprintf("unsupported pattern %T in match arm", pat))
		return llvm.ConstInt(c.context.Int1Type(), 0, false)
	}

	if arm.Guard != nil {
		guard := c.lowerExpr(arm.Guard)
		if guard.IsNil() {
			guard = llvm.ConstInt(c.context.Int1Type(), 0, false)
		}
		if patternTest.IsNil() {
			return guard
		}
		return c.builder.CreateAnd(patternTest, guard, "matchguard")
	}

	return patternTest
}

// bindArmPattern binds an identifier pattern to the scrutinee value for the
// duration of the arm, returning the shadowed binding for restoration.
func (c *Codegen) bindArmPattern(pattern ast.Pattern, scrutinee llvm.Value) (savedBinding, bool) {
	ident, ok := pattern.(*ast.IdentifierPattern)
	if !ok {
		return savedBinding{}, false
	}
	saved := c.saveBinding(ident.Name)
	delete(c.allocaValues, ident.Name)
	delete(c.allocaTypes, ident.Name)
	c.ssaValues[ident.Name] = scrutinee
	return saved, true
}
