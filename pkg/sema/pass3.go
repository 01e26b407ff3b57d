package sema

import (
	"github.com/jmm-lang/jmmc/pkg/ast"
	"github.com/jmm-lang/jmmc/pkg/symtab"
)

// pass3SignaturesAndReturns re-walks the tree with the same push/pop scope
// discipline as pass 2 (required so resolve/typeCheck work inside function
// bodies), checking call signatures, return-statement shape, condition
// types and assignment types.
func (a *Analyzer) pass3SignaturesAndReturns(prog *ast.Node) {
	ast.Bracketed(prog, 1, func(n *ast.Node, before bool, depth int) {
		switch n.Kind {
		case ast.MainDecl, ast.FuncDecl:
			if before {
				entry, _ := a.entryOf(n)
				a.scopes.Push(entry.Params)
				a.checkReturns(n)
			} else {
				a.scopes.Pop()
			}
			return
		}

		if !before {
			return
		}

		switch n.Kind {
		case ast.FuncCall:
			a.checkCall(n)
		case ast.If, ast.While:
			cond := n.Children[0]
			if a.typeCheck(cond) != ast.TBool {
				a.report(cond.Line, "condition must be boolean")
			}
		case ast.Assn:
			lhsType := a.scopes.ResolveType(n.Name)
			rhsType := a.typeCheck(n.Children[1])
			if lhsType != ast.TUnknown && rhsType != ast.TUnknown && lhsType != rhsType {
				a.report(n.Line, "cannot assign %s to '%s' of type %s", rhsType, n.Name, lhsType)
			}
		}
	})
}

// checkCall validates a function-call site: target existence is already
// reported by pass 2, so a miss here is silently skipped.
func (a *Analyzer) checkCall(call *ast.Node) {
	entry, ok := a.entryOf(call)
	if !ok {
		return
	}

	if entry.NodeKind == symtab.MainDeclEntry {
		a.report(call.Line, "main cannot be called")
		return
	}

	// Params also holds the function's locals; count only the parameters.
	expected := 0
	for {
		if _, ok := entry.Params.ByIndex(expected + 1); !ok {
			break
		}
		expected++
	}
	actual := len(call.Children)
	if actual != expected {
		a.report(call.Line, "call to '%s' passes %d argument(s), expected %d", call.Name, actual, expected)
		return
	}

	for i, arg := range call.Children {
		param, ok := entry.Params.ByIndex(i + 1)
		if !ok {
			continue
		}
		argType := a.typeCheck(arg)
		if argType != param.Type {
			a.report(call.Line, "argument %d to '%s': %s used instead of %s", i+1, call.Name, argType, param.Type)
		}
	}
}

// checkReturns implements the return-statement rule table: whether a
// return is required, forbidden, must carry a value, or must not.
func (a *Analyzer) checkReturns(fn *ast.Node) {
	isVoidLike := fn.Kind == ast.MainDecl || fn.Type == ast.TVoid
	body := fn.Children[len(fn.Children)-1] // outermost Block, always last

	found := false
	for _, stmt := range body.Children {
		if stmt.Kind != ast.Return {
			continue
		}
		found = true
		hasValue := len(stmt.Children) > 0

		switch {
		case isVoidLike && hasValue:
			a.report(stmt.Line, "function '%s' must not return a value", fn.Name)
		case !isVoidLike && !hasValue:
			a.report(stmt.Line, "function '%s' must return a value of type %s", fn.Name, fn.Type)
		case !isVoidLike && hasValue:
			valueType := a.typeCheck(stmt.Children[0])
			if valueType != fn.Type {
				a.report(stmt.Line, "function '%s' returns %s instead of %s", fn.Name, valueType, fn.Type)
			}
		}
	}

	if !found && !isVoidLike {
		a.report(fn.Line, "function '%s' has no return statement", fn.Name)
	}
}
