package sema

import "github.com/jmm-lang/jmmc/pkg/ast"

// typeCheck recursively synthesizes the type of an expression node,
// reporting an operand-mismatch (check 7) wherever the operator's operand
// types don't line up, and returns the type regardless so callers above
// keep synthesizing instead of aborting.
func (a *Analyzer) typeCheck(n *ast.Node) ast.Type {
	switch n.Kind {
	case ast.Literal:
		return ast.TBool
	case ast.Num:
		return ast.TInt
	case ast.String:
		return ast.TString
	case ast.Id, ast.FuncCall:
		return a.scopes.ResolveType(n.Name)

	case ast.Compare:
		left := a.typeCheck(n.Children[0])
		right := a.typeCheck(n.Children[1])
		switch n.Op {
		case "==", "!=":
			if left != right {
				a.report(n.Line, "operands of '%s' have different types: %s and %s", n.Op, left, right)
			}
		default: // < > <= >=
			if left != ast.TInt || right != ast.TInt {
				a.report(n.Line, "operands of '%s' must both be int", n.Op)
			}
		}
		return ast.TBool

	case ast.Logical:
		if len(n.Children) == 1 {
			operand := a.typeCheck(n.Children[0])
			if operand != ast.TBool {
				a.report(n.Line, "operand of '!' must be boolean, got %s", operand)
			}
			return ast.TBool
		}
		left := a.typeCheck(n.Children[0])
		right := a.typeCheck(n.Children[1])
		if left != ast.TBool || right != ast.TBool {
			a.report(n.Line, "operands of '%s' must both be boolean", n.Op)
		}
		return ast.TBool

	case ast.Arithmetic:
		if len(n.Children) == 1 {
			operand := a.typeCheck(n.Children[0])
			if operand != ast.TInt {
				a.report(n.Line, "operand of unary '-' must be int, got %s", operand)
			}
			return ast.TInt
		}
		left := a.typeCheck(n.Children[0])
		right := a.typeCheck(n.Children[1])
		if left != ast.TInt || right != ast.TInt {
			a.report(n.Line, "operands of '%s' must both be int", n.Op)
		}
		return ast.TInt
	}

	return ast.TUnknown
}
