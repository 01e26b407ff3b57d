package sema

import "github.com/jmm-lang/jmmc/pkg/ast"

// pass4ControlFlow enforces the one control-flow rule that needs a
// traversal of its own: a break statement is only legal inside a while
// loop.
func (a *Analyzer) pass4ControlFlow(prog *ast.Node) {
	whileDepth := 0

	ast.Bracketed(prog, 1, func(n *ast.Node, before bool, depth int) {
		switch n.Kind {
		case ast.While:
			if before {
				whileDepth++
			} else {
				whileDepth--
			}
		case ast.Break:
			if before && whileDepth == 0 {
				a.report(n.Line, "break statement outside of a while loop")
			}
		}
	})
}
