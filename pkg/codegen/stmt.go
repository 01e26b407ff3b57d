package codegen

import (
	"fmt"
	"io"

	"github.com/jmm-lang/jmmc/pkg/ast"
)

func (g *Generator) emitStmts(w io.Writer, stmts []*ast.Node) error {
	for _, stmt := range stmts {
		if err := g.emitStmt(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) emitStmt(w io.Writer, n *ast.Node) error {
	switch n.Kind {
	case ast.VarDecl:
		return nil // slot already reserved by collectLocals

	case ast.Null:
		return nil

	case ast.Assn:
		return g.emitAssn(w, n)

	case ast.FuncCall:
		_, err := g.emitExpr(w, n)
		return err

	case ast.If:
		return g.emitIf(w, n)

	case ast.While:
		return g.emitWhile(w, n)

	case ast.Break:
		label, err := g.loopExit.Top()
		if err != nil {
			return fmt.Errorf("break outside of a loop during codegen: %w", err)
		}
		fmt.Fprintf(w, "b %s\n", label)
		return nil

	case ast.Return:
		return g.emitReturn(w, n)
	}

	return fmt.Errorf("codegen: unhandled statement kind %s", n.Kind)
}

func (g *Generator) emitAssn(w io.Writer, n *ast.Node) error {
	reg, err := g.emitExpr(w, n.Children[1])
	if err != nil {
		return err
	}
	g.emitStore(w, reg, n.Name)
	return nil
}

func (g *Generator) emitReturn(w io.Writer, n *ast.Node) error {
	if len(n.Children) == 0 {
		if g.inMain {
			w.Write([]byte("j end\n"))
		} else {
			w.Write([]byte("jr $ra\n"))
		}
		return nil
	}

	reg, err := g.emitExpr(w, n.Children[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "move $v0, $t%d\n", reg)
	w.Write([]byte("jr $ra\n"))
	return nil
}

func (g *Generator) emitIf(w io.Writer, n *ast.Node) error {
	lend := g.newLabel()

	if err := g.writeTest(w, n.Children[0], lend); err != nil {
		return err
	}
	if err := g.emitStmts(w, n.Children[1].Children); err != nil {
		return err
	}

	if len(n.Children) > 2 {
		lafter := g.newLabel()
		fmt.Fprintf(w, "b %s\n%s:\n", lafter, lend)
		if err := g.emitStmts(w, n.Children[2].Children[0].Children); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s:\n", lafter)
		return nil
	}

	fmt.Fprintf(w, "%s:\n", lend)
	return nil
}

func (g *Generator) emitWhile(w io.Writer, n *ast.Node) error {
	ltop := g.newLabel()
	lexit := g.newLabel()

	g.loopExit.Push(lexit)
	defer g.loopExit.Pop()

	fmt.Fprintf(w, "%s:\n", ltop)
	if err := g.writeTest(w, n.Children[0], lexit); err != nil {
		return err
	}
	if err := g.emitStmts(w, n.Children[1].Children); err != nil {
		return err
	}
	fmt.Fprintf(w, "b %s\n%s:\n", ltop, lexit)
	return nil
}

// writeTest emits code evaluating the boolean expression cond and a branch
// to label that fires when cond is false.
func (g *Generator) writeTest(w io.Writer, cond *ast.Node, label string) error {
	if cond.Kind == ast.Literal {
		if !cond.BoolValue {
			fmt.Fprintf(w, "b %s\n", label)
		}
		return nil
	}

	reg, err := g.emitExpr(w, cond)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "beq $0, $t%d, %s\n", reg, label)
	return nil
}
