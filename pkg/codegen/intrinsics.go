package codegen

import (
	"fmt"
	"io"

	"github.com/jmm-lang/jmmc/pkg/ast"
)

var intrinsics = map[string]bool{
	"halt": true, "getchar": true, "printb": true,
	"printc": true, "printi": true, "prints": true,
}

func (g *Generator) emitCall(w io.Writer, n *ast.Node) (int, error) {
	if intrinsics[n.Name] {
		return g.emitIntrinsic(w, n)
	}
	return g.emitUserCall(w, n)
}

func (g *Generator) emitUserCall(w io.Writer, n *ast.Node) (int, error) {
	result := g.currentRegister
	g.currentRegister++

	for i, arg := range n.Children {
		reg, err := g.emitExpr(w, arg)
		if err != nil {
			return 0, err
		}
		if i < 4 {
			fmt.Fprintf(w, "move $a%d, $t%d\n", i, reg)
		} else {
			fmt.Fprintf(w, "move $t%d, $t%d\n", i-4, reg)
		}
	}

	g.currentRegister--
	fmt.Fprintf(w, "jal %s\n", n.Name)
	fmt.Fprintf(w, "move $t%d, $v0\n", result)
	return result, nil
}

func (g *Generator) emitIntrinsic(w io.Writer, n *ast.Node) (int, error) {
	result := g.currentRegister

	switch n.Name {
	case "halt":
		w.Write([]byte("j end\n"))
		return result, nil

	case "getchar":
		if !g.emittedGetcharPrompt {
			fmt.Fprintf(&g.data, "getcharPrompt: .asciiz \"? \"\n")
			g.emittedGetcharPrompt = true
		}
		w.Write([]byte("li $v0, 4\nla $a0, getcharPrompt\nsyscall\nli $v0, 5\nsyscall\n"))
		fmt.Fprintf(w, "move $t%d, $v0\n", result)
		return result, nil

	case "printi":
		if err := g.loadIntArg(w, n.Children[0], "$a0"); err != nil {
			return 0, err
		}
		w.Write([]byte("li $v0, 1\nsyscall\n"))
		return result, nil

	case "printc":
		if err := g.loadIntArg(w, n.Children[0], "$a0"); err != nil {
			return 0, err
		}
		w.Write([]byte("li $v0, 11\nsyscall\n"))
		return result, nil

	case "prints":
		arg := n.Children[0]
		if arg.Kind != ast.String {
			return 0, fmt.Errorf("codegen: prints expects a string literal argument")
		}
		label := g.newStringLabel()
		fmt.Fprintf(&g.data, "%s: .asciiz %s\n", label, arg.StrValue)
		fmt.Fprintf(w, "li $v0, 4\nla $a0, %s\nsyscall\n", label)
		return result, nil

	case "printb":
		if !g.emittedTrueFalse {
			g.data.WriteString("boolTrue: .asciiz \"true\"\nboolFalse: .asciiz \"false\"\n")
			g.emittedTrueFalse = true
		}

		g.currentRegister++
		reg, err := g.emitExpr(w, n.Children[0])
		g.currentRegister--
		if err != nil {
			return 0, err
		}

		lfalse := g.newLabel()
		lend := g.newLabel()
		fmt.Fprintf(w, "beq $t%d, $0, %s\n", reg, lfalse)
		fmt.Fprintf(w, "li $v0, 4\nla $a0, boolTrue\nsyscall\nb %s\n%s:\n", lend, lfalse)
		fmt.Fprintf(w, "li $v0, 4\nla $a0, boolFalse\nsyscall\n%s:\n", lend)
		return result, nil
	}

	return 0, fmt.Errorf("codegen: unknown intrinsic %q", n.Name)
}

// loadIntArg evaluates arg and moves it into target, using an immediate
// load directly when arg is a literal number rather than routing through a
// temporary register.
func (g *Generator) loadIntArg(w io.Writer, arg *ast.Node, target string) error {
	if arg.Kind == ast.Num {
		fmt.Fprintf(w, "li %s, %d\n", target, arg.NumValue)
		return nil
	}
	if arg.Kind == ast.Id {
		if off, ok := g.getOffset(arg.Name); ok {
			fmt.Fprintf(w, "lw %s, %d($sp)\n", target, off)
		} else {
			fmt.Fprintf(w, "lw %s, %s\n", target, arg.Name)
		}
		return nil
	}

	g.currentRegister++
	reg, err := g.emitExpr(w, arg)
	g.currentRegister--
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "move %s, $t%d\n", target, reg)
	return nil
}
