package codegen

import (
	"fmt"
	"io"

	"github.com/jmm-lang/jmmc/pkg/ast"
)

// emitExpr emits code evaluating n and returns the $t<reg> register holding
// its result. Binary subexpressions reserve currentRegister+1/+2 for their
// operands and leave the result in currentRegister, matching the register
// discipline in SPEC_FULL.md.
func (g *Generator) emitExpr(w io.Writer, n *ast.Node) (int, error) {
	switch n.Kind {
	case ast.Num:
		reg := g.currentRegister
		fmt.Fprintf(w, "li $t%d, %d\n", reg, n.NumValue)
		return reg, nil

	case ast.Literal:
		reg := g.currentRegister
		value := 0
		if n.BoolValue {
			value = 1
		}
		fmt.Fprintf(w, "li $t%d, %d\n", reg, value)
		return reg, nil

	case ast.Id:
		reg := g.currentRegister
		g.emitLoad(w, reg, n.Name)
		return reg, nil

	case ast.FuncCall:
		return g.emitCall(w, n)

	case ast.Arithmetic, ast.Compare, ast.Logical:
		return g.emitOperator(w, n)
	}

	return 0, fmt.Errorf("codegen: unhandled expression kind %s", n.Kind)
}

func (g *Generator) emitOperator(w io.Writer, n *ast.Node) (int, error) {
	result := g.currentRegister

	if len(n.Children) == 1 {
		g.currentRegister++
		operand, err := g.emitExpr(w, n.Children[0])
		g.currentRegister--
		if err != nil {
			return 0, err
		}

		switch n.Op {
		case "-":
			fmt.Fprintf(w, "neg $t%d, $t%d\n", result, operand)
		case "!":
			fmt.Fprintf(w, "not $t%d, $t%d\n", result, operand)
		default:
			return 0, fmt.Errorf("codegen: unhandled unary operator %q", n.Op)
		}
		return result, nil
	}

	g.currentRegister++
	left, err := g.emitExpr(w, n.Children[0])
	if err != nil {
		return 0, err
	}
	g.currentRegister++
	right, err := g.emitExpr(w, n.Children[1])
	g.currentRegister -= 2
	if err != nil {
		return 0, err
	}

	mnemonic, err := binaryMnemonic(n.Op)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "%s $t%d, $t%d, $t%d\n", mnemonic, result, left, right)
	return result, nil
}

func binaryMnemonic(op string) (string, error) {
	switch op {
	case "+":
		return "add", nil
	case "-":
		return "sub", nil
	case "*":
		return "mul", nil
	case "/":
		return "div", nil
	case "%":
		return "rem", nil
	case "==":
		return "seq", nil
	case "!=":
		return "sne", nil
	case "<":
		return "slt", nil
	case ">":
		return "sgt", nil
	case "<=":
		return "sle", nil
	case ">=":
		return "sge", nil
	case "&&":
		return "and", nil
	case "||":
		return "or", nil
	}
	return "", fmt.Errorf("codegen: unknown binary operator %q", op)
}
