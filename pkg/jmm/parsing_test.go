package jmm_test

import (
	"strings"
	"testing"

	"github.com/jmm-lang/jmmc/pkg/ast"
	"github.com/jmm-lang/jmmc/pkg/jmm"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog, err := jmm.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseMainDecl(t *testing.T) {
	prog := parse(t, `void main() { int x; x = 1; }`)

	if prog.Kind != ast.Prog {
		t.Fatalf("expected root Kind Prog, got %s", prog.Kind)
	}
	if len(prog.Children) != 1 {
		t.Fatalf("expected exactly one top-level declaration, got %d", len(prog.Children))
	}

	main := prog.Children[0]
	if main.Kind != ast.MainDecl {
		t.Fatalf("expected MainDecl, got %s", main.Kind)
	}
	if len(main.Children) != 1 || main.Children[0].Kind != ast.Block {
		t.Fatalf("expected MainDecl to have exactly one Block child")
	}

	block := main.Children[0]
	if len(block.Children) != 2 {
		t.Fatalf("expected 2 statements in block, got %d", len(block.Children))
	}
	if block.Children[0].Kind != ast.VarDecl || block.Children[0].Name != "x" {
		t.Fatalf("expected first statement to be VarDecl 'x', got %+v", block.Children[0])
	}
	if block.Children[1].Kind != ast.Assn || block.Children[1].Name != "x" {
		t.Fatalf("expected second statement to be Assn 'x', got %+v", block.Children[1])
	}
}

func TestParseFuncDeclWithParams(t *testing.T) {
	prog := parse(t, `
		int add(int a, int b) {
			return a + b;
		}
		void main() { }
	`)

	if len(prog.Children) != 2 {
		t.Fatalf("expected 2 top-level declarations, got %d", len(prog.Children))
	}

	add := prog.Children[0]
	if add.Kind != ast.FuncDecl || add.Name != "add" || add.Type != ast.TInt {
		t.Fatalf("expected FuncDecl 'add' returning int, got %+v", add)
	}

	// Children: Param(a), Param(b), Block
	if len(add.Children) != 3 {
		t.Fatalf("expected 2 params + 1 block, got %d children", len(add.Children))
	}
	for i, name := range []string{"a", "b"} {
		p := add.Children[i]
		if p.Kind != ast.Param || p.Name != name || p.ParamIndex != i+1 {
			t.Fatalf("param %d: expected Param %q at index %d, got %+v", i, name, i+1, p)
		}
	}

	block := add.Children[2]
	if block.Kind != ast.Block || len(block.Children) != 1 {
		t.Fatalf("expected single-statement block, got %+v", block)
	}

	ret := block.Children[0]
	if ret.Kind != ast.Return || len(ret.Children) != 1 {
		t.Fatalf("expected Return with one expression, got %+v", ret)
	}
	if ret.Children[0].Kind != ast.Arithmetic || ret.Children[0].Op != "+" {
		t.Fatalf("expected Arithmetic '+' expression, got %+v", ret.Children[0])
	}
}

func TestParseIfElseAndWhile(t *testing.T) {
	prog := parse(t, `
		void main() {
			int i;
			i = 0;
			while (i < 10) {
				if (i == 5) {
					break;
				} else {
					i = i + 1;
				}
			}
		}
	`)

	block := prog.Children[0].Children[0]
	if len(block.Children) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(block.Children))
	}

	loop := block.Children[2]
	if loop.Kind != ast.While {
		t.Fatalf("expected While, got %s", loop.Kind)
	}
	cond := loop.Children[0]
	if cond.Kind != ast.Compare || cond.Op != "<" {
		t.Fatalf("expected Compare '<' condition, got %+v", cond)
	}

	body := loop.Children[1]
	ifNode := body.Children[0]
	if ifNode.Kind != ast.If {
		t.Fatalf("expected If, got %s", ifNode.Kind)
	}
	if len(ifNode.Children) != 3 {
		t.Fatalf("expected If to carry condition, then-block and Else, got %d children", len(ifNode.Children))
	}
	if ifNode.Children[2].Kind != ast.Else {
		t.Fatalf("expected third child to be Else, got %s", ifNode.Children[2].Kind)
	}

	thenBlock := ifNode.Children[1]
	if len(thenBlock.Children) != 1 || thenBlock.Children[0].Kind != ast.Break {
		t.Fatalf("expected then-block to contain a single Break, got %+v", thenBlock)
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog := parse(t, `
		void main() {
			int x;
			x = 1 + 2 * 3;
		}
	`)

	rhs := prog.Children[0].Children[0].Children[1].Children[1]
	if rhs.Kind != ast.Arithmetic || rhs.Op != "+" {
		t.Fatalf("expected top-level '+' node, got %+v", rhs)
	}
	if rhs.Children[0].Kind != ast.Num || rhs.Children[0].NumValue != 1 {
		t.Fatalf("expected left operand Num(1), got %+v", rhs.Children[0])
	}

	mul := rhs.Children[1]
	if mul.Kind != ast.Arithmetic || mul.Op != "*" {
		t.Fatalf("expected right operand to be '*' node (higher precedence), got %+v", mul)
	}
	if mul.Children[0].NumValue != 2 || mul.Children[1].NumValue != 3 {
		t.Fatalf("expected 2 * 3, got %+v", mul)
	}
}

func TestParseFuncCallWithArgs(t *testing.T) {
	prog := parse(t, `
		void main() {
			printi(getchar());
		}
	`)

	block := prog.Children[0].Children[0]
	call := block.Children[0]
	if call.Kind != ast.FuncCall || call.Name != "printi" {
		t.Fatalf("expected FuncCall 'printi', got %+v", call)
	}
	if len(call.Children) != 1 {
		t.Fatalf("expected one argument, got %d", len(call.Children))
	}

	nested := call.Children[0]
	if nested.Kind != ast.FuncCall || nested.Name != "getchar" {
		t.Fatalf("expected nested FuncCall 'getchar', got %+v", nested)
	}
}

func TestParseBooleanAndStringLiterals(t *testing.T) {
	prog := parse(t, `
		void main() {
			boolean done;
			done = true;
			prints("hello");
		}
	`)

	block := prog.Children[0].Children[0]
	assn := block.Children[1]
	if assn.Children[1].Kind != ast.Literal || assn.Children[1].BoolValue != true {
		t.Fatalf("expected Literal(true), got %+v", assn.Children[1])
	}

	call := block.Children[2]
	if call.Kind != ast.FuncCall || call.Name != "prints" {
		t.Fatalf("expected FuncCall 'prints', got %+v", call)
	}
	str := call.Children[0]
	if str.Kind != ast.String || str.StrValue != `"hello"` {
		t.Fatalf("expected String literal with quotes preserved, got %+v", str)
	}
}

func TestParseUnaryOperators(t *testing.T) {
	prog := parse(t, `
		void main() {
			int x;
			boolean b;
			x = -5;
			b = !true;
		}
	`)

	block := prog.Children[0].Children[0]
	neg := block.Children[2].Children[1]
	if neg.Kind != ast.Arithmetic || neg.Op != "-" || len(neg.Children) != 1 {
		t.Fatalf("expected unary '-' Arithmetic node, got %+v", neg)
	}

	not := block.Children[3].Children[1]
	if not.Kind != ast.Logical || not.Op != "!" || len(not.Children) != 1 {
		t.Fatalf("expected unary '!' Logical node, got %+v", not)
	}
}

func TestParseFailsOnMalformedSource(t *testing.T) {
	_, err := jmm.NewParser(strings.NewReader(`void main( { }`)).Parse()
	if err == nil {
		t.Fatalf("expected a parse error for malformed source")
	}
}

func TestParseLineNumbersAdvanceMonotonically(t *testing.T) {
	prog := parse(t, "void main() {\n\tint x;\n\tx = 1;\n}")

	block := prog.Children[0].Children[0]
	decl := block.Children[0]
	assn := block.Children[1]

	if decl.Line > assn.Line {
		t.Fatalf("expected line numbers to increase with source position: decl=%d assn=%d", decl.Line, assn.Line)
	}
}
