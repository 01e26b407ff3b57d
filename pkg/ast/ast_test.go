package ast_test

import (
	"testing"

	"github.com/jmm-lang/jmmc/pkg/ast"
)

func buildSample() *ast.Node {
	prog := ast.New(ast.Prog, 1)
	a := ast.New(ast.VarDecl, 1)
	a.Name, a.Type = "a", ast.TInt
	b := ast.New(ast.VarDecl, 2)
	b.Name, b.Type = "b", ast.TBool
	c := ast.New(ast.VarDecl, 3)
	c.Name, c.Type = "c", ast.TString
	// Simulate right-recursive parse order (reverse of source order).
	prog.Append(c, b, a)
	return prog
}

func TestNormalizeRoundTrip(t *testing.T) {
	prog := buildSample()
	before := []string{prog.Children[0].Name, prog.Children[1].Name, prog.Children[2].Name}

	ast.Normalize(prog)
	afterOnce := []string{prog.Children[0].Name, prog.Children[1].Name, prog.Children[2].Name}
	if afterOnce[0] != "a" || afterOnce[1] != "b" || afterOnce[2] != "c" {
		t.Fatalf("expected source order [a b c], got %v", afterOnce)
	}

	ast.Normalize(prog)
	afterTwice := []string{prog.Children[0].Name, prog.Children[1].Name, prog.Children[2].Name}
	for i := range before {
		if before[i] != afterTwice[i] {
			t.Fatalf("round-trip mismatch at %d: started %v, got back %v", i, before, afterTwice)
		}
	}
}

func TestNormalizeOnlyReversesListKinds(t *testing.T) {
	call := ast.New(ast.FuncCall, 4)
	call.Name = "f"
	arg1, arg2 := ast.New(ast.Num, 4), ast.New(ast.Num, 4)
	arg1.NumValue, arg2.NumValue = 1, 2
	call.Append(arg1, arg2)

	ast.Normalize(call)

	if call.Children[0].NumValue != 1 || call.Children[1].NumValue != 2 {
		t.Fatalf("FuncCall arguments must not be reversed by Normalize")
	}
}

func TestTraversalScopeDepth(t *testing.T) {
	prog := ast.New(ast.Prog, 1)
	main := ast.New(ast.MainDecl, 1)
	main.Name = "main"
	block := ast.New(ast.Block, 1)
	v := ast.New(ast.VarDecl, 2)
	v.Name, v.Type = "x", ast.TInt
	block.Append(v)
	main.Append(block)
	prog.Append(main)

	depths := map[ast.Kind]int{}
	ast.PreOrder(prog, 1, func(n *ast.Node, depth int) {
		depths[n.Kind] = depth
	})

	if depths[ast.Prog] != 1 {
		t.Fatalf("Prog should be visited at depth 1, got %d", depths[ast.Prog])
	}
	if depths[ast.MainDecl] != 1 {
		t.Fatalf("MainDecl itself should be visited at depth 1, got %d", depths[ast.MainDecl])
	}
	if depths[ast.VarDecl] != 2 {
		t.Fatalf("VarDecl inside main's block should be visited at depth 2, got %d", depths[ast.VarDecl])
	}
}

func TestBracketedVisitsTwice(t *testing.T) {
	main := ast.New(ast.MainDecl, 1)
	main.Name = "main"
	block := ast.New(ast.Block, 1)
	main.Append(block)

	var events []bool
	ast.Bracketed(main, 1, func(n *ast.Node, before bool, depth int) {
		if n.Kind == ast.MainDecl {
			events = append(events, before)
		}
	})

	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Fatalf("expected [true false] bracketing events, got %v", events)
	}
}

func TestDumpIsDeterministic(t *testing.T) {
	prog := buildSample()
	ast.Normalize(prog)

	first := ast.Dump(prog)
	second := ast.Dump(prog)
	if first != second {
		t.Fatalf("Dump should be deterministic across calls")
	}
	if first == "" {
		t.Fatalf("Dump should not be empty")
	}
}

func TestLinkSiblings(t *testing.T) {
	prog := buildSample()
	ast.Normalize(prog)
	ast.LinkSiblings(prog)

	if prog.Children[0].Sibling != prog.Children[1] {
		t.Fatalf("expected first child's sibling to be the second child")
	}
	if prog.Children[len(prog.Children)-1].Sibling != nil {
		t.Fatalf("expected last child's sibling to be nil")
	}
}
