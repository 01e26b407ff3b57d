// Package codegen implements the J-- MIPS (SPIM-style) code generator: a
// single traversal over a semantically-checked ast.Node tree that emits
// three concatenated text sections (data, main, func) to build output.asm.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmm-lang/jmmc/pkg/ast"
	"github.com/jmm-lang/jmmc/pkg/utils"
)

// Generator carries the mutable state of a single output.asm emission:
// the three accumulating sections, the current function's stack-slot
// layout, the live register/label counters, and the stack of while-loop
// exit labels (replacing the source's single whileLabelNum scalar so
// nested loops break to the correct innermost target, see §9).
type Generator struct {
	data strings.Builder
	main strings.Builder
	fns  strings.Builder

	variableStack []string // names, in stack-slot order, for the function being emitted
	currentRegister int
	labelNum        int
	loopExit        utils.Stack[string]
	inMain          bool // true while emitting MainDecl's body, selects Return's lowering

	stringLabels int // counts .asciiz labels allocated, for unique naming
	emittedTrueFalse bool
	emittedGetcharPrompt bool
}

// NewGenerator returns an empty Generator ready to emit a single program.
func NewGenerator() *Generator { return &Generator{} }

// Generate walks prog (expected to already have passed semantic analysis)
// and returns the full contents of output.asm.
func (g *Generator) Generate(prog *ast.Node) (string, error) {
	g.data.WriteString("\t.globl main\n\t.data\n")

	for _, decl := range prog.Children {
		switch decl.Kind {
		case ast.VarDecl:
			fmt.Fprintf(&g.data, "%s: .word 0\n", decl.Name)
		case ast.MainDecl:
			if err := g.genMainDecl(decl); err != nil {
				return "", err
			}
		case ast.FuncDecl:
			if err := g.genFuncDecl(decl); err != nil {
				return "", err
			}
		}
	}

	return g.data.String() + g.main.String() + g.fns.String(), nil
}

func (g *Generator) genMainDecl(n *ast.Node) error {
	g.variableStack = nil
	g.currentRegister = 0
	g.inMain = true

	body := n.Children[len(n.Children)-1]
	collectLocals(body, &g.variableStack)

	g.main.WriteString("main:\n")
	fmt.Fprintf(&g.main, "sub $sp, $sp, %d\n", len(g.variableStack)*4)

	if err := g.emitStmts(&g.main, body.Children); err != nil {
		return err
	}

	g.main.WriteString("end:\nli $v0, 10\nsyscall\n")
	return nil
}

func (g *Generator) genFuncDecl(n *ast.Node) error {
	g.variableStack = nil
	g.currentRegister = 0
	g.inMain = false

	params := n.Children[:len(n.Children)-1]
	body := n.Children[len(n.Children)-1]

	for _, p := range params {
		g.variableStack = append(g.variableStack, p.Name)
	}
	collectLocals(body, &g.variableStack)

	fmt.Fprintf(&g.fns, "%s:\n", n.Name)
	fmt.Fprintf(&g.fns, "sub $sp, $sp, %d\n", len(g.variableStack)*4)

	for i, p := range params {
		if i < 4 {
			off, _ := g.getOffset(p.Name) // always true: p.Name was just pushed above
			fmt.Fprintf(&g.fns, "sw $a%d, %d($sp)\n", i, off)
		}
	}

	if err := g.emitStmts(&g.fns, body.Children); err != nil {
		return err
	}

	g.fns.WriteString("jr $ra\n")
	return nil
}

// collectLocals appends the name of every VarDecl directly inside body (the
// function's outermost block) to stack, in declaration order. Locals nested
// in a deeper block are a semantic error (check 3) and never reach codegen.
func collectLocals(body *ast.Node, stack *[]string) {
	for _, stmt := range body.Children {
		if stmt.Kind == ast.VarDecl {
			*stack = append(*stack, stmt.Name)
		}
	}
}

// getOffset returns the $sp-relative byte offset for name within the
// current function's frame: ((N-1-index)*4), N the frame's slot count. The
// second return value is false when name is not a param/local of the
// function currently being emitted, in which case name is a global and
// must be addressed directly by its data-section label instead (see
// emitLoad/emitStore).
func (g *Generator) getOffset(name string) (int, bool) {
	n := len(g.variableStack)
	for i, slot := range g.variableStack {
		if slot == name {
			return (n - 1 - i) * 4, true
		}
	}
	return 0, false
}

// emitLoad reads name (a local, a param, or a global) into $t<reg>.
func (g *Generator) emitLoad(w io.Writer, reg int, name string) {
	if off, ok := g.getOffset(name); ok {
		fmt.Fprintf(w, "lw $t%d, %d($sp)\n", reg, off)
		return
	}
	fmt.Fprintf(w, "lw $t%d, %s\n", reg, name)
}

// emitStore writes $t<reg> into name (a local, a param, or a global).
func (g *Generator) emitStore(w io.Writer, reg int, name string) {
	if off, ok := g.getOffset(name); ok {
		fmt.Fprintf(w, "sw $t%d, %d($sp)\n", reg, off)
		return
	}
	fmt.Fprintf(w, "sw $t%d, %s\n", reg, name)
}

func (g *Generator) newLabel() string {
	g.labelNum++
	return fmt.Sprintf("label%d", g.labelNum)
}

func (g *Generator) newStringLabel() string {
	g.stringLabels++
	return fmt.Sprintf("str%d", g.stringLabels)
}
