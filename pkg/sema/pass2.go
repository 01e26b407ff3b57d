package sema

import (
	"github.com/jmm-lang/jmmc/pkg/ast"
	"github.com/jmm-lang/jmmc/pkg/symtab"
)

// pass2ScopesAndReferences pushes each function's parameter/locals map
// (allocated empty in pass 1) while walking its body, populating it with
// Param and outermost-block VarDecl entries, and resolves every Id and
// FuncCall reference against the scope stack built so far.
func (a *Analyzer) pass2ScopesAndReferences(prog *ast.Node) {
	blockDepth := 0

	ast.Bracketed(prog, 1, func(n *ast.Node, before bool, depth int) {
		switch n.Kind {
		case ast.MainDecl, ast.FuncDecl:
			if before {
				entry, _ := a.entryOf(n)
				a.scopes.Push(entry.Params)
				blockDepth = 0
			} else {
				a.scopes.Pop()
			}
			return

		case ast.Block:
			if before {
				blockDepth++
			} else {
				blockDepth--
			}
			return
		}

		if !before {
			return
		}

		switch n.Kind {
		case ast.VarDecl:
			if depth <= 1 {
				return // global VarDecl, already registered by pass 1
			}
			if blockDepth > 1 {
				a.report(n.Line, "local variable '%s' declared outside the function's outermost block", n.Name)
			}
			entry := &symtab.Entry{Name: n.Name, Scope: depth, Type: n.Type, NodeKind: symtab.VarDeclEntry}
			n.Symbol = a.scopes.Arena().Alloc(entry)
			if !a.scopes.InsertUnique(n.Name, entry) {
				a.report(n.Line, "local variable '%s' is already declared", n.Name)
			}

		case ast.Param:
			entry := &symtab.Entry{
				Name: n.Name, Scope: depth, Type: n.Type,
				NodeKind: symtab.ParamEntry, ParamIndex: n.ParamIndex,
			}
			n.Symbol = a.scopes.Arena().Alloc(entry)
			if !a.scopes.InsertUnique(n.Name, entry) {
				a.report(n.Line, "parameter '%s' is already declared", n.Name)
			}

		case ast.Id:
			if entry, ok := a.scopes.Resolve(n.Name); ok {
				n.Symbol = entry.ID()
			} else {
				a.report(n.Line, "identifier '%s' is not declared", n.Name)
			}

		case ast.FuncCall:
			if entry, ok := a.scopes.Resolve(n.Name); ok {
				n.Symbol = entry.ID()
			} else {
				a.report(n.Line, "call to undeclared function '%s'", n.Name)
			}
		}
	})
}
