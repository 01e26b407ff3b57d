package sema

import (
	"github.com/jmm-lang/jmmc/pkg/ast"
	"github.com/jmm-lang/jmmc/pkg/symtab"
)

// pass1GlobalDecls registers every direct child of Prog into the global
// scope (check 13 on a duplicate name), then verifies exactly one MainDecl
// is present (checks 1 and 2). FuncDecl/MainDecl entries get a fresh, empty
// per-function parameter/locals map here; pass 2 fills it in as it walks
// each function's Params and local VarDecls.
func (a *Analyzer) pass1GlobalDecls(prog *ast.Node) {
	global := a.scopes.Global()
	mainCount := 0

	for _, decl := range prog.Children {
		switch decl.Kind {
		case ast.VarDecl:
			entry := &symtab.Entry{
				Name: decl.Name, Scope: 1, Type: decl.Type,
				NodeKind: symtab.VarDeclEntry,
			}
			decl.Symbol = a.scopes.Arena().Alloc(entry)
			if !global.InsertUnique(decl.Name, entry) {
				a.report(decl.Line, "variable '%s' is already declared", decl.Name)
			}

		case ast.MainDecl:
			mainCount++
			entry := &symtab.Entry{
				Name: decl.Name, Scope: 1, Type: ast.TUnknown,
				NodeKind: symtab.MainDeclEntry, Params: symtab.NewScope(),
			}
			decl.Symbol = a.scopes.Arena().Alloc(entry)
			if !global.InsertUnique(decl.Name, entry) {
				a.report(decl.Line, "function '%s' is already declared", decl.Name)
			}

		case ast.FuncDecl:
			entry := &symtab.Entry{
				Name: decl.Name, Scope: 1, Type: decl.Type,
				NodeKind: symtab.FuncDeclEntry, Params: symtab.NewScope(),
			}
			decl.Symbol = a.scopes.Arena().Alloc(entry)
			if !global.InsertUnique(decl.Name, entry) {
				a.report(decl.Line, "function '%s' is already declared", decl.Name)
			}
		}
	}

	switch {
	case mainCount == 0:
		a.report(prog.Line, "no main function found")
	case mainCount > 1:
		a.report(prog.Line, "more than one main function declared")
	}
}
