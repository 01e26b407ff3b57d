// Package sema implements the J-- semantic analyzer: four passes over a
// normalized ast.Node tree, sharing a single symtab.ScopeTable, that
// together enforce every semantic rule in SPEC_FULL.md. Passes never abort
// on the first error; each runs to completion so a single Analyze call can
// surface every problem in a source file at once.
package sema

import (
	"fmt"

	"github.com/jmm-lang/jmmc/pkg/ast"
	"github.com/jmm-lang/jmmc/pkg/symtab"
)

// Diagnostic is one accumulated semantic error, always rendered with its
// source line per the "near line N" convention required at the boundary.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) Error() string { return fmt.Sprintf("near line %d, %s", d.Line, d.Message) }

// Analyzer carries the mutable state of a single compilation unit's
// semantic analysis: the shared scope stack and the accumulated
// diagnostics. Replaces the process-wide globals (symTables, scopeStack,
// errors, ...) the source kept at module scope.
type Analyzer struct {
	scopes *symtab.ScopeTable
	diags  []Diagnostic
}

// NewAnalyzer returns an Analyzer with a fresh scope stack (predefined +
// empty global, see symtab.NewScopeTable).
func NewAnalyzer() *Analyzer {
	return &Analyzer{scopes: symtab.NewScopeTable()}
}

// Analyze runs all four passes over prog and returns every diagnostic
// found. An empty slice means the program is semantically well-formed and
// safe to hand to the code generator.
func (a *Analyzer) Analyze(prog *ast.Node) []Diagnostic {
	a.pass1GlobalDecls(prog)
	a.pass2ScopesAndReferences(prog)
	a.pass3SignaturesAndReturns(prog)
	a.pass4ControlFlow(prog)
	return a.diags
}

func (a *Analyzer) report(line int, format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

// entryOf resolves n's symbol back-pointer — an arena id stashed on n.Symbol
// by whichever pass first registered the declaration — to the underlying
// Entry.
func (a *Analyzer) entryOf(n *ast.Node) (*symtab.Entry, bool) {
	id, ok := n.Symbol.(int)
	if !ok {
		return nil, false
	}
	return a.scopes.Arena().Get(id), true
}
