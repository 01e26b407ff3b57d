package symtab

import "github.com/jmm-lang/jmmc/pkg/ast"

// ScopeTable is the ordered stack of active scopes. Index 0 is always the
// predefined scope (runtime intrinsics, §4.2); index 1 is the global scope;
// indices >= 2 correspond to the body of whichever function is currently
// being analyzed. J-- has no nested function declarations and no
// block-scoped locals, so the stack never grows past three entries at a
// time (predefined, global, one function body).
type ScopeTable struct {
	arena  *Arena
	scopes []*Scope
}

// NewScopeTable returns a ScopeTable with the predefined scope already
// populated (see predefined.go) and an empty global scope pushed on top.
func NewScopeTable() *ScopeTable {
	st := &ScopeTable{arena: &Arena{}}
	st.scopes = append(st.scopes, predefinedScope(st.arena))
	st.scopes = append(st.scopes, newScope())
	return st
}

// Arena exposes the backing entry arena, so the analyzer can allocate
// entries and resolve the ids it stores on AST nodes.
func (st *ScopeTable) Arena() *Arena { return st.arena }

// Global returns the global scope (index 1), used directly by pass 1 to
// register top-level declarations before any function body is entered.
func (st *ScopeTable) Global() *Scope { return st.scopes[1] }

// Depth reports the current scope-stack height (including predefined and
// global): 2 at global level, 3 inside a function body. The innermost
// scope's index, the value an Entry's Scope records, is Depth()-1.
func (st *ScopeTable) Depth() int { return len(st.scopes) }

// Push adds a new, innermost scope (entering a function body).
func (st *ScopeTable) Push(scope *Scope) { st.scopes = append(st.scopes, scope) }

// Pop removes the innermost scope (leaving a function body).
func (st *ScopeTable) Pop() {
	st.scopes = st.scopes[:len(st.scopes)-1]
}

// InsertUnique inserts into the innermost (top) scope.
func (st *ScopeTable) InsertUnique(name string, entry *Entry) bool {
	return st.scopes[len(st.scopes)-1].InsertUnique(name, entry)
}

// Resolve searches scopes from innermost to outermost and returns the
// first match.
func (st *ScopeTable) Resolve(name string) (*Entry, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if e, ok := st.scopes[i].Lookup(name); ok {
			return e, true
		}
	}
	return nil, false
}

// ResolveType is a convenience wrapper returning just the resolved type, or
// the empty type if name is undeclared.
func (st *ScopeTable) ResolveType(name string) ast.Type {
	if e, ok := st.Resolve(name); ok {
		return e.Type
	}
	return ast.TUnknown
}
