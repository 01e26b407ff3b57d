// Package symtab implements the J-- symbol table: a fixed-shape entry
// record, a stable-index arena to hold them, and the scope stack the
// semantic analyzer pushes/pops as it enters and leaves function bodies.
package symtab

import "github.com/jmm-lang/jmmc/pkg/ast"

// NodeKind records which declaration construct produced an Entry.
type NodeKind string

const (
	VarDeclEntry  NodeKind = "vardecl"
	FuncDeclEntry NodeKind = "funcdecl"
	MainDeclEntry NodeKind = "maindecl"
	ParamEntry    NodeKind = "param"
)

// Entry is a symbol-table record describing one declared name.
type Entry struct {
	Name       string
	Scope      int      // scope-stack depth this entry was inserted at (>= 0)
	Type       ast.Type // int | boolean | void | string | "" (MainDecl)
	NodeKind   NodeKind
	ParamIndex int // 1-based for Param entries, 0 otherwise

	// Params is the per-function name->entry map, populated only for
	// FuncDeclEntry/MainDeclEntry entries: it holds that function's own
	// parameters and outermost-block locals (registered by pass 2); Pass 3
	// consults its Param entries to check call-site arity/types.
	Params *Scope

	id int // arena index, set by Arena.Alloc; the stable back-pointer an ast.Node.Symbol holds
}

// ID returns the entry's stable arena index, as returned by the Arena.Alloc
// call that allocated it. Only meaningful once the entry has been passed to
// Alloc.
func (e *Entry) ID() int { return e.id }

// Scope is a per-scope name->entry map.
type Scope struct {
	entries map[string]*Entry
}

func newScope() *Scope { return &Scope{entries: map[string]*Entry{}} }

// NewScope allocates an empty scope, e.g. the per-function name->entry map
// a semantic pass pushes when entering a MainDecl/FuncDecl body.
func NewScope() *Scope { return newScope() }

// InsertUnique inserts entry under name, failing (returning false) if the
// name is already present in this scope.
func (s *Scope) InsertUnique(name string, entry *Entry) bool {
	if _, exists := s.entries[name]; exists {
		return false
	}
	s.entries[name] = entry
	return true
}

// Lookup returns the entry for name in this single scope, if any.
func (s *Scope) Lookup(name string) (*Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Len reports how many names are registered in this scope.
func (s *Scope) Len() int { return len(s.entries) }

// ByIndex returns the Param entry whose ParamIndex matches index (1-based),
// used by pass 3 to line up call-site arguments with declared parameters.
func (s *Scope) ByIndex(index int) (*Entry, bool) {
	for _, e := range s.entries {
		if e.NodeKind == ParamEntry && e.ParamIndex == index {
			return e, true
		}
	}
	return nil, false
}

// Arena is an append-only, stable-index store of Entry pointers. Because
// elements are pointers, growing the backing slice never invalidates a
// previously returned *Entry — the aliasing hazard the original design
// (a vector of raw addresses, appended to after addresses were taken) is
// sidestepped by construction rather than by discipline.
type Arena struct {
	entries []*Entry
}

// Alloc stores entry in the arena, stamps it with its stable id, and
// returns that id.
func (a *Arena) Alloc(entry *Entry) int {
	id := len(a.entries)
	entry.id = id
	a.entries = append(a.entries, entry)
	return id
}

// Get returns the entry previously stored at id.
func (a *Arena) Get(id int) *Entry { return a.entries[id] }

// Len reports how many entries have been allocated.
func (a *Arena) Len() int { return len(a.entries) }
