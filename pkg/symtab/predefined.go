package symtab

import (
	_ "embed"
	"encoding/json"

	"github.com/jmm-lang/jmmc/pkg/ast"
)

//go:embed predefined.json
var predefinedJSON string

// predefinedParam mirrors one row of the §4.2 intrinsics table.
type predefinedParam struct {
	Index int      `json:"index"`
	Name  string   `json:"name"`
	Type  ast.Type `json:"type"`
}

type predefinedFunc struct {
	Return ast.Type          `json:"return"`
	Params []predefinedParam `json:"params"`
}

var predefinedABI map[string]predefinedFunc

func init() {
	if err := json.Unmarshal([]byte(predefinedJSON), &predefinedABI); err != nil {
		panic("symtab: malformed predefined.json: " + err.Error())
	}
}

// predefinedScope builds scope index 0: the six runtime intrinsics that are
// always in scope and can never be redeclared. Every entry is routed through
// arena so its id is a valid arena back-pointer like any other entry's.
func predefinedScope(arena *Arena) *Scope {
	scope := newScope()

	for name, fn := range predefinedABI {
		params := newScope()
		for _, p := range fn.Params {
			entry := &Entry{
				Name: p.Name, Scope: 0, Type: p.Type,
				NodeKind: ParamEntry, ParamIndex: p.Index,
			}
			arena.Alloc(entry)
			params.entries[p.Name] = entry
		}

		entry := &Entry{
			Name: name, Scope: 0, Type: fn.Return,
			NodeKind: FuncDeclEntry, Params: params,
		}
		arena.Alloc(entry)
		scope.entries[name] = entry
	}

	return scope
}
