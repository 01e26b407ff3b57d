// Package ast defines the universal, tagged-variant AST node used by every
// later stage of the J-- compiler (semantic analysis, code generation).
//
// Unlike a deep class hierarchy (one Go type per node kind) every node here
// is the same struct; a closed Kind enumeration discriminates what fields
// are meaningful. This collapses the traditional Stmt/Decl/Exp split into a
// single shape that is trivial to walk, dump and unit test, at the cost of
// a few unused fields per node (e.g. a Num node carries an unused Op field).
package ast

// Kind discriminates the role of a Node. The enumeration is closed: the
// parser never produces, and no later pass ever expects, a Kind outside
// this set.
type Kind string

const (
	Prog       Kind = "Prog"
	MainDecl   Kind = "MainDecl"
	FuncDecl   Kind = "FuncDecl"
	VarDecl    Kind = "VarDecl"
	Param      Kind = "Param"
	Block      Kind = "Block"
	If         Kind = "If"
	Else       Kind = "Else"
	While      Kind = "While"
	Assn       Kind = "Assn"
	Null       Kind = "Null"
	Return     Kind = "Return"
	Break      Kind = "Break"
	Num        Kind = "Num"
	Literal    Kind = "Literal"
	String     Kind = "String"
	Id         Kind = "Id"
	Compare    Kind = "Compare"
	Arithmetic Kind = "Arithmetic"
	Logical    Kind = "Logical"
	FuncCall   Kind = "FuncCall"
)

// Type is the declared data type attribute carried by a subset of node
// kinds (VarDecl, Param, FuncDecl's return type). Expression types are
// synthesized by the semantic analyzer but not stored on the nodes.
type Type string

const (
	TInt     Type = "int"
	TBool    Type = "boolean"
	TVoid    Type = "void"
	TString  Type = "string"
	TUnknown Type = "" // empty: MainDecl's "return type", or an unresolved expression
)

// Node is the single, uniform AST record. Only the fields relevant to its
// Kind are meaningful; see the field comments for which kind populates what.
type Node struct {
	Kind Kind // closed tag, set once at construction
	Line int  // 1-based source line, set by the parser

	Name string // Id, FuncCall, VarDecl, FuncDecl, MainDecl, Param
	Type Type   // VarDecl, Param, FuncDecl (declared return type)

	Op string // Compare/Arithmetic/Logical operator tag: + - * / % < > <= >= == != ! && ||

	NumValue  int    // Num
	BoolValue bool   // Literal
	StrValue  string // String, raw text including surrounding quotes

	ParamIndex int // Param only, 1-based position within its declaration list

	Children []*Node // ordered child list, source order after Normalize
	Sibling  *Node    // optional: next child of the same parent, see LinkSiblings

	// Symbol is the opaque back-pointer to a symtab.Entry, attached during
	// semantic analysis. Declared as `any` (rather than *symtab.Entry or int)
	// to avoid an import cycle between ast and symtab; it holds the entry's
	// stable arena index, which callers resolve with symtab.Arena.Get.
	Symbol any
}

// New allocates a Node of the given kind/line with no children.
func New(kind Kind, line int) *Node {
	return &Node{Kind: kind, Line: line}
}

// Append adds one or more children, in the order given, to n.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// LinkSiblings populates the Sibling field of every child of n (and,
// recursively, of every descendant) so the tree can also be walked as a
// singly-linked list of each node's children without consulting Children.
func LinkSiblings(n *Node) {
	if n == nil {
		return
	}
	for i, child := range n.Children {
		if i+1 < len(n.Children) {
			child.Sibling = n.Children[i+1]
		}
		LinkSiblings(child)
	}
}
