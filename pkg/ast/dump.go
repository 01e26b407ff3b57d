package ast

import (
	"fmt"
	"io"
	"strings"
)

// ----------------------------------------------------------------------------
// Debug dump

// Dump renders a textual, one-line-per-node representation of the tree
// rooted at n, indented two spaces per nesting level. §6 of the spec
// requires this be printed to standard output before code generation on
// every successful parse+analysis, so the output must be reproducible: no
// map iteration, no timestamps, strictly Children order.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

// DumpTo writes the same representation as Dump directly to w.
func DumpTo(w io.Writer, n *Node) {
	io.WriteString(w, Dump(n))
}

func dump(b *strings.Builder, n *Node, indent int) {
	if n == nil {
		return
	}

	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(describe(n))
	b.WriteByte('\n')

	for _, child := range n.Children {
		dump(b, child, indent+1)
	}
}

func describe(n *Node) string {
	switch n.Kind {
	case Num:
		return fmt.Sprintf("Num(%d) line=%d", n.NumValue, n.Line)
	case Literal:
		return fmt.Sprintf("Literal(%t) line=%d", n.BoolValue, n.Line)
	case String:
		return fmt.Sprintf("String(%s) line=%d", n.StrValue, n.Line)
	case Id:
		return fmt.Sprintf("Id(%s) line=%d", n.Name, n.Line)
	case Compare, Arithmetic, Logical:
		return fmt.Sprintf("%s(%s) line=%d", n.Kind, n.Op, n.Line)
	case FuncCall:
		return fmt.Sprintf("FuncCall(%s) line=%d", n.Name, n.Line)
	case VarDecl:
		return fmt.Sprintf("VarDecl(%s: %s) line=%d", n.Name, n.Type, n.Line)
	case Param:
		return fmt.Sprintf("Param(#%d %s: %s) line=%d", n.ParamIndex, n.Name, n.Type, n.Line)
	case FuncDecl:
		return fmt.Sprintf("FuncDecl(%s: %s) line=%d", n.Name, n.Type, n.Line)
	case MainDecl:
		return fmt.Sprintf("MainDecl(%s) line=%d", n.Name, n.Line)
	case Assn:
		return fmt.Sprintf("Assn(%s) line=%d", n.Name, n.Line)
	default:
		return fmt.Sprintf("%s line=%d", n.Kind, n.Line)
	}
}
