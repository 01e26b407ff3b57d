// Package jmm implements the lexer/parser boundary for the J-- language:
// from source bytes to a normalized ast.Node tree, using parser combinators
// the same way the teacher's pkg/asm and pkg/vm packages do.
package jmm

import (
	"fmt"
	"io"
	"os"

	pc "github.com/prataprc/goparsec"

	"github.com/jmm-lang/jmmc/pkg/ast"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// This section defines the Parser Combinator for every token & production of
// the J-- grammar (§6 of the spec). Productions mirror the informal grammar
// there directly; the six binary-expression precedence levels are each an
// "operand (op operand)*" shape, built with ast.Kleene the same way the
// teacher chains repeated constructs in pkg/jack/parsing.go.

var jast = pc.NewAST("jmm_program", 0)

var (
	pProgram = jast.ManyUntil("program", nil, pDecl, pc.End())

	pDecl = jast.OrdChoice("decl", nil, pMainDecl, pFuncDecl, pVarDecl)

	pVarDecl = jast.And("vardecl", nil, pType, pIdent, pSemi)

	pParam  = jast.And("param", nil, pType, pIdent)
	pParams = jast.Kleene("params", nil, pParam, pComma)

	pFuncDecl = jast.And("funcdecl", nil, pType, pIdent, pLParen, pParams, pRParen, pBlock)
	pMainDecl = jast.And("maindecl", nil,
		pc.Atom("void", "VOID"), pc.Atom("main", "MAIN"), pLParen, pRParen, pBlock)

	pBlock = jast.And("block", nil, pLBrace, jast.Kleene("stmts", nil, pStmt), pRBrace)

	pStmt = jast.OrdChoice("stmt", nil,
		pVarDeclStmt, pIfStmt, pWhileStmt, pReturnStmt, pBreakStmt,
		pAssnStmt, pFuncCallStmt, pNullStmt,
	)

	pVarDeclStmt   = pVarDecl
	pAssnStmt      = jast.And("assn", nil, pIdent, pc.Atom("=", "ASSIGN"), pExpr, pSemi)
	pFuncCallStmt  = jast.And("funccall_stmt", nil, pFuncCall, pSemi)
	pNullStmt      = jast.And("null_stmt", nil, pSemi)
	pBreakStmt     = jast.And("break_stmt", nil, pc.Atom("break", "BREAK"), pSemi)
	pReturnStmt    = jast.And("return_stmt", nil, pc.Atom("return", "RETURN"), jast.Maybe("maybe_expr", nil, pExpr), pSemi)
	pIfElse        = jast.And("else_clause", nil, pc.Atom("else", "ELSE"), pBlock)
	pIfStmt        = jast.And("if_stmt", nil, pc.Atom("if", "IF"), pLParen, pExpr, pRParen, pBlock, jast.Maybe("maybe_else", nil, pIfElse))
	pWhileStmt     = jast.And("while_stmt", nil, pc.Atom("while", "WHILE"), pLParen, pExpr, pRParen, pBlock)
)

var (
	pFuncCall = jast.And("funccall", nil, pIdent, pLParen, jast.Kleene("args", nil, pExpr, pComma), pRParen)
)

// Expression precedence, lowest to highest: || , && , == != , < > <= >= , + - , * / % , unary ! - , primary.
var (
	pExpr = pOrExpr

	pOrOp   = jast.And("or_op", nil, pc.Atom("||", "OR"), pAndExpr)
	pOrExpr = jast.And("or_expr", nil, pAndExpr, jast.Kleene("or_tail", nil, pOrOp))

	pAndOp   = jast.And("and_op", nil, pc.Atom("&&", "AND"), pEqExpr)
	pAndExpr = jast.And("and_expr", nil, pEqExpr, jast.Kleene("and_tail", nil, pAndOp))

	pEqOp   = jast.And("eq_op", nil, jast.OrdChoice("eq_kind", nil, pc.Atom("==", "EQ"), pc.Atom("!=", "NE")), pRelExpr)
	pEqExpr = jast.And("eq_expr", nil, pRelExpr, jast.Kleene("eq_tail", nil, pEqOp))

	pRelOp = jast.And("rel_op", nil,
		jast.OrdChoice("rel_kind", nil,
			pc.Atom("<=", "LE"), pc.Atom(">=", "GE"), pc.Atom("<", "LT"), pc.Atom(">", "GT")),
		pAddExpr)
	pRelExpr = jast.And("rel_expr", nil, pAddExpr, jast.Kleene("rel_tail", nil, pRelOp))

	pAddOp = jast.And("add_op", nil,
		jast.OrdChoice("add_kind", nil, pc.Atom("+", "PLUS"), pc.Atom("-", "MINUS")), pMulExpr)
	pAddExpr = jast.And("add_expr", nil, pMulExpr, jast.Kleene("add_tail", nil, pAddOp))

	pMulOp = jast.And("mul_op", nil,
		jast.OrdChoice("mul_kind", nil, pc.Atom("*", "TIMES"), pc.Atom("/", "DIVIDE"), pc.Atom("%", "MOD")),
		pUnaryExpr)
	pMulExpr = jast.And("mul_expr", nil, pUnaryExpr, jast.Kleene("mul_tail", nil, pMulOp))

	pUnaryExpr = jast.OrdChoice("unary_expr", nil, pUnaryOp, pPrimary)
	pUnaryOp   = jast.And("unary_op", nil,
		jast.OrdChoice("unary_kind", nil, pc.Atom("!", "NOT"), pc.Atom("-", "NEG")), pUnaryExpr)

	pPrimary = jast.OrdChoice("primary", nil,
		pc.Int(), pStringLit, pc.Atom("true", "TRUE"), pc.Atom("false", "FALSE"),
		pFuncCall, pIdent, pParenExpr,
	)
	pParenExpr = jast.And("paren_expr", nil, pLParen, pExpr, pRParen)
)

var (
	pIdent     = pc.Token(`[A-Za-z][0-9a-zA-Z]*`, "IDENT")
	pStringLit = pc.Token(`"(?:\\.|[^"\\])*"`, "STRING")

	pSemi   = pc.Atom(";", "SEMI")
	pComma  = pc.Atom(",", "COMMA")
	pLBrace = pc.Atom("{", "LBRACE")
	pRBrace = pc.Atom("}", "RBRACE")
	pLParen = pc.Atom("(", "LPAREN")
	pRParen = pc.Atom(")", "RPAREN")

	pType = jast.OrdChoice("type", nil,
		pc.Atom("int", "INT"), pc.Atom("boolean", "BOOLEAN"), pc.Atom("void", "VOID"))
)

// ----------------------------------------------------------------------------
// J-- Parser

// Parser reads J-- source and produces a normalized ast.Node tree. As with
// the teacher's parsers, behavior can be inspected through env-var feature
// flags: PARSEC_DEBUG, EXPORT_AST, PRINT_AST (see SPEC_FULL.md).
type Parser struct {
	reader io.Reader

	source []byte // full source, used only to recover line numbers (see lineOf)
	cursor int     // monotonically advancing search offset into source
}

// NewParser returns a Parser reading J-- source from r.
func NewParser(r io.Reader) *Parser { return &Parser{reader: r} }

// Parse runs the full text -> AST -> normalized-ast.Node pipeline.
func (p *Parser) Parse() (*ast.Node, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %w", err)
	}
	p.source = content

	root, success := p.FromSource(content)
	if !success {
		return nil, fmt.Errorf("failed to parse AST from input content")
	}

	prog, err := p.FromAST(root)
	if err != nil {
		return nil, err
	}

	ast.Normalize(prog)
	ast.LinkSiblings(prog)
	return prog, nil
}

// FromSource scans the textual input and returns the raw, traversable
// goparsec AST (not yet our ast.Node form).
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		jast.SetDebug()
	}

	// As in the teacher's asm/jack parsers, the second return value (the
	// trailing scanner state) isn't used to judge success; a nil root is
	// the one reliable failure signal goparsec gives us here.
	root, _ := jast.Parsewith(pProgram, pc.NewScanner(source))

	if os.Getenv("EXPORT_AST") != "" {
		folder := os.Getenv("DEBUG_FOLDER")
		if folder == "" {
			folder = "."
		}
		if file, ferr := os.Create(fmt.Sprintf("%s/debug.ast.dot", folder)); ferr == nil {
			defer file.Close()
			file.Write([]byte(jast.Dotstring("\"J-- AST\"")))
		}
	}

	if os.Getenv("PRINT_AST") != "" {
		jast.Prettyprint()
	}

	return root, root != nil
}
