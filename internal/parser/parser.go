// Package parser builds the full-fidelity Quill CST from a token stream.
//
// The parser never drops source bytes: tokens it cannot place in the grammar
// are folded into the next consumed token's leading trivia as skipped pieces,
// so the resulting tree still reproduces the file exactly.
package parser

import (
	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/syntax"
)

type parser struct {
	tokens   []syntax.Token
	pos      int
	builder  *syntax.Builder
	reporter diag.Reporter

	// pending holds trivia of skipped tokens, waiting to be attached to
	// the next consumed token's leading edge.
	pending []syntax.TriviaPiece
}

// Parse tokenizes and parses one file into a CST.
func Parse(file *source.File, reporter diag.Reporter) *syntax.Tree {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	tokens := lexer.New(file, reporter).Tokenize()
	p := &parser{
		tokens:   tokens,
		builder:  syntax.NewBuilder(file.ID),
		reporter: reporter,
	}
	p.parseFile()
	return p.builder.Finish()
}

func (p *parser) current() *syntax.Token {
	return &p.tokens[p.pos]
}

func (p *parser) at(kind syntax.TokenKind) bool {
	return p.current().Kind == kind
}

// bump consumes the current token into the tree, attaching any pending
// skipped trivia before its own leading trivia.
func (p *parser) bump() {
	tok := p.tokens[p.pos]
	if len(p.pending) > 0 {
		leading := make([]syntax.TriviaPiece, 0, len(p.pending)+len(tok.Leading))
		leading = append(leading, p.pending...)
		leading = append(leading, tok.Leading...)
		tok.Leading = leading
		p.pending = nil
	}
	p.builder.Token(tok)
	if tok.Kind != syntax.TokEOF {
		p.pos++
	}
}

// skip discards the current token from the grammar, keeping its bytes as
// skipped trivia for the next consumed token.
func (p *parser) skip() {
	tok := p.tokens[p.pos]
	if tok.Kind == syntax.TokEOF {
		return
	}
	p.pending = append(p.pending, tok.Leading...)
	p.pending = append(p.pending, syntax.TriviaPiece{
		Kind: syntax.TriviaSkipped,
		Span: tok.Span,
		Text: tok.Text,
	})
	p.pending = append(p.pending, tok.Trailing...)
	p.pos++
}

func (p *parser) expect(kind syntax.TokenKind, code diag.Code, msg string) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	diag.Report(p.reporter, diag.SevError, code, p.current().Span, msg)
	return false
}

func (p *parser) parseFile() {
	p.builder.StartNode(syntax.NodeFile)
	for !p.at(syntax.TokEOF) {
		if !p.atStmtStart() {
			diag.Report(p.reporter, diag.SevError, diag.SynUnexpectedToken,
				p.current().Span, "unexpected token "+p.current().Kind.String())
			p.skip()
			continue
		}
		p.parseStmt()
	}
	p.bump() // EOF carries trailing file trivia
	p.builder.FinishNode()
}

func (p *parser) atStmtStart() bool {
	switch p.current().Kind {
	case syntax.TokKwLet, syntax.TokKwFn, syntax.TokLBrace, syntax.TokSemi:
		return true
	}
	return p.atExprStart()
}

func (p *parser) atExprStart() bool {
	switch p.current().Kind {
	case syntax.TokIdent, syntax.TokNumber, syntax.TokString, syntax.TokLParen:
		return true
	}
	return false
}

func (p *parser) parseStmt() {
	switch p.current().Kind {
	case syntax.TokKwLet:
		p.parseLetStmt()
	case syntax.TokKwFn:
		p.parseFnDecl()
	case syntax.TokLBrace:
		p.parseBlock()
	case syntax.TokSemi:
		p.builder.StartNode(syntax.NodeEmptyStmt)
		p.bump()
		p.builder.FinishNode()
	default:
		p.parseExprStmt()
	}
}

func (p *parser) parseLetStmt() {
	p.builder.StartNode(syntax.NodeLetStmt)
	p.bump() // let
	p.expect(syntax.TokIdent, diag.SynExpectIdentifier, "expected binding name")
	p.expect(syntax.TokAssign, diag.SynExpectAssign, "expected '='")
	p.parseExpr()
	p.expect(syntax.TokSemi, diag.SynExpectSemicolon, "expected ';'")
	p.builder.FinishNode()
}

func (p *parser) parseFnDecl() {
	p.builder.StartNode(syntax.NodeFnDecl)
	p.bump() // fn
	p.expect(syntax.TokIdent, diag.SynExpectIdentifier, "expected function name")
	p.parseParamList()
	if p.at(syntax.TokLBrace) {
		p.parseBlock()
	} else {
		diag.Report(p.reporter, diag.SevError, diag.SynUnexpectedToken,
			p.current().Span, "expected function body")
	}
	p.builder.FinishNode()
}

func (p *parser) parseParamList() {
	p.builder.StartNode(syntax.NodeParamList)
	if !p.expect(syntax.TokLParen, diag.SynUnclosedParen, "expected '('") {
		p.builder.FinishNode()
		return
	}
	for !p.at(syntax.TokRParen) && !p.at(syntax.TokEOF) {
		if p.at(syntax.TokIdent) {
			p.builder.StartNode(syntax.NodeParam)
			p.bump()
			p.builder.FinishNode()
		} else {
			diag.Report(p.reporter, diag.SevError, diag.SynExpectIdentifier,
				p.current().Span, "expected parameter name")
			p.skip()
			continue
		}
		if p.at(syntax.TokComma) {
			p.bump()
		} else {
			break
		}
	}
	p.expect(syntax.TokRParen, diag.SynUnclosedParen, "expected ')'")
	p.builder.FinishNode()
}

func (p *parser) parseBlock() {
	p.builder.StartNode(syntax.NodeBlock)
	p.bump() // '{'
	for !p.at(syntax.TokRBrace) && !p.at(syntax.TokEOF) {
		if !p.atStmtStart() {
			diag.Report(p.reporter, diag.SevError, diag.SynUnexpectedToken,
				p.current().Span, "unexpected token "+p.current().Kind.String())
			p.skip()
			continue
		}
		p.parseStmt()
	}
	p.expect(syntax.TokRBrace, diag.SynUnclosedBrace, "expected '}'")
	p.builder.FinishNode()
}

func (p *parser) parseExprStmt() {
	p.builder.StartNode(syntax.NodeExprStmt)
	p.parseExpr()
	p.expect(syntax.TokSemi, diag.SynExpectSemicolon, "expected ';'")
	p.builder.FinishNode()
}

var binaryOperators = map[syntax.TokenKind]bool{
	syntax.TokPlus:  true,
	syntax.TokMinus: true,
	syntax.TokStar:  true,
	syntax.TokSlash: true,
}

// parseExpr parses an operator chain. The builder is append-only and cannot
// re-parent already-emitted events, so chains are built as right-leaning
// nests: a + b + c => (a + (b + c)). Formatting and analysis only need token
// order, which is identical either way.
func (p *parser) parseExpr() {
	if !p.atExprStart() {
		diag.Report(p.reporter, diag.SevError, diag.SynExpectExpression,
			p.current().Span, "expected expression")
		return
	}
	if p.operatorFollowsPrimary() {
		p.builder.StartNode(syntax.NodeBinaryExpr)
		p.parsePrimary()
		p.bump() // operator
		p.parseExpr()
		p.builder.FinishNode()
		return
	}
	p.parsePrimary()
}

// operatorFollowsPrimary looks past the upcoming primary expression and
// reports whether a binary operator follows it.
func (p *parser) operatorFollowsPrimary() bool {
	i := p.skimPrimary(p.pos)
	return i < len(p.tokens) && binaryOperators[p.tokens[i].Kind]
}

// skimPrimary advances an index past one primary expression without
// consuming anything.
func (p *parser) skimPrimary(i int) int {
	if i >= len(p.tokens) {
		return i
	}
	switch p.tokens[i].Kind {
	case syntax.TokNumber, syntax.TokString:
		return i + 1
	case syntax.TokIdent:
		i++
		if i < len(p.tokens) && p.tokens[i].Kind == syntax.TokLParen {
			return p.skimParens(i)
		}
		return i
	case syntax.TokLParen:
		return p.skimParens(i)
	}
	return i
}

// skimParens advances an index past a balanced paren group starting at i.
func (p *parser) skimParens(i int) int {
	depth := 0
	for ; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case syntax.TokLParen:
			depth++
		case syntax.TokRParen:
			depth--
			if depth == 0 {
				return i + 1
			}
		case syntax.TokEOF:
			return i
		}
	}
	return i
}

func (p *parser) parsePrimary() {
	switch p.current().Kind {
	case syntax.TokNumber, syntax.TokString:
		p.builder.StartNode(syntax.NodeLiteralExpr)
		p.bump()
		p.builder.FinishNode()
	case syntax.TokIdent:
		if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == syntax.TokLParen {
			p.parseCall()
			return
		}
		p.builder.StartNode(syntax.NodeNameExpr)
		p.bump()
		p.builder.FinishNode()
	case syntax.TokLParen:
		p.builder.StartNode(syntax.NodeParenExpr)
		p.bump()
		p.parseExpr()
		p.expect(syntax.TokRParen, diag.SynUnclosedParen, "expected ')'")
		p.builder.FinishNode()
	default:
		diag.Report(p.reporter, diag.SevError, diag.SynExpectExpression,
			p.current().Span, "expected expression")
	}
}

func (p *parser) parseCall() {
	p.builder.StartNode(syntax.NodeCallExpr)
	p.builder.StartNode(syntax.NodeNameExpr)
	p.bump() // callee
	p.builder.FinishNode()
	p.builder.StartNode(syntax.NodeArgList)
	p.bump() // '('
	for !p.at(syntax.TokRParen) && !p.at(syntax.TokEOF) {
		if !p.atExprStart() {
			diag.Report(p.reporter, diag.SevError, diag.SynExpectExpression,
				p.current().Span, "expected argument")
			p.skip()
			continue
		}
		p.parseExpr()
		if p.at(syntax.TokComma) {
			p.bump()
		} else {
			break
		}
	}
	p.expect(syntax.TokRParen, diag.SynUnclosedParen, "expected ')'")
	p.builder.FinishNode()
	p.builder.FinishNode()
}
