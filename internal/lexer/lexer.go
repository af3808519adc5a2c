package lexer

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/syntax"
)

// Lexer turns one file into a token stream with full-fidelity trivia.
//
// Trivia attachment follows the convention the rest of the toolchain relies
// on: a token's trailing trivia holds same-line whitespace and comments after
// it, never newlines; everything else (newlines, indentation, own-line
// comments, skipped text) becomes the next token's leading trivia. The final
// EOF token picks up whatever trivia remains, so concatenating every token's
// full text reproduces the file byte for byte.
type Lexer struct {
	cursor   cursor
	file     *source.File
	reporter diag.Reporter
	hold     []syntax.TriviaPiece
}

// New creates a lexer over file, reporting problems to reporter.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{
		cursor:   newCursor(file),
		file:     file,
		reporter: reporter,
	}
}

// Tokenize scans the whole file. The returned slice always ends with an
// EOF token.
func (lx *Lexer) Tokenize() []syntax.Token {
	var out []syntax.Token
	for {
		tok := lx.next()
		out = append(out, tok)
		if tok.Kind == syntax.TokEOF {
			return out
		}
	}
}

func (lx *Lexer) next() syntax.Token {
	lx.collectLeadingTrivia()

	leading := lx.hold
	lx.hold = nil

	if lx.cursor.eof() {
		return syntax.Token{
			Kind:    syntax.TokEOF,
			Span:    source.EmptyAt(lx.file.ID, lx.cursor.pos),
			Leading: leading,
		}
	}

	start := lx.cursor.mark()
	kind := lx.scanToken()
	sp := lx.cursor.spanFrom(start)

	tok := syntax.Token{
		Kind:    kind,
		Span:    sp,
		Text:    lx.cursor.text(sp),
		Leading: leading,
	}
	tok.Trailing = lx.collectTrailingTrivia()
	return tok
}

// collectLeadingTrivia gathers trivia into lx.hold until a significant byte.
// Whitespace runs coalesce into one piece; every newline is its own piece;
// unknown bytes become skipped pieces and are reported once per run.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.eof() {
		b := lx.cursor.peek()
		switch {
		case b == ' ' || b == '\t':
			lx.holdWhitespace()
		case b == '\n':
			start := lx.cursor.mark()
			lx.cursor.bump()
			sp := lx.cursor.spanFrom(start)
			lx.hold = append(lx.hold, syntax.TriviaPiece{
				Kind: syntax.TriviaNewline,
				Span: sp,
				Text: "\n",
			})
		case b == '/' && lx.cursor.peekAt(1) == '/':
			lx.holdLineComment()
		case b == '/' && lx.cursor.peekAt(1) == '*':
			lx.holdBlockComment()
		case isTokenStart(b):
			return
		default:
			lx.holdSkipped()
		}
	}
}

// collectTrailingTrivia gathers same-line trivia after a token: spaces,
// line comments, and single-line block comments. It stops before the first
// newline and before any multi-line block comment.
func (lx *Lexer) collectTrailingTrivia() []syntax.TriviaPiece {
	var out []syntax.TriviaPiece
	for !lx.cursor.eof() {
		b := lx.cursor.peek()
		switch {
		case b == ' ' || b == '\t':
			start := lx.cursor.mark()
			for {
				b2 := lx.cursor.peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.bump()
			}
			sp := lx.cursor.spanFrom(start)
			out = append(out, syntax.TriviaPiece{
				Kind: syntax.TriviaWhitespace,
				Span: sp,
				Text: lx.cursor.text(sp),
			})
		case b == '/' && lx.cursor.peekAt(1) == '/':
			start := lx.cursor.mark()
			for !lx.cursor.eof() && lx.cursor.peek() != '\n' {
				lx.cursor.bump()
			}
			sp := lx.cursor.spanFrom(start)
			out = append(out, syntax.TriviaPiece{
				Kind: syntax.TriviaLineComment,
				Span: sp,
				Text: lx.cursor.text(sp),
			})
		case b == '/' && lx.cursor.peekAt(1) == '*':
			if !lx.blockCommentOnLine() {
				return out
			}
			start := lx.cursor.mark()
			lx.scanBlockComment()
			sp := lx.cursor.spanFrom(start)
			out = append(out, syntax.TriviaPiece{
				Kind: syntax.TriviaBlockComment,
				Span: sp,
				Text: lx.cursor.text(sp),
			})
		default:
			return out
		}
	}
	return out
}

func (lx *Lexer) holdWhitespace() {
	start := lx.cursor.mark()
	for {
		b := lx.cursor.peek()
		if b != ' ' && b != '\t' {
			break
		}
		lx.cursor.bump()
	}
	sp := lx.cursor.spanFrom(start)
	lx.hold = append(lx.hold, syntax.TriviaPiece{
		Kind: syntax.TriviaWhitespace,
		Span: sp,
		Text: lx.cursor.text(sp),
	})
}

func (lx *Lexer) holdLineComment() {
	start := lx.cursor.mark()
	for !lx.cursor.eof() && lx.cursor.peek() != '\n' {
		lx.cursor.bump()
	}
	sp := lx.cursor.spanFrom(start)
	lx.hold = append(lx.hold, syntax.TriviaPiece{
		Kind: syntax.TriviaLineComment,
		Span: sp,
		Text: lx.cursor.text(sp),
	})
}

func (lx *Lexer) holdBlockComment() {
	start := lx.cursor.mark()
	lx.scanBlockComment()
	sp := lx.cursor.spanFrom(start)
	lx.hold = append(lx.hold, syntax.TriviaPiece{
		Kind: syntax.TriviaBlockComment,
		Span: sp,
		Text: lx.cursor.text(sp),
	})
}

// holdSkipped consumes a run of bytes no token can start with and records it
// as skipped trivia, keeping the original text for verbatim reproduction.
func (lx *Lexer) holdSkipped() {
	start := lx.cursor.mark()
	for !lx.cursor.eof() {
		b := lx.cursor.peek()
		if b == ' ' || b == '\t' || b == '\n' || isTokenStart(b) {
			break
		}
		if b == '/' && (lx.cursor.peekAt(1) == '/' || lx.cursor.peekAt(1) == '*') {
			break
		}
		lx.cursor.bump()
	}
	sp := lx.cursor.spanFrom(start)
	lx.hold = append(lx.hold, syntax.TriviaPiece{
		Kind: syntax.TriviaSkipped,
		Span: sp,
		Text: lx.cursor.text(sp),
	})
	diag.Report(lx.reporter, diag.SevError, diag.LexUnknownChar, sp,
		"unrecognized characters in input")
}

// blockCommentOnLine reports whether the block comment at the cursor closes
// before the next newline, without moving the cursor.
func (lx *Lexer) blockCommentOnLine() bool {
	i := uint32(2)
	depth := 1
	for {
		b := lx.cursor.peekAt(i)
		if b == 0 || b == '\n' {
			return false
		}
		if b == '/' && lx.cursor.peekAt(i+1) == '*' {
			depth++
			i += 2
			continue
		}
		if b == '*' && lx.cursor.peekAt(i+1) == '/' {
			depth--
			i += 2
			if depth == 0 {
				return true
			}
			continue
		}
		i++
	}
}

// scanBlockComment consumes a (possibly nested) block comment. Unterminated
// comments are reported and consumed to EOF.
func (lx *Lexer) scanBlockComment() {
	start := lx.cursor.mark()
	lx.cursor.bump() // '/'
	lx.cursor.bump() // '*'
	depth := 1
	for !lx.cursor.eof() {
		if lx.cursor.peek() == '/' && lx.cursor.peekAt(1) == '*' {
			depth++
			lx.cursor.bump()
			lx.cursor.bump()
			continue
		}
		if lx.cursor.peek() == '*' && lx.cursor.peekAt(1) == '/' {
			depth--
			lx.cursor.bump()
			lx.cursor.bump()
			if depth == 0 {
				return
			}
			continue
		}
		lx.cursor.bump()
	}
	diag.Report(lx.reporter, diag.SevError, diag.LexUnterminatedBlockComment,
		lx.cursor.spanFrom(start), "unterminated block comment")
}

func (lx *Lexer) scanToken() syntax.TokenKind {
	b := lx.cursor.peek()
	switch {
	case isIdentStart(b):
		return lx.scanIdentOrKeyword()
	case b >= '0' && b <= '9':
		return lx.scanNumber()
	case b == '"' || b == '\'':
		return lx.scanString(b)
	}

	lx.cursor.bump()
	switch b {
	case '=':
		return syntax.TokAssign
	case ';':
		return syntax.TokSemi
	case ',':
		return syntax.TokComma
	case '+':
		return syntax.TokPlus
	case '-':
		return syntax.TokMinus
	case '*':
		return syntax.TokStar
	case '/':
		return syntax.TokSlash
	case '(':
		return syntax.TokLParen
	case ')':
		return syntax.TokRParen
	case '{':
		return syntax.TokLBrace
	case '}':
		return syntax.TokRBrace
	}
	return syntax.TokInvalid
}

func (lx *Lexer) scanIdentOrKeyword() syntax.TokenKind {
	start := lx.cursor.mark()
	for isIdentPart(lx.cursor.peek()) {
		lx.cursor.bump()
	}
	switch lx.cursor.text(lx.cursor.spanFrom(start)) {
	case "let":
		return syntax.TokKwLet
	case "fn":
		return syntax.TokKwFn
	}
	return syntax.TokIdent
}

func (lx *Lexer) scanNumber() syntax.TokenKind {
	for lx.cursor.peek() >= '0' && lx.cursor.peek() <= '9' {
		lx.cursor.bump()
	}
	if lx.cursor.peek() == '.' && lx.cursor.peekAt(1) >= '0' && lx.cursor.peekAt(1) <= '9' {
		lx.cursor.bump()
		for lx.cursor.peek() >= '0' && lx.cursor.peek() <= '9' {
			lx.cursor.bump()
		}
	}
	return syntax.TokNumber
}

func (lx *Lexer) scanString(quote byte) syntax.TokenKind {
	start := lx.cursor.mark()
	lx.cursor.bump() // opening quote
	for !lx.cursor.eof() {
		b := lx.cursor.peek()
		if b == '\n' {
			break
		}
		lx.cursor.bump()
		if b == '\\' && !lx.cursor.eof() {
			lx.cursor.bump()
			continue
		}
		if b == quote {
			return syntax.TokString
		}
	}
	diag.Report(lx.reporter, diag.SevError, diag.LexUnterminatedString,
		lx.cursor.spanFrom(start), "unterminated string literal")
	return syntax.TokString
}

func isTokenStart(b byte) bool {
	if isIdentStart(b) || (b >= '0' && b <= '9') {
		return true
	}
	switch b {
	case '"', '\'', '=', ';', ',', '+', '-', '*', '/', '(', ')', '{', '}':
		return true
	}
	return false
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
