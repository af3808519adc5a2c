package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind. Ranges are reserved per phase.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Syntactic
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynUnclosedBrace      Code = 2005
	SynUnclosedParen      Code = 2006
	SynExpectAssign       Code = 2007
	SynUnexpectedTopLevel Code = 2008

	// Lint rules
	LintInfo                Code = 4000
	LintRedundantSemicolon  Code = 4001
	LintEmptyBlock          Code = 4002
	LintSuppressedByComment Code = 4050

	// Formatting
	FmtInfo          Code = 5000
	FmtInternal      Code = 5001
	FmtNotIdempotent Code = 5002

	// Driver / IO
	IOInfo          Code = 6000
	IOLoadFileError Code = 6001
	IOWriteError    Code = 6002
)

func (c Code) String() string {
	return fmt.Sprintf("Q%04d", uint16(c))
}

// Phase returns a coarse phase label for the code, used in short output.
func (c Code) Phase() string {
	switch {
	case c >= 1000 && c < 2000:
		return "lex"
	case c >= 2000 && c < 3000:
		return "syntax"
	case c >= 4000 && c < 5000:
		return "lint"
	case c >= 5000 && c < 6000:
		return "format"
	case c >= 6000 && c < 7000:
		return "io"
	}
	return "unknown"
}
