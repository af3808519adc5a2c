package syntax

//go:generate stringer -type=NodeKind -trimprefix=Node
//go:generate stringer -type=TokenKind -trimprefix=Tok

// NodeKind classifies CST nodes of the Quill language.
type NodeKind uint16

const (
	NodeInvalid NodeKind = iota
	NodeFile
	NodeLetStmt
	NodeExprStmt
	NodeEmptyStmt
	NodeFnDecl
	NodeParamList
	NodeParam
	NodeBlock
	NodeCallExpr
	NodeArgList
	NodeBinaryExpr
	NodeParenExpr
	NodeNameExpr
	NodeLiteralExpr
	NodeError
)

// TokenKind classifies CST tokens of the Quill language.
type TokenKind uint16

const (
	TokInvalid TokenKind = iota
	TokEOF
	TokIdent
	TokNumber
	TokString
	TokKwLet
	TokKwFn
	TokAssign
	TokSemi
	TokComma
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
)

func (k NodeKind) String() string {
	switch k {
	case NodeFile:
		return "File"
	case NodeLetStmt:
		return "LetStmt"
	case NodeExprStmt:
		return "ExprStmt"
	case NodeEmptyStmt:
		return "EmptyStmt"
	case NodeFnDecl:
		return "FnDecl"
	case NodeParamList:
		return "ParamList"
	case NodeParam:
		return "Param"
	case NodeBlock:
		return "Block"
	case NodeCallExpr:
		return "CallExpr"
	case NodeArgList:
		return "ArgList"
	case NodeBinaryExpr:
		return "BinaryExpr"
	case NodeParenExpr:
		return "ParenExpr"
	case NodeNameExpr:
		return "NameExpr"
	case NodeLiteralExpr:
		return "LiteralExpr"
	case NodeError:
		return "Error"
	}
	return "Invalid"
}

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "Ident"
	case TokNumber:
		return "Number"
	case TokString:
		return "String"
	case TokKwLet:
		return "KwLet"
	case TokKwFn:
		return "KwFn"
	case TokAssign:
		return "Assign"
	case TokSemi:
		return "Semi"
	case TokComma:
		return "Comma"
	case TokPlus:
		return "Plus"
	case TokMinus:
		return "Minus"
	case TokStar:
		return "Star"
	case TokSlash:
		return "Slash"
	case TokLParen:
		return "LParen"
	case TokRParen:
		return "RParen"
	case TokLBrace:
		return "LBrace"
	case TokRBrace:
		return "RBrace"
	}
	return "Invalid"
}
