package lexer

import "github.com/zacostudio/zaco-compiler/internal/ast"

// TokenKind enumerates every token kind the lexer can produce.
type TokenKind int

const (
	Eof TokenKind = iota
	Ident
	Number
	String
	TemplateString

	// Keywords
	KwLet
	KwConst
	KwVar
	KwFunction
	KwAsync
	KwAwait
	KwClass
	KwInterface
	KwExtends
	KwImplements
	KwNew
	KwThis
	KwSuper
	KwIf
	KwElse
	KwWhile
	KwFor
	KwIn
	KwOf
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwTry
	KwCatch
	KwFinally
	KwThrow
	KwReturn
	KwImport
	KwExport
	KwFrom
	KwAs
	KwNull
	KwUndefined
	KwTrue
	KwFalse
	KwOwned
	KwRef
	KwMut
	KwClone
	KwTypeof

	// Operators & punctuation
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	EqEq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	AmpAmp
	PipePipe
	QuestionQuestion
	Question
	QuestionDot
	Bang
	Arrow
	Dot
	DotDotDot
	Comma
	Colon
	Semicolon
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Pipe // used in union type annotations `A | B`
)

var keywords = map[string]TokenKind{
	"let": KwLet, "const": KwConst, "var": KwVar,
	"function": KwFunction, "async": KwAsync, "await": KwAwait,
	"class": KwClass, "interface": KwInterface, "extends": KwExtends,
	"implements": KwImplements, "new": KwNew, "this": KwThis, "super": KwSuper,
	"if": KwIf, "else": KwElse, "while": KwWhile, "for": KwFor,
	"in": KwIn, "of": KwOf, "switch": KwSwitch, "case": KwCase,
	"default": KwDefault, "break": KwBreak, "continue": KwContinue,
	"try": KwTry, "catch": KwCatch, "finally": KwFinally, "throw": KwThrow,
	"return": KwReturn, "import": KwImport, "export": KwExport, "from": KwFrom,
	"as": KwAs, "null": KwNull, "undefined": KwUndefined,
	"true": KwTrue, "false": KwFalse,
	"owned": KwOwned, "ref": KwRef, "mut": KwMut, "clone": KwClone,
	"typeof": KwTypeof,
}

// Token is one lexical token: its kind, source span, and literal value
// (the raw identifier/number/string text, unescaped where applicable).
type Token struct {
	Kind  TokenKind
	Span  ast.Span
	Value string
}
