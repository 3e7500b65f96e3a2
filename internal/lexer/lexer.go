package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zacostudio/zaco-compiler/internal/ast"
	"golang.org/x/text/unicode/norm"
)

// Error is a lexical diagnostic: unterminated strings,
// invalid characters, malformed number literals.
type Error struct {
	Span    ast.Span
	Message string
}

// Lexer scans UTF-8 source bytes into a stream of Tokens.
//
// Column positions are counted in runes, not bytes or display cells, so
// multi-byte identifiers and emoji in comments don't skew diagnostics.
type Lexer struct {
	input    string
	sourceID int
	pos      int // byte offset of ch
	readPos  int // byte offset of next rune
	ch       rune
	line     int
	col      int
	errors   []Error
}

// New creates a Lexer over the given source contents.
func New(input string, sourceID int) *Lexer {
	l := &Lexer{input: input, sourceID: sourceID, line: 1, col: 0}
	l.advance()
	return l
}

func (l *Lexer) Errors() []Error { return l.errors }

func (l *Lexer) advance() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.pos = l.readPos
	l.readPos += size
	l.ch = r
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekRune() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) loc() ast.Location { return ast.Location{Line: l.line, Column: l.col} }

func (l *Lexer) span(start ast.Location) ast.Span {
	return ast.Span{Start: start, End: l.loc(), SourceID: l.sourceID}
}

// Next produces the next token in the stream, terminating with an Eof
// token that is repeated on every subsequent call.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()

	start := l.loc()
	if l.ch == 0 {
		return Token{Kind: Eof, Span: l.span(start)}
	}

	switch {
	case isIdentStart(l.ch):
		return l.readIdent(start)
	case unicode.IsDigit(l.ch):
		return l.readNumber(start)
	case l.ch == '"' || l.ch == '\'':
		return l.readString(start, l.ch)
	case l.ch == '`':
		return l.readTemplate(start)
	}

	return l.readOperator(start)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.advance()
		case l.ch == '/' && l.peekRune() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.advance()
			}
		case l.ch == '/' && l.peekRune() == '*':
			l.advance()
			l.advance()
			for !(l.ch == '*' && l.peekRune() == '/') && l.ch != 0 {
				l.advance()
			}
			if l.ch != 0 {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' || r == '$' }
func isIdentPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' }

func (l *Lexer) readIdent(start ast.Location) Token {
	var sb strings.Builder
	for isIdentPart(l.ch) {
		sb.WriteRune(l.ch)
		l.advance()
	}
	name := norm.NFC.String(sb.String())
	if kw, ok := keywords[name]; ok {
		return Token{Kind: kw, Span: l.span(start), Value: name}
	}
	return Token{Kind: Ident, Span: l.span(start), Value: name}
}

func (l *Lexer) readNumber(start ast.Location) Token {
	var sb strings.Builder

	readDigits := func(valid func(rune) bool) {
		for valid(l.ch) || l.ch == '_' {
			if l.ch != '_' {
				sb.WriteRune(l.ch)
			}
			l.advance()
		}
	}

	if l.ch == '0' && (l.peekRune() == 'x' || l.peekRune() == 'X') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		readDigits(isHexDigit)
		return Token{Kind: Number, Span: l.span(start), Value: sb.String()}
	}
	if l.ch == '0' && (l.peekRune() == 'o' || l.peekRune() == 'O') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		readDigits(isOctDigit)
		return Token{Kind: Number, Span: l.span(start), Value: sb.String()}
	}
	if l.ch == '0' && (l.peekRune() == 'b' || l.peekRune() == 'B') {
		sb.WriteRune(l.ch)
		l.advance()
		sb.WriteRune(l.ch)
		l.advance()
		readDigits(isBinDigit)
		return Token{Kind: Number, Span: l.span(start), Value: sb.String()}
	}

	readDigits(unicode.IsDigit)
	if l.ch == '.' && unicode.IsDigit(l.peekRune()) {
		sb.WriteRune(l.ch)
		l.advance()
		readDigits(unicode.IsDigit)
	}
	if l.ch == 'e' || l.ch == 'E' {
		sb.WriteRune(l.ch)
		l.advance()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteRune(l.ch)
			l.advance()
		}
		readDigits(unicode.IsDigit)
	}
	return Token{Kind: Number, Span: l.span(start), Value: sb.String()}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isOctDigit(r rune) bool { return r >= '0' && r <= '7' }
func isBinDigit(r rune) bool { return r == '0' || r == '1' }

func (l *Lexer) readString(start ast.Location, quote rune) Token {
	l.advance() // opening quote
	var sb strings.Builder
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.advance()
			sb.WriteRune(unescape(l.ch))
			l.advance()
			continue
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
	if l.ch == 0 {
		l.errors = append(l.errors, Error{Span: l.span(start), Message: "unterminated string literal"})
	} else {
		l.advance() // closing quote
	}
	return Token{Kind: String, Span: l.span(start), Value: sb.String()}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}

// readTemplate scans the raw text of a template literal between
// backticks, including `${...}` interpolation markers verbatim; the
// parser performs the recursive sub-lex of each interpolation.
func (l *Lexer) readTemplate(start ast.Location) Token {
	l.advance() // opening backtick
	var sb strings.Builder
	depth := 0
	for (l.ch != '`' || depth > 0) && l.ch != 0 {
		if l.ch == '$' && l.peekRune() == '{' {
			depth++
			sb.WriteRune('$')
			l.advance()
			sb.WriteRune('{')
			l.advance()
			continue
		}
		if l.ch == '}' && depth > 0 {
			depth--
		}
		if l.ch == '\\' {
			l.advance()
			sb.WriteRune('\\')
			sb.WriteRune(l.ch)
			l.advance()
			continue
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
	if l.ch == 0 {
		l.errors = append(l.errors, Error{Span: l.span(start), Message: "unterminated template literal"})
	} else {
		l.advance() // closing backtick
	}
	return Token{Kind: TemplateString, Span: l.span(start), Value: sb.String()}
}

func (l *Lexer) two(a, b rune, twoKind, oneKind TokenKind, start ast.Location) Token {
	if l.peekRune() == b {
		l.advance()
		l.advance()
		return Token{Kind: twoKind, Span: l.span(start)}
	}
	l.advance()
	return Token{Kind: oneKind, Span: l.span(start)}
}

func (l *Lexer) readOperator(start ast.Location) Token {
	ch := l.ch
	switch ch {
	case '+':
		return l.two('+', '=', PlusAssign, Plus, start)
	case '-':
		if l.peekRune() == '>' {
			l.advance()
			l.advance()
			return Token{Kind: Arrow, Span: l.span(start)}
		}
		return l.two('-', '=', MinusAssign, Minus, start)
	case '*':
		return l.two('*', '=', StarAssign, Star, start)
	case '/':
		return l.two('/', '=', SlashAssign, Slash, start)
	case '%':
		l.advance()
		return Token{Kind: Percent, Span: l.span(start)}
	case '=':
		if l.peekRune() == '=' {
			l.advance()
			l.advance()
			return Token{Kind: EqEq, Span: l.span(start)}
		}
		if l.peekRune() == '>' {
			l.advance()
			l.advance()
			return Token{Kind: Arrow, Span: l.span(start)}
		}
		l.advance()
		return Token{Kind: Assign, Span: l.span(start)}
	case '!':
		return l.two('!', '=', NotEq, Bang, start)
	case '<':
		return l.two('<', '=', LtEq, Lt, start)
	case '>':
		return l.two('>', '=', GtEq, Gt, start)
	case '&':
		if l.peekRune() == '&' {
			l.advance()
			l.advance()
			return Token{Kind: AmpAmp, Span: l.span(start)}
		}
	case '|':
		if l.peekRune() == '|' {
			l.advance()
			l.advance()
			return Token{Kind: PipePipe, Span: l.span(start)}
		}
		l.advance()
		return Token{Kind: Pipe, Span: l.span(start)}
	case '?':
		if l.peekRune() == '?' {
			l.advance()
			l.advance()
			return Token{Kind: QuestionQuestion, Span: l.span(start)}
		}
		if l.peekRune() == '.' {
			l.advance()
			l.advance()
			return Token{Kind: QuestionDot, Span: l.span(start)}
		}
		l.advance()
		return Token{Kind: Question, Span: l.span(start)}
	case '.':
		if l.peekRune() == '.' {
			l.advance()
			l.advance()
			if l.ch == '.' {
				l.advance()
				return Token{Kind: DotDotDot, Span: l.span(start)}
			}
			return Token{Kind: Dot, Span: l.span(start)}
		}
		l.advance()
		return Token{Kind: Dot, Span: l.span(start)}
	case ',':
		l.advance()
		return Token{Kind: Comma, Span: l.span(start)}
	case ':':
		l.advance()
		return Token{Kind: Colon, Span: l.span(start)}
	case ';':
		l.advance()
		return Token{Kind: Semicolon, Span: l.span(start)}
	case '(':
		l.advance()
		return Token{Kind: LParen, Span: l.span(start)}
	case ')':
		l.advance()
		return Token{Kind: RParen, Span: l.span(start)}
	case '{':
		l.advance()
		return Token{Kind: LBrace, Span: l.span(start)}
	case '}':
		l.advance()
		return Token{Kind: RBrace, Span: l.span(start)}
	case '[':
		l.advance()
		return Token{Kind: LBracket, Span: l.span(start)}
	case ']':
		l.advance()
		return Token{Kind: RBracket, Span: l.span(start)}
	}

	l.errors = append(l.errors, Error{Span: l.span(start), Message: "invalid character: " + string(ch)})
	l.advance()
	return l.Next()
}
