package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aledsdavies/betlang/internal/source"
)

// Error reports a lexical failure (spec §4.1): UnterminatedString,
// BadEscape, or InvalidChar, each carrying the offending span.
type Error struct {
	Kind string
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Msg)
}

// Lexer produces a lazy sequence of spanned tokens from UTF-8 source.
// It is whitespace-insensitive except that it always reports newlines
// as NEWLINE tokens — the parser decides whether a given newline is
// significant (inside a `do` block) or skippable (everywhere else).
type Lexer struct {
	src     string
	file    string
	srcMap  *source.Map
	pos     int // byte offset of the next unread rune
	readPos int
	ch      rune
	width   int
}

// New builds a Lexer over text from file, and returns the source.Map
// the parser and diagnostics should share with it.
func New(file, text string) (*Lexer, *source.Map) {
	m := source.NewMap(file, text)
	l := &Lexer{src: text, file: file, srcMap: m}
	l.advance()
	return l, m
}

func (l *Lexer) advance() {
	if l.readPos >= len(l.src) {
		l.ch = 0
		l.width = 0
		l.pos = l.readPos
		return
	}
	r, w := utf8.DecodeRuneInString(l.src[l.readPos:])
	l.pos = l.readPos
	l.ch = r
	l.width = w
	l.readPos += w
}

func (l *Lexer) peek() rune {
	if l.readPos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.readPos:])
	return r
}

func (l *Lexer) span(start int) source.Span {
	return l.srcMap.Span(start, l.pos)
}

// Next returns the next token in the stream, or an *Error for a
// lexical failure. Returns a token of Kind EOF (with no error) at the
// end of input; callers should stop calling Next after that.
func (l *Lexer) Next() (Token, error) {
	l.skipInsignificantWhitespaceAndComments()

	start := l.pos
	if l.ch == 0 {
		return Token{Kind: EOF, Span: l.span(start)}, nil
	}

	switch {
	case l.ch == '\n':
		l.advance()
		return Token{Kind: NEWLINE, Text: "\n", Span: l.span(start)}, nil
	case l.ch == '(':
		l.advance()
		return Token{Kind: LPAREN, Text: "(", Span: l.span(start)}, nil
	case l.ch == ')':
		l.advance()
		return Token{Kind: RPAREN, Text: ")", Span: l.span(start)}, nil
	case l.ch == '[':
		l.advance()
		return Token{Kind: LBRACKET, Text: "[", Span: l.span(start)}, nil
	case l.ch == ']':
		l.advance()
		return Token{Kind: RBRACKET, Text: "]", Span: l.span(start)}, nil
	case l.ch == ',':
		l.advance()
		return Token{Kind: COMMA, Text: ",", Span: l.span(start)}, nil
	case l.ch == ';':
		// ';' is always a SEMICOLON token (the do-block statement
		// separator); it never starts a comment, which is written `//`.
		l.advance()
		return Token{Kind: SEMICOLON, Text: ";", Span: l.span(start)}, nil
	case l.ch == '\'':
		l.advance()
		return Token{Kind: QUOTE, Text: "'", Span: l.span(start)}, nil
	case l.ch == '"':
		return l.lexString(start)
	case l.ch == '-' && isDigit(l.peek()):
		return l.lexNumber(start)
	case l.ch == '-' && l.peek() == '>':
		l.advance()
		l.advance()
		return Token{Kind: ARROW, Text: "->", Span: l.span(start)}, nil
	case l.ch == '-':
		l.advance()
		return Token{Kind: MINUS, Text: "-", Span: l.span(start)}, nil
	case l.ch == '<' && l.peek() == '-':
		l.advance()
		l.advance()
		return Token{Kind: BINDARROW, Text: "<-", Span: l.span(start)}, nil
	case l.ch == '<' && l.peek() == '=':
		l.advance()
		l.advance()
		return Token{Kind: LE, Text: "<=", Span: l.span(start)}, nil
	case l.ch == '<' && l.peek() == '>':
		l.advance()
		l.advance()
		return Token{Kind: NOTEQ, Text: "<>", Span: l.span(start)}, nil
	case l.ch == '<':
		l.advance()
		return Token{Kind: LT, Text: "<", Span: l.span(start)}, nil
	case l.ch == '>' && l.peek() == '=':
		l.advance()
		l.advance()
		return Token{Kind: GE, Text: ">=", Span: l.span(start)}, nil
	case l.ch == '>':
		l.advance()
		return Token{Kind: GT, Text: ">", Span: l.span(start)}, nil
	case l.ch == '=' && l.peek() == '=':
		l.advance()
		l.advance()
		return Token{Kind: EQEQ, Text: "==", Span: l.span(start)}, nil
	case l.ch == '=':
		l.advance()
		return Token{Kind: EQUALS, Text: "=", Span: l.span(start)}, nil
	case l.ch == '|':
		l.advance()
		return Token{Kind: PIPE, Text: "|", Span: l.span(start)}, nil
	case l.ch == '+':
		l.advance()
		return Token{Kind: PLUS, Text: "+", Span: l.span(start)}, nil
	case l.ch == '*':
		l.advance()
		return Token{Kind: STAR, Text: "*", Span: l.span(start)}, nil
	case l.ch == '/':
		l.advance()
		return Token{Kind: SLASH, Text: "/", Span: l.span(start)}, nil
	case isDigit(l.ch):
		return l.lexNumber(start)
	case isIdentStart(l.ch):
		return l.lexIdentOrKeyword(start)
	default:
		bad := l.ch
		l.advance()
		return Token{Kind: ILLEGAL, Text: string(bad), Span: l.span(start)},
			&Error{Kind: "InvalidChar", Span: l.span(start), Msg: fmt.Sprintf("unexpected character %q", bad)}
	}
}

// skipInsignificantWhitespaceAndComments consumes spaces/tabs/carriage
// returns and both comment forms. Newlines are never skipped here —
// they are always emitted as NEWLINE tokens.
func (l *Lexer) skipInsignificantWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.advance()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.advance()
			}
		case l.ch == '#' && l.peek() == '|':
			l.advance()
			l.advance()
			for !(l.ch == '|' && l.peek() == '#') && l.ch != 0 {
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

func (l *Lexer) lexString(start int) (Token, error) {
	l.advance() // consume opening quote
	var b strings.Builder
	for {
		if l.ch == 0 {
			return Token{Kind: ILLEGAL, Span: l.span(start)},
				&Error{Kind: "UnterminatedString", Span: l.span(start), Msg: "string literal never closed"}
		}
		if l.ch == '"' {
			l.advance()
			break
		}
		if l.ch == '\\' {
			l.advance()
			esc, err := l.lexEscape(start)
			if err != nil {
				// Skip the rest of the literal so its closing quote is not
				// lexed as the start of another string.
				for l.ch != '"' && l.ch != 0 {
					l.advance()
				}
				if l.ch == '"' {
					l.advance()
				}
				return Token{Kind: ILLEGAL, Span: l.span(start)}, err
			}
			b.WriteRune(esc)
			continue
		}
		b.WriteRune(l.ch)
		l.advance()
	}
	return Token{Kind: STRING, Text: b.String(), Span: l.span(start)}, nil
}

func (l *Lexer) lexEscape(start int) (rune, error) {
	switch l.ch {
	case 'n':
		l.advance()
		return '\n', nil
	case 't':
		l.advance()
		return '\t', nil
	case 'r':
		l.advance()
		return '\r', nil
	case '"':
		l.advance()
		return '"', nil
	case '\\':
		l.advance()
		return '\\', nil
	default:
		bad := l.ch
		return 0, &Error{Kind: "BadEscape", Span: l.span(start), Msg: fmt.Sprintf("unknown escape \\%c", bad)}
	}
}

// lexNumber handles signed integers, rationals (p/q), and decimals.
func (l *Lexer) lexNumber(start int) (Token, error) {
	if l.ch == '-' {
		l.advance()
	}
	for isDigit(l.ch) {
		l.advance()
	}
	if l.ch == '/' && isDigit(l.peek()) {
		l.advance()
		for isDigit(l.ch) {
			l.advance()
		}
		return Token{Kind: RATIONAL, Text: l.src[start:l.pos], Span: l.span(start)}, nil
	}
	if l.ch == '.' && isDigit(l.peek()) {
		l.advance()
		for isDigit(l.ch) {
			l.advance()
		}
		return Token{Kind: DECIMAL, Text: l.src[start:l.pos], Span: l.span(start)}, nil
	}
	return Token{Kind: INT, Text: l.src[start:l.pos], Span: l.span(start)}, nil
}

func (l *Lexer) lexIdentOrKeyword(start int) (Token, error) {
	for isIdentPart(l.ch) {
		l.advance()
	}
	text := l.src[start:l.pos]
	switch text {
	case "true":
		return Token{Kind: TRUE, Text: text, Span: l.span(start)}, nil
	case "false":
		return Token{Kind: FALSE, Text: text, Span: l.span(start)}, nil
	}
	if Keywords[text] {
		if text == "end" {
			return Token{Kind: END, Text: text, Span: l.span(start)}, nil
		}
		return Token{Kind: KEYWORD, Text: text, Span: l.span(start)}, nil
	}
	return Token{Kind: IDENT, Text: text, Span: l.span(start)}, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '?' || r == '!'
}

// Tokens lexes all of text eagerly and returns the full slice, along
// with every lexical error encountered, in order — convenient for
// the parser, which needs lookahead beyond one token.
func Tokens(file, text string) ([]Token, *source.Map, []error) {
	l, m := New(file, text)
	var toks []Token
	var errs []error
	for {
		tok, err := l.Next()
		if err != nil {
			errs = append(errs, err)
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks, m, errs
}
