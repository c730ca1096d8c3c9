package lexer

import (
	"strings"

	"tapec/internal/diag"
	"tapec/internal/token"
)

// instructions is the full target-language alphabet. Everything else inside
// an inline block is discarded.
const instructions = "+-><[].,"

// Lexer holds the state while tokenizing input
// It reads character by character and hands out one token per NextToken call,
// so the parser can consume the stream lazily.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position (after current char)
	ch           byte // current character under examination
	line         int
	err          error // first error; once set, only EOF is produced
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar advances to the next character
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
	}
	// If we've reached the end, set ch to 0 (NUL byte, signifies EOF)
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
}

// peekChar looks at the next character without consuming it
// Used for two-character tokens like == and +=.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// Err returns the first error encountered, if any.
func (l *Lexer) Err() error {
	return l.err
}

// NextToken returns the next token from input.
// After an error or the end of input it keeps returning EOF tokens; the
// error itself is available through Err.
func (l *Lexer) NextToken() token.Token {
	if l.err != nil {
		return token.Token{Type: token.EOF, Line: l.line}
	}

	l.skipWhitespaceAndComments()

	tok := token.Token{Line: l.line}

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		return tok
	case '{', '}', '(', ')', ';', ',':
		tok.Type = token.TokenType(string(l.ch))
		tok.Literal = string(l.ch)
	case '=':
		tok = l.twoCharOp(token.ASSIGN, token.EQ)
	case '+':
		tok = l.twoCharOp(token.PLUS, token.PLUS_EQ)
	case '-':
		tok = l.twoCharOp(token.MINUS, token.MINUS_EQ)
	case '*':
		tok = l.twoCharOp(token.STAR, token.STAR_EQ)
	case '/':
		tok = l.twoCharOp(token.SLASH, token.SLASH_EQ)
	case '%':
		tok = l.twoCharOp(token.PERCENT, token.PERCENT_EQ)
	case '<':
		tok = l.twoCharOp(token.LT, token.LT_EQ)
	case '>':
		tok = l.twoCharOp(token.GT, token.GT_EQ)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = token.NOT_EQ
			tok.Literal = "!="
		} else {
			return l.fail("invalid token '!'")
		}
	case '\'':
		return l.readCharLiteral()
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		return l.fail("invalid token '%c'", l.ch)
	}

	l.readChar()
	return tok
}

// twoCharOp lexes an operator that becomes a compound when followed by '='.
func (l *Lexer) twoCharOp(single, withEq token.TokenType) token.Token {
	tok := token.Token{Type: single, Literal: string(l.ch), Line: l.line}
	if l.peekChar() == '=' {
		l.readChar()
		tok.Type = withEq
		tok.Literal = string(withEq)
	}
	return tok
}

// skipWhitespaceAndComments ignores whitespace and '#' line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readIdentifier reads [A-Za-z_][A-Za-z0-9_]* and classifies it.
// true/false lex as integer literals; "inline" switches the lexer into its
// raw-instruction mode.
func (l *Lexer) readIdentifier() token.Token {
	line := l.line
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	ident := l.input[position:l.position]

	switch ident {
	case "true":
		return token.Token{Type: token.INT, Literal: ident, Value: 1, Line: line}
	case "false":
		return token.Token{Type: token.INT, Literal: ident, Value: 0, Line: line}
	case "inline":
		return l.readInline(line)
	}

	tok := token.Token{Type: token.LookupIdent(ident), Literal: ident, Line: line}
	return tok
}

// readInline consumes everything up to and including the next ';' and keeps
// only target-language instructions. '#' comments inside the block are
// stripped like anywhere else, so a ';' inside a comment does not terminate
// the block.
func (l *Lexer) readInline(line int) token.Token {
	var code strings.Builder
	for l.ch != ';' {
		switch l.ch {
		case 0:
			return l.fail("unterminated 'inline' block")
		case '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if strings.IndexByte(instructions, l.ch) >= 0 {
			code.WriteByte(l.ch)
		}
		l.readChar()
	}
	l.readChar() // consume ';'
	return token.Token{Type: token.INLINE, Literal: code.String(), Line: line}
}

// readNumber reads a sequence of digits
func (l *Lexer) readNumber() token.Token {
	line := l.line
	position := l.position
	value := 0
	for isDigit(l.ch) {
		value = value*10 + int(l.ch-'0')
		l.readChar()
	}
	return token.Token{Type: token.INT, Literal: l.input[position:l.position], Value: value, Line: line}
}

// readCharLiteral reads 'x' or an escape like '\n'; the value is the byte.
func (l *Lexer) readCharLiteral() token.Token {
	line := l.line
	start := l.position
	l.readChar() // consume opening quote
	if l.ch == 0 || l.ch == '\n' || l.ch == '\'' {
		return l.fail("invalid character literal")
	}

	var value byte
	if l.ch == '\\' {
		l.readChar()
		escaped, ok := escape(l.ch)
		if !ok {
			return l.fail("invalid escape sequence '\\%c'", l.ch)
		}
		value = escaped
	} else {
		value = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return l.fail("unterminated character literal")
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.INT, Literal: l.input[start:l.position], Value: int(value), Line: line}
}

// escape maps an escape character to its byte value.
func escape(ch byte) (byte, bool) {
	switch ch {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'b':
		return '\b', true
	case 'a':
		return 0x07, true
	case 'f':
		return 0x0C, true
	case 'v':
		return 0x0B, true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	}
	return 0, false
}

// fail records a lex error and ends the stream.
func (l *Lexer) fail(format string, args ...interface{}) token.Token {
	l.err = diag.Lexf(l.line, format, args...)
	return token.Token{Type: token.EOF, Line: l.line}
}

// isLetter checks if ch is a letter or underscore
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if ch is 0-9
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
