// lexer splits query text into tokens. The tokens are fed into the parser.
package parser

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	// tkKeyword is a reserved word such as SELECT, FROM or WHERE.
	tkKeyword tokenType = iota + 1
	// tkIdentifier is a table, field, alias or option name.
	tkIdentifier
	// tkString is a quoted string. The value holds the unescaped text.
	tkString
	// tkNumber is a numeric literal like 1, -2 or 3.5e2.
	tkNumber
	// tkOperator is a comparator or boolean operator symbol.
	tkOperator
	// tkSeparator is punctuation such as "(", ",", "[" or "*".
	tkSeparator
	// tkEOF marks the end of input.
	tkEOF
)

func (t tokenType) String() string {
	switch t {
	case tkKeyword:
		return "keyword"
	case tkIdentifier:
		return "identifier"
	case tkString:
		return "string"
	case tkNumber:
		return "number"
	case tkOperator:
		return "operator"
	case tkSeparator:
		return "separator"
	case tkEOF:
		return "end of input"
	}
	return "unknown"
}

type token struct {
	tokenType tokenType
	value     string
	pos       int
}

const (
	kwSelect = "SELECT"
	kwFrom   = "FROM"
	kwWhere  = "WHERE"
	kwAs     = "AS"
	kwAnd    = "AND"
	kwOr     = "OR"
	kwLike   = "LIKE"
	kwTrue   = "TRUE"
	kwFalse  = "FALSE"
	kwNull   = "NULL"
	kwSort   = "SORT"
	kwAsc    = "ASC"
	kwDesc   = "DESC"
)

var keywords = []string{
	kwSelect,
	kwFrom,
	kwWhere,
	kwAs,
	kwAnd,
	kwOr,
	kwLike,
	kwTrue,
	kwFalse,
	kwNull,
	kwSort,
	kwAsc,
	kwDesc,
}

// operators lists multi-character symbols before their prefixes.
var operators = []string{"==", "!=", "<>", "<=", ">=", "&&", "||", "=", "<", ">", "&", "|"}

type lexer struct {
	src   string
	start int
	end   int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// lex returns all tokens followed by a single tkEOF token.
func (l *lexer) lex() ([]token, error) {
	ret := []token{}
	for {
		t, err := l.getToken()
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
		if t.tokenType == tkEOF {
			return ret, nil
		}
	}
}

func (l *lexer) getToken() (token, error) {
	l.skipWhiteSpace()
	l.start = l.end
	if l.start >= len(l.src) {
		return token{tkEOF, "", l.start}, nil
	}

	r := l.peek(l.start)
	switch {
	case l.isIdentStart(r):
		return l.scanWord(), nil
	case l.isDigit(r), r == '-' && l.isDigit(l.peekAfter(l.start)):
		return l.scanNumber(), nil
	case r == '\'' || r == '"':
		return l.scanString(r)
	case l.isSeparator(r):
		l.next()
		return l.emit(tkSeparator), nil
	}

	for _, op := range operators {
		if strings.HasPrefix(l.src[l.start:], op) {
			l.end = l.start + len(op)
			return l.emit(tkOperator), nil
		}
	}
	return token{}, &SyntaxError{Pos: l.start, Message: "unexpected character " + strconv.QuoteRune(r)}
}

func (l *lexer) emit(tt tokenType) token {
	return token{tokenType: tt, value: l.src[l.start:l.end], pos: l.start}
}

func (l *lexer) peek(pos int) rune {
	if len(l.src) <= pos {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[pos:])
	return r
}

// peekAfter returns the rune following the one at pos.
func (l *lexer) peekAfter(pos int) rune {
	if len(l.src) <= pos {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.src[pos:])
	return l.peek(pos + size)
}

func (l *lexer) next() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.end:])
	l.end += size
	return r
}

func (l *lexer) skipWhiteSpace() {
	for l.end < len(l.src) && unicode.IsSpace(l.peek(l.end)) {
		l.next()
	}
}

func (l *lexer) scanWord() token {
	l.next()
	for l.end < len(l.src) && l.isIdentPart(l.peek(l.end)) {
		l.next()
	}
	value := l.src[l.start:l.end]
	if uw := strings.ToUpper(value); slices.Contains(keywords, uw) {
		return token{tokenType: tkKeyword, value: uw, pos: l.start}
	}
	return l.emit(tkIdentifier)
}

func (l *lexer) scanNumber() token {
	if l.peek(l.end) == '-' {
		l.next()
	}
	l.scanDigits()
	if l.peek(l.end) == '.' && l.isDigit(l.peekAfter(l.end)) {
		l.next()
		l.scanDigits()
	}
	if r := l.peek(l.end); r == 'e' || r == 'E' {
		save := l.end
		l.next()
		if r := l.peek(l.end); r == '+' || r == '-' {
			l.next()
		}
		if !l.isDigit(l.peek(l.end)) {
			// Not an exponent after all, e.g. "10em"
			l.end = save
		} else {
			l.scanDigits()
		}
	}
	return l.emit(tkNumber)
}

func (l *lexer) scanDigits() {
	for l.end < len(l.src) && l.isDigit(l.peek(l.end)) {
		l.next()
	}
}

// scanString reads a string quoted with q. Backslash escapes the next
// character; \n and \t produce newline and tab.
func (l *lexer) scanString(q rune) (token, error) {
	l.next()
	var b strings.Builder
	for {
		if l.end >= len(l.src) {
			return token{}, &SyntaxError{Pos: l.start, Message: "unterminated string"}
		}
		r := l.next()
		switch r {
		case q:
			return token{tokenType: tkString, value: b.String(), pos: l.start}, nil
		case '\\':
			if l.end >= len(l.src) {
				return token{}, &SyntaxError{Pos: l.start, Message: "unterminated string"}
			}
			switch e := l.next(); e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(e)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (*lexer) isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func (l *lexer) isIdentPart(r rune) bool {
	return l.isIdentStart(r) || l.isDigit(r) || r == '.'
}

func (*lexer) isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (*lexer) isSeparator(r rune) bool {
	return r == ',' || r == '(' || r == ')' || r == '[' || r == ']' || r == '*'
}
