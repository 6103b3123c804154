package token

import "errors"

// `<` - terminal symbol
// `<div class="a">` - lexeme, the raw slice of a single token.

// Span is a byte range [Start, End) of the source.
type Span struct {
	Start, End int
}

func (s Span) Len() int {
	return s.End - s.Start
}

type TerminalSymbol = byte

const (
	EOF          TerminalSymbol = 0
	L_BRACKET    TerminalSymbol = '<'
	R_BRACKET    TerminalSymbol = '>'
	SLASH        TerminalSymbol = '/'
	BANG         TerminalSymbol = '!'
	QUESTION     TerminalSymbol = '?'
	DASH         TerminalSymbol = '-'
	SPACE        TerminalSymbol = ' '
	NEW_LINE     TerminalSymbol = '\n'
	C_RETURN     TerminalSymbol = '\r'
	TAB          TerminalSymbol = '\t'
	FORM_FEED    TerminalSymbol = '\f'
	EQUALS       TerminalSymbol = '='
	SINGLE_QUOTE TerminalSymbol = '\''
	DOUBLE_QUOTE TerminalSymbol = '"'
)

func IsSpace(symbol TerminalSymbol) bool {
	switch symbol {
	case SPACE, NEW_LINE, C_RETURN, TAB, FORM_FEED:
		return true
	}
	return false
}

func IsQuote(symbol TerminalSymbol) bool {
	return symbol == SINGLE_QUOTE || symbol == DOUBLE_QUOTE
}

// Attributes of a single tag. Last occurrence of a duplicated name wins.
type Attributes map[string]string

var (
	ErrMssingLeftBracket = errors.New("missing left bracket")
	ErrMssingSlash       = errors.New("missing slash")
	ErrUnterminatedQuote = errors.New("unterminated quote")
)
