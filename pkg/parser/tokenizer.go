package parser

import (
	"fmt"

	"github.com/romashorodok/html-parser/pkg/parser/token"
)

// Tokenizer splits markup into tokens in a single forward pass. It never
// fails, a construct it cannot finish is handed out as text.
//
// Every `<` starts a new token and every `>` ends the pending one, unless
// WithRawSections is set.
//
// Bytes are read one at a time and never decoded, so only ASCII drives the
// classification. Multi-byte UTF-8 sequences pass through unchanged inside
// Raw, other multi-byte encodings must be converted before tokenizing.
type Tokenizer struct {
	reader *token.Cursor
	// pending bytes of the token being built, always a contiguous source range
	data token.Span
	// classification of the pending token, TEXT_TOKEN until a `<` is seen
	tt   TokenType
	opts options
	// start of a raw section that ran to the end of input, it is scanned
	// again with the plain rules
	plainAt int

	diagnostics []Diagnostic
}

func (tok *Tokenizer) pendingRaw() []byte {
	return tok.reader.Slice(token.Span{Start: tok.data.Start, End: tok.reader.Pos()})
}

func (tok *Tokenizer) hasPending() bool {
	return tok.reader.Pos() > tok.data.Start
}

func (tok *Tokenizer) emit(tt TokenType) Token {
	tok.data.End = tok.reader.Pos()
	t := Token{
		Type: tt,
		Raw:  string(tok.pendingRaw()),
		Span: tok.data,
	}
	tok.data = token.Span{Start: tok.data.End, End: tok.data.End}
	tok.tt = TEXT_TOKEN
	return t
}

func (tok *Tokenizer) classify() TokenType {
	switch tok.reader.Peek() {
	case token.SLASH:
		return END_TAG_TOKEN
	case token.BANG:
		switch tok.reader.PeekN(2) {
		case 'D', 'd':
			return DOCTYPE_TOKEN
		}
		return COMMENT_TOKEN
	case token.QUESTION:
		switch tok.reader.PeekN(2) {
		case 'p', token.EQUALS:
			return SCRIPT_INSTRUCTION_TOKEN
		}
		return PROCESSING_INSTRUCTION_TOKEN
	}
	return START_TAG_TOKEN
}

func (tok *Tokenizer) isComment() bool {
	raw := tok.pendingRaw()
	return tok.tt == COMMENT_TOKEN && len(raw) >= 4 && string(raw[:4]) == "<!--"
}

func (tok *Tokenizer) isInstruction() bool {
	return tok.tt == PROCESSING_INSTRUCTION_TOKEN || tok.tt == SCRIPT_INSTRUCTION_TOKEN
}

// inRawSection reports whether the pending token only ends at its own
// terminator.
func (tok *Tokenizer) inRawSection() bool {
	if !tok.opts.rawSections || tok.data.Start == tok.plainAt {
		return false
	}
	return tok.isComment() || tok.isInstruction()
}

// terminates reports whether the `>` under the cursor closes the pending
// token.
func (tok *Tokenizer) terminates() bool {
	if !tok.inRawSection() {
		return true
	}
	raw := tok.pendingRaw()
	n := len(raw)
	if tok.isComment() {
		// `<!--` itself ends with the two dashes, which makes `<!-->` and
		// `<!--->` complete.
		return raw[n-1] == token.DASH && raw[n-2] == token.DASH
	}
	return raw[n-1] == token.QUESTION
}

func (tok *Tokenizer) report(format string, args ...any) {
	raw := tok.pendingRaw()
	if len(raw) > 16 {
		raw = raw[:16]
	}
	tok.diagnostics = append(tok.diagnostics, Diagnostic{
		Kind:    UNTERMINATED_TAG,
		Offset:  tok.data.Start,
		Message: fmt.Sprintf(format, append([]any{tok.tt, raw}, args...)...),
	})
}

func (tok *Tokenizer) unterminated() {
	tok.report("%s `%s` is not closed, kept as text")
}

// rescan moves back to the start of the pending raw section.
func (tok *Tokenizer) rescan() {
	tok.report("%s `%s` has no terminator, scanned again up to the first `>`")
	tok.plainAt = tok.data.Start
	tok.reader.Seek(tok.data.Start)
	tok.tt = TEXT_TOKEN
}

func (tok *Tokenizer) Next() Token {
	for {
		for !tok.reader.Exhausted() {
			switch tok.reader.Current() {
			case token.L_BRACKET:
				if tok.inRawSection() {
					break
				}
				if tok.hasPending() {
					if tok.tt != TEXT_TOKEN {
						tok.unterminated()
					}
					return tok.emit(TEXT_TOKEN)
				}
				tok.tt = tok.classify()

			case token.SLASH:
				if tok.tt == START_TAG_TOKEN && tok.reader.Peek() == token.R_BRACKET {
					tok.tt = SELF_CLOSING_TAG_TOKEN
				}

			case token.R_BRACKET:
				if tok.terminates() {
					tok.reader.Advance()
					return tok.emit(tok.tt)
				}
			}

			tok.reader.Advance()
		}

		if tok.hasPending() && tok.inRawSection() {
			tok.rescan()
			continue
		}
		break
	}

	if tok.hasPending() {
		if tok.tt != TEXT_TOKEN {
			tok.unterminated()
		}
		return tok.emit(TEXT_TOKEN)
	}

	end := tok.reader.Len()
	return Token{Type: EOF_TOKEN, Span: token.Span{Start: end, End: end}}
}

// Diagnostics found so far.
func (tok *Tokenizer) Diagnostics() []Diagnostic {
	return tok.diagnostics
}

// All returns every remaining token, EOF excluded.
func (tok *Tokenizer) All() []Token {
	var tokens []Token
	for t := tok.Next(); t.Type != EOF_TOKEN; t = tok.Next() {
		tokens = append(tokens, t)
	}
	return tokens
}

func NewTokenizer(data []byte, opts ...Option) *Tokenizer {
	return &Tokenizer{
		reader:  token.NewCursor(data),
		tt:      TEXT_TOKEN,
		opts:    newOptions(opts),
		plainAt: -1,
	}
}

// Tokenize returns the tokens of input in document order.
func Tokenize(input string, opts ...Option) []Token {
	return NewTokenizer([]byte(input), opts...).All()
}
