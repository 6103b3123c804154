package parser

import (
	"errors"
	"fmt"

	"github.com/romashorodok/html-parser/pkg/parser/token"
)

type options struct {
	strictNesting bool
	rawSections   bool
}

type Option func(*options)

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRawSections makes a `<!--` comment end only at `-->` and a `<?`
// instruction only at `?>`, so `>` and `<` inside them stay content.
// `<!-->` and `<!--->` are complete comments. A section that reaches the end
// of input without its terminator is scanned again with the plain rules.
func WithRawSections() Option {
	return func(o *options) {
		o.rawSections = true
	}
}

// WithStrictNesting makes an end tag close the nearest open element with the
// same name instead of whatever element is innermost. Elements skipped over
// that way are closed implicitly, an end tag that matches nothing open is
// dropped.
func WithStrictNesting() Option {
	return func(o *options) {
		o.strictNesting = true
	}
}

// AstGenerator rebuilds the element tree from a flat token sequence by
// recursive descent. Tokens are read through an index, each step consumes
// exactly one token, so building always terminates.
type AstGenerator struct {
	tokens []Token
	pos    int
	opts   options

	// names of the elements currently open, innermost last
	open        []string
	diagnostics []Diagnostic
}

func (t *AstGenerator) peekToken() (Token, bool) {
	if t.pos < len(t.tokens) {
		return t.tokens[t.pos], true
	}
	return Token{}, false
}

func (t *AstGenerator) nextToken() (Token, bool) {
	tok, ok := t.peekToken()
	if ok {
		t.pos++
	}
	return tok, ok
}

func (t *AstGenerator) report(kind DiagnosticKind, offset int, format string, args ...any) {
	t.diagnostics = append(t.diagnostics, Diagnostic{
		Kind:    kind,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	})
}

// newElement classifies the tag and parses attributes of a tag token.
func (t *AstGenerator) newElement(tok Token) *Element {
	var tag token.OpenTag
	err := tag.Unmarshal([]byte(tok.Raw))
	if errors.Is(err, token.ErrUnterminatedQuote) {
		t.report(UNTERMINATED_QUOTE, tok.Span.Start, "unterminated quote in `%s` attributes", tag.Name)
	}

	return &Element{
		Tag:        LookupTag(tag.Name),
		Attributes: tag.Attr,
		Offset:     tok.Span.Start,
	}
}

func (t *AstGenerator) isOpen(name string) bool {
	for i := len(t.open) - 1; i >= 0; i-- {
		if t.open[i] == name {
			return true
		}
	}
	return false
}

func appendText(elements []*Element, tok Token) []*Element {
	if n := len(elements); n > 0 && elements[n-1].Tag.Kind == TEXT_TAG {
		elements[n-1].Content += tok.Raw
		return elements
	}
	return append(elements, &Element{
		Tag:     Tag{Kind: TEXT_TAG, Name: TEXT_NAME},
		Content: tok.Raw,
		Offset:  tok.Span.Start,
	})
}

// closeTag handles an end tag met while parent is the innermost open element.
// It reports whether the current level is finished.
func (t *AstGenerator) closeTag(parent *Element, tok Token) bool {
	var closing token.CloseTag
	_ = closing.Unmarshal([]byte(tok.Raw))

	if parent == nil {
		t.nextToken()
		t.report(UNMATCHED_END_TAG, tok.Span.Start, "end tag `%s` has no open element", closing.Name)
		return false
	}

	if closing.Name == parent.Tag.Name {
		t.nextToken()
		return true
	}

	if !t.opts.strictNesting {
		t.nextToken()
		t.report(MISMATCHED_END_TAG, tok.Span.Start, "end tag `%s` closes `%s`", closing.Name, parent.Tag.Name)
		return true
	}

	if t.isOpen(closing.Name) {
		// Leave the token for the matching ancestor.
		t.report(UNCLOSED_ELEMENT, parent.Offset, "element `%s` implicitly closed by `%s`", parent.Tag.Name, closing.Name)
		return true
	}

	t.nextToken()
	t.report(UNMATCHED_END_TAG, tok.Span.Start, "end tag `%s` has no open element", closing.Name)
	return false
}

// build collects the elements of one nesting level. parent is the element
// whose children are being collected, nil for the top level. Text met on a
// nested level is merged into parent.Content.
func (t *AstGenerator) build(parent *Element) []*Element {
	var elements []*Element

	for {
		tok, ok := t.peekToken()
		if !ok {
			if parent != nil {
				t.report(UNCLOSED_ELEMENT, parent.Offset, "element `%s` is never closed", parent.Tag.Name)
			}
			return elements
		}

		switch tok.Type {
		case START_TAG_TOKEN:
			t.nextToken()
			element := t.newElement(tok)
			t.open = append(t.open, element.Tag.Name)
			element.Children = t.build(element)
			t.open = t.open[:len(t.open)-1]
			elements = append(elements, element)

		case TEXT_TOKEN:
			t.nextToken()
			if parent == nil {
				elements = appendText(elements, tok)
			} else {
				parent.Content += tok.Raw
			}

		case END_TAG_TOKEN:
			if t.closeTag(parent, tok) {
				return elements
			}

		case SELF_CLOSING_TAG_TOKEN, DOCTYPE_TOKEN, PROCESSING_INSTRUCTION_TOKEN, SCRIPT_INSTRUCTION_TOKEN:
			t.nextToken()
			elements = append(elements, t.newElement(tok))

		default:
			// Comments leave no trace in the tree.
			t.nextToken()
		}
	}
}

// Generate builds the tree under a synthetic root.
func (t *AstGenerator) Generate() *Element {
	root := &Element{Tag: Tag{Kind: ROOT_TAG, Name: ROOT_NAME}}
	root.Children = t.build(nil)
	return root
}

func (t *AstGenerator) Diagnostics() []Diagnostic {
	return t.diagnostics
}

func NewAstGenerator(tokens []Token, opts ...Option) *AstGenerator {
	return &AstGenerator{
		tokens: tokens,
		opts:   newOptions(opts),
	}
}
