package parser

import (
	"io"
	"sort"
)

// Parse builds the element tree of input. It never fails: empty input gives
// a root without children, malformed input gives the best structure the
// tolerant rules allow.
func Parse(input string) *Element {
	return ParseDocument(input).Root
}

// ParseDocument is Parse plus the diagnostics found on the way.
func ParseDocument(input string, opts ...Option) *Document {
	return parseBytes([]byte(input), opts...)
}

// ParseReader reads r to the end and parses it. Only read errors are
// returned.
func ParseReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseBytes(data, opts...), nil
}

func parseBytes(data []byte, opts ...Option) *Document {
	tok := NewTokenizer(data, opts...)
	tokens := tok.All()

	ast := NewAstGenerator(tokens, opts...)
	root := ast.Generate()

	diagnostics := append(tok.Diagnostics(), ast.Diagnostics()...)
	sort.SliceStable(diagnostics, func(i, j int) bool {
		return diagnostics[i].Offset < diagnostics[j].Offset
	})

	return &Document{
		Root:        root,
		Diagnostics: diagnostics,
	}
}
