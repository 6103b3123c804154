package token

import "bytes"

// OpenTag is the name and attributes of a raw tag slice such as
// `<img src="a.png" />`, `<!DOCTYPE html>` or `<?xml version="1.0"?>`.
type OpenTag struct {
	Name string
	Attr Attributes
}

// tagBody strips the surrounding brackets and the trailing `?` of an
// instruction.
func tagBody(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{L_BRACKET})
	data = bytes.TrimSuffix(data, []byte{R_BRACKET})
	if len(data) > 1 && data[0] == QUESTION {
		data = bytes.TrimSuffix(data, []byte{QUESTION})
	}
	return data
}

// SplitEntries splits a tag body into whitespace separated entries.
// Whitespace and slashes inside quotes are kept, a slash outside quotes is
// dropped. The second result is false when a quote was never closed, in which
// case the rest of the body was absorbed into the last entry.
func SplitEntries(data []byte) ([]string, bool) {
	var (
		entries []string
		entry   []byte
		quote   TerminalSymbol
	)

	for _, symbol := range tagBody(data) {
		switch {
		case quote != 0:
			if symbol == quote {
				quote = 0
			}
			entry = append(entry, symbol)
		case IsQuote(symbol):
			quote = symbol
			entry = append(entry, symbol)
		case IsSpace(symbol):
			if len(entry) > 0 {
				entries = append(entries, string(entry))
				entry = entry[:0]
			}
		case symbol == SLASH:
		default:
			entry = append(entry, symbol)
		}
	}

	if len(entry) > 0 {
		entries = append(entries, string(entry))
	}

	return entries, quote == 0
}

func unquote(value string) string {
	if len(value) == 0 || !IsQuote(value[0]) {
		return value
	}
	quote := value[0]
	value = value[1:]
	if n := len(value); n > 0 && value[n-1] == quote {
		value = value[:n-1]
	}
	return value
}

func (t *OpenTag) unmarshalAttr(entries []string) {
	for _, entry := range entries {
		if entry == string(SLASH) {
			continue
		}

		key, value := entry, ""
		if idx := bytes.IndexByte([]byte(entry), EQUALS); idx >= 0 {
			key, value = entry[:idx], unquote(entry[idx+1:])
		}

		if t.Attr == nil {
			t.Attr = make(Attributes)
		}
		t.Attr[key] = value
	}
}

// Unmarshal fills the tag name and attributes from a raw tag slice.
// Attr stays nil when the tag has no attribute entries. An unterminated quote
// still fills the fields and is reported with ErrUnterminatedQuote.
func (t *OpenTag) Unmarshal(data []byte) (err error) {
	if len(data) == 0 || data[0] != L_BRACKET {
		return ErrMssingLeftBracket
	}

	entries, closed := SplitEntries(data)
	if !closed {
		err = ErrUnterminatedQuote
	}

	t.Name, t.Attr = "", nil
	if len(entries) == 0 {
		return err
	}

	t.Name = entries[0]
	t.unmarshalAttr(entries[1:])

	return err
}

// ParseAttributes returns the attributes of a raw tag slice, nil when there
// are none.
func ParseAttributes(data []byte) Attributes {
	var tag OpenTag
	_ = tag.Unmarshal(data)
	return tag.Attr
}
