package token

type CloseTag struct {
	Name string
}

// Unmarshal reads the name of a raw end tag such as `</div >`.
func (t *CloseTag) Unmarshal(data []byte) (err error) {
	currReader := NewCursor(data)

	if symbol := currReader.Current(); symbol != L_BRACKET {
		return ErrMssingLeftBracket
	}

	if symbol := currReader.Advance(); symbol != SLASH {
		return ErrMssingSlash
	}

	start := currReader.Pos() + 1
	end := start
loop:
	for symbol := currReader.Advance(); !currReader.Exhausted(); symbol = currReader.Advance() {
		switch {
		case symbol == R_BRACKET, symbol == SLASH, IsSpace(symbol):
			break loop
		}
		end = currReader.Pos() + 1
	}

	t.Name = string(currReader.Slice(Span{Start: start, End: end}))
	return nil
}
