package token

// Cursor is a view over the input bytes, read front to back.
// Reads past the end return EOF, callers check Exhausted to tell it apart
// from a literal NUL byte.
type Cursor struct {
	data []byte
	pos  int
	size int
}

func (c *Cursor) Current() TerminalSymbol {
	if c.pos < c.size {
		return c.data[c.pos]
	}
	return EOF
}

func (c *Cursor) Peek() TerminalSymbol {
	return c.PeekN(1)
}

// PeekN returns the byte n positions ahead without moving.
func (c *Cursor) PeekN(n int) TerminalSymbol {
	if idx := c.pos + n; idx >= 0 && idx < c.size {
		return c.data[idx]
	}
	return EOF
}

// Advance never overruns the input, it clamps at the end.
func (c *Cursor) Advance() TerminalSymbol {
	if c.pos < c.size {
		c.pos++
	}
	return c.Current()
}

// Seek moves the cursor to pos, clamped to the input.
func (c *Cursor) Seek(pos int) {
	switch {
	case pos < 0:
		c.pos = 0
	case pos > c.size:
		c.pos = c.size
	default:
		c.pos = pos
	}
}

func (c *Cursor) Exhausted() bool {
	return c.pos >= c.size
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return c.size
}

func (c *Cursor) Slice(span Span) []byte {
	return c.data[span.Start:span.End]
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{
		data: data,
		size: len(data),
	}
}
