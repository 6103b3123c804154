package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/romashorodok/html-parser/pkg/parser"
)

type Format string

const (
	FORMAT_JSON   Format = "json"
	FORMAT_TREE   Format = "tree"
	FORMAT_TOKENS Format = "tokens"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FORMAT_JSON, FORMAT_TREE, FORMAT_TOKENS:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w %q, use json, tree or tokens", ErrUnsupportedFormat, s)
}

// ListFlag collects the values of a repeated flag.
type ListFlag []string

func (c *ListFlag) Set(arg string) error {
	*c = append(*c, arg)
	return nil
}

func (c *ListFlag) String() string {
	return strings.Join(*c, ",")
}

func RenderJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}

func formatAttributes(attributes map[string]string) string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteByte(' ')
		sb.WriteString(name)
		if value := attributes[name]; value != "" {
			sb.WriteByte('=')
			sb.WriteString(strconv.Quote(value))
		}
	}
	return sb.String()
}

func renderElement(w io.Writer, element *parser.Element, depth int) error {
	indent := strings.Repeat("  ", depth)

	var line string
	if element.Tag.Kind == parser.TEXT_TAG {
		line = fmt.Sprintf("%s%s", indent, strconv.Quote(element.Content))
	} else {
		line = fmt.Sprintf("%s%s (%s)%s", indent, element.Tag.Name, element.Tag.Kind, formatAttributes(element.Attributes))
		if element.Content != "" {
			line += " " + strconv.Quote(element.Content)
		}
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if element.IsLeaf() {
		return nil
	}

	for _, child := range element.Children {
		if err := renderElement(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// RenderTree prints one element per line, children indented below their
// parent.
func RenderTree(w io.Writer, elements ...*parser.Element) error {
	for _, element := range elements {
		if err := renderElement(w, element, 0); err != nil {
			return err
		}
	}
	return nil
}

func isTagToken(tt parser.TokenType) bool {
	switch tt {
	case parser.START_TAG_TOKEN, parser.END_TAG_TOKEN, parser.SELF_CLOSING_TAG_TOKEN,
		parser.DOCTYPE_TOKEN, parser.PROCESSING_INSTRUCTION_TOKEN, parser.SCRIPT_INSTRUCTION_TOKEN:
		return true
	}
	return false
}

// RenderTokens prints one token per line as `start:end TYPE "raw"`, tag
// tokens followed by the kind of their tag.
func RenderTokens(w io.Writer, tokens []parser.Token) error {
	for _, token := range tokens {
		line := fmt.Sprintf("%d:%d\t%s\t%s", token.Span.Start, token.Span.End, token.Type, strconv.Quote(token.Raw))
		if isTagToken(token.Type) {
			line += "\t" + parser.ClassifyTag(token.Raw).Kind.String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
