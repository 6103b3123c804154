package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/romashorodok/html-parser/pkg/parser"
)

var (
	ErrUnknownTag          = errors.New("unknown tag")
	ErrInvalidAttrSelector = errors.New("invalid attribute selector")
)

type TagSelector struct {
	kinds map[parser.TagKind]struct{}
}

func (s *TagSelector) Match(element *parser.Element) bool {
	_, ok := s.kinds[element.Tag.Kind]
	return ok
}

var _ parser.Selector = (*TagSelector)(nil)

func NewTagSelector(kinds ...parser.TagKind) *TagSelector {
	selector := &TagSelector{kinds: make(map[parser.TagKind]struct{}, len(kinds))}
	for _, kind := range kinds {
		selector.kinds[kind] = struct{}{}
	}
	return selector
}

// NewTagSelectorFromNames resolves tag names such as `article` or `!DOCTYPE`
// into a TagSelector, with the same lookup the parser classifies tags by.
func NewTagSelectorFromNames(names ...string) (*TagSelector, error) {
	kinds := make([]parser.TagKind, 0, len(names))
	for _, name := range names {
		tag := parser.LookupTag(strings.TrimSpace(name))
		if tag.Kind == parser.UNKNOWN_TAG {
			return nil, errors.Join(ErrUnknownTag, fmt.Errorf("tag %q", name))
		}
		kinds = append(kinds, tag.Kind)
	}
	return NewTagSelector(kinds...), nil
}

// AttrSelector matches elements carrying the attribute. With a non-empty
// value the attribute must also be equal to it.
type AttrSelector struct {
	name  string
	value string
}

func (s *AttrSelector) Match(element *parser.Element) bool {
	value, ok := element.Attr(s.name)
	if !ok {
		return false
	}
	return s.value == "" || s.value == value
}

var _ parser.Selector = (*AttrSelector)(nil)

func NewAttrSelector(name, value string) *AttrSelector {
	return &AttrSelector{name: name, value: value}
}

// ParseAttrSelector parses `name` or `name=value`. The value runs to the end
// of expr and may itself contain '='.
func ParseAttrSelector(expr string) (*AttrSelector, error) {
	name, value, _ := strings.Cut(expr, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Join(ErrInvalidAttrSelector, fmt.Errorf("no attribute name in %q", expr))
	}
	return NewAttrSelector(name, value), nil
}
