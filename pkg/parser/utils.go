package parser

import (
	"slices"
	"strings"

	"github.com/romashorodok/html-parser/pkg/parser/token"
)

// VisitFunc is called for every element in document order. Returning false
// skips the children of the element.
type VisitFunc func(element *Element) (kontinue bool)

func Walk(root *Element, visit VisitFunc) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	for _, child := range root.Children {
		Walk(child, visit)
	}
}

// Find returns the elements below root, root included, that match every
// selector.
func Find(root *Element, selectors ...Selector) []*Element {
	var result []*Element
	Walk(root, func(element *Element) bool {
		for _, selector := range selectors {
			if !selector.Match(element) {
				return true
			}
		}
		result = append(result, element)
		return true
	})
	return result
}

// ContainsClass reports whether the class attribute value holds any of the
// selectors. Classes compare as whole whitespace separated names, and a
// selector like "item news" needs both names.
func ContainsClass(classString string, classSelectors []string) bool {
	classes := strings.Fields(classString)
	for _, selector := range classSelectors {
		if hasClasses(classes, strings.Fields(selector)) {
			return true
		}
	}
	return false
}

func hasClasses(classes, names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if !slices.Contains(classes, name) {
			return false
		}
	}
	return true
}

func (e *Element) Attr(name string) (string, bool) {
	value, ok := e.Attributes[name]
	return value, ok
}

func (e *Element) IsLeaf() bool {
	return e.Children == nil
}

// Text concatenates the content of the subtree with whitespace collapsed.
func (e *Element) Text() string {
	var sb strings.Builder
	Walk(e, func(element *Element) bool {
		text := token.CollapseSpace([]byte(element.Content))
		if len(text) == 0 {
			return true
		}
		if sb.Len() > 0 {
			sb.WriteByte(token.SPACE)
		}
		sb.Write(text)
		return true
	})
	return sb.String()
}
