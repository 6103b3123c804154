package selector

import "github.com/romashorodok/html-parser/pkg/parser"

// ClassSelector matches elements whose `class` attribute contains any of the
// classes. No classes matches every element.
type ClassSelector struct {
	classes []string
}

func (s *ClassSelector) Match(element *parser.Element) bool {
	if len(s.classes) == 0 {
		return true
	}
	class, ok := element.Attr("class")
	if !ok {
		return false
	}
	return parser.ContainsClass(class, s.classes)
}

var _ parser.Selector = (*ClassSelector)(nil)

func NewClassSelector(classes []string) *ClassSelector {
	return &ClassSelector{
		classes: classes,
	}
}
