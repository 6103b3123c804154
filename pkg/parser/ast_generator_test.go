package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/romashorodok/html-parser/pkg/parser/token"
)

func diagnosticKinds(diagnostics []Diagnostic) []DiagnosticKind {
	var kinds []DiagnosticKind
	for _, d := range diagnostics {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func TestParse_TextOnly(t *testing.T) {
	root := Parse("hello world")

	if root.Tag.Kind != ROOT_TAG {
		t.Fatalf("root kind = %s, want root", root.Tag.Kind)
	}
	if len(root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(root.Children))
	}
	text := root.Children[0]
	if text.Tag.Kind != TEXT_TAG || text.Content != "hello world" {
		t.Errorf("child = %s %q, want text 'hello world'", text.Tag.Kind, text.Content)
	}
}

func TestParse_Empty(t *testing.T) {
	root := Parse("")
	if root.Tag.Kind != ROOT_TAG {
		t.Errorf("root kind = %s, want root", root.Tag.Kind)
	}
	if root.Children != nil || root.Attributes != nil || root.Content != "" {
		t.Errorf("empty input root = %+v, want bare root", root)
	}
}

func TestParse_SelfClosing(t *testing.T) {
	root := Parse(`<img src="a.png" />`)
	if len(root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(root.Children))
	}

	img := root.Children[0]
	if img.Tag.Kind != IMG_TAG {
		t.Errorf("kind = %s, want img", img.Tag.Kind)
	}
	if !reflect.DeepEqual(img.Attributes, token.Attributes{"src": "a.png"}) {
		t.Errorf("attributes = %v, want src=a.png", img.Attributes)
	}
	if img.Content != "" || img.Children != nil {
		t.Errorf("img must be a leaf without content, got %+v", img)
	}
}

func TestParse_Nested(t *testing.T) {
	doc := ParseDocument(`<div class="x"><p>hi</p></div>`)
	root := doc.Root

	if len(root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(root.Children))
	}
	div := root.Children[0]
	if div.Tag.Kind != DIV_TAG {
		t.Errorf("kind = %s, want div", div.Tag.Kind)
	}
	if !reflect.DeepEqual(div.Attributes, token.Attributes{"class": "x"}) {
		t.Errorf("attributes = %v, want class=x", div.Attributes)
	}
	if len(div.Children) != 1 {
		t.Fatalf("div has %d children, want 1", len(div.Children))
	}
	p := div.Children[0]
	if p.Tag.Kind != P_TAG || p.Content != "hi" {
		t.Errorf("child = %s %q, want p 'hi'", p.Tag.Kind, p.Content)
	}
	if p.Attributes != nil || p.Children != nil {
		t.Errorf("p = %+v, want no attributes and no children", p)
	}
	if len(doc.Diagnostics) != 0 {
		t.Errorf("diagnostics = %+v, want none", doc.Diagnostics)
	}
}

func TestParse_CommentIgnored(t *testing.T) {
	root := Parse(`<p>a</p><!-- note --><span>b</span>`)
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	if root.Children[0].Tag.Kind != P_TAG || root.Children[0].Content != "a" {
		t.Errorf("first child = %+v, want p 'a'", root.Children[0])
	}
	if root.Children[1].Tag.Kind != SPAN_TAG || root.Children[1].Content != "b" {
		t.Errorf("second child = %+v, want span 'b'", root.Children[1])
	}

	root = Parse("x<!-- c -->y")
	if len(root.Children) != 1 || root.Children[0].Content != "xy" {
		t.Errorf("text around comment = %+v, want single text 'xy'", root.Children)
	}
}

func TestParse_AbruptComment(t *testing.T) {
	for _, opts := range [][]Option{nil, {WithRawSections()}} {
		root := ParseDocument("<!-->x<p>hi</p>", opts...).Root
		if len(root.Children) != 2 {
			t.Fatalf("root has %d children, want 2: %+v", len(root.Children), root.Children)
		}
		if text := root.Children[0]; text.Tag.Kind != TEXT_TAG || text.Content != "x" {
			t.Errorf("first child = %+v, want text 'x'", text)
		}
		if p := root.Children[1]; p.Tag.Kind != P_TAG || p.Content != "hi" {
			t.Errorf("second child = %+v, want p 'hi'", p)
		}
	}
}

func TestParse_RawSections(t *testing.T) {
	input := `<!-- <b>x</b> --><p>y</p><?php if ($a > 1) ?>`

	root := ParseDocument(input, WithRawSections()).Root
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2: %+v", len(root.Children), root.Children)
	}
	if p := root.Children[0]; p.Tag.Kind != P_TAG || p.Content != "y" {
		t.Errorf("first child = %+v, want p 'y'", p)
	}
	if php := root.Children[1]; php.Tag.Kind != PHP_TAG {
		t.Errorf("second child = %+v, want php instruction", php)
	}

	// An unclosed section does not swallow the elements after it.
	root = ParseDocument("<!-- open <p>z</p>", WithRawSections()).Root
	ps := Find(root, kindSelector(P_TAG))
	if len(ps) != 1 || ps[0].Content != "z" {
		t.Errorf("p elements = %+v, want one p 'z'", ps)
	}
}

type kindSelector TagKind

func (k kindSelector) Match(element *Element) bool {
	return element.Tag.Kind == TagKind(k)
}

func TestParse_NoAttributes(t *testing.T) {
	root := Parse("<br/>")
	br := root.Children[0]
	if br.Attributes != nil {
		t.Errorf("attributes = %v, want nil", br.Attributes)
	}
	if br.Tag.Kind != UNKNOWN_TAG || br.Tag.Name != "br" {
		t.Errorf("tag = %+v, want unknown 'br'", br.Tag)
	}
}

func TestParse_TrailingText(t *testing.T) {
	doc := ParseDocument("<div>tail")
	div := doc.Root.Children[0]
	if div.Content != "tail" {
		t.Errorf("content = %q, want 'tail'", div.Content)
	}
	if got := diagnosticKinds(doc.Diagnostics); !reflect.DeepEqual(got, []DiagnosticKind{UNCLOSED_ELEMENT}) {
		t.Errorf("diagnostics = %v, want [UNCLOSED_ELEMENT]", got)
	}
}

func TestParse_Document(t *testing.T) {
	input := `<!DOCTYPE html><html class="" [sdadsa] sadads-fsdaff ><?php $test = "asdad" ?><!-- test --><div>content abc 123</div><img /></html>`
	root := Parse(input)

	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	if root.Children[0].Tag.Kind != DOCTYPE_TAG {
		t.Errorf("first child = %s, want doctype", root.Children[0].Tag.Kind)
	}

	html := root.Children[1]
	wantAttr := token.Attributes{"class": "", "[sdadsa]": "", "sadads-fsdaff": ""}
	if html.Tag.Kind != HTML_TAG || !reflect.DeepEqual(html.Attributes, wantAttr) {
		t.Errorf("html = %+v, want html with %v", html, wantAttr)
	}

	wantKinds := []TagKind{PHP_TAG, DIV_TAG, IMG_TAG}
	if len(html.Children) != len(wantKinds) {
		t.Fatalf("html has %d children, want %d", len(html.Children), len(wantKinds))
	}
	for i, kind := range wantKinds {
		if html.Children[i].Tag.Kind != kind {
			t.Errorf("html child[%d] = %s, want %s", i, html.Children[i].Tag.Kind, kind)
		}
	}
	if html.Children[1].Content != "content abc 123" {
		t.Errorf("div content = %q", html.Children[1].Content)
	}
}

func TestParse_TextMerging(t *testing.T) {
	root := Parse("a<p>b</p>c")
	if len(root.Children) != 3 {
		t.Fatalf("root has %d children, want 3", len(root.Children))
	}
	for i, want := range []string{"a", "b", "c"} {
		if root.Children[i].Content != want {
			t.Errorf("child[%d] content = %q, want %q", i, root.Children[i].Content, want)
		}
	}

	div := Parse("<div>a<p>b</p>c</div>").Children[0]
	if div.Content != "ac" || len(div.Children) != 1 {
		t.Errorf("div = %q with %d children, want 'ac' with 1", div.Content, len(div.Children))
	}
}

func TestParse_List(t *testing.T) {
	ul := Parse("<ul><li>a</li><li>b</li></ul>").Children[0]
	if ul.Tag.Kind != UL_TAG || len(ul.Children) != 2 {
		t.Fatalf("ul = %+v, want ul with 2 items", ul)
	}
	if ul.Text() != "a b" {
		t.Errorf("Text() = %q, want 'a b'", ul.Text())
	}
}

func TestParse_PositionalEndTags(t *testing.T) {
	doc := ParseDocument("<div><p>a</div></p>")
	div := doc.Root.Children[0]

	if div.Tag.Kind != DIV_TAG || len(div.Children) != 1 || div.Children[0].Content != "a" {
		t.Errorf("div = %+v, want div with p 'a'", div)
	}
	want := []DiagnosticKind{MISMATCHED_END_TAG, MISMATCHED_END_TAG}
	if got := diagnosticKinds(doc.Diagnostics); !reflect.DeepEqual(got, want) {
		t.Errorf("diagnostics = %v, want %v", got, want)
	}
}

func TestParse_StrictNesting(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTree  string
		wantKinds []DiagnosticKind
	}{
		{"implicit close", "<div><p>a</div>after", "div(p) #text", []DiagnosticKind{UNCLOSED_ELEMENT}},
		{"stray end tag", "<div></span></div>", "div", []DiagnosticKind{UNMATCHED_END_TAG}},
		{"matching", "<div><p>a</p></div>", "div(p)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ParseDocument(tt.input, WithStrictNesting())
			if got := shape(doc.Root.Children); got != tt.wantTree {
				t.Errorf("tree = %q, want %q", got, tt.wantTree)
			}
			if got := diagnosticKinds(doc.Diagnostics); !reflect.DeepEqual(got, tt.wantKinds) {
				t.Errorf("diagnostics = %v, want %v", got, tt.wantKinds)
			}
		})
	}
}

func TestParse_UnmatchedEndTag(t *testing.T) {
	doc := ParseDocument("</p>text")
	if len(doc.Root.Children) != 1 || doc.Root.Children[0].Content != "text" {
		t.Errorf("children = %+v, want single text", doc.Root.Children)
	}
	if len(doc.Diagnostics) != 1 || doc.Diagnostics[0].Kind != UNMATCHED_END_TAG || doc.Diagnostics[0].Offset != 0 {
		t.Errorf("diagnostics = %+v, want UNMATCHED_END_TAG at 0", doc.Diagnostics)
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	doc := ParseDocument(`<div title="x>y</div>`)
	div := doc.Root.Children[0]
	if div.Content != "y" {
		t.Errorf("content = %q, want 'y'", div.Content)
	}
	if got := diagnosticKinds(doc.Diagnostics); !reflect.DeepEqual(got, []DiagnosticKind{UNTERMINATED_QUOTE}) {
		t.Errorf("diagnostics = %v, want [UNTERMINATED_QUOTE]", got)
	}
}

func TestParse_DiagnosticsSorted(t *testing.T) {
	doc := ParseDocument("<div></span><p")
	for i := 1; i < len(doc.Diagnostics); i++ {
		if doc.Diagnostics[i-1].Offset > doc.Diagnostics[i].Offset {
			t.Fatalf("diagnostics not sorted: %+v", doc.Diagnostics)
		}
	}
	if len(doc.Diagnostics) != 2 {
		t.Errorf("got %d diagnostics, want 2: %+v", len(doc.Diagnostics), doc.Diagnostics)
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader("<title>T</title>"))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if title := doc.Root.Children[0]; title.Tag.Kind != TITLE_TAG || title.Content != "T" {
		t.Errorf("title = %+v", title)
	}
}

// shape renders element names with children in parentheses.
func shape(elements []*Element) string {
	var parts []string
	for _, e := range elements {
		part := e.Tag.Name
		if e.Children != nil {
			part += "(" + shape(e.Children) + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
