package selector

import (
	"errors"
	"testing"

	"github.com/romashorodok/html-parser/pkg/parser"
)

const page = `<div class="feed">
<article class="item news"><a href="/a/1">First</a></article>
<article class="item"><a href="/a/2" rel="nofollow">Second</a></article>
<p class="news">aside</p>
</div>`

func TestClassSelector(t *testing.T) {
	root := parser.Parse(page)

	items := parser.Find(root, NewClassSelector([]string{"news"}))
	if len(items) != 2 {
		t.Fatalf("found %d elements, want 2", len(items))
	}

	articles := parser.Find(root, NewClassSelector([]string{"news"}), NewTagSelector(parser.ARTICLE_TAG))
	if len(articles) != 1 || articles[0].Text() != "First" {
		t.Errorf("articles = %+v, want the single 'First' article", articles)
	}

	if all := parser.Find(root, NewClassSelector(nil)); len(all) < 6 {
		t.Errorf("empty class selector matched %d elements, want every element", len(all))
	}
}

func TestAttrSelector(t *testing.T) {
	root := parser.Parse(page)

	links := parser.Find(root, NewAttrSelector("href", ""))
	if len(links) != 2 {
		t.Fatalf("found %d links, want 2", len(links))
	}

	nofollow := parser.Find(root, NewAttrSelector("rel", "nofollow"))
	if len(nofollow) != 1 {
		t.Fatalf("found %d nofollow links, want 1", len(nofollow))
	}
	if href, _ := nofollow[0].Attr("href"); href != "/a/2" {
		t.Errorf("href = %q, want '/a/2'", href)
	}
}

func TestClassSelector_WholeNames(t *testing.T) {
	root := parser.Parse(`<p class="newsletter">a</p><p class="news-feed">b</p><p class="lead news">c</p>`)

	matches := parser.Find(root, NewClassSelector([]string{"news"}))
	if len(matches) != 1 || matches[0].Content != "c" {
		t.Errorf("matches = %+v, want only the 'lead news' paragraph", matches)
	}
}

func TestNewTagSelectorFromNames(t *testing.T) {
	root := parser.Parse(page)

	tags, err := NewTagSelectorFromNames("article", "p")
	if err != nil {
		t.Fatalf("NewTagSelectorFromNames() error = %v", err)
	}
	if found := parser.Find(root, tags); len(found) != 3 {
		t.Errorf("found %d elements, want 2 articles and 1 paragraph", len(found))
	}

	for _, name := range []string{"blink", "", "ARTICLE"} {
		if _, err := NewTagSelectorFromNames(name); !errors.Is(err, ErrUnknownTag) {
			t.Errorf("NewTagSelectorFromNames(%q) error = %v, want ErrUnknownTag", name, err)
		}
	}
}

func TestParseAttrSelector(t *testing.T) {
	root := parser.Parse(`<a href="/a?x=1">one</a><a href="/b" rel="nofollow">two</a>`)

	tests := []struct {
		expr string
		want int
	}{
		{"href", 2},
		{"rel=nofollow", 1},
		{"href=/a?x=1", 1},
		{"rel=", 1},
		{"rel=follow", 0},
		{"title", 0},
	}
	for _, tt := range tests {
		attr, err := ParseAttrSelector(tt.expr)
		if err != nil {
			t.Fatalf("ParseAttrSelector(%q) error = %v", tt.expr, err)
		}
		if found := parser.Find(root, attr); len(found) != tt.want {
			t.Errorf("ParseAttrSelector(%q) found %d elements, want %d", tt.expr, len(found), tt.want)
		}
	}

	for _, expr := range []string{"", "=x", " =x"} {
		if _, err := ParseAttrSelector(expr); !errors.Is(err, ErrInvalidAttrSelector) {
			t.Errorf("ParseAttrSelector(%q) error = %v, want ErrInvalidAttrSelector", expr, err)
		}
	}
}
