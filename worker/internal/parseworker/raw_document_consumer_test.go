package parseworker

import (
	"errors"
	"testing"

	"github.com/romashorodok/html-parser/pkg/hashutils"
	"github.com/romashorodok/html-parser/pkg/natsinfo"
	"github.com/romashorodok/html-parser/pkg/parser"
)

func TestParseRawDocument(t *testing.T) {
	raw := &natsinfo.RawDocument{
		ID:          "doc-1",
		Origin:      "example.com",
		ContentType: "text/html; charset=iso-8859-1",
		Body:        []byte("<ul><li>caf\xe9</li></ul>"),
	}

	parsed, err := ParseRawDocument(raw)
	if err != nil {
		t.Fatalf("ParseRawDocument() error = %v", err)
	}

	if parsed.ID != "doc-1" || parsed.Origin != "example.com" || parsed.ParsedAt.IsZero() {
		t.Errorf("parsed = %+v", parsed)
	}
	if parsed.ContentHash != hashutils.ContentHash(raw.Body) {
		t.Errorf("ContentHash = %q, want hash of the raw body", parsed.ContentHash)
	}

	ul := parsed.Document.Root.Children[0]
	if ul.Tag.Kind != parser.UL_TAG || ul.Children[0].Content != "café" {
		t.Errorf("ul = %+v", ul)
	}
}

func TestParseRawDocument_Strict(t *testing.T) {
	raw := &natsinfo.RawDocument{Body: []byte(`<div><p>a</div>`), Strict: true, Encoding: "utf-8"}

	parsed, err := ParseRawDocument(raw)
	if err != nil {
		t.Fatalf("ParseRawDocument() error = %v", err)
	}

	kinds := map[parser.DiagnosticKind]int{}
	for _, diagnostic := range parsed.Document.Diagnostics {
		kinds[diagnostic.Kind]++
	}
	if kinds[parser.UNCLOSED_ELEMENT] != 1 || kinds[parser.MISMATCHED_END_TAG] != 0 {
		t.Errorf("diagnostics = %+v, want the p implicitly closed", parsed.Document.Diagnostics)
	}
}

func TestParseRawDocument_UnknownEncoding(t *testing.T) {
	_, err := ParseRawDocument(&natsinfo.RawDocument{Body: []byte("x"), Encoding: "nope"})
	if !errors.Is(err, ErrUnableDecodeDocument) {
		t.Errorf("ParseRawDocument() error = %v, want ErrUnableDecodeDocument", err)
	}
}
