package parser

import (
	"encoding/json"
	"strings"

	"github.com/romashorodok/html-parser/pkg/parser/token"
)

type TagKind uint8

const (
	UNKNOWN_TAG TagKind = iota
	ROOT_TAG
	TEXT_TAG
	DOCTYPE_TAG
	XML_TAG
	PHP_TAG

	HTML_TAG
	HEAD_TAG
	BODY_TAG
	META_TAG
	TITLE_TAG
	LINK_TAG
	SCRIPT_TAG
	STYLE_TAG

	DIV_TAG
	SPAN_TAG
	P_TAG
	A_TAG
	H1_TAG
	H2_TAG
	H3_TAG
	H4_TAG
	H5_TAG
	H6_TAG

	MAIN_TAG
	SECTION_TAG
	ARTICLE_TAG
	HEADER_TAG
	NAV_TAG
	FOOTER_TAG
	ASIDE_TAG
	IFRAME_TAG
	NOSCRIPT_TAG

	BUTTON_TAG
	INPUT_TAG
	TEXTAREA_TAG
	FORM_TAG
	OPTION_TAG
	SELECT_TAG

	TABLE_TAG
	TBODY_TAG
	TD_TAG
	TH_TAG
	TR_TAG

	UL_TAG
	OL_TAG
	LI_TAG

	IMG_TAG
)

const (
	ROOT_NAME = "#root"
	TEXT_NAME = "#text"

	DOCTYPE_MARKER        = "!DOCTYPE"
	XML_MARKER            = "?xml"
	PHP_MARKER            = "?php"
	PHP_SHORT_ECHO_MARKER = "?="
)

var tagKinds = map[string]TagKind{
	DOCTYPE_MARKER: DOCTYPE_TAG,
	"!doctype":     DOCTYPE_TAG,
	XML_MARKER:     XML_TAG,
	PHP_MARKER:     PHP_TAG,

	"html":   HTML_TAG,
	"head":   HEAD_TAG,
	"body":   BODY_TAG,
	"meta":   META_TAG,
	"title":  TITLE_TAG,
	"link":   LINK_TAG,
	"script": SCRIPT_TAG,
	"style":  STYLE_TAG,

	"div":  DIV_TAG,
	"span": SPAN_TAG,
	"p":    P_TAG,
	"a":    A_TAG,
	"h1":   H1_TAG,
	"h2":   H2_TAG,
	"h3":   H3_TAG,
	"h4":   H4_TAG,
	"h5":   H5_TAG,
	"h6":   H6_TAG,

	"main":     MAIN_TAG,
	"section":  SECTION_TAG,
	"article":  ARTICLE_TAG,
	"header":   HEADER_TAG,
	"nav":      NAV_TAG,
	"footer":   FOOTER_TAG,
	"aside":    ASIDE_TAG,
	"iframe":   IFRAME_TAG,
	"noscript": NOSCRIPT_TAG,

	"button":   BUTTON_TAG,
	"input":    INPUT_TAG,
	"textarea": TEXTAREA_TAG,
	"form":     FORM_TAG,
	"option":   OPTION_TAG,
	"select":   SELECT_TAG,

	"table": TABLE_TAG,
	"tbody": TBODY_TAG,
	"td":    TD_TAG,
	"th":    TH_TAG,
	"tr":    TR_TAG,

	"ul": UL_TAG,
	"ol": OL_TAG,
	"li": LI_TAG,

	"img": IMG_TAG,
}

var tagKindNames = func() map[TagKind]string {
	names := map[TagKind]string{
		UNKNOWN_TAG: "unknown",
		ROOT_TAG:    "root",
		TEXT_TAG:    "text",
		DOCTYPE_TAG: "doctype",
		XML_TAG:     "xml",
		PHP_TAG:     "php",
	}
	for name, kind := range tagKinds {
		if _, ok := names[kind]; !ok {
			names[kind] = name
		}
	}
	return names
}()

func (k TagKind) String() string {
	return tagKindNames[k]
}

func (k TagKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *TagKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, kindName := range tagKindNames {
		if kindName == name {
			*k = kind
			return nil
		}
	}
	*k = UNKNOWN_TAG
	return nil
}

// Tag is a classification result. Name keeps the name as written in the
// source, which is the only identity an UNKNOWN_TAG has.
type Tag struct {
	Kind TagKind `json:"kind"`
	Name string  `json:"name"`
}

func (t Tag) String() string {
	return t.Name
}

// LookupTag maps a tag name to its kind. Lookup is case-sensitive except
// for the doctype marker written in lower case.
func LookupTag(name string) Tag {
	if kind, ok := tagKinds[name]; ok {
		return Tag{Kind: kind, Name: name}
	}
	if strings.HasPrefix(name, PHP_SHORT_ECHO_MARKER) {
		return Tag{Kind: PHP_TAG, Name: name}
	}
	return Tag{Kind: UNKNOWN_TAG, Name: name}
}

// ClassifyTag classifies a raw tag slice such as `<div class="a">`.
func ClassifyTag(raw string) Tag {
	entries, _ := token.SplitEntries([]byte(raw))
	if len(entries) == 0 {
		return Tag{Kind: UNKNOWN_TAG}
	}
	return LookupTag(entries[0])
}
