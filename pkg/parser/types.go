package parser

import (
	"github.com/romashorodok/html-parser/pkg/parser/token"
)

type TokenType uint8

const (
	EOF_TOKEN TokenType = iota
	TEXT_TOKEN
	START_TAG_TOKEN
	END_TAG_TOKEN
	SELF_CLOSING_TAG_TOKEN
	COMMENT_TOKEN
	DOCTYPE_TOKEN
	// `<?xml ...?>` and other declaration-like instructions
	PROCESSING_INSTRUCTION_TOKEN
	// `<?php ...?>` and `<?= ...?>`
	SCRIPT_INSTRUCTION_TOKEN
)

var tokenTypeNames = [...]string{
	EOF_TOKEN:                    "EOF",
	TEXT_TOKEN:                   "TEXT",
	START_TAG_TOKEN:              "START_TAG",
	END_TAG_TOKEN:                "END_TAG",
	SELF_CLOSING_TAG_TOKEN:       "SELF_CLOSING_TAG",
	COMMENT_TOKEN:                "COMMENT",
	DOCTYPE_TOKEN:                "DOCTYPE",
	PROCESSING_INSTRUCTION_TOKEN: "PROCESSING_INSTRUCTION",
	SCRIPT_INSTRUCTION_TOKEN:     "SCRIPT_INSTRUCTION",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token is a single lexical unit. Raw is the exact source slice including
// delimiters.
type Token struct {
	Type TokenType
	Raw  string
	Span token.Span
}

// Element is a node of the parsed tree.
//
// Empty Content means the node carries no text, nil Attributes means the
// originating tag had no attribute entries and nil Children marks a leaf.
type Element struct {
	Tag        Tag              `json:"tag"`
	Content    string           `json:"content,omitempty"`
	Attributes token.Attributes `json:"attributes,omitempty"`
	Children   []*Element       `json:"children,omitempty"`
	Offset     int              `json:"offset"`
}

type DiagnosticKind string

const (
	UNMATCHED_END_TAG  DiagnosticKind = "UNMATCHED_END_TAG"
	MISMATCHED_END_TAG DiagnosticKind = "MISMATCHED_END_TAG"
	UNCLOSED_ELEMENT   DiagnosticKind = "UNCLOSED_ELEMENT"
	UNTERMINATED_QUOTE DiagnosticKind = "UNTERMINATED_QUOTE"
	UNTERMINATED_TAG   DiagnosticKind = "UNTERMINATED_TAG"
)

// Diagnostic is a non-fatal finding. It never changes the shape of the tree.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Offset  int            `json:"offset"`
	Message string         `json:"message"`
}

type Document struct {
	Root        *Element     `json:"root"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

type Selector interface {
	Match(*Element) bool
}
