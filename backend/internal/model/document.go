package model

import "github.com/romashorodok/html-parser/pkg/parser"

type Document struct {
	ID           string              `json:"id"`
	Origin       string              `json:"origin"`
	ContentHash  string              `json:"content_hash"`
	ElementCount int32               `json:"element_count"`
	ParsedAt     string              `json:"parsed_at"`
	Root         *parser.Element     `json:"root"`
	Diagnostics  []parser.Diagnostic `json:"diagnostics"`
}

type DocumentSummary struct {
	ID               string `json:"id"`
	Origin           string `json:"origin"`
	ContentHash      string `json:"content_hash"`
	ElementCount     int32  `json:"element_count"`
	DiagnosticsCount int64  `json:"diagnostics_count"`
	ParsedAt         string `json:"parsed_at"`
}

var NilDocument = Document{}
