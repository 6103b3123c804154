package natsinfo

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/romashorodok/html-parser/pkg/parser"
)

var ErrEmptyDocument = errors.New("document has no root")

// RawDocument is markup waiting to be parsed.
type RawDocument struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	ContentType string `json:"content_type,omitempty"`
	Encoding    string `json:"encoding,omitempty"`
	Strict      bool   `json:"strict,omitempty"`
	Body        []byte `json:"body"`
}

func (d *RawDocument) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

func (d *RawDocument) Unmarshal(data []byte) error {
	return json.Unmarshal(data, d)
}

// ParsedDocument is the tree built from a RawDocument.
type ParsedDocument struct {
	ID          string
	Origin      string
	ContentHash string
	ParsedAt    time.Time
	Document    *parser.Document
}

type parsedDocumentDTO struct {
	ID          string              `json:"id"`
	Origin      string              `json:"origin"`
	ContentHash string              `json:"content_hash"`
	ParsedAt    string              `json:"parsed_at"`
	Root        *parser.Element     `json:"root"`
	Diagnostics []parser.Diagnostic `json:"diagnostics,omitempty"`
}

func (d *ParsedDocument) Marshal() ([]byte, error) {
	if d.Document == nil {
		return nil, ErrEmptyDocument
	}
	return json.Marshal(
		&parsedDocumentDTO{
			ID:          d.ID,
			Origin:      d.Origin,
			ContentHash: d.ContentHash,
			ParsedAt:    d.ParsedAt.UTC().Format(time.RFC3339Nano),
			Root:        d.Document.Root,
			Diagnostics: d.Document.Diagnostics,
		},
	)
}

func (d *ParsedDocument) Unmarshal(data []byte) error {
	var dto parsedDocumentDTO

	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	if dto.Root == nil {
		return ErrEmptyDocument
	}

	parsedAt, err := time.Parse(time.RFC3339Nano, dto.ParsedAt)
	if err != nil {
		return err
	}

	d.ID = dto.ID
	d.Origin = dto.Origin
	d.ContentHash = dto.ContentHash
	d.ParsedAt = parsedAt
	d.Document = &parser.Document{
		Root:        dto.Root,
		Diagnostics: dto.Diagnostics,
	}
	return nil
}
