package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const newDocument = `-- name: NewDocument :exec
INSERT INTO documents (id, origin, content_hash, root, element_count, parsed_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type NewDocumentParams struct {
	ID           uuid.UUID
	Origin       string
	ContentHash  string
	Root         json.RawMessage
	ElementCount int32
	ParsedAt     time.Time
}

func (q *Queries) NewDocument(ctx context.Context, arg NewDocumentParams) error {
	_, err := q.db.ExecContext(ctx, newDocument,
		arg.ID,
		arg.Origin,
		arg.ContentHash,
		[]byte(arg.Root),
		arg.ElementCount,
		arg.ParsedAt,
	)
	return err
}

const newDiagnostic = `-- name: NewDiagnostic :exec
INSERT INTO document_diagnostics (document_id, kind, "offset", message)
VALUES ($1, $2, $3, $4)
`

type NewDiagnosticParams struct {
	DocumentID uuid.UUID
	Kind       string
	Offset     int32
	Message    string
}

func (q *Queries) NewDiagnostic(ctx context.Context, arg NewDiagnosticParams) error {
	_, err := q.db.ExecContext(ctx, newDiagnostic,
		arg.DocumentID,
		arg.Kind,
		arg.Offset,
		arg.Message,
	)
	return err
}

const getDocumentIDByHash = `-- name: GetDocumentIDByHash :one
SELECT id FROM documents WHERE content_hash = $1
`

func (q *Queries) GetDocumentIDByHash(ctx context.Context, contentHash string) (uuid.UUID, error) {
	row := q.db.QueryRowContext(ctx, getDocumentIDByHash, contentHash)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const getDocumentByID = `-- name: GetDocumentByID :one
SELECT d.id, d.origin, d.content_hash, d.root, d.element_count, d.parsed_at,
       COALESCE(
           json_agg(json_build_object('kind', g.kind, 'offset', g."offset", 'message', g.message) ORDER BY g."offset")
               FILTER (WHERE g.id IS NOT NULL),
           '[]'
       ) AS diagnostics
FROM documents d
LEFT JOIN document_diagnostics g ON g.document_id = d.id
WHERE d.id = $1
GROUP BY d.id
`

type GetDocumentByIDRow struct {
	ID           uuid.UUID
	Origin       string
	ContentHash  string
	Root         json.RawMessage
	ElementCount int32
	ParsedAt     time.Time
	Diagnostics  json.RawMessage
}

func (q *Queries) GetDocumentByID(ctx context.Context, id uuid.UUID) (GetDocumentByIDRow, error) {
	row := q.db.QueryRowContext(ctx, getDocumentByID, id)
	var i GetDocumentByIDRow
	err := row.Scan(
		&i.ID,
		&i.Origin,
		&i.ContentHash,
		&i.Root,
		&i.ElementCount,
		&i.ParsedAt,
		&i.Diagnostics,
	)
	return i, err
}

const documents = `-- name: Documents :many
SELECT d.id, d.origin, d.content_hash, d.element_count, d.parsed_at,
       (SELECT count(*) FROM document_diagnostics g WHERE g.document_id = d.id) AS diagnostics_count
FROM documents d
WHERE ($1::text IS NULL OR d.origin = $1)
ORDER BY d.parsed_at DESC
LIMIT $2 OFFSET $3
`

type DocumentsParams struct {
	Origin sql.NullString
	Limit  int64
	Offset int64
}

type DocumentsRow struct {
	ID               uuid.UUID
	Origin           string
	ContentHash      string
	ElementCount     int32
	ParsedAt         time.Time
	DiagnosticsCount int64
}

func (q *Queries) Documents(ctx context.Context, arg DocumentsParams) ([]DocumentsRow, error) {
	rows, err := q.db.QueryContext(ctx, documents, arg.Origin, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DocumentsRow
	for rows.Next() {
		var i DocumentsRow
		if err := rows.Scan(
			&i.ID,
			&i.Origin,
			&i.ContentHash,
			&i.ElementCount,
			&i.ParsedAt,
			&i.DiagnosticsCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getDocumentCount = `-- name: GetDocumentCount :one
SELECT count(*) FROM documents WHERE ($1::text IS NULL OR origin = $1)
`

func (q *Queries) GetDocumentCount(ctx context.Context, origin sql.NullString) (int64, error) {
	row := q.db.QueryRowContext(ctx, getDocumentCount, origin)
	var count int64
	err := row.Scan(&count)
	return count, err
}
