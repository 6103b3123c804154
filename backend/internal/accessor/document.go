package accessor

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/romashorodok/html-parser/backend/internal/model"
	"github.com/romashorodok/html-parser/backend/internal/storage"
	"github.com/romashorodok/html-parser/pkg/parser"
)

var ErrUnableGetDocument = errors.New("unable get document")

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func DocumentFromDocumentByIDRow(row storage.GetDocumentByIDRow) (model.Document, error) {
	var root parser.Element
	if err := json.Unmarshal(row.Root, &root); err != nil {
		return model.NilDocument, errors.Join(ErrUnableGetDocument, err)
	}

	var diagnostics []parser.Diagnostic
	if err := json.Unmarshal(row.Diagnostics, &diagnostics); err != nil {
		return model.NilDocument, errors.Join(ErrUnableGetDocument, err)
	}

	return model.Document{
		ID:           row.ID.String(),
		Origin:       row.Origin,
		ContentHash:  row.ContentHash,
		ElementCount: row.ElementCount,
		ParsedAt:     formatTime(row.ParsedAt),
		Root:         &root,
		Diagnostics:  diagnostics,
	}, nil
}

func DocumentSummariesFromDocumentsRows(rows []storage.DocumentsRow) []model.DocumentSummary {
	result := make([]model.DocumentSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.DocumentSummary{
			ID:               row.ID.String(),
			Origin:           row.Origin,
			ContentHash:      row.ContentHash,
			ElementCount:     row.ElementCount,
			DiagnosticsCount: row.DiagnosticsCount,
			ParsedAt:         formatTime(row.ParsedAt),
		})
	}
	return result
}
