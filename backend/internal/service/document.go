package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/backend/internal/accessor"
	"github.com/romashorodok/html-parser/backend/internal/model"
	"github.com/romashorodok/html-parser/backend/internal/storage"
	"github.com/romashorodok/html-parser/backend/pkg/txutils"
	"github.com/romashorodok/html-parser/pkg/hashutils"
	"github.com/romashorodok/html-parser/pkg/parser"
	"github.com/romashorodok/html-parser/pkg/sourceutils"
	"github.com/romashorodok/html-parser/pkg/sqlutils"
)

type DocumentService struct {
	db      *sql.DB
	queries *storage.Queries
	kv      nats.KeyValue
	logger  *zap.Logger
}

var (
	ErrUnableDecodeDocument = errors.New("unable decode the document")
	ErrUnableCreateDocument = errors.New("unable create the document")
	ErrEmptyDocument        = errors.New("document is empty")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentsNotFound    = errors.New("documents not found")
	ErrDocumentsCount       = errors.New("unable get documents count")
)

const (
	DEFAULT_PAGE      int = 1
	DEFAULT_PAGE_SIZE int = 10
	MAX_PAGE_SIZE     int = 100
)

type ParseParams struct {
	Body        []byte
	ContentType string
	Encoding    string
	Strict      bool
}

// Parse decodes the body to UTF-8 and builds its tree. Nothing is stored.
func (s *DocumentService) Parse(params ParseParams) (*parser.Document, error) {
	data, err := sourceutils.Decode(bytes.NewReader(params.Body), params.ContentType, params.Encoding)
	if err != nil {
		return nil, errors.Join(ErrUnableDecodeDocument, err)
	}

	var opts []parser.Option
	if params.Strict {
		opts = append(opts, parser.WithStrictNesting())
	}
	return parser.ParseReader(bytes.NewReader(data), opts...)
}

type StoreParams struct {
	// ID of the document, a new one is generated when empty or malformed.
	ID          string
	Origin      string
	ContentHash string
	ParsedAt    time.Time
	Document    *parser.Document
}

type StoreResult struct {
	ID      uuid.UUID
	Created bool
}

func countElements(root *parser.Element) (count int32) {
	parser.Walk(root, func(element *parser.Element) bool {
		if element != root {
			count++
		}
		return true
	})
	return count
}

func documentID(id string) uuid.UUID {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.New()
}

// Store saves the document with its diagnostics. A document whose content
// hash is already known is not stored twice, the existing id is returned.
func (s *DocumentService) Store(ctx context.Context, params StoreParams) (result StoreResult, err error) {
	if params.Document == nil || params.Document.Root == nil {
		return result, ErrEmptyDocument
	}

	root, err := json.Marshal(params.Document.Root)
	if err != nil {
		return result, errors.Join(ErrUnableCreateDocument, err)
	}

	err = txutils.WithTransaction(ctx, s.db, func(queries *storage.Queries) error {
		existingID, err := queries.GetDocumentIDByHash(ctx, params.ContentHash)
		if err == nil {
			result = StoreResult{ID: existingID}
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.Join(ErrUnableCreateDocument, err)
		}

		id := documentID(params.ID)
		if err = queries.NewDocument(ctx, storage.NewDocumentParams{
			ID:           id,
			Origin:       params.Origin,
			ContentHash:  params.ContentHash,
			Root:         root,
			ElementCount: countElements(params.Document.Root),
			ParsedAt:     params.ParsedAt,
		}); err != nil {
			s.logger.Error("unable create the document", zap.String("origin", params.Origin), zap.Error(err))
			return errors.Join(ErrUnableCreateDocument, err)
		}

		for _, diagnostic := range params.Document.Diagnostics {
			if err = queries.NewDiagnostic(ctx, storage.NewDiagnosticParams{
				DocumentID: id,
				Kind:       string(diagnostic.Kind),
				Offset:     int32(diagnostic.Offset),
				Message:    diagnostic.Message,
			}); err != nil {
				s.logger.Error("unable create the document diagnostic", zap.Stringer("id", id), zap.Error(err))
				return errors.Join(ErrUnableCreateDocument, err)
			}
		}

		result = StoreResult{ID: id, Created: true}
		return nil
	})
	if err == nil && result.Created {
		s.invalidateCount(params.Origin)
	}
	return result, err
}

type ParseAndStoreParams struct {
	ParseParams
	Origin string
}

type ParseAndStoreResult struct {
	StoreResult
	Document *parser.Document
}

func (s *DocumentService) ParseAndStore(ctx context.Context, params ParseAndStoreParams) (ParseAndStoreResult, error) {
	if len(params.Body) == 0 {
		return ParseAndStoreResult{}, ErrEmptyDocument
	}

	document, err := s.Parse(params.ParseParams)
	if err != nil {
		return ParseAndStoreResult{}, err
	}

	stored, err := s.Store(ctx, StoreParams{
		Origin:      params.Origin,
		ContentHash: hashutils.ContentHash(params.Body),
		ParsedAt:    time.Now(),
		Document:    document,
	})
	if err != nil {
		return ParseAndStoreResult{}, err
	}

	return ParseAndStoreResult{
		StoreResult: stored,
		Document:    document,
	}, nil
}

func (s *DocumentService) GetDocumentByID(ctx context.Context, id uuid.UUID) (model.Document, error) {
	document, err := s.queries.GetDocumentByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NilDocument, ErrDocumentNotFound
	}
	if err != nil {
		return model.NilDocument, err
	}

	return accessor.DocumentFromDocumentByIDRow(document)
}

type GetDocumentsParams struct {
	Origin   string
	Page     int
	PageSize int
}

func (s *DocumentService) GetDocuments(ctx context.Context, params GetDocumentsParams) ([]model.DocumentSummary, error) {
	documents, err := s.queries.Documents(ctx, storage.DocumentsParams{
		Origin: sqlutils.GetNullableSqlString(params.Origin),
		Limit:  int64(params.PageSize),
		Offset: int64((params.Page - 1) * params.PageSize),
	})
	if errors.Is(err, sql.ErrNoRows) || (err == nil && len(documents) == 0) {
		return nil, ErrDocumentsNotFound
	}
	if err != nil {
		return nil, err
	}

	return accessor.DocumentSummariesFromDocumentsRows(documents), nil
}

func documentsCountCacheKey(origin string) string {
	return hashutils.GetCacheKey("documents", "count", origin)
}

// GetDocumentsCount is served from the key-value bucket when a fresh value
// is there.
func (s *DocumentService) GetDocumentsCount(ctx context.Context, origin string) (int, error) {
	cacheKey := documentsCountCacheKey(origin)

	if s.kv != nil {
		if val, err := s.kv.Get(cacheKey); err == nil {
			if count, err := strconv.Atoi(string(val.Value())); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.queries.GetDocumentCount(ctx, sqlutils.GetNullableSqlString(origin))
	if err != nil {
		return -1, errors.Join(ErrDocumentsCount, err)
	}

	if s.kv != nil {
		if _, err = s.kv.Put(cacheKey, []byte(fmt.Sprint(count))); err != nil {
			s.logger.Warn("unable store cache", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return int(count), nil
}

func (s *DocumentService) invalidateCount(origin string) {
	if s.kv == nil {
		return
	}
	for _, key := range []string{documentsCountCacheKey(origin), documentsCountCacheKey("")} {
		if err := s.kv.Delete(key); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			s.logger.Warn("unable invalidate cache", zap.String("key", key), zap.Error(err))
		}
	}
}

type NewDocumentServiceParams struct {
	fx.In

	DB     *sql.DB
	KV     nats.KeyValue
	Logger *zap.Logger
}

func NewDocumentService(params NewDocumentServiceParams) *DocumentService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		db:      params.DB,
		queries: storage.New(params.DB),
		kv:      params.KV,
		logger:  logger.Named("document-service"),
	}
}
