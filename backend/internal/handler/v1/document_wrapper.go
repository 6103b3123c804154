package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/romashorodok/html-parser/backend/internal/service"
	"github.com/romashorodok/html-parser/pkg/httputils"
	"github.com/romashorodok/html-parser/pkg/paginationutils"
	"github.com/romashorodok/html-parser/pkg/parser"
	"github.com/romashorodok/html-parser/pkg/parser/selector"
	"github.com/romashorodok/html-parser/pkg/sourceutils"
)

const (
	STRICT_QUERY_PARAM_NAME    = "strict"
	ORIGIN_QUERY_PARAM_NAME    = "origin"
	ENCODING_QUERY_PARAM_NAME  = "encoding"
	CLASS_QUERY_PARAM_NAME     = "class"
	TAG_QUERY_PARAM_NAME       = "tag"
	ATTR_QUERY_PARAM_NAME      = "attr"
	PAGE_QUERY_PARAM_NAME      = "page"
	PAGE_SIZE_QUERY_PARAM_NAME = "page_size"

	MAX_BODY_SIZE int64 = 10 << 20
)

var (
	ErrUnsupportedQueryParam = errors.New("unsupported query param")
	ErrUnsupportedUrlParam   = errors.New("unsupported url param")
	ErrBodyTooLarge          = errors.New("request body too large")
	ErrUnableReadBody        = errors.New("unable read request body")
)

type ParseBodyParams struct {
	Body        []byte
	ContentType string
	Encoding    string
	Strict      bool
}

type ParseQueryParams struct {
	ParseBodyParams
	Classes []string
	// Built from the class, tag and attr params. A match satisfies all of them.
	Selectors []parser.Selector
}

type NewDocumentQueryParams struct {
	ParseBodyParams
	Origin string
}

type GetDocumentsQueryParams struct {
	Origin   string
	Page     int
	PageSize int
}

type GetDocumentByIDUrlParams struct {
	ID uuid.UUID
}

type DocumentHandler interface {
	Parse(w http.ResponseWriter, r *http.Request, params *ParseQueryParams)
	NewDocument(w http.ResponseWriter, r *http.Request, params *NewDocumentQueryParams)
	GetDocuments(w http.ResponseWriter, r *http.Request, queryParams *GetDocumentsQueryParams)
	GetDocumentByID(w http.ResponseWriter, r *http.Request, params *GetDocumentByIDUrlParams)
}

type DocumentHandlerWrapper interface {
	Parse(w http.ResponseWriter, r *http.Request)
	NewDocument(w http.ResponseWriter, r *http.Request)
	GetDocuments(w http.ResponseWriter, r *http.Request)
	GetDocumentByID(w http.ResponseWriter, r *http.Request)
}

type documentParamsWrapperHandler struct {
	handler DocumentHandler
}

func getStrictQuery(r *http.Request) (bool, error) {
	strictStr := r.URL.Query().Get(STRICT_QUERY_PARAM_NAME)
	if strictStr == "" {
		return false, nil
	}
	strict, err := strconv.ParseBool(strictStr)
	if err != nil {
		return false, errors.Join(fmt.Errorf("unsupported `%s` query value %s. Support only booleans", STRICT_QUERY_PARAM_NAME, strictStr), ErrUnsupportedQueryParam)
	}
	return strict, nil
}

func getSelectorsQuery(r *http.Request) ([]parser.Selector, error) {
	query := r.URL.Query()
	var selectors []parser.Selector

	if classes := query[CLASS_QUERY_PARAM_NAME]; len(classes) > 0 {
		selectors = append(selectors, selector.NewClassSelector(classes))
	}
	if tags := query[TAG_QUERY_PARAM_NAME]; len(tags) > 0 {
		tagSelector, err := selector.NewTagSelectorFromNames(tags...)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("unsupported `%s` query value. Err:%s", TAG_QUERY_PARAM_NAME, err), ErrUnsupportedQueryParam)
		}
		selectors = append(selectors, tagSelector)
	}
	for _, expr := range query[ATTR_QUERY_PARAM_NAME] {
		attrSelector, err := selector.ParseAttrSelector(expr)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("unsupported `%s` query value. Err:%s", ATTR_QUERY_PARAM_NAME, err), ErrUnsupportedQueryParam)
		}
		selectors = append(selectors, attrSelector)
	}
	return selectors, nil
}

func getPageQuery(r *http.Request, defaultPage int) (int, error) {
	pageStr := r.URL.Query().Get(PAGE_QUERY_PARAM_NAME)
	if pageStr == "" {
		return defaultPage, nil
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return -1, errors.Join(fmt.Errorf("unsupported `%s` page value %s. Support only positive numbers", PAGE_QUERY_PARAM_NAME, pageStr), ErrUnsupportedQueryParam)
	}
	return page, nil
}

func getPageSizeQuery(r *http.Request, defaultPageSize int) (int, error) {
	pageSizeStr := r.URL.Query().Get(PAGE_SIZE_QUERY_PARAM_NAME)
	if pageSizeStr == "" {
		return defaultPageSize, nil
	}
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > service.MAX_PAGE_SIZE {
		return -1, errors.Join(fmt.Errorf("unsupported `%s` page size value %s. Support numbers from 1 to %d", PAGE_SIZE_QUERY_PARAM_NAME, pageSizeStr, service.MAX_PAGE_SIZE), ErrUnsupportedQueryParam)
	}
	return pageSize, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MAX_BODY_SIZE))
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return nil, ErrBodyTooLarge
	}
	if err != nil {
		return nil, errors.Join(ErrUnableReadBody, err)
	}
	return body, nil
}

func getParseBodyParams(w http.ResponseWriter, r *http.Request) (ParseBodyParams, error) {
	strict, err := getStrictQuery(r)
	if err != nil {
		return ParseBodyParams{}, err
	}

	body, err := readBody(w, r)
	if err != nil {
		return ParseBodyParams{}, err
	}

	return ParseBodyParams{
		Body:        body,
		ContentType: r.Header.Get("Content-Type"),
		Encoding:    r.URL.Query().Get(ENCODING_QUERY_PARAM_NAME),
		Strict:      strict,
	}, nil
}

func (h *documentParamsWrapperHandler) Parse(w http.ResponseWriter, r *http.Request) {
	selectors, err := getSelectorsQuery(r)
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	bodyParams, err := getParseBodyParams(w, r)
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	h.handler.Parse(w, r, &ParseQueryParams{
		ParseBodyParams: bodyParams,
		Classes:         r.URL.Query()[CLASS_QUERY_PARAM_NAME],
		Selectors:       selectors,
	})
}

func (h *documentParamsWrapperHandler) NewDocument(w http.ResponseWriter, r *http.Request) {
	bodyParams, err := getParseBodyParams(w, r)
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	h.handler.NewDocument(w, r, &NewDocumentQueryParams{
		ParseBodyParams: bodyParams,
		Origin:          r.URL.Query().Get(ORIGIN_QUERY_PARAM_NAME),
	})
}

func (h *documentParamsWrapperHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	page, err := getPageQuery(r, service.DEFAULT_PAGE)
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	pageSize, err := getPageSizeQuery(r, service.DEFAULT_PAGE_SIZE)
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	h.handler.GetDocuments(w, r, &GetDocumentsQueryParams{
		Origin:   r.URL.Query().Get(ORIGIN_QUERY_PARAM_NAME),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *documentParamsWrapperHandler) GetDocumentByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		documentErrHandler(w, errors.Join(fmt.Errorf("document id must be uuid. Err:%s", err), ErrUnsupportedUrlParam))
		return
	}

	h.handler.GetDocumentByID(w, r, &GetDocumentByIDUrlParams{
		ID: id,
	})
}

func (h *documentParamsWrapperHandler) OnRouter(router http.Handler) {
	switch r := router.(type) {
	case *chi.Mux:
		baseURL := "/api/v1"
		r.Post(baseURL+"/parse", h.Parse)
		r.Post(baseURL+"/documents", h.NewDocument)
		r.Get(baseURL+"/documents", h.GetDocuments)
		r.Get(baseURL+"/documents/{id}", h.GetDocumentByID)
	}
}

var (
	_ httputils.Handler      = (*documentParamsWrapperHandler)(nil)
	_ DocumentHandlerWrapper = (*documentParamsWrapperHandler)(nil)
)

func newDocumentParamsWrapper(handler DocumentHandler) *documentParamsWrapperHandler {
	return &documentParamsWrapperHandler{
		handler: handler,
	}
}

func documentErrHandler(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentsNotFound), errors.Is(err, service.ErrDocumentNotFound):
		httputils.WriteErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnsupportedQueryParam), errors.Is(err, paginationutils.ErrInvalidPage):
		httputils.WriteErrorResponse(w, http.StatusNotAcceptable, err.Error())
	case errors.Is(err, ErrUnsupportedUrlParam):
		httputils.WriteErrorResponse(w, http.StatusPreconditionRequired, err.Error())
	case errors.Is(err, ErrBodyTooLarge):
		httputils.WriteErrorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrEmptyDocument):
		httputils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sourceutils.ErrUnknownEncoding):
		httputils.WriteErrorResponse(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		httputils.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}
