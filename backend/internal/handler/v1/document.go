package handler

import (
	"net/http"

	"go.uber.org/fx"

	"github.com/romashorodok/html-parser/backend/internal/model"
	"github.com/romashorodok/html-parser/backend/internal/service"
	"github.com/romashorodok/html-parser/pkg/httputils"
	"github.com/romashorodok/html-parser/pkg/paginationutils"
	"github.com/romashorodok/html-parser/pkg/parser"
)

type documentHandler struct {
	documentService *service.DocumentService
}

type parseResponse struct {
	*parser.Document
	Matches []*parser.Element `json:"matches,omitempty"`
}

func (hand *documentHandler) Parse(w http.ResponseWriter, r *http.Request, params *ParseQueryParams) {
	document, err := hand.documentService.Parse(service.ParseParams{
		Body:        params.Body,
		ContentType: params.ContentType,
		Encoding:    params.Encoding,
		Strict:      params.Strict,
	})
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	response := parseResponse{Document: document}
	if len(params.Selectors) > 0 {
		response.Matches = parser.Find(document.Root, params.Selectors...)
	}
	httputils.WriteJSON(w, http.StatusOK, &response)
}

type newDocumentResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
	*parser.Document
}

func (hand *documentHandler) NewDocument(w http.ResponseWriter, r *http.Request, params *NewDocumentQueryParams) {
	result, err := hand.documentService.ParseAndStore(r.Context(), service.ParseAndStoreParams{
		ParseParams: service.ParseParams{
			Body:        params.Body,
			ContentType: params.ContentType,
			Encoding:    params.Encoding,
			Strict:      params.Strict,
		},
		Origin: params.Origin,
	})
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	httputils.WriteJSON(w, status, &newDocumentResponse{
		ID:       result.ID.String(),
		Created:  result.Created,
		Document: result.Document,
	})
}

type getDocumentsResponse struct {
	Documents []model.DocumentSummary         `json:"documents"`
	Pages     []paginationutils.PaginationLink `json:"pages"`
}

func (hand *documentHandler) GetDocuments(w http.ResponseWriter, r *http.Request, queryParams *GetDocumentsQueryParams) {
	documents, err := hand.documentService.GetDocuments(r.Context(), service.GetDocumentsParams{
		Origin:   queryParams.Origin,
		Page:     queryParams.Page,
		PageSize: queryParams.PageSize,
	})
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	documentsCount, err := hand.documentService.GetDocumentsCount(r.Context(), queryParams.Origin)
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	pagination := paginationutils.NewPaginationView(*r.URL, paginationutils.NewPaginationViewParams{
		ItemsPerPage:       queryParams.PageSize,
		ItemsCount:         documentsCount,
		PageQueryParamName: PAGE_QUERY_PARAM_NAME,
	})

	pagesLinks, err := pagination.PagesLinks(queryParams.Page)
	if err != nil {
		documentErrHandler(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, &getDocumentsResponse{
		Documents: documents,
		Pages:     pagesLinks,
	})
}

func (hand *documentHandler) GetDocumentByID(w http.ResponseWriter, r *http.Request, params *GetDocumentByIDUrlParams) {
	document, err := hand.documentService.GetDocumentByID(r.Context(), params.ID)
	if err != nil {
		documentErrHandler(w, err)
		return
	}
	httputils.WriteJSON(w, http.StatusOK, &document)
}

var _ DocumentHandler = (*documentHandler)(nil)

type NewDocumentHandlerParams struct {
	fx.In

	DocumentService *service.DocumentService
}

func NewDocumentHandler(params NewDocumentHandlerParams) *documentParamsWrapperHandler {
	return newDocumentParamsWrapper(&documentHandler{
		documentService: params.DocumentService,
	})
}
