package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/romashorodok/html-parser/backend/internal/service"
	"github.com/romashorodok/html-parser/pkg/parser"
)

type recordingHandler struct {
	parse       *ParseQueryParams
	newDocument *NewDocumentQueryParams
	documents   *GetDocumentsQueryParams
	byID        *GetDocumentByIDUrlParams
}

func (h *recordingHandler) Parse(w http.ResponseWriter, r *http.Request, params *ParseQueryParams) {
	h.parse = params
}

func (h *recordingHandler) NewDocument(w http.ResponseWriter, r *http.Request, params *NewDocumentQueryParams) {
	h.newDocument = params
}

func (h *recordingHandler) GetDocuments(w http.ResponseWriter, r *http.Request, params *GetDocumentsQueryParams) {
	h.documents = params
}

func (h *recordingHandler) GetDocumentByID(w http.ResponseWriter, r *http.Request, params *GetDocumentByIDUrlParams) {
	h.byID = params
}

func newTestRouter(handler DocumentHandler) *chi.Mux {
	router := chi.NewRouter()
	newDocumentParamsWrapper(handler).OnRouter(router)
	return router
}

func serve(router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWrapper_QueryParams(t *testing.T) {
	recorder := &recordingHandler{}
	router := newTestRouter(recorder)

	rec := serve(router, http.MethodPost, "/api/v1/parse?strict=true&class=a&class=b&encoding=latin1&tag=p&tag=div&attr=id&attr=rel%3Dnofollow", []byte("<p>x</p>"))
	if rec.Code != http.StatusOK {
		t.Fatalf("parse status = %d", rec.Code)
	}
	if p := recorder.parse; p == nil || !p.Strict || p.Encoding != "latin1" || len(p.Classes) != 2 || string(p.Body) != "<p>x</p>" {
		t.Errorf("parse params = %+v", recorder.parse)
	}
	// class, tag and one selector per attr
	if p := recorder.parse; len(p.Selectors) != 4 {
		t.Errorf("parse selectors = %d, want 4", len(p.Selectors))
	}

	serve(router, http.MethodPost, "/api/v1/documents?origin=example.com", []byte("<p>x</p>"))
	if p := recorder.newDocument; p == nil || p.Origin != "example.com" || p.Strict {
		t.Errorf("new document params = %+v", recorder.newDocument)
	}

	serve(router, http.MethodGet, "/api/v1/documents?page=3&page_size=5", nil)
	if p := recorder.documents; p == nil || p.Page != 3 || p.PageSize != 5 {
		t.Errorf("documents params = %+v", recorder.documents)
	}

	serve(router, http.MethodGet, "/api/v1/documents", nil)
	if p := recorder.documents; p.Page != service.DEFAULT_PAGE || p.PageSize != service.DEFAULT_PAGE_SIZE {
		t.Errorf("default documents params = %+v", recorder.documents)
	}

	id := uuid.New()
	serve(router, http.MethodGet, "/api/v1/documents/"+id.String(), nil)
	if p := recorder.byID; p == nil || p.ID != id {
		t.Errorf("by id params = %+v, want %s", recorder.byID, id)
	}
}

func TestWrapper_InvalidParams(t *testing.T) {
	router := newTestRouter(&recordingHandler{})

	tests := []struct {
		name   string
		method string
		target string
		body   []byte
		want   int
	}{
		{"strict", http.MethodPost, "/api/v1/parse?strict=maybe", nil, http.StatusNotAcceptable},
		{"tag", http.MethodPost, "/api/v1/parse?tag=blink", nil, http.StatusNotAcceptable},
		{"attr", http.MethodPost, "/api/v1/parse?attr=%3Dx", nil, http.StatusNotAcceptable},
		{"page", http.MethodGet, "/api/v1/documents?page=0", nil, http.StatusNotAcceptable},
		{"page size", http.MethodGet, "/api/v1/documents?page_size=1000", nil, http.StatusNotAcceptable},
		{"id", http.MethodGet, "/api/v1/documents/42", nil, http.StatusPreconditionRequired},
		{"body", http.MethodPost, "/api/v1/parse", bytes.Repeat([]byte("a"), int(MAX_BODY_SIZE)+1), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.target, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d. Body: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

type parseResult struct {
	Root        *parser.Element     `json:"root"`
	Diagnostics []parser.Diagnostic `json:"diagnostics"`
	Matches     []*parser.Element   `json:"matches"`
}

func newParseRouter() *chi.Mux {
	return newTestRouter(&documentHandler{
		documentService: service.NewDocumentService(service.NewDocumentServiceParams{}),
	})
}

func TestDocumentHandler_Parse(t *testing.T) {
	router := newParseRouter()

	rec := serve(router, http.MethodPost, "/api/v1/parse?class=news", []byte(`<div class="news"><p>hi</p></div><span>`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d. Body: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var result parseResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	div := result.Root.Children[0]
	if div.Tag.Kind != parser.DIV_TAG || div.Attributes["class"] != "news" {
		t.Errorf("div = %+v", div)
	}
	if p := div.Children[0]; p.Tag.Kind != parser.P_TAG || p.Content != "hi" {
		t.Errorf("p = %+v", p)
	}
	if len(result.Matches) != 1 || result.Matches[0].Tag.Kind != parser.DIV_TAG {
		t.Errorf("matches = %+v, want the div", result.Matches)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != parser.UNCLOSED_ELEMENT {
		t.Errorf("diagnostics = %+v, want one UNCLOSED_ELEMENT", result.Diagnostics)
	}
}

func TestDocumentHandler_ParseSelectors(t *testing.T) {
	router := newParseRouter()

	body := []byte(`<article class="item newsletter"><a href="/1">one</a></article>` +
		`<article class="item news"><a href="/2" rel="nofollow">two</a></article>` +
		`<a href="/3" rel="nofollow">three</a>`)
	rec := serve(router, http.MethodPost, "/api/v1/parse?class=news&tag=article", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d. Body: %s", rec.Code, rec.Body)
	}

	var result parseResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Matches) != 1 || result.Matches[0].Text() != "two" {
		t.Errorf("matches = %+v, want the 'news' article", result.Matches)
	}

	rec = serve(router, http.MethodPost, "/api/v1/parse?tag=a&attr=rel%3Dnofollow", body)
	result = parseResult{}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Matches) != 2 {
		t.Errorf("matches = %d, want the two nofollow links", len(result.Matches))
	}
}

func TestDocumentHandler_ParseEncoding(t *testing.T) {
	router := newParseRouter()

	rec := serve(router, http.MethodPost, "/api/v1/parse?encoding=latin1", []byte("<p>caf\xe9</p>"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d. Body: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"content":"café"`) {
		t.Errorf("body = %s, want decoded content", rec.Body)
	}

	rec = serve(router, http.MethodPost, "/api/v1/parse?encoding=klingon", []byte("<p>x</p>"))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnsupportedMediaType)
	}
}

func TestDocumentHandler_NewDocumentEmpty(t *testing.T) {
	router := newParseRouter()

	rec := serve(router, http.MethodPost, "/api/v1/documents", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
