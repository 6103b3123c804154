package paginationutils

import (
	"errors"
	"fmt"
	"net/url"
)

var ErrInvalidPage = errors.New("invalid page")

type PaginationView struct {
	// Pages shown around the current one.
	// Example: 10 pages, current 5, cursorPadding 1 gives `1 ... 4 5 6 ... 10`
	cursorPadding      int
	itemsPerPage       int
	itemsCount         int
	pageQueryParamName string
	url                url.URL
}

type PaginationLink struct {
	Link        string `json:"link"`
	PageNumber  string `json:"page_number"`
	Current     bool   `json:"current,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

func (p *PaginationView) TotalPages() int {
	if p.itemsPerPage <= 0 {
		return 0
	}
	return (p.itemsCount + p.itemsPerPage - 1) / p.itemsPerPage
}

// visiblePages returns the first, the last and the pages around page in
// ascending order without duplicates.
func (p *PaginationView) visiblePages(page, totalPages int) []int {
	pages := []int{1}
	for i := page - p.cursorPadding; i <= page+p.cursorPadding; i++ {
		if i > pages[len(pages)-1] && i < totalPages {
			pages = append(pages, i)
		}
	}
	if totalPages > pages[len(pages)-1] {
		pages = append(pages, totalPages)
	}
	return pages
}

func (p *PaginationView) PagesLinks(page int) ([]PaginationLink, error) {
	totalPages := p.TotalPages()
	if totalPages == 0 && page == 1 {
		return nil, nil
	}

	if page > totalPages || page < 1 {
		return nil, errors.Join(ErrInvalidPage, fmt.Errorf("total pages: %d, page: %d", totalPages, page))
	}

	var result []PaginationLink
	prev := 0
	for _, number := range p.visiblePages(page, totalPages) {
		if prev != 0 && number-prev > 1 {
			result = append(result, p.makeLinkPlaceholder())
		}
		link := p.makeLinkFromUrl(number)
		link.Current = number == page
		result = append(result, link)
		prev = number
	}
	return result, nil
}

func (p *PaginationView) makeLinkFromUrl(page int) PaginationLink {
	queryValues := p.url.Query()
	queryValues.Set(p.pageQueryParamName, fmt.Sprint(page))

	p.url.RawQuery = queryValues.Encode()

	return PaginationLink{
		Link:       p.url.String(),
		PageNumber: fmt.Sprint(page),
	}
}

func (p *PaginationView) makeLinkPlaceholder() PaginationLink {
	return PaginationLink{
		Link:        "...",
		PageNumber:  "...",
		Placeholder: true,
	}
}

type NewPaginationViewParams struct {
	ItemsPerPage       int
	ItemsCount         int
	PageQueryParamName string
}

func NewPaginationView(url url.URL, params NewPaginationViewParams) *PaginationView {
	return &PaginationView{
		url:                url,
		cursorPadding:      1,
		itemsPerPage:       params.ItemsPerPage,
		itemsCount:         params.ItemsCount,
		pageQueryParamName: params.PageQueryParamName,
	}
}
