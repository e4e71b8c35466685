package validation

import (
	"net/url"
	"strconv"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query parameter names.
const (
	ParamPage  = "page"
	ParamLimit = "limit"
	ParamQuery = "q"
)

// PageQuery is a validated page/limit pair.
type PageQuery struct {
	Page  int
	Limit int
}

// SearchQuery is a validated search request.
type SearchQuery struct {
	Query string
	PageQuery
}

// ValidatePagination parses page and limit, applying defaults when absent.
// page must be >= 1 and limit in [1, MaxLimit].
func ValidatePagination(values url.Values) (PageQuery, Result) {
	var res Result
	q := PageQuery{Page: DefaultPage, Limit: DefaultLimit}

	if values.Has(ParamPage) {
		n, ok := parseInt(values.Get(ParamPage))
		switch {
		case !ok:
			res.Add(ParamPage, ErrNotInteger)
		case n < 1:
			res.Add(ParamPage, ErrOutOfRange)
		default:
			q.Page = n
		}
	}

	if values.Has(ParamLimit) {
		n, ok := parseInt(values.Get(ParamLimit))
		switch {
		case !ok:
			res.Add(ParamLimit, ErrNotInteger)
		case n < 1 || n > MaxLimit:
			res.Add(ParamLimit, ErrOutOfRange)
		default:
			q.Limit = n
		}
	}

	return q, res
}

// ValidateSearch requires a non-empty q in addition to pagination.
func ValidateSearch(values url.Values) (SearchQuery, Result) {
	page, res := ValidatePagination(values)

	query := values.Get(ParamQuery)
	if query == "" {
		res.Add(ParamQuery, ErrSearchMissing)
	}

	return SearchQuery{Query: query, PageQuery: page}, res
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
