package repository

// Page is the envelope returned by all paginated listings. The field set follows
// the JSON contract the web client already consumes.
type Page[T any] struct {
	Docs          []T   `json:"docs"`
	TotalDocs     int64 `json:"totalDocs"`
	Limit         int   `json:"limit"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	PagingCounter int   `json:"pagingCounter"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	HasNextPage   bool  `json:"hasNextPage"`
	PrevPage      *int  `json:"prevPage"`
	NextPage      *int  `json:"nextPage"`
}

func NewPage[T any](docs []T, totalDocs int64, page int, limit int) *Page[T] {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = 1
	}

	totalPages := int((totalDocs + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	result := Page[T]{
		Docs:          docs,
		TotalDocs:     totalDocs,
		Limit:         limit,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: (page-1)*limit + 1,
	}

	if page > 1 {
		prev := page - 1
		result.HasPrevPage = true
		result.PrevPage = &prev
	}

	if page < totalPages {
		next := page + 1
		result.HasNextPage = true
		result.NextPage = &next
	}

	return &result
}

func offsetFor(page int, limit int) int {
	if page < 1 {
		page = 1
	}

	return (page - 1) * limit
}
