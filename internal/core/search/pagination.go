package search

import (
	"fmt"
	"math"
)

// Page size bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*MaxPageSize inside int
	MaxPage = math.MaxInt / MaxPageSize
)

// PageMeta describes where a result page sits in the full result set
type PageMeta struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ClampPage bounds page to [1, MaxPage] and pageSize to [1, MaxPageSize]
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	} else if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = 1
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Window returns the offset and limit of a page after clamping
func Window(page, pageSize int) (skip, limit int) {
	page, pageSize = ClampPage(page, pageSize)
	return (page - 1) * pageSize, pageSize
}

// NewPageMeta derives paging metadata after clamping page and pageSize
func NewPageMeta(page, pageSize, totalCount int) PageMeta {
	page, pageSize = ClampPage(page, pageSize)
	if totalCount < 0 {
		totalCount = 0
	}

	totalPages := (totalCount + pageSize - 1) / pageSize

	return PageMeta{
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// ValidatePaging enforces the public boundary policy: a page below 1 or a
// non-positive page size is rejected; oversized pages are clamped later.
func ValidatePaging(page, pageSize int) error {
	if page < 1 {
		return NewValidationError("page", "page must be at least 1")
	}
	if page > MaxPage {
		return NewValidationError("page", fmt.Sprintf("page must be at most %d", MaxPage))
	}
	if pageSize <= 0 {
		return NewValidationError("pageSize", "pageSize must be at least 1")
	}
	return nil
}
