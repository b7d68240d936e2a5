package usecase

import (
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// NewPagination は totalPages = ceil(total/limit), hasMore = page < totalPages
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: pages,
		HasMore:    page < pages,
	}
}

// ParsePaging はクエリ文字列を読む。空なら既定値。
func ParsePaging(pageRaw, limitRaw string) (page, limit int, err error) {
	page, limit = defaultPage, defaultLimit

	if s := strings.TrimSpace(pageRaw); s != "" {
		page, err = strconv.Atoi(s)
		if err != nil || page < 1 {
			return 0, 0, Validation("page must be a positive integer")
		}
	}
	if s := strings.TrimSpace(limitRaw); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, Validation("limit must be between 1 and 100")
		}
	}
	return page, limit, nil
}
