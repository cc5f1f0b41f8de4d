package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxPage          = 100000
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ParsePagination reads ?page= and ?limit= with defaults and clamping.
func ParsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Offset is the row offset for page/limit. Out of range inputs are clamped
// so the product stays small.
func Offset(page, limit int) int {
	page = min(max(page, 1), MaxPage)
	limit = min(max(limit, 0), MaxPageLimit)
	return (page - 1) * limit
}

// NewPagination builds the pagination block for a response.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
