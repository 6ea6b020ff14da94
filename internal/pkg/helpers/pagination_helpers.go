package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // page numbers are 1-based
)

// NormalizePage clamps page/limit to their valid ranges.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return page, limit
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based
// on a 1-based page index.
func CalculateOffsetLimit(page, limit int) (offset uint64, normalizedLimit int) {
	page, normalizedLimit = NormalizePage(page, limit)
	offset = uint64((page - 1) * normalizedLimit)
	return offset, normalizedLimit
}

// LastPage computes ceil(total/limit). Zero totals yield a single page so
// clients can always render page 1.
func LastPage(total int64, limit int) int {
	_, limit = NormalizePage(1, limit)
	if total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// ParsePaginationParams extracts and validates pagination parameters
// (page/limit) from the request.
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	pageStr := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limitStr := c.DefaultQuery("limit", "10")
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	return page, limit
}
