// Package pagination implements offset pagination with the stale-page
// fallback: a page beyond the filtered result set falls back to page 1
// instead of returning an empty set.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DefaultPerPage = 10

type Page struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
	Total    int64 `json:"total"`
}

// QueryParams reads page and per_page from the request query.
func QueryParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))
	return page, perPage
}

// Paginate counts the query, clamps a stale page number back to 1, and
// loads the requested window into dest.
func Paginate(q *gorm.DB, page, perPage int, dest interface{}) (Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page{}, err
	}

	if page > 1 && int64((page-1)*perPage) >= total {
		page = 1
	}

	if err := q.Offset((page - 1) * perPage).Limit(perPage).Find(dest).Error; err != nil {
		return Page{}, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return Page{Page: page, PerPage: perPage, LastPage: lastPage, Total: total}, nil
}
