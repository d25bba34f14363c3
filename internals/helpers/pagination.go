// pkg/pagination/pagination.go
package helper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage = 1
	MaxPage     = 100000
)

type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultLimit: 10, MaxLimit: 100}
	AdminOpts   = Options{DefaultLimit: 25, MaxLimit: 500}
)

type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // asc|desc
}

// ParseFiber reads ?page, ?limit (alias ?per_page), ?sort_by, ?sort_order (alias ?order).
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	p := Params{
		Page:      atoiDefault(c.Query("page"), DefaultPage),
		Limit:     atoiDefault(firstNonEmpty(c.Query("limit"), c.Query("per_page")), opt.DefaultLimit),
		SortBy:    strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.TrimSpace(firstNonEmpty(c.Query("sort_order"), c.Query("order"))),
	}
	return p.Normalize(defaultSortBy, defaultSortOrder, opt)
}

// Normalize clamps page/limit and fills sort defaults.
func (p Params) Normalize(defaultSortBy, defaultSortOrder string, opt Options) Params {
	if opt.DefaultLimit <= 0 {
		opt = DefaultOpts
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = opt.DefaultLimit
	}
	if opt.MaxLimit > 0 && p.Limit > opt.MaxLimit {
		p.Limit = opt.MaxLimit
	}
	if p.SortBy == "" {
		p.SortBy = defaultSortBy
	}
	order := strings.ToLower(p.SortOrder)
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}
	p.SortOrder = order
	return p
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// OrderExpr resolves SortBy through a whitelist of columns, e.g. "registration_email ASC".
func (p Params) OrderExpr(allowed map[string]string, defaultKey string) (string, error) {
	col, ok := allowed[p.SortBy]
	if !ok {
		col, ok = allowed[defaultKey]
		if !ok {
			return "", fmt.Errorf("no valid default sort key")
		}
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir, nil
}

/* ===============================
   Pagination meta
=================================*/

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// BuildPagination: total_pages = ceil(total/limit), 0 when there are no rows.
func BuildPagination(total int64, page, limit int) Pagination {
	if limit <= 0 {
		limit = DefaultOpts.DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
