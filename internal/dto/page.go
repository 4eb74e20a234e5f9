package dto

import "github.com/shopspring/decimal"

// Pagination is a 1-based page request
type Pagination struct {
	Page  int // 1-based page number
	Limit int // Rows per page
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Normalize clamps the page to at least 1 and the limit to (0, maxLimit], using def when unset
func (p Pagination) Normalize(def, maxLimit int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Page is a paginated list response
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage wraps a page of rows with its metadata
func NewPage[T any](data []T, total int64, p Pagination) Page[T] {
	if data == nil {
		data = []T{} // Serialize as [] rather than null
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit)) // Calculate total pages
	}
	return Page[T]{Data: data, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: totalPages}
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	Pagination
	CategoryID string           // Exact category id
	MinPrice   *decimal.Decimal // Inclusive lower bound
	MaxPrice   *decimal.Decimal // Inclusive upper bound
	Search     string           // Case-insensitive match on title, description or brand
	ActiveOnly bool             // Hide inactive products
}

// PageQuery carries page and limit query parameters
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// ProductQuery carries the query parameters of GET /products
type ProductQuery struct {
	PageQuery
	CategoryID string `form:"categoryId"`
	MinPrice   string `form:"minPrice"`
	MaxPrice   string `form:"maxPrice"`
	Search     string `form:"search"`
	IsActive   *bool  `form:"isActive"`
}

// LowStockQuery carries the query parameters of GET /products/stock/low
type LowStockQuery struct {
	Threshold *int `form:"threshold" binding:"omitempty,min=0"`
}
