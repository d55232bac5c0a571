package model

import "strings"

// ProductCategory classifies a holding. The set is closed; every consumer switches over all
// values.
type ProductCategory string

const (
	CategoryStock ProductCategory = "STOCK"
	CategoryFII   ProductCategory = "FII"
	CategoryETF   ProductCategory = "ETF"
	CategoryFund  ProductCategory = "FUND"
	CategoryOther ProductCategory = "OTHER"
)

// ProductCategories lists every category in display order.
var ProductCategories = []ProductCategory{
	CategoryStock,
	CategoryFII,
	CategoryETF,
	CategoryFund,
	CategoryOther,
}

// ParseProductCategory converts a raw string into a ProductCategory, ignoring case and
// surrounding whitespace. Returns false when the value is not one of the known categories.
func ParseProductCategory(s string) (ProductCategory, bool) {
	c := ProductCategory(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is one of the known categories.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryStock, CategoryFII, CategoryETF, CategoryFund, CategoryOther:
		return true
	default:
		return false
	}
}

// Label returns the human readable name used by the allocation chart.
func (c ProductCategory) Label() string {
	switch c {
	case CategoryStock:
		return "Stocks"
	case CategoryFII:
		return "Real estate funds"
	case CategoryETF:
		return "ETFs"
	case CategoryFund:
		return "Funds"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}
