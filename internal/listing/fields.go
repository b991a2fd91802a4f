package listing

import (
	"strconv"
	"strings"

	"github.com/simp-lee/catalog/internal/domain"
)

// SearchField is one searchable column of a product, resolved by an explicit
// extractor instead of a dotted property path.
type SearchField struct {
	Label   string
	Extract func(domain.Product) string
}

// SearchFields lists the columns the search term is matched against.
var SearchFields = []SearchField{
	{Label: "name", Extract: func(p domain.Product) string { return p.Name }},
	{Label: "user.name", Extract: func(p domain.Product) string { return p.User.Name }},
	{Label: "price", Extract: func(p domain.Product) string { return PriceText(p.Price) }},
	{Label: "id", Extract: func(p domain.Product) string { return strconv.FormatUint(uint64(p.ID), 10) }},
}

// Matches reports whether any search field of p contains term, ignoring case.
func Matches(p domain.Product, term string) bool {
	return matchesLower(p, strings.ToLower(term))
}

// Filter returns the products matching term, preserving their order.
// The input slice is never modified.
func Filter(products []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(term)
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesLower(p, needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchesLower(p domain.Product, needle string) bool {
	for _, f := range SearchFields {
		if strings.Contains(strings.ToLower(f.Extract(p)), needle) {
			return true
		}
	}
	return false
}

// PriceText renders a price as plain decimal text, the form the search term
// is matched against (100 -> "100", 250.5 -> "250.5").
//
// The text is always positional, so 1e21 renders as
// "1000000000000000000000". Browsers print prices of that size in exponent
// form ("1e+21"), and a term typed from such a display will not match.
func PriceText(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
