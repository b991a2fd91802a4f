package product

import (
	"net/url"
	"strconv"

	"github.com/simp-lee/catalog/internal/listing"
	"github.com/simp-lee/catalog/internal/pkg"
)

// ListingPage is the template data of the product listing page. It embeds
// the listing state, so templates reach .Items, .Caption, .Range and the
// other state queries directly.
type ListingPage struct {
	listing.State
	BaseURL string
}

// NewListingPage wraps state for rendering with links relative to baseURL.
func NewListingPage(state listing.State, baseURL string) ListingPage {
	return ListingPage{State: state, BaseURL: baseURL}
}

// Loading reports whether the collection is still being fetched.
func (p ListingPage) Loading() bool { return p.Status == listing.StatusLoading }

// HasError reports whether loading the collection failed.
func (p ListingPage) HasError() bool { return p.Status == listing.StatusFailed }

// TotalText is the formatted price total of the current page.
func (p ListingPage) TotalText() string {
	return listing.FormatPrice(p.Total())
}

// PageURL returns the link to page keeping the current search term.
func (p ListingPage) PageURL(page int) string {
	v := url.Values{}
	if p.Term != "" {
		v.Set(pkg.SearchParam, p.Term)
	}
	v.Set(pkg.PageParam, strconv.Itoa(page))
	return p.BaseURL + "?" + v.Encode()
}
