package listing

import "strconv"

// PageSize is the fixed number of products shown per page.
const PageSize = 10

// Ellipsis is the label shown for a gap in the pagination range.
const Ellipsis = "..."

// TotalPages returns ceil(count / PageSize).
func TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + PageSize - 1) / PageSize
}

// Bounds returns the half-open index range [first, last) of page. The range
// is not clamped to any collection length.
func Bounds(page int) (first, last int) {
	first = (page - 1) * PageSize
	return first, first + PageSize
}

// Slice returns the items of page from items. Out-of-range pages yield an
// empty slice.
func Slice[T any](items []T, page int) []T {
	first, last := Bounds(page)
	if first < 0 || first >= len(items) {
		return []T{}
	}
	return items[first:min(last, len(items))]
}

// PageLink is one entry of the pagination range: a page number, or an
// ellipsis when Page is zero.
type PageLink struct {
	Page int
}

// IsEllipsis reports whether the link stands for skipped pages.
func (l PageLink) IsEllipsis() bool {
	return l.Page == 0
}

// String returns the label of the link.
func (l PageLink) String() string {
	if l.IsEllipsis() {
		return Ellipsis
	}
	return strconv.Itoa(l.Page)
}

// Range builds the page picker labels for current out of total pages.
//
// Up to seven pages are all listed. Beyond that the range keeps the first and
// last page and a window of three pages around current, with ellipses for the
// gaps: Range(1, 10) is [1 2 3 4 ... 10].
func Range(current, total int) []PageLink {
	links := make([]PageLink, 0, 9)
	if total <= 7 {
		for i := 1; i <= total; i++ {
			links = append(links, PageLink{Page: i})
		}
		return links
	}

	links = append(links, PageLink{Page: 1})
	if current > 3 {
		links = append(links, PageLink{})
	}

	start := max(2, current-1)
	end := min(total-1, current+1)
	if current <= 3 {
		end = 4
	}
	if current >= total-2 {
		start = total - 3
	}
	for i := start; i <= end; i++ {
		links = append(links, PageLink{Page: i})
	}

	if current < total-2 {
		links = append(links, PageLink{})
	}
	if total > 1 {
		links = append(links, PageLink{Page: total})
	}
	return links
}
