package listing

import (
	"errors"
	"fmt"

	"github.com/simp-lee/catalog/internal/domain"
)

// Status is the load status of a listing view.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// State is the complete, process-local state of one listing view. It is a
// value: every update returns a new State and leaves the receiver untouched,
// so front ends hold exactly one State and replace it on each event.
type State struct {
	Status   Status
	Err      string
	Products []domain.Product
	Filtered []domain.Product
	Term     string
	Page     int
}

// NewState returns the state of a view whose collection is still loading.
func NewState() State {
	return State{Status: StatusLoading, Page: 1, Filtered: []domain.Product{}}
}

// Loaded installs the fetched collection and re-applies the current term.
func (s State) Loaded(products []domain.Product) State {
	s.Status = StatusReady
	s.Err = ""
	s.Products = products
	return s.refilter()
}

// Failed records a load failure. The message replaces the table.
func (s State) Failed(err error) State {
	s.Status = StatusFailed
	s.Err = ErrorMessage(err)
	return s
}

// Search sets the search term, recomputes the filtered collection and returns
// to page 1, even when the term did not change the result.
func (s State) Search(term string) State {
	s.Term = term
	return s.refilter()
}

// GoTo moves to page. Pages outside [1, TotalPages] are ignored.
func (s State) GoTo(page int) State {
	if page < 1 || page > s.TotalPages() {
		return s
	}
	s.Page = page
	return s
}

// Next moves one page forward when possible.
func (s State) Next() State { return s.GoTo(s.Page + 1) }

// Prev moves one page back when possible.
func (s State) Prev() State { return s.GoTo(s.Page - 1) }

// First moves to the first page when there is one.
func (s State) First() State { return s.GoTo(1) }

// Last moves to the last page when there is one.
func (s State) Last() State { return s.GoTo(s.TotalPages()) }

func (s State) refilter() State {
	s.Filtered = Filter(s.Products, s.Term)
	s.Page = 1
	return s
}

// TotalPages returns the number of pages of the filtered collection.
func (s State) TotalPages() int {
	return TotalPages(len(s.Filtered))
}

// Items returns the products on the current page.
func (s State) Items() []domain.Product {
	return Slice(s.Filtered, s.Page)
}

// Total sums the prices of the current page's products only.
func (s State) Total() float64 {
	var sum float64
	for _, p := range s.Items() {
		sum += p.Price
	}
	return sum
}

// Range returns the pagination range for the current page.
func (s State) Range() []PageLink {
	return Range(s.Page, s.TotalPages())
}

// HasPrev reports whether a previous page exists.
func (s State) HasPrev() bool { return s.Page > 1 }

// HasNext reports whether a following page exists.
func (s State) HasNext() bool { return s.Page < s.TotalPages() }

// Summary describes the visible slice as "Showing From to To of Count entries".
type Summary struct {
	From  int
	To    int
	Count int
}

// Summary returns the one-based bounds of the current page within the
// filtered collection. From is zero when nothing matched.
func (s State) Summary() Summary {
	count := len(s.Filtered)
	first, last := Bounds(s.Page)
	from := 0
	if count > 0 {
		from = first + 1
	}
	return Summary{From: from, To: min(last, count), Count: count}
}

// String renders the summary line.
func (s Summary) String() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", s.From, s.To, s.Count)
}

// Caption returns the table caption, e.g. "List of Products (Page 2 of 3)".
func (s State) Caption() string {
	return fmt.Sprintf("List of Products (Page %d of %d)", s.Page, s.TotalPages())
}

// Found returns the result count line for an active search, or "" when no
// term is set.
func (s State) Found() string {
	if s.Term == "" {
		return ""
	}
	return fmt.Sprintf("Found %d results for %q", len(s.Filtered), s.Term)
}

// ErrorMessage extracts a human-readable message from a load error.
// Application errors contribute their message without the wrapped cause.
func ErrorMessage(err error) string {
	if err == nil {
		return "An error occurred"
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
