package listing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/simp-lee/catalog/internal/domain"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s.Status != StatusLoading {
		t.Fatalf("Status = %v; want loading", s.Status)
	}
	if s.Page != 1 || s.TotalPages() != 0 || len(s.Items()) != 0 {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if got := s.Summary(); got != (Summary{From: 0, To: 0, Count: 0}) {
		t.Fatalf("Summary() = %+v", got)
	}
}

func TestState_SearchOwnerTotal(t *testing.T) {
	s := NewState().Loaded(sampleProducts()).Search("ali")

	if diff := cmp.Diff([]uint{1}, ids(s.Items())); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if s.Total() != 100 {
		t.Fatalf("Total() = %v; want 100", s.Total())
	}
	if s.TotalPages() != 1 {
		t.Fatalf("TotalPages() = %d; want 1", s.TotalPages())
	}
}

func TestState_TwentyFiveProducts(t *testing.T) {
	s := NewState().Loaded(generated(25))
	if s.TotalPages() != 3 {
		t.Fatalf("TotalPages() = %d; want 3", s.TotalPages())
	}

	s = s.GoTo(3)
	if s.Page != 3 {
		t.Fatalf("Page = %d; want 3", s.Page)
	}
	if len(s.Items()) != 5 {
		t.Fatalf("page 3 has %d items; want 5", len(s.Items()))
	}
	if got := s.Summary(); got != (Summary{From: 21, To: 25, Count: 25}) {
		t.Fatalf("Summary() = %+v", got)
	}
	// 210 + 220 + 230 + 240 + 250
	if s.Total() != 1150 {
		t.Fatalf("Total() = %v; want 1150", s.Total())
	}
}

func TestState_GoToOutOfRangeIsIgnored(t *testing.T) {
	s := NewState().Loaded(generated(25)).GoTo(2)

	for _, page := range []int{0, -3, 4, 100} {
		if got := s.GoTo(page); got.Page != 2 {
			t.Errorf("GoTo(%d) moved to page %d; want 2", page, got.Page)
		}
	}
}

func TestState_Navigation(t *testing.T) {
	s := NewState().Loaded(generated(25))

	if s.HasPrev() || !s.HasNext() {
		t.Fatalf("page 1: HasPrev=%v HasNext=%v", s.HasPrev(), s.HasNext())
	}
	if got := s.Prev(); got.Page != 1 {
		t.Fatalf("Prev() on page 1 moved to %d", got.Page)
	}

	s = s.Next().Next()
	if s.Page != 3 || s.HasNext() || !s.HasPrev() {
		t.Fatalf("after two Next: page=%d HasPrev=%v HasNext=%v", s.Page, s.HasPrev(), s.HasNext())
	}
	if got := s.Next(); got.Page != 3 {
		t.Fatalf("Next() on last page moved to %d", got.Page)
	}
	if got := s.First(); got.Page != 1 {
		t.Fatalf("First() = %d", got.Page)
	}
	if got := s.First().Last(); got.Page != 3 {
		t.Fatalf("Last() = %d", got.Page)
	}
}

func TestState_NavigationOnEmptyCollection(t *testing.T) {
	s := NewState().Loaded([]domain.Product{})
	for _, next := range []State{s.Next(), s.Prev(), s.First(), s.Last(), s.GoTo(1)} {
		if next.Page != 1 {
			t.Fatalf("navigation on empty collection moved to page %d", next.Page)
		}
	}
	if s.HasNext() || s.HasPrev() {
		t.Fatal("empty collection should have no neighbours")
	}
	if len(s.Range()) != 0 {
		t.Fatalf("Range() = %v; want empty", s.Range())
	}
}

func TestState_SearchResetsPage(t *testing.T) {
	s := NewState().Loaded(generated(25)).GoTo(3)

	same := s.Search(s.Term)
	if same.Page != 1 {
		t.Fatalf("unchanged search left page at %d", same.Page)
	}

	narrowed := s.Search("item 2")
	if narrowed.Page != 1 {
		t.Fatalf("search left page at %d", narrowed.Page)
	}
	// Item 20..25.
	if len(narrowed.Filtered) != 6 {
		t.Fatalf("len(Filtered) = %d; want 6", len(narrowed.Filtered))
	}
}

func TestState_LoadedReappliesTerm(t *testing.T) {
	s := NewState().Search("bob").Loaded(sampleProducts())
	if diff := cmp.Diff([]uint{2}, ids(s.Filtered)); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
	if s.Status != StatusReady {
		t.Fatalf("Status = %v; want ready", s.Status)
	}
}

func TestState_IsValue(t *testing.T) {
	base := NewState().Loaded(generated(25))
	_ = base.GoTo(3)
	_ = base.Search("zzz")
	if base.Page != 1 || len(base.Filtered) != 25 || base.Term != "" {
		t.Fatalf("receiver modified: page=%d filtered=%d term=%q", base.Page, len(base.Filtered), base.Term)
	}
}

func TestState_PageStaysInBounds(t *testing.T) {
	s := NewState().Loaded(generated(47))
	steps := []func(State) State{
		State.Next, State.Last, State.Next, State.Prev, State.First, State.Prev,
		func(s State) State { return s.Search("item 4") },
		State.Last, State.Next,
		func(s State) State { return s.Search("") },
		func(s State) State { return s.GoTo(5) },
		func(s State) State { return s.GoTo(6) },
	}
	for i, step := range steps {
		s = step(s)
		maxPage := max(1, s.TotalPages())
		if s.Page < 1 || s.Page > maxPage {
			t.Fatalf("step %d: page %d outside [1, %d]", i, s.Page, maxPage)
		}
		if len(s.Items()) > PageSize {
			t.Fatalf("step %d: %d items on a page", i, len(s.Items()))
		}
	}
	if s.Page != 5 {
		t.Fatalf("final page = %d; want 5", s.Page)
	}
}

func TestState_Failed(t *testing.T) {
	s := NewState().Failed(domain.NewAppError(domain.CodeUnavailable, "Failed to fetch products", errors.New("dial tcp: refused")))
	if s.Status != StatusFailed {
		t.Fatalf("Status = %v; want failed", s.Status)
	}
	if s.Err != "Failed to fetch products" {
		t.Fatalf("Err = %q", s.Err)
	}
	if len(s.Items()) != 0 {
		t.Fatal("failed state should have no items")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An error occurred"},
		{"plain", errors.New("boom"), "boom"},
		{"app error", domain.NewAppError(domain.CodeInternal, "Failed to fetch products", errors.New("x")), "Failed to fetch products"},
		{"wrapped app error", fmt.Errorf("load: %w", domain.NewAppError(domain.CodeUnavailable, "down", nil)), "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("ErrorMessage() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestState_Texts(t *testing.T) {
	s := NewState().Loaded(generated(25)).GoTo(3)
	if got := s.Caption(); got != "List of Products (Page 3 of 3)" {
		t.Errorf("Caption() = %q", got)
	}
	if got := s.Summary().String(); got != "Showing 21 to 25 of 25 entries" {
		t.Errorf("Summary() = %q", got)
	}
	if got := s.Found(); got != "" {
		t.Errorf("Found() without term = %q", got)
	}

	s = s.Search("item 1")
	if got := s.Found(); got != `Found 10 results for "item 1"` {
		t.Errorf("Found() = %q", got)
	}

	empty := NewState().Loaded(nil).Search("zzz")
	if got := empty.Caption(); got != "List of Products (Page 1 of 0)" {
		t.Errorf("empty Caption() = %q", got)
	}
	if got := empty.Summary().String(); got != "Showing 0 to 0 of 0 entries" {
		t.Errorf("empty Summary() = %q", got)
	}
}
