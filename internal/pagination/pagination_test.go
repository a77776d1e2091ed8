package pagination

import (
	"errors"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 1},
		{raw: "3", want: 3},
		{raw: " 2 ", want: 2},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParsePage(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrPageOutOfRange) {
				t.Fatalf("ParsePage(%q): expected ErrPageOutOfRange, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePage(%q): unexpected error %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePage(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		count     int
		wantErr   bool
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{name: "empty collection has page one", page: 1, count: 0, wantPages: 1},
		{name: "empty collection has no page two", page: 2, count: 0, wantErr: true},
		{name: "exact fit", page: 1, count: 10, wantPages: 1},
		{name: "first of two", page: 1, count: 15, wantPages: 2, wantNext: true},
		{name: "last of two", page: 2, count: 15, wantPages: 2, wantPrev: true},
		{name: "middle", page: 2, count: 25, wantPages: 3, wantNext: true, wantPrev: true},
		{name: "past the end", page: 3, count: 15, wantErr: true},
		{name: "zero page", page: 0, count: 15, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, err := New(tc.page, DefaultPageSize, tc.count)
			if tc.wantErr {
				if !errors.Is(err, ErrPageOutOfRange) {
					t.Fatalf("expected ErrPageOutOfRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.Pages() != tc.wantPages {
				t.Fatalf("Pages() = %d, want %d", w.Pages(), tc.wantPages)
			}
			if w.HasNext() != tc.wantNext {
				t.Fatalf("HasNext() = %v, want %v", w.HasNext(), tc.wantNext)
			}
			if w.HasPrevious() != tc.wantPrev {
				t.Fatalf("HasPrevious() = %v, want %v", w.HasPrevious(), tc.wantPrev)
			}
		})
	}
}

func TestWindowPositionIsGlobal(t *testing.T) {
	w, err := New(2, DefaultPageSize, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.Position(0); got != 11 {
		t.Fatalf("Position(0) on page 2 = %d, want 11", got)
	}
	start, end := w.Bounds(15)
	if start != 10 || end != 15 {
		t.Fatalf("Bounds(15) = [%d, %d), want [10, 15)", start, end)
	}
	if w.Offset() != 10 || w.Limit() != 10 {
		t.Fatalf("Offset/Limit = %d/%d, want 10/10", w.Offset(), w.Limit())
	}
}

func TestNewEnvelopeLinks(t *testing.T) {
	first, _ := New(1, DefaultPageSize, 25)
	env := NewEnvelope(Page[int]{Window: first, Items: []int{1, 2}}, "/api/songs")
	if env.Count != 25 {
		t.Fatalf("count = %d, want 25", env.Count)
	}
	if env.Previous != nil {
		t.Fatalf("previous on page 1 must be nil, got %q", *env.Previous)
	}
	if env.Next == nil || *env.Next != "/api/songs?page=2" {
		t.Fatalf("unexpected next link %v", env.Next)
	}

	last, _ := New(3, DefaultPageSize, 25)
	env = NewEnvelope(Page[int]{Window: last}, "/api/songs")
	if env.Next != nil {
		t.Fatalf("next on last page must be nil, got %q", *env.Next)
	}
	if env.Previous == nil || *env.Previous != "/api/songs?page=2" {
		t.Fatalf("unexpected previous link %v", env.Previous)
	}
	if env.Results == nil {
		t.Fatalf("results must encode as an empty array, got nil")
	}
}
