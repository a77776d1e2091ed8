// Package pagination implements 1-based page-number windows over ordered
// collections and the {count, next, previous, results} response envelope.
package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of items returned per page by every list endpoint.
const DefaultPageSize = 10

// ErrPageOutOfRange is returned for page numbers that are malformed, below 1,
// or past the last page.
var ErrPageOutOfRange = errors.New("invalid page")

// ParsePage reads a raw ?page= value. An empty value means the first page.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, ErrPageOutOfRange
	}
	return page, nil
}

// Window describes one page of a collection holding Count items.
type Window struct {
	Page  int
	Size  int
	Count int
}

// New builds the window for page. An empty collection still has a first page.
func New(page, size, count int) (Window, error) {
	if size < 1 {
		size = DefaultPageSize
	}
	w := Window{Page: page, Size: size, Count: count}
	if page < 1 || page > w.Pages() {
		return Window{}, ErrPageOutOfRange
	}
	return w, nil
}

// Pages returns the number of pages, never less than one.
func (w Window) Pages() int {
	if w.Count <= 0 {
		return 1
	}
	return (w.Count + w.Size - 1) / w.Size
}

// Offset is the index of the first item on the page.
func (w Window) Offset() int {
	return (w.Page - 1) * w.Size
}

// Limit is the maximum number of items on the page.
func (w Window) Limit() int {
	return w.Size
}

// Bounds returns the [start, end) slice bounds of the page inside a
// materialised collection of n items.
func (w Window) Bounds(n int) (int, int) {
	start := min(w.Offset(), n)
	end := min(start+w.Size, n)
	return start, end
}

func (w Window) HasNext() bool {
	return w.Page < w.Pages()
}

func (w Window) HasPrevious() bool {
	return w.Page > 1
}

// Position returns the global 1-based rank of the i-th item (0-based) on the page.
func (w Window) Position(i int) int {
	return w.Offset() + i + 1
}

// Page pairs a window with the items that fall inside it.
type Page[T any] struct {
	Window Window
	Items  []T
}

// Envelope is the JSON shape shared by every list endpoint.
type Envelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewEnvelope wraps a page. path is the request path the next/previous links
// are built on, e.g. /api/songs becomes /api/songs?page=2.
func NewEnvelope[T any](p Page[T], path string) Envelope[T] {
	env := Envelope[T]{
		Count:   p.Window.Count,
		Results: p.Items,
	}
	if env.Results == nil {
		env.Results = []T{}
	}
	if p.Window.HasNext() {
		link := pageLink(path, p.Window.Page+1)
		env.Next = &link
	}
	if p.Window.HasPrevious() {
		link := pageLink(path, p.Window.Page-1)
		env.Previous = &link
	}
	return env
}

func pageLink(path string, page int) string {
	return path + "?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()
}
