// Package paginator splits ordered collections into fixed-size, 1-based
// pages. Out-of-range page numbers resolve to the last page rather than
// failing, and an empty collection still has one (empty) page.
package paginator

import (
	"strconv"
	"strings"
)

// Paginator describes how Count items split into pages of PerPage.
type Paginator struct {
	Count    int
	PerPage  int
	NumPages int
}

// New returns a Paginator for count items. A non-positive perPage falls
// back to one item per page.
func New(count, perPage int) *Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}

	numPages := (count + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}

	return &Paginator{Count: count, PerPage: perPage, NumPages: numPages}
}

// ParseNumber turns the raw "page" query value into a page number. Empty
// or non-integer input means the first page.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Clamp maps any page number onto an existing page: numbers below 1 or
// past the end resolve to the last page.
func (p *Paginator) Clamp(number int) int {
	if number < 1 || number > p.NumPages {
		return p.NumPages
	}
	return number
}

// Bounds returns the offset and limit that select page number (clamped).
func (p *Paginator) Bounds(number int) (offset, limit int) {
	number = p.Clamp(number)
	return (number - 1) * p.PerPage, p.PerPage
}

// Page is one slice of the collection plus its position.
type Page[T any] struct {
	Items     []T
	Number    int
	Paginator *Paginator
}

// NewPage wraps items already fetched for page number.
func NewPage[T any](items []T, number int, p *Paginator) *Page[T] {
	return &Page[T]{Items: items, Number: p.Clamp(number), Paginator: p}
}

// Paginate slices an in-memory sequence.
func Paginate[T any](seq []T, perPage, number int) *Page[T] {
	p := New(len(seq), perPage)
	offset, limit := p.Bounds(number)

	end := offset + limit
	if end > len(seq) {
		end = len(seq)
	}
	if offset > end {
		offset = end
	}

	return NewPage(seq[offset:end], number, p)
}

func (pg *Page[T]) Len() int { return len(pg.Items) }

func (pg *Page[T]) HasNext() bool { return pg.Number < pg.Paginator.NumPages }

func (pg *Page[T]) HasPrevious() bool { return pg.Number > 1 }

func (pg *Page[T]) HasOtherPages() bool { return pg.HasNext() || pg.HasPrevious() }

func (pg *Page[T]) NextPageNumber() int { return pg.Number + 1 }

func (pg *Page[T]) PreviousPageNumber() int { return pg.Number - 1 }

func (pg *Page[T]) NumPages() int { return pg.Paginator.NumPages }
