// Package pagination turns a raw page token from a request into a validated
// page number, the last available page and a row offset.
package pagination

import (
	"errors"
	"strconv"
)

// DefaultPageSize is the number of posts or comments shown per page.
const DefaultPageSize = 10

// ErrInvalidPage is returned for page tokens that contain a non-digit
// or point past the last page.
var ErrInvalidPage = errors.New("invalid page")

// Page is a resolved page of a listing.
type Page struct {
	Number int `json:"page"`
	Max    int `json:"max_page"`
	Offset int `json:"-"`
	Size   int `json:"page_size"`
}

// ParsePage converts a raw page token. Missing, empty and all-zero tokens
// ("0", "00", ...) mean the first page.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	if !allDigits(raw) {
		return 0, ErrInvalidPage
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// only overflow is possible here
		return 0, ErrInvalidPage
	}
	if n == 0 {
		return 1, nil
	}
	return n, nil
}

// MaxPage is the number of pages needed for total items, never less than 1.
func MaxPage(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Offset is the number of rows to skip to reach page.
func Offset(page, size int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * size
}

// IsInvalidPage reports whether raw contains a non-digit or names a page
// beyond maxPage. It inspects the raw token, before any parsing.
func IsInvalidPage(raw string, maxPage int) bool {
	if !allDigits(raw) {
		return true
	}
	n, err := ParsePage(raw)
	if err != nil {
		return true
	}
	return n > maxPage
}

// Resolve validates raw against a listing of total items and returns the page
// to render. A size of zero or less uses DefaultPageSize.
func Resolve(raw string, total, size int) (Page, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	last := MaxPage(total, size)
	if IsInvalidPage(raw, last) {
		return Page{}, ErrInvalidPage
	}
	n, err := ParsePage(raw)
	if err != nil {
		return Page{}, err
	}
	return Page{Number: n, Max: last, Offset: Offset(n, size), Size: size}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
