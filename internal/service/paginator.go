package service

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Paginator splits a listing of total items into pages of size items.
type Paginator struct {
	Total int64
	Size  int
}

// NumPages is at least 1, an empty listing has one empty page.
func (p Paginator) NumPages() int {
	if p.Total <= 0 || p.Size <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// Clamp maps a requested page number that does not exist onto the last page.
func (p Paginator) Clamp(number int) int {
	if n := p.NumPages(); number < 1 || number > n {
		return n
	}
	return number
}

// Offset of the first item on page number (already clamped).
func (p Paginator) Offset(number int) int {
	return (number - 1) * p.Size
}

// ParsePage reads a ?page= value. Anything that is not an integer is page 1;
// integers are returned as is and left to Clamp.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return math.MinInt
			}
			return math.MaxInt
		}
		return 1
	}
	return n
}
