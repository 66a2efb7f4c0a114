package services

import (
	"math"

	"foodgram-backend/config"
)

type Page struct {
	Number int
	Size   int
}

// NewPage clamps the requested page into the configured bounds.
func NewPage(number, size int, cfg config.PaginationConfig) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = cfg.PageSize
	}
	if size > cfg.MaxPageSize {
		size = cfg.MaxPageSize
	}
	// Offset must stay representable.
	if size > 0 && number > math.MaxInt/size+1 {
		number = math.MaxInt/size + 1
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Pages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	return (int(total) + p.Size - 1) / p.Size
}
