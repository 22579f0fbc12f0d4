package view

import "fmt"

// Page describes the slice of a listing that is on screen. Start and End are
// half-open bounds into the ordered, filtered notes.
type Page struct {
	Number int
	Total  int
	Size   int
	Start  int
	End    int
	Count  int
}

// Paginate clamps requested into [1, total pages], using 1 when there are no
// pages at all.
func Paginate(count, requested, size int) Page {
	if size < 1 {
		size = DefaultItemsPerPage
	}
	if count < 0 {
		count = 0
	}
	total := (count + size - 1) / size
	number := requested
	if number > total {
		number = total
	}
	if number < 1 {
		number = 1
	}
	start := (number - 1) * size
	if start > count {
		start = count
	}
	end := start + size
	if end > count {
		end = count
	}
	return Page{Number: number, Total: total, Size: size, Start: start, End: end, Count: count}
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.Number < p.Total
}

// Showing renders the "Showing a-b of n" summary.
func (p Page) Showing() string {
	if p.Count == 0 {
		return "Showing 0-0 of 0"
	}
	return fmt.Sprintf("Showing %d-%d of %d", p.Start+1, p.End, p.Count)
}

// PageWindow returns up to max page numbers centered on current and shifted
// to stay inside [1, total].
func PageWindow(current, total, max int) []int {
	if total < 1 || max < 1 {
		return nil
	}
	start := current - max/2
	if start < 1 {
		start = 1
	}
	end := start + max - 1
	if end > total {
		end = total
		start = end - max + 1
		if start < 1 {
			start = 1
		}
	}
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}

// PageFor returns the 1-based page a display position lands on.
func PageFor(position, size int) int {
	if size < 1 {
		size = DefaultItemsPerPage
	}
	if position < 0 {
		return 1
	}
	return position/size + 1
}
