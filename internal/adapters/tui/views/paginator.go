package views

// Paginator tracks the selected row of a list shown one page at a time.
// The page always contains the cursor.
type Paginator struct {
	size   int
	total  int
	cursor int
	offset int
}

// NewPaginator creates a paginator showing size rows per page
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = 10
	}
	return &Paginator{size: size}
}

// SetPageSize changes the rows per page. Terminals too small for one row
// are ignored.
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	p.size = size
	p.follow()
}

// SetTotal sets the number of rows and clamps the cursor to them
func (p *Paginator) SetTotal(total int) {
	p.total = max(total, 0)
	p.cursor = min(p.cursor, max(p.total-1, 0))
	p.follow()
}

// Cursor returns the selected row
func (p *Paginator) Cursor() int {
	return p.cursor
}

// CursorUp selects the previous row
func (p *Paginator) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
		p.follow()
	}
}

// CursorDown selects the next row
func (p *Paginator) CursorDown() {
	if p.cursor < p.total-1 {
		p.cursor++
		p.follow()
	}
}

// NextPage selects the first row of the next page
func (p *Paginator) NextPage() {
	if p.offset+p.size < p.total {
		p.offset += p.size
		p.cursor = p.offset
	}
}

// PrevPage selects the first row of the previous page
func (p *Paginator) PrevPage() {
	if p.offset > 0 {
		p.offset = max(p.offset-p.size, 0)
		p.cursor = p.offset
	}
}

// VisibleRange returns the rows [start, end) on the current page
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

// Page returns the current page and the page count, both at least 1
func (p *Paginator) Page() (current, count int) {
	count = max((p.total+p.size-1)/p.size, 1)
	return p.offset/p.size + 1, count
}

// Reset selects the first row
func (p *Paginator) Reset() {
	p.cursor, p.offset = 0, 0
}

// RemoveAtCursor drops the selected row. The cursor stays on the same
// position, moving up when the last row was removed.
func (p *Paginator) RemoveAtCursor() {
	if p.total == 0 {
		return
	}
	p.SetTotal(p.total - 1)
}

func (p *Paginator) follow() {
	if p.cursor < p.offset || p.cursor >= p.offset+p.size {
		p.offset = (p.cursor / p.size) * p.size
	}
}
