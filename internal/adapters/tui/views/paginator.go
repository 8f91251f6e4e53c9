package views

// Paginator keeps a cursor over a list of rows and the window of rows that
// fits on screen
type Paginator struct {
	pageSize   int
	pageOffset int
	cursor     int
	total      int
}

// NewPaginator creates a new paginator with the given page size
func NewPaginator(pageSize int) *Paginator {
	p := &Paginator{}
	p.SetPageSize(pageSize)
	return p
}

// SetPageSize changes how many rows are visible at once
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 {
		size = 10
	}
	p.pageSize = size
	p.follow()
}

// SetTotal sets the number of rows, clamping the cursor
func (p *Paginator) SetTotal(total int) {
	p.total = total
	p.SetCursor(p.cursor)
}

// Total returns the number of rows
func (p *Paginator) Total() int {
	return p.total
}

// Cursor returns the absolute cursor position
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor moves the cursor, clamped to the rows
func (p *Paginator) SetCursor(pos int) {
	if pos >= p.total {
		pos = p.total - 1
	}
	if pos < 0 {
		pos = 0
	}
	p.cursor = pos
	p.follow()
}

// Move shifts the cursor by delta rows. Returns false when it could not move.
func (p *Paginator) Move(delta int) bool {
	before := p.cursor
	p.SetCursor(p.cursor + delta)
	return p.cursor != before
}

// NextPage moves the cursor one page down
func (p *Paginator) NextPage() bool {
	return p.Move(p.pageSize)
}

// PrevPage moves the cursor one page up
func (p *Paginator) PrevPage() bool {
	return p.Move(-p.pageSize)
}

// VisibleRange returns the [start, end) rows of the current window
func (p *Paginator) VisibleRange() (start, end int) {
	start = p.pageOffset
	end = min(p.pageOffset+p.pageSize, p.total)
	return
}

// follow scrolls the window so the cursor stays visible
func (p *Paginator) follow() {
	if p.cursor < p.pageOffset {
		p.pageOffset = p.cursor
	} else if p.cursor >= p.pageOffset+p.pageSize {
		p.pageOffset = p.cursor - p.pageSize + 1
	}
	if p.pageOffset < 0 {
		p.pageOffset = 0
	}
}
