package views

import (
	"github.com/charmbracelet/bubbles/paginator"

	"whiteboard/internal/adapters/tui/styles"
)

// Paginator tracks a cursor over a long list and the page that shows it.
// Page indicators are drawn by the bubbles paginator.
type Paginator struct {
	pageSize   int
	pageOffset int
	cursor     int
	totalItems int
	dots       paginator.Model
}

// NewPaginator creates a new paginator with the given page size
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	dots := paginator.New()
	dots.Type = paginator.Arabic
	dots.ArabicFormat = "page %d/%d"
	dots.ActiveDot = styles.HelpKey.Render("•")
	dots.InactiveDot = styles.MutedText.Render("•")
	return &Paginator{pageSize: pageSize, dots: dots}
}

// SetPageSize changes the number of rows per page, keeping the cursor visible
func (p *Paginator) SetPageSize(n int) {
	if n <= 0 || n == p.pageSize {
		return
	}
	p.pageSize = n
	p.ensureCursorInPage()
}

// SetTotal sets the total number of items
func (p *Paginator) SetTotal(total int) {
	p.totalItems = total
	if p.cursor >= total {
		p.cursor = total - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.ensureCursorInPage()
}

// Total returns the number of items
func (p *Paginator) Total() int { return p.totalItems }

// Cursor returns the current cursor position (absolute index)
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor sets the cursor position
func (p *Paginator) SetCursor(pos int) {
	if pos >= p.totalItems {
		pos = p.totalItems - 1
	}
	if pos < 0 {
		pos = 0
	}
	p.cursor = pos
	p.ensureCursorInPage()
}

// CursorUp moves the cursor up by one
func (p *Paginator) CursorUp() bool {
	if p.cursor > 0 {
		p.cursor--
		p.ensureCursorInPage()
		return true
	}
	return false
}

// CursorDown moves the cursor down by one
func (p *Paginator) CursorDown() bool {
	if p.cursor < p.totalItems-1 {
		p.cursor++
		p.ensureCursorInPage()
		return true
	}
	return false
}

// VisibleRange returns the start and end indices for the current page
func (p *Paginator) VisibleRange() (start, end int) {
	start = p.pageOffset
	end = min(p.pageOffset+p.pageSize, p.totalItems)
	return
}

// TotalPages returns the total number of pages
func (p *Paginator) TotalPages() int {
	if p.totalItems == 0 {
		return 1
	}
	return (p.totalItems + p.pageSize - 1) / p.pageSize
}

// CurrentPage returns the current page number (1-based)
func (p *Paginator) CurrentPage() int {
	return p.pageOffset/p.pageSize + 1
}

// NextPage moves to the next page
func (p *Paginator) NextPage() bool {
	if p.pageOffset+p.pageSize < p.totalItems {
		p.pageOffset += p.pageSize
		p.cursor = p.pageOffset
		return true
	}
	return false
}

// PrevPage moves to the previous page
func (p *Paginator) PrevPage() bool {
	if p.pageOffset > 0 {
		p.pageOffset = max(p.pageOffset-p.pageSize, 0)
		p.cursor = p.pageOffset
		return true
	}
	return false
}

// View renders the page indicator, or nothing for a single page
func (p *Paginator) View() string {
	pages := p.TotalPages()
	if pages <= 1 {
		return ""
	}
	p.dots.TotalPages = pages
	p.dots.Page = p.CurrentPage() - 1
	if pages <= 12 {
		p.dots.Type = paginator.Dots
	} else {
		p.dots.Type = paginator.Arabic
	}
	return p.dots.View()
}

func (p *Paginator) ensureCursorInPage() {
	if p.cursor < p.pageOffset || p.cursor >= p.pageOffset+p.pageSize {
		p.pageOffset = (p.cursor / p.pageSize) * p.pageSize
	}
}
