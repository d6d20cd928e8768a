package views

import (
	"strings"
	"testing"
)

func TestPaginator(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(25)

	if got := p.TotalPages(); got != 3 {
		t.Errorf("TotalPages() = %d, want 3", got)
	}

	p.SetCursor(12)
	if start, end := p.VisibleRange(); start != 10 || end != 20 {
		t.Errorf("VisibleRange() = %d..%d, want 10..20", start, end)
	}

	if !p.NextPage() || p.Cursor() != 20 {
		t.Errorf("NextPage() cursor = %d", p.Cursor())
	}
	if start, end := p.VisibleRange(); start != 20 || end != 25 {
		t.Errorf("VisibleRange() = %d..%d, want 20..25", start, end)
	}
	if p.NextPage() {
		t.Error("NextPage() on last page should fail")
	}

	p.SetTotal(5)
	if p.Cursor() != 4 || p.CurrentPage() != 1 {
		t.Errorf("after shrink cursor=%d page=%d", p.Cursor(), p.CurrentPage())
	}

	p.SetTotal(0)
	if p.Cursor() != 0 || p.View() != "" {
		t.Errorf("empty paginator cursor=%d view=%q", p.Cursor(), p.View())
	}
}

func TestPaginatorViewSwitchesToNumbers(t *testing.T) {
	p := NewPaginator(1)
	p.SetTotal(40)
	p.SetCursor(4)
	if view := p.View(); !strings.Contains(view, "5/40") {
		t.Errorf("View() = %q, want page numbers", view)
	}
}
