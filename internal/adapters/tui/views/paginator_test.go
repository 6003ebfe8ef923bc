package views

import "testing"

func TestPaginator_Paging(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(7)

	for range 4 {
		p.CursorDown()
	}
	if p.Cursor() != 4 {
		t.Fatalf("cursor = %d, want 4", p.Cursor())
	}
	if start, end := p.VisibleRange(); start != 3 || end != 6 {
		t.Errorf("visible = [%d, %d), want [3, 6)", start, end)
	}
	if page, count := p.Page(); page != 2 || count != 3 {
		t.Errorf("page = %d of %d, want 2 of 3", page, count)
	}

	p.NextPage()
	if start, end := p.VisibleRange(); start != 6 || end != 7 {
		t.Errorf("last page = [%d, %d), want [6, 7)", start, end)
	}
	p.NextPage()
	if p.Cursor() != 6 {
		t.Errorf("cursor moved past the last page: %d", p.Cursor())
	}

	p.PrevPage()
	if p.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", p.Cursor())
	}
}

func TestPaginator_RemoveAtCursor(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		cursor     int
		wantCursor int
		wantEnd    int
	}{
		{name: "middle row keeps position", total: 5, cursor: 2, wantCursor: 2, wantEnd: 4},
		{name: "last row moves up", total: 5, cursor: 4, wantCursor: 3, wantEnd: 4},
		{name: "only row", total: 1, cursor: 0, wantCursor: 0, wantEnd: 0},
		{name: "empty list", total: 0, cursor: 0, wantCursor: 0, wantEnd: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginator(10)
			p.SetTotal(tt.total)
			for range tt.cursor {
				p.CursorDown()
			}

			p.RemoveAtCursor()
			if p.Cursor() != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", p.Cursor(), tt.wantCursor)
			}
			if _, end := p.VisibleRange(); end != tt.wantEnd {
				t.Errorf("end = %d, want %d", end, tt.wantEnd)
			}
		})
	}
}

func TestPaginator_RemoveLastRowOfPage(t *testing.T) {
	p := NewPaginator(2)
	p.SetTotal(3)
	p.NextPage()

	p.RemoveAtCursor()
	if p.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", p.Cursor())
	}
	if start, _ := p.VisibleRange(); start != 0 {
		t.Errorf("page start = %d, want 0", start)
	}
}
