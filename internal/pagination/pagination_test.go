package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{PageRequest{}, 1, DefaultPageSize},
		{PageRequest{Page: 3, PageSize: 10}, 3, 10},
		{PageRequest{Page: -1, PageSize: 500}, 1, MaxPageSize},
	}
	for _, tt := range tests {
		p := tt.in
		p.Defaults()
		if p.Page != tt.wantPage || p.PageSize != tt.wantSize {
			t.Errorf("Defaults(%+v) = %+v, want page %d size %d", tt.in, p, tt.wantPage, tt.wantSize)
		}
	}
}

func TestPageRequest_Offset(t *testing.T) {
	p := PageRequest{Page: 3, PageSize: 20}
	if got := p.Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, 1, 20, 41)
	if resp.Data == nil {
		t.Error("expected non-nil data")
	}
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}

	empty := NewPageResponse([]int{}, 1, 0, 0)
	if empty.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", empty.TotalPages)
	}
}
