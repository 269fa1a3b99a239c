package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{-3, 5, 1, 5},
		{2, -1, 2, 1},
		{4, 1000, 4, MaxPageSize},
		{7, 50, 7, 50},
	}
	for _, tc := range cases {
		p, s := ClampPage(tc.page, tc.size)
		if p != tc.wantPage || s != tc.wantSize {
			t.Errorf("ClampPage(%d, %d) = %d, %d; want %d, %d", tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
		}
	}
}

func TestOffsetAndTotalPages(t *testing.T) {
	if got := Offset(1, 20); got != 0 {
		t.Fatalf("Offset(1,20) = %d", got)
	}
	if got := Offset(3, 20); got != 40 {
		t.Fatalf("Offset(3,20) = %d", got)
	}
	if got := Offset(0, 20); got != 0 {
		t.Fatalf("Offset(0,20) = %d", got)
	}

	cases := map[int64]int{0: 0, 1: 1, 20: 1, 21: 2, 100: 5}
	for total, want := range cases {
		if got := TotalPages(total, 20); got != want {
			t.Errorf("TotalPages(%d, 20) = %d; want %d", total, got, want)
		}
	}
	if got := TotalPages(10, 0); got != 0 {
		t.Fatalf("TotalPages with zero size = %d", got)
	}
}
