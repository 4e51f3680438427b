package intparse

import "testing"

func TestLeading(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"4", 4, true},
		{"  12 ", 12, true},
		{"12abc", 12, true},
		{"-3", -3, true},
		{"+7", 7, true},
		{"１２", 12, true},
		{"－５", -5, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"x12", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, ok := Leading(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Leading(%q): want=(%d,%v) got=(%d,%v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestOr(t *testing.T) {
	if got := Or("", 1); got != 1 {
		t.Fatalf("Or empty: want=1 got=%d", got)
	}
	if got := Or("2", 1); got != 2 {
		t.Fatalf("Or 2: want=2 got=%d", got)
	}
}
