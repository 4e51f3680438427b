package sheets

import "testing"

func TestToStrings(t *testing.T) {
	in := [][]interface{}{
		{"Potion", "2", nil, float64(3)},
		{},
	}
	got := toStrings(in)
	if len(got) != 2 {
		t.Fatalf("rows: want=2 got=%d", len(got))
	}
	want := []string{"Potion", "2", "", "3"}
	for i := range want {
		if got[0][i] != want[i] {
			t.Fatalf("cell %d: want=%q got=%q", i, want[i], got[0][i])
		}
	}
	if len(got[1]) != 0 {
		t.Fatalf("empty row: want=0 cells got=%d", len(got[1]))
	}
}
