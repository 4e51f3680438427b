package reply

import "testing"

func TestInterpretWithPending(t *testing.T) {
	r := Interpret("4 healing batch", true)
	if !r.QuantityValid || r.Quantity != 4 {
		t.Fatalf("quantity: want=4 valid got=%d valid=%v", r.Quantity, r.QuantityValid)
	}
	if r.Memo != "healing batch" {
		t.Fatalf("memo: want=%q got=%q", "healing batch", r.Memo)
	}
	if r.RawItem != "" {
		t.Fatalf("raw item: want empty got=%q", r.RawItem)
	}
}

func TestInterpretWithPendingCollapsesWhitespace(t *testing.T) {
	r := Interpret("  3　重要   アイテム \n", true)
	if r.Quantity != 3 || r.Memo != "重要 アイテム" {
		t.Fatalf("want=(3,%q) got=(%d,%q)", "重要 アイテム", r.Quantity, r.Memo)
	}
}

func TestInterpretWithPendingInvalidQuantity(t *testing.T) {
	r := Interpret("many herbs", true)
	if r.QuantityValid {
		t.Fatalf("want invalid quantity, got=%d", r.Quantity)
	}
	if r.Memo != "herbs" {
		t.Fatalf("memo: want=%q got=%q", "herbs", r.Memo)
	}
}

func TestInterpretWithPendingEmpty(t *testing.T) {
	r := Interpret("   ", true)
	if r.QuantityValid || r.Memo != "" {
		t.Fatalf("want invalid and empty memo, got=%+v", r)
	}
}

func TestInterpretFreeform(t *testing.T) {
	r := Interpret("Rock 5 found near river", false)
	if r.RawItem != "Rock" || r.Quantity != 5 || r.Memo != "found near river" {
		t.Fatalf("got=%+v", r)
	}
}

func TestInterpretFreeformDefaultsQuantityToZero(t *testing.T) {
	cases := []string{"Rock", "Rock lots of them"}
	for _, in := range cases {
		r := Interpret(in, false)
		if r.RawItem != "Rock" || r.Quantity != 0 {
			t.Fatalf("%q: want item Rock qty 0, got=%+v", in, r)
		}
	}
	r := Interpret("Rock lots of them", false)
	if r.Memo != "of them" {
		t.Fatalf("memo: want=%q got=%q", "of them", r.Memo)
	}
}

func TestInterpretFullWidthQuantity(t *testing.T) {
	r := Interpret("石 ５", false)
	if r.RawItem != "石" || r.Quantity != 5 {
		t.Fatalf("got=%+v", r)
	}
}
