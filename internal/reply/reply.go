// Package reply turns a user's free-text chat message into ledger input.
package reply

import (
	"strings"

	"github.com/yungbote/craftledger/internal/platform/intparse"
)

type Reply struct {
	// RawItem is set only on the freeform path, where the first token names the item.
	RawItem       string
	Quantity      int
	QuantityValid bool
	Memo          string
}

// Interpret splits text on any run of whitespace.
//
// With a pending selection the message reads "<quantity> [memo...]". Without one it reads
// "<item> [quantity] [memo...]" and a missing or unparsable quantity is 0.
func Interpret(text string, hasPending bool) Reply {
	tokens := strings.Fields(text)
	first, rest := "", []string(nil)
	if len(tokens) > 0 {
		first, rest = tokens[0], tokens[1:]
	}

	if hasPending {
		q, ok := intparse.Leading(first)
		return Reply{Quantity: q, QuantityValid: ok, Memo: strings.Join(rest, " ")}
	}

	r := Reply{RawItem: first}
	if len(rest) > 0 {
		r.Quantity, r.QuantityValid = intparse.Leading(rest[0])
		r.Memo = strings.Join(rest[1:], " ")
	}
	return r
}
