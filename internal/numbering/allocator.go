package numbering

import (
	"sort"
	"strconv"
)

// Series is one invoice numbering sequence: every number issued under it is
// Prefix followed by an integer >= Start, with no zero padding.
type Series struct {
	Prefix string
	Start  int
}

// Format renders the full invoice number for an allocated integer.
func (s Series) Format(n int) string {
	return s.Prefix + strconv.Itoa(n)
}

// NextNumber returns the smallest integer >= start that is not in existing.
// Gaps left by deleted invoices are reused before the series is extended past
// its maximum. Numbers below start and the zero value (unparsable suffixes)
// are ignored. The input order does not matter.
func NextNumber(start int, existing []int) int {
	inUse := make([]int, 0, len(existing))
	for _, n := range existing {
		if n >= start {
			inUse = append(inUse, n)
		}
	}
	sort.Ints(inUse)

	next := start
	for _, n := range inUse {
		if n > next {
			break
		}
		if n == next {
			next++
		}
	}
	return next
}

// SuffixOf parses the trailing run of digits of an issued invoice number.
// Numbers without a trailing digit run parse as 0, which NextNumber never
// considers in use.
func SuffixOf(invoiceNumber string) int {
	i := len(invoiceNumber)
	for i > 0 && invoiceNumber[i-1] >= '0' && invoiceNumber[i-1] <= '9' {
		i--
	}
	if i == len(invoiceNumber) {
		return 0
	}
	n, err := strconv.Atoi(invoiceNumber[i:])
	if err != nil {
		return 0
	}
	return n
}
