package model

import (
	"fmt"
	"strconv"
)

// FeeTable holds the fixed participation fee per registration type, in whole
// currency units. Fees are never stored on a registration.
type FeeTable struct {
	Currency   string
	Delegation int64
	Exhibition int64
}

var DefaultFees = FeeTable{
	Currency:   "KES",
	Delegation: 15000,
	Exhibition: 30000,
}

func (f FeeTable) Amount(t RegistrationType) int64 {
	switch t {
	case RegistrationTypeDelegation:
		return f.Delegation
	case RegistrationTypeExhibition:
		return f.Exhibition
	}
	return 0
}

// Format renders the fee for t as "KES 15,000".
func (f FeeTable) Format(t RegistrationType) string {
	return fmt.Sprintf("%s %s", f.Currency, groupThousands(f.Amount(t)))
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
