package accounting

import (
	"fmt"
	"sort"

	"github.com/cliquepay/cliquepay_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Share is the amount pair carried by a split during a rescale.
type Share struct {
	Total     decimal.Decimal
	Remaining decimal.Decimal
}

// SplitEvenly divides total into n shares that sum to total exactly.
//
// The division happens in whole cents. Every share gets floor(cents/n) and the
// cents left over are handed out one each to the first shares, so share i is
// never smaller than share i+1 and never differs from it by more than a cent.
func SplitEvenly(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot split across %d participants", apperrors.ErrValidation, n)
	}
	if err := ValidateAmount("total amount", total); err != nil {
		return nil, err
	}

	cents := toCents(total)
	count := decimal.NewFromInt(int64(n))
	base, rem := cents.QuoRem(count, 0)
	extra := rem.IntPart()

	if base.IsZero() {
		return nil, fmt.Errorf("%w: %s is too small to split across %d participants", apperrors.ErrValidation, total.StringFixed(2), n)
	}

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < extra {
			c = c.Add(decimal.NewFromInt(1))
		}
		shares[i] = fromCents(c)
	}
	return shares, nil
}

// RescaleShares linearly rescales shares that currently sum to oldTotal so
// they sum to newTotal.
//
// Each new total is share*newTotal/oldTotal truncated to cents; the cents lost
// to truncation go to the shares with the largest truncated remainder, earlier
// shares first on ties. Remaining amounts follow their share's own factor,
// rounded half up. A zero remaining stays zero and a non-zero remaining never
// rounds down to zero.
func RescaleShares(shares []Share, oldTotal, newTotal decimal.Decimal) ([]Share, error) {
	if oldTotal.IsZero() {
		return nil, fmt.Errorf("%w: cannot rescale an expense whose total is zero", apperrors.ErrValidation)
	}
	if err := ValidateAmount("total amount", newTotal); err != nil {
		return nil, err
	}
	if !SumTotals(shares).Equal(oldTotal) {
		return nil, fmt.Errorf("%w: shares sum to %s, expected %s", apperrors.ErrInternal, SumTotals(shares).StringFixed(2), oldTotal.StringFixed(2))
	}

	oldCents := toCents(oldTotal)
	newCents := toCents(newTotal)

	type part struct {
		index int
		cents decimal.Decimal
		rem   decimal.Decimal
	}
	parts := make([]part, len(shares))
	assigned := decimal.Zero
	for i, s := range shares {
		q, r := toCents(s.Total).Mul(newCents).QuoRem(oldCents, 0)
		parts[i] = part{index: i, cents: q, rem: r}
		assigned = assigned.Add(q)
	}

	leftover := newCents.Sub(assigned).IntPart()
	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return parts[order[a]].rem.GreaterThan(parts[order[b]].rem)
	})
	for k := int64(0); k < leftover; k++ {
		idx := order[k%int64(len(order))]
		parts[idx].cents = parts[idx].cents.Add(decimal.NewFromInt(1))
	}

	one := decimal.NewFromInt(1)
	out := make([]Share, len(shares))
	for i, s := range shares {
		totalCents := parts[i].cents
		if !totalCents.IsPositive() {
			return nil, fmt.Errorf("%w: %s is too small to keep every share above zero", apperrors.ErrValidation, newTotal.StringFixed(2))
		}

		remCents := decimal.Zero
		if s.Remaining.IsPositive() {
			remCents = toCents(s.Remaining).Mul(totalCents).Div(toCents(s.Total)).Round(0)
			if remCents.LessThan(one) {
				remCents = one
			}
			if remCents.GreaterThan(totalCents) {
				remCents = totalCents
			}
		}

		out[i] = Share{Total: fromCents(totalCents), Remaining: fromCents(remCents)}
	}
	return out, nil
}

// SumTotals returns the sum of the shares' totals.
func SumTotals(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Total)
	}
	return sum
}
