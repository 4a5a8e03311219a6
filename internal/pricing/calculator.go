// Package pricing computes effective prices under an optional percentage
// discount. All values are plain decimal amounts; rounding for display is the
// caller's job and must happen once, at formatting time.
package pricing

// Line is one order position for total computation.
type Line struct {
	Price            float64
	Quantity         int
	ReductionPercent float64
}

// DiscountedUnitPrice returns price reduced by reductionPercent. A zero
// percentage leaves the price unchanged. Out-of-range percentages are clamped
// to [0, 100] so the result is never negative and never exceeds the base price.
func DiscountedUnitPrice(price, reductionPercent float64) float64 {
	if reductionPercent <= 0 {
		return price
	}
	if reductionPercent > 100 {
		reductionPercent = 100
	}
	return price * (1 - reductionPercent/100)
}

// LineTotal returns the discounted price for quantity units.
func LineTotal(price float64, quantity int, reductionPercent float64) float64 {
	return DiscountedUnitPrice(price, reductionPercent) * float64(quantity)
}

// OrderTotal sums LineTotal over all lines.
func OrderTotal(lines []Line) float64 {
	total := 0.0
	for _, l := range lines {
		total += LineTotal(l.Price, l.Quantity, l.ReductionPercent)
	}
	return total
}
