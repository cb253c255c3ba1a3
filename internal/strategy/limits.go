package strategy

// MaxBuy returns the largest buy quantity that keeps position within +limit,
// capped at want. The result may be zero or negative; callers must skip the
// order in that case rather than emit it.
func MaxBuy(position, limit, want int) int {
	return min(limit-position, want)
}

// MaxSell returns the largest sell quantity that keeps position within -limit,
// capped at want. Same contract as MaxBuy: non-positive results mean no order.
func MaxSell(position, limit, want int) int {
	return min(position+limit, want)
}
