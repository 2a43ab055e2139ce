// AngelaMos | 2026
// fees.go

package purchase

// SplitAmount divides a payment into the platform fee and the creator payout.
// The fee is amount*percent/100 rounded half away from zero; the payout is
// the remainder so the two always sum to amount.
func SplitAmount(amount int64, feePercent int) (fee, payout int64) {
	pct := int64(feePercent)

	product := amount * pct
	if product >= 0 {
		fee = (product + 50) / 100
	} else {
		fee = (product - 50) / 100
	}

	return fee, amount - fee
}
