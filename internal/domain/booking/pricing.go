package booking

// PriceCents derives the booking total from the vehicle's hourly rate.
// Partial hours round up, so a 2.5h rental is billed as 3 hours.
func PriceCents(iv Interval, hourlyRateCents int64) (Money, error) {
	seconds := int64(iv.Duration().Seconds())
	if seconds <= 0 {
		return Money{}, ErrInvalidInterval
	}

	hours := (seconds + 3599) / 3600
	return NewMoney(hours * hourlyRateCents)
}
