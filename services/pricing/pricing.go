package pricing

import (
	"math"
	"time"

	"chalethaven/models"
)

// Nights returns the calendar-day difference between the two dates, each
// read in its own zone. Clock times and DST shifts do not count. A missing
// date or a span that does not move forward yields zero.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	n := int(calendarDay(checkOut).Sub(calendarDay(checkIn)).Hours() / 24)
	if n <= 0 {
		return 0
	}
	return n
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Calculate prices a stay. Price is per listing per night; occupancy does not factor in.
//
//	base   = nights * basePrice
//	taxes  = (base + cleaningFee) * taxRate / 100
//	total  = base + cleaningFee + taxes
//
// Callers are expected to reject a non-forward range before pricing it; if one
// slips through the breakdown is all zero.
func Calculate(checkIn, checkOut time.Time, rates models.RateCard) models.PriceBreakdown {
	b := models.PriceBreakdown{Currency: rates.Currency}

	nights := Nights(checkIn, checkOut)
	if nights == 0 {
		return b
	}

	base := float64(nights) * rates.BasePrice
	taxes := (base + rates.CleaningFee) * rates.TaxRate / 100

	b.Nights = nights
	b.BaseAmount = Round(base)
	b.CleaningFee = Round(rates.CleaningFee)
	b.Taxes = Round(taxes)
	b.Total = Round(b.BaseAmount + b.CleaningFee + b.Taxes)
	return b
}

// Round rounds an amount to cents.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Cents converts an amount to integer minor units.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
