package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"chalethaven/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidateDatesAndGuests is the guard between step one and step two.
func ValidateDatesAndGuests(d models.BookingDraft, l models.Listing, now time.Time) error {
	if d.CheckIn.IsZero() || d.CheckOut.IsZero() {
		return invalid("dates", "Please select check-in and check-out dates.")
	}
	if !d.CheckOut.After(d.CheckIn) {
		return invalid("checkOut", "Check-out date must be after check-in date.")
	}
	if calendarDay(d.CheckIn).Before(calendarDay(now)) {
		return invalid("checkIn", "Check-in date cannot be in the past.")
	}
	if d.Adults < 1 {
		return invalid("adults", "At least one adult is required.")
	}
	if d.Children < 0 {
		return invalid("children", "Number of children cannot be negative.")
	}
	if max := l.Capacity.MaxGuests; max > 0 && d.Guests() > max {
		return invalid("guests", fmt.Sprintf("This chalet accommodates a maximum of %d guests.", max))
	}
	if !l.Availability.IsActive {
		return invalid("listing", "This chalet is not currently available for booking.")
	}
	for _, b := range l.Availability.Blocked {
		if b.Overlaps(d.CheckIn, d.CheckOut) {
			return invalid("dates", "The selected dates are not available.")
		}
	}
	return nil
}

// ValidateGuestInfo is the guard between step two and step three.
func ValidateGuestInfo(d models.BookingDraft) error {
	if strings.TrimSpace(d.FirstName) == "" {
		return invalid("firstName", "First name is required.")
	}
	if strings.TrimSpace(d.LastName) == "" {
		return invalid("lastName", "Last name is required.")
	}
	if strings.TrimSpace(d.Email) == "" {
		return invalid("email", "Email is required.")
	}
	if !ValidEmail(d.Email) {
		return invalid("email", "Please enter a valid email address.")
	}
	return nil
}

// calendarDay drops the clock and zone so dates from different zones compare by day.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
