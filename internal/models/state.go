package models

import "strings"

// BookingState classifies bookings in listings relative to "now" or by status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState normalizes a query string into a BookingState.
// The empty string means ALL. Matching is case-insensitive.
func ParseBookingState(raw string) (BookingState, bool) {
	if raw == "" {
		return StateAll, true
	}
	switch BookingState(strings.ToUpper(strings.TrimSpace(raw))) {
	case StateAll:
		return StateAll, true
	case StateCurrent:
		return StateCurrent, true
	case StatePast:
		return StatePast, true
	case StateFuture:
		return StateFuture, true
	case StateWaiting:
		return StateWaiting, true
	case StateRejected:
		return StateRejected, true
	default:
		return "", false
	}
}
