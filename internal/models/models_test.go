package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingState(t *testing.T) {
	cases := []struct {
		raw   string
		want  BookingState
		valid bool
	}{
		{"ALL", StateAll, true},
		{"all", StateAll, true},
		{" current ", StateCurrent, true},
		{"Past", StatePast, true},
		{"FUTURE", StateFuture, true},
		{"waiting", StateWaiting, true},
		{"REJECTED", StateRejected, true},
		{"", StateAll, true},
		{"UNSUPPORTED_STATUS", "", false},
		{"approved", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseBookingState(tc.raw)
		assert.Equal(t, tc.valid, ok, "raw=%q", tc.raw)
		if tc.valid {
			assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
		}
	}
}

func TestBookingIsTerminal(t *testing.T) {
	b := &Booking{Status: StatusWaiting, Start: time.Now(), End: time.Now().Add(time.Hour)}
	assert.False(t, b.IsTerminal())

	b.Status = StatusApproved
	assert.True(t, b.IsTerminal())

	b.Status = StatusRejected
	assert.True(t, b.IsTerminal())
}
