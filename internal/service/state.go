package service

import (
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// transition переводит бронирование из WAITING в конечный статус.
// Повторное решение по уже решённому бронированию запрещено.
func transition(booking *models.Booking, approved bool) error {
	if booking.Status != models.StatusWaiting {
		return domain.InvalidTransition("booking does not need a status change")
	}
	if approved {
		booking.Status = models.StatusApproved
	} else {
		booking.Status = models.StatusRejected
	}
	return nil
}

// filterByState отбирает бронирования по временному состоянию
// относительно переданного "сейчас". Границы строгие: бронирование
// с end == now не считается прошедшим.
func filterByState(bookings []*models.Booking, state models.BookingState, now time.Time) []*models.Booking {
	if state == models.StateAll {
		return bookings
	}

	filtered := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		switch state {
		case models.StateCurrent:
			if b.Start.Before(now) && b.End.After(now) {
				filtered = append(filtered, b)
			}
		case models.StatePast:
			if b.End.Before(now) {
				filtered = append(filtered, b)
			}
		case models.StateFuture:
			if b.Start.After(now) {
				filtered = append(filtered, b)
			}
		case models.StateWaiting:
			if b.Status == models.StatusWaiting {
				filtered = append(filtered, b)
			}
		case models.StateRejected:
			if b.Status == models.StatusRejected {
				filtered = append(filtered, b)
			}
		}
	}
	return filtered
}

// pageFor переводит пару from/size в номер страницы. При from < size
// страница принудительно нулевая, иначе целочисленное деление.
func pageFor(from, size int) domain.Page {
	if size <= 0 {
		size = models.DefaultPageSize
	}
	number := 0
	if from >= size {
		number = from / size
	}
	return domain.Page{Number: number, Size: size}
}
