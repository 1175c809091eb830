package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo         domain.Repository
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:         repo,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock подменяет источник времени, используется в тестах.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

func (s *BookingService) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	booker, err := s.repo.GetUser(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Владельцу собственная вещь недоступна для бронирования; наружу
	// это выглядит как отсутствие вещи.
	if item.OwnerID == bookerID {
		return nil, domain.NotFound(domain.ReasonOwnBooking, "owner cannot book own item")
	}

	// Одна общая проверка на доступность и корректность интервала.
	if !item.Available || !start.Before(end) {
		return nil, domain.InvalidRequest(domain.ReasonBadParams, "invalid booking parameters")
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   item.ID,
		ItemName: item.Name,
		BookerID: booker.ID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBooking(booking.Status)
	s.publishEvent(events.EventBookingCreated, booking, booker.Name)
	s.enqueueSync(ctx, "append_booking", booking)

	return booking, nil
}

func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.NotFound(domain.ReasonNotOwner, "user is not the item's owner")
	}

	if err := transition(booking, approved); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBookingStatus(ctx, booking.ID, booking.Status); err != nil {
		return nil, err
	}

	eventType := events.EventBookingApproved
	if !approved {
		eventType = events.EventBookingRejected
	}
	metrics.IncBooking(booking.Status)
	s.publishEvent(eventType, booking, "")
	s.enqueueSync(ctx, "update_status", booking)

	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if userID != booking.BookerID && userID != item.OwnerID {
		return nil, domain.NotFound(domain.ReasonUnrelatedUser, "user unrelated to this item")
	}

	return booking, nil
}

func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}

	page, err := s.repo.ListBookingsByBooker(ctx, bookerID, pageFor(from, size))
	if err != nil {
		return nil, err
	}
	return s.filterPage(page, state)
}

func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	page, err := s.repo.ListBookingsByOwner(ctx, ownerID, pageFor(from, size))
	if err != nil {
		return nil, err
	}
	return s.filterPage(page, state)
}

// ListForExport отдаёт все бронирования вещей владельца для выгрузки,
// пустой список здесь не ошибка.
func (s *BookingService) ListForExport(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByOwner(ctx, ownerID, domain.Page{Number: 0, Size: models.ExportPageSize})
}

// filterPage применяет фильтр состояния к уже полученной странице.
// Пустая страница — ошибка ещё до разбора состояния, так что
// несуществующее состояние при нуле бронирований не репортится.
func (s *BookingService) filterPage(page []*models.Booking, rawState string) ([]*models.Booking, error) {
	if len(page) == 0 {
		return nil, domain.NotFound(domain.ReasonEmptyPage, "no bookings")
	}

	state, ok := models.ParseBookingState(rawState)
	if !ok {
		return nil, domain.InvalidRequest(domain.ReasonUnknownState, "Unknown state: %s", strings.ToUpper(rawState))
	}

	return filterByState(page, state, s.now()), nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, bookerName string) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID:  booking.ID,
		BookerID:   booking.BookerID,
		BookerName: bookerName,
		ItemID:     booking.ItemID,
		ItemName:   booking.ItemName,
		Status:     booking.Status,
		Start:      booking.Start,
		End:        booking.End,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, taskType string, booking *models.Booking) {
	if s.sheetsWorker == nil {
		return
	}
	if err := s.sheetsWorker.EnqueueTask(ctx, taskType, booking.ID, booking, booking.Status); err != nil {
		s.logger.Warn().Err(err).Int64("booking_id", booking.ID).Msg("failed to enqueue sync task")
	}
}
