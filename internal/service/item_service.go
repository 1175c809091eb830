package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени, используется в тестах.
func (s *ItemService) WithClock(now func() time.Time) *ItemService {
	s.now = now
	return s
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetail, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListItemsByOwner(ctx, ownerID, pageFor(from, size))
	if err != nil {
		return nil, err
	}

	details := make([]*models.ItemDetail, 0, len(items))
	for _, item := range items {
		detail, err := s.buildDetail(ctx, item, ownerID)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *ItemService) GetByID(ctx context.Context, itemID, viewerID int64) (*models.ItemDetail, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, item, viewerID)
}

// buildDetail собирает карточку вещи. Соседние бронирования видны
// только владельцу, запросы к хранилищу уже отфильтрованы по owner_id.
func (s *ItemService) buildDetail(ctx context.Context, item *models.Item, viewerID int64) (*models.ItemDetail, error) {
	detail := &models.ItemDetail{Item: *item}

	comments, err := s.repo.ListCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	detail.Comments = comments

	if viewerID == item.OwnerID {
		now := s.now()
		detail.LastBooking, err = s.repo.LastBookingForItem(ctx, item.ID, viewerID, now)
		if err != nil {
			return nil, err
		}
		detail.NextBooking, err = s.repo.NextBookingForItem(ctx, item.ID, viewerID, now)
		if err != nil {
			return nil, err
		}
	}

	return detail, nil
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if item.RequestID != 0 {
		if _, err := s.repo.GetRequest(ctx, item.RequestID); err != nil {
			return nil, err
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventItemCreated, item)
	}
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, domain.Forbidden("only the owner can edit the item")
	}

	// Затираются только присланные поля
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, itemID, userID int64) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return domain.Forbidden("only the owner can delete the item")
	}
	return s.repo.DeleteItem(ctx, itemID)
}

func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, strings.ToLower(text), pageFor(from, size))
}

func (s *ItemService) CreateComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error) {
	now := s.now()

	bookings, err := s.repo.ListAllBookingsByBooker(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Решает завершившееся бронирование этой вещи с самым поздним концом.
	var eligible *models.Booking
	for _, b := range bookings {
		if b.ItemID != itemID || !b.End.Before(now) {
			continue
		}
		if eligible == nil || b.End.After(eligible.End) {
			eligible = b
		}
	}
	if eligible == nil {
		return nil, domain.InvalidRequest(domain.ReasonNoPastBooking, "user has no bookings eligible for commenting")
	}
	if eligible.Status != models.StatusApproved {
		return nil, domain.InvalidRequest(domain.ReasonBadStatus, "booking status does not permit commenting")
	}

	author, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventCommentAdded, events.CommentEventPayload{
			CommentID:  comment.ID,
			ItemID:     comment.ItemID,
			AuthorID:   comment.AuthorID,
			AuthorName: comment.AuthorName,
			Text:       comment.Text,
		})
	}
	return comment, nil
}
